package http

import (
	"corpsuite/internal/shared/contextkeys"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// chatRequest is a single support query sent over the stream.
type chatRequest struct {
	Query string `json:"query"`
}

// chatChunk is one streamed fragment of a support reply. The final
// fragment of a reply carries done=true.
type chatChunk struct {
	Text string `json:"text,omitempty"`
	Done bool   `json:"done,omitempty"`
	Err  string `json:"error,omitempty"`
}

// registerChatStream registers the chat support websocket endpoint.
func (h *ToolsHTTPHandler) registerChatStream(tools fiber.Router, guard Guard) {
	chat := tools.Group("/chat", guard.RequirePlan("chat-support"))

	chat.Use("/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			// The upgrade drops the fiber context, so carry the caller
			// identity over via Locals.
			c.Locals("user_id", c.UserContext().Value(contextkeys.UserIDKey))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	chat.Get("/stream", websocket.New(h.handleChatStream))
}

// handleChatStream answers support queries over an established
// websocket connection, streaming each reply in chunks.
func (h *ToolsHTTPHandler) handleChatStream(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)

	h.log.Info("Chat stream connected",
		zap.String("userID", userID))

	defer func() {
		h.log.Info("Chat stream closing",
			zap.String("userID", userID))
	}()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Error("Error reading chat message",
					zap.String("userID", userID),
					zap.Error(err))
			}
			return
		}

		chunks, err := h.chat.ReplyChunks(req.Query)
		if err != nil {
			if writeErr := conn.WriteJSON(chatChunk{Err: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		for _, text := range chunks {
			if err := conn.WriteJSON(chatChunk{Text: text}); err != nil {
				h.log.Error("Error writing chat chunk",
					zap.String("userID", userID),
					zap.Error(err))
				return
			}
		}
		if err := conn.WriteJSON(chatChunk{Done: true}); err != nil {
			return
		}
	}
}
