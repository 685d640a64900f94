// Package chat streams support-assistant replies over a websocket. The
// server pushes the answer in text chunks; the stream ends with a frame
// whose done flag is set.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"corpsuite/internal/shared/logger"

	"github.com/fasthttp/websocket"
)

const handshakeTimeout = 10 * time.Second

// Chunk is one streamed fragment of the assistant reply.
type Chunk struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
	Err  string `json:"error,omitempty"`
}

// ChunkHandler receives stream fragments in order. It is called from the
// stream's reader goroutine.
type ChunkHandler func(Chunk)

// Streamer dials the chat support endpoint and relays reply chunks.
type Streamer struct {
	url    string
	dialer *websocket.Dialer
	log    logger.Logger
}

// NewStreamer builds a Streamer for the given base URL. The http(s) scheme
// is rewritten to ws(s).
func NewStreamer(baseURL string, opts ...StreamerOption) *Streamer {
	s := &Streamer{
		url:    toWebsocketURL(strings.TrimRight(baseURL, "/")) + "/tools/chat/stream",
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		log:    logger.NewLogger().WithComponent("chat-stream"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithLogger overrides the stream logger.
func WithLogger(log logger.Logger) StreamerOption {
	return func(s *Streamer) { s.log = log }
}

// Stream sends the query and invokes onChunk for every fragment until the
// server marks the reply done, the context is cancelled, or the connection
// drops. It blocks until the stream ends.
func (s *Streamer) Stream(ctx context.Context, token, query string, onChunk ChunkHandler) error {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		return fmt.Errorf("failed to open chat stream: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"query": query}); err != nil {
		return fmt.Errorf("failed to send chat query: %w", err)
	}

	// Cancellation closes the connection, which unblocks ReadMessage.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("chat stream interrupted: %w", err)
		}

		var chunk Chunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			s.log.Debugf("Discarding malformed chat frame: %v", err)
			continue
		}
		onChunk(chunk)

		if chunk.Err != "" {
			return fmt.Errorf("chat stream failed: %s", chunk.Err)
		}
		if chunk.Done {
			return nil
		}
	}
}

func toWebsocketURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
