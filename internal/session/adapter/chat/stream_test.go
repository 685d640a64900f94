package chat_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"corpsuite/internal/session/adapter/chat"

	gws "github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = gws.Upgrader{}

func newStreamServer(t *testing.T, handler func(conn *gws.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tools/chat/stream", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		handler(conn, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStream_DeliversChunksInOrder(t *testing.T) {
	srv := newStreamServer(t, func(conn *gws.Conn, r *http.Request) {
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))

		var q map[string]string
		require.NoError(t, conn.ReadJSON(&q))
		assert.Equal(t, "how do I export?", q["query"])

		conn.WriteJSON(chat.Chunk{Text: "You can "})
		conn.WriteJSON(chat.Chunk{Text: "export from the report page."})
		conn.WriteJSON(chat.Chunk{Done: true})
	})

	s := chat.NewStreamer(srv.URL)

	var got []string
	err := s.Stream(context.Background(), "T1", "how do I export?", func(c chat.Chunk) {
		if c.Text != "" {
			got = append(got, c.Text)
		}
	})

	require.NoError(t, err)
	assert.Equal(t, "You can export from the report page.", strings.Join(got, ""))
}

func TestStream_ServerError(t *testing.T) {
	srv := newStreamServer(t, func(conn *gws.Conn, r *http.Request) {
		var q map[string]string
		require.NoError(t, conn.ReadJSON(&q))
		conn.WriteJSON(chat.Chunk{Err: "assistant unavailable"})
	})

	s := chat.NewStreamer(srv.URL)
	err := s.Stream(context.Background(), "T1", "hi", func(chat.Chunk) {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "assistant unavailable")
}

func TestStream_ContextCancelAborts(t *testing.T) {
	started := make(chan struct{})
	srv := newStreamServer(t, func(conn *gws.Conn, r *http.Request) {
		var q map[string]string
		require.NoError(t, conn.ReadJSON(&q))
		conn.WriteJSON(chat.Chunk{Text: "thinking"})
		close(started)
		// hold the stream open; the client cancels
		time.Sleep(2 * time.Second)
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := chat.NewStreamer(srv.URL)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Stream(ctx, "T1", "hi", func(chat.Chunk) {})
	}()

	<-started
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not abort on cancel")
	}
}

func TestStream_DialFailure(t *testing.T) {
	s := chat.NewStreamer("http://127.0.0.1:1")
	err := s.Stream(context.Background(), "", "hi", func(chat.Chunk) {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open chat stream")
}
