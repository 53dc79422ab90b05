package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/officeflow/internal/models"
)

func dialLogStream(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	var hello WSMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, "connected", hello.Type)
	return conn
}

func waitForClients(t *testing.T, h *LogStreamHandler, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestLogStream_FanOut(t *testing.T) {
	h := NewLogStreamHandler(arbor.NewNoOpLogger())
	server := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer server.Close()

	const subscribers = 3
	conns := make([]*websocket.Conn, subscribers)
	for i := range conns {
		conns[i] = dialLogStream(t, server)
		defer conns[i].Close()
	}
	waitForClients(t, h, subscribers)

	h.PublishLogs([]*models.LogEntry{
		{ID: "l-1", Type: models.LogTypeError, Message: "Database failed"},
		{ID: "l-2", Type: models.LogTypeInfo, Message: "started"},
	})

	for i, conn := range conns {
		var got []string
		for len(got) < 2 {
			var msg struct {
				Type    string           `json:"type"`
				Payload *models.LogEntry `json:"payload"`
			}
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
			require.NoError(t, conn.ReadJSON(&msg), "subscriber %d", i)
			require.Equal(t, "log", msg.Type)
			got = append(got, msg.Payload.ID)
		}
		assert.Equal(t, []string{"l-1", "l-2"}, got)
	}
}

func TestLogStream_DisconnectAndClose(t *testing.T) {
	h := NewLogStreamHandler(arbor.NewNoOpLogger())
	server := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer server.Close()

	first := dialLogStream(t, server)
	second := dialLogStream(t, server)
	defer second.Close()
	waitForClients(t, h, 2)

	require.NoError(t, first.Close())
	waitForClients(t, h, 1)

	// Publishing with no entries is a no-op
	h.PublishLogs(nil)

	h.Close()
	assert.Zero(t, h.ClientCount())

	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := second.ReadMessage()
	assert.Error(t, err)
}
