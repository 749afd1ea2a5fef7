package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// ServeConn binds an upgraded websocket connection to a hub subscription
// and blocks until the client disconnects or is dropped. Disconnection only
// triggers unsubscribe cleanup; it never touches in-flight trades.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	client := h.Subscribe()

	// Inbound frames are discarded; the read loop exists to detect the
	// peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.Unsubscribe(client)
				conn.Close()
				return
			}
		}
	}()

	for payload := range client.Receive() {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("ws_write_failed", zap.String("client", client.id.String()), zap.Error(err))
			h.Unsubscribe(client)
			conn.Close()
			// Drain until Unsubscribe closes the channel.
			for range client.Receive() {
			}
			return
		}
	}

	// Receive channel closed: the hub dropped this client.
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	conn.Close()
}
