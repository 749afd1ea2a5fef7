package httpapi

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser frontend connects cross-origin; access control happens
	// on the API routes, the realtime channel is read-only market data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades the connection and binds it to the broadcast hub.
// The server only pushes on this channel; inbound frames are ignored.
func (s *Server) serveWS(cn *gin.Context) {
	conn, err := upgrader.Upgrade(cn.Writer, cn.Request, nil)
	if err != nil {
		s.Logger.Warn("ws_upgrade_failed", zap.Error(err))
		return
	}

	go s.Hub.ServeConn(conn)
}
