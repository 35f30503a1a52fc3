package handlers

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"iot-panel/relay"
	"iot-panel/ws"
)

// WSHandler owns the relay-facing websocket endpoint.
type WSHandler struct {
	engine *relay.Engine
	log    zerolog.Logger
}

func NewWSHandler(engine *relay.Engine, log zerolog.Logger) *WSHandler {
	return &WSHandler{engine: engine, log: log.With().Str("component", "ws").Logger()}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleWS upgrades to websocket and pumps messages into the relay engine.
// Devices and dashboards share this endpoint; no handshake is required.
// GET /ws
func (h *WSHandler) HandleWS(c *gin.Context) {
	addr := peerAddr(c.Request)

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Str("ip", addr).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConn(addr, wsConn)
	if err := h.engine.Connect(addr, conn); err != nil {
		h.log.Error().Err(err).Str("ip", addr).Msg("device resolution failed")
		_ = conn.Close()
		return
	}

	// Ensure the closed transition fires on every exit path
	defer h.engine.Disconnect(addr, conn)

	for {
		mt, message, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Info().Str("ip", addr).Msg("peer closed connection")
			} else {
				h.log.Warn().Err(err).Str("ip", addr).Msg("read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.engine.HandleMessage(addr, message)
	}
}

// peerAddr reduces the remote address to its host part so a device
// reconnecting on a new ephemeral port maps to the same registry key.
func peerAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
