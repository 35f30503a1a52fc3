package httpHandler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"iot-panel/relay"
)

type CommandHandler struct {
	engine *relay.Engine
}

func NewCommandHandler(engine *relay.Engine) *CommandHandler {
	return &CommandHandler{engine: engine}
}

type commandReq struct {
	Identifier string `json:"identifier"`
	State      string `json:"state"`
}

// SendCommand handles POST /api/v1/commands
// { "identifier": "led_1", "state": "on" }
// Unlike the websocket path, delivery is reported: 200 when the command
// reached a live connection, 404 when none resolves for the identifier.
func (h *CommandHandler) SendCommand(c *gin.Context) {
	var req commandReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if req.Identifier == "" || req.State == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier and state are required"})
		return
	}

	if err := h.engine.SendCommand(req.Identifier, req.State); err != nil {
		if errors.Is(err, relay.ErrNotConnected) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not connected", "delivered": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "delivered": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "delivered": true})
}

// GetConnected handles GET /api/v1/devices/connected
func (h *CommandHandler) GetConnected(c *gin.Context) {
	addrs := h.engine.ConnectedAddresses()
	c.JSON(http.StatusOK, gin.H{"devices": addrs, "count": len(addrs)})
}
