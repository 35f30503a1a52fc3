package httpHandler

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ServerInfoHandler struct {
	port string
}

func NewServerInfoHandler(port string) *ServerInfoHandler {
	return &ServerInfoHandler{port: port}
}

// GetServerInfo handles GET /api/server-info
// Discovery endpoint: dashboard clients call this to locate the relay
// instead of assuming address stability across reconnects.
func (h *ServerInfoHandler) GetServerInfo(c *gin.Context) {
	ip := lanIP()
	c.JSON(http.StatusOK, gin.H{
		"ip":       ip,
		"httpPort": h.port,
		"wsUrl":    fmt.Sprintf("ws://%s:%s/ws", ip, h.port),
	})
}

// lanIP picks the first non-loopback IPv4 address, falling back to
// localhost when the host has none.
func lanIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "localhost"
}
