package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Time allowed to write a message to the peer. A send that cannot complete
// within this window is abandoned and the peer treated as closed.
const writeWait = 10 * time.Second

// Peer is one live transport session as seen by the registry and the relay.
// Send must be safe for concurrent use; Close must be idempotent.
type Peer interface {
	Send(payload []byte) error
	Close() error
}

// Conn wraps a gorilla websocket connection with a single-writer discipline
// and a bounded write deadline.
type Conn struct {
	addr      string
	ws        *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func NewConn(addr string, wsConn *websocket.Conn) *Conn {
	return &Conn{addr: addr, ws: wsConn}
}

// Addr returns the peer network address this connection was admitted under.
func (c *Conn) Addr() string { return c.addr }

func (c *Conn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.ws.Close()
	})
	return nil
}
