package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// retryInterval is the fixed backoff between reconnect attempts.
const retryInterval = 3 * time.Second

// Client is a dashboard-side relay connection: it locates the relay via the
// discovery endpoint, keeps a reconnecting websocket to it, and folds
// broadcasts into a local Mirror.
type Client struct {
	apiBase string
	httpc   *http.Client
	mirror  *Mirror
	log     zerolog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	onUpdate func()
}

func New(apiBase string, log zerolog.Logger) *Client {
	return &Client{
		apiBase: apiBase,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		mirror:  NewMirror(),
		log:     log.With().Str("component", "client").Logger(),
	}
}

// OnUpdate registers a callback invoked whenever the mirror changes.
// Must be set before Run.
func (c *Client) OnUpdate(fn func()) { c.onUpdate = fn }

// Devices returns the current mirrored device set.
func (c *Client) Devices() []Device { return c.mirror.Devices() }

// Run connects and pumps broadcasts into the mirror until ctx is done.
// Every reconnect re-resolves the relay endpoint through discovery; the
// relay's address is not assumed stable.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.connectAndRead(ctx); err != nil {
			c.log.Warn().Err(err).Msg("relay session ended, retrying")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryInterval):
		}
	}
}

type serverInfo struct {
	IP       string `json:"ip"`
	HTTPPort string `json:"httpPort"`
	WSURL    string `json:"wsUrl"`
}

func (c *Client) discover(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/server-info", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("discovery failed: status %d", resp.StatusCode)
	}
	var info serverInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}
	if info.WSURL == "" {
		return "", fmt.Errorf("discovery returned no ws url")
	}
	return info.WSURL, nil
}

func (c *Client) connectAndRead(ctx context.Context) error {
	wsURL, err := c.discover(ctx)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Info().Str("url", wsURL).Msg("connected to relay")

	// unblock ReadMessage when ctx is cancelled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.conn = nil
			c.mu.Unlock()
			_ = conn.Close()
			return err
		}
		if c.mirror.Apply(raw) && c.onUpdate != nil {
			c.onUpdate()
		}
	}
}

// Toggle sends a toggle_device command for identifier through the relay.
func (c *Client) Toggle(identifier, state string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	msg, _ := json.Marshal(map[string]string{
		"type":       "toggle_device",
		"identifier": identifier,
		"state":      state,
	})
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
