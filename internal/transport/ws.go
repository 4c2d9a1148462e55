package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send once the channel has been closed.
var ErrClosed = errors.New("channel closed")

const defaultHandshakeTimeout = 15 * time.Second

// Options configures channel construction.
type Options struct {
	HandshakeTimeout time.Duration
	Header           http.Header
}

// Channel is one WebSocket connection carrying JSON control messages outbound
// and raw event frames inbound. A channel belongs to exactly one session.
type Channel struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial opens a WebSocket connection to url.
func Dial(ctx context.Context, url string, opts Options) (*Channel, error) {
	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	if dialer.HandshakeTimeout <= 0 {
		dialer.HandshakeTimeout = defaultHandshakeTimeout
	}

	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("dial %s: %w (http %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Channel{conn: conn}, nil
}

// Send writes v as a JSON text message. Safe for use after Close: it reports
// ErrClosed instead of writing to a dead connection.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Close sends a best-effort close frame and closes the connection. Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	return c.conn.Close()
}

// Run starts the read pump. Inbound frames are delivered to onMessage in
// arrival order; when the connection ends, onClosed fires exactly once with
// the read error and the pump stops. After a local Close the resulting read
// error is still reported; callers that closed deliberately ignore it.
func (c *Channel) Run(onMessage func([]byte), onClosed func(error)) {
	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				onClosed(err)
				return
			}
			onMessage(data)
		}
	}()
}
