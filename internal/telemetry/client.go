package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeTimeout = 5 * time.Second
	pongTimeout  = 30 * time.Second
	pingInterval = pongTimeout * 9 / 10
)

// client is one feed subscriber. Frames queue on send; a slow reader loses
// frames instead of stalling the hub.
type client struct {
	id     string
	remote string
	conn   *websocket.Conn
	send   chan []byte
	kind   int
	done   chan struct{}
	once   sync.Once

	sent    atomic.Uint64
	dropped atomic.Uint64
}

func newClient(conn *websocket.Conn, buffer, kind int) *client {
	return &client{
		id:     uuid.NewString(),
		remote: conn.RemoteAddr().String(),
		conn:   conn,
		send:   make(chan []byte, buffer),
		kind:   kind,
		done:   make(chan struct{}),
	}
}

func (c *client) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.dropped.Add(1)
	}
}

// close stops the write pump, which closes the connection on its way out.
func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (c *client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(messageType, data); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	return nil
}

// writePump is the only writer of conn.
func (c *client) writePump() error {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case data := <-c.send:
			if err := c.write(c.kind, data); err != nil {
				return err
			}
			c.sent.Add(1)
		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// readPump discards inbound messages and returns when the peer goes away.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
