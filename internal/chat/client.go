package chat

import (
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/concord-im/concord-relay/pkg/logger"
)

type Client struct {
	Id   string
	User string // optional, from the connect query; presence only
	Conn ConnLike
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

type ConnLike interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

func NewClient(id, user string, conn ConnLike) *Client {
	return &Client{Id: id, User: user, Conn: conn, Send: make(chan []byte, 16)}
}

// Enqueue hands a frame to the write pump without blocking. Frames for a
// closed client or a full queue are dropped.
func (c *Client) Enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
	c.mu.Unlock()
}

func (c *Client) ReadPump(m *RelayManager) {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			m.Unregister(c)
			return
		}
		m.HandleInbound(c, data)
	}
}

func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warnf("[ws] write conn=%s err=%v", c.Id, err)
		}
	}
	_ = c.Conn.Close()
}
