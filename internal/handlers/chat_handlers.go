package handlers

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/concord-im/concord-relay/internal/chat"
)

// HistoryReader is the read side of the message store.
type HistoryReader interface {
	History(ctx context.Context, conversationID string, limit int64) ([]*chat.Message, error)
}

// PresenceReader reports whether a user currently holds a connection.
type PresenceReader interface {
	Lookup(ctx context.Context, user string) (bool, error)
}

// ConnectHandler GET /ws?user=
func ConnectHandler(m *chat.RelayManager) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		user := c.Query("user")
		client := chat.NewClient(uuid.NewString(), user, c)
		m.Register(client)
		go client.WritePump()
		client.ReadPump(m)
	}
}

// HealthHandler GET /health
func HealthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "UP",
		"timestamp": time.Now(),
	})
}

// HistoryHandler GET /api/conversations/:id/messages?limit=
func HistoryHandler(reader HistoryReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conversationID := c.Params("id")
		if conversationID == "" {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		limit := int64(c.QueryInt("limit", 50))
		msgs, err := reader.History(c.Context(), conversationID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "history read failed"})
		}
		if msgs == nil {
			msgs = []*chat.Message{}
		}
		return c.JSON(msgs)
	}
}

// PresenceHandler GET /api/presence/:user
func PresenceHandler(reader PresenceReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if reader == nil {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}
		user := c.Params("user")
		online, err := reader.Lookup(c.Context(), user)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "presence lookup failed"})
		}
		return c.JSON(fiber.Map{"user": user, "online": online})
	}
}
