// Package handlers wires the relay into fiber: the websocket endpoint that
// carries all real-time events, and the REST read API clients use to recover
// persisted state after a reconnect.
package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/scribely/scribely-realtime/internal/relay"
)

// ChatSocketHandler upgrades the connection and runs its pumps. Cleanup is
// deferred unconditionally so any exit path — read error, timeout, explicit
// close — unregisters the connection exactly once.
func ChatSocketHandler(r *relay.Relay) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		client := r.NewClient(conn)
		r.Connect(client)
		defer r.Disconnect(client)
		go client.WritePump()
		client.ReadPump(r)
	}
}

// OnlineUsersHandler GET /api/online
func OnlineUsersHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userIds": r.OnlineUsers()})
	}
}

// OnlineStatusHandler GET /api/online/:userId
func OnlineStatusHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Params("userId")
		return c.JSON(fiber.Map{"userId": userID, "online": r.IsOnline(userID)})
	}
}

// ConversationMessagesHandler GET /api/conversations/:conversationId/messages
func ConversationMessagesHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		msgs, err := r.Store().ListMessages(c.Context(), c.Params("conversationId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(msgs)
	}
}

// NotificationsHandler GET /api/notifications/:userId
func NotificationsHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := r.Store().ListNotifications(c.Context(), c.Params("userId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(list)
	}
}

// UnreadCountHandler GET /api/notifications/:userId/unread-count
func UnreadCountHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := r.Store().UnreadNotificationCount(c.Context(), c.Params("userId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"userId": c.Params("userId"), "unread": count})
	}
}

// MarkNotificationsReadHandler POST /api/notifications/:userId/read
func MarkNotificationsReadHandler(r *relay.Relay) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := r.Store().MarkNotificationsRead(c.Context(), c.Params("userId")); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
