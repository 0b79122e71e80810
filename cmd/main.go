package main

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/scribely/scribely-realtime/internal/handlers"
	"github.com/scribely/scribely-realtime/internal/relay"
)

func main() {
	cfg := relay.NewConfigFromEnv()
	rly := relay.New(relay.NewMemStore(), cfg)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	// All real-time traffic rides one websocket endpoint.
	app.Get("/api/ws/chat", websocket.New(handlers.ChatSocketHandler(rly)))

	// Read API: presence snapshots plus recovery of persisted records for
	// clients that reconnected and missed the push.
	app.Get("/api/online", handlers.OnlineUsersHandler(rly))
	app.Get("/api/online/:userId", handlers.OnlineStatusHandler(rly))
	app.Get("/api/conversations/:conversationId/messages", handlers.ConversationMessagesHandler(rly))
	app.Get("/api/notifications/:userId", handlers.NotificationsHandler(rly))
	app.Get("/api/notifications/:userId/unread-count", handlers.UnreadCountHandler(rly))
	app.Post("/api/notifications/:userId/read", handlers.MarkNotificationsReadHandler(rly))

	log.Printf("relay listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
