package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/concord-im/concord-relay/config"
	"github.com/concord-im/concord-relay/internal/chat"
	"github.com/concord-im/concord-relay/internal/handlers"
	"github.com/concord-im/concord-relay/internal/presence"
	"github.com/concord-im/concord-relay/internal/store"
	"github.com/concord-im/concord-relay/pkg/logger"
)

func main() {
	v, err := config.LoadConfig("config")
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		logger.Errorf("parse config: %v", err)
		os.Exit(1)
	}
	logger.Init(cfg.LoggerMode.Level)

	ctx := context.Background()

	uri, err := cfg.Mongo.ResolveURI()
	if err != nil {
		logger.Errorf("resolve mongo uri: %v", err)
		os.Exit(1)
	}
	client, err := store.Dial(ctx, uri)
	if err != nil {
		logger.Errorf("dial mongo: %v", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	messages := store.NewMessageStore(client.Database(cfg.Mongo.Database))
	if err := messages.EnsureIndexes(ctx); err != nil {
		logger.Warnf("ensure indexes: %v", err)
	}

	var tracker *presence.Tracker
	var pres chat.Presence
	var presReader handlers.PresenceReader
	if cfg.Redis.Addr != "" {
		tracker, err = presence.New(presence.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Errorf("dial redis: %v", err)
			os.Exit(1)
		}
		defer func() { _ = tracker.Close() }()
		pres = tracker
		presReader = tracker
	}

	manager := chat.NewRelayManager(messages, pres)

	api := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.Get("/health", handlers.HealthHandler)
	api.Get("/api/conversations/:id/messages", handlers.HistoryHandler(messages))
	api.Get("/api/presence/:user", handlers.PresenceHandler(presReader))

	ws := fiber.New(fiber.Config{DisableStartupMessage: true})
	ws.Get("/ws", websocket.New(handlers.ConnectHandler(manager)))

	go func() {
		logger.Infof("api listening on :%s", cfg.Server.APIPort)
		if err := api.Listen(":" + cfg.Server.APIPort); err != nil {
			logger.Errorf("api listen: %v", err)
		}
	}()
	go func() {
		logger.Infof("ws listening on :%s", cfg.Server.WSPort)
		if err := ws.Listen(":" + cfg.Server.WSPort); err != nil {
			logger.Errorf("ws listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	logger.Info("shutting down")
	_ = api.ShutdownWithTimeout(5 * time.Second)
	_ = ws.ShutdownWithTimeout(5 * time.Second)
}
