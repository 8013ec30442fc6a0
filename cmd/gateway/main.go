package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	directoryrepo "guidely/internal/directory/repository"
	"guidely/internal/gateway"
	messagingrepo "guidely/internal/messaging/repository"
	messagingservice "guidely/internal/messaging/service"
	trackingservice "guidely/internal/tracking/service"
	"guidely/pkg/ai"
	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/kafka"
	kafka_config "guidely/pkg/kafka/config"
	kafka_middleware "guidely/pkg/kafka/middleware"
	"guidely/pkg/transport"
)

const ServiceName = "gateway"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting realtime gateway")

	broadcaster, err := transport.NewNatsBroadcaster(cfg.NatsURL, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to NATS", "error", err)
	}
	defer broadcaster.Close()

	aiClient := ai.NewClient(ai.Config{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	}, cfg.Log)

	userRepo := directoryrepo.NewMongoUserRepository(cfg)
	guideRepo := directoryrepo.NewMongoGuideRepository(cfg)

	messagingSvc := messagingservice.NewMessagingService(
		messagingrepo.NewMongoMessageRepository(cfg),
		userRepo,
		guideRepo,
		aiClient,
		aiClient,
		broadcaster,
		cfg,
	)
	trackingSvc := trackingservice.NewTrackingService(broadcaster, cfg)

	wsHandler := gateway.NewHandler(messagingSvc, trackingSvc, broadcaster, cfg)

	// Bridge booking lifecycle events from the bus to connected clients.
	bridge := gateway.NewBookingEventBridge(broadcaster, cfg)
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)
	consumer, err := kafka.NewConsumer(kafkaCfg, events.TopicBookingEvents, events.GroupGatewayBookings, bridge.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware())

	consumeCtx, cancelConsume := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(consumeCtx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(wsHandler.HandleConnection))

	serverErrors := make(chan error, 1)
	go func() {
		cfg.Log.Info("Gateway listening", "port", cfg.Port)
		serverErrors <- app.Listen(":" + cfg.Port)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		cfg.Log.Fatal("Gateway server failed", "error", err)

	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
	}

	cancelConsume()
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	if err := app.Shutdown(); err != nil {
		cfg.Log.Error("Gateway shutdown failed", "error", err)
	}
	cfg.Log.Info("Gateway stopped gracefully")
}
