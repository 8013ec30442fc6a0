package main

import (
	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"

	availabilityhandler "guidely/internal/availability/handler"
	availabilityrepo "guidely/internal/availability/repository"
	availabilityservice "guidely/internal/availability/service"
	bookinghandler "guidely/internal/bookings/handler"
	bookingrepo "guidely/internal/bookings/repository"
	bookingservice "guidely/internal/bookings/service"
	bookingvalidator "guidely/internal/bookings/validator"
	directoryrepo "guidely/internal/directory/repository"
	messaginghandler "guidely/internal/messaging/handler"
	messagingrepo "guidely/internal/messaging/repository"
	messagingservice "guidely/internal/messaging/service"
	"guidely/pkg/ai"
	"guidely/pkg/app"
	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/kafka"
	kafka_config "guidely/pkg/kafka/config"
	kafka_middleware "guidely/pkg/kafka/middleware"
	"guidely/pkg/transport"
)

const ServiceName = "api"

// apiRoutes aggregates the domain handlers behind one router registration.
type apiRoutes struct {
	bookings     *bookinghandler.BookingHandler
	availability *availabilityhandler.AvailabilityHandler
	messages     *messaginghandler.MessageHandler
}

func (r *apiRoutes) RegisterRoutes(router *httprouter.Router) {
	r.bookings.RegisterRoutes(router)
	r.availability.RegisterRoutes(router)
	r.messages.RegisterRoutes(router)
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting API service")

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)
	producer, err := kafka.NewProducer(kafkaCfg, events.TopicBookingEvents)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware())
	defer producer.Close()

	broadcaster, err := transport.NewNatsBroadcaster(cfg.NatsURL, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to NATS", "error", err)
	}
	defer broadcaster.Close()

	routes := initServices(cfg, producer, broadcaster)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(routes)
	serverApp.Run()
}

func initServices(cfg *config.Config, producer *kafka.Producer, broadcaster transport.Broadcaster) *apiRoutes {
	aiClient := ai.NewClient(ai.Config{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	}, cfg.Log)

	userRepo := directoryrepo.NewMongoUserRepository(cfg)
	guideRepo := directoryrepo.NewMongoGuideRepository(cfg)

	slotRepo := availabilityrepo.NewMongoSlotRepository(cfg)
	availabilitySvc := availabilityservice.NewAvailabilityService(slotRepo, cfg)

	bookingSvc := bookingservice.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		availabilitySvc,
		userRepo,
		guideRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		producer,
		cfg,
	)

	messagingSvc := messagingservice.NewMessagingService(
		messagingrepo.NewMongoMessageRepository(cfg),
		userRepo,
		guideRepo,
		aiClient,
		aiClient,
		broadcaster,
		cfg,
	)

	cfg.Log.Info("API services initialized", "database", cfg.MongoDatabaseName)
	return &apiRoutes{
		bookings:     bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
		availability: availabilityhandler.NewAvailabilityHandler(availabilitySvc, cfg.Log),
		messages:     messaginghandler.NewMessageHandler(messagingSvc, cfg.Log),
	}
}
