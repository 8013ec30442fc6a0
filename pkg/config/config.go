package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"guidely/pkg/client"
	"guidely/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	NatsURL string

	AIBaseURL string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration

	ReplyTypingDelay  time.Duration
	ReplyComposeDelay time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	WSWriteWait      time.Duration
	WSPongWait       time.Duration
	WSPingInterval   time.Duration
	WSSendBufferSize int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		NatsURL: getEnvStr(EnvNatsURL, DefaultNatsURL),

		AIBaseURL: getEnvStr(EnvAIBaseURL, DefaultAIBaseURL),
		AIAPIKey:  getEnvStr(EnvAIAPIKey, ""),
		AIModel:   getEnvStr(EnvAIModel, DefaultAIModel),
		AITimeout: getEnvDuration(EnvAITimeout, DefaultAITimeout),

		ReplyTypingDelay:  getEnvDuration(EnvReplyTypingDelay, DefaultReplyTypingDelay),
		ReplyComposeDelay: getEnvDuration(EnvReplyComposeDelay, DefaultReplyComposeDelay),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		WSWriteWait:      getEnvDuration(EnvWSWriteWait, DefaultWSWriteWait),
		WSPongWait:       getEnvDuration(EnvWSPongWait, DefaultWSPongWait),
		WSPingInterval:   getEnvDuration(EnvWSPingInterval, DefaultWSPingInterval),
		WSSendBufferSize: getEnvNum(EnvWSSendBufferSize, DefaultWSSendBufferSize),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.NatsURL == "" {
		errors = append(errors, "NatsURL cannot be empty")
	}
	if cfg.AITimeout <= 0 {
		errors = append(errors, fmt.Sprintf("AITimeout must be positive, got: %s", cfg.AITimeout))
	}
	if cfg.ReplyTypingDelay < 0 {
		errors = append(errors, fmt.Sprintf("ReplyTypingDelay cannot be negative, got: %s", cfg.ReplyTypingDelay))
	}
	if cfg.ReplyComposeDelay < 0 {
		errors = append(errors, fmt.Sprintf("ReplyComposeDelay cannot be negative, got: %s", cfg.ReplyComposeDelay))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.RateLimitRequests < 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests cannot be negative, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive when rate limiting is enabled, got: %s", cfg.RateLimitWindow))
	}

	if cfg.WSWriteWait <= 0 {
		errors = append(errors, fmt.Sprintf("WSWriteWait must be positive, got: %s", cfg.WSWriteWait))
	}
	if cfg.WSPongWait <= 0 {
		errors = append(errors, fmt.Sprintf("WSPongWait must be positive, got: %s", cfg.WSPongWait))
	}
	if cfg.WSPingInterval <= 0 || cfg.WSPingInterval >= cfg.WSPongWait {
		errors = append(errors, fmt.Sprintf("WSPingInterval must be positive and shorter than WSPongWait, got: %s", cfg.WSPingInterval))
	}
	if cfg.WSSendBufferSize <= 0 {
		errors = append(errors, fmt.Sprintf("WSSendBufferSize must be positive, got: %d", cfg.WSSendBufferSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"nats_url", cfg.NatsURL,
		"ai_base_url", cfg.AIBaseURL,
		"ai_key_set", cfg.AIAPIKey != "",
		"ai_model", cfg.AIModel,
		"ai_timeout", cfg.AITimeout,
		"reply_typing_delay", cfg.ReplyTypingDelay,
		"reply_compose_delay", cfg.ReplyComposeDelay,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"ws_write_wait", cfg.WSWriteWait,
		"ws_pong_wait", cfg.WSPongWait,
		"ws_ping_interval", cfg.WSPingInterval,
		"ws_send_buffer_size", cfg.WSSendBufferSize,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
