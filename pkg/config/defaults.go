package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "guidely"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultNatsURL = "nats://localhost:4222"

	DefaultAIBaseURL = "https://generativelanguage.googleapis.com"
	DefaultAIModel   = "gemini-2.0-flash"
	DefaultAITimeout = 10 * time.Second

	// Simulated reply pacing: pause before the typing indicator, then again
	// before the reply lands.
	DefaultReplyTypingDelay  = 1 * time.Second
	DefaultReplyComposeDelay = 2 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	// Per-client request budget over the sliding window. Zero disables the
	// limiter.
	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultWSWriteWait      = 10 * time.Second
	DefaultWSPongWait       = 60 * time.Second
	DefaultWSPingInterval   = 54 * time.Second // must be shorter than pong wait
	DefaultWSSendBufferSize = 256
)
