package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvNatsURL = "NATS_URL"

	EnvAIBaseURL = "AI_BASE_URL"
	EnvAIAPIKey  = "AI_API_KEY"
	EnvAIModel   = "AI_MODEL"
	EnvAITimeout = "AI_TIMEOUT"

	EnvReplyTypingDelay  = "REPLY_TYPING_DELAY"
	EnvReplyComposeDelay = "REPLY_COMPOSE_DELAY"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvWSWriteWait      = "WS_WRITE_WAIT"
	EnvWSPongWait       = "WS_PONG_WAIT"
	EnvWSPingInterval   = "WS_PING_INTERVAL"
	EnvWSSendBufferSize = "WS_SEND_BUFFER_SIZE"
)
