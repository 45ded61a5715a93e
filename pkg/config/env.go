package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"
	EnvMobileOnly         = "MOBILE_ONLY"

	EnvReviewSessionTTL = "REVIEW_SESSION_TTL"

	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"

	EnvGenderAPIKey     = "GENDER_API_KEY"
	EnvGenderAPIBaseURL = "GENDER_API_BASE_URL"

	EnvOpenRouterAPIKey  = "OPENROUTER_API_KEY"
	EnvOpenRouterBaseURL = "OPENROUTER_BASE_URL"
	EnvVisionModel       = "VISION_MODEL"

	EnvCloudinaryCloudName = "CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "CLOUDINARY_API_SECRET"
	EnvCloudinaryBaseURL   = "CLOUDINARY_BASE_URL"

	EnvKafkaBrokers    = "KAFKA_BROKERS"
	EnvKafkaAuditTopic = "KAFKA_AUDIT_TOPIC"
)
