package config

const (
	EnvEnvironment = "ENVIRONMENT"
	EnvConfigDir   = "CONFIG_DIR"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvStorageType = "STORAGE_TYPE"
	EnvStoragePath = "STORAGE_PATH"

	EnvRoomID       = "ROOM_ID"
	EnvRoomCapacity = "ROOM_CAPACITY"

	EnvMongoURI            = "MONGO_URI"
	EnvMongoDatabaseName   = "MONGO_DATABASE_NAME"
	EnvMongoCollectionName = "MONGO_COLLECTION_NAME"
	EnvMongoConnTimeout    = "MONGO_CONN_TIMEOUT"

	EnvReadTimeout  = "READ_TIMEOUT"
	EnvWriteTimeout = "WRITE_TIMEOUT"

	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBadgerPath = "BADGER_PATH"

	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvKafkaTopic    = "KAFKA_TOPIC"
	EnvKafkaDLQTopic = "KAFKA_DLQ_TOPIC"
)
