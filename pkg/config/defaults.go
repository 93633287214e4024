package config

import "time"

const (
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentProduction  = "production"

	StorageJSON   = "json"
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageBadger = "badger"
)

const (
	DefaultEnvironment = EnvironmentDevelopment
	DefaultConfigDir   = "config"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	DefaultStorageType = StorageJSON
	DefaultStoragePath = "data/meeting_rooms"

	DefaultRoomID       = "main-room"
	DefaultRoomCapacity = 20

	DefaultMongoURI            = "mongodb://localhost:27017"
	DefaultMongoDatabaseName   = "roombook"
	DefaultMongoCollectionName = "MeetingRooms"
	DefaultMongoConnTimeout    = 10 * time.Second

	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	DefaultShutdownTimeout = 10 * time.Second

	DefaultBadgerPath = "data/badger"

	DefaultEventsEnabled = false
	DefaultKafkaTopic    = "roombook.bookings"
	DefaultKafkaDLQTopic = ""
)
