package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombook/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	ConfigDir   string

	LogLevel  string
	LogFormat string

	StorageType string
	StoragePath string

	RoomID       string
	RoomCapacity int

	MongoURI            string
	MongoDatabaseName   string
	MongoCollectionName string
	MongoConnTimeout    time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	ShutdownTimeout time.Duration

	BadgerPath string

	EventsEnabled bool
	KafkaTopic    string
	KafkaDLQTopic string

	Log *logger.Logger
}

// Defaults returns a Config holding only built-in values.
func Defaults() *Config {
	return &Config{
		Environment: DefaultEnvironment,
		ConfigDir:   DefaultConfigDir,

		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,

		StorageType: DefaultStorageType,
		StoragePath: DefaultStoragePath,

		RoomID:       DefaultRoomID,
		RoomCapacity: DefaultRoomCapacity,

		MongoURI:            DefaultMongoURI,
		MongoDatabaseName:   DefaultMongoDatabaseName,
		MongoCollectionName: DefaultMongoCollectionName,
		MongoConnTimeout:    DefaultMongoConnTimeout,

		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,

		ShutdownTimeout: DefaultShutdownTimeout,

		BadgerPath: DefaultBadgerPath,

		EventsEnabled: DefaultEventsEnabled,
		KafkaTopic:    DefaultKafkaTopic,
		KafkaDLQTopic: DefaultKafkaDLQTopic,
	}
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, the JSONC file <CONFIG_DIR>/<ENVIRONMENT>.json, and environment
// variables (a .env file in the working directory is read first).
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.Environment = getEnvStr(EnvEnvironment, cfg.Environment)
	cfg.ConfigDir = getEnvStr(EnvConfigDir, cfg.ConfigDir)

	if err := cfg.applyFile(filepath.Join(cfg.ConfigDir, cfg.Environment+".json")); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load for main packages: it exits the process on failure.
func MustLoad(serviceName string) *Config {
	cfg, err := Load(serviceName)
	if err != nil {
		logger.New(logger.Config{Service: serviceName}).Fatal("Failed to load configuration", "error", err)
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) applyEnv() {
	cfg.LogLevel = getEnvStr(EnvLogLevel, cfg.LogLevel)
	cfg.LogFormat = getEnvStr(EnvLogFormat, cfg.LogFormat)

	cfg.StorageType = getEnvStr(EnvStorageType, cfg.StorageType)
	cfg.StoragePath = getEnvStr(EnvStoragePath, cfg.StoragePath)

	cfg.RoomID = getEnvStr(EnvRoomID, cfg.RoomID)
	cfg.RoomCapacity = getEnvNum(EnvRoomCapacity, cfg.RoomCapacity)

	cfg.MongoURI = getEnvStr(EnvMongoURI, cfg.MongoURI)
	cfg.MongoDatabaseName = getEnvStr(EnvMongoDatabaseName, cfg.MongoDatabaseName)
	cfg.MongoCollectionName = getEnvStr(EnvMongoCollectionName, cfg.MongoCollectionName)
	cfg.MongoConnTimeout = getEnvDuration(EnvMongoConnTimeout, cfg.MongoConnTimeout)

	cfg.ReadTimeout = getEnvDuration(EnvReadTimeout, cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration(EnvWriteTimeout, cfg.WriteTimeout)
	cfg.ShutdownTimeout = getEnvDuration(EnvShutdownTimeout, cfg.ShutdownTimeout)

	cfg.BadgerPath = getEnvStr(EnvBadgerPath, cfg.BadgerPath)

	cfg.EventsEnabled = getEnvBool(EnvEventsEnabled, cfg.EventsEnabled)
	cfg.KafkaTopic = getEnvStr(EnvKafkaTopic, cfg.KafkaTopic)
	cfg.KafkaDLQTopic = getEnvStr(EnvKafkaDLQTopic, cfg.KafkaDLQTopic)
}

func (cfg *Config) Validate() error {
	var errors []string

	switch cfg.Environment {
	case EnvironmentDevelopment, EnvironmentTest, EnvironmentProduction:
	default:
		errors = append(errors, fmt.Sprintf("Environment must be one of [development, test, production], got: %s", cfg.Environment))
	}

	if !logger.IsValidLevel(cfg.LogLevel) {
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be one of [json, text], got: %s", cfg.LogFormat))
	}
	if cfg.Environment == EnvironmentProduction && cfg.LogLevel == logger.DEBUG {
		errors = append(errors, "LogLevel debug is not allowed in production")
	}

	switch cfg.StorageType {
	case StorageJSON:
		if strings.TrimSpace(cfg.StoragePath) == "" {
			errors = append(errors, "StoragePath cannot be empty for json storage")
		}
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoCollectionName == "" {
			errors = append(errors, "MongoCollectionName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StorageBadger:
		if strings.TrimSpace(cfg.BadgerPath) == "" {
			errors = append(errors, "BadgerPath cannot be empty for badger storage")
		}
	default:
		errors = append(errors, fmt.Sprintf("StorageType must be one of [json, memory, mongo, badger], got: %s", cfg.StorageType))
	}

	if strings.TrimSpace(cfg.RoomID) == "" {
		errors = append(errors, "RoomID cannot be empty")
	} else if strings.ContainsAny(cfg.RoomID, `/\`) || strings.Contains(cfg.RoomID, "..") {
		errors = append(errors, fmt.Sprintf("RoomID cannot contain path separators or '..', got: %s", cfg.RoomID))
	}
	if cfg.RoomCapacity < 4 {
		errors = append(errors, fmt.Sprintf("RoomCapacity must be at least 4, got: %d", cfg.RoomCapacity))
	}

	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.EventsEnabled && strings.TrimSpace(cfg.KafkaTopic) == "" {
		errors = append(errors, "KafkaTopic cannot be empty when events are enabled")
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
	if cfg.Log == nil {
		return
	}
	cfg.Log.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"config_dir", cfg.ConfigDir,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"storage_type", cfg.StorageType,
		"storage_path", cfg.StoragePath,
		"room_id", cfg.RoomID,
		"room_capacity", cfg.RoomCapacity,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_collection", cfg.MongoCollectionName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"badger_path", cfg.BadgerPath,
		"events_enabled", cfg.EventsEnabled,
		"kafka_topic", cfg.KafkaTopic,
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

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
