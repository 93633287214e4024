package app

import (
	"context"
	"fmt"
	"io"

	"roombook/internal/rooms/cli"
	"roombook/internal/rooms/events"
	mongoMigration "roombook/internal/rooms/migrations/mongo"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/service"
	"roombook/internal/rooms/validator"
	lifecycle "roombook/pkg/app"
	"roombook/pkg/client"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
)

const ServiceName = "roombook"

// App holds the wired booking service and the resources behind it.
type App struct {
	cfg       *config.Config
	lifecycle *lifecycle.Application

	Repository repository.MeetingRoomRepository
	Publisher  events.Publisher
	Service    service.BookingService
}

// New builds the repository selected by STORAGE_TYPE, the event publisher
// and the booking service. Resources opened before a failure are released.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:       cfg,
		lifecycle: lifecycle.NewApplication(cfg.Log, cfg.ShutdownTimeout),
	}

	repo, closeRepo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	if closeRepo != nil {
		a.lifecycle.OnShutdown(cfg.StorageType, closeRepo)
	}
	a.Repository = repo

	publisher, err := NewPublisher(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.lifecycle.OnShutdown("events", func(context.Context) error {
		return publisher.Close()
	})
	a.Publisher = publisher

	requestValidator, err := validator.NewRequestValidator(cfg.Log)
	if err != nil {
		_ = a.Close()
		return nil, apperrors.Internal("Failed to initialize request validator", err)
	}

	a.Service = service.NewBookingService(repo, requestValidator, service.NewRoomLocker(), publisher, cfg)

	cfg.Log.Info("Booking service initialized",
		"storage_type", cfg.StorageType,
		"room_id", cfg.RoomID,
		"events_enabled", cfg.EventsEnabled,
	)
	return a, nil
}

// NewRepository opens the storage backend named by cfg.StorageType. The
// returned function releases it and is nil when there is nothing to release.
func NewRepository(cfg *config.Config) (repository.MeetingRoomRepository, lifecycle.ShutdownFunc, error) {
	switch cfg.StorageType {
	case config.StorageJSON:
		repo, err := repository.NewFileRepository(cfg.StoragePath, cfg.Log)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil

	case config.StorageMemory:
		return repository.NewMemoryRepository(), nil, nil

	case config.StorageMongo:
		c := client.NewClient()
		if err := c.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout); err != nil {
			return nil, nil, apperrors.StorageConfiguration("Cannot connect to MongoDB", cfg.MongoDatabaseName, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
		defer cancel()
		if err := mongoMigration.RunMigration(ctx, c.Mongo.Database(cfg.MongoDatabaseName), cfg.MongoCollectionName, cfg.Log); err != nil {
			_ = c.Close(context.Background())
			return nil, nil, apperrors.StorageConfiguration("Cannot prepare MongoDB collection", cfg.MongoCollectionName, err)
		}
		repo := repository.NewMongoRepository(c.Mongo, repository.MongoConfig{
			DatabaseName:   cfg.MongoDatabaseName,
			CollectionName: cfg.MongoCollectionName,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
		}, cfg.Log)
		return repo, c.Close, nil

	case config.StorageBadger:
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, apperrors.StorageConfiguration("Cannot open badger database", cfg.BadgerPath, err)
		}
		return repository.NewBadgerRepository(db, cfg.Log), func(context.Context) error {
			return db.Close()
		}, nil
	}

	return nil, nil, apperrors.Configuration(fmt.Sprintf("Unknown storage type %q", cfg.StorageType), nil)
}

// NewPublisher returns a Kafka publisher when events are enabled and a
// publisher that drops everything otherwise.
func NewPublisher(cfg *config.Config) (events.Publisher, error) {
	if !cfg.EventsEnabled {
		return events.NoopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, apperrors.Configuration("Invalid Kafka configuration", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Debug)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		return nil, apperrors.Configuration("Failed to create Kafka producer", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.KafkaTopic, "brokers", kafkaCfg.Brokers)
	return events.NewKafkaPublisher(producer, ServiceName), nil
}

// Run executes one CLI invocation and releases every resource afterwards.
// It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	return a.lifecycle.Run(ctx, func(ctx context.Context) int {
		commands := &cli.App{
			Service: a.Service,
			Out:     out,
			Err:     errOut,
			Log:     a.cfg.Log,
			Colours: color.SupportColor(),
		}
		return commands.Run(ctx, args)
	})
}

func (a *App) Close() error {
	return a.lifecycle.Shutdown()
}
