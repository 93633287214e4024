package mongo

import (
	"context"
	"fmt"

	"roombook/internal/rooms/migrations/mongo/validators"
	"roombook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MeetingRoomsIndexes support cancel-by-booking-id lookups and listing
// bookings in time order across rooms.
var MeetingRoomsIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "bookings.booking_id", Value: 1}}},
	{Keys: bson.D{{Key: "bookings.time_slot.start_time", Value: 1}}},
}

// RunMigration creates the meeting room collection with its schema
// validator, or updates the validator of an existing one, and ensures its
// indexes. It is safe to run on every start.
func RunMigration(ctx context.Context, db *mongo.Database, collection string, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name(), "collection", collection)

	if err := ensureCollection(ctx, db, collection, validators.MeetingRoomValidator, log); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	if err := ensureIndexes(ctx, db, collection, MeetingRoomsIndexes); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", collection, err)
	}

	log.Info("All migrations applied successfully", "collection", collection)
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating collection validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
