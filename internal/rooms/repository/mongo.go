package repository

import (
	"context"
	"errors"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultCollectionName = "MeetingRooms"

type MongoConfig struct {
	DatabaseName   string
	CollectionName string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// MongoRepository stores one document per room, keyed by room id.
type MongoRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
	log          *logger.Logger
}

func NewMongoRepository(client *mongo.Client, cfg MongoConfig, log *logger.Logger) *MongoRepository {
	if cfg.CollectionName == "" {
		cfg.CollectionName = DefaultCollectionName
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MongoRepository{
		collection:   client.Database(cfg.DatabaseName).Collection(cfg.CollectionName),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		log:          log.With("component", "mongo_repository", "collection", cfg.CollectionName),
	}
}

func (r *MongoRepository) Save(ctx context.Context, room *model.MeetingRoom) error {
	if room == nil {
		return apperrors.InvalidInput("Meeting room cannot be nil")
	}
	if err := checkRoomID(room.ID()); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	doc := toDocument(room)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		r.log.Error("Failed to save meeting room", "room_id", doc.ID, "error", err)
		return apperrors.Storage("Failed to save meeting room", doc.ID, r.collection.Name(), err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if err := checkRoomID(id); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var doc roomDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("Failed to read meeting room", id, r.collection.Name(), err)
	}

	return r.restore(doc), nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]*model.MeetingRoom, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperrors.Storage("Failed to list meeting rooms", "", r.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	rooms := []*model.MeetingRoom{}
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			r.log.Warn("Skipping undecodable meeting room document", "error", err)
			continue
		}
		if room := r.restore(doc); room != nil {
			rooms = append(rooms, room)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Storage("Failed to list meeting rooms", "", r.collection.Name(), err)
	}

	return rooms, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	if err := checkRoomID(id); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperrors.Storage("Failed to delete meeting room", id, r.collection.Name(), err)
	}
	return nil
}

// restore turns a stored document into a room. Documents that break a
// booking invariant are logged and reported as absent.
func (r *MongoRepository) restore(doc roomDocument) *model.MeetingRoom {
	room, err := doc.toModel()
	if err != nil {
		r.log.Warn("Invalid meeting room document treated as absent", "room_id", doc.ID, "error", err)
		return nil
	}
	return room
}
