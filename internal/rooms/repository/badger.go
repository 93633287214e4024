package repository

import (
	"context"
	"errors"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/dgraph-io/badger/v4"
)

const (
	roomKeyPrefix   = "room:"
	backupKeyPrefix = "backup:room:"
)

// BadgerRepository stores each room as a JSON value under "room:<id>".
// Values that cannot be decoded are copied to "backup:room:<id>" and
// reported as absent.
type BadgerRepository struct {
	db  *badger.DB
	log *logger.Logger
}

func NewBadgerRepository(db *badger.DB, log *logger.Logger) *BadgerRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &BadgerRepository{
		db:  db,
		log: log.With("component", "badger_repository"),
	}
}

func roomKey(id string) []byte {
	return []byte(roomKeyPrefix + id)
}

func (r *BadgerRepository) Save(ctx context.Context, room *model.MeetingRoom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return apperrors.InvalidInput("Meeting room cannot be nil")
	}
	if err := checkRoomID(room.ID()); err != nil {
		return err
	}

	data, err := encodeRoom(room)
	if err != nil {
		return apperrors.Storage("Failed to encode meeting room", room.ID(), roomKeyPrefix+room.ID(), err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(room.ID()), data)
	})
	if err != nil {
		r.log.Error("Failed to save meeting room", "room_id", room.ID(), "error", err)
		return apperrors.Storage("Failed to save meeting room", room.ID(), roomKeyPrefix+room.ID(), err)
	}
	return nil
}

func (r *BadgerRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRoomID(id); err != nil {
		return nil, err
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("Failed to read meeting room", id, roomKeyPrefix+id, err)
	}

	return r.decode(id, data), nil
}

// FindAll returns the rooms in key order, which is id order.
func (r *BadgerRepository) FindAll(ctx context.Context) ([]*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type entry struct {
		id   string
		data []byte
	}
	var entries []entry

	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomKeyPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, entry{
				id:   string(item.Key()[len(prefix):]),
				data: data,
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Storage("Failed to list meeting rooms", "", roomKeyPrefix, err)
	}

	rooms := make([]*model.MeetingRoom, 0, len(entries))
	for _, e := range entries {
		if room := r.decode(e.id, e.data); room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (r *BadgerRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRoomID(id); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(roomKey(id))
	})
	if err != nil {
		return apperrors.Storage("Failed to delete meeting room", id, roomKeyPrefix+id, err)
	}
	return nil
}

func (r *BadgerRepository) decode(id string, data []byte) *model.MeetingRoom {
	room, err := decodeRoom(data)
	if err == nil && room.ID() != id {
		err = errors.New("document id does not match key")
	}
	if err == nil {
		return room
	}

	backupErr := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(backupKeyPrefix+id), data)
	})
	if backupErr != nil {
		r.log.Error("Failed to back up corrupted meeting room value", "room_id", id, "error", backupErr)
	}
	r.log.Warn("Corrupted meeting room value treated as absent", "room_id", id, "error", err)
	return nil
}
