package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

// MemoryRepository keeps rooms in a map for the lifetime of the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	rooms map[string]*model.MeetingRoom
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms: make(map[string]*model.MeetingRoom),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, room *model.MeetingRoom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return apperrors.InvalidInput("Meeting room cannot be nil")
	}
	if err := checkRoomID(room.ID()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.ID()] = room.Clone()
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRoomID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	return room.Clone(), nil
}

// FindAll returns the rooms ordered by id.
func (r *MemoryRepository) FindAll(ctx context.Context) ([]*model.MeetingRoom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*model.MeetingRoom, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room.Clone())
	}
	slices.SortFunc(rooms, func(a, b *model.MeetingRoom) int {
		return strings.Compare(a.ID(), b.ID())
	})
	return rooms, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRoomID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, id)
	return nil
}

// Len reports how many rooms are stored.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
