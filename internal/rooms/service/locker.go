package service

import (
	"context"
	"sync"

	apperrors "roombook/pkg/errors"
)

// RoomLocker serialises the load, change and save of one room. Callers
// working on different rooms do not block each other. Entries are dropped
// once nobody holds or waits for them.
type RoomLocker struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	sem  chan struct{}
	refs int
}

func NewRoomLocker() *RoomLocker {
	return &RoomLocker{locks: make(map[string]*roomLock)}
}

// Lock blocks until roomID is free or ctx is done. The returned function
// releases the lock and may be called more than once.
func (l *RoomLocker) Lock(ctx context.Context, roomID string) (func(), error) {
	l.mu.Lock()
	rl, ok := l.locks[roomID]
	if !ok {
		rl = &roomLock{sem: make(chan struct{}, 1)}
		l.locks[roomID] = rl
	}
	rl.refs++
	l.mu.Unlock()

	select {
	case rl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, rl)
		return nil, apperrors.Timeout("Timed out waiting for the meeting room", ctx.Err()).
			WithDetails(map[string]any{"room_id": roomID})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-rl.sem
			l.release(roomID, rl)
		})
	}, nil
}

func (l *RoomLocker) release(roomID string, rl *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl.refs--
	if rl.refs == 0 {
		delete(l.locks, roomID)
	}
}

// Len returns the number of rooms currently locked or waited on.
func (l *RoomLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
