package repository

import (
	"context"
	"strings"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

// MeetingRoomRepository stores meeting rooms by id. Implementations hand out
// and keep clones: a room returned by FindByID only changes storage once it
// is passed back to Save.
type MeetingRoomRepository interface {
	// Save inserts or fully replaces the room with the same id.
	Save(ctx context.Context, room *model.MeetingRoom) error
	// FindByID returns (nil, nil) when no room with id exists.
	FindByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	FindAll(ctx context.Context) ([]*model.MeetingRoom, error)
	// Delete is a no-op when no room with id exists.
	Delete(ctx context.Context, id string) error
}

// checkRoomID rejects ids that are empty or could escape a storage
// directory when used as a file name or key.
func checkRoomID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.InvalidInput("Meeting room ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") || strings.ContainsRune(id, 0) {
		return apperrors.InvalidInput("Meeting room ID cannot contain path separators or '..'").
			WithDetails(map[string]any{"id": id})
	}
	return nil
}

// withTimeout bounds ctx by timeout, keeping an earlier deadline if ctx
// already has one.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}
