package events

import (
	"context"
	"time"

	"roombook/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
)

// Event describes a committed change to a room's bookings.
type Event struct {
	Type       string             `json:"type"`
	RoomID     string             `json:"room_id"`
	Booking    *model.BookingView `json:"booking,omitempty"`
	BookingID  string             `json:"booking_id"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func BookingCreated(roomID string, b model.Booking) Event {
	view := model.NewBookingView(roomID, b)
	return Event{
		Type:       TypeBookingCreated,
		RoomID:     roomID,
		Booking:    &view,
		BookingID:  b.ID(),
		OccurredAt: time.Now().UTC(),
	}
}

func BookingCancelled(roomID, bookingID string) Event {
	return Event{
		Type:       TypeBookingCancelled,
		RoomID:     roomID,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events after the change they describe has been saved.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
