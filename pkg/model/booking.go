package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	MinAttendees    = 4
	DefaultCapacity = 20
)

// Booking is one reservation of a room. Its fields are unexported so a
// booking cannot change after it has been created; identity is the ID.
type Booking struct {
	id        string
	timeSlot  TimeSlot
	booker    string
	attendees int
}

// NewBooking creates a booking with a freshly generated ID.
func NewBooking(slot TimeSlot, booker string, attendees int, capacity int) (Booking, error) {
	return newBooking(uuid.NewString(), slot, booker, attendees, capacity)
}

// RestoreBooking rebuilds a booking that already has an ID, e.g. when it is
// decoded from storage.
func RestoreBooking(id string, slot TimeSlot, booker string, attendees int, capacity int) (Booking, error) {
	if strings.TrimSpace(id) == "" {
		return Booking{}, ErrInvalidBookingID
	}
	return newBooking(id, slot, booker, attendees, capacity)
}

func newBooking(id string, slot TimeSlot, booker string, attendees int, capacity int) (Booking, error) {
	if err := validateAttendees(attendees, capacity); err != nil {
		return Booking{}, err
	}
	if err := slot.Validate(); err != nil {
		return Booking{}, err
	}
	if strings.TrimSpace(booker) == "" {
		return Booking{}, ErrInvalidBooker
	}
	return Booking{
		id:        id,
		timeSlot:  slot,
		booker:    booker,
		attendees: attendees,
	}, nil
}

func validateAttendees(attendees, capacity int) error {
	if attendees < MinAttendees || attendees > capacity {
		return fmt.Errorf("%w: got %d, must be between %d and %d (inclusive)",
			ErrInvalidAttendeeCount, attendees, MinAttendees, capacity)
	}
	return nil
}

func (b Booking) ID() string {
	return b.id
}

func (b Booking) TimeSlot() TimeSlot {
	return b.timeSlot
}

func (b Booking) Booker() string {
	return b.booker
}

func (b Booking) Attendees() int {
	return b.attendees
}

// Equal compares bookings by ID only.
func (b Booking) Equal(other Booking) bool {
	return b.id == other.id
}
