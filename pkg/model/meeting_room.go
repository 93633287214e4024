package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// MeetingRoom is the aggregate root for the bookings of one room. Every
// change to the bookings goes through Book and Cancel, which keep the
// following true:
//   - no two bookings overlap
//   - every booking has between MinAttendees and Capacity attendees
//   - booking IDs are unique within the room
//
// A MeetingRoom is not safe for concurrent use; callers that share one
// across goroutines must serialise access (see service.RoomLocker).
type MeetingRoom struct {
	id       string
	capacity int
	bookings []Booking
}

// NewMeetingRoom creates an empty room. An empty id generates one and a
// zero capacity falls back to DefaultCapacity.
func NewMeetingRoom(id string, capacity int) (*MeetingRoom, error) {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < MinAttendees {
		return nil, fmt.Errorf("%w: got %d, must be at least %d", ErrInvalidCapacity, capacity, MinAttendees)
	}
	return &MeetingRoom{
		id:       id,
		capacity: capacity,
		bookings: []Booking{},
	}, nil
}

// RestoreMeetingRoom rebuilds a room from previously persisted state and
// re-verifies every invariant. Bookings keep their stored order.
func RestoreMeetingRoom(id string, capacity int, bookings []Booking) (*MeetingRoom, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidRoomID
	}
	room, err := NewMeetingRoom(id, capacity)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if _, dup := seen[b.id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBooking, b.id)
		}
		seen[b.id] = struct{}{}

		if err := validateAttendees(b.attendees, room.capacity); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.id, err)
		}
		if conflict, ok := room.findOverlap(b.timeSlot); ok {
			return nil, fmt.Errorf("%w: booking %s overlaps booking %s", ErrOverlappingBooking, b.id, conflict.id)
		}
		room.bookings = append(room.bookings, b)
	}
	return room, nil
}

func (r *MeetingRoom) ID() string {
	return r.id
}

func (r *MeetingRoom) Capacity() int {
	return r.capacity
}

func (r *MeetingRoom) Len() int {
	return len(r.bookings)
}

// Book reserves slot for booker. Nothing changes when an error is returned.
// Overlaps are found with a linear scan over the room's bookings.
func (r *MeetingRoom) Book(slot TimeSlot, booker string, attendees int) (Booking, error) {
	if err := validateAttendees(attendees, r.capacity); err != nil {
		return Booking{}, err
	}
	if err := slot.Validate(); err != nil {
		return Booking{}, err
	}
	if strings.TrimSpace(booker) == "" {
		return Booking{}, ErrInvalidBooker
	}

	if conflict, ok := r.findOverlap(slot); ok {
		return Booking{}, fmt.Errorf("%w: %s overlaps booking %s (%s)",
			ErrOverlappingBooking, slot, conflict.id, conflict.timeSlot)
	}

	booking, err := NewBooking(slot, booker, attendees, r.capacity)
	if err != nil {
		return Booking{}, err
	}
	r.bookings = append(r.bookings, booking)
	return booking, nil
}

// Cancel removes the booking with the given ID.
func (r *MeetingRoom) Cancel(bookingID string) error {
	idx := slices.IndexFunc(r.bookings, func(b Booking) bool { return b.id == bookingID })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	r.bookings = slices.Delete(r.bookings, idx, idx+1)
	return nil
}

// ListBookings returns the bookings ordered by start time. Bookings with the
// same start keep their insertion order.
func (r *MeetingRoom) ListBookings() []Booking {
	out := r.Bookings()
	slices.SortStableFunc(out, func(a, b Booking) int {
		return a.timeSlot.Compare(b.timeSlot)
	})
	return out
}

// Bookings returns the bookings in insertion order.
func (r *MeetingRoom) Bookings() []Booking {
	return slices.Clone(r.bookings)
}

func (r *MeetingRoom) FindBooking(bookingID string) (Booking, bool) {
	idx := slices.IndexFunc(r.bookings, func(b Booking) bool { return b.id == bookingID })
	if idx < 0 {
		return Booking{}, false
	}
	return r.bookings[idx], true
}

// Clone returns a deep copy. Bookings are values, so copying the slice is
// enough.
func (r *MeetingRoom) Clone() *MeetingRoom {
	return &MeetingRoom{
		id:       r.id,
		capacity: r.capacity,
		bookings: slices.Clone(r.bookings),
	}
}

func (r *MeetingRoom) findOverlap(slot TimeSlot) (Booking, bool) {
	for _, existing := range r.bookings {
		if slot.OverlapsWith(existing.timeSlot) {
			return existing, true
		}
	}
	return Booking{}, false
}
