package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	valid := slot(t, 9, 0, 10, 0)

	tests := []struct {
		name      string
		slot      TimeSlot
		booker    string
		attendees int
		capacity  int
		wantErr   error
	}{
		{name: "minimum attendees", slot: valid, booker: "Alice", attendees: 4, capacity: 20},
		{name: "maximum attendees", slot: valid, booker: "Alice", attendees: 20, capacity: 20},
		{name: "below minimum", slot: valid, booker: "Alice", attendees: 3, capacity: 20, wantErr: ErrInvalidAttendeeCount},
		{name: "above capacity", slot: valid, booker: "Alice", attendees: 21, capacity: 20, wantErr: ErrInvalidAttendeeCount},
		{name: "above custom capacity", slot: valid, booker: "Alice", attendees: 9, capacity: 8, wantErr: ErrInvalidAttendeeCount},
		{name: "empty booker", slot: valid, booker: "  ", attendees: 5, capacity: 20, wantErr: ErrInvalidBooker},
		{name: "invalid slot", slot: TimeSlot{Start: at(10, 0), End: at(9, 0)}, booker: "Alice", attendees: 5, capacity: 20, wantErr: ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBooking(tt.slot, tt.booker, tt.attendees, tt.capacity)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, b.ID())
			assert.Equal(t, tt.booker, b.Booker())
			assert.Equal(t, tt.attendees, b.Attendees())
			assert.True(t, b.TimeSlot().Equal(tt.slot))
		})
	}
}

func TestNewBooking_GeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b, err := NewBooking(slot(t, 9, 0, 10, 0), "Alice", 5, DefaultCapacity)
		require.NoError(t, err)
		require.False(t, seen[b.ID()], "duplicate id %s", b.ID())
		seen[b.ID()] = true
	}
}

func TestRestoreBooking(t *testing.T) {
	b, err := RestoreBooking("booking-1", slot(t, 9, 0, 10, 0), "Alice", 5, DefaultCapacity)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", b.ID())

	_, err = RestoreBooking("", slot(t, 9, 0, 10, 0), "Alice", 5, DefaultCapacity)
	assert.ErrorIs(t, err, ErrInvalidBookingID)

	_, err = RestoreBooking("booking-2", slot(t, 9, 0, 10, 0), "Alice", 2, DefaultCapacity)
	assert.ErrorIs(t, err, ErrInvalidAttendeeCount)
}

func TestBooking_EqualityByID(t *testing.T) {
	a, err := RestoreBooking("same", slot(t, 9, 0, 10, 0), "Alice", 5, DefaultCapacity)
	require.NoError(t, err)
	b, err := RestoreBooking("same", slot(t, 14, 0, 15, 0), "Bob", 8, DefaultCapacity)
	require.NoError(t, err)
	c, err := RestoreBooking("other", slot(t, 9, 0, 10, 0), "Alice", 5, DefaultCapacity)
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "same id with different content must be equal")
	assert.False(t, a.Equal(c), "different id with same content must differ")
}
