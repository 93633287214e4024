package model

import "time"

// BookingRequest is the input of a booking command. RoomID may be empty, in
// which case the configured default room is used.
type BookingRequest struct {
	RoomID    string    `json:"room_id,omitempty" validate:"omitempty,max=128,room_id"`
	Start     time.Time `json:"start_time" validate:"required"`
	End       time.Time `json:"end_time" validate:"required"`
	Booker    string    `json:"booker" validate:"max=200"`
	Attendees int       `json:"attendees"`
}

// TimeSlot builds the requested slot without validating it.
func (r BookingRequest) TimeSlot() TimeSlot {
	return TimeSlot{Start: r.Start, End: r.End}
}

type CancelRequest struct {
	RoomID    string `json:"room_id,omitempty" validate:"omitempty,max=128,room_id"`
	BookingID string `json:"booking_id" validate:"required,max=128"`
}

// BookingView is the read model of one booking returned to callers.
type BookingView struct {
	ID        string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Booker    string    `json:"booker"`
	Attendees int       `json:"attendees"`
}

func NewBookingView(roomID string, b Booking) BookingView {
	slot := b.TimeSlot()
	return BookingView{
		ID:        b.ID(),
		RoomID:    roomID,
		Start:     slot.Start,
		End:       slot.End,
		Booker:    b.Booker(),
		Attendees: b.Attendees(),
	}
}
