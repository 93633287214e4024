package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"roombook/internal/rooms/validator"
	"roombook/pkg/model"
)

// roomDocument is the persisted form of a meeting room. The same shape is
// written as a JSON file, a Mongo document and a Badger value.
type roomDocument struct {
	ID       string            `json:"id" bson:"_id" validate:"required"`
	Capacity int               `json:"capacity" bson:"capacity" validate:"omitempty,min=4"`
	Bookings []bookingDocument `json:"bookings" bson:"bookings" validate:"dive"`
}

type bookingDocument struct {
	BookingID string           `json:"booking_id" bson:"booking_id" validate:"required"`
	TimeSlot  timeSlotDocument `json:"time_slot" bson:"time_slot"`
	Booker    string           `json:"booker" bson:"booker" validate:"required"`
	Attendees int              `json:"attendees" bson:"attendees" validate:"min=4"`
}

type timeSlotDocument struct {
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
}

// storedTimeLayouts are tried after RFC3339 for timestamps written without
// a UTC offset. Such timestamps are read as UTC. Fractional seconds are
// accepted by every layout.
var storedTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// UnmarshalJSON accepts any ISO-8601 date-time, with or without an offset.
// Missing or null values are left zero for validation to reject.
func (t *timeSlotDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if raw.StartTime != nil {
		if t.StartTime, err = parseStoredTime(*raw.StartTime); err != nil {
			return fmt.Errorf("start_time: %w", err)
		}
	}
	if raw.EndTime != nil {
		if t.EndTime, err = parseStoredTime(*raw.EndTime); err != nil {
			return fmt.Errorf("end_time: %w", err)
		}
	}
	return nil
}

func parseStoredTime(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts.UTC(), nil
	}
	for _, layout := range storedTimeLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", value)
}

func toDocument(room *model.MeetingRoom) roomDocument {
	bookings := room.Bookings()
	doc := roomDocument{
		ID:       room.ID(),
		Capacity: room.Capacity(),
		Bookings: make([]bookingDocument, 0, len(bookings)),
	}
	for _, b := range bookings {
		slot := b.TimeSlot()
		doc.Bookings = append(doc.Bookings, bookingDocument{
			BookingID: b.ID(),
			TimeSlot: timeSlotDocument{
				StartTime: slot.Start,
				EndTime:   slot.End,
			},
			Booker:    b.Booker(),
			Attendees: b.Attendees(),
		})
	}
	return doc
}

// toModel validates the document and rebuilds the room, re-checking every
// booking invariant.
func (d roomDocument) toModel() (*model.MeetingRoom, error) {
	if err := validator.ValidateDocument(d); err != nil {
		return nil, err
	}

	capacity := d.Capacity
	if capacity == 0 {
		capacity = model.DefaultCapacity
	}

	bookings := make([]model.Booking, 0, len(d.Bookings))
	for _, bd := range d.Bookings {
		slot, err := model.NewTimeSlot(bd.TimeSlot.StartTime, bd.TimeSlot.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", bd.BookingID, err)
		}
		b, err := model.RestoreBooking(bd.BookingID, slot, bd.Booker, bd.Attendees, capacity)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return model.RestoreMeetingRoom(d.ID, capacity, bookings)
}

func encodeRoom(room *model.MeetingRoom) ([]byte, error) {
	data, err := json.MarshalIndent(toDocument(room), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// decodeRoom parses data and rebuilds the room it holds. Any error means the
// bytes are not a usable room.
func decodeRoom(data []byte) (*model.MeetingRoom, error) {
	var doc roomDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	room, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("invalid meeting room document: %w", err)
	}
	return room, nil
}
