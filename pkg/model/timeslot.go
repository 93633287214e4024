package model

import (
	"fmt"
	"time"
)

// TimeSlot is a half-open interval [Start, End). Two slots that only share
// an endpoint do not overlap.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	slot := TimeSlot{Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return TimeSlot{}, err
	}
	return slot, nil
}

// Validate reports ErrInvalidTimeSlot unless Start is strictly before End.
func (t TimeSlot) Validate() error {
	if !t.End.After(t.Start) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidTimeSlot,
			t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339))
	}
	return nil
}

func (t TimeSlot) OverlapsWith(other TimeSlot) bool {
	return !(!t.End.After(other.Start) || !t.Start.Before(other.End))
}

// Before reports whether t ends at or before other starts.
func (t TimeSlot) Before(other TimeSlot) bool {
	return !t.End.After(other.Start)
}

// After reports whether t starts at or after other ends.
func (t TimeSlot) After(other TimeSlot) bool {
	return !t.Start.Before(other.End)
}

// Compare orders slots by start time.
func (t TimeSlot) Compare(other TimeSlot) int {
	return t.Start.Compare(other.Start)
}

func (t TimeSlot) Equal(other TimeSlot) bool {
	return t.Start.Equal(other.Start) && t.End.Equal(other.End)
}

func (t TimeSlot) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

func (t TimeSlot) UTC() TimeSlot {
	return TimeSlot{Start: t.Start.UTC(), End: t.End.UTC()}
}

func (t TimeSlot) String() string {
	return fmt.Sprintf("%s-%s", t.Start.Format(time.RFC3339), t.End.Format(time.RFC3339))
}
