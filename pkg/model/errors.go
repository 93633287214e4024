package model

import "errors"

// Validation errors: caller input was rejected before any state changed.
var (
	ErrInvalidTimeSlot = errors.New("end time must be after start time")

	ErrInvalidAttendeeCount = errors.New("invalid number of attendees")

	ErrInvalidBooker = errors.New("booker cannot be empty")

	ErrInvalidBookingID = errors.New("booking ID cannot be empty")

	ErrInvalidCapacity = errors.New("invalid room capacity")

	ErrInvalidRoomID = errors.New("room ID cannot be empty")
)

// Domain conflict errors: the request was well formed but breaks a booking rule.
var (
	ErrOverlappingBooking = errors.New("booking time conflicts with existing booking")

	ErrBookingNotFound = errors.New("booking not found")

	ErrDuplicateBooking = errors.New("booking ID already exists in room")
)
