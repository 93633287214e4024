package service

import (
	"context"
	"errors"
	"slices"

	"roombook/internal/rooms/events"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"github.com/samber/lo"
)

type BookingService interface {
	Book(ctx context.Context, req *model.BookingRequest) (model.BookingView, error)
	Cancel(ctx context.Context, req *model.CancelRequest) error
	ListBookings(ctx context.Context) ([]model.BookingView, error)
	ListRoomBookings(ctx context.Context, roomID string) ([]model.BookingView, error)
}

type bookingService struct {
	repo      repository.MeetingRoomRepository
	validator *validator.RequestValidator
	locker    *RoomLocker
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.MeetingRoomRepository,
	validator *validator.RequestValidator,
	locker *RoomLocker,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if locker == nil {
		locker = NewRoomLocker()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Book(ctx context.Context, req *model.BookingRequest) (model.BookingView, error) {
	if req == nil {
		return model.BookingView{}, apperrors.InvalidInput("Booking request cannot be nil")
	}
	req.Booker = sanitizer.NormalizeBooker(req.Booker)
	if err := s.validator.ValidateBooking(req); err != nil {
		return model.BookingView{}, s.validationFailed("Booking request validation failed", err)
	}
	roomID := s.resolveRoomID(req.RoomID)

	unlock, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return model.BookingView{}, err
	}
	defer unlock()

	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to load meeting room", "room_id", roomID, "error", err)
		return model.BookingView{}, err
	}
	if room == nil {
		room, err = model.NewMeetingRoom(roomID, s.cfg.RoomCapacity)
		if err != nil {
			return model.BookingView{}, apperrors.FromDomain(err)
		}
		s.cfg.Log.Debug("Creating meeting room", "room_id", roomID, "capacity", room.Capacity())
	}

	booking, err := room.Book(req.TimeSlot(), req.Booker, req.Attendees)
	if err != nil {
		s.cfg.Log.Warn("Booking rejected",
			"room_id", roomID,
			"start_time", req.Start,
			"end_time", req.End,
			"attendees", req.Attendees,
			"error", err,
		)
		return model.BookingView{}, apperrors.FromDomain(err)
	}

	if err := s.repo.Save(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to save meeting room", "room_id", roomID, "error", err)
		return model.BookingView{}, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID(),
		"room_id", roomID,
		"start_time", booking.TimeSlot().Start,
		"end_time", booking.TimeSlot().End,
		"attendees", booking.Attendees(),
	)
	s.publish(ctx, events.BookingCreated(roomID, booking))

	return model.NewBookingView(roomID, booking), nil
}

func (s *bookingService) Cancel(ctx context.Context, req *model.CancelRequest) error {
	if req == nil {
		return apperrors.InvalidInput("Cancel request cannot be nil")
	}
	req.BookingID = sanitizer.TrimAndNormalize(req.BookingID)
	if err := s.validator.ValidateCancel(req); err != nil {
		return s.validationFailed("Cancel request validation failed", err)
	}
	roomID := s.resolveRoomID(req.RoomID)

	unlock, err := s.locker.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()

	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to load meeting room", "room_id", roomID, "error", err)
		return err
	}
	if room == nil {
		return apperrors.NotFoundWithID("Meeting room", roomID)
	}

	if err := room.Cancel(req.BookingID); err != nil {
		if errors.Is(err, model.ErrBookingNotFound) {
			return apperrors.Wrap(err, apperrors.CodeNotFound, "Booking not found", apperrors.CategoryNotFound).
				WithDetails(map[string]any{"room_id": roomID, "booking_id": req.BookingID})
		}
		return apperrors.FromDomain(err)
	}

	if err := s.repo.Save(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to save meeting room", "room_id", roomID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking cancelled successfully", "id", req.BookingID, "room_id", roomID)
	s.publish(ctx, events.BookingCancelled(roomID, req.BookingID))
	return nil
}

// ListBookings returns the bookings of every stored room ordered by start
// time. Bookings that start together keep the repository order.
func (s *bookingService) ListBookings(ctx context.Context) ([]model.BookingView, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list meeting rooms", "error", err)
		return nil, err
	}

	views := lo.FlatMap(rooms, func(room *model.MeetingRoom, _ int) []model.BookingView {
		return roomViews(room)
	})
	slices.SortStableFunc(views, func(a, b model.BookingView) int {
		return a.Start.Compare(b.Start)
	})

	s.cfg.Log.Debug("Bookings listed", "rooms", len(rooms), "count", len(views))
	return views, nil
}

// ListRoomBookings returns one room's bookings ordered by start time. An
// unknown room has no bookings.
func (s *bookingService) ListRoomBookings(ctx context.Context, roomID string) ([]model.BookingView, error) {
	roomID = s.resolveRoomID(roomID)

	room, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return []model.BookingView{}, nil
	}
	return roomViews(room), nil
}

// --- Helpers ---

func roomViews(room *model.MeetingRoom) []model.BookingView {
	return lo.Map(room.ListBookings(), func(b model.Booking, _ int) model.BookingView {
		return model.NewBookingView(room.ID(), b)
	})
}

func (s *bookingService) resolveRoomID(roomID string) string {
	if roomID == "" {
		roomID = s.cfg.RoomID
	}
	return sanitizer.SanitizeRoomID(roomID)
}

func (s *bookingService) validationFailed(message string, err error) error {
	s.cfg.Log.Warn(message, "error", err)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation(message, fieldErrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

// publish delivers an event for a change that is already saved. A failure
// is logged and the change stands.
func (s *bookingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", event.Type,
			"room_id", event.RoomID,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}
