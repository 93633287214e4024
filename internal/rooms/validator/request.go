package validator

import (
	"errors"
	"fmt"
	"strings"

	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields returns field -> message, for error details.
func (v ValidationErrors) Fields() map[string]any {
	out := make(map[string]any, len(v))
	for _, err := range v {
		out[err.Field] = err.Message
	}
	return out
}

// RequestValidator checks the shape of incoming requests. Booking rules
// (attendee bounds, slot ordering, overlaps) belong to the meeting room
// and are not repeated here.
type RequestValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRequestValidator(log *logger.Logger) (*RequestValidator, error) {
	v := validator.New()

	if err := v.RegisterValidation("room_id", validateRoomID); err != nil {
		return nil, fmt.Errorf("registering 'room_id' validator: %w", err)
	}

	log.Debug("Request validator initialized")

	return &RequestValidator{
		validate: v,
		logger:   log,
	}, nil
}

// validateRoomID rejects ids that could escape the storage directory.
func validateRoomID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if id == "" {
		return true
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func (v *RequestValidator) ValidateBooking(req *model.BookingRequest) error {
	return v.check(req)
}

func (v *RequestValidator) ValidateCancel(req *model.CancelRequest) error {
	return v.check(req)
}

func (v *RequestValidator) check(req any) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "room_id":
			message = fmt.Sprintf("%s cannot contain path separators or '..'", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
