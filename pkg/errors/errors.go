package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"roombook/pkg/model"
)

const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeTimeout              = "TIMEOUT"
	CodeStorage              = "STORAGE_ERROR"
	CodeStorageConfiguration = "STORAGE_CONFIGURATION_ERROR"
	CodeConfiguration        = "CONFIGURATION_ERROR"
)

// Category groups error codes by who has to act on them.
type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryConflict       Category = "conflict"
	CategoryNotFound       Category = "not_found"
	CategoryInfrastructure Category = "infrastructure"
	CategoryInternal       Category = "internal"
)

// Process exit codes returned by the CLI for each category.
const (
	ExitInternal       = 1
	ExitValidation     = 2
	ExitConflict       = 3
	ExitNotFound       = 4
	ExitInfrastructure = 5
)

type AppError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Category Category       `json:"category"`
	Details  map[string]any `json:"details,omitempty"`
	Err      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code, so errors.Is(err, &AppError{Code: CodeStorage})
// works through wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func (e *AppError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return ExitValidation
	case CategoryConflict:
		return ExitConflict
	case CategoryNotFound:
		return ExitNotFound
	case CategoryInfrastructure:
		return ExitInfrastructure
	default:
		return ExitInternal
	}
}

func (e *AppError) ToJSON() []byte {
	response := ErrorResponse{
		Code:     e.Code,
		Message:  e.Message,
		Category: e.Category,
		Details:  e.Details,
	}
	data, _ := json.Marshal(response)
	return data
}

type ErrorResponse struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Category Category       `json:"category"`
	Details  map[string]any `json:"details,omitempty"`
}

func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

func Wrap(err error, code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Err:      err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		Category: CategoryNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:     CodeValidation,
		Message:  message,
		Category: CategoryValidation,
		Details:  details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:     CodeInvalidInput,
		Message:  message,
		Category: CategoryValidation,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:     CodeConflict,
		Message:  message,
		Category: CategoryConflict,
		Err:      err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Message:  message,
		Category: CategoryInternal,
		Err:      err,
	}
}

func Timeout(message string, err error) *AppError {
	return &AppError{
		Code:     CodeTimeout,
		Message:  message,
		Category: CategoryInfrastructure,
		Err:      err,
	}
}

// Storage reports a failed read or write of one room's persisted state.
func Storage(message, roomID, path string, err error) *AppError {
	return &AppError{
		Code:     CodeStorage,
		Message:  message,
		Category: CategoryInfrastructure,
		Err:      err,
		Details: map[string]any{
			"room_id": roomID,
			"path":    path,
		},
	}
}

// StorageConfiguration reports that a storage backend could not be set up.
// The process cannot continue without it.
func StorageConfiguration(message, location string, err error) *AppError {
	return &AppError{
		Code:     CodeStorageConfiguration,
		Message:  message,
		Category: CategoryInfrastructure,
		Err:      err,
		Details: map[string]any{
			"path": location,
		},
	}
}

func Configuration(message string, err error) *AppError {
	return &AppError{
		Code:     CodeConfiguration,
		Message:  message,
		Category: CategoryValidation,
		Err:      err,
	}
}

// FromDomain translates booking rule errors from the model package into
// AppErrors. Errors that are already AppErrors, or that it does not know,
// are returned unchanged.
func FromDomain(err error) error {
	if err == nil || IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, model.ErrInvalidTimeSlot),
		errors.Is(err, model.ErrInvalidAttendeeCount),
		errors.Is(err, model.ErrInvalidBooker),
		errors.Is(err, model.ErrInvalidBookingID),
		errors.Is(err, model.ErrInvalidCapacity),
		errors.Is(err, model.ErrInvalidRoomID):
		return Wrap(err, CodeValidation, err.Error(), CategoryValidation)
	case errors.Is(err, model.ErrOverlappingBooking),
		errors.Is(err, model.ErrDuplicateBooking):
		return Conflict(err.Error(), err)
	case errors.Is(err, model.ErrBookingNotFound):
		return Wrap(err, CodeNotFound, err.Error(), CategoryNotFound)
	}
	return err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	return errors.Is(err, &AppError{Code: code})
}

func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	return AsAppError(err).Category
}
