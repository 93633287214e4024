package validator

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	documentValidate     *validator.Validate
	documentValidateOnce sync.Once
)

// ValidateDocument checks the struct tags of a persisted room document
// before it is turned back into a meeting room.
func ValidateDocument(doc any) error {
	documentValidateOnce.Do(func() {
		documentValidate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := documentValidate.Struct(doc); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}
