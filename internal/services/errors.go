package services

import (
	"errors"
	"fmt"

	"github.com/portfolio/backend/internal/storage"
)

// ErrNotFound reports a missing document; it matches storage.ErrNotFound.
var ErrNotFound = storage.ErrNotFound

// ValidationError carries per-field messages of a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func validate(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// AsValidationError unwraps a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
