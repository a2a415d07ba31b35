package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrForeignKey = errors.New("foreign key violation")
)

// ValidationError reports a missing or out-of-catalog field. Repositories
// return it before any SQL runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("validation: %s is required", e.Field)
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field}
}

func invalidEnum(field string) error {
	return &ValidationError{Field: field, Reason: "is not a configured value"}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
