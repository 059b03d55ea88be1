package domain

import (
	"errors"
	"fmt"
)

var (
	ErrGenerationInFlight   = errors.New("a generation is already in progress")
	ErrInvalidTransition    = errors.New("invalid wizard transition")
	ErrConfirmationRequired = errors.New("clearing all data requires explicit confirmation")
	ErrInvalidImport        = errors.New("invalid import data")
	ErrNotImplemented       = errors.New("not implemented")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNoCredential         = errors.New("no API credential configured")
)

// ValidationError is a user-correctable input problem. Reporting it never changes state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
