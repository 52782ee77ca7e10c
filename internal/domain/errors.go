package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrFeedClosed   = errors.New("feed connection closed")
)

// ValidationError reports the fields rejected by a registry write. The
// message format mirrors what the admin UI shows ("metal, purity are
// required"). Reason replaces the default "required" tail for fields that
// were present but unusable ("purity must be positive").
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	tail := e.Reason
	if tail == "" {
		tail = "is required"
		if len(e.Fields) > 1 {
			tail = "are required"
		}
	}
	return strings.Join(e.Fields, ", ") + " " + tail
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
