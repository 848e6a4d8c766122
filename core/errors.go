package core

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed request: a panel outside the 2-4 size
// bounds, an unknown persona or configuration id, an empty user message, or a
// moderator operation invoked in a state that forbids it. It is surfaced to
// the caller immediately; no session is created or mutated.
type ValidationError struct {
	Reason string
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a lookup miss: an unknown, ended, or expired session,
// or an unknown persona or panel configuration. Ended and expired sessions
// are indistinguishable from ids that never existed.
type NotFoundError struct {
	Kind string
	ID   string
}

// NewNotFoundError builds a NotFoundError for the given kind ("session",
// "persona", "panel config") and id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// ProviderError wraps a failure (including a deadline expiry) from the
// text-generation collaborator. The sequencer and moderator recover from it
// locally via fallback responses; it never escapes a round.
type ProviderError struct {
	Provider string
	Err      error
}

// NewProviderError wraps err with the provider's name.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func (e *ProviderError) Error() string { return fmt.Sprintf("provider %s: %v", e.Provider, e.Err) }

func (e *ProviderError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsProvider reports whether err is, or wraps, a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
