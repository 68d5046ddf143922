// Package domain holds the user model and the failures the service reports.
//
// Failures are classified by sentinel, never by HTTP status. Each typed
// error unwraps to exactly one sentinel, so callers ask errors.Is(err,
// ErrNotFound) and leave the wire mapping to adapters.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError reports a missing user, locally or at the remote.
// A non-empty Reason is the message shown to clients verbatim, e.g.
// "No user found with the ID:77".
type NotFoundError struct {
	Entity string
	ID     string
	Reason string
}

// NewNotFoundError reports that entity id does not exist.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewNotFoundErrorWithReason is NewNotFoundError with a client-facing message.
func NewNotFoundErrorWithReason(entity, id, reason string) error {
	return &NotFoundError{Entity: entity, ID: id, Reason: reason}
}

// Error prefers Reason, then the entity and id.
func (e *NotFoundError) Error() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.ID != "":
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	default:
		return e.Entity + " not found"
	}
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a write the store refused, such as a duplicate
// email.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

// NewConflictError reports a write on entity refused for reason.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewConflictErrorWithDetails adds store-level details, such as the
// violated constraint.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
}

// Error formats as "<entity> conflict: <reason> (<details>)".
func (e *ConflictError) Error() string {
	msg := e.Entity + " conflict: " + e.Reason
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}

	return msg
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// ValidationError is one rejected field. Value, when set, is the
// offending input.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// NewValidationError rejects field with a client-facing message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also records the rejected input.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// Error names the field when there is one.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return "validation failed for " + e.Field + ": " + e.Message
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidationErrors collects every rejected field of one candidate user,
// in the order the checks ran. Empty means valid.
type ValidationErrors []*ValidationError

// Add appends a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, &ValidationError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Fields lists each failing field once, first occurrence first.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))

	for _, e := range v {
		dup := false
		for _, f := range fields {
			if f == e.Field {
				dup = true
				break
			}
		}

		if !dup {
			fields = append(fields, e.Field)
		}
	}

	return fields
}

// Error joins every failure as "field: message" pairs.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidation.Error()
	}

	var b strings.Builder
	b.WriteString("validation failed: ")

	for i, e := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Field + ": " + e.Message)
	}

	return b.String()
}

// Unwrap returns ErrValidation.
func (v ValidationErrors) Unwrap() error { return ErrValidation }

// UnavailableError reports a dependency (GoREST, the database) that
// could not serve the request.
type UnavailableError struct {
	Service string
	Reason  string
}

// NewUnavailableError reports that service could not be reached or
// answered with something unusable.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// Error names the service and, when known, why it failed.
func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// Unwrap returns ErrUnavailable.
func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// Sentinel checks, equivalent to errors.Is against the matching Err value.
func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
