package acl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/clients"
	"github.com/jsamuelsen/user-sync-service/internal/domain"
)

// maxErrorBodyBytes bounds how much of a failed response is read for context.
const maxErrorBodyBytes = 64 << 10

// Operation describes the remote call being performed, for error context.
type Operation struct {
	// Service is the downstream service name (e.g. "gorest").
	Service string
	// Name is a short verb phrase such as "fetch user".
	Name string
	// Entity is the remote resource kind used in not-found errors.
	Entity string
	// EntityID identifies the resource, empty for collection calls.
	EntityID string
}

// ErrorResponse is the body GoREST returns for non-validation failures.
type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldError is one entry of the array GoREST returns with 422 responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseErrorResponse reads a failed response body. It understands both the
// object form ({"message": ...}) and the 422 array form ([{"field","message"}]).
// Unparseable or empty bodies yield an empty message and no field errors.
func ParseErrorResponse(body io.Reader) (string, []FieldError) {
	if body == nil {
		return "", nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return "", nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	if raw[0] == '[' {
		var fields []FieldError
		if json.Unmarshal(raw, &fields) == nil {
			return "", fields
		}

		return "", nil
	}

	var resp ErrorResponse
	if json.Unmarshal(raw, &resp) != nil {
		return "", nil
	}

	return resp.Message, nil
}

// MapHTTPError maps a failed remote call to a domain error.
// resp may be nil when clientErr carries a transport or client-level failure.
// A 2xx response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, op Operation) error {
	if clientErr != nil {
		return mapClientError(clientErr, op)
	}

	if resp == nil {
		return domain.NewUnavailableError(op.Service, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	message, fields := ParseErrorResponse(resp.Body)

	return mapStatusCode(resp.StatusCode, message, fields, op)
}

func mapClientError(err error, op Operation) error {
	if errors.Is(err, clients.ErrCircuitOpen) {
		return domain.NewUnavailableError(op.Service,
			fmt.Sprintf("circuit breaker open during %s", op.Name))
	}

	return domain.NewUnavailableError(op.Service, fmt.Sprintf("%s failed: %v", op.Name, err))
}

func mapStatusCode(status int, message string, fields []FieldError, op Operation) error {
	if message == "" {
		message = defaultMessageForStatus(status, op.Name)
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(op.Entity, op.EntityID)

	case http.StatusConflict:
		return domain.NewConflictError(op.Entity, message)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(fields) > 0 {
			var verrs domain.ValidationErrors
			for _, f := range fields {
				verrs.Add(f.Field, f.Message)
			}

			return verrs
		}

		return domain.NewValidationError("", message)

	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewUnavailableError(op.Service, "credentials rejected: "+message)

	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(op.Service, "rate limit exceeded")

	default:
		return domain.NewUnavailableError(op.Service, message)
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "authentication failed"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
