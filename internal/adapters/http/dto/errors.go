// Package dto holds the JSON shapes exchanged with API clients and the
// helpers that turn domain errors into responses.
package dto

// Machine-readable codes carried in ErrorDetail.Code.
const (
	ErrorCodeBadRequest  = "BAD_REQUEST"
	ErrorCodeValidation  = "VALIDATION_ERROR"
	ErrorCodeNotFound    = "NOT_FOUND"
	ErrorCodeConflict    = "CONFLICT"
	ErrorCodeTimeout     = "TIMEOUT"
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal    = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure. Fields keeps validation failures in
// the order they were found; Details indexes the first message per field.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Fields  []FieldError      `json:"fields,omitempty"`
}

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse builds a response carrying a single code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewValidationErrorResponse lists every failed field under
// ErrorCodeValidation.
func NewValidationErrorResponse(message string, fields []FieldError) *ErrorResponse {
	resp := NewErrorResponse(ErrorCodeValidation, message)
	if len(fields) == 0 {
		return resp
	}

	resp.Error.Fields = fields
	resp.Error.Details = make(map[string]string, len(fields))

	for _, f := range fields {
		if _, seen := resp.Error.Details[f.Field]; !seen {
			resp.Error.Details[f.Field] = f.Message
		}
	}

	return resp
}

// WithTraceID sets the trace ID in place and returns the same response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}
