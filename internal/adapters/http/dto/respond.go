package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/user-sync-service/internal/domain"
	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

// Keys used to find a trace ID when no span is active.
const (
	ContextKeyTraceID = "trace_id"
	HeaderRequestID   = "X-Request-ID"
)

// GetTraceID returns the trace ID for the request. The active OpenTelemetry
// span wins, then a "trace_id" value set on the gin context, then the
// X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			return sc.TraceID().String()
		}
	}

	if v, ok := c.Get(ContextKeyTraceID); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request != nil {
		return c.GetHeader(HeaderRequestID)
	}

	return ""
}

// ResponseFor classifies err into a status code and error envelope.
// Validation failures become 400, missing entities 404, conflicts 409,
// and anything else 500 carrying the error text.
func ResponseFor(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var fieldErrs domain.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, NewValidationErrorResponse(joinMessages(fieldErrs), toFieldErrors(fieldErrs))
	}

	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		fields := []FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}}
		if fieldErr.Field == "" {
			fields = nil
		}

		return http.StatusBadRequest, NewValidationErrorResponse(fieldErr.Message, fields)
	}

	if domain.IsValidation(err) {
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, notFound.Error())
	}

	if domain.IsNotFound(err) {
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, conflict.Error())
	}

	if domain.IsConflict(err) {
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())
	}

	code := ErrorCodeInternal
	if domain.IsUnavailable(err) {
		code = ErrorCodeUnavailable
	}

	return http.StatusInternalServerError, NewErrorResponse(code, err.Error())
}

// HandleError writes the response for err. Unclassified errors go through
// RespondUnexpected so they are always logged.
func HandleError(c *gin.Context, err error) {
	status, resp := ResponseFor(err)
	if status == http.StatusInternalServerError {
		RespondUnexpected(c, err)
		return
	}

	c.JSON(status, resp.WithTraceID(GetTraceID(c)))
}

// RespondClientFault writes a client-caused failure with the given status.
func RespondClientFault(c *gin.Context, status int, message string) {
	c.JSON(status, NewErrorResponse(codeForStatus(status), message).WithTraceID(GetTraceID(c)))
}

// RespondUnexpected logs err with its concrete type and writes a 500 carrying its message.
func RespondUnexpected(c *gin.Context, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	ctx := c.Request.Context()
	traceID := GetTraceID(c)

	logging.FromContext(ctx).ErrorContext(ctx, "unexpected error",
		slog.String("error", err.Error()),
		slog.String("error_kind", fmt.Sprintf("%T", err)),
		slog.String("cause_kind", fmt.Sprintf("%T", rootCause(err))),
		slog.String("trace_id", traceID),
	)

	code := ErrorCodeInternal
	if domain.IsUnavailable(err) {
		code = ErrorCodeUnavailable
	}

	c.JSON(http.StatusInternalServerError, NewErrorResponse(code, err.Error()).WithTraceID(traceID))
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	}

	if status >= http.StatusInternalServerError {
		return ErrorCodeInternal
	}

	return ErrorCodeBadRequest
}

func toFieldErrors(errs domain.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, FieldError{Field: e.Field, Message: e.Message})
	}

	return fields
}

func joinMessages(errs domain.ValidationErrors) string {
	if len(errs) == 0 {
		return "request validation failed"
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}

	return strings.Join(msgs, "; ")
}

// rootCause follows single-error Unwrap chains to the innermost error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}

		err = next
	}
}
