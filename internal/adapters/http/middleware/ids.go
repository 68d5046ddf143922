// Package middleware provides the gin middleware chain: request and
// correlation ids, request logging, panic recovery and per-route deadlines.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// RequestIDFromContext returns the request id stored by RequestID, or "".
// The GoREST client reads it to forward X-Request-ID.
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation id stored by CorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

// ContextWithRequestID stores a request id for outbound propagation.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation id for outbound propagation.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}

// idMiddleware reads header, or mints a UUID when it is absent, then echoes
// the id on the response and exposes it on the gin and request contexts.
func idMiddleware(header, ginKey string, enrich func(context.Context, string) context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ginKey, id)
		c.Header(header, id)
		c.Request = c.Request.WithContext(enrich(c.Request.Context(), id))

		c.Next()
	}
}

func ginID(c *gin.Context, key string) string {
	return c.GetString(key)
}

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}

	return id
}
