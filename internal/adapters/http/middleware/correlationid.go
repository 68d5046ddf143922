package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

const (
	// HeaderCorrelationID carries an id shared by every hop of one business
	// transaction, unlike the per-hop request id.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates X-Correlation-ID from the
// caller, starting a new one when this service is the origin.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(HeaderCorrelationID, ContextKeyCorrelationID, func(ctx context.Context, id string) context.Context {
		return logging.WithCorrelationID(ContextWithCorrelationID(ctx, id), id)
	})
}

// GetCorrelationID returns the correlation ID, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return ginID(c, ContextKeyCorrelationID)
}

// MustGetCorrelationID returns the correlation ID, or "unknown" outside the middleware.
func MustGetCorrelationID(c *gin.Context) string {
	return orUnknown(GetCorrelationID(c))
}
