package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that tags every request with an id taken
// from X-Request-ID or freshly generated. The id is echoed on the response,
// forwarded to GoREST, and attached to the request logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(HeaderRequestID, ContextKeyRequestID, func(ctx context.Context, id string) context.Context {
		return logging.WithRequestID(ContextWithRequestID(ctx, id), id)
	})
}

// GetRequestID returns the request ID, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return ginID(c, ContextKeyRequestID)
}

// MustGetRequestID returns the request ID, or "unknown" outside the middleware.
func MustGetRequestID(c *gin.Context) string {
	return orUnknown(GetRequestID(c))
}
