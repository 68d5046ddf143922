package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/adapters/http/dto"
)

// Recovery turns a handler panic into a logged ERROR record and a 500
// envelope. It must be the first middleware in the chain.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithHook(logger, nil)
}

// RecoveryWithHook behaves like Recovery and also passes the panic value
// and stack to onPanic.
func RecoveryWithHook(logger *slog.Logger, onPanic func(v any, stack []byte)) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}

			stack := debug.Stack()
			if onPanic != nil {
				onPanic(v, stack)
			}

			traceID := dto.GetTraceID(c)

			requestLogger(c, logger).Error("panic recovered",
				slog.Any("error", v),
				slog.String("error_kind", fmt.Sprintf("%T", v)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", traceID),
				slog.String("stack", string(stack)),
			)

			// Headers are gone once the handler wrote; keep what the client got.
			if c.Writer.Written() {
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID))
		}()

		c.Next()
	}
}
