package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/platform/logging"
)

// Logging writes a "request started" and a "request completed" record for
// every user API call. Paths under /-/ and any listed in skip are silent.
// The completion level follows the status: WARN for 4xx, ERROR for 5xx.
func Logging(logger *slog.Logger, skip ...string) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/-/") || slices.Contains(skip, path) {
			c.Next()
			return
		}

		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		log := requestLogger(c, logger)
		start := time.Now()

		log.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)

		log.Log(c.Request.Context(), levelFor(status), "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.Int64("latency_ms", elapsed.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// requestLogger prefers the logger RequestID attached to the request
// context, which already carries the request and correlation ids.
func requestLogger(c *gin.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := logging.Lookup(c.Request.Context()); ok {
		return log
	}

	return fallback
}
