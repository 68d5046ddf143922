package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// RouteTimeout puts a deadline on the request context: def, or the entry in
// overrides for the matched route pattern such as "/user/uploadall". A
// duration of zero or less means no deadline.
//
// Nothing is aborted here. The GoREST client and the store observe the
// deadline and their error becomes the response.
func RouteTimeout(def time.Duration, overrides map[string]time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := overrides[c.FullPath()]
		if !ok {
			d = def
		}

		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
