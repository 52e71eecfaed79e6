package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one access line per request. route is the gin template
// (/api/vehicles/:id) so lines group by endpoint; user_id is 0 on public
// routes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "-"
		}
		line := "[HTTP] request_id=%s method=%s route=%s path=%s status=%d bytes=%d latency_ms=%.3f ip=%s user_id=%d"
		args := []any{
			GetRequestID(c),
			c.Request.Method,
			route,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Writer.Size(),
			float64(time.Since(start).Microseconds()) / 1000.0,
			c.ClientIP(),
			GetUserID(c),
		}
		if len(c.Errors) > 0 {
			line += " errors=%q"
			args = append(args, c.Errors.String())
		}
		log.Printf(line, args...)
	}
}
