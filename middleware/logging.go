package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/logger"
)

// RequestLogger logs every request with method, path, status and latency.
// When the Scope middleware runs, the scope ID is logged too so that
// container debug logs can be matched to requests.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Get("http")
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if id := RequestIDFrom(c); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if scope, ok := ScopeFrom(c); ok {
			fields[logger.FieldScopeID] = scope.ID()
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}
