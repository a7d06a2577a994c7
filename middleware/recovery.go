package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/logger"
)

// Recovery returns a gin middleware that recovers from panics and logs the stack.
// MustResolve panics raised by handlers surface here as 500 responses.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Get("http")
	}
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", map[string]interface{}{
					logger.FieldError:     fmt.Sprintf("%v", err),
					"stack":               string(debug.Stack()),
					"path":                c.Request.URL.Path,
					"method":              c.Request.Method,
					logger.FieldRequestID: RequestIDFrom(c),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{Code: "INTERNAL", Message: "internal server error"},
				})
			}
		}()
		c.Next()
	}
}
