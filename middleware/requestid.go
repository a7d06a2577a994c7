package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/tinydi/logger"
)

// HeaderRequestID is the header used to propagate request IDs.
const HeaderRequestID = "X-Request-Id"

// RequestID injects a unique X-Request-Id header into every request/response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(HeaderRequestID, id)
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFrom returns the request ID set by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(logger.FieldRequestID)
}
