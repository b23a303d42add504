package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID honors an inbound X-Request-Id so ids stay stable across a proxy,
// and mints one otherwise. The id is echoed on the response for support
// tickets that quote it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}

// requestID reads the id set by RequestID, for log correlation.
func requestID(c *gin.Context) string {
	return c.Writer.Header().Get(requestIDHeader)
}
