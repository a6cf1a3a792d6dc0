package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"speech-relay/internal/app/relay"
)

const (
	// RequestIDKey is the gin context key holding the request id
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID adds a unique request ID to each request and carries it into the
// request context so pipeline logs can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(relay.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}
