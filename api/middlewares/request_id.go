package middlewares

import (
	"Warbler/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		httpctx.SetRequestID(c, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
