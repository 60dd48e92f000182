package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestID assigns each request an id, honoring an incoming X-Request-ID so
// ids from the uploading client correlate with extraction logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger logs one line per request: id, method, path, status, size, latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		requestID, _ := c.Get(ContextKeyRequestID)
		log.Printf("[%s] %s %s %d %dB %s",
			requestID,
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
	}
}

// Recovery recovers from handler panics and returns a 500.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
