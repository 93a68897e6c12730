package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-Id"

// ContextRequestID is the gin context key of the request id
const ContextRequestID = "requestID"

// RequestLogger assigns a request id and logs one entry per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader) // Reuse the caller's id if present
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,          // Correlates handler logs
			"method":     c.Request.Method,   // HTTP method
			"path":       c.Request.URL.Path, // Request path
			"status":     status,             // Response status
			"latency":    time.Since(start),  // Handling time
			"client_ip":  c.ClientIP(),       // Caller address
		})
		switch {
		case status >= 500:
			entry.Error("HTTP request")
		case status >= 400:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}
