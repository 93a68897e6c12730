package api

import (
	"citizen_registry/internal/apperr"     // API error kinds
	"citizen_registry/internal/middleware" // Request id key

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// writeError translates err into a status code and a {message} body.
// Internal errors are logged with their cause; clients only see a generic message.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		// Log the error with context
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.ContextRequestID), // Request correlation
			"path":       c.FullPath(),                             // Route template
			"error":      err.Error(),                              // Error message
		}).Errorf("Request failed: %+v", err) // Full cause with stack
	}
	c.JSON(apperr.Status(kind), gin.H{"message": apperr.Message(err)})
}
