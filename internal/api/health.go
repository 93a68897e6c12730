package api

import (
	"context"  // Ping timeout
	"net/http" // HTTP status codes
	"time"     // Ping timeout

	"citizen_registry/internal/store" // Credential store

	"github.com/gin-gonic/gin" // Gin web framework
)

// HealthHandler reports whether the credential store is reachable
func HealthHandler(st store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP", "database": "connected"})
	}
}
