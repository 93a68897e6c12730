package middleware

import (
	"net/http" // HTTP status codes

	"citizen_registry/internal/domain" // Role type

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole lets the request through only when the token role is one of roles.
// Must run after JWTAuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		_, role, ok := Identity(c) // Get identity from context
		// Check if identity exists in context
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingToken})
			return
		}
		// Check if the role is permitted
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Akses ditolak"})
			return
		}
		c.Next()
	}
}
