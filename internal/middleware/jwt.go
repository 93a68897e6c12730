package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"citizen_registry/internal/domain" // Role type
	"citizen_registry/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

const (
	msgMissingToken = "Token tidak ditemukan"
	msgInvalidToken = "Token tidak valid atau kedaluwarsa"
)

// JWTAuthMiddleware validates bearer tokens and stores the caller's identity in the context.
// It trusts the token claims and does not touch the database.
func JWTAuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgMissingToken})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		claims, err := issuer.Parse(tokenStr)                                    // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
			return
		}
		c.Set(ContextUserID, claims.UserID) // Store userID in context
		c.Set(ContextRole, claims.Role)     // Store role in context
		c.Next()                            // Proceed to the next handler
	}
}

// Identity returns the caller resolved by JWTAuthMiddleware
func Identity(c *gin.Context) (uint, domain.Role, bool) {
	userID, ok := c.Get(ContextUserID) // Get userID from context
	if !ok {
		return 0, "", false
	}
	role, _ := c.Get(ContextRole) // Get role from context
	id, idOK := userID.(uint)
	r, roleOK := role.(domain.Role)
	return id, r, idOK && roleOK
}
