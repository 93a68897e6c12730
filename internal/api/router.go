package api

import (
	"net/http" // HTTP handler interface
	"time"     // Cache TTL

	"citizen_registry/internal/domain"     // Roles
	"citizen_registry/internal/middleware" // Custom middleware
	"citizen_registry/internal/service"    // Identity service
	"citizen_registry/internal/store"      // Credential store
	"citizen_registry/internal/utils"      // Token issuer and cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the HTTP API is built from
type Deps struct {
	Service        *service.IdentityService // Identity service
	Store          store.UserStore          // Used by the health check
	Tokens         *utils.TokenIssuer       // Verifies bearer tokens
	Cache          utils.Cache              // Response cache; nil disables caching
	CacheTTL       time.Duration            // Lifetime of cached responses
	Metrics        *middleware.Metrics      // Optional request metrics
	MetricsHandler http.Handler             // Optional /metrics exposition
}

// NewRouter registers every route on a new gin engine
func NewRouter(d Deps) *gin.Engine {
	if d.Cache == nil {
		d.Cache = utils.NoopCache{}
	}
	r := gin.New()                                    // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger()) // Panic recovery and request logging
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler())
	}

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(d.Service, d.Cache)) // Registration endpoint
	auth.POST("/login", LoginHandler(d.Service, d.Cache))       // Login endpoint
	// Profile is protected by JWT
	auth.GET("/profile", middleware.JWTAuthMiddleware(d.Tokens), ProfileHandler(d.Service, d.Cache, d.CacheTTL))

	// User directory (protected, unit heads and admin only)
	users := r.Group("/users")
	users.Use(middleware.JWTAuthMiddleware(d.Tokens), middleware.RequireRole(domain.RoleAdmin, domain.RoleRW, domain.RoleRT))
	users.GET("", ListUsersHandler(d.Service, d.Cache, d.CacheTTL)) // List users endpoint

	r.GET("/health", HealthHandler(d.Store)) // Health check endpoint
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler)) // Prometheus endpoint
	}
	return r
}
