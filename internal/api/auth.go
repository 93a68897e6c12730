package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Cache key formatting
	"time"     // Cache TTL

	"citizen_registry/internal/domain"     // Domain models
	"citizen_registry/internal/middleware" // Identity from context
	"citizen_registry/internal/service"    // Identity service
	"citizen_registry/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	NIK      string  `json:"nik"`      // Identity number
	Nama     string  `json:"nama"`     // Display name
	Password string  `json:"password"` // Plaintext password, hashed before storage
	Alamat   *string `json:"alamat"`   // Optional address
	Role     string  `json:"role"`     // Optional role, defaults to warga
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	NIK      string `json:"nik"`      // Identity number
	Password string `json:"password"` // Plaintext password
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string            `json:"message"` // Outcome message
	User    domain.PublicUser `json:"user"`    // User without password
	Token   string            `json:"token"`   // JWT token
}

const (
	msgInvalidPayload  = "Format request tidak valid"
	msgRegisterSuccess = "Registrasi berhasil"
	msgLoginSuccess    = "Login berhasil"
)

// profileCacheKey is the cache key of a user's profile response
func profileCacheKey(userID uint) string {
	return "profile:user:" + strconv.FormatUint(uint64(userID), 10)
}

// RegisterHandler creates an account and returns it with a token. Cached
// listing pages are evicted since the new account may belong on them.
func RegisterHandler(svc *service.IdentityService, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidPayload})
			return
		}
		res, err := svc.Register(c.Request.Context(), service.RegisterInput{
			NIK:      req.NIK,      // Identity number
			Nama:     req.Nama,     // Display name
			Password: req.Password, // Plaintext password
			Alamat:   req.Alamat,   // Optional address
			Role:     req.Role,     // Optional role
		})
		if err != nil {
			writeError(c, err)
			return
		}
		if err := cache.DeletePrefix(c.Request.Context(), usersListPrefix); err != nil {
			logrus.WithError(err).WithField("prefix", usersListPrefix).Warn("Listing cache eviction failed")
		}
		// Return success response
		c.JSON(http.StatusCreated, AuthResponse{Message: msgRegisterSuccess, User: res.User, Token: res.Token})
	}
}

// LoginHandler authenticates a user and returns a JWT token. The user's cached
// profile is evicted so the next profile read comes from the store.
func LoginHandler(svc *service.IdentityService, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidPayload})
			return
		}
		res, err := svc.Login(c.Request.Context(), req.NIK, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		cacheKey := profileCacheKey(res.User.ID)
		if err := cache.Delete(c.Request.Context(), cacheKey); err != nil {
			logrus.WithError(err).WithField("key", cacheKey).Warn("Profile cache eviction failed")
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Message: msgLoginSuccess, User: res.User, Token: res.Token})
	}
}

// ProfileHandler returns the caller's profile with their recent reports
func ProfileHandler(svc *service.IdentityService, cache utils.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := middleware.Identity(c) // Get userID from context
		// Check if userID exists in context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := profileCacheKey(userID) // Cache key for this user
		var cached domain.Profile
		found, err := cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logrus.WithError(err).WithField("key", cacheKey).Warn("Profile cache read failed")
		} else if found {
			// The account may have been removed since the entry was written
			if err := svc.EnsureUser(ctx, userID); err != nil {
				if err := cache.Delete(ctx, cacheKey); err != nil {
					logrus.WithError(err).WithField("key", cacheKey).Warn("Profile cache eviction failed")
				}
				writeError(c, err)
				return
			}
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached) // Return cached profile
			return
		}
		profile, err := svc.GetProfile(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		// Cache the response for future requests
		if err := cache.Set(ctx, cacheKey, profile, ttl); err != nil {
			logrus.WithError(err).WithField("key", cacheKey).Warn("Profile cache write failed")
		}
		c.Header("X-Cache", "MISS")
		c.JSON(http.StatusOK, profile) // Return the profile
	}
}
