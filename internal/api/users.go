package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"citizen_registry/internal/domain"     // Domain models
	"citizen_registry/internal/middleware" // Identity from context
	"citizen_registry/internal/service"    // Identity service
	"citizen_registry/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// listResponse is the body of GET /users
type listResponse struct {
	service.UserPage
	Cached bool `json:"cached"` // Indicate response is from cache
}

// usersListPrefix starts every cached listing key
const usersListPrefix = "users:list:"

// listCacheKey identifies a normalized listing request of one viewer
func listCacheKey(viewerID uint, q service.ListQuery) string {
	parts := []string{
		"viewer=" + strconv.FormatUint(uint64(viewerID), 10), // Scoping depends on the viewer
		"role=" + optionalRole(q.Role),
		"rw=" + optionalInt(q.RW),
		"rt=" + optionalInt(q.RT),
		"page=" + strconv.Itoa(q.Page),
		"page_size=" + strconv.Itoa(q.PageSize),
	}
	return usersListPrefix + strings.Join(parts, ":")
}

func optionalRole(r *domain.Role) string {
	if r == nil {
		return ""
	}
	return string(*r)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ListUsersHandler returns a page of users visible to the caller's role
func ListUsersHandler(svc *service.IdentityService, cache utils.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := middleware.Identity(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		query := service.ListQuery{}
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				query.Page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= service.MaxPageSize {
				query.PageSize = v // Set page size
			}
		}
		if r := c.Query("role"); r != "" {
			filterRole := domain.Role(r)
			if !filterRole.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Role tidak valid"})
				return
			}
			query.Role = &filterRole // Filter by role
		}
		for param, dst := range map[string]**int{"rw": &query.RW, "rt": &query.RT} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Parameter " + param + " tidak valid"})
				return
			}
			*dst = &v // Filter by unit
		}

		ctx := c.Request.Context()
		query = query.Normalize()               // Equivalent requests share one cache entry
		cacheKey := listCacheKey(userID, query) // Cache key for this viewer and page
		var cached listResponse
		found, err := cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logrus.WithError(err).WithField("key", cacheKey).Warn("Listing cache read failed")
		} else if found {
			// The viewer's rights may have changed since the entry was written
			if err := svc.AuthorizeListing(ctx, userID, role); err != nil {
				writeError(c, err)
				return
			}
			cached.Cached = true
			c.JSON(http.StatusOK, cached) // Return cached page
			return
		}

		page, err := svc.ListUsers(ctx, userID, role, query)
		if err != nil {
			writeError(c, err)
			return
		}
		resp := listResponse{UserPage: *page}
		// Cache the response for future requests
		if err := cache.Set(ctx, cacheKey, resp, ttl); err != nil {
			logrus.WithError(err).WithField("key", cacheKey).Warn("Listing cache write failed")
		}
		c.JSON(http.StatusOK, resp) // Return the response
	}
}
