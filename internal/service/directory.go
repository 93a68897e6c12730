package service

import (
	"context" // Request-scoped cancellation

	"citizen_registry/internal/apperr" // API error kinds
	"citizen_registry/internal/domain" // Domain models
	"citizen_registry/internal/store"  // Credential store

	"github.com/pkg/errors" // Sentinel matching
)

// Page size bounds of a user listing
const (
	DefaultPageSize = 20  // Used when no or an invalid size is requested
	MaxPageSize     = 100 // Largest size a caller may request
)

// ListQuery is a page request with optional filters
type ListQuery struct {
	Role     *domain.Role
	RW       *int
	RT       *int
	Page     int
	PageSize int
}

// Normalize applies the page defaults and bounds
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1 // First page by default
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize // Out-of-range sizes fall back to the default
	}
	return q
}

// UserPage is one page of a user listing
type UserPage struct {
	Users      []domain.PublicUser `json:"users"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int64               `json:"total"`
	TotalPages int                 `json:"total_pages"`
}

// viewerScope resolves the unit filter a viewer is confined to. An
// allowlisted administrator gets an empty scope; an RW head is confined to
// their RW and an RT head to their RT. The viewer's NIK and unit are read
// from the store, not from the token.
func (s *IdentityService) viewerScope(ctx context.Context, viewerID uint, viewerRole domain.Role) (store.UserFilter, error) {
	var scope store.UserFilter
	switch viewerRole {
	case domain.RoleAdmin, domain.RoleRW, domain.RoleRT:
	default:
		return scope, apperr.Forbidden(msgForbidden) // Residents have no directory view
	}

	viewer, err := s.store.FindByID(ctx, viewerID) // Current account state
	if errors.Is(err, store.ErrNotFound) {
		return scope, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return scope, apperr.Internal(err, "find viewer")
	}

	switch viewerRole {
	case domain.RoleAdmin:
		if !s.admins[viewer.NIK] {
			return scope, apperr.Forbidden(msgForbidden) // Role claim without the allowlist
		}
	case domain.RoleRW, domain.RoleRT:
		if viewer.RW == nil || (viewerRole == domain.RoleRT && viewer.RT == nil) {
			return scope, apperr.Forbidden(msgNoUnitAssigned)
		}
		scope.RW = viewer.RW // Confined to own neighborhood unit
		if viewerRole == domain.RoleRT {
			scope.RT = viewer.RT // And to own block
		}
	}
	return scope, nil
}

// AuthorizeListing checks that the viewer may still list users
func (s *IdentityService) AuthorizeListing(ctx context.Context, viewerID uint, viewerRole domain.Role) error {
	_, err := s.viewerScope(ctx, viewerID, viewerRole)
	return err
}

// ListUsers pages through the users a viewer may see
func (s *IdentityService) ListUsers(ctx context.Context, viewerID uint, viewerRole domain.Role, q ListQuery) (*UserPage, error) {
	scope, err := s.viewerScope(ctx, viewerID, viewerRole)
	if err != nil {
		return nil, err
	}
	q = q.Normalize()
	filter := store.UserFilter{Role: q.Role, RW: q.RW, RT: q.RT} // Caller-supplied filters
	if scope.RW != nil {
		filter.RW = scope.RW // Unit scope overrides the caller's filter
	}
	if scope.RT != nil {
		filter.RT = scope.RT
	}

	offset := (q.Page - 1) * q.PageSize                                     // Rows to skip
	users, total, err := s.store.ListUsers(ctx, filter, offset, q.PageSize) // Fetch the page
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	out := make([]domain.PublicUser, len(users)) // Password-free projections
	for i := range users {
		out[i] = users[i].Public()
	}
	return &UserPage{
		Users:      out,
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      total,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}
