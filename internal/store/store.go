package store

import (
	"context"
	"errors"

	"citizen_registry/internal/domain"
)

// Sentinel errors returned by every UserStore implementation. The service
// layer translates them into API errors.
var (
	ErrNotFound     = errors.New("user not found")
	ErrDuplicateNIK = errors.New("nik already registered")
)

// UserFilter narrows a user listing. Nil fields are not applied.
type UserFilter struct {
	Role *domain.Role
	RW   *int
	RT   *int
}

// UserStore persists users and reads the reports associated with them
type UserStore interface {
	// Create inserts u and fills in its ID and timestamps. A NIK collision
	// returns ErrDuplicateNIK and leaves the existing row untouched.
	Create(ctx context.Context, u *domain.User) error
	// FindByNIK returns the user including the password hash.
	FindByNIK(ctx context.Context, nik string) (*domain.User, error)
	// FindByID returns the user without the password hash.
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	// RecentReports returns up to limit reports of the user, newest first.
	RecentReports(ctx context.Context, userID uint, limit int) ([]domain.ReportSummary, error)
	// ListUsers returns one page of users matching filter ordered by id, and the total match count.
	ListUsers(ctx context.Context, filter UserFilter, offset, limit int) ([]domain.User, int64, error)
	Ping(ctx context.Context) error
}
