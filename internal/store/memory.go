package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"citizen_registry/internal/domain"
)

// MemoryStore is an in-process UserStore. It enforces the same nik
// uniqueness and ordering rules as the MySQL schema.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   uint
	users    map[uint]domain.User
	byNIK    map[string]uint
	reports  []domain.Report
	now      func() time.Time
	reportID uint
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uint]domain.User),
		byNIK: make(map[string]uint),
		now:   time.Now,
	}
}

// Create inserts u, assigning its ID, timestamps and default role
func (s *MemoryStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byNIK[u.NIK]; ok { // Unique index on nik
		return ErrDuplicateNIK
	}
	s.nextID++ // Auto-increment
	now := s.now()
	u.ID = s.nextID
	if u.Role == "" {
		u.Role = domain.RoleWarga // Column default
	}
	u.CreatedAt, u.UpdatedAt = now, now

	stored := *u         // Keep a private copy
	stored.Reports = nil // Associations are not persisted with the user
	s.users[u.ID] = stored
	s.byNIK[u.NIK] = u.ID
	return nil
}

// FindByNIK returns a copy of the user holding nik, hash included
func (s *MemoryStore) FindByNIK(_ context.Context, nik string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNIK[nik]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

// FindByID returns a copy of the user without the password hash
func (s *MemoryStore) FindByID(_ context.Context, id uint) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Password = "" // Column omitted from the select
	return &u, nil
}

// RecentReports returns up to limit reports of the user, newest first
func (s *MemoryStore) RecentReports(_ context.Context, userID uint, limit int) ([]domain.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []domain.Report // Reports filed by the user
	for _, r := range s.reports {
		if r.UserID == userID {
			owned = append(owned, r)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if limit >= 0 && len(owned) > limit {
		owned = owned[:limit]
	}
	out := make([]domain.ReportSummary, len(owned))
	for i := range owned {
		out[i] = owned[i].Summary()
	}
	return out, nil
}

// ListUsers returns a filtered page ordered by id and the total match count
func (s *MemoryStore) ListUsers(_ context.Context, filter UserFilter, offset, limit int) ([]domain.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.User
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.RW != nil && (u.RW == nil || *u.RW != *filter.RW) {
			continue
		}
		if filter.RT != nil && (u.RT == nil || *u.RT != *filter.RT) {
			continue
		}
		u.Password = "" // Column omitted from the select
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched)) // Count before paging
	if offset >= len(matched) {
		return []domain.User{}, total, nil // Past the last page
	}
	end := len(matched)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(context.Context) error { return nil }

// AddReport attaches a report to an existing user. A zero CreatedAt is set to now.
func (s *MemoryStore) AddReport(_ context.Context, r *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[r.UserID]; !ok {
		return ErrNotFound
	}
	s.reportID++ // Auto-increment
	r.ID = s.reportID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.UpdatedAt = r.CreatedAt
	s.reports = append(s.reports, *r)
	return nil
}

// Delete removes a user and their reports
func (s *MemoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	delete(s.byNIK, u.NIK)
	kept := s.reports[:0] // Cascade to the user's reports
	for _, r := range s.reports {
		if r.UserID != id {
			kept = append(kept, r)
		}
	}
	s.reports = kept
	return nil
}
