package service

import (
	"context"      // Request-scoped cancellation
	"strings"      // Input trimming
	"unicode/utf8" // Length checks on user input

	"citizen_registry/internal/apperr" // API error kinds
	"citizen_registry/internal/domain" // Domain models
	"citizen_registry/internal/store"  // Credential store
	"citizen_registry/internal/utils"  // Hasher and token issuer

	"github.com/pkg/errors"      // Sentinel matching
	"github.com/sirupsen/logrus" // Structured logging
)

// RecentReportLimit is how many reports a profile embeds
const RecentReportLimit = 5

const (
	maxNIKLength  = 16
	maxNamaLength = 100

	msgRegisterRequired = "NIK, nama, dan password harus diisi"
	msgLoginRequired    = "NIK dan password harus diisi"
	msgNIKTooLong       = "NIK maksimal 16 karakter"
	msgNamaTooLong      = "Nama maksimal 100 karakter"
	msgPasswordTooLong  = "Password maksimal 72 byte"
	msgInvalidRole      = "Role tidak valid"
	msgDuplicateNIK     = "NIK sudah terdaftar"
	msgBadCredentials   = "NIK atau password salah"
	msgUserNotFound     = "User tidak ditemukan"
	msgNoUnitAssigned   = "Akun belum terdaftar pada RT/RW"
	msgForbidden        = "Akses ditolak"
)

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	NIK      string
	Nama     string
	Password string
	Alamat   *string
	Role     string
}

// AuthResult is returned by a successful registration or login
type AuthResult struct {
	User  domain.PublicUser
	Token string
}

// IdentityService orchestrates registration, login and profile lookups
type IdentityService struct {
	store  store.UserStore       // Credential store
	hasher *utils.PasswordHasher // Password hasher
	tokens *utils.TokenIssuer    // Token issuer
	admins map[string]bool       // NIKs granted the directory-wide view
}

// NewIdentityService wires the service to its collaborators
func NewIdentityService(s store.UserStore, hasher *utils.PasswordHasher, tokens *utils.TokenIssuer) *IdentityService {
	return &IdentityService{store: s, hasher: hasher, tokens: tokens, admins: map[string]bool{}}
}

// WithAdminNIKs grants the directory-wide view to the accounts holding these NIKs.
// The admin role claim alone is self-asserted at registration and grants nothing.
func (s *IdentityService) WithAdminNIKs(niks ...string) *IdentityService {
	for _, nik := range niks {
		if nik = strings.TrimSpace(nik); nik != "" {
			s.admins[nik] = true
		}
	}
	return s
}

// Register creates a new account and issues a token for it
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	nik := strings.TrimSpace(in.NIK)   // Identity number without surrounding spaces
	nama := strings.TrimSpace(in.Nama) // Display name without surrounding spaces
	// Validate required fields
	if nik == "" || nama == "" || in.Password == "" {
		return nil, apperr.Validation(msgRegisterRequired)
	}
	if utf8.RuneCountInString(nik) > maxNIKLength {
		return nil, apperr.Validation(msgNIKTooLong)
	}
	if utf8.RuneCountInString(nama) > maxNamaLength {
		return nil, apperr.Validation(msgNamaTooLong)
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, apperr.Validation(msgPasswordTooLong)
	}
	role, ok := domain.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return nil, apperr.Validation(msgInvalidRole)
	}

	// Fast path; the unique index still decides races below
	if _, err := s.store.FindByNIK(ctx, nik); err == nil {
		return nil, apperr.Conflict(msgDuplicateNIK)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "check nik")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}
	user := domain.User{
		NIK:      nik,       // Identity number
		Nama:     nama,      // Display name
		Password: hash,      // Hashed password
		Role:     role,      // Given or default role
		Alamat:   in.Alamat, // Optional address
	}
	if err := s.store.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateNIK) {
			return nil, apperr.Conflict(msgDuplicateNIK) // Lost the race to a concurrent registration
		}
		return nil, apperr.Internal(err, "create user")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,   // New user ID
		"role":    user.Role, // Assigned role
	}).Info("User registered")
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// Login verifies credentials and issues a token
func (s *IdentityService) Login(ctx context.Context, nik, password string) (*AuthResult, error) {
	nik = strings.TrimSpace(nik)
	if nik == "" || password == "" {
		return nil, apperr.Validation(msgLoginRequired)
	}

	user, err := s.store.FindByNIK(ctx, nik)
	if errors.Is(err, store.ErrNotFound) {
		s.hasher.CheckDummy(password) // Same bcrypt work as a wrong password
		return nil, apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, apperr.Internal(err, "find user by nik")
	}
	if !s.hasher.Check(password, user.Password) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// EnsureUser fails with NotFound when the account behind userID no longer exists
func (s *IdentityService) EnsureUser(ctx context.Context, userID uint) error {
	_, err := s.store.FindByID(ctx, userID) // Primary key lookup
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return apperr.Internal(err, "find user by id")
	}
	return nil
}

// GetProfile returns the user with their most recent reports
func (s *IdentityService) GetProfile(ctx context.Context, userID uint) (*domain.Profile, error) {
	user, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(msgUserNotFound) // Token outlived the account
	}
	if err != nil {
		return nil, apperr.Internal(err, "find user by id")
	}
	reports, err := s.store.RecentReports(ctx, userID, RecentReportLimit)
	if err != nil {
		return nil, apperr.Internal(err, "recent reports")
	}
	if reports == nil {
		reports = []domain.ReportSummary{} // Serialize as [] rather than null
	}
	return &domain.Profile{PublicUser: user.Public(), Reports: reports}, nil
}
