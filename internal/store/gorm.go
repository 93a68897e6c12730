package store

import (
	"context" // Context for query cancellation

	"citizen_registry/internal/domain" // Importing domain models

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"github.com/pkg/errors"          // Error wrapping with stack traces
	"gorm.io/gorm"                   // GORM ORM library
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// GormStore is the MySQL-backed UserStore
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a user row; the unique index on nik is the authority for uniqueness
func (s *GormStore) Create(ctx context.Context, u *domain.User) error {
	err := s.db.WithContext(ctx).Omit("Reports").Create(u).Error // Insert the user only
	if isDuplicateKey(err) {
		return ErrDuplicateNIK // Another row already holds this nik
	}
	if err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

// FindByNIK looks a user up by identity number, hash included
func (s *GormStore) FindByNIK(ctx context.Context, nik string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("nik = ?", nik).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find user by nik")
	}
	return &user, nil
}

// FindByID looks a user up by primary key without selecting the password column
func (s *GormStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Omit("password").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find user %d", id)
	}
	return &user, nil
}

// RecentReports fetches the newest reports of a user
func (s *GormStore) RecentReports(ctx context.Context, userID uint, limit int) ([]domain.ReportSummary, error) {
	var reports []domain.Report
	err := s.db.WithContext(ctx).
		Select("id", "title", "status", "created_at"). // Only the profile columns
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc"). // Newest first, stable on ties
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, errors.Wrapf(err, "recent reports of user %d", userID)
	}
	out := make([]domain.ReportSummary, len(reports))
	for i := range reports {
		out[i] = reports[i].Summary()
	}
	return out, nil
}

// ListUsers returns a filtered page of users and the total count
func (s *GormStore) ListUsers(ctx context.Context, filter UserFilter, offset, limit int) ([]domain.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.User{}) // Start building the query
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role) // Filter by role
	}
	if filter.RW != nil {
		query = query.Where("rw = ?", *filter.RW) // Filter by neighborhood unit
	}
	if filter.RT != nil {
		query = query.Where("rt = ?", *filter.RT) // Filter by block
	}
	var total int64 // Total matching users
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}
	var users []domain.User
	if err := query.Omit("password").Order("id asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

// Ping checks that the database connection is alive
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicateKey detects unique constraint violations, translated by GORM or raw from the driver
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
