package store

import (
	"context"
	"testing"

	"citizen_registry/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// capturedQuery is one SELECT built by gorm
type capturedQuery struct {
	sql  string
	vars []any
}

// queryLog collects the SELECTs gorm builds
type queryLog struct {
	queries []capturedQuery
}

// newDryRunStore opens a GormStore whose queries are built but never sent
func newDryRunStore(t *testing.T) (*GormStore, *queryLog) {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "registry:registry@tcp(127.0.0.1:3306)/registry?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	log := &queryLog{}
	// Dry runs keep the built SQL on the statement; record it and clear it for the next query.
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		log.queries = append(log.queries, capturedQuery{sql: tx.Statement.SQL.String(), vars: append([]any(nil), tx.Statement.Vars...)})
		tx.Statement.SQL.Reset()
		tx.Statement.Vars = nil
	})
	require.NoError(t, err)
	return NewGormStore(db), log
}

// GormQuerySuite inspects the SQL the store generates
type GormQuerySuite struct {
	suite.Suite
	store *GormStore
	log   *queryLog
	ctx   context.Context
}

func TestGormQuerySuite(t *testing.T) {
	suite.Run(t, new(GormQuerySuite))
}

func (s *GormQuerySuite) SetupTest() {
	s.ctx = context.Background()
	s.store, s.log = newDryRunStore(s.T())
}

func (s *GormQuerySuite) TestRecentReports() {
	_, err := s.store.RecentReports(s.ctx, 7, 5)
	s.Require().NoError(err)
	s.Require().Len(s.log.queries, 1)

	q := s.log.queries[0]
	s.Contains(q.sql, "SELECT `id`,`title`,`status`,`created_at` FROM `reports`")
	s.Contains(q.sql, "WHERE user_id = ?")
	s.Contains(q.sql, "ORDER BY created_at desc,id desc LIMIT ?")
	s.Equal([]any{uint(7), 5}, q.vars)
}

func (s *GormQuerySuite) TestFindByIDOmitsPassword() {
	_, err := s.store.FindByID(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(s.log.queries, 1)

	q := s.log.queries[0]
	s.Contains(q.sql, "FROM `users`")
	s.Contains(q.sql, "`users`.`nik`")
	s.Contains(q.sql, "`users`.`id` = ?")
	s.NotContains(q.sql, "password")
}

func (s *GormQuerySuite) TestFindByNIKSelectsHash() {
	_, err := s.store.FindByNIK(s.ctx, "1234567890123456")
	s.Require().NoError(err)
	s.Require().Len(s.log.queries, 1)
	s.Contains(s.log.queries[0].sql, "SELECT * FROM `users` WHERE nik = ?")
	s.Equal("1234567890123456", s.log.queries[0].vars[0])
}

func TestGormListUsersFilters(t *testing.T) {
	warga := domain.RoleWarga
	tests := []struct {
		name      string
		filter    UserFilter
		where     string
		countVars []any
	}{
		{"no filter", UserFilter{}, "", nil},
		{"role", UserFilter{Role: &warga}, "WHERE role = ?", []any{warga}},
		{"role and rw", UserFilter{Role: &warga, RW: intPtr(2)}, "WHERE role = ? AND rw = ?", []any{warga, 2}},
		{"rw and rt", UserFilter{RW: intPtr(2), RT: intPtr(4)}, "WHERE rw = ? AND rt = ?", []any{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, log := newDryRunStore(t)
			_, _, err := st.ListUsers(context.Background(), tt.filter, 20, 10)
			require.NoError(t, err)
			require.Len(t, log.queries, 2)

			count, page := log.queries[0], log.queries[1]
			assert.Contains(t, count.sql, "SELECT count(*) FROM `users`")
			assert.NotContains(t, count.sql, "ORDER BY")
			assert.Equal(t, tt.countVars, count.vars)
			if tt.where != "" {
				assert.Contains(t, count.sql, tt.where)
				assert.Contains(t, page.sql, tt.where)
			} else {
				assert.NotContains(t, page.sql, "WHERE")
			}

			assert.Contains(t, page.sql, "ORDER BY id asc LIMIT ? OFFSET ?")
			assert.NotContains(t, page.sql, "password")
			assert.Equal(t, append(append([]any(nil), tt.countVars...), 10, 20), page.vars)
		})
	}
}
