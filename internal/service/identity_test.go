package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"citizen_registry/internal/apperr"
	"citizen_registry/internal/domain"
	"citizen_registry/internal/store"
	"citizen_registry/internal/utils"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type IdentityServiceSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.MemoryStore
	tokens *utils.TokenIssuer
	svc    *IdentityService
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewMemoryStore()
	hasher, err := utils.NewPasswordHasher(bcrypt.MinCost)
	s.Require().NoError(err)
	s.tokens, err = utils.NewTokenIssuer("service-test-secret")
	s.Require().NoError(err)
	s.svc = NewIdentityService(s.store, hasher, s.tokens)
}

func (s *IdentityServiceSuite) register(nik, password string) *AuthResult {
	res, err := s.svc.Register(s.ctx, RegisterInput{NIK: nik, Nama: "Test User", Password: password})
	s.Require().NoError(err)
	return res
}

func (s *IdentityServiceSuite) requireKind(err error, kind apperr.Kind) {
	s.Require().Error(err)
	s.Equal(kind, apperr.KindOf(err), err.Error())
}

func (s *IdentityServiceSuite) TestRegister() {
	s.Run("creates a resident and issues a token", func() {
		res := s.register("1234567890123456", "secret123")
		s.Equal("1234567890123456", res.User.NIK)
		s.Equal(domain.RoleWarga, res.User.Role)
		s.NotEmpty(res.Token)

		claims, err := s.tokens.Parse(res.Token)
		s.Require().NoError(err)
		s.Equal(res.User.ID, claims.UserID)
		s.Equal(domain.RoleWarga, claims.Role)

		stored, err := s.store.FindByNIK(s.ctx, "1234567890123456")
		s.Require().NoError(err)
		s.NotEqual("secret123", stored.Password)
	})

	s.Run("projection never carries the password", func() {
		res := s.register("1234567890000001", "secret123")
		raw, err := json.Marshal(res.User)
		s.Require().NoError(err)
		var fields map[string]any
		s.Require().NoError(json.Unmarshal(raw, &fields))
		s.NotContains(fields, "password")
		s.Contains(fields, "nik")
	})

	s.Run("keeps an explicit role and address", func() {
		alamat := "Jl. Melati 3"
		res, err := s.svc.Register(s.ctx, RegisterInput{NIK: "1234567890000002", Nama: "Ketua", Password: "x", Role: "rw", Alamat: &alamat})
		s.Require().NoError(err)
		s.Equal(domain.RoleRW, res.User.Role)
		s.Equal(&alamat, res.User.Alamat)
	})

	s.Run("duplicate nik is a conflict and keeps one row", func() {
		_, err := s.svc.Register(s.ctx, RegisterInput{NIK: "1234567890123456", Nama: "Other", Password: "other"})
		s.requireKind(err, apperr.KindConflict)

		_, total, err := s.store.ListUsers(s.ctx, store.UserFilter{}, 0, 100)
		s.Require().NoError(err)
		s.EqualValues(3, total)
	})

	s.Run("validation failures", func() {
		cases := map[string]RegisterInput{
			"missing nik":       {Nama: "A", Password: "p"},
			"missing nama":      {NIK: "1", Password: "p"},
			"blank nama":        {NIK: "1", Nama: "   ", Password: "p"},
			"missing password":  {NIK: "1", Nama: "A"},
			"nik too long":      {NIK: "12345678901234567", Nama: "A", Password: "p"},
			"unknown role":      {NIK: "1", Nama: "A", Password: "p", Role: "superuser"},
			"password too long": {NIK: "1", Nama: "A", Password: string(make([]byte, utils.MaxPasswordBytes+1))},
		}
		for name, in := range cases {
			_, err := s.svc.Register(s.ctx, in)
			s.Equal(apperr.KindValidation, apperr.KindOf(err), name)
		}
	})
}

func (s *IdentityServiceSuite) TestRegisterConcurrentSameNIK() {
	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Register(s.ctx, RegisterInput{NIK: "9999999999999999", Nama: "Race", Password: "p"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var created int
	for err := range results {
		if err == nil {
			created++
			continue
		}
		s.Equal(apperr.KindConflict, apperr.KindOf(err))
	}
	s.Equal(1, created)
}

func (s *IdentityServiceSuite) TestLogin() {
	registered := s.register("1234567890123456", "secret123")

	s.Run("correct credentials return a fresh token", func() {
		res, err := s.svc.Login(s.ctx, "1234567890123456", "secret123")
		s.Require().NoError(err)
		s.NotEqual(registered.Token, res.Token)
		s.Equal(registered.User.ID, res.User.ID)

		claims, err := s.tokens.Parse(res.Token)
		s.Require().NoError(err)
		s.Equal(registered.User.ID, claims.UserID)
		s.Equal(registered.User.Role, claims.Role)
	})

	s.Run("wrong password and unknown nik are indistinguishable", func() {
		_, wrongPassword := s.svc.Login(s.ctx, "1234567890123456", "nope")
		_, unknownNIK := s.svc.Login(s.ctx, "0000000000000001", "secret123")
		s.requireKind(wrongPassword, apperr.KindUnauthorized)
		s.requireKind(unknownNIK, apperr.KindUnauthorized)
		s.Equal(apperr.Message(wrongPassword), apperr.Message(unknownNIK))
		s.Equal(wrongPassword.Error(), unknownNIK.Error())
	})

	s.Run("missing fields", func() {
		_, err := s.svc.Login(s.ctx, "", "secret123")
		s.requireKind(err, apperr.KindValidation)
		_, err = s.svc.Login(s.ctx, "1234567890123456", "")
		s.requireKind(err, apperr.KindValidation)
	})
}

func (s *IdentityServiceSuite) TestGetProfile() {
	user := s.register("1234567890123456", "secret123").User
	base := time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		s.Require().NoError(s.store.AddReport(s.ctx, &domain.Report{
			UserID:    user.ID,
			Title:     "Jalan rusak",
			Status:    "pending",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	s.Run("embeds the five newest reports", func() {
		profile, err := s.svc.GetProfile(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user.NIK, profile.NIK)
		s.Require().Len(profile.Reports, RecentReportLimit)
		for i := 1; i < len(profile.Reports); i++ {
			s.True(profile.Reports[i-1].CreatedAt.After(profile.Reports[i].CreatedAt))
		}
		s.Equal(base.Add(6*time.Minute), profile.Reports[0].CreatedAt)
	})

	s.Run("user without reports gets an empty list", func() {
		other := s.register("1234567890000009", "secret123").User
		profile, err := s.svc.GetProfile(s.ctx, other.ID)
		s.Require().NoError(err)
		s.NotNil(profile.Reports)
		s.Empty(profile.Reports)
	})

	s.Run("vanished user is not found", func() {
		s.Require().NoError(s.svc.EnsureUser(s.ctx, user.ID))
		s.Require().NoError(s.store.Delete(s.ctx, user.ID))
		_, err := s.svc.GetProfile(s.ctx, user.ID)
		s.requireKind(err, apperr.KindNotFound)
		s.requireKind(s.svc.EnsureUser(s.ctx, user.ID), apperr.KindNotFound)
	})
}
