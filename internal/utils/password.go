package utils

import (
	"github.com/pkg/errors"      // Error wrapping
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost
type PasswordHasher struct {
	cost  int    // bcrypt work factor
	dummy []byte // Hash compared on unknown-NIK logins so both paths cost the same
}

// NewPasswordHasher builds a hasher; out-of-range costs fall back to bcrypt.DefaultCost
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("citizen-registry-timing-dummy"), cost)
	if err != nil {
		return nil, errors.Wrap(err, "generate dummy hash")
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Cost returns the configured work factor
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt digest of plain
func (h *PasswordHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// Check reports whether plain matches hash
func (h *PasswordHasher) Check(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CheckDummy spends the same work as Check against a hash nobody can match
func (h *PasswordHasher) CheckDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
