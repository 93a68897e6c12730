package utils

import (
	"strconv" // Subject claim formatting
	"time"    // Time for token expiration

	"citizen_registry/internal/domain" // Role type

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token ids
	"github.com/pkg/errors"        // Error wrapping
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrMissingSecret is returned when no signing secret is configured
	ErrMissingSecret = errors.New("jwt secret is not configured")
	// ErrTokenInvalid covers malformed, tampered, foreign and expired tokens
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// JWT Claims
type Claims struct {
	UserID               uint        `json:"id"`   // Custom claim for user ID
	Role                 domain.Role `json:"role"` // Custom claim for user role
	jwt.RegisteredClaims             // Standard JWT claims
}

// TokenIssuer signs and verifies bearer tokens with a process-wide secret
type TokenIssuer struct {
	secret []byte           // HMAC key
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenIssuer creates an issuer; an empty secret is a configuration error
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret // Fail fast instead of signing with an empty key
	}
	return &TokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

// WithClock replaces the issuer's time source
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue creates a signed token for a user that expires after TokenTTL
func (i *TokenIssuer) Issue(userID uint, role domain.Role) (string, error) {
	now := i.now()
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Role:   role,   // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),                       // Unique per issuance
			Subject:   strconv.FormatUint(uint64(userID), 10), // Subject is the user ID
			IssuedAt:  jwt.NewNumericDate(now),                // Issued at current time
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),  // Token expires in 7 days
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(i.secret)                // Sign the token with the secret
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Parse validates a token string and returns its claims
func (i *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return i.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),                                 // Tokens without exp are invalid
		jwt.WithTimeFunc(i.now),                                      // Validate against the issuer clock
	)
	// Check for parsing errors
	if err != nil {
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
