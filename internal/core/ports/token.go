package ports

import (
	"context"
	"time"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Subject   string
	Role      domain.Role
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs credentials for an account.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, *TokenClaims, error)
}

// TokenVerifier checks signature and expiry. Any failure is reported as
// domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(raw string) (*TokenClaims, error)
}

// TokenDenylist holds revoked token ids until the tokens would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PasswordHasher is a one-way salted hash. Compare returns
// domain.ErrInvalidCredentials on mismatch.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
