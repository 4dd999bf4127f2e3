package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
)

// DefaultTokenTTL applies when no positive lifetime is configured.
const DefaultTokenTTL = time.Hour

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for account carrying its current role.
func (s *TokenService) Issue(account *domain.Account) (string, *ports.TokenClaims, error) {
	if account == nil || !account.Role.Valid() {
		return "", nil, fmt.Errorf("issue token: %w: account has no valid role", domain.ErrValidation)
	}

	now := s.now().UTC().Truncate(time.Second)
	claims := accessClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return signed, &ports.TokenClaims{
		Subject:   claims.Subject,
		Role:      account.Role,
		ID:        claims.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// Verify accepts a token only when it is HS256-signed with our secret,
// unexpired, issued by us and carries a subject, id and known role.
func (s *TokenService) Verify(raw string) (*ports.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &accessClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role claim", domain.ErrInvalidToken)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", domain.ErrInvalidToken)
	}

	out := &ports.TokenClaims{
		Subject: claims.Subject,
		Role:    role,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
