package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
)

// Gate composes token verification, revocation and the route policy into
// the check every protected endpoint runs.
type Gate struct {
	tokens   ports.TokenVerifier
	denylist ports.TokenDenylist
	log      zerolog.Logger
}

// NewGate builds a Gate. denylist may be nil, in which case tokens are only
// checked for signature and expiry.
func NewGate(tokens ports.TokenVerifier, denylist ports.TokenDenylist, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, denylist: denylist, log: log}
}

// Authorize verifies the Authorization header value and applies policy.
// It fails with domain.ErrInvalidToken (401) before it ever fails with
// domain.ErrForbidden (403).
func (g *Gate) Authorize(ctx context.Context, authHeader string, policy domain.Policy) (domain.Principal, error) {
	raw, ok := bearerToken(authHeader)
	if !ok {
		return domain.Principal{}, fmt.Errorf("%w: missing or malformed authorization header", domain.ErrInvalidToken)
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		g.log.Debug().Err(err).Msg("token rejected")
		return domain.Principal{}, domain.ErrInvalidToken
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: malformed subject", domain.ErrInvalidToken)
	}

	if g.denylist != nil {
		revoked, err := g.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return domain.Principal{}, fmt.Errorf("%w: token revoked", domain.ErrInvalidToken)
		}
	}

	if !policy.Permits(claims.Role) {
		return domain.Principal{}, domain.ErrForbidden
	}

	return domain.Principal{
		AccountID: accountID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// bearerToken extracts the credential from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
