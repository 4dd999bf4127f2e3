package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schoolhub/school-api/internal/core/domain"
)

func teacherAccount() *domain.Account {
	return &domain.Account{ID: 42, Email: "t@x.com", Username: "newteacher", Role: domain.RoleTeacher}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Hour)

	raw, issued, err := svc.Issue(teacherAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" || claims.Role != domain.RoleTeacher {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Fatalf("expected jti %q, got %q", issued.ID, claims.ID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService("secret", "", 0)
	if svc.ttl != DefaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", svc.ttl)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Minute)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	raw, _, err := svc.Issue(teacherAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	raw, _, err := NewTokenService("secret", "school-api", time.Hour).Issue(teacherAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenService("other", "school-api", time.Hour).Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_WrongIssuer(t *testing.T) {
	raw, _, _ := NewTokenService("secret", "someone-else", time.Hour).Issue(teacherAccount())

	if _, err := NewTokenService("secret", "school-api", time.Hour).Verify(raw); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsEveryBitFlip(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Hour)
	raw, _, err := svc.Issue(teacherAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < len(raw); i++ {
		for bit := 0; bit < 8; bit++ {
			mutated := []byte(raw)
			mutated[i] ^= 1 << bit
			if _, err := svc.Verify(string(mutated)); err == nil {
				t.Fatalf("mutation at byte %d bit %d was accepted", i, bit)
			}
		}
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Hour)
	now := time.Now()
	claims := accessClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ID:        "x",
			Issuer:    "school-api",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(unsigned); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected alg=none to be rejected, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := svc.Verify(hs512); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected HS512 to be rejected, got %v", err)
	}
}

func TestTokenService_RejectsMissingExpiryAndUnknownRole(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Hour)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ID: "x", Issuer: "school-api"},
	}).SignedString([]byte("secret"))
	if _, err := svc.Verify(noExp); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Role: "janitor",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "1", ID: "x", Issuer: "school-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if _, err := svc.Verify(badRole); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected unknown role to be rejected, got %v", err)
	}
}

func TestTokenService_IssueRequiresValidRole(t *testing.T) {
	svc := NewTokenService("secret", "school-api", time.Hour)

	if _, _, err := svc.Issue(&domain.Account{ID: 1, Role: "guest"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
