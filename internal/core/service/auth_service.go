package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/pkg/metrics"
)

// AuthService implements registration, login, logout and admin provisioning.
type AuthService struct {
	accounts ports.AccountRepository
	teachers ports.TeacherDirectory
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	denylist ports.TokenDenylist
	audit    ports.AuditRecorder
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is compared against when no account matches a login, so
	// unknown identifiers cost the same hashing work as wrong passwords.
	dummyOnce sync.Once
	dummyHash string
}

// AuthDeps groups the collaborators of AuthService. Denylist and Audit are
// optional.
type AuthDeps struct {
	Accounts ports.AccountRepository
	Teachers ports.TeacherDirectory
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenIssuer
	Denylist ports.TokenDenylist
	Audit    ports.AuditRecorder
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts: deps.Accounts,
		teachers: deps.Teachers,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		denylist: deps.Denylist,
		audit:    deps.Audit,
		log:      log,
		now:      time.Now,
	}
}

// Register turns a pre-provisioned teacher profile into a login-capable
// account. Requests whose email matches no teacher profile are refused.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	email := domain.NormaliseEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if username == "" {
		missing = append(missing, "username")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, ", "))
	}

	isTeacher, err := s.teachers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: lookup teacher: %w", err)
	}
	if !isTeacher {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		s.record(domain.AuthRegisterRejected, 0, email)
		return nil, domain.ErrTeacherNotProvisioned
	}

	created, err := s.createAccount(ctx, email, username, in.Password, domain.RoleTeacher)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.record(domain.AuthRegistered, created.ID, email)
	s.log.Info().Int64("account_id", created.ID).Str("role", string(created.Role)).Msg("account registered")
	return created, nil
}

// Login verifies the password of the account named by email or username and
// issues a token carrying the account's current role.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.Account, error) {
	email := domain.NormaliseEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	if email == "" && username == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return "", nil, fmt.Errorf("%w: email or username required", domain.ErrValidation)
	}
	if in.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return "", nil, fmt.Errorf("%w: password required", domain.ErrValidation)
	}

	identifier := email
	if identifier == "" {
		identifier = username
	}

	account, err := s.lookup(ctx, email, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("login: %w", err)
		}
		_ = s.hasher.Compare(s.dummy(), in.Password)
		return "", nil, s.loginFailed(identifier)
	}

	if err := s.hasher.Compare(account.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return "", nil, fmt.Errorf("login: %w", err)
		}
		return "", nil, s.loginFailed(identifier)
	}

	token, _, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthLoginSucceeded, account.ID, identifier)
	return token, account, nil
}

// Logout revokes the token the principal authenticated with.
func (s *AuthService) Logout(ctx context.Context, principal domain.Principal) error {
	if s.denylist == nil {
		return errors.New("logout: token revocation is not configured")
	}
	if principal.TokenID == "" {
		return fmt.Errorf("logout: %w", domain.ErrInvalidToken)
	}
	if err := s.denylist.Revoke(ctx, principal.TokenID, principal.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.record(domain.AuthLoggedOut, principal.AccountID, "")
	return nil
}

// Me returns the account behind principal. A deleted account yields
// domain.ErrInvalidToken even while its token is unexpired.
func (s *AuthService) Me(ctx context.Context, principal domain.Principal) (*domain.Account, error) {
	account, err := s.accounts.Get(ctx, principal.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("me: %w", err)
	}
	return account, nil
}

// ProvisionAdmin creates an admin account unless the email or username is
// already in use. It is the only way an admin account comes into existence.
func (s *AuthService) ProvisionAdmin(ctx context.Context, in ports.AdminInput) (*domain.Account, bool, error) {
	email := domain.NormaliseEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, false, fmt.Errorf("%w: admin email, username and password required", domain.ErrValidation)
	}

	existing, err := s.lookup(ctx, email, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("provision admin: %w", err)
	}

	created, err := s.createAccount(ctx, email, username, in.Password, domain.RoleAdmin)
	if err != nil {
		return nil, false, fmt.Errorf("provision admin: %w", err)
	}
	s.log.Info().Int64("account_id", created.ID).Msg("admin account provisioned")
	return created, true, nil
}

func (s *AuthService) createAccount(ctx context.Context, email, username, password string, role domain.Role) (*domain.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.accounts.Create(ctx, &domain.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	})
}

// lookup finds an account by email first and falls back to username.
func (s *AuthService) lookup(ctx context.Context, email, username string) (*domain.Account, error) {
	if email != "" {
		account, err := s.accounts.FindByEmail(ctx, email)
		if err == nil || !errors.Is(err, domain.ErrNotFound) || username == "" {
			return account, err
		}
	}
	return s.accounts.FindByUsername(ctx, username)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

func (s *AuthService) loginFailed(identifier string) error {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	s.record(domain.AuthLoginFailed, 0, identifier)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(kind domain.AuthEventKind, accountID int64, identifier string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Kind:       kind,
		AccountID:  accountID,
		Identifier: identifier,
		At:         s.now().UTC(),
	})
}
