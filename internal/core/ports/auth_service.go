package ports

import (
	"context"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// RegisterInput is the registration request as received from the transport.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// LoginInput carries the login identifier (email or username) and password.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// AdminInput describes an administrator provisioned out of band.
type AdminInput struct {
	Email    string
	Username string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.Account, error)
	Logout(ctx context.Context, principal domain.Principal) error
	Me(ctx context.Context, principal domain.Principal) (*domain.Account, error)
}
