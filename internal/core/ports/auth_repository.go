package ports

import (
	"context"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// AccountRepository is the credential store. Lookups return
// domain.ErrNotFound when no account matches; Create returns
// domain.ErrAlreadyExists when the email or username is taken.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// TeacherDirectory answers whether a teacher profile exists for an email.
type TeacherDirectory interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AuditRecorder accepts authentication events. Implementations must not
// block the caller for long.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists authentication events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuthEvent) error
}
