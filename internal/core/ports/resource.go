package ports

import (
	"context"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// ResourceRepository is the persistence port shared by every school
// entity. T is the entity, P its patch struct. Missing rows are reported
// as domain.ErrNotFound.
type ResourceRepository[T any, P any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id int64, patch *P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// ResourceService exposes CRUD over one entity type on behalf of a
// verified principal.
type ResourceService[T any, P any] interface {
	Name() string
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, actor domain.Principal, item *T) (*T, error)
	Update(ctx context.Context, actor domain.Principal, id int64, patch *P) (*T, error)
	Delete(ctx context.Context, actor domain.Principal, id int64) error
}
