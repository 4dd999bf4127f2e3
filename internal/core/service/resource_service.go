package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/pkg/metrics"
)

// ResourceService is the CRUD service shared by every school entity.
// Authorization has already been decided by the gate; the service only
// stamps server-owned fields and records mutations.
type ResourceService[T any, P any] struct {
	name string
	repo ports.ResourceRepository[T, P]
	log  zerolog.Logger
	now  func() time.Time
}

func NewResourceService[T any, P any](name string, repo ports.ResourceRepository[T, P], log zerolog.Logger) *ResourceService[T, P] {
	return &ResourceService[T, P]{
		name: name,
		repo: repo,
		log:  log.With().Str("resource", name).Logger(),
		now:  time.Now,
	}
}

func (s *ResourceService[T, P]) Name() string { return s.name }

func (s *ResourceService[T, P]) List(ctx context.Context) ([]*T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, err)
	}
	return items, nil
}

func (s *ResourceService[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", s.name, id, err)
	}
	return item, nil
}

func (s *ResourceService[T, P]) Create(ctx context.Context, actor domain.Principal, item *T) (*T, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrValidation)
	}
	if stamper, ok := any(item).(domain.CreateStamper); ok {
		stamper.StampCreate(actor, s.now().UTC())
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.name, err)
	}

	metrics.ResourceMutationsTotal.WithLabelValues(s.name, "create").Inc()
	s.log.Info().Int64("actor", actor.AccountID).Str("role", string(actor.Role)).Msg("resource created")
	return created, nil
}

func (s *ResourceService[T, P]) Update(ctx context.Context, actor domain.Principal, id int64, patch *P) (*T, error) {
	if patch == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrValidation)
	}
	if n, ok := any(patch).(domain.PatchNormaliser); ok {
		if err := n.Normalise(); err != nil {
			return nil, fmt.Errorf("update %s %d: %w", s.name, id, err)
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}

	metrics.ResourceMutationsTotal.WithLabelValues(s.name, "update").Inc()
	s.log.Info().Int64("id", id).Int64("actor", actor.AccountID).Msg("resource updated")
	return updated, nil
}

func (s *ResourceService[T, P]) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}

	metrics.ResourceMutationsTotal.WithLabelValues(s.name, "delete").Inc()
	s.log.Info().Int64("id", id).Int64("actor", actor.AccountID).Msg("resource deleted")
	return nil
}
