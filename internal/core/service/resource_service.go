package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
	"github.com/hrmanager/hrm-api/internal/core/validation"
)

// Hooks carry the kind-specific behaviour plugged into the generic service.
// Before hooks run ahead of validation so they can fill defaults; returning an
// error aborts the operation before anything is written. After hooks run once
// the write succeeded and cannot fail the request.
type Hooks[T any] struct {
	BeforeCreate func(ctx context.Context, entity *T) error
	BeforeUpdate func(ctx context.Context, existing, incoming *T) error
	AfterCreate  func(ctx context.Context, entity *T)
	AfterUpdate  func(ctx context.Context, before, after *T)
}

// ResourceConfig tunes one ResourceService instance.
type ResourceConfig[T any] struct {
	Hooks        Hooks[T]
	DeletePolicy domain.DeletePolicy
	MaxBatch     int
}

// ResourceService implements ports.ResourceService once for every kind.
type ResourceService[T any, PT ports.Entity[T]] struct {
	kind      domain.Kind
	repo      ports.ResourceRepository[T]
	validator *validation.Validator
	hooks     Hooks[T]
	policy    domain.DeletePolicy
	maxBatch  int
	log       zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewResourceService binds the uniform contract to one kind and its repository.
func NewResourceService[T any, PT ports.Entity[T]](
	kind domain.Kind,
	repo ports.ResourceRepository[T],
	v *validation.Validator,
	log zerolog.Logger,
	cfg ResourceConfig[T],
) *ResourceService[T, PT] {
	policy := cfg.DeletePolicy
	if policy == "" {
		policy = domain.DeleteBestEffort
	}
	if v == nil {
		v = validation.New()
	}
	return &ResourceService[T, PT]{
		kind:      kind,
		repo:      repo,
		validator: v,
		hooks:     cfg.Hooks,
		policy:    policy,
		maxBatch:  cfg.MaxBatch,
		log:       log.With().Str("kind", string(kind)).Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *ResourceService[T, PT]) Kind() domain.Kind { return s.kind }

// List returns every entity of the kind, newest first.
func (s *ResourceService[T, PT]) List(ctx context.Context, opts domain.ListOptions) ([]*T, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, domain.Validationf("limit and offset must not be negative")
	}
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

// Get returns one entity or domain.ErrNotFound.
func (s *ResourceService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, s.notFound(id)
	}
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.notFound(id)
		}
		return nil, fmt.Errorf("get %s: %w", s.kind, err)
	}
	return entity, nil
}

// Create validates and stores a new entity under a server-assigned id.
func (s *ResourceService[T, PT]) Create(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, domain.Validationf("payload is required")
	}
	if s.hooks.BeforeCreate != nil {
		if err := s.hooks.BeforeCreate(ctx, entity); err != nil {
			return nil, err
		}
	}
	if err := s.validator.Struct(ctx, entity); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	meta := PT(entity).Metadata()
	meta.ID = s.newID()
	meta.CreatedBy = ""
	if actor, ok := domain.ActorFrom(ctx); ok {
		meta.CreatedBy = actor.UserID
	}
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Insert(ctx, entity); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		s.log.Error().Err(err).Msg("insert failed")
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}
	s.log.Info().Str("id", meta.ID).Str("created_by", meta.CreatedBy).Msg("resource created")

	if s.hooks.AfterCreate != nil {
		s.hooks.AfterCreate(ctx, entity)
	}
	return entity, nil
}

// Update replaces an existing entity. Identity and authorship are kept from
// the stored entity; an unknown id is never created.
func (s *ResourceService[T, PT]) Update(ctx context.Context, id string, entity *T) (*T, error) {
	if entity == nil {
		return nil, domain.Validationf("payload is required")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := PT(existing).Metadata()
	meta := PT(entity).Metadata()
	meta.ID = current.ID
	meta.CreatedBy = current.CreatedBy
	meta.CreatedAt = current.CreatedAt
	meta.UpdatedAt = s.now().UTC()

	if s.hooks.BeforeUpdate != nil {
		if err := s.hooks.BeforeUpdate(ctx, existing, entity); err != nil {
			return nil, err
		}
	}
	if err := s.validator.Struct(ctx, entity); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, current.ID, entity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.notFound(current.ID)
		}
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		s.log.Error().Err(err).Str("id", current.ID).Msg("replace failed")
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	s.log.Info().Str("id", current.ID).Msg("resource updated")

	if s.hooks.AfterUpdate != nil {
		s.hooks.AfterUpdate(ctx, existing, entity)
	}
	return entity, nil
}

// BatchDelete removes the ids in a comma separated list according to the
// configured DeletePolicy.
func (s *ResourceService[T, PT]) BatchDelete(ctx context.Context, idsCSV string) (*domain.BatchDeleteResult, error) {
	ids, err := ParseIDs(idsCSV, s.maxBatch)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchDeleteResult{
		Policy:   s.policy,
		Deleted:  make([]string, 0, len(ids)),
		NotFound: []string{},
	}

	if s.policy == domain.DeleteAllOrNothing {
		found, err := s.repo.Existing(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("delete %s: %w", s.kind, err)
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			return nil, domain.NotFoundf("%s not found: %s", s.kind, strings.Join(missing, ","))
		}
		if _, err := s.repo.DeleteMany(ctx, ids); err != nil {
			s.log.Error().Err(err).Strs("ids", ids).Msg("batch delete failed")
			return nil, fmt.Errorf("delete %s: %w", s.kind, err)
		}
		result.Deleted = append(result.Deleted, ids...)
		s.log.Info().Strs("ids", ids).Msg("resources deleted")
		return result, nil
	}

	for _, id := range ids {
		err := s.repo.Delete(ctx, id)
		switch {
		case err == nil:
			result.Deleted = append(result.Deleted, id)
		case errors.Is(err, domain.ErrNotFound):
			result.NotFound = append(result.NotFound, id)
		default:
			s.log.Error().Err(err).Str("id", id).Strs("deleted", result.Deleted).Msg("delete failed mid-batch")
			return nil, fmt.Errorf("delete %s %s: %w", s.kind, id, err)
		}
	}
	s.log.Info().Strs("deleted", result.Deleted).Strs("not_found", result.NotFound).Msg("resources deleted")
	return result, nil
}

func (s *ResourceService[T, PT]) notFound(id string) error {
	return domain.NotFoundf("%s %q not found", s.kind, id)
}
