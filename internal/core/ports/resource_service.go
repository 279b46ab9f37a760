package ports

import (
	"context"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// ResourceService is the uniform access contract every resource kind exposes.
type ResourceService[T any] interface {
	Kind() domain.Kind
	List(ctx context.Context, opts domain.ListOptions) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
	// BatchDelete takes the raw comma separated id list from the request path.
	BatchDelete(ctx context.Context, idsCSV string) (*domain.BatchDeleteResult, error)
}

// Policy decides whether an authenticated actor may perform an action on a kind.
type Policy interface {
	Allow(actor *domain.Actor, kind domain.Kind, action domain.Action) error
}
