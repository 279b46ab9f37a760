package ports

import (
	"context"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// Entity is satisfied by a pointer to any resource struct embedding domain.Meta.
type Entity[T any] interface {
	*T
	Metadata() *domain.Meta
}

// ResourceRepository is the storage collaborator behind one resource kind.
type ResourceRepository[T any] interface {
	// List returns entities newest first, bounded by opts.
	List(ctx context.Context, opts domain.ListOptions) ([]*T, error)
	// FindByID returns domain.ErrNotFound when no entity has the id.
	FindByID(ctx context.Context, id string) (*T, error)
	// Insert returns domain.ErrConflict on unique-key violations.
	Insert(ctx context.Context, entity *T) error
	// Replace overwrites an existing entity; it never inserts and returns
	// domain.ErrNotFound when the id is unknown.
	Replace(ctx context.Context, id string, entity *T) error
	// Existing returns the subset of ids that are present.
	Existing(ctx context.Context, ids []string) ([]string, error)
	// Delete returns domain.ErrNotFound when the id is unknown.
	Delete(ctx context.Context, id string) error
	// DeleteMany removes every listed id and reports how many were removed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// UserRepository is the credential store.
type UserRepository interface {
	ResourceRepository[domain.User]
	// FindByEmail returns domain.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
