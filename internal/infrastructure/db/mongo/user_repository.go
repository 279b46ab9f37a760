package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// UserRepository is the credential store. Emails are unique across users.
type UserRepository struct {
	*Repository[domain.User, *domain.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Repository: NewRepository[domain.User](db, domain.KindUser, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}),
	}
}

// Insert reports a taken email as domain.ErrUserExists.
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	err := r.Repository.Insert(ctx, user)
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepository) Replace(ctx context.Context, id string, user *domain.User) error {
	err := r.Repository.Replace(ctx, id, user)
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrUserExists
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
