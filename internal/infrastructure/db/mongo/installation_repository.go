package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

const (
	systemCollection = "system"
	installationID   = "installation"
)

// InstallationRepository keeps the installation singleton as one document in
// the system collection. The unique _id is what makes Claim exclusive.
type InstallationRepository struct {
	col *mongo.Collection
}

func NewInstallationRepository(db *mongo.Database) ports.InstallationRepository {
	return &InstallationRepository{col: db.Collection(systemCollection)}
}

type installationDoc struct {
	ID          string     `bson:"_id"`
	State       string     `bson:"state"`
	ClaimToken  string     `bson:"claim_token,omitempty"`
	ClaimedAt   time.Time  `bson:"claimed_at"`
	AdminID     string     `bson:"admin_id,omitempty"`
	InstalledAt *time.Time `bson:"installed_at,omitempty"`
}

func (r *InstallationRepository) Get(ctx context.Context) (*domain.Installation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc installationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": installationID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Installation{State: domain.StateUninstalled}, nil
		}
		return nil, fmt.Errorf("find installation: %w", err)
	}
	return &domain.Installation{
		State:       domain.InstallState(doc.State),
		ClaimToken:  doc.ClaimToken,
		ClaimedAt:   doc.ClaimedAt.UTC(),
		AdminID:     doc.AdminID,
		InstalledAt: doc.InstalledAt,
	}, nil
}

// Claim is a single upsert. The filter only matches an abandoned claim; when
// no document exists the upsert inserts one, and when the system is installed
// or freshly claimed the upsert collides on _id. The document as it was before
// the update is returned so the caller can clean up an abandoned attempt.
func (r *InstallationRepository) Claim(ctx context.Context, token, adminID string, now, staleBefore time.Time) (*domain.Installation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        installationID,
		"state":      string(domain.StateInstalling),
		"claimed_at": bson.M{"$lt": staleBefore.UTC()},
	}
	update := bson.M{
		"$set": bson.M{
			"state":       string(domain.StateInstalling),
			"claim_token": token,
			"claimed_at":  now.UTC(),
			"admin_id":    adminID,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var prev installationDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&prev)
	switch {
	case err == nil:
		return &domain.Installation{
			State:      domain.InstallState(prev.State),
			ClaimToken: prev.ClaimToken,
			ClaimedAt:  prev.ClaimedAt.UTC(),
			AdminID:    prev.AdminID,
		}, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		// inserted a fresh claim
		return nil, nil
	case mongo.IsDuplicateKeyError(err):
		return nil, domain.ErrAlreadyInstalled
	default:
		return nil, fmt.Errorf("claim installation: %w", err)
	}
}

// Complete flips the claim held by token to installed.
func (r *InstallationRepository) Complete(ctx context.Context, token string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":         installationID,
		"state":       string(domain.StateInstalling),
		"claim_token": token,
	}
	update := bson.M{
		"$set":   bson.M{"state": string(domain.StateInstalled), "installed_at": at.UTC()},
		"$unset": bson.M{"claim_token": ""},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("complete installation: %w", err)
	}
	if res.MatchedCount == 0 {
		// another process took over a claim it considered stale
		return domain.ErrAlreadyInstalled
	}
	return nil
}

// Release removes an unfinished claim held by token.
func (r *InstallationRepository) Release(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{
		"_id":         installationID,
		"state":       string(domain.StateInstalling),
		"claim_token": token,
	})
	if err != nil {
		return fmt.Errorf("release installation: %w", err)
	}
	return nil
}
