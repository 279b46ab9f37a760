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

// Collection names, one per resource kind.
var collections = map[domain.Kind]string{
	domain.KindAnnouncement: "announcements",
	domain.KindAttendance:   "attendance",
	domain.KindDepartment:   "departments",
	domain.KindDesignation:  "designations",
	domain.KindExpense:      "expenses",
	domain.KindLeave:        "leaves",
	domain.KindNotification: "notifications",
	domain.KindProject:      "projects",
	domain.KindSetting:      "settings",
	domain.KindTask:         "tasks",
	domain.KindUser:         "users",
}

// CollectionName returns the collection backing kind.
func CollectionName(kind domain.Kind) string {
	if name, ok := collections[kind]; ok {
		return name
	}
	return string(kind) + "s"
}

// Repository stores one resource kind in its own collection. Documents are
// keyed by the string id in domain.Meta.
type Repository[T any, PT ports.Entity[T]] struct {
	col     *mongo.Collection
	indexes []mongo.IndexModel
}

// NewRepository returns the repository for kind. indexes are created by
// EnsureIndexes in addition to the created_at index every kind gets.
func NewRepository[T any, PT ports.Entity[T]](db *mongo.Database, kind domain.Kind, indexes ...mongo.IndexModel) *Repository[T, PT] {
	return &Repository[T, PT]{
		col:     db.Collection(CollectionName(kind)),
		indexes: indexes,
	}
}

// List returns documents newest first.
func (r *Repository[T, PT]) List(ctx context.Context, opts domain.ListOptions) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		find.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}

	cur, err := r.col.Find(ctx, bson.M{}, find)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	items := make([]*T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.col.Name(), err)
	}
	return items, nil
}

// FindByID retrieves a document by its id.
func (r *Repository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Repository[T, PT]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	return &doc, nil
}

// Insert stores a new document.
func (r *Repository[T, PT]) Insert(ctx context.Context, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		return translateWrite(r.col.Name(), err)
	}
	return nil
}

// Replace overwrites an existing document without upserting.
func (r *Repository[T, PT]) Replace(ctx context.Context, id string, entity *T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, entity)
	if err != nil {
		return translateWrite(r.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Existing returns the ids among ids that have a document.
func (r *Repository[T, PT]) Existing(ctx context.Context, ids []string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find %s ids: %w", r.col.Name(), err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s ids: %w", r.col.Name(), err)
	}
	found := make([]string, len(rows))
	for i, row := range rows {
		found[i] = row.ID
	}
	return found, nil
}

// Delete removes one document.
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMany removes every listed document in one round trip.
func (r *Repository[T, PT]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", r.col.Name(), err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the list ordering index and any kind specific ones.
func (r *Repository[T, PT]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := append([]mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}, r.indexes...)

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create %s indexes: %w", r.col.Name(), err)
	}
	return nil
}

func translateWrite(coll string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: duplicate key in %s", domain.ErrConflict, coll)
	}
	return fmt.Errorf("write %s: %w", coll, err)
}
