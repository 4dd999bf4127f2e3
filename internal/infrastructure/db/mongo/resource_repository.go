package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// record is satisfied by pointers to entities embedding domain.Record.
type record[T any] interface {
	*T
	SetID(id int64)
}

// ResourceRepository stores one school entity per document in its own
// collection, keyed by a sequential int64 _id.
type ResourceRepository[T any, P any, PT record[T]] struct {
	name string
	coll *mongo.Collection
	seq  *Sequence
}

// NewResourceRepository returns a repository for the named collection.
func NewResourceRepository[T any, P any, PT record[T]](db *mongo.Database, name string, seq *Sequence) *ResourceRepository[T, P, PT] {
	return &ResourceRepository[T, P, PT]{
		name: name,
		coll: db.Collection(name),
		seq:  seq,
	}
}

func (r *ResourceRepository[T, P, PT]) List(ctx context.Context) ([]*T, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.name, err)
	}

	items := make([]*T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.name, err)
	}
	return items, nil
}

func (r *ResourceRepository[T, P, PT]) Get(ctx context.Context, id int64) (*T, error) {
	item := new(T)
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.name, err)
	}
	return item, nil
}

func (r *ResourceRepository[T, P, PT]) Create(ctx context.Context, item *T) (*T, error) {
	id, err := r.seq.Next(ctx, r.name)
	if err != nil {
		return nil, err
	}
	PT(item).SetID(id)

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert %s: %w", r.name, err)
	}
	return item, nil
}

// Update applies only the fields set in patch.
func (r *ResourceRepository[T, P, PT]) Update(ctx context.Context, id int64, patch *P) (*T, error) {
	set, err := setDocument(patch)
	if err != nil {
		return nil, err
	}

	item := new(T)
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", r.name, err)
	}
	return item, nil
}

func (r *ResourceRepository[T, P, PT]) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.name, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
