package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// Sequence hands out monotonically increasing int64 ids per collection,
// backed by one counter document per name.
type Sequence struct {
	coll *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{coll: db.Collection(countersCollection)}
}

// Next atomically increments and returns the counter for name. The first id
// handed out is 1.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return doc.Seq, nil
}
