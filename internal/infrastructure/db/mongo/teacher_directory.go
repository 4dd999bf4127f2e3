package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const teachersCollection = "teachers"

// caseInsensitive compares strings ignoring case (ICU strength 2).
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// TeacherDirectory looks up teacher profiles stored by the teachers resource.
type TeacherDirectory struct {
	coll *mongo.Collection
}

func NewTeacherDirectory(db *mongo.Database) *TeacherDirectory {
	return &TeacherDirectory{coll: db.Collection(teachersCollection)}
}

// ExistsByEmail reports whether any teacher profile carries email,
// compared case-insensitively.
func (d *TeacherDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := d.coll.CountDocuments(ctx,
		bson.M{"email": email},
		options.Count().SetLimit(1).SetCollation(caseInsensitive),
	)
	if err != nil {
		return false, fmt.Errorf("count teachers: %w", err)
	}
	return n > 0, nil
}
