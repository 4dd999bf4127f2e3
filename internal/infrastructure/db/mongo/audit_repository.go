package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/schoolhub/school-api/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository appends authentication events to the auth_audit collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuthEvent) error {
	doc := bson.M{
		"kind": string(event.Kind),
		"at":   event.At.UTC(),
	}
	if event.AccountID != 0 {
		doc["account_id"] = event.AccountID
	}
	if event.Identifier != "" {
		doc["identifier"] = event.Identifier
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
