package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// setDocument marshals a patch struct into the body of a $set. Patch fields
// are pointers tagged omitempty, so only the fields a client sent survive.
func setDocument(patch any) (bson.Raw, error) {
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal patch: %w", err)
	}

	elems, err := bson.Raw(raw).Elements()
	if err != nil {
		return nil, fmt.Errorf("inspect patch: %w", err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", domain.ErrValidation)
	}
	return bson.Raw(raw), nil
}
