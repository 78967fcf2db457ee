package shootRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shootdispatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// writeConflictCode is the server error code for a concurrent document write.
const writeConflictCode = 112

// AssignPhotographer is a single-document findAndModify, so the change is
// atomic without a multi-document transaction. Concurrent assignments of the
// same shoot resolve as last-write-wins.
func (r *mongoShootRepo) AssignPhotographer(ctx context.Context, shootID, photographerID string) (*models.Shoot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"photographerId": photographerID,
			"updatedAt":      time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Shoot
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": shootID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("shoot %s: %w", shootID, models.ErrNotFound)
		}
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == writeConflictCode {
			return nil, fmt.Errorf("shoot %s: %w", shootID, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to assign shoot %s: %w", shootID, err)
	}
	return &updated, nil
}
