package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the availability_slots collection.
func (r *mongoAvailabilityRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern.
		{
			Keys:    bson.D{{Key: "photographerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("photographer_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "photographerId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index().SetName("photographer_weekday_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
