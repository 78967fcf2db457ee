// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"shootdispatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAvailabilityRepo) ListByPhotographer(ctx context.Context, photographerID string) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"photographerId": photographerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.AvailabilitySlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding availability: %w", err)
	}
	return slots, nil
}
