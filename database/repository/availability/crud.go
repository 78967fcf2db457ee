// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"shootdispatch/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoAvailabilityRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	if len(slots) == 0 {
		return []string{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		ids[i] = slot.ID
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert availability slots: %w", err)
	}
	return ids, nil
}

func (r *mongoAvailabilityRepo) DeleteByID(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID})
	if err != nil {
		return fmt.Errorf("failed to delete availability slot %s: %w", slotID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("availability slot %s: %w", slotID, models.ErrNotFound)
	}
	return nil
}
