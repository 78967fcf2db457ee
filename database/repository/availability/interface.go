// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"shootdispatch/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository stores declared availability slots.
type AvailabilityRepository interface {
	CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error)
	DeleteByID(ctx context.Context, slotID string) error
	ListByPhotographer(ctx context.Context, photographerID string) ([]models.AvailabilitySlot, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo(db *mongo.Database) AvailabilityRepository {
	return &mongoAvailabilityRepo{coll: db.Collection("availability_slots")}
}
