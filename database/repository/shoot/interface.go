// File: database/repository/shoot/interface.go
package shootRepo

import (
	"context"

	"shootdispatch/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ShootRepository defines shoot data access for the dispatch core.
type ShootRepository interface {
	Create(ctx context.Context, shoot *models.Shoot) error
	GetByID(ctx context.Context, id string) (*models.Shoot, error)
	// ListOverview returns every shoot ordered by start time.
	ListOverview(ctx context.Context) ([]models.Shoot, error)
	// AssignPhotographer sets the shoot's photographer in one atomic update
	// and returns the updated record.
	AssignPhotographer(ctx context.Context, shootID, photographerID string) (*models.Shoot, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoShootRepo struct {
	coll *mongo.Collection
}

// NewMongoShootRepo constructs a MongoDB ShootRepository.
func NewMongoShootRepo(db *mongo.Database) ShootRepository {
	return &mongoShootRepo{coll: db.Collection("shoots")}
}
