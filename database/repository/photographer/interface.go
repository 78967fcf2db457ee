// File: database/repository/photographer/interface.go
package photographerRepo

import (
	"context"

	"shootdispatch/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PhotographerRepository defines roster data access.
type PhotographerRepository interface {
	// Upsert inserts or replaces a photographer by ID.
	Upsert(ctx context.Context, p *models.Photographer) error
	// ListPhotographers returns the whole roster ordered by name.
	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
	// GetPhotographer returns one photographer or models.ErrNotFound.
	GetPhotographer(ctx context.Context, id string) (*models.Photographer, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoPhotographerRepo struct {
	coll *mongo.Collection
}

// NewMongoPhotographerRepo constructs a MongoDB PhotographerRepository.
func NewMongoPhotographerRepo(db *mongo.Database) PhotographerRepository {
	return &mongoPhotographerRepo{coll: db.Collection("photographers")}
}
