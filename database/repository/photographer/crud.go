package photographerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shootdispatch/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoPhotographerRepo) Upsert(ctx context.Context, p *models.Photographer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert photographer %s: %w", p.ID, err)
	}
	return nil
}

func (r *mongoPhotographerRepo) ListPhotographers(ctx context.Context) ([]models.Photographer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photographers: %w", err)
	}
	defer cursor.Close(ctx)

	photographers := []models.Photographer{}
	if err := cursor.All(ctx, &photographers); err != nil {
		return nil, fmt.Errorf("error decoding photographers: %w", err)
	}
	return photographers, nil
}

func (r *mongoPhotographerRepo) GetPhotographer(ctx context.Context, id string) (*models.Photographer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Photographer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("photographer %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("find photographer %s: %w", id, err)
	}
	return &p, nil
}
