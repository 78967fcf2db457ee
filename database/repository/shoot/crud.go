package shootRepo

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

func (r *mongoShootRepo) Create(ctx context.Context, shoot *models.Shoot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if shoot.ID == "" {
		shoot.ID = uuid.New().String()
	}
	shoot.CreatedAt = now
	shoot.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, shoot); err != nil {
		return fmt.Errorf("error creating shoot: %w", err)
	}
	return nil
}

func (r *mongoShootRepo) GetByID(ctx context.Context, id string) (*models.Shoot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var shoot models.Shoot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&shoot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("shoot %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("find shoot %s: %w", id, err)
	}
	return &shoot, nil
}

func (r *mongoShootRepo) ListOverview(ctx context.Context) ([]models.Shoot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shoots: %w", err)
	}
	defer cursor.Close(ctx)

	shoots := []models.Shoot{}
	if err := cursor.All(ctx, &shoots); err != nil {
		return nil, fmt.Errorf("error decoding shoots: %w", err)
	}
	return shoots, nil
}
