package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"shootdispatch/models"
)

const (
	TypeGeocodeAddress = "geocode:address"
	TypeGeocodeRoster  = "geocode:roster"
)

// GeocodePayload asks the worker to resolve one photographer's home address
// so the first ranking that needs it hits the cache.
type GeocodePayload struct {
	PhotographerID string         `json:"photographerId"`
	Address        models.Address `json:"address"`
}

func NewGeocodeAddressTask(payload GeocodePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeGeocodeAddress, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// NewGeocodeRosterTask re-resolves every roster address.
func NewGeocodeRosterTask() *asynq.Task {
	return asynq.NewTask(TypeGeocodeRoster, nil, asynq.MaxRetry(1), asynq.Timeout(10*time.Minute))
}
