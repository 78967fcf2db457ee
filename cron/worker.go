package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"shootdispatch/config"
	"shootdispatch/models"
	"shootdispatch/services/geo"
	"shootdispatch/services/tasks"
)

// RosterRefreshSpec re-warms the geocode cache nightly.
const RosterRefreshSpec = "0 3 * * *"

// RosterSource lists the photographers whose addresses are warmed.
type RosterSource interface {
	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
}

// GeocodeWorker resolves photographer addresses in the background so ranking
// requests mostly hit the geocode cache.
type GeocodeWorker struct {
	Resolver geo.Resolver
	Roster   RosterSource
	Batch    geo.BatchOptions
	Logger   *zap.Logger
}

func (w *GeocodeWorker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGeocodeAddress, w.HandleAddress)
	mux.HandleFunc(tasks.TypeGeocodeRoster, w.HandleRoster)
	return mux
}

// HandleAddress resolves one address. Provider outages are returned so asynq
// retries; addresses with no match are dropped.
func (w *GeocodeWorker) HandleAddress(ctx context.Context, task *asynq.Task) error {
	var p tasks.GeocodePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		w.Logger.Error("Invalid geocode payload", zap.Error(err))
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	coords, err := w.Resolver.Resolve(ctx, p.Address)
	switch {
	case errors.Is(err, geo.ErrGeocodeUnavailable):
		w.Logger.Warn("Geocode warm-up failed, will retry",
			zap.String("photographerId", p.PhotographerID), zap.Error(err))
		return err
	case err != nil:
		return err
	case coords == nil:
		w.Logger.Info("Photographer address did not geocode",
			zap.String("photographerId", p.PhotographerID), zap.String("address", p.Address.String()))
		return nil
	}
	w.Logger.Debug("Geocode cache warmed", zap.String("photographerId", p.PhotographerID))
	return nil
}

// HandleRoster resolves the whole roster in paced batches.
func (w *GeocodeWorker) HandleRoster(ctx context.Context, _ *asynq.Task) error {
	roster, err := w.Roster.ListPhotographers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	addrs := make([]models.Address, 0, len(roster))
	for _, p := range roster {
		addrs = append(addrs, p.Address)
	}
	resolved := geo.ResolveBatch(ctx, w.Resolver, addrs, w.Batch, w.Logger)
	w.Logger.Info("Roster geocode refresh finished",
		zap.Int("photographers", len(roster)), zap.Int("resolved", len(resolved)))
	return nil
}

// RedisOpt is the asynq connection for the task queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// StartGeocodeWorker starts the task server and the nightly roster refresh.
// The returned stop function shuts both down.
func StartGeocodeWorker(w *GeocodeWorker) (stop func(), err error) {
	redisOpt := RedisOpt()

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: config.Location()})
	if _, err := scheduler.Register(RosterRefreshSpec, tasks.NewGeocodeRosterTask()); err != nil {
		return nil, fmt.Errorf("failed to register roster refresh: %w", err)
	}

	mux := w.Mux()
	const maxAttempts = 5
	for attempts := 1; ; attempts++ {
		err := srv.Start(mux)
		if err == nil {
			break
		}
		w.Logger.Error("Geocode worker failed to start",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempts == maxAttempts {
			return nil, fmt.Errorf("geocode worker: %w", err)
		}
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("geocode scheduler: %w", err)
	}
	w.Logger.Info("Geocode worker started", zap.String("rosterRefresh", RosterRefreshSpec))

	return func() {
		scheduler.Shutdown()
		srv.Shutdown()
	}, nil
}
