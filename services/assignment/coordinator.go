package assignment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"shootdispatch/models"
)

// ShootWriter is the persistence side of an assignment.
type ShootWriter interface {
	GetByID(ctx context.Context, id string) (*models.Shoot, error)
	AssignPhotographer(ctx context.Context, shootID, photographerID string) (*models.Shoot, error)
}

// PhotographerLookup confirms the target photographer exists.
type PhotographerLookup interface {
	GetPhotographer(ctx context.Context, id string) (*models.Photographer, error)
}

// Invalidations names the views a committed assignment makes stale.
type Invalidations struct {
	// Photographers whose availability and timeline must be re-fetched.
	Photographers []string
	// ShootRoster is set when the assignable shoot list changed.
	ShootRoster bool
}

type Result struct {
	Shoot                  *models.Shoot
	PreviousPhotographerID string
	Unchanged              bool
	Invalidations          Invalidations
}

// Coordinator executes the one mutating operation of the dispatch core.
type Coordinator struct {
	Shoots        ShootWriter
	Photographers PhotographerLookup
	Logger        *zap.Logger
}

func NewCoordinator(shoots ShootWriter, photographers PhotographerLookup, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{Shoots: shoots, Photographers: photographers, Logger: logger}
}

// Assign books photographerID on shootID as a single atomic write. Declared
// availability is not consulted. Repeating an assignment that is already in
// place performs no write. A failed write leaves the shoot unchanged and is
// not retried.
func (c *Coordinator) Assign(ctx context.Context, shootID, photographerID string) (*Result, error) {
	shootID = strings.TrimSpace(shootID)
	photographerID = strings.TrimSpace(photographerID)
	if shootID == "" || photographerID == "" {
		return nil, newAssignmentError(KindInvalid, shootID, "shoot and photographer are required", nil)
	}

	current, err := c.Shoots.GetByID(ctx, shootID)
	if err != nil {
		return nil, c.classify(shootID, "failed to load shoot", err)
	}

	if current.PhotographerID == photographerID {
		c.Logger.Info("Assignment already in place",
			zap.String("shootId", shootID), zap.String("photographerId", photographerID))
		return &Result{Shoot: current, PreviousPhotographerID: photographerID, Unchanged: true}, nil
	}

	if c.Photographers != nil {
		if _, err := c.Photographers.GetPhotographer(ctx, photographerID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, newAssignmentError(KindInvalid, shootID, "unknown photographer "+photographerID, err)
			}
			return nil, newAssignmentError(KindFailed, shootID, "failed to load photographer", err)
		}
	}

	updated, err := c.Shoots.AssignPhotographer(ctx, shootID, photographerID)
	if err != nil {
		c.Logger.Error("Assignment failed",
			zap.String("shootId", shootID), zap.String("photographerId", photographerID), zap.Error(err))
		return nil, c.classify(shootID, "failed to assign shoot", err)
	}

	updated = backfill(updated, current, photographerID)

	affected := []string{photographerID}
	if current.PhotographerID != "" {
		affected = append(affected, current.PhotographerID)
	}
	c.Logger.Info("Shoot assigned",
		zap.String("shootId", shootID),
		zap.String("photographerId", photographerID),
		zap.String("previousPhotographerId", current.PhotographerID))

	return &Result{
		Shoot:                  updated,
		PreviousPhotographerID: current.PhotographerID,
		Invalidations: Invalidations{
			Photographers: affected,
			ShootRoster:   true,
		},
	}, nil
}

func (c *Coordinator) classify(shootID, msg string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return newAssignmentError(KindNotFound, shootID, "shoot not found", err)
	case errors.Is(err, models.ErrConflict):
		return newAssignmentError(KindConflict, shootID, "shoot changed concurrently", err)
	default:
		return newAssignmentError(KindFailed, shootID, msg, err)
	}
}

// backfill completes a sparse write reply with the fields read before the write.
func backfill(updated, current *models.Shoot, photographerID string) *models.Shoot {
	merged := *current
	merged.PhotographerID = photographerID
	if updated == nil {
		return &merged
	}
	out := *updated
	if out.ID == "" {
		out.ID = merged.ID
	}
	if out.PhotographerID == "" {
		out.PhotographerID = photographerID
	}
	if out.AddressLine == "" {
		out.AddressLine = merged.AddressLine
	}
	if out.CityStateZip == "" {
		out.CityStateZip = merged.CityStateZip
	}
	if out.ClientName == "" {
		out.ClientName = merged.ClientName
	}
	if out.StartTime == nil {
		out.StartTime = merged.StartTime
	}
	if out.DayLabel == "" {
		out.DayLabel = merged.DayLabel
	}
	if out.TimeLabel == "" {
		out.TimeLabel = merged.TimeLabel
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = merged.CreatedAt
	}
	return &out
}
