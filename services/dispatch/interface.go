package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shootdispatch/models"
	"shootdispatch/services/assignment"
	"shootdispatch/services/availability"
	"shootdispatch/services/matching"
)

// RosterSource lists the photographers eligible for dispatch.
type RosterSource interface {
	ListPhotographers(ctx context.Context) ([]models.Photographer, error)
}

// Assigner commits an assignment.
type Assigner interface {
	Assign(ctx context.Context, shootID, photographerID string) (*assignment.Result, error)
}

// DispatchService drives one operator's assignment view.
type DispatchService interface {
	InitiateSession(ctx context.Context, req models.BookingRequest, opts models.RankOptions) (*SessionView, error)
	RankSession(ctx context.Context, sessionID string, opts models.RankOptions) (*SessionView, error)
	OpenPhotographer(ctx context.Context, sessionID, photographerID, date string) (*PhotographerView, error)
	Assign(ctx context.Context, sessionID, shootID, photographerID string) (*AssignView, error)
	CancelSession(ctx context.Context, sessionID string) error
	Timeline(ctx context.Context, photographerID, date string) (*models.Timeline, error)
	NextAvailable(ctx context.Context, photographerID, from string) (*models.NextAvailability, error)
}

// SessionView is a session together with its ranked candidates.
type SessionView struct {
	SessionID  string                    `json:"sessionId"`
	Revision   int64                     `json:"revision"`
	Booking    models.BookingRequest     `json:"booking"`
	Origin     *models.Coordinates       `json:"origin,omitempty"`
	Options    models.RankOptions        `json:"options"`
	Candidates []models.CandidateRanking `json:"candidates"`
	// AvailabilityLoading is set when the window check could not run and
	// candidates are filtered by status instead.
	AvailabilityLoading bool `json:"availabilityLoading"`
}

// PhotographerView is the timeline panel for one photographer-day plus the
// shoots that can still be assigned.
type PhotographerView struct {
	SessionID      string           `json:"sessionId"`
	Revision       int64            `json:"revision"`
	PhotographerID string           `json:"photographerId"`
	Date           string           `json:"date"`
	Timeline       *models.Timeline `json:"timeline,omitempty"`
	Unassigned     []models.Shoot   `json:"unassigned"`
	// Loading is set when the data behind the view could not be fetched yet.
	Loading bool `json:"loading"`
}

// AssignView reports a committed assignment and the reconciled views.
type AssignView struct {
	Shoot                  *models.Shoot     `json:"shoot"`
	PreviousPhotographerID string            `json:"previousPhotographerId,omitempty"`
	Unchanged              bool              `json:"unchanged"`
	View                   *PhotographerView `json:"view"`
	// PreviousView is the re-read day of the photographer the shoot moved
	// away from, when there was one.
	PreviousView *PhotographerView `json:"previousView,omitempty"`
	Session      *SessionView      `json:"session,omitempty"`
}

// DefaultDispatchService implements DispatchService.
type DefaultDispatchService struct {
	Sessions     SessionStore
	Roster       RosterSource
	Availability *availability.Store
	Matching     *matching.Service
	Assigner     Assigner
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
}

func NewDispatchService(
	sessions SessionStore,
	roster RosterSource,
	store *availability.Store,
	matcher *matching.Service,
	assigner Assigner,
	loc *time.Location,
	logger *zap.Logger,
) *DefaultDispatchService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultDispatchService{
		Sessions:     sessions,
		Roster:       roster,
		Availability: store,
		Matching:     matcher,
		Assigner:     assigner,
		Location:     loc,
		Now:          time.Now,
		Logger:       logger,
	}
}
