package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shootdispatch/models"
	"shootdispatch/services/availability"
)

// OpenPhotographer loads the photographer's day for the session. If another
// view is opened or a shoot is assigned on the same session while this one is
// fetching, this result is dropped with ErrStaleView.
func (s *DefaultDispatchService) OpenPhotographer(ctx context.Context, sessionID, photographerID, date string) (*PhotographerView, error) {
	if photographerID == "" {
		return nil, fmt.Errorf("%w: photographerId is required", ErrInvalidRequest)
	}
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = sess.SelectedDate
	}
	day, err := availability.ParseDay(date, s.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	rev, err := s.Sessions.BumpRevision(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view, err := s.loadView(ctx, photographerID, day)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	_, err = s.Sessions.Update(ctx, sessionID, rev, func(stored *models.DispatchSession) {
		stored.SelectedPhotographerID = photographerID
		stored.SelectedDate = view.Date
		stored.UpdatedAt = now
	})
	if err != nil {
		if errors.Is(err, ErrStaleView) {
			s.Logger.Debug("Discarding superseded photographer view",
				zap.String("sessionId", sessionID), zap.String("photographerId", photographerID))
		}
		return nil, err
	}

	view.SessionID = sessionID
	view.Revision = rev
	return view, nil
}

// Timeline builds a photographer-day outside any session.
func (s *DefaultDispatchService) Timeline(ctx context.Context, photographerID, date string) (*models.Timeline, error) {
	if photographerID == "" {
		return nil, fmt.Errorf("%w: photographerId is required", ErrInvalidRequest)
	}
	day, err := availability.ParseDay(date, s.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	timeline, err := s.Availability.Timeline(ctx, photographerID, day, s.Now().In(s.Location))
	if err != nil {
		return nil, err
	}
	return &timeline, nil
}

// NextAvailable searches forward from from, or from today when empty.
func (s *DefaultDispatchService) NextAvailable(ctx context.Context, photographerID, from string) (*models.NextAvailability, error) {
	if photographerID == "" {
		return nil, fmt.Errorf("%w: photographerId is required", ErrInvalidRequest)
	}
	day := s.Now().In(s.Location)
	if from != "" {
		var err error
		if day, err = availability.ParseDay(from, s.Location); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return s.Availability.NextAvailable(ctx, photographerID, day)
}

// loadView fetches slots and shoots together and builds the panel.
func (s *DefaultDispatchService) loadView(ctx context.Context, photographerID string, day time.Time) (*PhotographerView, error) {
	snap, err := s.Availability.Load(ctx, photographerID)
	if err != nil {
		return nil, err
	}
	timeline := availability.DayTimeline(snap, day, s.Now().In(s.Location))
	return &PhotographerView{
		PhotographerID: photographerID,
		Date:           timeline.Date,
		Timeline:       &timeline,
		Unassigned:     models.Unassigned(snap.Shoots),
	}, nil
}
