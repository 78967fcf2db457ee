package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shootdispatch/models"
	"shootdispatch/services/availability"
)

// Assign commits the assignment, then re-fetches the photographer's day and
// the roster so the session reflects the stored state rather than a local
// patch. Reconciliation failures do not undo a committed assignment; the
// affected view comes back with Loading set.
func (s *DefaultDispatchService) Assign(ctx context.Context, sessionID, shootID, photographerID string) (*AssignView, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if photographerID == "" {
		photographerID = sess.SelectedPhotographerID
	}
	if photographerID == "" {
		return nil, fmt.Errorf("%w: photographerId is required", ErrInvalidRequest)
	}

	result, err := s.Assigner.Assign(ctx, shootID, photographerID)
	if err != nil {
		return nil, err
	}

	// Loads started before the write are now stale.
	rev, revErr := s.Sessions.BumpRevision(ctx, sessionID)
	if revErr != nil {
		s.Logger.Warn("Dispatch session revision not bumped", zap.String("sessionId", sessionID), zap.Error(revErr))
		rev = sess.Revision
	}

	out := &AssignView{
		Shoot:                  result.Shoot,
		PreviousPhotographerID: result.PreviousPhotographerID,
		Unchanged:              result.Unchanged,
	}

	date := sess.SelectedDate
	if date == "" {
		date = sess.Booking.Date
	}
	view := s.reconcileOrLoading(ctx, sessionID, shootID, photographerID, date)
	for _, id := range result.Invalidations.Photographers {
		if id == photographerID {
			continue
		}
		out.PreviousView = s.reconcileOrLoading(ctx, sessionID, shootID, id, date)
	}

	refreshed := !result.Unchanged && result.Invalidations.ShootRoster
	if refreshed {
		s.refreshCandidates(ctx, sess)
	}

	now := s.Now()
	stored, err := s.Sessions.Update(ctx, sessionID, rev, func(stored *models.DispatchSession) {
		stored.SelectedPhotographerID = photographerID
		stored.SelectedDate = date
		stored.UpdatedAt = now
		if refreshed {
			stored.Candidates = sess.Candidates
			stored.Availability = sess.Availability
			stored.AvailabilityLoading = sess.AvailabilityLoading
		}
	})
	if err != nil {
		// The assignment stands; only the session snapshot is skipped.
		s.Logger.Warn("Dispatch session not updated after assignment",
			zap.String("sessionId", sessionID), zap.Error(err))
		sess.SelectedPhotographerID = photographerID
		sess.SelectedDate = date
		stored = sess
	}

	for _, v := range []*PhotographerView{view, out.PreviousView} {
		if v != nil {
			v.SessionID = sessionID
			v.Revision = stored.Revision
		}
	}
	out.View = view
	out.Session = sessionView(stored)
	return out, nil
}

// reconcileOrLoading re-reads a photographer's day after a write. On failure
// the view is returned empty with Loading set.
func (s *DefaultDispatchService) reconcileOrLoading(ctx context.Context, sessionID, shootID, photographerID, date string) *PhotographerView {
	view, err := s.reconcileView(ctx, photographerID, date)
	if err != nil {
		s.Logger.Warn("Reconciliation after assignment failed",
			zap.String("sessionId", sessionID), zap.String("shootId", shootID),
			zap.String("photographerId", photographerID), zap.Error(err))
		return &PhotographerView{PhotographerID: photographerID, Date: date, Loading: true}
	}
	return view
}

func (s *DefaultDispatchService) reconcileView(ctx context.Context, photographerID, date string) (*PhotographerView, error) {
	day, err := availability.ParseDay(date, s.Location)
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, photographerID, day)
}

// refreshCandidates reloads the roster and window availability into sess.
// On a roster failure the previous candidates are kept.
func (s *DefaultDispatchService) refreshCandidates(ctx context.Context, sess *models.DispatchSession) {
	roster, err := s.Roster.ListPhotographers(ctx)
	if err != nil {
		s.Logger.Warn("Roster refresh failed, keeping previous candidates",
			zap.String("sessionId", sess.ID), zap.Error(err))
		return
	}
	window, loading := s.windowAvailability(ctx, roster, sess.Booking)
	sess.Candidates = s.Matching.Decorate(ctx, sess.Origin, roster)
	sess.Availability = window
	sess.AvailabilityLoading = loading
}
