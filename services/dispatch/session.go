package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shootdispatch/models"
	"shootdispatch/services/availability"
	"shootdispatch/services/matching"
)

// InitiateSession geocodes the booking, loads the roster, checks every
// photographer against the requested window and stores the ranked view.
func (s *DefaultDispatchService) InitiateSession(ctx context.Context, req models.BookingRequest, opts models.RankOptions) (*SessionView, error) {
	if err := s.validateBooking(req); err != nil {
		return nil, err
	}
	if err := matching.ValidateOptions(opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	roster, err := s.Roster.ListPhotographers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	origin := s.Matching.ResolveOrigin(ctx, req.Address)
	window, loading := s.windowAvailability(ctx, roster, req)

	now := s.Now()
	sess := &models.DispatchSession{
		ID:           uuid.New().String(),
		Booking:      req,
		Origin:       origin,
		Options:      opts,
		Candidates:   s.Matching.Decorate(ctx, origin, roster),
		Availability: window,
		SelectedDate: req.Date,
		Revision:     1,
		CreatedAt:    now,
		UpdatedAt:    now,

		AvailabilityLoading: loading,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.Logger.Info("Dispatch session started",
		zap.String("sessionId", sess.ID),
		zap.Int("candidates", len(sess.Candidates)),
		zap.Bool("originResolved", origin != nil))
	return sessionView(sess), nil
}

// RankSession re-ranks the stored candidates with new options. Only the
// options change, so a photographer view being loaded stays current.
func (s *DefaultDispatchService) RankSession(ctx context.Context, sessionID string, opts models.RankOptions) (*SessionView, error) {
	if err := matching.ValidateOptions(opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	now := s.Now()
	sess, err := s.Sessions.Update(ctx, sessionID, 0, func(sess *models.DispatchSession) {
		sess.Options = opts
		sess.UpdatedAt = now
	})
	if err != nil {
		return nil, err
	}
	return sessionView(sess), nil
}

// CancelSession discards the session.
func (s *DefaultDispatchService) CancelSession(ctx context.Context, sessionID string) error {
	if _, err := s.Sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *DefaultDispatchService) validateBooking(req models.BookingRequest) error {
	if _, err := availability.ParseDay(req.Date, s.Location); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if _, err := models.ParseClock(req.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// windowAvailability returns nil and loading=true when the check could not
// run; ranking then falls back to photographer status.
func (s *DefaultDispatchService) windowAvailability(ctx context.Context, roster []models.Photographer, req models.BookingRequest) (map[string]models.WindowAvailability, bool) {
	day, err := availability.ParseDay(req.Date, s.Location)
	if err != nil {
		return nil, true
	}
	window, err := s.Availability.WindowAvailability(ctx, roster, day, strings.TrimSpace(req.Time), s.Now().In(s.Location))
	if err != nil {
		s.Logger.Warn("Window availability unavailable, ranking by status", zap.Error(err))
		return nil, true
	}
	return window, false
}

func sessionView(sess *models.DispatchSession) *SessionView {
	return &SessionView{
		SessionID:           sess.ID,
		Revision:            sess.Revision,
		Booking:             sess.Booking,
		Origin:              sess.Origin,
		Options:             sess.Options,
		Candidates:          matching.Rank(sess.Candidates, sess.Options, sess.Availability),
		AvailabilityLoading: sess.AvailabilityLoading,
	}
}
