// Package backend talks to the operations REST backend when it, rather than
// MongoDB, owns photographers, availability and shoots.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"shootdispatch/models"
)

var ErrBackendUnavailable = errors.New("backend unavailable")

// StatusError is a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		return models.ErrConflict
	}
	return ErrBackendUnavailable
}

type Client struct {
	BaseURL  string
	Token    string
	HTTP     *http.Client
	Logger   *zap.Logger
	// Location interprets shoot times sent without an offset.
	Location *time.Location
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		HTTP:     &http.Client{Timeout: timeout},
		Logger:   logger,
		Location: time.UTC,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("Backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrBackendUnavailable, path, err)
	}
	if resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// ListByPhotographer returns the photographer's declared slots.
func (c *Client) ListByPhotographer(ctx context.Context, photographerID string) ([]models.AvailabilitySlot, error) {
	var list envelope[wireSlot]
	q := url.Values{"photographerId": {photographerID}}
	if err := c.do(ctx, http.MethodGet, "/availability", q, nil, &list); err != nil {
		return nil, err
	}
	slots := make([]models.AvailabilitySlot, 0, len(list.Items))
	for _, w := range list.Items {
		s := w.model()
		if s.PhotographerID == "" {
			s.PhotographerID = photographerID
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// ListOverview returns every shoot, assigned or not.
func (c *Client) ListOverview(ctx context.Context) ([]models.Shoot, error) {
	var list envelope[wireShoot]
	if err := c.do(ctx, http.MethodGet, "/shoots/overview", nil, nil, &list); err != nil {
		return nil, err
	}
	shoots := make([]models.Shoot, 0, len(list.Items))
	for _, w := range list.Items {
		shoots = append(shoots, c.shoot(w))
	}
	return shoots, nil
}

// GetByID finds a shoot in the overview; the backend has no single-shoot read.
func (c *Client) GetByID(ctx context.Context, id string) (*models.Shoot, error) {
	shoots, err := c.ListOverview(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range shoots {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("shoot %s: %w", id, models.ErrNotFound)
}

// AssignPhotographer is a single PATCH of the shoot's photographer.
func (c *Client) AssignPhotographer(ctx context.Context, shootID, photographerID string) (*models.Shoot, error) {
	var single envelope[wireShoot]
	body := map[string]string{"photographer_id": photographerID}
	if err := c.do(ctx, http.MethodPatch, "/shoots/"+url.PathEscape(shootID), nil, body, &single); err != nil {
		return nil, err
	}
	if len(single.Items) == 0 {
		// Some deployments answer 204 with no body; read the stored shoot back.
		shoot, err := c.GetByID(ctx, shootID)
		if err != nil {
			c.Logger.Warn("Shoot re-read after assignment failed",
				zap.String("shootId", shootID), zap.Error(err))
			return &models.Shoot{ID: shootID, PhotographerID: photographerID}, nil
		}
		return shoot, nil
	}
	s := c.shoot(single.Items[0])
	if s.ID == "" {
		s.ID = shootID
	}
	return &s, nil
}

// shoot decodes w, warning when its start time is unreadable: such a shoot
// blocks no hour on any timeline.
func (c *Client) shoot(w wireShoot) models.Shoot {
	s, rawStart := w.model(c.Location)
	if rawStart != "" {
		c.Logger.Warn("Unparseable shoot start time",
			zap.String("shootId", s.ID), zap.String("startTime", rawStart))
	}
	return s
}

// ListPhotographers returns the roster.
func (c *Client) ListPhotographers(ctx context.Context) ([]models.Photographer, error) {
	var list envelope[wirePhotographer]
	if err := c.do(ctx, http.MethodGet, "/photographers", nil, nil, &list); err != nil {
		return nil, err
	}
	roster := make([]models.Photographer, 0, len(list.Items))
	for _, w := range list.Items {
		roster = append(roster, w.model())
	}
	return roster, nil
}

// GetPhotographer looks a photographer up in the roster.
func (c *Client) GetPhotographer(ctx context.Context, id string) (*models.Photographer, error) {
	roster, err := c.ListPhotographers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range roster {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("photographer %s: %w", id, models.ErrNotFound)
}
