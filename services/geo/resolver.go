package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shootdispatch/models"

	"go.uber.org/zap"
)

// ErrGeocodeUnavailable marks a provider failure. Callers degrade to
// "distance unknown" rather than failing.
var ErrGeocodeUnavailable = errors.New("geocoding unavailable")

// Resolver turns an address into coordinates. A nil result with a nil error
// means the provider found no match.
type Resolver interface {
	Resolve(ctx context.Context, addr models.Address) (*models.Coordinates, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

func NewGoogleGeocoder(apiKey string, logger *zap.Logger) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: googleGeocodeURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
		Logger:  logger,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	if addr.IsZero() {
		return nil, nil
	}
	if g.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrGeocodeUnavailable)
	}

	q := url.Values{}
	q.Set("address", addr.String())
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeUnavailable, err)
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGeocodeUnavailable, resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrGeocodeUnavailable, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		g.Logger.Debug("No geocoding match", zap.String("address", addr.String()))
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrGeocodeUnavailable, body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	loc := body.Results[0].Geometry.Location
	return &models.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
