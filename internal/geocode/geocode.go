// Package geocode resolves addresses to coordinates with Mapbox forward
// geocoding. Lookups never fail a caller outright: unresolved addresses come
// back as the zero coordinate and the reason is logged.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/version"
)

// DefaultBaseURL is the Mapbox API root.
const DefaultBaseURL = "https://api.mapbox.com"

var (
	// ErrEmptyAddress is returned for blank input.
	ErrEmptyAddress = errors.New("empty address")
	// ErrNoToken means no Mapbox access token is configured.
	ErrNoToken = errors.New("mapbox token is missing")
	// ErrNoResults means Mapbox returned zero features.
	ErrNoResults = errors.New("no geocoding results")
)

// Config holds the settings for New.
type Config struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Geocoder performs forward lookups. It is safe for concurrent use.
type Geocoder struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a Geocoder. A missing token is not an error here; every
// lookup reports ErrNoToken instead.
func New(cfg Config) *Geocoder {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Geocoder{
		token:      strings.TrimSpace(cfg.Token),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Lookup returns the first match for address or the reason there is none.
func (g *Geocoder) Lookup(ctx context.Context, address string) (api.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return api.Coordinates{}, ErrEmptyAddress
	}
	if g.token == "" {
		return api.Coordinates{}, ErrNoToken
	}

	query := url.Values{"access_token": {g.token}, "limit": {"1"}}
	requestURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", g.baseURL, url.PathEscape(address), query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return api.Coordinates{}, fmt.Errorf("geocode: create request: %w", err)
	}
	request.Header.Set("User-Agent", version.UserAgent())

	response, err := g.httpClient.Do(request)
	if err != nil {
		return api.Coordinates{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(response.Body, 64<<10))
		return api.Coordinates{}, fmt.Errorf("geocode: mapbox returned %d %s", response.StatusCode, http.StatusText(response.StatusCode))
	}

	var payload struct {
		Features []struct {
			Center []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(&payload); err != nil {
		return api.Coordinates{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return api.Coordinates{}, ErrNoResults
	}
	center := payload.Features[0].Center
	return api.Coordinates{Lat: center[1], Lng: center[0]}, nil
}

// Geocode is Lookup with the zero-coordinate fallback.
func (g *Geocoder) Geocode(ctx context.Context, address string) api.Coordinates {
	coords, err := g.Lookup(ctx, address)
	if err != nil {
		g.logger.Warn("geocoding failed, using 0,0", "address", address, "error", err)
		return api.Coordinates{}
	}
	return coords
}

// GeocodeAll resolves addresses concurrently and returns results in input
// order. The only error is the caller's context ending.
func (g *Geocoder) GeocodeAll(ctx context.Context, addresses ...string) ([]api.Coordinates, error) {
	results := make([]api.Coordinates, len(addresses))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, address := range addresses {
		group.Go(func() error {
			results[i] = g.Geocode(groupCtx, address)
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
