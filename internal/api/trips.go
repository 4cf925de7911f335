package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/faizmokh/logsheet/internal/hos"
)

// ListTrips returns every trip, newest first.
func (c *Client) ListTrips(ctx context.Context) ([]Trip, error) {
	body, err := c.do(ctx, http.MethodGet, "/trips/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Trip](body, "trips")
}

// GetTrip fetches one trip with its nested stops and log entries.
func (c *Client) GetTrip(ctx context.Context, id string) (Trip, error) {
	if err := requireID(id); err != nil {
		return Trip{}, err
	}
	body, err := c.do(ctx, http.MethodGet, tripPath(id, ""), nil, nil)
	if err != nil {
		return Trip{}, err
	}
	return decode[Trip](body, "trip")
}

// CreateTrip posts a new trip and returns the stored record.
func (c *Client) CreateTrip(ctx context.Context, input TripInput) (Trip, error) {
	body, err := c.do(ctx, http.MethodPost, "/trips/", nil, input)
	if err != nil {
		return Trip{}, err
	}
	return decode[Trip](body, "trip")
}

// UpdateTrip replaces the writable fields of a trip.
func (c *Client) UpdateTrip(ctx context.Context, id string, input TripInput) (Trip, error) {
	if err := requireID(id); err != nil {
		return Trip{}, err
	}
	body, err := c.do(ctx, http.MethodPut, tripPath(id, ""), nil, input)
	if err != nil {
		return Trip{}, err
	}
	return decode[Trip](body, "trip")
}

// DeleteTrip removes a trip and everything attached to it.
func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodDelete, tripPath(id, ""), nil, nil)
	return err
}

// ListStops returns a trip's stops in route order.
func (c *Client) ListStops(ctx context.Context, tripID string) ([]Stop, error) {
	if err := requireID(tripID); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, "/stops/", url.Values{"trip": {tripID}}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Stop](body, "stops")
}

// CreateStop adds a stop to a trip.
func (c *Client) CreateStop(ctx context.Context, input StopInput) (Stop, error) {
	if err := requireID(input.Trip.String()); err != nil {
		return Stop{}, err
	}
	body, err := c.do(ctx, http.MethodPost, "/stops/", nil, input)
	if err != nil {
		return Stop{}, err
	}
	return decode[Stop](body, "stop")
}

// ListLogEntries returns a trip's duty log entries ordered by date.
func (c *Client) ListLogEntries(ctx context.Context, tripID string) ([]hos.LogEntry, error) {
	if err := requireID(tripID); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, "/log-entries/", url.Values{"trip": {tripID}}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[hos.LogEntry](body, "log entries")
}

// GenerateLogs asks the backend to (re)build the trip's log entries.
func (c *Client) GenerateLogs(ctx context.Context, tripID string) (GenerateLogsResult, error) {
	if err := requireID(tripID); err != nil {
		return GenerateLogsResult{}, err
	}
	body, err := c.do(ctx, http.MethodPost, tripPath(tripID, "generate-logs/"), nil, nil)
	if err != nil {
		return GenerateLogsResult{}, err
	}
	return decode[GenerateLogsResult](body, "generated logs")
}

// CalculateRoute asks the backend to route the trip and update its estimates.
func (c *Client) CalculateRoute(ctx context.Context, tripID string) (RouteResult, error) {
	if err := requireID(tripID); err != nil {
		return RouteResult{}, err
	}
	body, err := c.do(ctx, http.MethodPost, tripPath(tripID, "calculate-route/"), nil, nil)
	if err != nil {
		return RouteResult{}, err
	}
	return decode[RouteResult](body, "route")
}

// ValidateTrip runs the backend's HOS checks for the trip.
func (c *Client) ValidateTrip(ctx context.Context, tripID string) (Validation, error) {
	if err := requireID(tripID); err != nil {
		return Validation{}, err
	}
	body, err := c.do(ctx, http.MethodGet, tripPath(tripID, "validate/"), nil, nil)
	if err != nil {
		return Validation{}, err
	}
	return decode[Validation](body, "validation")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("api: trip id is required")
	}
	return nil
}
