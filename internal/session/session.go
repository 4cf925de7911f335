// Package session holds the data one view works with. A Session is an
// immutable snapshot; refreshing produces a new Session rather than
// mutating the old one, so views can swap it atomically.
package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
)

// Source is the slice of the backend a session loads from.
type Source interface {
	GetTrip(ctx context.Context, id string) (api.Trip, error)
	ListStops(ctx context.Context, tripID string) ([]api.Stop, error)
	ListLogEntries(ctx context.Context, tripID string) ([]hos.LogEntry, error)
}

// Session is the fetched state for a single trip.
type Session struct {
	TripID string
	Trip   api.Trip
	Stops  []api.Stop
	Logs   []hos.LogEntry
	// Route is set once a route calculation has run in this session.
	Route    *api.RouteResult
	LoadedAt time.Time
}

// Load fetches the trip, its stops and its log entries concurrently.
func Load(ctx context.Context, src Source, tripID string) (*Session, error) {
	s := &Session{TripID: tripID}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		trip, err := src.GetTrip(groupCtx, tripID)
		if err != nil {
			return fmt.Errorf("load trip %s: %w", tripID, err)
		}
		s.Trip = trip
		return nil
	})
	group.Go(func() error {
		stops, err := src.ListStops(groupCtx, tripID)
		if err != nil {
			return fmt.Errorf("load stops for trip %s: %w", tripID, err)
		}
		s.Stops = stops
		return nil
	})
	group.Go(func() error {
		logs, err := src.ListLogEntries(groupCtx, tripID)
		if err != nil {
			return fmt.Errorf("load log entries for trip %s: %w", tripID, err)
		}
		s.Logs = logs
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.LoadedAt = time.Now()
	return s, nil
}

// Reload fetches a fresh snapshot for the same trip. The receiver is left untouched.
func (s *Session) Reload(ctx context.Context, src Source) (*Session, error) {
	next, err := Load(ctx, src, s.TripID)
	if err != nil {
		return nil, err
	}
	next.Route = s.Route
	return next, nil
}

// WithLogs returns a copy whose log entries are replaced, e.g. after the
// backend regenerated them.
func (s *Session) WithLogs(logs []hos.LogEntry) *Session {
	next := *s
	next.Logs = logs
	next.LoadedAt = time.Now()
	return &next
}

// WithRoute returns a copy carrying a route result and the trip it updated.
func (s *Session) WithRoute(result api.RouteResult) *Session {
	next := *s
	next.Route = &result
	if result.Trip.ID != "" {
		next.Trip = result.Trip
	}
	return &next
}

// Sheet renders the log sheet for date; an empty date selects the first day.
func (s *Session) Sheet(date string) hos.Sheet {
	return hos.BuildSheet(s.Logs, date)
}
