// Package planner turns the new-trip form into a stored trip: validate the
// cycle hours, geocode the three addresses together, then create the trip.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/faizmokh/logsheet/internal/api"
)

// MaxCycleHours is the 70-hour/8-day limit.
const MaxCycleHours = 70

var (
	// ErrCycleHours rejects cycle hours outside [0, MaxCycleHours].
	ErrCycleHours = errors.New("cycle hours must be between 0 and 70")
	// ErrMissingAddress rejects a blank address field.
	ErrMissingAddress = errors.New("address is required")
	// ErrUnresolvedLocation means an address geocoded to 0,0.
	ErrUnresolvedLocation = errors.New("could not geocode one or more locations")
	// ErrInvalidStatus rejects trip statuses the backend does not know.
	ErrInvalidStatus = errors.New("invalid trip status")
)

// Geocoder resolves several addresses at once, in input order.
type Geocoder interface {
	GeocodeAll(ctx context.Context, addresses ...string) ([]api.Coordinates, error)
}

// TripCreator stores a new trip.
type TripCreator interface {
	CreateTrip(ctx context.Context, input api.TripInput) (api.Trip, error)
}

// Request is the new-trip form.
type Request struct {
	Current    string
	Pickup     string
	Dropoff    string
	CycleHours float64
}

// Amendment changes selected fields of an existing trip. Blank addresses
// and a nil CycleHours keep the current value.
type Amendment struct {
	Current    string
	Pickup     string
	Dropoff    string
	CycleHours *float64
	Status     api.TripStatus
}

// Planner runs the form workflow.
type Planner struct {
	geocoder Geocoder
	trips    TripCreator
	logger   *slog.Logger
}

// New returns a Planner.
func New(geocoder Geocoder, trips TripCreator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{geocoder: geocoder, trips: trips, logger: logger}
}

// Validate checks the form fields that need no network.
func (r Request) Validate() error {
	if err := validateCycleHours(r.CycleHours); err != nil {
		return err
	}
	for _, field := range []struct{ name, value string }{
		{"current location", r.Current},
		{"pickup location", r.Pickup},
		{"dropoff location", r.Dropoff},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s: %w", field.name, ErrMissingAddress)
		}
	}
	return nil
}

// Resolve validates req and geocodes its addresses in parallel.
func (p *Planner) Resolve(ctx context.Context, req Request) (api.TripInput, error) {
	if err := req.Validate(); err != nil {
		return api.TripInput{}, err
	}

	names := []string{"current location", "pickup location", "dropoff location"}
	addresses := []string{strings.TrimSpace(req.Current), strings.TrimSpace(req.Pickup), strings.TrimSpace(req.Dropoff)}
	locations, err := p.resolve(ctx, names, addresses)
	if err != nil {
		return api.TripInput{}, err
	}

	return api.TripInput{
		CurrentLocation:   locations[0],
		PickupLocation:    locations[1],
		DropoffLocation:   locations[2],
		CurrentCycleHours: req.CycleHours,
	}, nil
}

// Plan resolves req and creates the trip.
func (p *Planner) Plan(ctx context.Context, req Request) (api.Trip, error) {
	input, err := p.Resolve(ctx, req)
	if err != nil {
		return api.Trip{}, err
	}
	trip, err := p.trips.CreateTrip(ctx, input)
	if err != nil {
		return api.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	p.logger.Info("trip created", "trip", trip.ID.String(), "pickup", input.PickupLocation.Address, "dropoff", input.DropoffLocation.Address)
	return trip, nil
}

// Amend applies a to base, geocoding only the addresses that changed.
func (p *Planner) Amend(ctx context.Context, base api.TripInput, a Amendment) (api.TripInput, error) {
	next := base
	if a.CycleHours != nil {
		if err := validateCycleHours(*a.CycleHours); err != nil {
			return api.TripInput{}, err
		}
		next.CurrentCycleHours = *a.CycleHours
	}
	if a.Status != "" {
		if !a.Status.Valid() {
			return api.TripInput{}, fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
		}
		next.Status = a.Status
	}

	targets := []*api.Location{&next.CurrentLocation, &next.PickupLocation, &next.DropoffLocation}
	var names, addresses []string
	var changed []*api.Location
	for i, value := range []string{a.Current, a.Pickup, a.Dropoff} {
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		names = append(names, []string{"current location", "pickup location", "dropoff location"}[i])
		addresses = append(addresses, value)
		changed = append(changed, targets[i])
	}
	if len(addresses) == 0 {
		return next, nil
	}

	locations, err := p.resolve(ctx, names, addresses)
	if err != nil {
		return api.TripInput{}, err
	}
	for i, location := range locations {
		*changed[i] = location
	}
	return next, nil
}

func (p *Planner) resolve(ctx context.Context, names, addresses []string) ([]api.Location, error) {
	coords, err := p.geocoder.GeocodeAll(ctx, addresses...)
	if err != nil {
		return nil, fmt.Errorf("geocode addresses: %w", err)
	}

	var unresolved []string
	locations := make([]api.Location, len(addresses))
	for i, address := range addresses {
		if !coords[i].Resolved() {
			unresolved = append(unresolved, fmt.Sprintf("%s %q", names[i], address))
		}
		locations[i] = api.Location{Address: address, Coordinates: coords[i]}
	}
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedLocation, strings.Join(unresolved, ", "))
	}
	return locations, nil
}

func validateCycleHours(hours float64) error {
	if hours < 0 || hours > MaxCycleHours || math.IsNaN(hours) {
		return fmt.Errorf("%w (got %g)", ErrCycleHours, hours)
	}
	return nil
}
