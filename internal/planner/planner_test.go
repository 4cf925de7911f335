package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/logging"
)

type stubGeocoder struct {
	known map[string]api.Coordinates
	asked [][]string
}

func (s *stubGeocoder) GeocodeAll(ctx context.Context, addresses ...string) ([]api.Coordinates, error) {
	s.asked = append(s.asked, addresses)
	out := make([]api.Coordinates, len(addresses))
	for i, address := range addresses {
		out[i] = s.known[address]
	}
	return out, nil
}

type stubTrips struct {
	created []api.TripInput
}

func (s *stubTrips) CreateTrip(ctx context.Context, input api.TripInput) (api.Trip, error) {
	s.created = append(s.created, input)
	return api.Trip{ID: "42", CurrentLocation: input.CurrentLocation, PickupLocation: input.PickupLocation, DropoffLocation: input.DropoffLocation}, nil
}

func newStubGeocoder() *stubGeocoder {
	return &stubGeocoder{known: map[string]api.Coordinates{
		"Denver":  {Lat: 39.74, Lng: -104.99},
		"Lincoln": {Lat: 40.81, Lng: -96.70},
		"Omaha":   {Lat: 41.26, Lng: -95.93},
		"Chicago": {Lat: 41.88, Lng: -87.63},
	}}
}

func TestPlanCreatesGeocodedTrip(t *testing.T) {
	geocoder, trips := newStubGeocoder(), &stubTrips{}
	p := New(geocoder, trips, logging.Discard())

	trip, err := p.Plan(context.Background(), Request{Current: "Denver", Pickup: " Lincoln ", Dropoff: "Omaha", CycleHours: 12})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if trip.ID != "42" {
		t.Fatalf("ID = %q, want 42", trip.ID)
	}
	if len(geocoder.asked) != 1 || len(geocoder.asked[0]) != 3 {
		t.Fatalf("geocoder asked %v, want one batch of three", geocoder.asked)
	}
	input := trips.created[0]
	if input.PickupLocation.Address != "Lincoln" || input.PickupLocation.Coordinates.Lat != 40.81 {
		t.Fatalf("pickup = %+v", input.PickupLocation)
	}
	if input.CurrentCycleHours != 12 {
		t.Fatalf("CurrentCycleHours = %v, want 12", input.CurrentCycleHours)
	}
}

func TestPlanRejectsCycleHoursOutOfRange(t *testing.T) {
	for _, hours := range []float64{-1, 70.5, 100} {
		trips := &stubTrips{}
		_, err := New(newStubGeocoder(), trips, logging.Discard()).Plan(context.Background(), Request{Current: "Denver", Pickup: "Lincoln", Dropoff: "Omaha", CycleHours: hours})
		if !errors.Is(err, ErrCycleHours) {
			t.Fatalf("Plan(%v) error = %v, want ErrCycleHours", hours, err)
		}
		if len(trips.created) != 0 {
			t.Fatalf("Plan(%v) created a trip", hours)
		}
	}
	for _, hours := range []float64{0, 70} {
		if err := (Request{Current: "a", Pickup: "b", Dropoff: "c", CycleHours: hours}).Validate(); err != nil {
			t.Fatalf("Validate(%v) = %v, want boundary accepted", hours, err)
		}
	}
}

func TestPlanRejectsUnresolvedAddresses(t *testing.T) {
	trips := &stubTrips{}
	_, err := New(newStubGeocoder(), trips, logging.Discard()).Plan(context.Background(), Request{Current: "Denver", Pickup: "Atlantis", Dropoff: "Omaha", CycleHours: 5})
	if !errors.Is(err, ErrUnresolvedLocation) {
		t.Fatalf("Plan error = %v, want ErrUnresolvedLocation", err)
	}
	if !strings.Contains(err.Error(), `pickup location "Atlantis"`) {
		t.Fatalf("error %q should name the address", err)
	}
	if len(trips.created) != 0 {
		t.Fatalf("trip created despite unresolved address")
	}
}

func TestPlanRejectsBlankAddress(t *testing.T) {
	_, err := New(newStubGeocoder(), &stubTrips{}, logging.Discard()).Plan(context.Background(), Request{Current: "Denver", Dropoff: "Omaha"})
	if !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("Plan error = %v, want ErrMissingAddress", err)
	}
}

func TestAmendGeocodesOnlyChangedAddresses(t *testing.T) {
	geocoder := newStubGeocoder()
	p := New(geocoder, &stubTrips{}, logging.Discard())
	base := api.TripInput{
		CurrentLocation:   api.Location{Address: "Denver", Coordinates: geocoder.known["Denver"]},
		PickupLocation:    api.Location{Address: "Lincoln", Coordinates: geocoder.known["Lincoln"]},
		DropoffLocation:   api.Location{Address: "Omaha", Coordinates: geocoder.known["Omaha"]},
		CurrentCycleHours: 10,
	}
	hours := 30.0

	got, err := p.Amend(context.Background(), base, Amendment{Dropoff: "Chicago", CycleHours: &hours, Status: api.TripInProgress})
	if err != nil {
		t.Fatalf("Amend: %v", err)
	}
	if len(geocoder.asked) != 1 || len(geocoder.asked[0]) != 1 || geocoder.asked[0][0] != "Chicago" {
		t.Fatalf("geocoder asked %v, want only Chicago", geocoder.asked)
	}
	if got.DropoffLocation.Address != "Chicago" || got.PickupLocation.Address != "Lincoln" {
		t.Fatalf("Amend = %+v", got)
	}
	if got.CurrentCycleHours != 30 || got.Status != api.TripInProgress {
		t.Fatalf("Amend hours/status = %v/%q", got.CurrentCycleHours, got.Status)
	}
	if base.DropoffLocation.Address != "Omaha" {
		t.Fatalf("Amend mutated its input")
	}

	if _, err := p.Amend(context.Background(), base, Amendment{Status: "parked"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("Amend error = %v, want ErrInvalidStatus", err)
	}
}
