package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/planner"
)

func TestTripsListsBackendTrips(t *testing.T) {
	env := newTestEnv(t)
	out := executeCommand(t, env, "trips")

	assertContains(t, out, "ID")
	assertContains(t, out, "ROUTE")
	assertContains(t, out, "Reno, NV → Boise, ID")
	assertContains(t, out, "12.0")
}

func TestTripsJSONOutput(t *testing.T) {
	env := newTestEnv(t)
	out := executeCommand(t, env, "trips", "--output", "json")

	var trips []api.Trip
	if err := json.Unmarshal([]byte(out), &trips); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(trips) != 1 || trips[0].ID != "7" {
		t.Fatalf("trips = %+v, want trip 7", trips)
	}
}

func TestTripsRejectsUnknownOutput(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run("trips", "-o", "xml"); err == nil {
		t.Fatalf("expected error for -o xml")
	}
}

func TestTripShowIncludesStops(t *testing.T) {
	env := newTestEnv(t)
	out := executeCommand(t, env, "trip", "show", "7")

	assertContains(t, out, "Pickup")
	assertContains(t, out, "Boise, ID")
	assertContains(t, out, "TYPE")
	assertContains(t, out, "pickup")
	assertContains(t, out, "1h 0m")
}

func TestTripNewSendsGeocodedLocations(t *testing.T) {
	env := newTestEnv(t)
	executeCommand(t, env, "trip", "new",
		"--current", "Sparks, NV",
		"--pickup", "Reno, NV",
		"--dropoff", "Boise, ID",
		"--cycle-hours", "12.5",
	)

	if len(env.api.created) != 1 {
		t.Fatalf("created = %d trips, want 1", len(env.api.created))
	}
	input := env.api.created[0]
	if input.PickupLocation.Coordinates != (api.Coordinates{Lat: 39.52, Lng: -119.81}) {
		t.Fatalf("pickup coordinates = %v", input.PickupLocation.Coordinates)
	}
	if input.CurrentCycleHours != 12.5 {
		t.Fatalf("cycle hours = %v, want 12.5", input.CurrentCycleHours)
	}
}

func TestTripNewRejectsUnresolvedAddress(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("trip", "new",
		"--current", "Sparks, NV",
		"--pickup", "Reno, NV",
		"--dropoff", "Atlantis",
	)
	if !errors.Is(err, planner.ErrUnresolvedLocation) {
		t.Fatalf("error = %v, want ErrUnresolvedLocation", err)
	}
	if len(env.api.created) != 0 {
		t.Fatalf("trip was created despite unresolved address")
	}
}

func TestTripNewRejectsCycleHoursOverLimit(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("trip", "new",
		"--current", "Sparks, NV",
		"--pickup", "Reno, NV",
		"--dropoff", "Boise, ID",
		"--cycle-hours", "71",
	)
	if !errors.Is(err, planner.ErrCycleHours) {
		t.Fatalf("error = %v, want ErrCycleHours", err)
	}
}

func TestTripUpdateKeepsUnchangedFields(t *testing.T) {
	env := newTestEnv(t)
	out := executeCommand(t, env, "trip", "update", "7", "--cycle-hours", "30", "--status", "in_progress")
	assertContains(t, out, "Updated trip 7")
	assertContains(t, out, "(in_progress)")

	if len(env.api.updated) != 1 {
		t.Fatalf("updated = %d, want 1", len(env.api.updated))
	}
	input := env.api.updated[0]
	if input.PickupLocation.Address != "Reno, NV" || input.DropoffLocation.Address != "Boise, ID" {
		t.Fatalf("addresses changed: %+v", input)
	}
	if input.CurrentCycleHours != 30 || input.Status != api.TripInProgress {
		t.Fatalf("cycle hours/status = %v/%v, want 30/in_progress", input.CurrentCycleHours, input.Status)
	}
}

func TestTripUpdateWithoutCycleFlagKeepsHours(t *testing.T) {
	env := newTestEnv(t)
	executeCommand(t, env, "trip", "update", "7", "--dropoff", "Elko, NV")

	input := env.api.updated[0]
	if input.CurrentCycleHours != 12 {
		t.Fatalf("cycle hours = %v, want 12", input.CurrentCycleHours)
	}
	if input.DropoffLocation.Address != "Elko, NV" || !input.DropoffLocation.Coordinates.Resolved() {
		t.Fatalf("dropoff = %+v, want geocoded Elko", input.DropoffLocation)
	}
}

func TestTripDeleteMissingTrip(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("trip", "delete", "99")
	if !api.IsNotFound(err) {
		t.Fatalf("error = %v, want not found", err)
	}
}
