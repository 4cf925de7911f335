package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
)

// fakeAPI is an in-memory stand-in for the trip planning backend and Mapbox.
type fakeAPI struct {
	mu       sync.Mutex
	trips    map[string]api.Trip
	logs     []hos.LogEntry
	logsDown bool

	created []api.TripInput
	updated []api.TripInput
	stops   []api.StopInput
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		trips: map[string]api.Trip{
			"7": {
				ID:                "7",
				CurrentLocation:   api.Location{Address: "Sparks, NV", Coordinates: api.Coordinates{Lat: 39.53, Lng: -119.75}},
				PickupLocation:    api.Location{Address: "Reno, NV", Coordinates: api.Coordinates{Lat: 39.52, Lng: -119.81}},
				DropoffLocation:   api.Location{Address: "Boise, ID", Coordinates: api.Coordinates{Lat: 43.61, Lng: -116.2}},
				CurrentCycleHours: 12,
				Status:            api.TripPlanned,
			},
		},
		logs: []hos.LogEntry{
			{Trip: "7", Date: "2025-03-01", Status: hos.StatusDriving, StartTime: "06:00", EndTime: "07:30", Duration: hos.Seconds(5400), Remarks: "Reno, NV"},
			{Trip: "7", Date: "2025-03-01", Status: hos.StatusOnDuty, StartTime: "07:30", EndTime: "08:00", Duration: hos.ParseDuration("00:30:00"), Remarks: "Pre-trip inspection"},
			{Trip: "7", Date: "2025-03-01", Status: hos.Status("yard_move"), StartTime: "08:00", EndTime: "08:15", Duration: hos.Seconds(900)},
			{Trip: "7", Date: "2025-03-02", Status: hos.StatusOffDuty, StartTime: "00:00", EndTime: "10:00", Duration: hos.Parts(10, 0)},
		},
	}
}

var fakePlaces = map[string][2]float64{
	"Sparks, NV": {-119.75, 39.53},
	"Reno, NV":   {-119.81, 39.52},
	"Boise, ID":  {-116.2, 43.61},
	"Elko, NV":   {-115.76, 40.83},
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/trips/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		trips := make([]api.Trip, 0, len(f.trips))
		for _, trip := range f.trips {
			trips = append(trips, trip)
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(trips), "results": trips})
	})
	mux.HandleFunc("POST /api/trips/{$}", func(w http.ResponseWriter, r *http.Request) {
		var input api.TripInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.created = append(f.created, input)
		trip := tripFromInput("42", input)
		f.trips["42"] = trip
		writeJSON(w, http.StatusCreated, trip)
	})
	mux.HandleFunc("GET /api/trips/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		trip, ok := f.trip(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, trip)
	})
	mux.HandleFunc("PUT /api/trips/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := f.trip(id); !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		var input api.TripInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.updated = append(f.updated, input)
		trip := tripFromInput(id, input)
		f.trips[id] = trip
		writeJSON(w, http.StatusOK, trip)
	})
	mux.HandleFunc("DELETE /api/trips/{id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := f.trip(id); !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		f.mu.Lock()
		delete(f.trips, id)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/stops/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []api.Stop{
			{ID: "1", Trip: hos.ID(r.URL.Query().Get("trip")), StopType: api.StopPickup, Status: api.StopPlanned, Order: 1,
				Location: api.Location{Address: "Reno, NV"}, Duration: hos.ParseDuration("01:00:00")},
		})
	})
	mux.HandleFunc("POST /api/stops/{$}", func(w http.ResponseWriter, r *http.Request) {
		var input api.StopInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		f.mu.Lock()
		f.stops = append(f.stops, input)
		f.mu.Unlock()
		writeJSON(w, http.StatusCreated, api.Stop{
			ID: "9", Trip: input.Trip, Location: input.Location, StopType: input.StopType,
			Status: input.Status, Order: input.Order, Duration: hos.ParseDuration(input.Duration),
		})
	})
	mux.HandleFunc("GET /api/log-entries/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.logsDown {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, f.logs)
	})
	mux.HandleFunc("POST /api/trips/{id}/generate-logs/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.GenerateLogsResult{Message: "Logs generated successfully", Logs: f.logs})
	})
	mux.HandleFunc("POST /api/trips/{id}/calculate-route/{$}", func(w http.ResponseWriter, r *http.Request) {
		trip, _ := f.trip(r.PathValue("id"))
		writeJSON(w, http.StatusOK, api.RouteResult{
			Message:   "Route calculated successfully",
			RouteData: api.RouteData{Distance: 160934, Duration: 7200},
			Trip:      trip,
		})
	})
	mux.HandleFunc("GET /api/trips/{id}/validate/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Validation{
			IsValid:  false,
			Warnings: []string{"Trip requires a 30-minute break after 8 hours of driving"},
		})
	})

	mux.HandleFunc("GET /geocoding/v5/mapbox.places/{query}", func(w http.ResponseWriter, r *http.Request) {
		place := strings.TrimSuffix(r.PathValue("query"), ".json")
		center, ok := fakePlaces[place]
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"features": []any{}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"features": []map[string]any{{"center": []float64{center[0], center[1]}}},
		})
	})

	return mux
}

func (f *fakeAPI) trip(id string) (api.Trip, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	return trip, ok
}

func tripFromInput(id string, input api.TripInput) api.Trip {
	status := input.Status
	if status == "" {
		status = api.TripPlanned
	}
	return api.Trip{
		ID:                hos.ID(id),
		CurrentLocation:   input.CurrentLocation,
		PickupLocation:    input.PickupLocation,
		DropoffLocation:   input.DropoffLocation,
		CurrentCycleHours: input.CurrentCycleHours,
		Status:            status,
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

// testEnv runs root commands against a fakeAPI with a throwaway data directory.
type testEnv struct {
	api     *fakeAPI
	server  *httptest.Server
	dataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	fake := newFakeAPI()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return &testEnv{api: fake, server: server, dataDir: t.TempDir()}
}

func (e *testEnv) run(args ...string) (string, error) {
	return e.runWithFlags([]string{"--api-url", e.server.URL + "/api"}, args...)
}

// runWithoutAPIFlag leaves the backend URL to the environment or config file.
func (e *testEnv) runWithoutAPIFlag(args ...string) (string, error) {
	return e.runWithFlags(nil, args...)
}

func (e *testEnv) runWithFlags(flags []string, args ...string) (string, error) {
	rt := &runtime{viper: viper.New(), geocodeURL: e.server.URL}
	cmd := newRootCommand(context.Background(), rt)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	all := append(flags,
		"--data-dir", e.dataDir,
		"--mapbox-token", "test-token",
		"--log-format", "text",
	)
	cmd.SetArgs(append(all, args...))
	err := cmd.Execute()
	return out.String(), err
}

func executeCommand(t *testing.T, env *testEnv, args ...string) string {
	t.Helper()
	out, err := env.run(args...)
	if err != nil {
		t.Fatalf("execute %q: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q missing substring %q", output, want)
	}
}

func assertNotContains(t *testing.T, output, want string) {
	t.Helper()
	if strings.Contains(output, want) {
		t.Fatalf("output %q unexpectedly contained substring %q", output, want)
	}
}
