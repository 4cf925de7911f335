package cli

import (
	"testing"
)

func TestCLIWorkflowEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	// 1. Plan a trip.
	newOut := executeCommand(t, env, "trip", "new",
		"--current", "Sparks, NV",
		"--pickup", "Reno, NV",
		"--dropoff", "Elko, NV",
		"--cycle-hours", "20",
	)
	assertContains(t, newOut, "Created trip 42: Reno, NV → Elko, NV")

	// 2. It shows up in the trip list.
	tripsOut := executeCommand(t, env, "trips")
	assertContains(t, tripsOut, "Reno, NV → Elko, NV")

	// 3. Calculate the route and generate logs.
	routeOut := executeCommand(t, env, "route", "42")
	assertContains(t, routeOut, "Route for trip 42: 100.0 mi, 2.0 h")
	generateOut := executeCommand(t, env, "generate", "42")
	assertContains(t, generateOut, "Generated 4 log entries across 2 days for trip 42")

	// 4. Render the first day.
	logsOut := executeCommand(t, env, "logs", "42")
	assertContains(t, logsOut, "Trip 42  2025-03-01")
	assertContains(t, logsOut, "Pre-trip inspection")

	// 5. Archive it and read it back without the backend.
	exportOut := executeCommand(t, env, "export", "42", "--date", "2025-03-01")
	assertContains(t, exportOut, "Exported 2025-03-01 for trip 42")

	env.api.mu.Lock()
	env.api.logsDown = true
	env.api.mu.Unlock()

	offlineOut := executeCommand(t, env, "logs", "42", "--offline")
	assertContains(t, offlineOut, "Trip 42  2025-03-01")
	assertContains(t, offlineOut, "1h 30m")
	assertContains(t, offlineOut, "Pre-trip inspection")

	// 6. Remove the archive and the trip.
	removeOut := executeCommand(t, env, "export", "42", "--date", "2025-03-01", "--remove")
	assertContains(t, removeOut, "Removed 2025-03-01 for trip 42")
	emptyOut := executeCommand(t, env, "logs", "42", "--offline")
	assertContains(t, emptyOut, "No log entries for trip 42")

	deleteOut := executeCommand(t, env, "trip", "delete", "42")
	assertContains(t, deleteOut, "Deleted trip 42")
	afterOut := executeCommand(t, env, "trips")
	assertNotContains(t, afterOut, "Elko, NV")
}
