package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/faizmokh/logsheet/internal/hos"
)

// MetersPerMile converts route distances reported in meters.
const MetersPerMile = 1609.34

// Coordinates is a WGS84 point. The zero value means "not resolved".
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Resolved reports whether the point came from a successful lookup.
func (c Coordinates) Resolved() bool {
	return c.Lat != 0 || c.Lng != 0
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// Location is an address with its geocoded point.
type Location struct {
	Address     string      `json:"address" yaml:"address"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

// TripStatus tracks a trip through its lifecycle.
type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
)

// Valid reports whether s is a status the backend accepts.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanned, TripInProgress, TripCompleted:
		return true
	}
	return false
}

// Trip mirrors the backend trip resource. Stops and LogEntries are only
// present on detail responses.
type Trip struct {
	ID                hos.ID         `json:"id" yaml:"id"`
	CurrentLocation   Location       `json:"current_location" yaml:"current_location"`
	PickupLocation    Location       `json:"pickup_location" yaml:"pickup_location"`
	DropoffLocation   Location       `json:"dropoff_location" yaml:"dropoff_location"`
	CurrentCycleHours float64        `json:"current_cycle_hours" yaml:"current_cycle_hours"`
	EstimatedDistance *float64       `json:"estimated_distance,omitempty" yaml:"estimated_distance,omitempty"`
	EstimatedDuration *float64       `json:"estimated_duration,omitempty" yaml:"estimated_duration,omitempty"`
	Status            TripStatus     `json:"status" yaml:"status"`
	CreatedAt         time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" yaml:"updated_at"`
	Stops             []Stop         `json:"stops,omitempty" yaml:"stops,omitempty"`
	LogEntries        []hos.LogEntry `json:"log_entries,omitempty" yaml:"-"`
}

// Title is a short human label for the trip.
func (t Trip) Title() string {
	return fmt.Sprintf("%s → %s", orUnknown(t.PickupLocation.Address), orUnknown(t.DropoffLocation.Address))
}

// TripInput is the writable subset of a trip.
type TripInput struct {
	CurrentLocation   Location   `json:"current_location"`
	PickupLocation    Location   `json:"pickup_location"`
	DropoffLocation   Location   `json:"dropoff_location"`
	CurrentCycleHours float64    `json:"current_cycle_hours"`
	Status            TripStatus `json:"status,omitempty"`
}

// InputFrom copies the writable fields of t, for read-modify-write updates.
func InputFrom(t Trip) TripInput {
	return TripInput{
		CurrentLocation:   t.CurrentLocation,
		PickupLocation:    t.PickupLocation,
		DropoffLocation:   t.DropoffLocation,
		CurrentCycleHours: t.CurrentCycleHours,
		Status:            t.Status,
	}
}

// StopType classifies why the truck stops.
type StopType string

const (
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopRest    StopType = "rest"
	StopFueling StopType = "fueling"
)

// ParseStopType validates user input for a stop type.
func ParseStopType(value string) (StopType, error) {
	switch StopType(value) {
	case StopPickup, StopDropoff, StopRest, StopFueling:
		return StopType(value), nil
	}
	return "", fmt.Errorf("unknown stop type %q (expected pickup|dropoff|rest|fueling)", value)
}

// StopStatus tracks whether a planned stop happened.
type StopStatus string

const (
	StopPlanned StopStatus = "planned"
	StopVisited StopStatus = "visited"
	StopSkipped StopStatus = "skipped"
)

// Stop is a planned or visited stop along a trip.
type Stop struct {
	ID            hos.ID       `json:"id" yaml:"id"`
	Trip          hos.ID       `json:"trip" yaml:"trip"`
	Location      Location     `json:"location" yaml:"location"`
	StopType      StopType     `json:"stop_type" yaml:"stop_type"`
	Status        StopStatus   `json:"status" yaml:"status"`
	Order         int          `json:"order" yaml:"order"`
	ArrivalTime   *time.Time   `json:"arrival_time,omitempty" yaml:"arrival_time,omitempty"`
	DepartureTime *time.Time   `json:"departure_time,omitempty" yaml:"departure_time,omitempty"`
	Duration      hos.Duration `json:"duration" yaml:"-"`
}

// StopInput is the body for creating a stop. Duration is "HH:MM:SS" text.
type StopInput struct {
	Trip          hos.ID     `json:"trip"`
	Location      Location   `json:"location"`
	StopType      StopType   `json:"stop_type"`
	Status        StopStatus `json:"status,omitempty"`
	Order         int        `json:"order"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	Duration      string     `json:"duration,omitempty"`
}

// RouteData is the route summary the backend stores per trip.
type RouteData struct {
	// Distance is in meters.
	Distance float64 `json:"distance" yaml:"distance"`
	// Duration is in seconds.
	Duration float64         `json:"duration" yaml:"duration"`
	Geometry json.RawMessage `json:"geometry,omitempty" yaml:"-"`
}

// Miles converts the route distance.
func (r RouteData) Miles() float64 {
	return r.Distance / MetersPerMile
}

// Hours converts the route duration.
func (r RouteData) Hours() float64 {
	return r.Duration / 3600
}

// RouteResult is the calculate-route response.
type RouteResult struct {
	Message   string    `json:"message" yaml:"message"`
	RouteData RouteData `json:"route_data" yaml:"route_data"`
	Trip      Trip      `json:"trip" yaml:"trip"`
}

// Validation is the HOS validation verdict for a trip.
type Validation struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// GenerateLogsResult is the generate-logs response.
type GenerateLogsResult struct {
	Message string         `json:"message"`
	Logs    []hos.LogEntry `json:"logs"`
}

func orUnknown(value string) string {
	if value == "" {
		return "?"
	}
	return value
}
