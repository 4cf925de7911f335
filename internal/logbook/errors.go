package logbook

import "errors"

// ErrSectionNotFound is returned when no section exists for the date and trip.
var ErrSectionNotFound = errors.New("sheet section not found")

// ErrEmptySheet indicates an attempt to archive a sheet with no active date.
var ErrEmptySheet = errors.New("sheet has no entries to export")

// ErrMissingTrip is returned when a section would be written without a trip id.
var ErrMissingTrip = errors.New("trip id is required")
