package hos

import "errors"

// ErrMalformedDuration is returned when a duration value cannot be read in any of its shapes.
var ErrMalformedDuration = errors.New("malformed duration")

// ErrMissingTime marks entries without a start or end time.
var ErrMissingTime = errors.New("missing time field")

// ErrMalformedTime indicates a clock value that is not HH:MM within 00:00-24:00.
var ErrMalformedTime = errors.New("malformed clock time")

// ErrUnknownStatus is returned for duty statuses outside the four known categories.
var ErrUnknownStatus = errors.New("unknown duty status")

// ErrInvertedInterval marks entries whose end time precedes the start time.
var ErrInvertedInterval = errors.New("end time before start time")
