package hos

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the width of the graph track in minutes.
const MinutesPerDay = 24 * 60

// ParseClock returns the minute of day for an "HH:MM" value. "24:00" is
// accepted as the end of the day. RFC 3339 date-times, which the backend
// emits for its DateTimeFields, contribute their wall-clock portion.
func ParseClock(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrMissingTime
	}

	if strings.Contains(value, "T") {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
		}
		return parsed.Hour()*60 + parsed.Minute(), nil
	}

	fields := strings.Split(value, ":")
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	hour, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	minute, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	if hour < 0 || minute < 0 || minute >= 60 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	return hour*60 + minute, nil
}

// FormatClock renders a minute of day as HH:MM.
func FormatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// Interval resolves the start and end minute of day for an entry.
func (e LogEntry) Interval() (start, end int, err error) {
	if strings.TrimSpace(e.StartTime) == "" || strings.TrimSpace(e.EndTime) == "" {
		return 0, 0, ErrMissingTime
	}
	start, err = ParseClock(e.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	end, err = ParseClock(e.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if end < start {
		return 0, 0, ErrInvertedInterval
	}
	return start, end, nil
}
