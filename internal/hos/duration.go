package hos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DurationKind discriminates the shapes a backend duration arrives in.
type DurationKind uint8

const (
	// DurationUnset means the payload carried no duration.
	DurationUnset DurationKind = iota
	// DurationSeconds is a total number of seconds, numeric or numeric text.
	DurationSeconds
	// DurationClock is "HH:MM:SS" text, optionally prefixed with a day count.
	DurationClock
	// DurationParts is an {hours, minutes} record.
	DurationParts
)

func (k DurationKind) String() string {
	switch k {
	case DurationSeconds:
		return "seconds"
	case DurationClock:
		return "clock"
	case DurationParts:
		return "parts"
	default:
		return "unset"
	}
}

// Duration holds an unnormalized duration exactly as received.
type Duration struct {
	kind      DurationKind
	seconds   float64
	text      string
	hours     float64
	minutes   float64
	malformed bool
}

// Seconds builds a duration from a total number of seconds.
func Seconds(total float64) Duration {
	return Duration{kind: DurationSeconds, seconds: total}
}

// Parts builds a duration from an {hours, minutes} record.
func Parts(hours, minutes float64) Duration {
	return Duration{kind: DurationParts, hours: hours, minutes: minutes}
}

// ParseDuration classifies text: anything containing ':' is clock text,
// everything else is read as seconds when normalized.
func ParseDuration(text string) Duration {
	text = strings.TrimSpace(text)
	if text == "" {
		return Duration{kind: DurationSeconds, malformed: true}
	}
	if strings.Contains(text, ":") {
		return Duration{kind: DurationClock, text: text}
	}
	return Duration{kind: DurationSeconds, text: text}
}

// Kind reports the shape the duration arrived in.
func (d Duration) Kind() DurationKind {
	return d.kind
}

// IsZero reports whether no duration was supplied.
func (d Duration) IsZero() bool {
	return d.kind == DurationUnset && !d.malformed
}

// HoursMinutes is the single display unit every duration normalizes to.
// Minutes are always within [0, 60).
type HoursMinutes struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// FromMinutes splits a minute total into hours and minutes.
func FromMinutes(total int) HoursMinutes {
	if total < 0 {
		total = 0
	}
	return HoursMinutes{Hours: total / 60, Minutes: total % 60}
}

// TotalMinutes folds the pair back into minutes.
func (hm HoursMinutes) TotalMinutes() int {
	return hm.Hours*60 + hm.Minutes
}

func (hm HoursMinutes) String() string {
	return fmt.Sprintf("%dh %dm", hm.Hours, hm.Minutes)
}

// maxHours bounds every duration shape so hours*60+minutes stays inside int.
const maxHours = 1_000_000

// carry pushes rounded minutes of 60 or more into the hour count.
func carry(hours, minutes int) HoursMinutes {
	if minutes >= 60 {
		hours += minutes / 60
		minutes %= 60
	}
	return HoursMinutes{Hours: hours, Minutes: minutes}
}

// Normalize converts any duration shape into hours and minutes.
func (d Duration) Normalize() (HoursMinutes, error) {
	if d.malformed {
		return HoursMinutes{}, ErrMalformedDuration
	}

	switch d.kind {
	case DurationParts:
		if !finite(d.hours) || !finite(d.minutes) || d.hours < 0 || d.minutes < 0 ||
			d.hours > maxHours || d.minutes > maxHours*60 {
			return HoursMinutes{}, fmt.Errorf("%w: {hours: %v, minutes: %v}", ErrMalformedDuration, d.hours, d.minutes)
		}
		return carry(int(math.Floor(d.hours)), int(math.Round(d.minutes))), nil
	case DurationClock:
		return normalizeClock(d.text)
	case DurationSeconds:
		seconds := d.seconds
		if d.text != "" {
			parsed, err := strconv.ParseFloat(d.text, 64)
			if err != nil {
				return HoursMinutes{}, fmt.Errorf("%w: %q", ErrMalformedDuration, d.text)
			}
			seconds = parsed
		}
		if !finite(seconds) || seconds < 0 || seconds > maxHours*3600 {
			return HoursMinutes{}, fmt.Errorf("%w: %v seconds", ErrMalformedDuration, seconds)
		}
		hours := math.Floor(seconds / 3600)
		minutes := math.Round(math.Mod(seconds, 3600) / 60)
		return carry(int(hours), int(minutes)), nil
	default:
		return HoursMinutes{}, fmt.Errorf("%w: no value", ErrMalformedDuration)
	}
}

// normalizeClock reads "HH:MM[:SS]" and the "D HH:MM:SS" day-prefixed form
// timedelta fields serialize to. Seconds are ignored.
func normalizeClock(text string) (HoursMinutes, error) {
	fields := strings.Split(text, ":")
	if len(fields) < 2 {
		return HoursMinutes{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
	}

	days := 0
	hourField := strings.TrimSpace(fields[0])
	if parts := strings.Fields(hourField); len(parts) == 2 {
		d, err := strconv.Atoi(parts[0])
		if err != nil || d < 0 || d > maxHours/24 {
			return HoursMinutes{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
		}
		days = d
		hourField = parts[1]
	}

	hours, err := strconv.Atoi(hourField)
	if err != nil || hours < 0 || hours > maxHours-days*24 {
		return HoursMinutes{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || minutes < 0 || minutes > maxHours*60 {
		return HoursMinutes{}, fmt.Errorf("%w: %q", ErrMalformedDuration, text)
	}
	return carry(days*24+hours, minutes), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// UnmarshalJSON accepts a number, a string or an {hours, minutes} object.
// Shapes it cannot read are kept as malformed rather than failing the
// surrounding payload, so one bad entry never hides the rest of a day.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = Duration{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*d = ParseDuration(text)
	case '{':
		var record struct {
			Hours   *float64 `json:"hours"`
			Minutes *float64 `json:"minutes"`
		}
		if err := json.Unmarshal(data, &record); err != nil || record.Hours == nil || record.Minutes == nil {
			*d = Duration{kind: DurationParts, malformed: true}
			return nil
		}
		*d = Parts(*record.Hours, *record.Minutes)
	default:
		var seconds float64
		if err := json.Unmarshal(data, &seconds); err != nil {
			*d = Duration{kind: DurationSeconds, malformed: true}
			return nil
		}
		*d = Seconds(seconds)
	}
	return nil
}

// MarshalJSON writes the duration back in the shape it arrived in.
func (d Duration) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case DurationSeconds:
		if d.text != "" {
			return json.Marshal(d.text)
		}
		return json.Marshal(d.seconds)
	case DurationClock:
		return json.Marshal(d.text)
	case DurationParts:
		return json.Marshal(struct {
			Hours   float64 `json:"hours"`
			Minutes float64 `json:"minutes"`
		}{d.hours, d.minutes})
	default:
		return []byte("null"), nil
	}
}
