package hos

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LogEntry is a single duty-status interval as delivered by the backend.
// Entries are treated as immutable; every derived value is computed on demand.
type LogEntry struct {
	ID        ID       `json:"id,omitempty"`
	Trip      ID       `json:"trip,omitempty"`
	Date      string   `json:"date"`
	Status    Status   `json:"status"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Duration  Duration `json:"duration"`
	Remarks   string   `json:"remarks,omitempty"`
}

// Status is one of the four duty-status categories.
type Status string

const (
	// StatusOffDuty marks time off duty.
	StatusOffDuty Status = "off_duty"
	// StatusSleeper marks time in the sleeper berth.
	StatusSleeper Status = "sleeper"
	// StatusDriving marks time behind the wheel.
	StatusDriving Status = "driving"
	// StatusOnDuty marks on-duty time that is not driving.
	StatusOnDuty Status = "on_duty"
)

// Statuses lists the categories in graph row order.
var Statuses = []Status{StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty}

// SummaryOrder is the order the daily summary presents categories in.
var SummaryOrder = []Status{StatusDriving, StatusOnDuty, StatusOffDuty, StatusSleeper}

// ParseStatus maps backend spellings onto a Status. Hyphenated variants are accepted.
func ParseStatus(value string) (Status, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	switch Status(normalized) {
	case StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDuty:
		return Status(normalized), nil
	}
	return Status(value), ErrUnknownStatus
}

// UnmarshalJSON keeps unknown statuses instead of failing the whole payload;
// Valid reports whether the decoded value is usable.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, _ := ParseStatus(raw)
	*s = parsed
	return nil
}

// Valid reports whether s is one of the four known categories.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Row returns the graph row for s, or -1 for unknown statuses.
func (s Status) Row() int {
	for i, status := range Statuses {
		if status == s {
			return i
		}
	}
	return -1
}

// Label renders the status the way log sheets print it ("off duty").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ID is a backend identifier. The API emits integers, older clients strings.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = ID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*id = ID(number.String())
	return nil
}

// MarshalJSON emits numeric IDs as numbers so the backend accepts them as foreign keys.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}
