package logbook

import (
	"time"

	"github.com/faizmokh/logsheet/internal/hos"
)

// Entry is one archived row of a log sheet.
type Entry struct {
	Status hos.Status
	Start  string
	End    string
	// Duration is nil when the sheet showed the duration as malformed.
	Duration *hos.HoursMinutes
	Remarks  string
}

// Section is one exported day of one trip, stored under a
// "## YYYY-MM-DD trip <id>" heading.
type Section struct {
	Date    time.Time
	TripID  string
	Entries []Entry
}

// LogEntries converts the section back into renderer input. Durations are
// restored in {hours, minutes} form.
func (s Section) LogEntries() []hos.LogEntry {
	date := s.Date.Format(dateLayout)
	out := make([]hos.LogEntry, 0, len(s.Entries))
	for _, entry := range s.Entries {
		logEntry := hos.LogEntry{
			Trip:      hos.ID(s.TripID),
			Date:      date,
			Status:    entry.Status,
			StartTime: entry.Start,
			EndTime:   entry.End,
			Remarks:   entry.Remarks,
		}
		if entry.Duration != nil {
			logEntry.Duration = hos.Parts(float64(entry.Duration.Hours), float64(entry.Duration.Minutes))
		}
		out = append(out, logEntry)
	}
	return out
}

const dateLayout = "2006-01-02"
