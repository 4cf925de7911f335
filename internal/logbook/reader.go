package logbook

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/faizmokh/logsheet/internal/files"
	"github.com/faizmokh/logsheet/internal/hos"
)

// Reader loads archived sheets for offline rendering.
type Reader struct {
	manager *files.Manager
}

// NewReader wires a reader using the shared files.Manager.
func NewReader(manager *files.Manager) *Reader {
	return &Reader{manager: manager}
}

// Section returns the archived sheet for one trip and date.
func (r *Reader) Section(ctx context.Context, tripID string, date time.Time) (Section, error) {
	sections, err := r.monthSections(ctx, date)
	if err != nil {
		return Section{}, err
	}
	for _, section := range sections {
		if section.TripID == tripID && sameDay(section.Date, date) {
			return section, nil
		}
	}
	return Section{}, ErrSectionNotFound
}

// Entries returns the archived entries of a trip between from and to
// (inclusive), in date order. A zero from or to leaves that side open
// within the months that exist on disk.
func (r *Reader) Entries(ctx context.Context, tripID string, from, to time.Time) ([]hos.LogEntry, error) {
	if r == nil || r.manager == nil {
		return nil, errors.New("reader not initialized with file manager")
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, nil
	}

	months, err := r.monthsBetween(from, to)
	if err != nil {
		return nil, err
	}

	var entries []hos.LogEntry
	for _, month := range months {
		sections, err := r.monthSections(ctx, month)
		if err != nil {
			return nil, err
		}
		for _, section := range sections {
			if section.TripID != tripID {
				continue
			}
			if !from.IsZero() && section.Date.Before(dayStart(from)) {
				continue
			}
			if !to.IsZero() && section.Date.After(dayStart(to)) {
				continue
			}
			entries = append(entries, section.LogEntries()...)
		}
	}
	return entries, nil
}

func (r *Reader) monthSections(ctx context.Context, month time.Time) ([]Section, error) {
	if r == nil || r.manager == nil {
		return nil, errors.New("reader not initialized with file manager")
	}
	if !r.manager.MonthExists(month) {
		return nil, nil
	}

	file, err := os.Open(r.manager.MonthPath(month))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sections []Section
	parser := NewParser(file)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		section, err := parser.NextSection()
		if errors.Is(err, io.EOF) {
			return sections, nil
		}
		if err != nil {
			return nil, err
		}
		sections = append(sections, *section)
	}
}

// monthsBetween lists the first day of every month to scan. Open bounds
// fall back to the archive's existing months.
func (r *Reader) monthsBetween(from, to time.Time) ([]time.Time, error) {
	if from.IsZero() || to.IsZero() {
		existing, err := r.manager.Months()
		if err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			return nil, nil
		}
		if from.IsZero() {
			from = existing[0]
		}
		if to.IsZero() {
			to = existing[len(existing)-1]
		}
	}

	var months []time.Time
	current := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(last) {
		months = append(months, current)
		current = current.AddDate(0, 1, 0)
	}
	return months, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
