package logbook

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/faizmokh/logsheet/internal/hos"
)

func TestParserParsesSectionsSequentially(t *testing.T) {
	input := `# March 2025

## 2025-03-01 trip 7
- [off_duty] [00:00 - 06:00] 6h 0m
- [driving] [06:00 - 11:30] 5h 30m Denver to Lincoln

> Totals: driving 5h 30m, on duty 0h 0m, off duty 6h 0m, sleeper 0h 0m (day 11h 30m, work 5h 30m)

## 2025-03-02 trip 12
- [sleeper] [2025-03-02T00:00:00Z - 2025-03-02T08:00:00Z] 8h 0m
`

	p := NewParser(strings.NewReader(input))

	section, err := p.NextSection()
	if err != nil {
		t.Fatalf("NextSection first call: %v", err)
	}
	wantDate := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !section.Date.Equal(wantDate) {
		t.Fatalf("section.Date = %s, want %s", section.Date, wantDate)
	}
	if section.TripID != "7" {
		t.Fatalf("section.TripID = %q, want 7", section.TripID)
	}
	if len(section.Entries) != 2 {
		t.Fatalf("section.Entries length = %d, want 2", len(section.Entries))
	}

	second := section.Entries[1]
	if second.Status != hos.StatusDriving {
		t.Fatalf("second.Status = %q, want driving", second.Status)
	}
	if second.Start != "06:00" || second.End != "11:30" {
		t.Fatalf("second times = %s-%s, want 06:00-11:30", second.Start, second.End)
	}
	if second.Duration == nil || *second.Duration != (hos.HoursMinutes{Hours: 5, Minutes: 30}) {
		t.Fatalf("second.Duration = %v, want 5h 30m", second.Duration)
	}
	if second.Remarks != "Denver to Lincoln" {
		t.Fatalf("second.Remarks = %q, want %q", second.Remarks, "Denver to Lincoln")
	}

	section, err = p.NextSection()
	if err != nil {
		t.Fatalf("NextSection second call: %v", err)
	}
	if section.TripID != "12" || len(section.Entries) != 1 {
		t.Fatalf("second section = %+v", section)
	}
	if section.Entries[0].Start != "2025-03-02T00:00:00Z" {
		t.Fatalf("date-time start = %q", section.Entries[0].Start)
	}

	if _, err := p.NextSection(); !errors.Is(err, io.EOF) {
		t.Fatalf("NextSection third call error = %v, want io.EOF", err)
	}
}

func TestParserIgnoresForeignLines(t *testing.T) {
	input := `# Notes
- [driving] [06:00 - 07:00] 1h 0m before any heading
## 2025-03-01
## 2025-03-01 trip 3
- [x] [09:45] a checkbox todo
- not an entry
- [driving] [06:00 - 07:00] 1h 0m
`
	p := NewParser(strings.NewReader(input))
	section, err := p.NextSection()
	if err != nil {
		t.Fatalf("NextSection: %v", err)
	}
	if section.TripID != "3" || len(section.Entries) != 1 {
		t.Fatalf("section = %+v, want trip 3 with one entry", section)
	}
	if _, err := p.NextSection(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestParserEmptyInput(t *testing.T) {
	if _, err := NewParser(strings.NewReader("")).NextSection(); !errors.Is(err, io.EOF) {
		t.Fatalf("NextSection error = %v, want io.EOF", err)
	}
	if _, err := NewParser(nil).NextSection(); !errors.Is(err, io.EOF) {
		t.Fatalf("NextSection(nil) error = %v, want io.EOF", err)
	}
}
