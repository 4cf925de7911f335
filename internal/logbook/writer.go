package logbook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faizmokh/logsheet/internal/files"
	"github.com/faizmokh/logsheet/internal/hos"
)

// Writer archives rendered sheets into month files.
type Writer struct {
	manager *files.Manager
}

// NewWriter wires the dependencies required to manipulate month files.
func NewWriter(manager *files.Manager) *Writer {
	return &Writer{manager: manager}
}

// Save writes the sheet's active day under its "## date trip id" heading.
// An existing section for the same day and trip is replaced in place.
// It returns the month file path.
func (w *Writer) Save(ctx context.Context, tripID string, sheet hos.Sheet) (string, error) {
	if strings.TrimSpace(tripID) == "" {
		return "", ErrMissingTrip
	}
	if sheet.Empty() || sheet.Date == "" {
		return "", ErrEmptySheet
	}
	date, err := time.Parse(dateLayout, sheet.Date)
	if err != nil {
		return "", fmt.Errorf("parse sheet date %q: %w", sheet.Date, err)
	}

	path, lines, state, err := w.loadSection(ctx, tripID, date)
	if err != nil {
		return "", err
	}

	block := formatSection(tripID, date, sheet)
	if state == nil {
		if needsSeparation(lines) {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	} else {
		lines = replaceLines(lines, state.start, state.end, block)
	}

	return path, writeLines(path, lines)
}

// Remove deletes the archived section for a trip and date.
func (w *Writer) Remove(ctx context.Context, tripID string, date time.Time) error {
	if !w.manager.MonthExists(date) {
		return ErrSectionNotFound
	}
	path, lines, state, err := w.loadSection(ctx, tripID, date)
	if err != nil {
		return err
	}
	if state == nil {
		return ErrSectionNotFound
	}

	lines = replaceLines(lines, state.start, state.end, nil)
	return writeLines(path, trimTrailingBlank(lines))
}

// loadSection reads the month file and locates the section for tripID on date.
func (w *Writer) loadSection(ctx context.Context, tripID string, date time.Time) (string, []string, *sectionState, error) {
	if w == nil || w.manager == nil {
		return "", nil, nil, fmt.Errorf("writer not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return "", nil, nil, err
	}

	path, err := w.manager.EnsureMonthFile(date)
	if err != nil {
		return "", nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, err
	}

	lines := splitLines(string(data))
	heading := sectionHeading(tripID, date)

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}
	if start == -1 {
		return path, lines, nil, nil
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "## ") {
			end = i
			break
		}
	}

	return path, lines, &sectionState{start: start, end: end}, nil
}

type sectionState struct {
	start int
	end   int
}

func sectionHeading(tripID string, date time.Time) string {
	return fmt.Sprintf("## %s trip %s", date.Format(dateLayout), tripID)
}

// formatSection renders the heading, one line per row and a totals quote.
// The trailing blank line separates it from the next section.
func formatSection(tripID string, date time.Time, sheet hos.Sheet) []string {
	lines := make([]string, 0, len(sheet.Rows)+4)
	lines = append(lines, sectionHeading(tripID, date))
	for _, row := range sheet.Rows {
		lines = append(lines, formatRow(row))
	}
	lines = append(lines, "", formatTotals(sheet.Summary), "")
	return lines
}

func formatRow(row hos.Row) string {
	var builder strings.Builder
	builder.Grow(48 + len(row.Remarks))
	fmt.Fprintf(&builder, "- [%s] [%s - %s] %s", statusToken(row.Status), token(row.Start), token(row.End), row.Duration)
	if remarks := strings.Join(strings.Fields(row.Remarks), " "); remarks != "" {
		builder.WriteByte(' ')
		builder.WriteString(remarks)
	}
	return builder.String()
}

func formatTotals(summary hos.Summary) string {
	parts := make([]string, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		parts = append(parts, fmt.Sprintf("%s %s", line.Status.Label(), line.Total))
	}
	return fmt.Sprintf("> Totals: %s (day %s, work %s)", strings.Join(parts, ", "), summary.Day, summary.Work)
}

// statusToken keeps unknown statuses parseable by the entry pattern.
func statusToken(status hos.Status) string {
	value := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(strings.Join(strings.Fields(string(status)), "_")))
	if value == "" {
		return "unknown"
	}
	return value
}

func token(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t") {
		return "-"
	}
	return value
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	// Remove the trailing empty element produced by Split when the input ends with a newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func needsSeparation(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) != ""
}

func replaceLines(lines []string, start, end int, block []string) []string {
	out := make([]string, 0, len(lines)-(end-start)+len(block))
	out = append(out, lines[:start]...)
	out = append(out, block...)
	return append(out, lines[end:]...)
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "logsheet-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	return os.Rename(temp.Name(), path)
}
