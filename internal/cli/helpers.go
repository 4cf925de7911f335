package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
	"github.com/faizmokh/logsheet/internal/ui"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

const graphCells = 48

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", outputText, "Output format: text, json or yaml")
}

func checkOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("invalid output %q (expected text|json|yaml)", format)
}

// emit writes value as JSON or YAML. It reports false for text output so the
// caller can print its own rendering.
func emit(w io.Writer, format string, value any) (bool, error) {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(value)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().In(time.Local)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

func optionalDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return time.Time{}, nil
	}
	return resolveDate(dateFlag)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func statusLabel(renderer *lipgloss.Renderer, status hos.Status) string {
	colors := map[hos.Status]lipgloss.Color{
		hos.StatusOffDuty: lipgloss.Color("245"),
		hos.StatusSleeper: lipgloss.Color("63"),
		hos.StatusDriving: lipgloss.Color("41"),
		hos.StatusOnDuty:  lipgloss.Color("214"),
	}
	label := status.Label()
	color, ok := colors[status]
	if !ok {
		return label
	}
	return renderer.NewStyle().Foreground(color).Render(label)
}

func printTrips(w io.Writer, trips []api.Trip) error {
	if len(trips) == 0 {
		fmt.Fprintln(w, "No trips")
		return nil
	}
	writer := newTabWriter(w)
	fmt.Fprintln(writer, "ID\tSTATUS\tCYCLE\tDISTANCE\tROUTE")
	for _, trip := range trips {
		fmt.Fprintf(writer, "%s\t%s\t%.1f\t%s\t%s\n", trip.ID, trip.Status, trip.CurrentCycleHours, miles(trip.EstimatedDistance), trip.Title())
	}
	return writer.Flush()
}

func printTrip(w io.Writer, trip api.Trip) error {
	writer := newTabWriter(w)
	fmt.Fprintf(writer, "Trip\t%s\n", trip.ID)
	fmt.Fprintf(writer, "Status\t%s\n", trip.Status)
	fmt.Fprintf(writer, "Current\t%s\t%s\n", trip.CurrentLocation.Address, trip.CurrentLocation.Coordinates)
	fmt.Fprintf(writer, "Pickup\t%s\t%s\n", trip.PickupLocation.Address, trip.PickupLocation.Coordinates)
	fmt.Fprintf(writer, "Dropoff\t%s\t%s\n", trip.DropoffLocation.Address, trip.DropoffLocation.Coordinates)
	fmt.Fprintf(writer, "Cycle hours\t%.1f\n", trip.CurrentCycleHours)
	fmt.Fprintf(writer, "Distance\t%s\n", miles(trip.EstimatedDistance))
	if trip.EstimatedDuration != nil {
		fmt.Fprintf(writer, "Duration\t%.1f h\n", *trip.EstimatedDuration)
	}
	return writer.Flush()
}

func printStops(w io.Writer, stops []api.Stop) error {
	if len(stops) == 0 {
		fmt.Fprintln(w, "No stops")
		return nil
	}
	writer := newTabWriter(w)
	fmt.Fprintln(writer, "#\tTYPE\tSTATUS\tDURATION\tLOCATION")
	for _, stop := range stops {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n", stop.Order, stop.StopType, stop.Status, stopDuration(stop.Duration), stop.Location.Address)
	}
	return writer.Flush()
}

func printSheet(w io.Writer, tripID string, sheet hos.Sheet) error {
	if sheet.Empty() {
		fmt.Fprintf(w, "No log entries for trip %s\n", tripID)
		return nil
	}

	renderer := lipgloss.NewRenderer(w)
	fmt.Fprintf(w, "Trip %s  %s\n", tripID, sheet.Date)
	if len(sheet.Dates) > 1 {
		fmt.Fprintf(w, "Dates: %s\n", strings.Join(sheet.Dates, ", "))
	}
	fmt.Fprintln(w)

	for _, line := range ui.PlainGraph(sheet, graphCells) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	writer := newTabWriter(w)
	fmt.Fprintln(writer, "STATUS\tSTART\tEND\tDURATION\tREMARKS")
	for _, row := range sheet.Rows {
		remarks := row.Remarks
		if !row.Drawn {
			remarks = strings.TrimSpace("(not drawn) " + remarks)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n", statusLabel(renderer, row.Status), row.Start, row.End, row.Duration, remarks)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	for _, line := range sheet.Summary.Lines {
		fmt.Fprintf(w, "%-9s %s\n", line.Status.Label(), line.Total)
	}
	fmt.Fprintf(w, "%-9s %s\n", "total", sheet.Summary.Day)
	fmt.Fprintf(w, "%-9s %s\n", "work", sheet.Summary.Work)
	return nil
}

func miles(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f mi", *value)
}

func stopDuration(d hos.Duration) string {
	normalized, err := d.Normalize()
	if err != nil {
		return "-"
	}
	return normalized.String()
}
