package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/logsheet/internal/hos"
	"github.com/faizmokh/logsheet/internal/logbook"
)

// ErrTripInvalid is returned by validate --strict when the backend reports violations.
var ErrTripInvalid = errors.New("trip failed hours-of-service validation")

func newLogsCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var (
		dateFlag string
		output   string
		offline  bool
		fromFlag string
		toFlag   string
	)

	cmd := &cobra.Command{
		Use:   "logs <trip-id>",
		Short: "Render a trip's daily log sheet.",
		Long: "logs draws the duty graph, entries and totals for one day of a trip.\n" +
			"With --offline the sheet is read back from exported archives instead of the backend.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			tripID := args[0]

			var (
				entries []hos.LogEntry
				err     error
			)
			if offline {
				entries, err = archivedEntries(ctx, rt, tripID, fromFlag, toFlag)
			} else {
				entries, err = rt.client.ListLogEntries(ctx, tripID)
			}
			if err != nil {
				return err
			}

			sheet := hos.BuildSheet(entries, dateFlag)
			logSkipped(rt, tripID, sheet)

			if done, err := emit(cmd.OutOrStdout(), output, sheet); done {
				return err
			}
			return printSheet(cmd.OutOrStdout(), tripID, sheet)
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Day to render in YYYY-MM-DD (default: first logged day)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Read exported sheets instead of calling the backend")
	cmd.Flags().StringVar(&fromFlag, "from", "", "With --offline, first archived day to read")
	cmd.Flags().StringVar(&toFlag, "to", "", "With --offline, last archived day to read")
	addOutputFlag(cmd, &output)

	return cmd
}

func archivedEntries(ctx context.Context, rt *runtime, tripID, fromFlag, toFlag string) ([]hos.LogEntry, error) {
	from, err := optionalDate(fromFlag)
	if err != nil {
		return nil, err
	}
	to, err := optionalDate(toFlag)
	if err != nil {
		return nil, err
	}
	return logbook.NewReader(rt.manager).Entries(ctx, tripID, from, to)
}

func logSkipped(rt *runtime, tripID string, sheet hos.Sheet) {
	for _, skipped := range sheet.Skipped {
		rt.logger.Warn("entry not drawn", "trip", tripID, "date", sheet.Date, "index", skipped.Index, "reason", skipped.Err)
	}
}

func newGenerateCommand(ctx context.Context, rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <trip-id>",
		Short: "Ask the backend to rebuild a trip's log entries.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rt.client.GenerateLogs(ctx, args[0])
			if err != nil {
				return err
			}
			dates := hos.GroupByDate(result.Logs).Dates
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d log entries across %d days for trip %s\n", len(result.Logs), len(dates), args[0])
			return nil
		},
	}
}

func newRouteCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "route <trip-id>",
		Short: "Calculate a trip's route and store its estimates.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			result, err := rt.client.CalculateRoute(ctx, args[0])
			if err != nil {
				return err
			}
			if done, err := emit(cmd.OutOrStdout(), output, result.RouteData); done {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Route for trip %s: %.1f mi, %.1f h\n", args[0], result.RouteData.Miles(), result.RouteData.Hours())
			return nil
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func newValidateCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <trip-id>",
		Short: "Check a trip against hours-of-service limits.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validation, err := rt.client.ValidateTrip(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if validation.IsValid {
				fmt.Fprintf(out, "Trip %s is within limits\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Trip %s has %d warnings\n", args[0], len(validation.Warnings))
			for _, warning := range validation.Warnings {
				fmt.Fprintf(out, "- %s\n", warning)
			}
			if strict {
				return ErrTripInvalid
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the trip has warnings")

	return cmd
}

func newExportCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var (
		dateFlag string
		remove   bool
	)

	cmd := &cobra.Command{
		Use:   "export <trip-id>",
		Short: "Archive a day's log sheet as Markdown in the data directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := args[0]
			writer := logbook.NewWriter(rt.manager)

			if remove {
				if dateFlag == "" {
					return fmt.Errorf("--remove requires --date")
				}
				date, err := resolveDate(dateFlag)
				if err != nil {
					return err
				}
				if err := writer.Remove(ctx, tripID, date); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s for trip %s\n", dateFlag, tripID)
				return nil
			}

			requested, err := optionalDate(dateFlag)
			if err != nil {
				return err
			}
			entries, err := rt.client.ListLogEntries(ctx, tripID)
			if err != nil {
				return err
			}
			sheet := hos.BuildSheet(entries, dateFlag)
			if !requested.IsZero() && sheet.Date != requested.Format("2006-01-02") {
				return fmt.Errorf("trip %s has no log entries on %s", tripID, dateFlag)
			}
			logSkipped(rt, tripID, sheet)

			path, err := writer.Save(ctx, tripID, sheet)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s for trip %s to %s\n", sheet.Date, tripID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Day to export in YYYY-MM-DD (default: first logged day)")
	cmd.Flags().BoolVar(&remove, "remove", false, "Delete the archived sheet for --date instead")

	return cmd
}
