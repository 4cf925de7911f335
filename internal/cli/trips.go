package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/planner"
)

func newTripsCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List trips known to the backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			trips, err := rt.client.ListTrips(ctx)
			if err != nil {
				return err
			}
			if done, err := emit(cmd.OutOrStdout(), output, trips); done {
				return err
			}
			return printTrips(cmd.OutOrStdout(), trips)
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func newTripCommand(ctx context.Context, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Show, plan, update or delete a trip.",
	}

	cmd.AddCommand(
		newTripShowCommand(ctx, rt),
		newTripNewCommand(ctx, rt),
		newTripUpdateCommand(ctx, rt),
		newTripDeleteCommand(ctx, rt),
	)
	return cmd
}

func newTripShowCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Print a trip and its stops.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			trip, err := rt.client.GetTrip(ctx, args[0])
			if err != nil {
				return err
			}
			stops, err := rt.client.ListStops(ctx, args[0])
			if err != nil {
				return err
			}
			trip.Stops = stops

			if done, err := emit(cmd.OutOrStdout(), output, trip); done {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printTrip(out, trip); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printStops(out, stops)
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func newTripNewCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var req planner.Request

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Plan a trip from three addresses.",
		Long: "new geocodes the current, pickup and dropoff addresses in parallel and\n" +
			"creates the trip. Cycle hours already used must be between 0 and 70.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trip, err := rt.planner().Plan(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s: %s\n", trip.ID, trip.Title())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Current, "current", "", "Current location address")
	cmd.Flags().StringVar(&req.Pickup, "pickup", "", "Pickup location address")
	cmd.Flags().StringVar(&req.Dropoff, "dropoff", "", "Dropoff location address")
	cmd.Flags().Float64Var(&req.CycleHours, "cycle-hours", 0, "Hours already used in the 70-hour cycle")

	return cmd
}

func newTripUpdateCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var (
		amendment  planner.Amendment
		cycleHours float64
		status     string
	)

	cmd := &cobra.Command{
		Use:   "update <trip-id>",
		Short: "Change a trip's addresses, cycle hours or status.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("cycle-hours") {
				amendment.CycleHours = &cycleHours
			}
			amendment.Status = api.TripStatus(status)

			trip, err := rt.client.GetTrip(ctx, args[0])
			if err != nil {
				return err
			}
			input, err := rt.planner().Amend(ctx, api.InputFrom(trip), amendment)
			if err != nil {
				return err
			}
			updated, err := rt.client.UpdateTrip(ctx, args[0], input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated trip %s: %s (%s)\n", updated.ID, updated.Title(), updated.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&amendment.Current, "current", "", "New current location address")
	cmd.Flags().StringVar(&amendment.Pickup, "pickup", "", "New pickup location address")
	cmd.Flags().StringVar(&amendment.Dropoff, "dropoff", "", "New dropoff location address")
	cmd.Flags().Float64Var(&cycleHours, "cycle-hours", 0, "Hours already used in the 70-hour cycle")
	cmd.Flags().StringVar(&status, "status", "", "planned, in_progress or completed")

	return cmd
}

func newTripDeleteCommand(ctx context.Context, rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip with its stops and log entries.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.client.DeleteTrip(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s\n", args[0])
			return nil
		},
	}
}
