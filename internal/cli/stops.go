package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
)

func newStopsCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stops <trip-id>",
		Short: "List a trip's stops in route order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			stops, err := rt.client.ListStops(ctx, args[0])
			if err != nil {
				return err
			}
			if done, err := emit(cmd.OutOrStdout(), output, stops); done {
				return err
			}
			return printStops(cmd.OutOrStdout(), stops)
		},
	}
	addOutputFlag(cmd, &output)

	return cmd
}

func newStopCommand(ctx context.Context, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Manage individual stops.",
	}
	cmd.AddCommand(newStopAddCommand(ctx, rt))
	return cmd
}

func newStopAddCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var (
		typeFlag     string
		addressFlag  string
		orderFlag    int
		durationFlag string
		arrivalFlag  string
	)

	cmd := &cobra.Command{
		Use:   "add <trip-id>",
		Short: "Add a stop to a trip.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stopType, err := api.ParseStopType(typeFlag)
			if err != nil {
				return err
			}
			address := strings.TrimSpace(addressFlag)
			if address == "" {
				return fmt.Errorf("address is required")
			}

			input := api.StopInput{
				Trip:     hos.ID(args[0]),
				StopType: stopType,
				Status:   api.StopPlanned,
				Order:    orderFlag,
				Location: api.Location{
					Address:     address,
					Coordinates: rt.geocoder.Geocode(ctx, address),
				},
			}

			if durationFlag != "" {
				normalized, err := hos.ParseDuration(durationFlag).Normalize()
				if err != nil {
					return fmt.Errorf("parse duration: %w", err)
				}
				input.Duration = fmt.Sprintf("%02d:%02d:00", normalized.Hours, normalized.Minutes)
			}
			if arrivalFlag != "" {
				arrival, err := time.Parse(time.RFC3339, arrivalFlag)
				if err != nil {
					return fmt.Errorf("parse arrival: %w", err)
				}
				input.ArrivalTime = &arrival
			}

			stop, err := rt.client.CreateStop(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s stop %d at %s\n", stop.StopType, stop.Order, stop.Location.Address)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "pickup, dropoff, rest or fueling")
	cmd.Flags().StringVar(&addressFlag, "address", "", "Stop address")
	cmd.Flags().IntVar(&orderFlag, "order", 1, "Position along the route")
	cmd.Flags().StringVar(&durationFlag, "duration", "", "Planned duration as HH:MM:SS or seconds")
	cmd.Flags().StringVar(&arrivalFlag, "arrival", "", "Arrival time in RFC 3339")

	return cmd
}
