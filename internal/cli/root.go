package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/faizmokh/logsheet/internal/config"
	"github.com/faizmokh/logsheet/internal/logbook"
	"github.com/faizmokh/logsheet/internal/logging"
	"github.com/faizmokh/logsheet/internal/ui"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context) *cobra.Command {
	return newRootCommand(ctx, &runtime{viper: viper.New()})
}

func newRootCommand(ctx context.Context, rt *runtime) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "logsheet [trip-id]",
		Short: "Review and archive hours-of-service daily logs from your terminal.",
		Long: "logsheet renders driver daily logs from the trip planning backend.\n" +
			"Run it with a trip ID to open the interactive log sheet viewer.",
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runViewer(ctx, rt, args[0], dateFlag)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "Config file (default: $HOME/.logsheet.yaml)")
	cobra.CheckErr(config.RegisterFlags(rt.viper, cmd.PersistentFlags()))
	cmd.Flags().StringVar(&dateFlag, "date", "", "Date to open in YYYY-MM-DD (default: first logged day)")

	cmd.AddCommand(
		newTripsCommand(ctx, rt),
		newTripCommand(ctx, rt),
		newStopsCommand(ctx, rt),
		newStopCommand(ctx, rt),
		newLogsCommand(ctx, rt),
		newGenerateCommand(ctx, rt),
		newRouteCommand(ctx, rt),
		newValidateCommand(ctx, rt),
		newExportCommand(ctx, rt),
		newServeCommand(ctx, rt),
		newVersionCommand(),
	)

	return cmd
}

// runViewer opens the TUI. Logs go to the data directory so they do not
// draw over the terminal.
func runViewer(ctx context.Context, rt *runtime, tripID, date string) error {
	logFile, err := rt.manager.OpenLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := logging.New(logFile, rt.cfg.LogLevel, "json")
	if err != nil {
		return err
	}
	client, err := rt.newClient(logger)
	if err != nil {
		return err
	}

	m := ui.NewModel(ctx, ui.Options{
		TripID:   tripID,
		Date:     date,
		Backend:  client,
		Exporter: logbook.NewWriter(rt.manager),
		Logger:   logger,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	return NewRootCommand(ctx).ExecuteContext(ctx)
}

// Main is a helper used by cmd/logsheet/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
