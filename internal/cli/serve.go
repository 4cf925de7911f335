package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/logsheet/internal/config"
	"github.com/faizmokh/logsheet/internal/version"
	"github.com/faizmokh/logsheet/internal/web"
)

func newServeCommand(ctx context.Context, rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := web.New(web.Config{
				Backend: rt.client,
				Planner: rt.planner(),
				Logger:  rt.logger,
				Addr:    rt.cfg.Listen,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard on http://%s (backend %s)\n", rt.cfg.Listen, rt.client.BaseURL())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String(config.KeyListen, "127.0.0.1:7430", "Address for the dashboard to listen on")
	cobra.CheckErr(rt.viper.BindPFlag(config.KeyListen, cmd.Flags().Lookup(config.KeyListen)))

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		// Skips config loading so version works with a broken config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "logsheet %s\n", version.Info())
			return nil
		},
	}
}
