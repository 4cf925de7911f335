package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/config"
	"github.com/faizmokh/logsheet/internal/files"
	"github.com/faizmokh/logsheet/internal/geocode"
	"github.com/faizmokh/logsheet/internal/logging"
	"github.com/faizmokh/logsheet/internal/planner"
)

// runtime carries the resolved configuration and the clients built from it.
// It is filled in by the root command's PersistentPreRunE.
type runtime struct {
	viper   *viper.Viper
	cfgFile string

	// geocodeURL overrides the Mapbox endpoint.
	geocodeURL string

	cfg      config.Config
	logger   *slog.Logger
	client   *api.Client
	geocoder *geocode.Geocoder
	manager  *files.Manager
}

func (rt *runtime) init(cmd *cobra.Command) error {
	cfg, err := config.Load(rt.viper, rt.cfgFile)
	if err != nil {
		return err
	}
	rt.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	rt.logger = logger

	manager, err := files.NewManager(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}
	rt.manager = manager

	client, err := rt.newClient(logger)
	if err != nil {
		return err
	}
	rt.client = client

	rt.geocoder = geocode.New(geocode.Config{
		Token:   cfg.MapboxToken,
		BaseURL: rt.geocodeURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	return nil
}

func (rt *runtime) newClient(logger *slog.Logger) (*api.Client, error) {
	return api.NewClient(api.Config{
		BaseURL: rt.cfg.APIURL,
		Timeout: rt.cfg.Timeout,
		Logger:  logger,
	})
}

func (rt *runtime) planner() *planner.Planner {
	return planner.New(rt.geocoder, rt.client, rt.logger)
}
