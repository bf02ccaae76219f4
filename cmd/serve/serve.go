// Package serve implements the command that runs the mosaic HTTP service.
package serve

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/datacube/mosaic-go/internal/api"
	"github.com/datacube/mosaic-go/internal/conf"
	"github.com/datacube/mosaic-go/internal/datastore"
	"github.com/datacube/mosaic-go/internal/errors"
	"github.com/datacube/mosaic-go/internal/logging"
	"github.com/datacube/mosaic-go/internal/mosaic"
	"github.com/datacube/mosaic-go/internal/observability"
)

// Command creates the serve command which runs the HTTP API until interrupted.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the mosaic HTTP service",
		Long:  "Start the HTTP API for submitting and inspecting custom mosaic queries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port for the HTTP API")
	cmd.Flags().BoolVar(&settings.Telemetry.Enabled, "telemetry", viper.GetBool("telemetry.enabled"), "Enable Prometheus telemetry endpoint")
	cmd.Flags().StringVar(&settings.Telemetry.Listen, "listen", viper.GetString("telemetry.listen"), "Listen address and port of telemetry endpoint")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

// runServe wires the datastore, resolver, metrics and HTTP server together
// and blocks until a shutdown signal arrives.
func runServe(settings *conf.Settings) error {
	initTelemetryReporting(settings)

	store := datastore.New(settings)
	if store == nil {
		return fmt.Errorf("no database output enabled in settings")
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	cacheTTL := time.Duration(settings.Mosaic.LookupCacheTTL) * time.Minute
	resolver := mosaic.NewResolver(store, cacheTTL, metrics.Mosaic)

	var wg sync.WaitGroup
	quit := make(chan struct{})

	if settings.Telemetry.Enabled {
		endpoint, err := observability.NewEndpoint(settings, metrics)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry endpoint: %w", err)
		}
		endpoint.Start(&wg, quit)
	}

	server, err := api.New(settings,
		api.WithDataStore(store),
		api.WithResolver(resolver),
		api.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	err = server.StartWithGracefulShutdown()

	close(quit)
	wg.Wait()

	return err
}

// initTelemetryReporting configures Sentry error reporting when enabled.
func initTelemetryReporting(settings *conf.Settings) {
	if !settings.Sentry.Enabled {
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:     settings.Sentry.DSN,
		Release: settings.Version,
	}); err != nil {
		logging.Warn("failed to initialize Sentry, error reporting disabled", "error", err)
		return
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	logging.Info("Sentry error reporting enabled")
}
