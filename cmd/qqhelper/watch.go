package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/dashboard"
	"github.com/goodtune/qqhelper/internal/metrics"
	"github.com/goodtune/qqhelper/internal/systemd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the dashboard on an interval",
	Long: `Run updates repeatedly at watch.interval until interrupted. Runs never overlap.
A metrics endpoint is served while watching, and systemd is notified when running
as a notify service.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting QQ Helper watcher")

	// Check for systemd socket activation
	sdListeners, err := systemd.GetListeners()
	if err != nil {
		return fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if sdListeners.Activated {
		logger.Info().Msg("Running with systemd socket activation")
	}

	renderer, closeRenderer, err := openRenderer(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize output: %w", err)
	}
	defer closeRenderer()

	runner, err := newRunner(cfg, renderer, nil, logger)
	if err != nil {
		return err
	}

	// Initialize Metrics Server
	var metricsServer *metrics.Server
	if cfg.Metrics.Listen != "" || sdListeners.Metrics != nil {
		metricsServer = metrics.NewServer(cfg.Metrics.Listen, logger)
		if sdListeners.Metrics != nil {
			metricsServer.SetListener(sdListeners.Metrics)
		}
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := dashboard.NewScheduler(runner, cfg.WatchInterval(), func(_ *dashboard.Result, err error) {
		state := "last update succeeded"
		if err != nil {
			state = "last update failed: " + err.Error()
		}
		if err := systemd.NotifyStatus(state); err != nil {
			logger.Warn().Err(err).Msg("Failed to notify systemd status")
		}
	}, logger)
	scheduler.Start(ctx)

	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd ready")
	}

	<-ctx.Done()
	logger.Info().Msg("Shutdown signal received, gracefully stopping...")

	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to notify systemd stopping")
	}

	scheduler.Stop()

	if metricsServer != nil {
		if err := metricsServer.Stop(); err != nil {
			logger.Error().Err(err).Msg("Error stopping metrics server")
		}
	}

	logger.Info().Msg("QQ Helper watcher stopped")
	return nil
}
