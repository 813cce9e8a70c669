package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/dashboard"
	"github.com/goodtune/qqhelper/internal/notify"
	"github.com/goodtune/qqhelper/internal/render"
	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/sheet"
	"github.com/goodtune/qqhelper/internal/status"
	"github.com/goodtune/qqhelper/internal/storage/redis"
	"github.com/goodtune/qqhelper/internal/timeparse"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rebuild the dashboard once",
	Long:  `Read both sheets, classify every account and redraw all dashboard tables.`,
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	renderer, closeRenderer, err := openRenderer(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize output: %w", err)
	}
	defer closeRenderer()

	runner, err := newRunner(cfg, renderer, nil, logger)
	if err != nil {
		return err
	}

	_, err = runner.Run(cmd.Context())
	return err
}

// newRunner wires the update pipeline. A nil clock uses the system time.
func newRunner(cfg *config.Config, renderer render.Renderer, clock status.Clock, logger zerolog.Logger) (*dashboard.Runner, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	parser := timeparse.New(loc, cfg.Parser.DateCacheSize)

	return dashboard.NewRunner(cfg, dashboard.Options{
		Source:   sheet.OpenWorkbook(cfg.Sheets.Dir, loc),
		Engine:   status.NewEngine(cfg, parser, logger),
		Builder:  report.NewBuilder(cfg),
		Renderer: renderer,
		Notifier: notify.New(cfg.Notify, logger),
		Clock:    clock,
	}, logger), nil
}

// openRenderer creates the configured output surface and its cleanup
func openRenderer(cfg *config.Config, stdout io.Writer) (render.Renderer, func(), error) {
	noop := func() {}

	switch cfg.Output.Type {
	case "console":
		return render.NewText(stdout, cfg.Output.Color && !color.NoColor), noop, nil
	case "file":
		return render.NewFile(cfg.ReportPath()), noop, nil
	case "redis":
		store, err := redis.Open(cfg.Storage.Redis)
		if err != nil {
			return nil, noop, err
		}
		closeStore := func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close storage")
			}
		}
		return render.NewStored(store.Reports()), closeStore, nil
	default:
		return nil, noop, fmt.Errorf("unsupported output type: %s", cfg.Output.Type)
	}
}
