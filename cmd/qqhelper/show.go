package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/render"
	"github.com/goodtune/qqhelper/internal/storage"
	"github.com/goodtune/qqhelper/internal/storage/redis"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the report stored in Redis",
	Long:  `Load the last report written with output.type=redis and draw it on the terminal.`,
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := redis.Open(cfg.Storage.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	rep, err := store.Reports().Load(cmd.Context())
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no report stored under %q yet", cfg.Storage.Redis.KeyPrefix)
	}
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	return render.NewText(cmd.OutOrStdout(), cfg.Output.Color && !color.NoColor).Render(cmd.Context(), *rep)
}
