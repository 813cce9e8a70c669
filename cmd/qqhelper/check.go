package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/status"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	checkDate string
	checkTime string
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] NICK",
	Short: "Check the computed status of one account",
	Long:  `Show how QQ Helper classifies a single account, optionally at another point in time.`,
	Example: `  qqhelper -c qqhelper.yaml check Alice
  qqhelper check --date 01.03.2024 --time 18:30 Alice`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDate, "date", "", "Date (DD.MM.YYYY) - defaults to today")
	checkCmd.Flags().StringVar(&checkTime, "time", "", "Time of day (HH:MM) - defaults to current time")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	nick := args[0]

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	// Parse time (if provided)
	at, err := parseCheckTime(checkDate, checkTime, time.Now().In(loc))
	if err != nil {
		return fmt.Errorf("invalid time specification: %w", err)
	}

	// Create a quiet logger for check mode
	logger := zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()

	runner, err := newRunner(cfg, nil, status.FixedClock{At: at}, logger)
	if err != nil {
		return err
	}

	res, err := runner.Evaluate(cmd.Context())
	if err != nil {
		return err
	}

	for _, v := range res.Views {
		if v.Nick == nick {
			printCheckResult(cmd.OutOrStdout(), v, at, cfg.RestThreshold())
			return nil
		}
	}
	return fmt.Errorf("account %s is not an eligible roster account", nick)
}

// parseCheckTime combines optional date and time flags with now
func parseCheckTime(date, clock string, now time.Time) (time.Time, error) {
	loc := now.Location()
	at := now

	if date != "" {
		day, err := time.ParseInLocation("02.01.2006", date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q (expected DD.MM.YYYY)", date)
		}
		at = time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), at.Second(), 0, loc)
	}

	if clock != "" {
		t, err := time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", clock)
		}
		at = time.Date(at.Year(), at.Month(), at.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	}

	return at, nil
}

// printCheckResult prints the classification with colors
func printCheckResult(w io.Writer, v status.View, at time.Time, threshold time.Duration) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	cyan.Fprintln(w, "ACCOUNT STATUS CHECK")
	cyan.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Account:    %s\n", v.Label())
	fmt.Fprintf(w, "Status:     %s\n", v.Status)
	fmt.Fprintf(w, "Checked at: %s\n", at.Format("02.01.2006 15:04"))
	fmt.Fprintln(w)

	if v.Latest != nil {
		fmt.Fprintf(w, "Session:    started %s\n", v.Latest.Start.Format("02.01.2006 15:04"))
		if v.Latest.End != nil {
			fmt.Fprintf(w, "            ended   %s\n", v.Latest.End.Format("02.01.2006 15:04"))
		} else {
			fmt.Fprintln(w, "            still open")
		}
		if v.Latest.Limit != "" {
			fmt.Fprintf(w, "            limit   %s\n", v.Latest.Limit)
		}
		fmt.Fprintln(w)
	}

	cyan.Fprint(w, "Decision:   ")
	switch v.Computed {
	case status.StateRested:
		green.Fprintln(w, "RESTED")
		fmt.Fprintf(w, "            → Paused for %s (threshold %s)\n", v.PauseTime, threshold)
	case status.StatePaused:
		yellow.Fprintln(w, "PAUSED")
		fmt.Fprintf(w, "            → Paused for %s, rested after %s\n", v.PauseTime, threshold)
	case status.StateInPlay:
		red.Fprintln(w, "IN PLAY")
		fmt.Fprintf(w, "            → In game for %s\n", v.InPlayTime)
	default:
		yellow.Fprintln(w, "UNKNOWN")
		fmt.Fprintln(w, "            → No resolvable session in the log")
	}
	fmt.Fprintln(w)
}
