// Package dashboard ties one update run together: load both sheets,
// evaluate every account, build the tables and render them.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/metrics"
	"github.com/goodtune/qqhelper/internal/notify"
	"github.com/goodtune/qqhelper/internal/render"
	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/sheet"
	"github.com/goodtune/qqhelper/internal/status"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// MissingSheetsError is returned when the roster or the session log is absent.
type MissingSheetsError struct {
	Accounts string
	Log      string
	Err      error
}

func (e *MissingSheetsError) Error() string {
	return fmt.Sprintf("Не найдены листы %s или %s!", e.Accounts, e.Log)
}

func (e *MissingSheetsError) Unwrap() error {
	return e.Err
}

// Options carries the collaborators of a Runner.
type Options struct {
	Source   sheet.Source
	Engine   *status.Engine
	Builder  *report.Builder
	Renderer render.Renderer
	Notifier *notify.Notifier
	Clock    status.Clock
}

// Result describes a completed run.
type Result struct {
	Report  report.Report
	Summary status.Summary
	Views   []status.View
}

// Runner performs dashboard updates.
type Runner struct {
	cfg    *config.Config
	opts   Options
	logger zerolog.Logger
}

// NewRunner creates a runner. A nil clock uses the system time.
func NewRunner(cfg *config.Config, opts Options, logger zerolog.Logger) *Runner {
	if opts.Clock == nil {
		opts.Clock = status.RealClock{}
	}
	return &Runner{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With().Str("component", "dashboard").Logger(),
	}
}

// Run performs one update. Nothing is rendered unless every table was built.
// A panic inside the run is recovered and reported as an error.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = errors.Errorf("panic during update: %v", p)
		}
		metrics.ObserveRun(err, time.Since(start))
		if r.opts.Notifier == nil {
			return
		}
		if err != nil {
			r.opts.Notifier.Failure(err)
		} else {
			r.opts.Notifier.Success()
		}
	}()

	res, err = r.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.opts.Renderer.Render(ctx, res.Report); err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.ObserveSummary(res.Summary)
	r.logger.Info().
		Int("accounts", res.Summary.Accounts).
		Int("excluded", res.Summary.Excluded).
		Int("sessions_skipped", res.Summary.SkippedSessions).
		Dur("elapsed", time.Since(start)).
		Msg("Dashboard updated")

	return res, nil
}

// Evaluate loads both sheets and builds the report without rendering it.
func (r *Runner) Evaluate(ctx context.Context) (*Result, error) {
	roster, logSheet, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	now := r.opts.Clock.Now()
	views, summary := r.opts.Engine.Evaluate(roster, logSheet, now)
	rep := r.opts.Builder.Build(views, now)

	return &Result{Report: rep, Summary: summary, Views: views}, nil
}

func (r *Runner) load(ctx context.Context) (*sheet.Table, *sheet.Table, error) {
	names := r.cfg.Sheets

	roster, rosterErr := r.opts.Source.Table(ctx, names.Accounts)
	logSheet, logErr := r.opts.Source.Table(ctx, names.Log)

	for _, err := range []error{rosterErr, logErr} {
		if errors.Is(err, sheet.ErrSheetNotFound) {
			return nil, nil, errors.WithStack(&MissingSheetsError{Accounts: names.Accounts, Log: names.Log, Err: err})
		}
	}
	if rosterErr != nil {
		return nil, nil, errors.Wrap(rosterErr, "failed to load roster")
	}
	if logErr != nil {
		return nil, nil, errors.Wrap(logErr, "failed to load session log")
	}

	r.logger.Debug().
		Int("roster_rows", len(roster.Rows)).
		Int("log_rows", len(logSheet.Rows)).
		Msg("Sheets loaded")

	return roster, logSheet, nil
}
