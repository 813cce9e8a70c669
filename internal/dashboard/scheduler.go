package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler repeats dashboard updates on a fixed interval. Runs never
// overlap: the next wait starts only after the previous run returned.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	onRun    func(*Result, error)
	logger   zerolog.Logger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler. onRun, when set, observes each outcome.
func NewScheduler(runner *Runner, interval time.Duration, onRun func(*Result, error), logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		onRun:    onRun,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the update loop. The first run happens immediately.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Dashboard scheduler started")
}

// Stop stops the loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	<-s.done
	s.logger.Info().Msg("Dashboard scheduler stopped")
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		res, err := s.runner.Run(ctx)
		if s.onRun != nil {
			s.onRun(res, err)
		}

		next := time.Now().Add(s.interval)
		s.logger.Debug().
			Time("next_run", next).
			Dur("wait_duration", s.interval).
			Msg("Scheduled next update")

		timer := time.NewTimer(s.interval)
		select {
		case <-timer.C:
		case <-s.stopChan:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
