package metrics

import (
	"net"
	"net/http"
	"time"

	"github.com/goodtune/qqhelper/internal/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Run metrics
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qqhelper_runs_total",
			Help: "Total dashboard update runs",
		},
		[]string{"result"},
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qqhelper_run_duration_seconds",
			Help:    "Dashboard update duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// Account metrics
	Accounts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qqhelper_accounts",
			Help: "Eligible accounts by computed state in the last run",
		},
		[]string{"state"},
	)

	AccountsExcluded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "qqhelper_accounts_excluded",
			Help: "Roster rows excluded in the last run",
		},
	)

	SessionsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qqhelper_sessions_skipped_total",
			Help: "Session rows skipped because their start could not be resolved",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(
		RunsTotal,
		RunDuration,
		Accounts,
		AccountsExcluded,
		SessionsSkipped,
	)
}

// ObserveRun records the outcome of one update run
func ObserveRun(err error, elapsed time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	RunsTotal.WithLabelValues(result).Inc()
	RunDuration.Observe(elapsed.Seconds())
}

// ObserveSummary records the account counts of a successful evaluation
func ObserveSummary(s status.Summary) {
	for _, state := range status.States {
		Accounts.WithLabelValues(string(state)).Set(float64(s.ByState[state]))
	}
	AccountsExcluded.Set(float64(s.Excluded))
	SessionsSkipped.Add(float64(s.SkippedSessions))
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Handler returns the HTTP handler serving /metrics and /health
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Debug().Msg("Using systemd socket-activated metrics listener")
			err = s.server.Serve(s.listener)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
