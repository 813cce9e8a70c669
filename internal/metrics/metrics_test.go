package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goodtune/qqhelper/internal/status"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("failure"))

	ObserveRun(errors.New("boom"), 20*time.Millisecond)

	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("failure")); got != before+1 {
		t.Errorf("failure runs = %v, want %v", got, before+1)
	}
}

func TestObserveSummary(t *testing.T) {
	ObserveSummary(status.Summary{
		Accounts: 3,
		Excluded: 2,
		ByState: map[status.State]int{
			status.StateRested: 2,
			status.StateInPlay: 1,
		},
	})

	tests := []struct {
		state status.State
		want  float64
	}{
		{status.StateRested, 2},
		{status.StateInPlay, 1},
		{status.StatePaused, 0},
		{status.StateUnknown, 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(Accounts.WithLabelValues(string(tt.state))); got != tt.want {
			t.Errorf("accounts{state=%s} = %v, want %v", tt.state, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(AccountsExcluded); got != 2 {
		t.Errorf("excluded = %v, want 2", got)
	}
}

func TestServerHandler(t *testing.T) {
	srv := NewServer("127.0.0.1:0", zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("/health = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "qqhelper_runs_total") {
		t.Error("/metrics does not expose qqhelper_runs_total")
	}
}
