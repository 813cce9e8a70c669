package report

import (
	"testing"
	"time"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/status"
)

var now = time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)

func labels(t Table) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[0]
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_Partitions(t *testing.T) {
	views := []status.View{
		{Nick: "Carol", Komplekt: "B2", Status: "sla", Computed: status.StatePaused, PauseTime: "30 м"},
		{Nick: "Alice", Komplekt: "A1", Status: "Ready", Computed: status.StateRested, PauseTime: "8 ч 0 м"},
		{Nick: "Dave", Komplekt: "A1", Status: "ready", Computed: status.StateInPlay, InGame: true, InPlayTime: "1 ч 30 м"},
		{Nick: "Eve", Komplekt: "C3", Status: "SLA", Computed: status.StateUnknown},
	}

	r := NewBuilder(config.Default()).Build(views, now)

	if len(r.Tables) != 4 {
		t.Fatalf("tables = %d, want 4", len(r.Tables))
	}
	if !r.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v", r.GeneratedAt)
	}

	tests := []struct {
		id   ID
		want []string
	}{
		{Main, []string{"Alice (A1)", "Dave (A1)", "Carol (B2)"}},
		{Ready, []string{"Alice (A1)"}},
		{InPlay, []string{"Dave (A1)"}},
		{Attention, []string{"Carol (B2)", "Eve (C3)"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			table, ok := r.Table(tt.id)
			if !ok {
				t.Fatalf("table %s missing", tt.id)
			}
			if got := labels(table); !equal(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
			if table.Placeholder != "" {
				t.Errorf("Placeholder = %q on non-empty table", table.Placeholder)
			}
			for _, row := range table.Rows {
				if len(row) != len(table.Header) {
					t.Errorf("row %v does not match header width %d", row, len(table.Header))
				}
			}
		})
	}

	mainTable, _ := r.Table(Main)
	if got := mainTable.Rows[0]; !equal(got, []string{"Alice (A1)", "Ready", "8 ч 0 м", "rested"}) {
		t.Errorf("main row = %v", got)
	}
	inPlay, _ := r.Table(InPlay)
	if got := inPlay.Rows[0][1]; got != "1 ч 30 м" {
		t.Errorf("in-play time = %q", got)
	}
}

func TestBuild_EmptyTablesKeepPlaceholder(t *testing.T) {
	r := NewBuilder(config.Default()).Build(nil, now)

	if len(r.Tables) != 4 {
		t.Fatalf("tables = %d, want 4", len(r.Tables))
	}
	for _, table := range r.Tables {
		if !table.Empty() || table.Placeholder != NoData {
			t.Errorf("table %s: rows=%d placeholder=%q", table.ID, len(table.Rows), table.Placeholder)
		}
		if table.Title == "" || len(table.Header) == 0 {
			t.Errorf("table %s missing title or header", table.ID)
		}
	}
}

func TestBuild_StableSortKeepsRosterOrder(t *testing.T) {
	views := []status.View{
		{Nick: "Zed", Komplekt: "A1", Computed: status.StatePaused},
		{Nick: "Amy", Komplekt: "A1", Computed: status.StatePaused},
		{Nick: "Bob", Komplekt: "", Computed: status.StatePaused},
	}

	r := NewBuilder(config.Default()).Build(views, now)
	mainTable, _ := r.Table(Main)

	if got, want := labels(mainTable), []string{"Bob ()", "Zed (A1)", "Amy (A1)"}; !equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if views[0].Nick != "Zed" {
		t.Error("Build reordered the caller's slice")
	}
}

func TestBuild_Collation(t *testing.T) {
	views := []status.View{
		{Nick: "x", Komplekt: "б", Computed: status.StatePaused},
		{Nick: "y", Komplekt: "Б", Computed: status.StatePaused},
		{Nick: "z", Komplekt: "а", Computed: status.StatePaused},
	}

	cfg := config.Default()
	cfg.Report.Collation = "ru"
	r := NewBuilder(cfg).Build(views, now)
	mainTable, _ := r.Table(Main)

	got := labels(mainTable)
	if got[0] != "z (а)" {
		t.Errorf("collated order = %v, want а first", got)
	}

	// Bytewise, uppercase Cyrillic sorts before lowercase.
	bytewise, _ := NewBuilder(config.Default()).Build(views, now).Table(Main)
	if first := labels(bytewise)[0]; first != "y (Б)" {
		t.Errorf("bytewise order starts with %q, want y (Б)", first)
	}
}
