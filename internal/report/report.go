// Package report partitions account views into the dashboard tables.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/status"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ID identifies a dashboard table.
type ID string

const (
	Main      ID = "main"
	Ready     ID = "ready"
	InPlay    ID = "in_play"
	Attention ID = "attention"
)

// NoData marks a table without rows.
const NoData = "Нет данных"

const accountColumn = "Аккаунт (комплект)"

// Table is a titled grid handed to a renderer.
type Table struct {
	ID          ID
	Title       string
	Header      []string
	Rows        [][]string
	Placeholder string // NoData when Rows is empty
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Report is the full set of tables from one run.
type Report struct {
	GeneratedAt time.Time
	Tables      []Table
}

// Table returns the table with the given id.
func (r Report) Table(id ID) (Table, bool) {
	for _, t := range r.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// Builder builds reports from account views.
type Builder struct {
	collator        *collate.Collator
	readyStatus     string
	attentionStatus string
}

// NewBuilder creates a builder. An empty report.collation orders equipment
// tags bytewise; otherwise the tag selects a locale collation.
func NewBuilder(cfg *config.Config) *Builder {
	b := &Builder{
		readyStatus:     cfg.Status.ReadyStatus,
		attentionStatus: cfg.Status.AttentionStatus,
	}
	if cfg.Report.Collation != "" {
		b.collator = collate.New(language.Make(cfg.Report.Collation))
	}
	return b
}

// Build sorts views by komplekt and emits the four dashboard tables: every
// classified account, rested accounts ready to launch, accounts in play, and
// accounts flagged for attention.
func (b *Builder) Build(views []status.View, now time.Time) Report {
	sorted := make([]status.View, len(views))
	copy(sorted, views)
	sort.SliceStable(sorted, func(i, j int) bool {
		return b.compare(sorted[i].Komplekt, sorted[j].Komplekt) < 0
	})

	all := Table{
		ID:     Main,
		Title:  "1. Основная таблица",
		Header: []string{accountColumn, "Статус", "Время паузы", "Статус состояния"},
	}
	ready := Table{
		ID:     Ready,
		Title:  "2. Готовы к запуску",
		Header: []string{accountColumn, "Время паузы"},
	}
	inPlay := Table{
		ID:     InPlay,
		Title:  "3. В игре",
		Header: []string{accountColumn, "Время в игре"},
	}
	attention := Table{
		ID:     Attention,
		Title:  "4. Обратить внимание",
		Header: []string{accountColumn, "Статус"},
	}

	for _, v := range sorted {
		label := v.Label()

		if v.Computed != status.StateUnknown {
			all.Rows = append(all.Rows, []string{label, v.Status, v.PauseTime, string(v.Computed)})
		}
		if strings.EqualFold(v.Status, b.readyStatus) && v.Computed == status.StateRested {
			ready.Rows = append(ready.Rows, []string{label, v.PauseTime})
		}
		if v.InGame {
			inPlay.Rows = append(inPlay.Rows, []string{label, v.InPlayTime})
		}
		if strings.EqualFold(v.Status, b.attentionStatus) {
			attention.Rows = append(attention.Rows, []string{label, v.Status})
		}
	}

	tables := []Table{all, ready, inPlay, attention}
	for i := range tables {
		if tables[i].Empty() {
			tables[i].Placeholder = NoData
		}
	}

	return Report{GeneratedAt: now, Tables: tables}
}

func (b *Builder) compare(a, c string) int {
	if b.collator != nil {
		return b.collator.CompareString(a, c)
	}
	return strings.Compare(a, c)
}
