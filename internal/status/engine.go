package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/header"
	"github.com/goodtune/qqhelper/internal/session"
	"github.com/goodtune/qqhelper/internal/sheet"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
)

// Account is one roster row.
type Account struct {
	Nickname string
	Set      string
	BrainID  string
	Status   string
}

// Eligible reports whether the account takes part in processing. A brain id
// is required unless the account belongs to the sentinel set.
func (a Account) Eligible(sentinelSet string) bool {
	if a.Nickname == "" {
		return false
	}
	return a.BrainID != "" || strings.EqualFold(a.Set, sentinelSet)
}

// View is the computed status of one account.
type View struct {
	Nick       string
	Komplekt   string
	Status     string
	Computed   State
	InGame     bool
	PauseTime  string
	InPlayTime string
	Latest     *session.Resolved
}

// Label renders the account as "nick (komplekt)".
func (v View) Label() string {
	return fmt.Sprintf("%s (%s)", v.Nick, v.Komplekt)
}

// Summary counts what a single evaluation saw.
type Summary struct {
	Accounts        int
	Excluded        int
	SkippedSessions int
	ByState         map[State]int
}

// Engine evaluates every roster account against the session log.
type Engine struct {
	resolver      *header.Resolver
	parser        session.Parser
	rowLimit      int
	sentinelSet   string
	restThreshold time.Duration
	logger        zerolog.Logger
}

// NewEngine creates an engine from the configuration.
func NewEngine(cfg *config.Config, parser session.Parser, logger zerolog.Logger) *Engine {
	return &Engine{
		resolver:      header.NewResolver(cfg.Headers.Synonyms),
		parser:        parser,
		rowLimit:      cfg.Accounts.RowLimit,
		sentinelSet:   cfg.Accounts.SentinelSet,
		restThreshold: cfg.RestThreshold(),
		logger:        logger.With().Str("component", "status").Logger(),
	}
}

// Evaluate reads the roster and session log and classifies each eligible
// account at now. Views follow roster order.
func (e *Engine) Evaluate(roster, log *sheet.Table, now time.Time) ([]View, Summary) {
	accCols := e.resolver.Resolve(roster.Header)
	logCols := e.resolver.Resolve(log.Header)

	index := session.BuildIndex(log.Rows, logCols)

	rows := roster.Rows
	if len(rows) > e.rowLimit {
		rows = rows[:e.rowLimit]
	}

	summary := Summary{ByState: make(map[State]int, len(States))}
	views := make([]View, 0, len(rows))

	for i, row := range rows {
		acc := Account{
			Nickname: accCols.Text(row, config.FieldAccountNickname),
			Set:      accCols.Text(row, config.FieldAccountSet),
			BrainID:  accCols.Text(row, config.FieldBrainID),
			Status:   accCols.Text(row, config.FieldAccountStatus),
		}
		if !acc.Eligible(e.sentinelSet) {
			if !blankRow(row) {
				e.logger.Debug().
					Int("row", i+2).
					Str("nick", acc.Nickname).
					Msg("Skipping incomplete account row")
				summary.Excluded++
			}
			continue
		}

		latest, skipped := session.Latest(index.Records(acc.Nickname), e.parser)
		summary.SkippedSessions += skipped

		c := Classify(latest, now, e.restThreshold)
		summary.ByState[c.State]++

		views = append(views, View{
			Nick:       acc.Nickname,
			Komplekt:   acc.Set,
			Status:     acc.Status,
			Computed:   c.State,
			InGame:     c.InGame,
			PauseTime:  c.PauseTime,
			InPlayTime: c.InPlayTime,
			Latest:     latest,
		})
	}

	summary.Accounts = len(views)
	return views, summary
}

func blankRow(row []any) bool {
	for _, cell := range row {
		if strings.TrimSpace(cast.ToString(cell)) != "" {
			return false
		}
	}
	return true
}
