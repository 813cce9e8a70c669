// Package session selects the most recent logged session per account.
package session

import (
	"strings"
	"time"

	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/header"
	"github.com/spf13/cast"
)

// Record is one raw row of the session log.
type Record struct {
	Nickname string
	Date     any
	Start    any
	End      any
	Limit    any
}

// Resolved is the selected session with parsed timestamps.
type Resolved struct {
	Start time.Time
	End   *time.Time // nil while the session is still open
	Limit string
}

// Open reports whether the session has no end time yet.
func (r *Resolved) Open() bool {
	return r.End == nil
}

// Parser combines a date cell and a time cell into a timestamp.
type Parser interface {
	Parse(date, clock any) (time.Time, bool)
}

// Index is an ordered multimap from trimmed nickname to its records, in
// log order.
type Index struct {
	order   []string
	records map[string][]Record
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{records: make(map[string][]Record)}
}

// BuildIndex groups log rows by nickname in a single pass. Rows without a
// nickname are dropped.
func BuildIndex(rows [][]any, cols header.Indices) *Index {
	ix := NewIndex()
	for _, row := range rows {
		ix.Add(Record{
			Nickname: cols.Text(row, config.FieldAccountNickname),
			Date:     cols.Cell(row, config.FieldDate),
			Start:    cols.Cell(row, config.FieldStartTime),
			End:      cols.Cell(row, config.FieldEndTime),
			Limit:    cols.Cell(row, config.FieldLimits),
		})
	}
	return ix
}

// Add appends rec under its trimmed nickname.
func (ix *Index) Add(rec Record) {
	nick := strings.TrimSpace(rec.Nickname)
	if nick == "" {
		return
	}
	rec.Nickname = nick

	if _, ok := ix.records[nick]; !ok {
		ix.order = append(ix.order, nick)
	}
	ix.records[nick] = append(ix.records[nick], rec)
}

// Records returns the records logged for nick, oldest row first.
func (ix *Index) Records(nick string) []Record {
	return ix.records[nick]
}

// Nicknames returns every nickname in first-seen order.
func (ix *Index) Nicknames() []string {
	return ix.order
}

// Len returns the number of distinct nicknames.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Latest selects the record with the strictly latest start timestamp. Records
// whose start cannot be parsed are skipped and counted. An end earlier than
// the start is moved to the next day. It returns nil when no record had a
// parseable start.
func Latest(records []Record, p Parser) (*Resolved, int) {
	var latest *Resolved
	skipped := 0

	for _, rec := range records {
		start, ok := p.Parse(rec.Date, rec.Start)
		if !ok {
			skipped++
			continue
		}
		if latest != nil && !start.After(latest.Start) {
			continue
		}

		resolved := &Resolved{
			Start: start,
			Limit: strings.TrimSpace(cast.ToString(rec.Limit)),
		}
		if end, ok := p.Parse(rec.Date, rec.End); ok {
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			resolved.End = &end
		}
		latest = resolved
	}

	return latest, skipped
}
