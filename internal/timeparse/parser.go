// Package timeparse combines spreadsheet date and time-of-day cells into a
// single timestamp at minute resolution.
package timeparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/cast"
)

// Parser turns (date, time) cell pairs into timestamps. Cells are either text
// or structured time.Time values. The zero Parser is not usable; call New.
type Parser struct {
	loc   *time.Location
	dates *lru.Cache[string, looseResult]
}

type looseResult struct {
	day time.Time
	ok  bool
}

// New creates a parser that interprets text in loc. cacheSize bounds the memo
// of free-form date parses; zero disables it.
func New(loc *time.Location, cacheSize int) *Parser {
	if loc == nil {
		loc = time.Local
	}
	p := &Parser{loc: loc}
	if cacheSize > 0 {
		// lru.New only fails for a non-positive size
		p.dates, _ = lru.New[string, looseResult](cacheSize)
	}
	return p
}

// Location returns the zone text is interpreted in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse combines date and clock. It reports false when either value is blank,
// clock is neither text nor a time.Time, the clock text has fewer than two
// colon-separated parts, or the date cannot be parsed.
//
// A time.Time clock is returned unchanged and date is not consulted, even when
// the two disagree on the day.
func (p *Parser) Parse(date, clock any) (time.Time, bool) {
	if isBlank(date) || isBlank(clock) {
		return time.Time{}, false
	}

	var clockText string
	switch c := clock.(type) {
	case time.Time:
		return c, true
	case string:
		clockText = strings.TrimSpace(c)
	default:
		return time.Time{}, false
	}

	day, structured := date.(time.Time)
	if !structured {
		text := strings.TrimSpace(cast.ToString(date))
		if parts := strings.Split(text, "."); len(parts) == 3 {
			return p.dotted(parts, clockText)
		}

		var ok bool
		if day, ok = p.loose(text); !ok {
			return time.Time{}, false
		}
	}

	return applyClock(day, clockText)
}

// dotted handles DD.MM.YYYY dates. The composite must be a real calendar
// timestamp; nothing is normalized.
func (p *Parser) dotted(parts []string, clockText string) (time.Time, bool) {
	day, okDay := strictInt(parts[0])
	month, okMonth := strictInt(parts[1])
	year, okYear := strictInt(parts[2])
	if !okDay || !okMonth || !okYear {
		return time.Time{}, false
	}
	if len(strings.TrimSpace(parts[2])) <= 2 {
		year = twoDigitYear(year)
	}

	hour, minute, ok := strictClock(clockText)
	if !ok {
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, p.loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// loose parses any other date text, returning midnight of that day.
func (p *Parser) loose(text string) (time.Time, bool) {
	if p.dates != nil {
		if res, ok := p.dates.Get(text); ok {
			return res.day, res.ok
		}
	}

	res := looseResult{}
	if t, err := dateparse.ParseIn(text, p.loc); err == nil {
		res = looseResult{day: t, ok: true}
	}

	if p.dates != nil {
		p.dates.Add(text, res)
	}
	return res.day, res.ok
}

// applyClock sets hour and minute on day, zeroing seconds. Out-of-range values
// roll over into neighbouring days the way time.Date normalizes them.
func applyClock(day time.Time, clockText string) (time.Time, bool) {
	parts := strings.Split(clockText, ":")
	if len(parts) < 2 {
		return time.Time{}, false
	}

	hour, okHour := leadingInt(parts[0])
	minute, okMinute := leadingInt(parts[1])
	if !okHour || !okMinute {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// strictClock parses "H:MM", "HH:MM" or "HH:MM:SS"; seconds are dropped.
func strictClock(text string) (hour, minute int, ok bool) {
	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}

	hour, okHour := strictInt(parts[0])
	minute, okMinute := strictInt(parts[1])
	if !okHour || !okMinute {
		return 0, 0, false
	}
	if len(parts) == 3 {
		sec, okSec := strictInt(parts[2])
		if !okSec || sec > 59 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

func strictInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// leadingInt reads an optionally signed integer prefix, ignoring leading
// whitespace and anything after the digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// twoDigitYear maps 0-49 to 2000-2049 and 50-99 to 1950-1999.
func twoDigitYear(y int) int {
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}
