// Package sheet reads workbook tables. A workbook is a directory holding one
// CSV file per sheet.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrSheetNotFound is returned when a named sheet does not exist.
var ErrSheetNotFound = errors.New("sheet: not found")

// Table is a header row followed by data rows. Cells are string or time.Time.
type Table struct {
	Name   string
	Header []any
	Rows   [][]any
}

// Source provides tables by sheet name.
type Source interface {
	Table(ctx context.Context, name string) (*Table, error)
}

// Workbook is a directory-backed Source.
type Workbook struct {
	dir string
	loc *time.Location
}

// OpenWorkbook returns a workbook rooted at dir. Timestamp cells without a
// zone are interpreted in loc.
func OpenWorkbook(dir string, loc *time.Location) *Workbook {
	if loc == nil {
		loc = time.Local
	}
	return &Workbook{dir: dir, loc: loc}
}

// Path returns the file backing sheet name.
func (w *Workbook) Path(name string) string {
	return filepath.Join(w.dir, name+".csv")
}

// Table reads sheet name. Trailing blank rows are dropped.
func (w *Workbook) Table(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
		}
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	table, err := Parse(bytes.NewReader(data), w.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet %s: %w", name, err)
	}
	table.Name = name
	return table, nil
}

// Parse reads a CSV table from r.
func Parse(r io.Reader, loc *time.Location) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	table := &Table{}
	if len(records) == 0 {
		return table, nil
	}

	if len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	table.Header = make([]any, len(records[0]))
	for i, label := range records[0] {
		table.Header[i] = label
	}

	last := len(records) - 1
	for last > 0 && blank(records[last]) {
		last--
	}

	table.Rows = make([][]any, 0, last)
	for _, record := range records[1 : last+1] {
		row := make([]any, len(record))
		for i, raw := range record {
			row[i] = TypedCell(raw, loc)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// TypedCell converts ISO timestamps and ISO dates to time.Time the way a
// spreadsheet types its cells. Any other value stays text.
func TypedCell(raw string, loc *time.Location) any {
	s := strings.TrimSpace(raw)
	if len(s) < len("2006-01-02") || s[4] != '-' {
		return raw
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t
	}
	return raw
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
