package redis

import (
	"encoding/json"
	"fmt"

	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/storage"
)

type keys struct {
	tables      string
	tablePrefix string
	generatedAt string
}

func newKeys(prefix string) keys {
	return keys{
		tables:      prefix + "report:tables",
		tablePrefix: prefix + "report:table:",
		generatedAt: prefix + "report:generated_at",
	}
}

// tableArgs flattens a table into the five script arguments
func tableArgs(t report.Table) ([]interface{}, error) {
	header, err := json.Marshal(t.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}

	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	encodedRows, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}

	return []interface{}{string(t.ID), t.Title, string(header), string(encodedRows), t.Placeholder}, nil
}

// parseTable converts a Redis hash to a report table
func parseTable(data map[string]string) (*report.Table, error) {
	if len(data) == 0 {
		return nil, storage.ErrNotFound
	}

	var header []string
	if err := json.Unmarshal([]byte(data["header"]), &header); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var rows [][]string
	if err := json.Unmarshal([]byte(data["rows"]), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	if len(rows) == 0 {
		rows = nil
	}

	return &report.Table{
		ID:          report.ID(data["id"]),
		Title:       data["title"],
		Header:      header,
		Rows:        rows,
		Placeholder: data["placeholder"],
	}, nil
}
