// Package header maps human column labels to logical field names.
package header

import (
	"strings"

	"github.com/spf13/cast"
)

// Indices maps a logical field name to its zero-based column position.
type Indices map[string]int

// Column returns the position of field and whether it was present.
func (ix Indices) Column(field string) (int, bool) {
	col, ok := ix[field]
	return col, ok
}

// Cell returns the value of field in row, or nil when the field is unmapped
// or the row is too short.
func (ix Indices) Cell(row []any, field string) any {
	col, ok := ix[field]
	if !ok || col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// Text returns the trimmed text of field in row.
func (ix Indices) Text(row []any, field string) string {
	return strings.TrimSpace(cast.ToString(ix.Cell(row, field)))
}

// Resolver resolves header rows against a fixed synonym table.
type Resolver struct {
	synonyms map[string][]string
}

// NewResolver creates a resolver. Synonym lists are matched trimmed and
// case-insensitively, in declared order.
func NewResolver(synonyms map[string][]string) *Resolver {
	normalized := make(map[string][]string, len(synonyms))
	for field, labels := range synonyms {
		list := make([]string, 0, len(labels))
		for _, label := range labels {
			list = append(list, normalize(label))
		}
		normalized[field] = list
	}
	return &Resolver{synonyms: normalized}
}

// Resolve maps every known field to the column of its first matching synonym.
// Fields with no matching label are omitted.
func (r *Resolver) Resolve(headerRow []any) Indices {
	positions := make(map[string]int, len(headerRow))
	for i, cell := range headerRow {
		label := normalize(cast.ToString(cell))
		// Duplicate labels keep the last column, like a map built over the row.
		positions[label] = i
	}

	indices := make(Indices, len(r.synonyms))
	for field, labels := range r.synonyms {
		for _, label := range labels {
			if col, ok := positions[label]; ok {
				indices[field] = col
				break
			}
		}
	}
	return indices
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
