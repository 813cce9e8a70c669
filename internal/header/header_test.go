package header

import (
	"testing"

	"github.com/goodtune/qqhelper/internal/config"
)

func row(labels ...string) []any {
	out := make([]any, len(labels))
	for i, l := range labels {
		out[i] = l
	}
	return out
}

func TestResolve_DefaultSynonyms(t *testing.T) {
	r := NewResolver(config.DefaultSynonyms())

	got := r.Resolve(row("Статус", " Комплект ", "Ник", "BID"))

	tests := []struct {
		field string
		want  int
	}{
		{config.FieldAccountStatus, 0},
		{config.FieldAccountSet, 1},
		{config.FieldAccountNickname, 2},
		{config.FieldBrainID, 3},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			col, ok := got.Column(tt.field)
			if !ok {
				t.Fatalf("field %s not resolved", tt.field)
			}
			if col != tt.want {
				t.Errorf("column = %d, want %d", col, tt.want)
			}
		})
	}

	if _, ok := got.Column(config.FieldDate); ok {
		t.Error("date resolved from a roster header")
	}
}

func TestResolve_DeclaredOrderWins(t *testing.T) {
	r := NewResolver(map[string][]string{
		"nick": {"никнейм", "ник", "account"},
	})

	// "account" appears first in the row but "ник" is declared earlier.
	got := r.Resolve(row("account", "ник"))
	if col, _ := got.Column("nick"); col != 1 {
		t.Errorf("column = %d, want 1 (first declared synonym)", col)
	}
}

func TestResolve_NonStringCells(t *testing.T) {
	r := NewResolver(map[string][]string{"hands": {"hands"}})

	got := r.Resolve([]any{nil, 42, "HANDS"})
	if col, ok := got.Column("hands"); !ok || col != 2 {
		t.Errorf("Column(hands) = %d, %v; want 2, true", col, ok)
	}
}

func TestIndices_Cell(t *testing.T) {
	ix := Indices{"nick": 1, "far": 9}
	r := []any{"x", "  Alice ", nil}

	if got := ix.Text(r, "nick"); got != "Alice" {
		t.Errorf("Text(nick) = %q, want Alice", got)
	}
	if got := ix.Cell(r, "far"); got != nil {
		t.Errorf("Cell(far) = %v, want nil for short row", got)
	}
	if got := ix.Text(r, "missing"); got != "" {
		t.Errorf("Text(missing) = %q, want empty", got)
	}
}
