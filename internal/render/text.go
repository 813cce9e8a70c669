package render

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/goodtune/qqhelper/internal/report"
)

type align int

const (
	alignLeft align = iota
	alignCenter
)

// Text draws bordered tables as text. Styled output marks titles bold and
// header rows bold on a light background.
type Text struct {
	w      io.Writer
	styled bool
	title  *color.Color
	header *color.Color
	border *color.Color
}

// NewText creates a text renderer writing to w.
func NewText(w io.Writer, styled bool) *Text {
	return &Text{
		w:      w,
		styled: styled,
		title:  color.New(color.Bold),
		header: color.New(color.Bold, color.FgBlack, color.BgWhite),
		border: color.New(color.FgHiBlack),
	}
}

// Render writes every table of r, separated by blank lines.
func (t *Text) Render(ctx context.Context, r report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if !r.GeneratedAt.IsZero() {
		buf.WriteString("Обновлено: " + r.GeneratedAt.Format("02.01.2006 15:04") + "\n\n")
	}
	for i, table := range r.Tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		t.drawTable(&buf, table)
	}

	_, err := t.w.Write(buf.Bytes())
	return err
}

func (t *Text) drawTable(buf *bytes.Buffer, table report.Table) {
	widths := columnWidths(table)
	cells := make([]string, len(widths))

	buf.WriteString(t.paint(t.title, table.Title) + "\n")
	buf.WriteString(t.rule("┌", "┬", "┐", widths))

	for i := range widths {
		cells[i] = t.paint(t.header, " "+pad(cellAt(table.Header, i), widths[i], alignCenter)+" ")
	}
	buf.WriteString(t.line(cells))

	if table.Empty() {
		buf.WriteString(t.rule("├", "┴", "┤", widths))
		merged := " " + pad(placeholder(table), spanWidth(widths), alignCenter) + " "
		buf.WriteString(t.line([]string{merged}))
		buf.WriteString(t.rule("└", "─", "┘", widths))
		return
	}

	buf.WriteString(t.rule("├", "┼", "┤", widths))
	for _, row := range table.Rows {
		for i := range widths {
			a := alignCenter
			if i == 0 {
				a = alignLeft
			}
			cells[i] = " " + pad(cellAt(row, i), widths[i], a) + " "
		}
		buf.WriteString(t.line(cells))
	}
	buf.WriteString(t.rule("└", "┴", "┘", widths))
}

func (t *Text) line(cells []string) string {
	sep := t.paint(t.border, "│")
	return sep + strings.Join(cells, sep) + sep + "\n"
}

func (t *Text) rule(left, mid, right string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return t.paint(t.border, left+strings.Join(parts, mid)+right) + "\n"
}

func (t *Text) paint(c *color.Color, s string) string {
	if !t.styled {
		return s
	}
	return c.Sprint(s)
}

func columnWidths(table report.Table) []int {
	widths := make([]int, len(table.Header))
	for i, h := range table.Header {
		widths[i] = textWidth(h)
	}
	for _, row := range table.Rows {
		for i := range widths {
			if w := textWidth(cellAt(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if table.Empty() && len(widths) > 0 {
		if short := textWidth(placeholder(table)) - spanWidth(widths); short > 0 {
			widths[len(widths)-1] += short
		}
	}
	return widths
}

// spanWidth is the text width of one cell merged across every column.
func spanWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + 3*(len(widths)-1)
}

func placeholder(table report.Table) string {
	if table.Placeholder != "" {
		return table.Placeholder
	}
	return report.NoData
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func pad(s string, width int, a align) string {
	gap := width - textWidth(s)
	if gap <= 0 {
		return s
	}
	if a == alignLeft {
		return s + strings.Repeat(" ", gap)
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

func textWidth(s string) int {
	return utf8.RuneCountInString(s)
}
