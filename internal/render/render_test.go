package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goodtune/qqhelper/internal/report"
)

func sampleReport() report.Report {
	return report.Report{
		Tables: []report.Table{
			{ID: report.Main, Title: "Filled", Header: []string{"A", "B"}, Rows: [][]string{{"x", "yy"}}},
			{ID: report.Ready, Title: "Empty", Header: []string{"A", "B"}, Placeholder: report.NoData},
		},
	}
}

func TestText_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := NewText(&buf, false).Render(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := strings.Join([]string{
		"Filled",
		"┌───┬────┐",
		"│ A │ B  │",
		"├───┼────┤",
		"│ x │ yy │",
		"└───┴────┘",
		"",
		"Empty",
		"┌───┬────────┐",
		"│ A │   B    │",
		"├───┴────────┤",
		"│ Нет данных │",
		"└────────────┘",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestText_GeneratedAt(t *testing.T) {
	r := sampleReport()
	r.GeneratedAt = time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := NewText(&buf, false).Render(context.Background(), r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Обновлено: 09.03.2024 07:05\n\nFilled\n") {
		t.Errorf("unexpected preamble: %q", buf.String())
	}
}

func TestText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := NewText(&buf, false).Render(ctx, sampleReport()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Error("Render() wrote output after cancellation")
	}
}

func TestFile_ReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "QQ_Helper.txt")
	f := NewFile(path)

	if err := f.Render(context.Background(), sampleReport()); err != nil {
		t.Fatalf("first Render() error = %v", err)
	}

	second := report.Report{Tables: []report.Table{
		{ID: report.Attention, Title: "Only", Header: []string{"A"}, Rows: [][]string{{"z"}}},
	}}
	if err := f.Render(context.Background(), second); err != nil {
		t.Fatalf("second Render() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "Filled") {
		t.Error("previous report survived replacement")
	}
	if !strings.HasPrefix(string(data), "Only\n") {
		t.Errorf("report = %q, want the second report", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the report", len(entries))
	}
}

type fakeStore struct {
	got *report.Report
	err error
}

func (f *fakeStore) Replace(_ context.Context, r report.Report) error {
	if f.err != nil {
		return f.err
	}
	f.got = &r
	return nil
}

func (f *fakeStore) Load(context.Context) (*report.Report, error) {
	return f.got, nil
}

func TestStored(t *testing.T) {
	store := &fakeStore{}
	if err := NewStored(store).Render(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if store.got == nil || len(store.got.Tables) != 2 {
		t.Fatalf("stored report = %+v", store.got)
	}

	store.err = errors.New("down")
	if err := NewStored(store).Render(context.Background(), sampleReport()); !errors.Is(err, store.err) {
		t.Errorf("Render() error = %v, want wrapped store error", err)
	}
}
