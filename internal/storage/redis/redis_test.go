package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goodtune/qqhelper/internal/config"
	"github.com/goodtune/qqhelper/internal/report"
	"github.com/goodtune/qqhelper/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	// miniredis.Addr() returns "host:port", so Port stays zero
	cfg := config.RedisConfig{
		Host:         mr.Addr(),
		Port:         0,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 1,
		DialTimeout:  "5s",
		ReadTimeout:  "3s",
		WriteTimeout: "3s",
		KeyPrefix:    "test:",
	}

	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open Redis store: %v", err)
	}

	return store, mr
}

func sampleReport(at time.Time) report.Report {
	return report.Report{
		GeneratedAt: at,
		Tables: []report.Table{
			{
				ID:     report.Main,
				Title:  "1. Основная таблица",
				Header: []string{"Аккаунт (комплект)", "Статус"},
				Rows:   [][]string{{"alice (k1)", "ready"}, {"bob (k2)", "sla"}},
			},
			{
				ID:          report.Ready,
				Title:       "2. Готовы к запуску",
				Header:      []string{"Аккаунт (комплект)"},
				Placeholder: report.NoData,
			},
		},
	}
}

func TestReportStore_ReplaceAndLoad(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	if err := store.Reports().Replace(ctx, sampleReport(at)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.Reports().Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !got.GeneratedAt.Equal(at) {
		t.Errorf("GeneratedAt = %v, want %v", got.GeneratedAt, at)
	}
	if len(got.Tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(got.Tables))
	}

	first := got.Tables[0]
	if first.ID != report.Main || len(first.Rows) != 2 || first.Rows[1][1] != "sla" {
		t.Errorf("main table = %+v", first)
	}

	ready := got.Tables[1]
	if !ready.Empty() || ready.Placeholder != report.NoData {
		t.Errorf("ready table = %+v, want empty with placeholder", ready)
	}

	if !mr.Exists("test:report:table:main") {
		t.Error("table hash missing under key prefix")
	}
}

func TestReportStore_ReplaceClearsPrevious(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Reports().Replace(ctx, sampleReport(time.Now())); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	next := report.Report{
		GeneratedAt: time.Now(),
		Tables: []report.Table{
			{ID: report.Attention, Title: "4. Обратить внимание", Header: []string{"Аккаунт (комплект)"}, Rows: [][]string{{"carol (k3)"}}},
		},
	}
	if err := store.Reports().Replace(ctx, next); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.Reports().Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Tables) != 1 || got.Tables[0].ID != report.Attention {
		t.Errorf("tables = %+v, want only attention", got.Tables)
	}

	for _, key := range []string{"test:report:table:main", "test:report:table:ready"} {
		if mr.Exists(key) {
			t.Errorf("stale key %s survived replacement", key)
		}
	}
}

func TestReportStore_LoadEmpty(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	_, err := store.Reports().Load(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestOpen_InvalidTimeout(t *testing.T) {
	_, err := Open(config.RedisConfig{Host: "localhost", DialTimeout: "soon", ReadTimeout: "1s", WriteTimeout: "1s"})
	if err == nil {
		t.Fatal("Open succeeded with invalid dial_timeout")
	}
}
