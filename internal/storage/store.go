package storage

import (
	"context"
	"errors"

	"github.com/goodtune/qqhelper/internal/report"
)

// ErrNotFound is returned when a record is missing from storage.
var ErrNotFound = errors.New("storage: record not found")

// Store represents the root storage interface.
type Store interface {
	Close() error
	Reports() ReportStore
}

// ReportStore holds the most recently rendered report. Every Replace clears
// the previous report completely.
type ReportStore interface {
	Replace(ctx context.Context, r report.Report) error
	Load(ctx context.Context) (*report.Report, error)
}
