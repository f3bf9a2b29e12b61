package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/storage"
	"github.com/vietddude/tokenctl/internal/metrics"
)

// Log is the durable, append-only, newest-first record of completed
// operations. The in-memory sequence is authoritative for the running
// session; persistence failures are logged and non-fatal.
type Log struct {
	mu      sync.RWMutex
	records []domain.TransactionRecord
	repo    storage.HistoryRepository
	log     *slog.Logger
}

// NewLog creates a history log over a repository.
func NewLog(repo storage.HistoryRepository) *Log {
	return &Log{
		repo: repo,
		log:  slog.Default().With("component", "history"),
	}
}

// Load reads the persisted sequence once at startup. A missing sequence is
// an empty history, not an error.
func (l *Log) Load(ctx context.Context) error {
	records, err := l.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()

	metrics.HistorySize.Set(float64(len(records)))
	l.log.Info("History loaded", "records", len(records))
	return nil
}

// Append prepends a record and persists the full sequence. The record stays
// in memory even when persistence fails.
func (l *Log) Append(ctx context.Context, rec domain.TransactionRecord) {
	l.mu.Lock()
	l.records = append([]domain.TransactionRecord{rec}, l.records...)
	snapshot := make([]domain.TransactionRecord, len(l.records))
	copy(snapshot, l.records)
	l.mu.Unlock()

	metrics.HistorySize.Set(float64(len(snapshot)))

	if err := l.repo.Save(ctx, snapshot); err != nil {
		l.log.Warn("Failed to persist history, in-memory log remains authoritative",
			"error", err, "records", len(snapshot))
	}
}

// Records returns a copy of the sequence, newest first.
func (l *Log) Records() []domain.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
