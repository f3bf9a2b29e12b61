package memory

import (
	"context"
	"sync"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

// HistoryRepo keeps the history sequence in process memory. Used when no
// durable backend is configured, and by tests.
type HistoryRepo struct {
	mu      sync.RWMutex
	records []domain.TransactionRecord
}

// NewHistoryRepo creates an empty in-memory history repository.
func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{}
}

func (r *HistoryRepo) Load(ctx context.Context) ([]domain.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TransactionRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *HistoryRepo) Save(ctx context.Context, records []domain.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make([]domain.TransactionRecord, len(records))
	copy(r.records, records)
	return nil
}

func (r *HistoryRepo) Close() error { return nil }
