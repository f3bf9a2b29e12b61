package storage

import (
	"context"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

// HistoryRepository persists the transaction history as a unit. Records are
// ordered newest-first on both sides of the boundary.
type HistoryRepository interface {
	// Load reads the full history sequence, empty if none was ever saved.
	Load(ctx context.Context) ([]domain.TransactionRecord, error)

	// Save writes the full history sequence, replacing the previous one.
	Save(ctx context.Context, records []domain.TransactionRecord) error

	// Close releases the backing store.
	Close() error
}
