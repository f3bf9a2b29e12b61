package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

// HistoryRepo implements storage.HistoryRepository using PostgreSQL.
// Records are append-only; Save inserts records it has not seen before and
// never mutates existing rows.
type HistoryRepo struct {
	db *DB
}

// NewHistoryRepo creates a new PostgreSQL history repository.
func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

type recordRow struct {
	ID           string `db:"id"`
	Kind         string `db:"kind"`
	Amount       string `db:"amount"`
	Counterparty string `db:"counterparty"`
	TxHash       string `db:"tx_hash"`
	GasUsed      string `db:"gas_used"`
	Timestamp    string `db:"recorded_at"`
}

func (r *recordRow) toDomain() domain.TransactionRecord {
	return domain.TransactionRecord{
		ID:           r.ID,
		Kind:         domain.OperationKind(r.Kind),
		Amount:       r.Amount,
		Counterparty: r.Counterparty,
		TxHash:       r.TxHash,
		GasUsed:      r.GasUsed,
		Timestamp:    r.Timestamp,
	}
}

// Load reads the full history, newest-first.
func (r *HistoryRepo) Load(ctx context.Context) ([]domain.TransactionRecord, error) {
	query := `
		SELECT id, kind, amount, counterparty, tx_hash, gas_used, recorded_at
		FROM tx_history
		ORDER BY seq DESC
	`

	var rows []recordRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: load history: %v", domain.ErrPersistence, err)
	}

	var records []domain.TransactionRecord
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records, nil
}

// Save persists the sequence. The history is append-only, so inserting the
// records missing from the table preserves the full sequence; insertion order
// is oldest-first to keep seq aligned with record age.
func (r *HistoryRepo) Save(ctx context.Context, records []domain.TransactionRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tx_history (id, kind, amount, counterparty, tx_hash, gas_used, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	defer stmt.Close()

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		_, err := stmt.ExecContext(ctx,
			rec.ID, string(rec.Kind), rec.Amount, rec.Counterparty,
			rec.TxHash, rec.GasUsed, rec.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("%w: insert record %s: %v", domain.ErrPersistence, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Close closes the underlying connection.
func (r *HistoryRepo) Close() error {
	return r.db.Close()
}
