package sqlite

import (
	"context"
	"fmt"

	"github.com/nbarrett/tallysheet/internal/repository"
)

// LedgerStore implements repository.LedgerStore for SQLite
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a new LedgerStore
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// ReadRows returns ledger rows in append order, optionally scoped to a tenant.
// Tenant matching ignores case and surrounding whitespace so legacy-cased
// rows survive the filter. Rows come back verbatim; no parsing of legacy
// values happens here.
func (s *LedgerStore) ReadRows(ctx context.Context, tenant string) ([]repository.LedgerRow, error) {
	query := `
		SELECT tenant, subject, week_ending, count, notes
		FROM ledger
	`
	args := []any{}
	if tenant != "" {
		query += " WHERE LOWER(TRIM(tenant)) = LOWER(TRIM(?))"
		args = append(args, tenant)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ledger rows: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var result []repository.LedgerRow
	for rows.Next() {
		var row repository.LedgerRow
		if err := rows.Scan(&row.Tenant, &row.Subject, &row.WeekEnding, &row.Count, &row.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	return result, nil
}

// Append inserts one immutable ledger row. Duplicates are never collapsed
// at write time; the read path reconciles them.
func (s *LedgerStore) Append(ctx context.Context, row repository.LedgerRow) error {
	query := `
		INSERT INTO ledger (tenant, subject, week_ending, count, notes)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		row.Tenant, row.Subject, row.WeekEnding, row.Count, row.Notes,
	); err != nil {
		return fmt.Errorf("%w: appending ledger row: %v", repository.ErrUnavailable, err)
	}
	return nil
}
