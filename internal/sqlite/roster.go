package sqlite

import (
	"context"
	"fmt"

	"github.com/nbarrett/tallysheet/internal/repository"
)

// RosterStore implements repository.RosterStore for SQLite
type RosterStore struct {
	db *DB
}

// NewRosterStore creates a new RosterStore
func NewRosterStore(db *DB) *RosterStore {
	return &RosterStore{db: db}
}

// ReadRows returns roster rows in append order. With an empty tenant every
// row is returned, legacy ownerless rows included; otherwise only exact
// tenant matches come back.
func (s *RosterStore) ReadRows(ctx context.Context, tenant string) ([]repository.RosterRow, error) {
	query := `
		SELECT tenant, subject
		FROM roster
	`
	args := []any{}
	if tenant != "" {
		query += " WHERE tenant = ?"
		args = append(args, tenant)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: reading roster rows: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var result []repository.RosterRow
	for rows.Next() {
		var row repository.RosterRow
		if err := rows.Scan(&row.Tenant, &row.Subject); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster rows: %w", err)
	}

	return result, nil
}

// Append inserts one roster entry. No uniqueness is enforced; the resolver's
// set-union semantics absorb duplicate rows.
func (s *RosterStore) Append(ctx context.Context, tenant, subject string) error {
	query := `INSERT INTO roster (tenant, subject) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, tenant, subject); err != nil {
		return fmt.Errorf("%w: appending roster row: %v", repository.ErrUnavailable, err)
	}
	return nil
}
