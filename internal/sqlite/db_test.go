package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"ledger",
		"roster",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies a restart against an existing database
// re-runs the schema without error and without touching existing rows
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO ledger (tenant, subject, week_ending, count, notes) VALUES (?, ?, ?, ?, ?)`,
		"alice", "Sam", "2024-03-15", "4", "")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations())

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// TestLedgerTable verifies the ledger table tolerates legacy-shaped rows
func TestLedgerTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	// A well-formed row and a legacy row with a non-numeric count.
	_, err := db.ExecContext(ctx,
		`INSERT INTO ledger (tenant, subject, week_ending, count, notes) VALUES (?, ?, ?, ?, ?)`,
		"alice", "Sam", "2024-03-15", "4", "good week")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO ledger (tenant, subject, week_ending, count, notes) VALUES (?, ?, ?, ?, ?)`,
		"alice", "Sam", "2024-03-08", "n/a", "")
	require.NoError(t, err)

	var count string
	err = db.QueryRowContext(ctx,
		`SELECT count FROM ledger WHERE week_ending = ?`, "2024-03-08").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, "n/a", count)
}

// TestRosterTable verifies that legacy ownerless rows are representable
func TestRosterTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO roster (tenant, subject) VALUES (?, ?)`, "", "Kim")
	require.NoError(t, err)

	var tenant, subject string
	err = db.QueryRowContext(ctx,
		`SELECT tenant, subject FROM roster WHERE subject = ?`, "Kim").Scan(&tenant, &subject)
	require.NoError(t, err)
	require.Equal(t, "", tenant)
	require.Equal(t, "Kim", subject)
}
