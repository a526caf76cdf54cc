package repository

import "context"

// LedgerRow is a raw ledger record exactly as the backing store holds it.
// The ledger predates this service and carries rows appended by several
// generations of clients, so every field is plain text; Count in particular
// may be non-numeric on legacy rows. Parsing and validation happen on the
// read path, never here.
type LedgerRow struct {
	Tenant     string
	Subject    string
	WeekEnding string
	Count      string
	Notes      string
}

// RosterRow is a raw roster entry. A blank Tenant marks a legacy ownerless
// row from before the roster was tenant-scoped.
type RosterRow struct {
	Tenant  string
	Subject string
}

// LedgerStore persists the append-only weekly history.
type LedgerStore interface {
	// ReadRows returns rows for the given tenant, or every row when tenant
	// is empty. Rows come back in append order.
	ReadRows(ctx context.Context, tenant string) ([]LedgerRow, error)
	// Append adds one immutable row. Duplicate (tenant, subject, weekEnding)
	// tuples are allowed; they are collapsed on the read path.
	Append(ctx context.Context, row LedgerRow) error
}

// RosterStore persists the known subjects per tenant.
type RosterStore interface {
	// ReadRows returns roster rows for the given tenant, or every row
	// (legacy rows included) when tenant is empty.
	ReadRows(ctx context.Context, tenant string) ([]RosterRow, error)
	// Append adds one roster entry. Callers perform their own existence
	// checks; duplicate rows are tolerated.
	Append(ctx context.Context, tenant, subject string) error
}
