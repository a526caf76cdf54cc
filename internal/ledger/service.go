// Package ledger reads and appends the durable weekly history.
//
// The backing store is append-only, so the same (tenant, subject, weekEnding)
// tuple may appear more than once — a retried rollover appends again rather
// than risking a lost week. The read path reconciles duplicates by keeping
// the maximum observed count per week ("observed max", not last-write-wins);
// do not change this to a recency merge, it is what makes duplicate appends
// harmless.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/nbarrett/tallysheet/internal/repository"
	"github.com/nbarrett/tallysheet/internal/week"
)

// Service handles ledger reads and appends.
type Service struct {
	store  repository.LedgerStore
	logger *slog.Logger
}

// NewService creates a new ledger service.
func NewService(store repository.LedgerStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, logger: logger}
}

// History returns one reconciled entry per distinct week for the subject,
// most recent week first. Malformed rows are skipped one by one; a single
// corrupt row never blocks the rest of the history. A store failure degrades
// to an empty result plus the error.
func (s *Service) History(ctx context.Context, tenant, subject string) ([]WeekTotal, error) {
	rows, err := s.store.ReadRows(ctx, tenant)
	if err != nil {
		s.logger.Warn("ledger read failed", "tenant", tenant, "error", err)
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	byWeek := make(map[string]WeekTotal)
	for _, row := range rows {
		total, ok := parseRow(row, tenant, subject)
		if !ok {
			continue
		}
		// Max wins; on a tie the first-seen row keeps its note summary.
		if existing, seen := byWeek[total.WeekEnding]; !seen || total.Count > existing.Count {
			byWeek[total.WeekEnding] = total
		}
	}

	totals := make([]WeekTotal, 0, len(byWeek))
	for _, total := range byWeek {
		totals = append(totals, total)
	}
	// ISO dates order lexicographically.
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].WeekEnding > totals[j].WeekEnding
	})

	return totals, nil
}

// Append writes one finalized weekly record. No duplicate check happens
// here: the store is append-only and reconciliation is a read-time concern.
func (s *Service) Append(ctx context.Context, tenant, subject, weekEnding string, count int, noteSummary string) error {
	row := repository.LedgerRow{
		Tenant:     tenant,
		Subject:    subject,
		WeekEnding: weekEnding,
		Count:      strconv.Itoa(count),
		Notes:      noteSummary,
	}
	if err := s.store.Append(ctx, row); err != nil {
		return fmt.Errorf("appending ledger row: %w", err)
	}
	return nil
}

// parseRow validates a raw row against the requested tenant and subject.
// Rows missing a tenant, subject or week-ending date, or carrying a
// non-numeric count, are legacy debris and are dropped.
func parseRow(row repository.LedgerRow, tenant, subject string) (WeekTotal, bool) {
	rowTenant := strings.ToLower(strings.TrimSpace(row.Tenant))
	if rowTenant == "" || rowTenant != tenant {
		return WeekTotal{}, false
	}
	rowSubject := strings.TrimSpace(row.Subject)
	if rowSubject == "" || rowSubject != subject {
		return WeekTotal{}, false
	}

	ending := strings.TrimSpace(row.WeekEnding)
	if ending == "" {
		return WeekTotal{}, false
	}
	parsed, err := week.ParseDate(ending)
	if err != nil {
		return WeekTotal{}, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(row.Count))
	if err != nil {
		return WeekTotal{}, false
	}

	return WeekTotal{
		WeekEnding:  week.FormatDate(parsed),
		Count:       count,
		NoteSummary: row.Notes,
	}, true
}
