// Package tracker coordinates the live counters, the roster and the ledger.
// It is the surface the presentation layer talks to.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nbarrett/tallysheet/internal/counter"
	"github.com/nbarrett/tallysheet/internal/ledger"
	"github.com/nbarrett/tallysheet/internal/roster"
	"github.com/nbarrett/tallysheet/internal/week"
)

// Service exposes the check-in accounting operations.
type Service struct {
	counters *counter.Store
	ledger   *ledger.Service
	roster   *roster.Service
	logger   *slog.Logger
}

// NewService creates a new tracker service.
func NewService(counters *counter.Store, ledgerSvc *ledger.Service, rosterSvc *roster.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		counters: counters,
		ledger:   ledgerSvc,
		roster:   rosterSvc,
		logger:   logger,
	}
}

// WeekResult reports a finalized rollover.
type WeekResult struct {
	WeekEnding string `json:"week_ending"`
	Count      int    `json:"count"`
}

// CurrentCount returns the live count for the current week.
func (s *Service) CurrentCount(tenant, subject string) int {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return 0
	}
	return s.counters.Count(tenant, subject)
}

// AddCheckIn records one check-in and an optional note, returning the new
// count. A blank subject makes the call a no-op; hitting the weekly cap is
// not an error, the count simply stops moving.
func (s *Service) AddCheckIn(tenant, subject, note string) int {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return 0
	}

	n := s.counters.Increment(tenant, subject)
	s.counters.AddNote(tenant, subject, note)
	return n
}

// ClearWeek discards the current week's count and notes without touching
// the ledger.
func (s *Service) ClearWeek(tenant, subject string) {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return
	}
	s.counters.Reset(tenant, subject)
}

// EndWeek finalizes the current week into the ledger and resets the live
// counter. Two failure policies apply, on purpose:
//
//   - roster registration is best-effort: a failed registration is logged and
//     the rollover continues, since a missing roster row is cosmetic and the
//     ledger-derived roster recovers it anyway;
//   - the ledger append is all-or-nothing with no rollback: on failure the
//     counter is left untouched and the error propagates, so a week's work is
//     never lost to a persistence hiccup and the call is safe to retry.
//
// A retried EndWeek may append a duplicate ledger row; read-time max-wins
// reconciliation absorbs that.
func (s *Service) EndWeek(ctx context.Context, tenant, subject string, now time.Time) (WeekResult, error) {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return WeekResult{}, nil
	}

	s.bestEffort("register subject", tenant, subject, func() error {
		return s.roster.EnsureRegistered(ctx, tenant, subject)
	})

	count, summary := s.counters.Snapshot(tenant, subject)
	ending := week.FormatDate(week.EndingDate(now))

	if err := s.ledger.Append(ctx, tenant, subject, ending, count, summary); err != nil {
		return WeekResult{}, fmt.Errorf("ending week: %w", err)
	}
	s.counters.Reset(tenant, subject)

	s.logger.Info("week finalized",
		"tenant", tenant, "subject", subject, "week_ending", ending, "count", count)
	return WeekResult{WeekEnding: ending, Count: count}, nil
}

// ListSubjects returns the tenant's effective roster.
func (s *Service) ListSubjects(ctx context.Context, tenant string) ([]string, error) {
	tenant = normalizeTenant(tenant)
	return s.roster.Subjects(ctx, tenant)
}

// WeeklyHistory returns the reconciled weekly totals, most recent first.
func (s *Service) WeeklyHistory(ctx context.Context, tenant, subject string) ([]ledger.WeekTotal, error) {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return nil, nil
	}
	return s.ledger.History(ctx, tenant, subject)
}

// RegisterSubject adds a subject to the tenant's roster. Unlike the rollover
// path this propagates store errors, since the caller asked for the
// registration itself.
func (s *Service) RegisterSubject(ctx context.Context, tenant, subject string) error {
	tenant, subject = normalize(tenant, subject)
	if subject == "" {
		return nil
	}
	return s.roster.EnsureRegistered(ctx, tenant, subject)
}

// bestEffort runs a sub-operation whose failure must not abort the caller.
func (s *Service) bestEffort(op, tenant, subject string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Warn("best-effort operation failed, continuing",
			"op", op, "tenant", tenant, "subject", subject, "error", err)
	}
}

func normalizeTenant(tenant string) string {
	return strings.ToLower(strings.TrimSpace(tenant))
}

func normalize(tenant, subject string) (string, string) {
	return normalizeTenant(tenant), strings.TrimSpace(subject)
}
