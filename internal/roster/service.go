// Package roster derives the subjects visible to a tenant.
//
// The effective roster is a union: explicit entries for the tenant, legacy
// ownerless entries (a compatibility fallback, used only when the tenant has
// no explicit entries), and every subject seen in the tenant's ledger rows.
// The union is a case-insensitive set, which is also what makes duplicate
// roster rows from racing registrations harmless.
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nbarrett/tallysheet/internal/repository"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPlaceholder is the subject synthesized for an otherwise empty
// roster, so the presentation layer never faces an empty selection set.
const DefaultPlaceholder = "Student 1"

// Service resolves rosters and registers subjects.
type Service struct {
	roster      repository.RosterStore
	ledger      repository.LedgerStore
	placeholder string
	logger      *slog.Logger
}

// NewService creates a new roster service. An empty placeholder falls back
// to DefaultPlaceholder.
func NewService(rosterStore repository.RosterStore, ledgerStore repository.LedgerStore, placeholder string, logger *slog.Logger) *Service {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = DefaultPlaceholder
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		roster:      rosterStore,
		ledger:      ledgerStore,
		placeholder: placeholder,
		logger:      logger,
	}
}

// Subjects returns the tenant's effective roster, sorted case-insensitively
// with a locale-aware collator. When a backing read fails the names gathered
// from the surviving source are still returned alongside the error, so the
// caller can render a degraded view instead of nothing.
func (s *Service) Subjects(ctx context.Context, tenant string) ([]string, error) {
	set := newSubjectSet()

	rosterRows, rosterErr := s.roster.ReadRows(ctx, "")
	if rosterErr != nil {
		s.logger.Warn("roster read failed", "tenant", tenant, "error", rosterErr)
	} else {
		var explicit, legacy []string
		for _, row := range rosterRows {
			subject := strings.TrimSpace(row.Subject)
			if subject == "" {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(row.Tenant)) {
			case tenant:
				explicit = append(explicit, subject)
			case "":
				legacy = append(legacy, subject)
			}
		}
		set.addAll(explicit)
		if len(explicit) == 0 {
			set.addAll(legacy)
		}
	}

	ledgerRows, ledgerErr := s.ledger.ReadRows(ctx, tenant)
	if ledgerErr != nil {
		s.logger.Warn("ledger read failed during roster resolve", "tenant", tenant, "error", ledgerErr)
	} else {
		for _, row := range ledgerRows {
			if subject := strings.TrimSpace(row.Subject); subject != "" {
				set.add(subject)
			}
		}
	}

	if err := errors.Join(rosterErr, ledgerErr); err != nil {
		return set.sorted(), fmt.Errorf("resolving roster: %w", err)
	}

	subjects := set.sorted()
	if len(subjects) == 0 {
		subjects = []string{s.placeholder}
	}
	return subjects, nil
}

// EnsureRegistered appends the subject to the tenant's explicit roster if no
// entry matches case-insensitively. The check-then-append is not atomic;
// a concurrent caller may append a duplicate row, which Subjects absorbs.
func (s *Service) EnsureRegistered(ctx context.Context, tenant, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil
	}

	rows, err := s.roster.ReadRows(ctx, tenant)
	if err != nil {
		return fmt.Errorf("reading roster: %w", err)
	}
	for _, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row.Subject), subject) {
			return nil
		}
	}

	if err := s.roster.Append(ctx, tenant, subject); err != nil {
		return fmt.Errorf("registering subject: %w", err)
	}
	return nil
}

// subjectSet is an insertion-ordered set keyed case-insensitively; the
// first-seen casing is the one kept for display.
type subjectSet struct {
	seen  map[string]struct{}
	names []string
}

func newSubjectSet() *subjectSet {
	return &subjectSet{seen: make(map[string]struct{})}
}

func (s *subjectSet) add(name string) {
	key := strings.ToLower(name)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.names = append(s.names, name)
}

func (s *subjectSet) addAll(names []string) {
	for _, name := range names {
		s.add(name)
	}
}

func (s *subjectSet) sorted() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	// Collators buffer internally, so build one per call rather than
	// sharing across goroutines.
	collate.New(language.Und, collate.IgnoreCase).SortStrings(out)
	return out
}
