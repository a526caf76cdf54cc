// Package counter holds the volatile current-week check-in counts.
// Durable truth lives in the ledger; this store is intentionally lost on
// restart and reset at every rollover.
package counter

import (
	"strings"
	"sync"
)

// DefaultCap is the saturation ceiling applied when no cap is configured.
const DefaultCap = 5

// key addresses one (tenant, subject) counter. Tenants compare
// case-insensitively after trimming; subjects are trimmed but keep their case.
type key struct {
	Tenant  string
	Subject string
}

// newKey builds a normalized composite key.
func newKey(tenant, subject string) key {
	return key{
		Tenant:  strings.ToLower(strings.TrimSpace(tenant)),
		Subject: strings.TrimSpace(subject),
	}
}

type entry struct {
	count int
	notes []string
}

// Store is an in-memory map of capped counters with attached free-text notes.
// All mutations serialize behind one mutex; the lock only ever covers map
// access, never store I/O, so no caller blocks on another tenant's key for
// longer than a map lookup.
type Store struct {
	mu      sync.Mutex
	cap     int
	entries map[key]*entry
}

// NewStore creates a Store saturating at cap. Non-positive caps fall back to
// DefaultCap.
func NewStore(cap int) *Store {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Store{
		cap:     cap,
		entries: make(map[key]*entry),
	}
}

// Cap returns the saturation ceiling.
func (s *Store) Cap() int {
	return s.cap
}

func (s *Store) get(k key) *entry {
	e, ok := s.entries[k]
	if !ok {
		e = &entry{}
		s.entries[k] = e
	}
	return e
}

// Count returns the current count, materializing the key at zero on first use.
func (s *Store) Count(tenant, subject string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(newKey(tenant, subject)).count
}

// Increment adds one check-in and returns the new count. At the cap it
// saturates silently; hitting the ceiling is not an error.
func (s *Store) Increment(tenant, subject string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(newKey(tenant, subject))
	if e.count < s.cap {
		e.count++
	}
	return e.count
}

// AddNote appends a free-text note to the key. Blank notes are dropped.
func (s *Store) AddNote(tenant, subject, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(newKey(tenant, subject))
	e.notes = append(e.notes, note)
}

// NoteSummary joins the key's notes with "; " in insertion order.
func (s *Store) NoteSummary(tenant, subject string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.get(newKey(tenant, subject)).notes, "; ")
}

// Snapshot returns the count and note summary in one critical section, so a
// rollover captures a consistent pair even against concurrent check-ins.
func (s *Store) Snapshot(tenant, subject string) (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(newKey(tenant, subject))
	return e.count, strings.Join(e.notes, "; ")
}

// Reset zeroes the count and clears the notes for the key.
func (s *Store) Reset(tenant, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.get(newKey(tenant, subject))
	e.count = 0
	e.notes = nil
}
