package counter_test

import (
	"sync"
	"testing"

	"github.com/nbarrett/tallysheet/internal/counter"
	"github.com/stretchr/testify/require"
)

func TestStore_LazyZero(t *testing.T) {
	s := counter.NewStore(5)
	require.Equal(t, 0, s.Count("alice", "Sam"))
	require.Equal(t, "", s.NoteSummary("alice", "Sam"))
}

func TestStore_IncrementSaturates(t *testing.T) {
	s := counter.NewStore(4)

	for want := 1; want <= 4; want++ {
		require.Equal(t, want, s.Increment("alice", "Sam"))
	}

	// At the cap further check-ins are silently absorbed.
	require.Equal(t, 4, s.Increment("alice", "Sam"))
	require.Equal(t, 4, s.Count("alice", "Sam"))
}

func TestStore_DefaultCap(t *testing.T) {
	s := counter.NewStore(0)
	require.Equal(t, counter.DefaultCap, s.Cap())
}

func TestStore_ResetClearsCountAndNotes(t *testing.T) {
	s := counter.NewStore(5)
	s.Increment("alice", "Sam")
	s.Increment("alice", "Sam")
	s.AddNote("alice", "Sam", "good focus")

	s.Reset("alice", "Sam")

	require.Equal(t, 0, s.Count("alice", "Sam"))
	require.Equal(t, "", s.NoteSummary("alice", "Sam"))
}

func TestStore_NoteSummaryJoinsInOrder(t *testing.T) {
	s := counter.NewStore(5)
	s.AddNote("alice", "Sam", "  read aloud ")
	s.AddNote("alice", "Sam", "")
	s.AddNote("alice", "Sam", "   ")
	s.AddNote("alice", "Sam", "math drills")

	require.Equal(t, "read aloud; math drills", s.NoteSummary("alice", "Sam"))
}

func TestStore_TenantKeyCaseInsensitive(t *testing.T) {
	s := counter.NewStore(5)
	s.Increment("Alice", "Sam")
	s.Increment(" alice ", "Sam")

	require.Equal(t, 2, s.Count("ALICE", "Sam"))
}

func TestStore_SubjectKeyCaseSensitive(t *testing.T) {
	s := counter.NewStore(5)
	s.Increment("alice", "Sam")
	s.Increment("alice", "sam")

	require.Equal(t, 1, s.Count("alice", "Sam"))
	require.Equal(t, 1, s.Count("alice", "sam"))
}

func TestStore_Snapshot(t *testing.T) {
	s := counter.NewStore(5)
	s.Increment("alice", "Sam")
	s.AddNote("alice", "Sam", "late start")

	count, summary := s.Snapshot("alice", "Sam")
	require.Equal(t, 1, count)
	require.Equal(t, "late start", summary)
}

func TestStore_ConcurrentIncrementsLoseNothing(t *testing.T) {
	const n = 100
	s := counter.NewStore(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment("alice", "Sam")
		}()
	}
	wg.Wait()

	require.Equal(t, n, s.Count("alice", "Sam"))
}
