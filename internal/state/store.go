package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/crier/internal/engine"
)

// Snapshot is a point-in-time view of feeder and engine activity.
type Snapshot struct {
	Lines      uint64
	Matched    uint64
	Unmatched  uint64
	Routed     uint64
	Evicted    uint64
	SinkErrors uint64
	PerTag     map[string]uint64
	LastLine   string

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // consecutive failed log reads
}

// IsOffline returns true when the log has been unreadable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Observe folds one processed line into the counters.
func (s *Store) Observe(line string, res engine.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Lines++
	s.snapshot.LastLine = line
	if !res.Matched {
		s.snapshot.Unmatched++
		return
	}
	s.snapshot.Matched++
	s.snapshot.Routed += uint64(len(res.Routed))
	s.snapshot.Evicted += uint64(res.Evicted)
	if res.Err != nil {
		s.snapshot.SinkErrors++
	}
	if s.snapshot.PerTag == nil {
		s.snapshot.PerTag = make(map[string]uint64)
	}
	s.snapshot.PerTag[res.Record.Tag.String()]++
}

// ReadResult records the outcome of one log poll. When err is non-nil the
// counters are kept and the error is recorded for visibility.
func (s *Store) ReadResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.PerTag = clonePerTag(s.snapshot.PerTag)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePerTag(in map[string]uint64) map[string]uint64 {
	if len(in) == 0 {
		return nil
	}
	dup := make(map[string]uint64, len(in))
	for k, v := range in {
		dup[k] = v
	}
	return dup
}
