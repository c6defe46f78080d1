package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/crier/internal/engine"
	"github.com/five82/crier/internal/filter"
)

func TestStore_ObserveAndSnapshotClone(t *testing.T) {
	var s Store
	hit := filter.Record{Tag: filter.Tag{Group: "Combat", Category: "Hit"}}

	s.Observe("Urist hits", engine.Result{Record: hit, Matched: true, Routed: []int{0, 2}, Evicted: 1})
	s.Observe("It is summer", engine.Result{})
	s.Observe("Urist hits", engine.Result{Record: hit, Matched: true, Routed: []int{0}, Err: errors.New("gone")})

	snap := s.Snapshot()
	want := Snapshot{
		Lines: 3, Matched: 2, Unmatched: 1, Routed: 3, Evicted: 1, SinkErrors: 1,
		PerTag:   map[string]uint64{"Combat.Hit": 2},
		LastLine: "Urist hits",
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("snapshot = %#v, want %#v", snap, want)
	}

	// Returned snapshot should be independent of the stored one.
	snap.PerTag["Combat.Hit"] = 99
	if got := s.Snapshot().PerTag["Combat.Hit"]; got != 2 {
		t.Fatalf("Snapshot should clone PerTag; got %d want 2", got)
	}
}

func TestStore_ReadErrorKeepsCounters(t *testing.T) {
	var s Store
	s.Observe("x", engine.Result{})

	before := time.Now()
	origErr := errors.New("boom")
	s.ReadResult(origErr)

	snap := s.Snapshot()
	if snap.Lines != 1 {
		t.Fatalf("Lines = %d, want 1", snap.Lines)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	tests := []struct {
		err     error
		want    int
		offline bool
	}{
		{err: errors.New("fail 1"), want: 1, offline: false},
		{err: errors.New("fail 2"), want: 2, offline: true},
		{err: errors.New("fail 3"), want: 3, offline: true},
		{err: nil, want: 0, offline: false},
	}
	for i, tt := range tests {
		s.ReadResult(tt.err)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != tt.want {
			t.Fatalf("step %d: ConsecutiveFailures = %d, want %d", i, snap.ConsecutiveFailures, tt.want)
		}
		if snap.IsOffline() != tt.offline {
			t.Fatalf("step %d: IsOffline() = %v, want %v", i, snap.IsOffline(), tt.offline)
		}
	}
	if s.Snapshot().LastError != nil {
		t.Fatal("LastError should clear after a successful read")
	}
}
