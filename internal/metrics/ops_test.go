package metrics

import (
	"sync"
	"testing"
)

// nolint: paralleltest
func TestOpsCounters(t *testing.T) {
	// Reset counters to known state
	ticks.Store(0)
	readErrors.Store(0)
	dropped.Store(0)
	snapshotOps.Store(0)

	if got := Load(); got != (Counters{}) {
		t.Errorf("Load() = %+v, want zero counters", got)
	}

	IncTicks()
	if got := TotalTicks(); got != 1 {
		t.Errorf("After IncTicks(), TotalTicks() = %d, want 1", got)
	}

	IncReadErrors()
	IncReadErrors()
	if got := TotalReadErrors(); got != 2 {
		t.Errorf("After 2x IncReadErrors(), TotalReadErrors() = %d, want 2", got)
	}

	AddDropped(3)
	if got := TotalDropped(); got != 3 {
		t.Errorf("After AddDropped(3), TotalDropped() = %d, want 3", got)
	}

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			IncSnapshotReads()
		}()
	}
	wg.Wait()

	want := Counters{Ticks: 1, ReadErrors: 2, Dropped: 3, SnapshotReads: 100}
	if got := Load(); got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}
