package metrics

import "sync/atomic"

var (
	ticks       atomic.Int64
	readErrors  atomic.Int64
	dropped     atomic.Int64
	snapshotOps atomic.Int64
)

// Counters - sampler counters at one point in time
type Counters struct {
	Ticks         uint64
	ReadErrors    uint64
	Dropped       uint64
	SnapshotReads uint64
}

// IncTicks increments the completed sampler ticks counter
func IncTicks() { ticks.Add(1) }

// IncReadErrors increments the failed provider reads counter
func IncReadErrors() { readErrors.Add(1) }

// AddDropped adds n readings dropped for unregistered devices
func AddDropped(n int) { dropped.Add(int64(n)) }

// IncSnapshotReads increments the snapshot reads counter
func IncSnapshotReads() { snapshotOps.Add(1) }

// TotalTicks returns the total number of sampler ticks
func TotalTicks() uint64 { return uint64(ticks.Load()) } // nolint: gosec

// TotalReadErrors returns the total number of failed provider reads
func TotalReadErrors() uint64 { return uint64(readErrors.Load()) } // nolint: gosec

// TotalDropped returns the total number of dropped readings
func TotalDropped() uint64 { return uint64(dropped.Load()) } // nolint: gosec

// TotalSnapshotReads returns the total number of snapshot reads
func TotalSnapshotReads() uint64 { return uint64(snapshotOps.Load()) } // nolint: gosec

// Load returns all counters
func Load() Counters {
	return Counters{
		Ticks:         TotalTicks(),
		ReadErrors:    TotalReadErrors(),
		Dropped:       TotalDropped(),
		SnapshotReads: TotalSnapshotReads(),
	}
}
