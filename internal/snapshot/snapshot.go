package snapshot

import (
	"maps"
	"time"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/stats"
)

// Metric - published statistics of one RollingStat.
// Max, Min and Avg are meaningful only when Committed is set, Last only when Sampled is set.
type Metric[T stats.Number] struct {
	Max  T
	Min  T
	Avg  T
	Last T

	Committed bool
	Sampled   bool
}

// CPU - cpu family records
type CPU struct {
	Usage Metric[float64]
	Freq  Metric[uint64]
}

// Memory - memory family records
type Memory struct {
	Free      Metric[uint64]
	Used      Metric[uint64]
	Available Metric[uint64]
	Buffers   Metric[uint64]
}

// Network - rx/tx records of one interface
type Network struct {
	Rx Metric[uint64]
	Tx Metric[uint64]
}

// Snapshot - published statistics as of one rebuild
type Snapshot struct {
	Generation uint64 // number of rebuilds so far
	UpdatedAt  time.Time

	Timestamp Metric[int64]
	CPU       CPU
	Memory    Memory
	Disks     map[string]Metric[uint64]
	Networks  map[string]Network

	Host     metrics.HostInfo
	Counters metrics.Counters
}

// Clone returns a copy sharing no memory with s
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Disks = maps.Clone(s.Disks)
	out.Networks = maps.Clone(s.Networks)

	return out
}

// Ready reports whether at least one sample was taken
func (s Snapshot) Ready() bool {
	return s.Timestamp.Sampled
}

func (c CPU) committed() bool {
	return c.Usage.Committed || c.Freq.Committed
}

func (m Memory) committed() bool {
	return m.Free.Committed || m.Used.Committed || m.Available.Committed || m.Buffers.Committed
}

func (n Network) committed() bool {
	return n.Rx.Committed || n.Tx.Committed
}

func metricOf[T stats.Number](r *stats.RollingStat[T]) Metric[T] {
	var m Metric[T]

	if sum, ok := r.Committed(); ok {
		m.Max, m.Min, m.Avg = sum.Max, sum.Min, sum.Avg
		m.Committed = true
	}

	if last, ok := r.Last(); ok {
		m.Last = last
		m.Sampled = true
	}

	return m
}
