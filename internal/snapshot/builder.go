package snapshot

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
	"github.com/teslafields/sysinfo-reader/internal/pkg/utils"
	"github.com/teslafields/sysinfo-reader/internal/registry"
)

// Builder - owner of the published Snapshot.
// Rebuild is called by the single sampler goroutine; readers only ever get clones.
type Builder struct {
	snap Snapshot
	mu   *sync.RWMutex

	curTime utils.Provider[time.Time]
}

// Config - builder config
type Config struct {
	Host    metrics.HostInfo
	CurTime utils.Provider[time.Time]
}

// New returns new Builder holding an empty snapshot
func New(cfg Config) *Builder {
	curTime := cfg.CurTime
	if curTime == nil {
		curTime = utils.Now
	}

	return &Builder{
		snap: Snapshot{
			Disks:    make(map[string]Metric[uint64]),
			Networks: make(map[string]Network),
			Host:     cfg.Host,
		},
		mu:      &sync.RWMutex{},
		curTime: curTime,
	}
}

// Rebuild copies published statistics of every registry stat into the snapshot.
// The write lock is held for the whole copy, so readers never see a mix of two rebuilds.
func (b *Builder) Rebuild(ctx context.Context, reg *registry.Registry) {
	now := b.curTime(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.snap.Generation++
	b.snap.UpdatedAt = now
	b.snap.Counters = metrics.Load()

	b.snap.Timestamp = metricOf(reg.Timestamp)

	b.snap.CPU = CPU{
		Usage: metricOf(reg.CPU.Usage),
		Freq:  metricOf(reg.CPU.Freq),
	}

	b.snap.Memory = Memory{
		Free:      metricOf(reg.Memory.Free),
		Used:      metricOf(reg.Memory.Used),
		Available: metricOf(reg.Memory.Available),
		Buffers:   metricOf(reg.Memory.Buffers),
	}

	for _, name := range reg.DiskNames() {
		d, _ := reg.Disk(name)
		b.snap.Disks[name] = metricOf(d)
	}

	for _, name := range reg.NetworkNames() {
		n, _ := reg.Network(name)
		b.snap.Networks[name] = Network{
			Rx: metricOf(n.Rx),
			Tx: metricOf(n.Tx),
		}
	}
}

// Read returns a copy of the published snapshot
func (b *Builder) Read() Snapshot {
	metrics.IncSnapshotReads()

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.snap.Clone()
}

// CPU returns cpu records, or errors.ErrUnavailable before their first commit
func (b *Builder) CPU() (CPU, error) {
	metrics.IncSnapshotReads()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.snap.CPU.committed() {
		return CPU{}, unavailable(registry.FamilyCPU)
	}

	return b.snap.CPU, nil
}

// Memory returns memory records, or errors.ErrUnavailable before their first commit
func (b *Builder) Memory() (Memory, error) {
	metrics.IncSnapshotReads()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.snap.Memory.committed() {
		return Memory{}, unavailable(registry.FamilyMemory)
	}

	return b.snap.Memory, nil
}

// Disks returns disk records, or errors.ErrUnavailable until some disk has committed
func (b *Builder) Disks() (map[string]Metric[uint64], error) {
	metrics.IncSnapshotReads()

	b.mu.RLock()
	defer b.mu.RUnlock()

	ok := lo.SomeBy(lo.Values(b.snap.Disks), func(m Metric[uint64]) bool { return m.Committed })
	if !ok {
		return nil, unavailable(registry.FamilyDisk)
	}

	return maps.Clone(b.snap.Disks), nil
}

// Networks returns interface records, or errors.ErrUnavailable until some interface has committed
func (b *Builder) Networks() (map[string]Network, error) {
	metrics.IncSnapshotReads()

	b.mu.RLock()
	defer b.mu.RUnlock()

	ok := lo.SomeBy(lo.Values(b.snap.Networks), Network.committed)
	if !ok {
		return nil, unavailable(registry.FamilyNetwork)
	}

	return maps.Clone(b.snap.Networks), nil
}

func unavailable(f registry.Family) error {
	return fmt.Errorf("%s: %w", f, errors.ErrUnavailable)
}
