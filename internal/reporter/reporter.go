package reporter

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/teslafields/sysinfo-reader/internal/registry"
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
	"github.com/teslafields/sysinfo-reader/internal/stats"
)

// SnapshotReader - source of published snapshots
type SnapshotReader interface {
	Read() snapshot.Snapshot
}

// Reporter - periodically logs the published snapshot
type Reporter struct {
	snapshots SnapshotReader
	interval  time.Duration
	logger    *log.Logger
}

// Config - reporter config
type Config struct {
	Snapshots SnapshotReader
	Interval  time.Duration
	Logger    *log.Logger // defaults to log.Default()
}

// New returns new Reporter
func New(cfg Config) *Reporter {
	return &Reporter{
		snapshots: cfg.Snapshots,
		interval:  cfg.Interval,
		logger:    lo.Ternary(cfg.Logger != nil, cfg.Logger, log.Default()),
	}
}

// Run logs a report every interval until ctx is done. No-op for zero interval
func (r *Reporter) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap := r.snapshots.Read()
		if !snap.Ready() {
			continue
		}

		for _, line := range Format(snap, time.Now()) {
			r.logger.Printf("[REPORT] %s", line)
		}
	}
}

// Format renders snap as report lines. Disks and interfaces are sorted by name
func Format(snap snapshot.Snapshot, now time.Time) []string {
	h := snap.Host

	lines := []string{
		fmt.Sprintf("host=%s os=%s/%s kernel=%s uptime=%s cores=%d mem_total=%d swap_total=%d",
			h.Hostname, h.OS, h.Platform, h.KernelVersion, h.Uptime(now).Truncate(time.Second),
			h.PhysicalCores, h.TotalMemory, h.TotalSwap),
		fmt.Sprintf("generation=%d updated=%s ticks=%d read_errors=%d dropped=%d",
			snap.Generation, snap.UpdatedAt.Format(time.RFC3339), snap.Counters.Ticks,
			snap.Counters.ReadErrors, snap.Counters.Dropped),
		line(registry.CPUUsage, snap.CPU.Usage),
		line(registry.CPUFreq, snap.CPU.Freq),
		line(registry.MemFree, snap.Memory.Free),
		line(registry.MemUsed, snap.Memory.Used),
		line(registry.MemAvailable, snap.Memory.Available),
		line(registry.MemBuffers, snap.Memory.Buffers),
	}

	for _, name := range sortedKeys(snap.Disks) {
		lines = append(lines, line("disk "+name, snap.Disks[name]))
	}

	for _, name := range sortedKeys(snap.Networks) {
		n := snap.Networks[name]
		lines = append(lines,
			line("net "+name+" rx", n.Rx),
			line("net "+name+" tx", n.Tx),
		)
	}

	return lines
}

func line[T stats.Number](name string, m snapshot.Metric[T]) string {
	last := "-"
	if m.Sampled {
		last = fmt.Sprint(m.Last)
	}

	if !m.Committed {
		return fmt.Sprintf("%-24s last=%s (no statistics yet)", name, last)
	}

	return fmt.Sprintf("%-24s min=%v max=%v avg=%v last=%s", name, m.Min, m.Max, m.Avg, last)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)

	return keys
}
