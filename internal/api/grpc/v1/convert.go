package v1

import (
	"time"

	"github.com/samber/lo"

	"github.com/teslafields/sysinfo-reader/internal/registry"
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
	"github.com/teslafields/sysinfo-reader/internal/stats"
)

// metricValue omits min/max/avg before the first commit and last before the first sample
func metricValue[T stats.Number](m snapshot.Metric[T]) map[string]any {
	v := map[string]any{
		"committed": m.Committed,
		"sampled":   m.Sampled,
	}

	if m.Committed {
		v["max"] = m.Max
		v["min"] = m.Min
		v["avg"] = m.Avg
	}

	if m.Sampled {
		v["last"] = m.Last
	}

	return v
}

func cpuValue(c snapshot.CPU) map[string]any {
	return map[string]any{
		registry.CPUUsage: metricValue(c.Usage),
		registry.CPUFreq:  metricValue(c.Freq),
	}
}

func memoryValue(m snapshot.Memory) map[string]any {
	return map[string]any{
		registry.MemFree:      metricValue(m.Free),
		registry.MemUsed:      metricValue(m.Used),
		registry.MemAvailable: metricValue(m.Available),
		registry.MemBuffers:   metricValue(m.Buffers),
	}
}

func disksValue(disks map[string]snapshot.Metric[uint64]) map[string]any {
	return lo.MapValues(disks, func(m snapshot.Metric[uint64], _ string) any {
		return metricValue(m)
	})
}

func networksValue(nets map[string]snapshot.Network) map[string]any {
	return lo.MapValues(nets, func(n snapshot.Network, _ string) any {
		return map[string]any{
			"rx_bytes": metricValue(n.Rx),
			"tx_bytes": metricValue(n.Tx),
		}
	})
}

func snapshotValue(s snapshot.Snapshot) map[string]any {
	h := s.Host

	return map[string]any{
		"generation":       s.Generation,
		"updated_at":       s.UpdatedAt.Format(time.RFC3339),
		registry.Timestamp: metricValue(s.Timestamp),

		registry.FamilyCPU.String():     cpuValue(s.CPU),
		registry.FamilyMemory.String():  memoryValue(s.Memory),
		registry.FamilyDisk.String():    disksValue(s.Disks),
		registry.FamilyNetwork.String(): networksValue(s.Networks),

		"host": map[string]any{
			"hostname":         h.Hostname,
			"os":               h.OS,
			"platform":         h.Platform,
			"platform_version": h.PlatformVersion,
			"kernel_version":   h.KernelVersion,
			"physical_cores":   h.PhysicalCores,
			"total_memory":     h.TotalMemory,
			"total_swap":       h.TotalSwap,
			"uptime_seconds":   int64(h.Uptime(time.Now()).Seconds()),
		},

		"counters": map[string]any{
			"ticks":          s.Counters.Ticks,
			"read_errors":    s.Counters.ReadErrors,
			"dropped":        s.Counters.Dropped,
			"snapshot_reads": s.Counters.SnapshotReads,
		},
	}
}
