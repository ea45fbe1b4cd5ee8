package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Collector - host metrics provider backed by gopsutil
type Collector struct{}

// NewCollector returns new Collector
func NewCollector() *Collector {
	return &Collector{}
}

// Read takes one reading set. Subsystems are read concurrently; a failing
// subsystem leaves its fields nil and contributes to the joined error,
// so callers get partial Readings alongside a non-nil error.
func (c *Collector) Read(ctx context.Context) (*Readings, error) {
	var (
		r  Readings
		eg errgroup.Group

		usageErr, freqErr, memErr, diskErr, netErr error
	)

	eg.Go(func() error {
		usage, err := c.UsageCPU(ctx)
		if err == nil {
			r.CPUUsage = &usage
		}
		usageErr = err

		return nil
	})

	eg.Go(func() error {
		freq, err := c.FrequencyCPU(ctx)
		if err == nil {
			r.CPUFreq = &freq
		}
		freqErr = err

		return nil
	})

	eg.Go(func() error {
		r.Memory, memErr = c.Memory(ctx)
		return nil
	})

	eg.Go(func() error {
		r.Disks, diskErr = c.DiskUsage(ctx)
		return nil
	})

	eg.Go(func() error {
		r.Networks, netErr = c.NetCounters(ctx)
		return nil
	})

	_ = eg.Wait()

	return &r, errors.Join(usageErr, freqErr, memErr, diskErr, netErr)
}

// UsageCPU returns CPU usage since the previous call, in percent
func (c *Collector) UsageCPU(ctx context.Context) (float64, error) {
	usages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("cpu.PercentWithContext: %w", err)
	}
	if len(usages) == 0 {
		return 0, errors.New("cpu.PercentWithContext: empty result")
	}

	return usages[0], nil
}

// FrequencyCPU returns current CPU frequency averaged across cores, in MHz
func (c *Collector) FrequencyCPU(ctx context.Context) (uint64, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("cpu.InfoWithContext: %w", err)
	}
	if len(infos) == 0 {
		return 0, errors.New("cpu.InfoWithContext: empty result")
	}

	mhz := lo.SumBy(infos, func(i cpu.InfoStat) float64 { return i.Mhz })

	return uint64(mhz / float64(len(infos))), nil
}

// Memory returns virtual memory reading
func (c *Collector) Memory(ctx context.Context) (*Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("mem.VirtualMemoryWithContext: %w", err)
	}

	return &Memory{
		Free:      vm.Free,
		Used:      vm.Used,
		Available: vm.Available,
		Buffers:   vm.Buffers + vm.Cached,
	}, nil
}

// DiskUsage returns used space (total minus available) for every mounted device.
// A device mounted several times is reported once, from its first mountpoint.
func (c *Collector) DiskUsage(ctx context.Context) (map[string]uint64, error) {
	parts, err := c.partitions(ctx)
	if err != nil {
		return nil, err
	}

	var (
		used = make(map[string]uint64, len(parts))
		errs []error
	)

	for _, p := range parts {
		u, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			errs = append(errs, fmt.Errorf("disk.UsageWithContext(%s): %w", p.Mountpoint, err))
			continue
		}

		used[p.Device] = u.Total - u.Free
	}

	return used, errors.Join(errs...)
}

// NetCounters returns cumulative byte counters for every interface
func (c *Collector) NetCounters(ctx context.Context) (map[string]NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("net.IOCountersWithContext: %w", err)
	}

	out := make(map[string]NetCounters, len(counters))
	for _, cnt := range counters {
		out[cnt.Name] = NetCounters{Rx: cnt.BytesRecv, Tx: cnt.BytesSent}
	}

	return out, nil
}

// Devices enumerates disks and network interfaces present now
func (c *Collector) Devices(ctx context.Context) (Devices, error) {
	var devs Devices

	parts, diskErr := c.partitions(ctx)
	devs.Disks = lo.Map(parts, func(p disk.PartitionStat, _ int) string { return p.Device })

	counters, netErr := net.IOCountersWithContext(ctx, true)
	if netErr != nil {
		netErr = fmt.Errorf("net.IOCountersWithContext: %w", netErr)
	}
	devs.Interfaces = lo.Map(counters, func(cnt net.IOCountersStat, _ int) string { return cnt.Name })

	return devs, errors.Join(diskErr, netErr)
}

// HostInfo returns static host facts. Fields that could not be read stay zero
func (c *Collector) HostInfo(ctx context.Context) (HostInfo, error) {
	var (
		info HostInfo
		errs []error
	)

	if h, err := host.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host.InfoWithContext: %w", err))
	} else {
		info.Hostname = h.Hostname
		info.OS = h.OS
		info.Platform = h.Platform
		info.PlatformVersion = h.PlatformVersion
		info.KernelVersion = h.KernelVersion
		info.BootTime = time.Unix(int64(h.BootTime), 0) // nolint: gosec
	}

	if cores, err := cpu.CountsWithContext(ctx, false); err != nil {
		errs = append(errs, fmt.Errorf("cpu.CountsWithContext: %w", err))
	} else {
		info.PhysicalCores = cores
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mem.VirtualMemoryWithContext: %w", err))
	} else {
		info.TotalMemory = vm.Total
	}

	if sw, err := mem.SwapMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("mem.SwapMemoryWithContext: %w", err))
	} else {
		info.TotalSwap = sw.Total
	}

	return info, errors.Join(errs...)
}

// partitions returns mounted partitions, one per device
func (c *Collector) partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk.PartitionsWithContext: %w", err)
	}

	return lo.UniqBy(parts, func(p disk.PartitionStat) string { return p.Device }), nil
}
