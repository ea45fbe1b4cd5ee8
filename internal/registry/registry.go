package registry

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
	"github.com/teslafields/sysinfo-reader/internal/stats"
)

// Fixed metric names
const (
	CPUUsage     = "cpu_usage"
	CPUFreq      = "cpu_freq"
	MemFree      = "mem_free"
	MemUsed      = "mem_used"
	MemAvailable = "mem_available"
	MemBuffers   = "mem_buffers"
	Timestamp    = "timestamp"
)

// CPU - cpu family stats
type CPU struct {
	Usage *stats.RollingStat[float64]
	Freq  *stats.RollingStat[uint64]
}

// Memory - memory family stats
type Memory struct {
	Free      *stats.RollingStat[uint64]
	Used      *stats.RollingStat[uint64]
	Available *stats.RollingStat[uint64]
	Buffers   *stats.RollingStat[uint64]
}

// Network - rx/tx stats of one interface
type Network struct {
	Rx *stats.RollingStat[uint64]
	Tx *stats.RollingStat[uint64]
}

// Config - registry config, shared by every stat
type Config struct {
	Capacity int
	Resets   bool
}

// Registry - every RollingStat the sampler writes to.
// The device set is fixed at Build; it is never rescanned.
type Registry struct {
	CPU       CPU
	Memory    Memory
	Timestamp *stats.RollingStat[int64]

	disks    map[string]*stats.RollingStat[uint64]
	networks map[string]*Network

	diskNames    []string
	networkNames []string

	cfg Config
}

// Build allocates stats for the fixed metrics and for every discovered device
func Build(cfg Config, devs metrics.Devices) *Registry {
	cfg.Capacity = max(cfg.Capacity, 1)

	reg := &Registry{
		CPU: CPU{
			Usage: stats.New[float64](cfg.Capacity, cfg.Resets),
			Freq:  stats.New[uint64](cfg.Capacity, cfg.Resets),
		},
		Memory: Memory{
			Free:      stats.New[uint64](cfg.Capacity, cfg.Resets),
			Used:      stats.New[uint64](cfg.Capacity, cfg.Resets),
			Available: stats.New[uint64](cfg.Capacity, cfg.Resets),
			Buffers:   stats.New[uint64](cfg.Capacity, cfg.Resets),
		},
		Timestamp: stats.New[int64](cfg.Capacity, cfg.Resets),

		disks:    make(map[string]*stats.RollingStat[uint64]),
		networks: make(map[string]*Network),

		cfg: cfg,
	}

	for _, d := range lo.Uniq(lo.Compact(devs.Disks)) {
		reg.disks[d] = stats.New[uint64](cfg.Capacity, cfg.Resets)
	}

	for _, n := range lo.Uniq(lo.Compact(devs.Interfaces)) {
		reg.networks[n] = &Network{
			Rx: stats.New[uint64](cfg.Capacity, cfg.Resets),
			Tx: stats.New[uint64](cfg.Capacity, cfg.Resets),
		}
	}

	reg.diskNames = lo.Keys(reg.disks)
	slices.Sort(reg.diskNames)

	reg.networkNames = lo.Keys(reg.networks)
	slices.Sort(reg.networkNames)

	return reg
}

// Disk returns used-space stat of a registered disk, or errors.ErrNotFound
func (r *Registry) Disk(name string) (*stats.RollingStat[uint64], error) {
	d, ok := r.disks[name]
	if !ok {
		return nil, fmt.Errorf("disk %q: %w", name, errors.ErrNotFound)
	}

	return d, nil
}

// Network returns stats of a registered interface, or errors.ErrNotFound
func (r *Registry) Network(name string) (*Network, error) {
	n, ok := r.networks[name]
	if !ok {
		return nil, fmt.Errorf("interface %q: %w", name, errors.ErrNotFound)
	}

	return n, nil
}

// DiskNames returns registered disk names, sorted
func (r *Registry) DiskNames() []string {
	return slices.Clone(r.diskNames)
}

// NetworkNames returns registered interface names, sorted
func (r *Registry) NetworkNames() []string {
	return slices.Clone(r.networkNames)
}

// Capacity returns window capacity shared by every stat
func (r *Registry) Capacity() int { return r.cfg.Capacity }

// Resets reports whether stats reset live extrema at each epoch
func (r *Registry) Resets() bool { return r.cfg.Resets }
