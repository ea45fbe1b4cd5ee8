package metrics

import "time"

// Readings - one raw reading set taken from the host.
// Nil fields were not obtained during the read.
type Readings struct {
	CPUUsage *float64 // percent, all cores
	CPUFreq  *uint64  // MHz, averaged across cores
	Memory   *Memory
	Disks    map[string]uint64      // used bytes by device
	Networks map[string]NetCounters // cumulative counters by interface
}

// Memory - virtual memory reading, in bytes
type Memory struct {
	Free      uint64
	Used      uint64
	Available uint64
	Buffers   uint64 // buffers + page cache
}

// NetCounters - cumulative interface byte counters
type NetCounters struct {
	Rx uint64
	Tx uint64
}

// Devices - devices present at startup
type Devices struct {
	Disks      []string
	Interfaces []string
}

// HostInfo - static host facts, read once at startup
type HostInfo struct {
	Hostname        string
	OS              string
	Platform        string
	PlatformVersion string
	KernelVersion   string
	PhysicalCores   int
	TotalMemory     uint64
	TotalSwap       uint64
	BootTime        time.Time
}

// Uptime returns host uptime at now
func (h HostInfo) Uptime(now time.Time) time.Duration {
	if h.BootTime.IsZero() {
		return 0
	}

	return now.Sub(h.BootTime)
}
