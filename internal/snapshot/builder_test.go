package snapshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
	"github.com/teslafields/sysinfo-reader/internal/pkg/testutils"
	"github.com/teslafields/sysinfo-reader/internal/pkg/utils"
	"github.com/teslafields/sysinfo-reader/internal/registry"
)

type builderTestSuite struct {
	now time.Time
	reg *registry.Registry
	b   *Builder

	suite.Suite
}

func TestBuilderTestSuite(t *testing.T) {
	t.Parallel()

	suite.Run(t, new(builderTestSuite))
}

func (s *builderTestSuite) SetupTest() {
	s.now = testutils.MustParseDate(s.T(), "2025-01-01")

	s.reg = registry.Build(registry.Config{Capacity: 2}, metrics.Devices{
		Disks:      []string{"/dev/sda1"},
		Interfaces: []string{"eth0"},
	})

	s.b = New(Config{
		Host:    metrics.HostInfo{Hostname: "box"},
		CurTime: utils.Const(s.now),
	})
}

// pushAll pushes v into every registry stat
func (s *builderTestSuite) pushAll(v uint64) {
	pushEverywhere(s.reg, v)
}

func pushEverywhere(reg *registry.Registry, v uint64) {
	reg.Timestamp.Push(int64(v)) // nolint: gosec
	reg.CPU.Usage.Push(float64(v))
	reg.CPU.Freq.Push(v)
	reg.Memory.Free.Push(v)
	reg.Memory.Used.Push(v)
	reg.Memory.Available.Push(v)
	reg.Memory.Buffers.Push(v)

	for _, name := range reg.DiskNames() {
		d, _ := reg.Disk(name)
		d.Push(v)
	}

	for _, name := range reg.NetworkNames() {
		n, _ := reg.Network(name)
		n.Rx.Push(v)
		n.Tx.Push(v)
	}
}

func (s *builderTestSuite) TestEmpty() {
	snap := s.b.Read()

	s.False(snap.Ready())
	s.Zero(snap.Generation)
	s.Equal("box", snap.Host.Hostname)
	s.Empty(snap.Disks)

	_, err := s.b.CPU()
	s.ErrorIs(err, errors.ErrUnavailable)

	_, err = s.b.Memory()
	s.ErrorIs(err, errors.ErrUnavailable)

	_, err = s.b.Disks()
	s.ErrorIs(err, errors.ErrUnavailable)

	_, err = s.b.Networks()
	s.ErrorIs(err, errors.ErrUnavailable)
}

func (s *builderTestSuite) TestSampledBeforeCommit() {
	s.pushAll(7)
	s.b.Rebuild(s.T().Context(), s.reg)

	snap := s.b.Read()
	s.True(snap.Ready())
	s.Equal(uint64(1), snap.Generation)
	s.Equal(s.now, snap.UpdatedAt)

	s.True(snap.CPU.Freq.Sampled)
	s.False(snap.CPU.Freq.Committed)
	s.Equal(uint64(7), snap.CPU.Freq.Last)

	s.Contains(snap.Disks, "/dev/sda1", "entry created lazily at first rebuild")

	_, err := s.b.CPU()
	s.ErrorIs(err, errors.ErrUnavailable, "last alone is not a statistic")
}

func (s *builderTestSuite) TestCommitted() {
	s.pushAll(2)
	s.pushAll(4)
	s.b.Rebuild(s.T().Context(), s.reg)

	cpu, err := s.b.CPU()
	s.Require().NoError(err)
	s.Equal(Metric[float64]{Max: 4, Min: 2, Avg: 3, Last: 4, Committed: true, Sampled: true}, cpu.Usage)

	mem, err := s.b.Memory()
	s.Require().NoError(err)
	s.Equal(uint64(3), mem.Buffers.Avg)

	disks, err := s.b.Disks()
	s.Require().NoError(err)
	s.Equal(uint64(4), disks["/dev/sda1"].Max)

	nets, err := s.b.Networks()
	s.Require().NoError(err)
	s.Equal(uint64(2), nets["eth0"].Tx.Min)
}

func (s *builderTestSuite) TestReadIsIndependentCopy() {
	s.pushAll(1)
	s.b.Rebuild(s.T().Context(), s.reg)

	snap := s.b.Read()
	snap.Disks["/dev/sda1"] = Metric[uint64]{Last: 999}
	delete(snap.Networks, "eth0")
	snap.CPU.Freq.Last = 999

	again := s.b.Read()
	s.Equal(uint64(1), again.Disks["/dev/sda1"].Last)
	s.Contains(again.Networks, "eth0")
	s.Equal(uint64(1), again.CPU.Freq.Last)
}

func (s *builderTestSuite) TestOnlyRegisteredDevices() {
	s.pushAll(1)
	s.b.Rebuild(s.T().Context(), s.reg)

	snap := s.b.Read()
	s.Len(snap.Disks, 1)
	s.Len(snap.Networks, 1)
	s.NotContains(snap.Networks, "wlan0")
}

// TestRebuildAtomic verifies that concurrent readers never observe fields of
// two different rebuilds within one snapshot.
func TestRebuildAtomic(t *testing.T) {
	t.Parallel()

	const (
		readers = 8
		rounds  = 500
	)

	reg := registry.Build(registry.Config{Capacity: 1}, metrics.Devices{
		Disks:      []string{"a", "b", "c"},
		Interfaces: []string{"x", "y"},
	})
	b := New(Config{})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan string, readers)

	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for ctx.Err() == nil {
				snap := b.Read()
				if !snap.Ready() {
					continue
				}

				want := uint64(snap.Timestamp.Last) // nolint: gosec
				ok := snap.CPU.Freq.Last == want &&
					snap.CPU.Usage.Avg == float64(want) &&
					snap.Memory.Buffers.Max == want
				for _, d := range snap.Disks {
					ok = ok && d.Last == want && d.Avg == want
				}
				for _, n := range snap.Networks {
					ok = ok && n.Rx.Last == want && n.Tx.Min == want
				}

				if !ok {
					errCh <- "torn snapshot observed"
					return
				}
			}
		}()
	}

	for i := range rounds {
		pushEverywhere(reg, uint64(i+1))
		b.Rebuild(ctx, reg)
	}

	cancel()
	wg.Wait()
	close(errCh)

	for msg := range errCh {
		require.Fail(t, msg)
	}

	require.Equal(t, uint64(rounds), b.Read().Generation)
}
