package sampler

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
	"github.com/teslafields/sysinfo-reader/internal/pkg/utils"
	"github.com/teslafields/sysinfo-reader/internal/registry"
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
)

// Provider - source of raw host readings
type Provider interface {
	// Read returns one reading set. A non-nil error may come together with
	// partial readings, which are still applied.
	Read(ctx context.Context) (*metrics.Readings, error)
}

// Sampler - the single writer of the registry and the snapshot builder.
//
// It wakes up every Poll and takes a sample once Interval has elapsed since
// the previous one, so the effective sampling period is Interval rounded up
// to a multiple of Poll.
type Sampler struct {
	provider Provider
	registry *registry.Registry
	builder  *snapshot.Builder

	interval    utils.Provider[time.Duration]
	poll        utils.Provider[time.Duration]
	readTimeout utils.Provider[time.Duration]
	curTime     utils.Provider[time.Time]
}

// Config - sampler config
type Config struct {
	Provider Provider
	Registry *registry.Registry
	Builder  *snapshot.Builder

	Interval    utils.Provider[time.Duration]
	Poll        utils.Provider[time.Duration] // defaults to 1s
	ReadTimeout utils.Provider[time.Duration] // defaults to 3s
	CurTime     utils.Provider[time.Time]     // defaults to time.Now
}

// New returns new Sampler
func New(cfg Config) *Sampler {
	curTime := cfg.CurTime
	if curTime == nil {
		curTime = utils.Now
	}

	return &Sampler{
		provider:    cfg.Provider,
		registry:    cfg.Registry,
		builder:     cfg.Builder,
		interval:    cfg.Interval,
		poll:        utils.OrConst(cfg.Poll, time.Second),
		readTimeout: utils.OrConst(cfg.ReadTimeout, 3*time.Second),
		curTime:     curTime,
	}
}

// Run drives the sampling loop until ctx is done
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.poll(ctx))
	defer ticker.Stop()

	last := s.curTime(ctx)

	log.Printf("[SAMPLER] started: interval=%s capacity=%d reset=%t",
		s.interval(ctx), s.registry.Capacity(), s.registry.Resets())

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SAMPLER] stopped after %d ticks", metrics.TotalTicks())
			return
		case <-ticker.C:
		}

		now := s.curTime(ctx)
		if now.Sub(last) < s.interval(ctx) {
			continue
		}

		if err := s.Tick(ctx); err != nil {
			log.Printf("[SAMPLER] stopped after %d ticks", metrics.TotalTicks())
			return
		}
		last = s.curTime(ctx)
	}
}

// Tick takes one sample, pushes it into the registry and rebuilds the snapshot.
// Provider failures are logged, not returned; the only error is errors.ErrCtxDone,
// in which case nothing is sampled
func (s *Sampler) Tick(ctx context.Context) error {
	if err := utils.CtxDone(ctx); err != nil {
		return fmt.Errorf("utils.CtxDone: %w", err)
	}

	readCtx, cancel := context.WithTimeout(ctx, s.readTimeout(ctx))
	readings, err := s.provider.Read(readCtx)
	cancel()

	if err != nil {
		metrics.IncReadErrors()
		log.Printf("[ERROR] sampler: provider read: %s", err)
	}

	if readings != nil {
		if dropped := s.push(readings); dropped > 0 {
			metrics.AddDropped(dropped)
		}
	}

	s.registry.Timestamp.Push(s.curTime(ctx).Unix())
	metrics.IncTicks()

	s.builder.Rebuild(ctx, s.registry)

	return nil
}

// push applies readings to the registry and returns the number of readings
// dropped because their device is not registered
func (s *Sampler) push(r *metrics.Readings) int {
	reg := s.registry

	if r.CPUUsage != nil {
		reg.CPU.Usage.Push(*r.CPUUsage)
	}
	if r.CPUFreq != nil {
		reg.CPU.Freq.Push(*r.CPUFreq)
	}

	if r.Memory != nil {
		reg.Memory.Free.Push(r.Memory.Free)
		reg.Memory.Used.Push(r.Memory.Used)
		reg.Memory.Available.Push(r.Memory.Available)
		reg.Memory.Buffers.Push(r.Memory.Buffers)
	}

	var dropped int

	for name, used := range r.Disks {
		d, err := reg.Disk(name)
		if stderrors.Is(err, errors.ErrNotFound) {
			dropped++
			continue
		}
		d.Push(used)
	}

	for name, cnt := range r.Networks {
		n, err := reg.Network(name)
		if stderrors.Is(err, errors.ErrNotFound) {
			dropped++
			continue
		}
		n.Rx.Push(cnt.Rx)
		n.Tx.Push(cnt.Tx)
	}

	return dropped
}
