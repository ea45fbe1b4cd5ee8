package stats

// RollingStat - fixed-capacity sliding window over samples of type T.
//
// Min/max are tracked on every push, while the published summary (min, max, avg)
// is recomputed only once per epoch, i.e. every Cap() pushes. With resets enabled
// the live extrema start over at each epoch boundary, otherwise they accumulate
// since the first push.
//
// RollingStat is not safe for concurrent use; it is owned by a single writer.
type RollingStat[T Number] struct {
	window []T
	head   int // next write position
	count  int // number of valid samples

	live    Extrema[T]
	liveSet bool

	committed    Summary[T]
	hasCommitted bool

	ticks  int // pushes since last commit
	resets bool
}

// New returns empty RollingStat. Capacity below 1 is raised to 1
func New[T Number](capacity int, resets bool) *RollingStat[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &RollingStat[T]{
		window: make([]T, capacity),
		resets: resets,
	}
}

// Push appends v, evicting the oldest sample when the window is full
func (r *RollingStat[T]) Push(v T) {
	r.window[r.head] = v
	r.head = (r.head + 1) % len(r.window)
	if r.count < len(r.window) {
		r.count++
	}

	if !r.liveSet {
		r.live = Extrema[T]{Min: v, Max: v}
		r.liveSet = true
	} else {
		r.live.Min = min(r.live.Min, v)
		r.live.Max = max(r.live.Max, v)
	}

	r.ticks++
	if r.ticks >= len(r.window) {
		r.commit()
	}
}

func (r *RollingStat[T]) commit() {
	r.committed = Summary[T]{
		Min: r.live.Min,
		Max: r.live.Max,
		Avg: mean(r.window[:r.count]),
	}
	r.hasCommitted = true

	if r.resets {
		r.live = Extrema[T]{}
		r.liveSet = false
	}

	r.ticks = 0
}

// LiveExtrema returns continuously updated min/max.
// ok is false if nothing was pushed since the last reset
func (r *RollingStat[T]) LiveExtrema() (Extrema[T], bool) {
	return r.live, r.liveSet
}

// Committed returns summary published at the last epoch boundary.
// ok is false before the first full epoch
func (r *RollingStat[T]) Committed() (Summary[T], bool) {
	return r.committed, r.hasCommitted
}

// Last returns the most recently pushed value
func (r *RollingStat[T]) Last() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}

	return r.window[(r.head-1+len(r.window))%len(r.window)], true
}

// Len returns the number of samples in the window
func (r *RollingStat[T]) Len() int { return r.count }

// Cap returns window capacity, which is also the epoch length
func (r *RollingStat[T]) Cap() int { return len(r.window) }

// Resets reports whether live extrema are reset at each epoch boundary
func (r *RollingStat[T]) Resets() bool { return r.resets }

// mean returns the arithmetic mean of vs. Integer means are exact and rounded
// towards negative infinity, so they never leave [min, max] of vs
func mean[T Number](vs []T) T {
	if !integer[T]() {
		var sum float64
		for _, v := range vs {
			sum += float64(v)
		}

		return T(sum / float64(len(vs)))
	}

	// running quotient and remainder of sum/n, so nothing overflows T
	n := T(len(vs))

	var q, rem T
	for _, v := range vs {
		vq := v / n
		q += vq
		rem += v - vq*n

		if rem < 0 {
			q--
			rem += n
		}
		if rem >= n {
			q++
			rem -= n
		}
	}

	return q
}

func integer[T Number]() bool {
	var one T = 1
	return one/2 == 0
}
