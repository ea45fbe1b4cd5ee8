package stats

// Number - set of types, that can be sampled into a RollingStat
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Extrema - min/max pair
type Extrema[T Number] struct {
	Min T
	Max T
}

// Summary - statistics published at an epoch boundary
type Summary[T Number] struct {
	Min T
	Max T
	Avg T
}
