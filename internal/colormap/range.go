package colormap

// Range accumulates the minimum and maximum depth seen across a run.
// The zero value is an empty range.
type Range struct {
	minKm float64
	maxKm float64
	seen  bool
}

// Observe folds one depth into the range.
func (r *Range) Observe(depthKm float64) {
	if !r.seen {
		r.minKm, r.maxKm, r.seen = depthKm, depthKm, true
		return
	}
	if depthKm < r.minKm {
		r.minKm = depthKm
	}
	if depthKm > r.maxKm {
		r.maxKm = depthKm
	}
}

// Merge folds another range into this one. Merging is associative and
// commutative, so ranges built over separate files combine in any
// order.
func (r *Range) Merge(other Range) {
	if !other.seen {
		return
	}
	r.Observe(other.minKm)
	r.Observe(other.maxKm)
}

// Bounds reports the observed extremes. ok is false while the range is
// empty.
func (r Range) Bounds() (minKm, maxKm float64, ok bool) {
	return r.minKm, r.maxKm, r.seen
}
