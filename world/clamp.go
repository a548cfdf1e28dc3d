package world

import "golang.org/x/exp/constraints"

// clamp restricts v to [lo, hi]. Used by Phase E's battery arithmetic,
// where charge must stay within [0, 100].
func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
