// Package core holds small numeric helpers shared by the pulse pipeline.
package core

import "math"

const defaultEpsilon = 1e-12

// NearlyEqual reports whether a and b are equal within eps, absolute for
// values near zero and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff/largest <= eps
}

// MinMax returns the smallest and largest value in x.
// Both are 0 for an empty slice.
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// NormalizeMinMax maps src linearly onto [0,1] and writes the result to dst.
// A constant input maps to all zeros. dst and src may alias; dst must be at
// least as long as src.
func NormalizeMinMax(dst, src []float64) {
	lo, hi := MinMax(src)
	span := hi - lo
	if !(span > math.SmallestNonzeroFloat64) {
		Zero(dst[:len(src)])
		return
	}
	scale := 1 / span
	for i, v := range src {
		dst[i] = (v - lo) * scale
	}
}
