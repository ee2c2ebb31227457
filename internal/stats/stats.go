// Package stats holds the descriptive statistics used by valuation and risk scoring.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is not positive
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean <= 0 {
		return 0
	}
	return StdDev(values) / mean
}

// PercentileIndex returns the index of the p-th percentile in an ascending
// slice of n values: clamp(ceil(p*n)-1, 0, n-1). Returns -1 for n == 0.
func PercentileIndex(n int, p float64) int {
	if n <= 0 {
		return -1
	}
	idx := int(math.Ceil(p*float64(n))) - 1
	return ClampInt(idx, 0, n-1)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
