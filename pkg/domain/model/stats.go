package model

import (
	"math"
	"sort"
)

// Round2 rounds v to two decimal places for display
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mean is a running mean, so it stays finite for any finite input
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var m float64
	for i, v := range values {
		n := float64(i + 1)
		m += v/n - m/n
	}
	// rounding may step just outside the observed range
	lo, hi := minMax(values)
	return math.Max(lo, math.Min(hi, m))
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// sampleStdDev uses the n-1 denominator; a single value has no spread and yields 0.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	// deviations are taken on values scaled into [-1, 1] and scaled back at the end
	var scale float64
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}
	if scale == 0 {
		return 0
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / scale
	}
	m := mean(scaled)
	var ss float64
	for _, v := range scaled {
		ss += (v - m) * (v - m)
	}
	return scale * math.Sqrt(ss/float64(len(values)-1))
}

// quantile returns the q-th quantile of sorted values with linear interpolation
// between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
