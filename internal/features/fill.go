package features

import (
	"math"
	"slices"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// forwardFill replaces non-finite entries with the last finite value seen.
// Leading gaps stay NaN.
func forwardFill(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if finite(v) {
			last = v
			continue
		}
		values[i] = last
	}
}

// backwardFill replaces non-finite entries with the next finite value.
func backwardFill(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if finite(values[i]) {
			next = values[i]
			continue
		}
		values[i] = next
	}
}

// fillConstant replaces every non-finite entry with v and returns how many were replaced.
func fillConstant(values []float64, v float64) int {
	filled := 0
	for i, x := range values {
		if !finite(x) {
			values[i] = v
			filled++
		}
	}
	return filled
}

// sortedFinite returns the finite entries in ascending order.
func sortedFinite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median of the finite entries; NaN when there are none.
func Median(values []float64) float64 {
	return quantile(sortedFinite(values), 0.5)
}

// clip bounds every finite entry to [lower, upper].
func clip(values []float64, lower, upper float64) int {
	clipped := 0
	for i, v := range values {
		if !finite(v) {
			continue
		}
		if v < lower {
			values[i] = lower
			clipped++
		} else if v > upper {
			values[i] = upper
			clipped++
		}
	}
	return clipped
}
