package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SMA is the trailing simple moving average. The first window-1 entries are
// NaN, as is any window that contains a NaN.
func SMA(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		return stat.Mean(w, nil)
	})
}

// RollingStd is the trailing sample standard deviation (n-1 denominator).
func RollingStd(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		return stat.StdDev(w, nil)
	})
}

func rolling(values []float64, window int, fn func([]float64) float64) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		out[i] = fn(w)
	}
	return out
}

// EMA is the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first observed value. NaN inputs carry the previous
// average forward without updating it.
func EMA(values []float64, span int) []float64 {
	out := nanSlice(len(values))
	if span <= 0 {
		return out
	}
	alpha := 2 / (float64(span) + 1)
	avg := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
		case math.IsNaN(avg):
			avg = v
		default:
			avg = alpha*v + (1-alpha)*avg
		}
		out[i] = avg
	}
	return out
}

// PctChange returns the fractional change against the value `periods` bars
// earlier. A zero base yields an infinity, which later fill treats as missing.
func PctChange(values []float64, periods int) []float64 {
	out := nanSlice(len(values))
	for i := periods; i < len(values); i++ {
		base := values[i-periods]
		out[i] = values[i]/base - 1
	}
	return out
}

// Diff returns values[i] - values[i-1]; the first entry is NaN.
func Diff(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// RSI computes the relative strength index from simple rolling means of
// gains and losses. Windows without losses resolve to 100; the returned
// count reports how often that fallback applied.
func RSI(values []float64, window int) ([]float64, int) {
	delta := Diff(values)
	gains := nanSlice(len(delta))
	losses := nanSlice(len(delta))
	for i, d := range delta {
		if math.IsNaN(d) {
			continue
		}
		gains[i] = math.Max(d, 0)
		losses[i] = math.Max(-d, 0)
	}

	avgGain := SMA(gains, window)
	avgLoss := SMA(losses, window)

	out := nanSlice(len(values))
	fallbacks := 0
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			out[i] = 100
			fallbacks++
			continue
		}
		out[i] = 100 - 100/(1+g/l)
	}
	return out, fallbacks
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
