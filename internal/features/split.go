package features

import (
	"math"
	"math/rand/v2"
	"time"

	"finlab/internal/finerr"
)

// Split shuffles rows with a seeded generator and partitions them into a
// train and a test set. The test side receives ceil(n*testFraction) rows.
func Split(set FeatureSet, testFraction float64, seed uint64) (train, test FeatureSet, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return FeatureSet{}, FeatureSet{}, finerr.Invalid("test fraction must be within (0, 1), got %v", testFraction)
	}
	n := set.Len()
	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest < 1 || n-nTest < 1 {
		return FeatureSet{}, FeatureSet{}, finerr.Invalid("cannot split %d rows with test fraction %v", n, testFraction)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)

	test = subset(set, perm[:nTest])
	train = subset(set, perm[nTest:])
	return train, test, nil
}

func subset(set FeatureSet, idx []int) FeatureSet {
	out := FeatureSet{
		Columns:     set.Columns,
		X:           make([][]float64, len(idx)),
		Y:           make([]float64, len(idx)),
		Dates:       make([]time.Time, len(idx)),
		Diagnostics: set.Diagnostics,
	}
	for i, j := range idx {
		out.X[i] = set.X[j]
		out.Y[i] = set.Y[j]
		if j < len(set.Dates) {
			out.Dates[i] = set.Dates[j]
		}
	}
	return out
}
