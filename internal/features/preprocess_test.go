package features

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlab/internal/finerr"
)

func TestPreprocessCapsOutliersAndFillsGaps(t *testing.T) {
	series := makeSeries(10, func(int) float64 { return 10 })
	series.Bars[9].Price = 1000
	series.Bars[4].Price = math.NaN()
	series.Bars[0].Open = math.NaN()
	original := slices.Clone(series.Bars)

	out := Preprocess(series)
	require.Len(t, out.Bars, 10)

	assert.Equal(t, 10.0, out.Bars[9].Price)
	assert.Equal(t, 10.0, out.Bars[4].Price)
	assert.Equal(t, 10.0, out.Bars[0].Open)
	assert.True(t, out.HasChange)
	assert.True(t, math.IsNaN(out.Bars[0].ChangePct))
	assert.Equal(t, 0.0, out.Bars[1].ChangePct)

	assert.Equal(t, 1000.0, original[9].Price)
	assert.Equal(t, 1000.0, series.Bars[9].Price)
}

func TestPreprocessKeepsProvidedChange(t *testing.T) {
	series := makeSeries(4, func(i int) float64 { return float64(i + 1) })
	series.HasChange = true
	for i := range series.Bars {
		series.Bars[i].ChangePct = float64(i)
	}
	series.Bars[2].ChangePct = math.NaN()

	out := Preprocess(series)
	assert.Equal(t, 1.0, out.Bars[2].ChangePct)
	assert.Equal(t, 3.0, out.Bars[3].ChangePct)
}

func TestPreprocessKeepsSeriesFlags(t *testing.T) {
	series := makeSeries(3, func(i int) float64 { return float64(i + 1) })
	series.HasVolume = true
	series.SyntheticDates = true

	out := Preprocess(series)
	assert.True(t, out.HasVolume)
	assert.True(t, out.SyntheticDates)
	assert.True(t, out.HasChange)
	assert.False(t, series.HasChange)
}

func TestPreprocessSortsBeforeDerivingChange(t *testing.T) {
	series := makeSeries(3, func(i int) float64 { return float64(10 * (i + 1)) })
	slices.Reverse(series.Bars)

	out := Preprocess(series)
	assert.Equal(t, 10.0, out.Bars[0].Price)
	assert.InDelta(t, 100.0, out.Bars[1].ChangePct, 1e-9)
	assert.InDelta(t, 50.0, out.Bars[2].ChangePct, 1e-9)
}

func TestSplitIsDeterministic(t *testing.T) {
	fs, err := Engineer(makeSeries(10, func(i int) float64 { return float64(i + 1) }))
	require.NoError(t, err)

	train, test, err := Split(fs, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, test.Len())
	assert.Equal(t, fs.Columns, train.Columns)

	train2, test2, err := Split(fs, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train.Y, train2.Y)
	assert.Equal(t, test.Y, test2.Y)

	all := append(slices.Clone(train.Y), test.Y...)
	slices.Sort(all)
	assert.Equal(t, fs.Y, all)
}

func TestSplitRejectsDegenerateFractions(t *testing.T) {
	fs, err := Engineer(makeSeries(3, func(int) float64 { return 1 }))
	require.NoError(t, err)

	for _, frac := range []float64{0, 1, -0.5, math.NaN()} {
		_, _, err := Split(fs, frac, 1)
		assert.ErrorIs(t, err, finerr.ErrInvalidInput)
	}

	one, err := Engineer(makeSeries(1, func(int) float64 { return 1 }))
	require.NoError(t, err)
	_, _, err = Split(one, 0.5, 1)
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)
}
