package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// OutlierIQRMultiplier bounds price columns to [Q1 - k*IQR, Q3 + k*IQR].
const OutlierIQRMultiplier = 3.0

// Preprocess cleans a raw series before feature engineering: it sorts by
// date, fills gaps in the price columns, caps price outliers and derives the
// percentage change column when the source did not provide one. The input
// series is left untouched.
func Preprocess(series Series) Series {
	bars := sortedCopy(series.Bars)
	out := series
	out.Bars = bars
	if len(bars) == 0 {
		return out
	}

	gapFilled := []func(*PriceBar) *float64{openField, highField, lowField, priceField}
	if series.HasVolume {
		gapFilled = append(gapFilled, volumeField)
	}
	for _, field := range gapFilled {
		values := extract(bars, field)
		forwardFill(values)
		backwardFill(values)
		store(bars, field, values)
	}

	if series.HasChange {
		values := extract(bars, changeField)
		if med := Median(values); !math.IsNaN(med) {
			fillConstant(values, med)
		}
		store(bars, changeField, values)
	}

	for _, field := range []func(*PriceBar) *float64{openField, highField, lowField, priceField} {
		values := extract(bars, field)
		sorted := sortedFinite(values)
		if len(sorted) == 0 {
			continue
		}
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		clip(values, q1-OutlierIQRMultiplier*iqr, q3+OutlierIQRMultiplier*iqr)
		store(bars, field, values)
	}

	if !series.HasChange {
		change := PctChange(extract(bars, priceField), 1)
		floats.Scale(100, change)
		store(bars, changeField, change)
		out.HasChange = true
	}

	return out
}

func openField(b *PriceBar) *float64   { return &b.Open }
func highField(b *PriceBar) *float64   { return &b.High }
func lowField(b *PriceBar) *float64    { return &b.Low }
func priceField(b *PriceBar) *float64  { return &b.Price }
func volumeField(b *PriceBar) *float64 { return &b.Volume }
func changeField(b *PriceBar) *float64 { return &b.ChangePct }

func extract(bars []PriceBar, field func(*PriceBar) *float64) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = *field(&bars[i])
	}
	return out
}

func store(bars []PriceBar, field func(*PriceBar) *float64, values []float64) {
	for i := range bars {
		*field(&bars[i]) = values[i]
	}
}
