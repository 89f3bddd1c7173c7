// Package features derives technical-indicator features from a daily price
// series: moving averages, MACD, momentum, volatility, RSI, Bollinger bands
// and calendar fields. The target is the same-bar price.
package features

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"

	"finlab/internal/finerr"
)

// Column names of the feature matrix.
const (
	ColOpen            = "open"
	ColHigh            = "high"
	ColLow             = "low"
	ColVolume          = "volume"
	ColChangePct       = "change_pct"
	ColDayOfWeek       = "day_of_week"
	ColMonth           = "month"
	ColYear            = "year"
	ColDayOfMonth      = "day_of_month"
	ColQuarter         = "quarter"
	ColMA5             = "MA5"
	ColMA10            = "MA10"
	ColMA20            = "MA20"
	ColMA50            = "MA50"
	ColEMA12           = "EMA12"
	ColEMA26           = "EMA26"
	ColMACD            = "MACD"
	ColMACDSignal      = "MACD_signal"
	ColMomentum        = "price_momentum"
	ColVolatility      = "volatility"
	ColVolumeMA5       = "volume_MA5"
	ColVolumeChange    = "volume_change"
	ColDailyRange      = "daily_range"
	ColNormalizedRange = "normalized_range"
	ColRSI             = "RSI"
	ColBBMiddle        = "BB_middle"
	ColBBStd           = "BB_std"
	ColBBUpper         = "BB_upper"
	ColBBLower         = "BB_lower"
	ColBBWidth         = "BB_width"
)

// PriceBar is one daily observation. Missing values are NaN.
type PriceBar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Price     float64
	Volume    float64
	ChangePct float64
}

// Series is a price table together with the optional columns it carries.
type Series struct {
	Bars      []PriceBar
	HasVolume bool
	HasChange bool
	// SyntheticDates is set when the source had no usable dates and the bar
	// dates were generated.
	SyntheticDates bool
}

// Diagnostics reports degeneracies recovered during feature engineering.
type Diagnostics struct {
	// RSINoLoss counts bars whose RSI window had no losses and resolved to 100.
	RSINoLoss int
	// EmptyColumns lists columns with no valid value at all, filled with zero.
	EmptyColumns []string
	// Filled counts missing entries replaced by forward or median fill.
	Filled int
	// NonPositivePrices counts bars priced at or below zero. Percentage based
	// columns are unreliable on them.
	NonPositivePrices int
	Notes             []error
}

// FeatureSet is the engineered feature matrix X with its aligned target Y.
type FeatureSet struct {
	Columns     []string
	X           [][]float64
	Y           []float64
	Dates       []time.Time
	Diagnostics Diagnostics
}

// Len returns the number of rows.
func (fs FeatureSet) Len() int {
	return len(fs.X)
}

// Index returns the position of a column, or -1.
func (fs FeatureSet) Index(name string) int {
	return slices.Index(fs.Columns, name)
}

// Column returns a copy of the named column, or nil when it is absent.
func (fs FeatureSet) Column(name string) []float64 {
	idx := fs.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(fs.X))
	for i, row := range fs.X {
		out[i] = row[idx]
	}
	return out
}

// Value returns one cell addressed by row and column name.
func (fs FeatureSet) Value(row int, name string) (float64, bool) {
	idx := fs.Index(name)
	if idx < 0 || row < 0 || row >= len(fs.X) {
		return 0, false
	}
	return fs.X[row][idx], true
}

type column struct {
	name   string
	values []float64
}

// Engineer derives the feature matrix and target from a price series. The
// input is never modified; bars are sorted by date on a private copy.
func Engineer(series Series) (FeatureSet, error) {
	if len(series.Bars) == 0 {
		return FeatureSet{}, finerr.Invalid("price series is empty")
	}

	bars := sortedCopy(series.Bars)
	for i, b := range bars {
		if b.Date.IsZero() {
			return FeatureSet{}, finerr.Invalid("bar %d has no date", i)
		}
		if !finite(b.Price) {
			return FeatureSet{}, finerr.Invalid("bar %s has no usable price", b.Date.Format(time.DateOnly))
		}
	}

	price := pluck(bars, func(b PriceBar) float64 { return b.Price })
	open := pluck(bars, func(b PriceBar) float64 { return b.Open })
	high := pluck(bars, func(b PriceBar) float64 { return b.High })
	low := pluck(bars, func(b PriceBar) float64 { return b.Low })
	volume := pluck(bars, func(b PriceBar) float64 { return b.Volume })

	cols := []column{
		{ColOpen, open},
		{ColHigh, high},
		{ColLow, low},
	}
	if series.HasVolume {
		cols = append(cols, column{ColVolume, volume})
	}
	if series.HasChange {
		cols = append(cols, column{ColChangePct, pluck(bars, func(b PriceBar) float64 { return b.ChangePct })})
	}
	cols = append(cols, calendar(bars)...)

	ema12 := EMA(price, 12)
	ema26 := EMA(price, 26)
	macd := floats.SubTo(make([]float64, len(price)), ema12, ema26)

	momentum := PctChange(price, 5)
	floats.Scale(100, momentum)

	cols = append(cols,
		column{ColMA5, SMA(price, 5)},
		column{ColMA10, SMA(price, 10)},
		column{ColMA20, SMA(price, 20)},
		column{ColMA50, SMA(price, 50)},
		column{ColEMA12, ema12},
		column{ColEMA26, ema26},
		column{ColMACD, macd},
		column{ColMACDSignal, EMA(macd, 9)},
		column{ColMomentum, momentum},
		column{ColVolatility, RollingStd(price, 10)},
	)

	if series.HasVolume {
		change := PctChange(volume, 1)
		floats.Scale(100, change)
		cols = append(cols,
			column{ColVolumeMA5, SMA(volume, 5)},
			column{ColVolumeChange, change},
		)
	}

	dailyRange := floats.SubTo(make([]float64, len(high)), high, low)
	normalized := floats.DivTo(make([]float64, len(high)), dailyRange, open)
	floats.Scale(100, normalized)
	cols = append(cols,
		column{ColDailyRange, dailyRange},
		column{ColNormalizedRange, normalized},
	)

	rsi, noLoss := RSI(price, 14)
	cols = append(cols, column{ColRSI, rsi})
	cols = append(cols, bollinger(price, 20, 2)...)

	diag := Diagnostics{RSINoLoss: noLoss}
	for _, p := range price {
		if p <= 0 {
			diag.NonPositivePrices++
		}
	}
	if diag.NonPositivePrices > 0 {
		diag.Notes = append(diag.Notes, finerr.Degenerate("%d bars have a non-positive price", diag.NonPositivePrices))
	}
	if noLoss > 0 {
		diag.Notes = append(diag.Notes, finerr.Degenerate("RSI average loss was zero on %d bars, resolved to 100", noLoss))
	}
	for _, c := range cols {
		filled, empty := fillColumn(c.values)
		diag.Filled += filled
		if empty {
			diag.EmptyColumns = append(diag.EmptyColumns, c.name)
			diag.Notes = append(diag.Notes, finerr.Degenerate("column %s has no valid values, filled with 0", c.name))
		}
	}

	return assemble(bars, price, cols, diag), nil
}

func bollinger(price []float64, window int, k float64) []column {
	middle := SMA(price, window)
	std := RollingStd(price, window)
	upper := make([]float64, len(price))
	lower := make([]float64, len(price))
	width := make([]float64, len(price))
	for i := range price {
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
		width[i] = (upper[i] - lower[i]) / middle[i]
	}
	return []column{
		{ColBBMiddle, middle},
		{ColBBStd, std},
		{ColBBUpper, upper},
		{ColBBLower, lower},
		{ColBBWidth, width},
	}
}

func calendar(bars []PriceBar) []column {
	n := len(bars)
	dow := make([]float64, n)
	month := make([]float64, n)
	year := make([]float64, n)
	dom := make([]float64, n)
	quarter := make([]float64, n)
	for i, b := range bars {
		// Monday is 0.
		dow[i] = float64((int(b.Date.Weekday()) + 6) % 7)
		month[i] = float64(b.Date.Month())
		year[i] = float64(b.Date.Year())
		dom[i] = float64(b.Date.Day())
		quarter[i] = float64((int(b.Date.Month())-1)/3 + 1)
	}
	return []column{
		{ColDayOfWeek, dow},
		{ColMonth, month},
		{ColYear, year},
		{ColDayOfMonth, dom},
		{ColQuarter, quarter},
	}
}

// fillColumn forward-fills gaps, then fills what remains with the column
// median. A column without any finite value is zeroed.
func fillColumn(values []float64) (filled int, empty bool) {
	for _, v := range values {
		if !finite(v) {
			filled++
		}
	}
	forwardFill(values)
	med := Median(values)
	if math.IsNaN(med) {
		fillConstant(values, 0)
		return filled, true
	}
	fillConstant(values, med)
	return filled, false
}

func assemble(bars []PriceBar, price []float64, cols []column, diag Diagnostics) FeatureSet {
	n := len(bars)
	fs := FeatureSet{
		Columns:     make([]string, len(cols)),
		X:           make([][]float64, n),
		Y:           price,
		Dates:       make([]time.Time, n),
		Diagnostics: diag,
	}
	for j, c := range cols {
		fs.Columns[j] = c.name
	}
	for i := range bars {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c.values[i]
		}
		fs.X[i] = row
		fs.Dates[i] = bars[i].Date
	}
	return fs
}

func sortedCopy(bars []PriceBar) []PriceBar {
	out := slices.Clone(bars)
	slices.SortStableFunc(out, func(a, b PriceBar) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func pluck(bars []PriceBar, fn func(PriceBar) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = fn(b)
	}
	return out
}
