package planner

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"finlab/internal/finerr"
)

// Bounds on generated tables.
const (
	MaxSimulatedDays   = 3650
	MaxSimulatedStocks = 50
)

// Step range of the simulated exchange rate walk.
const (
	minExchangeStep = 0.5
	maxExchangeStep = 1.5
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ExchangePoint is the simulated rate on one day.
type ExchangePoint struct {
	Day  int
	Rate decimal.Decimal
}

// TrackExchange walks a rate up from start by a random step in [0.5, 1.5)
// per day, rounded to cents, and records every day until the rate passes end.
func TrackExchange(start, end float64, seed uint64) ([]ExchangePoint, error) {
	if math.IsNaN(start) || math.IsInf(start, 0) || start <= 0 {
		return nil, finerr.Invalid("start rate must be a positive number, got %v", start)
	}
	if math.IsNaN(end) || math.IsInf(end, 0) || end < start {
		return nil, finerr.Invalid("end rate must be at least the start rate, got %v", end)
	}
	if (end-start)/minExchangeStep+1 > MaxSimulatedDays {
		return nil, finerr.Invalid("rate range %v..%v needs more than %d days", start, end, MaxSimulatedDays)
	}

	rng := newRand(seed)
	limit := decimal.NewFromFloat(end)
	rate := decimal.NewFromFloat(start).Round(2)

	var points []ExchangePoint
	for day := 1; rate.LessThanOrEqual(limit); day++ {
		points = append(points, ExchangePoint{Day: day, Rate: rate})
		step := minExchangeStep + rng.Float64()*(maxExchangeStep-minExchangeStep)
		rate = rate.Add(decimal.NewFromFloat(step)).Round(2)
	}
	return points, nil
}

// MarketTable holds simulated daily closes, one row per stock.
type MarketTable struct {
	Dates  []time.Time
	Stocks []string
	Prices [][]decimal.Decimal
}

// SimulateMarket draws a base price around 100 for each stock and scatters
// daily closes around it with a standard deviation of 2. The last date is
// the day of end.
func SimulateMarket(stocks, days int, end time.Time, seed uint64) (MarketTable, error) {
	if stocks < 1 || stocks > MaxSimulatedStocks {
		return MarketTable{}, finerr.Invalid("stock count must be between 1 and %d, got %d", MaxSimulatedStocks, stocks)
	}
	if days < 1 || days > MaxSimulatedDays {
		return MarketTable{}, finerr.Invalid("day count must be between 1 and %d, got %d", MaxSimulatedDays, days)
	}

	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	table := MarketTable{
		Dates:  make([]time.Time, days),
		Stocks: make([]string, stocks),
		Prices: make([][]decimal.Decimal, stocks),
	}
	for d := range table.Dates {
		table.Dates[d] = last.AddDate(0, 0, d-days+1)
	}

	rng := newRand(seed)
	for s := range table.Stocks {
		table.Stocks[s] = fmt.Sprintf("Stock %d", s+1)
		base := 95 + 10*rng.Float64()
		prices := make([]decimal.Decimal, days)
		for d := range prices {
			prices[d] = round2(base + 2*rng.NormFloat64())
		}
		table.Prices[s] = prices
	}
	return table, nil
}
