package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"finlab/internal/planner"
)

func (a *App) simulationSeed(override *uint64) uint64 {
	if override != nil {
		return *override
	}
	return a.Config.Simulation.Seed
}

// Exchange simulates a daily exchange rate walk and prints it.
func (a *App) Exchange(ctx context.Context, opts ExchangeOptions) ([]planner.ExchangePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := a.simulationSeed(opts.Seed)
	points, err := planner.TrackExchange(opts.Start, opts.End, seed)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug().Int("days", len(points)).Uint64("seed", seed).Msg("exchange rate simulated")

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(writer, "Day\tRate (%s/USD)\t\n", a.Config.Loan.Currency)
	for _, p := range points {
		fmt.Fprintf(writer, "%d\t%s\t\n", p.Day, formatDecimal(p.Rate, 2))
	}
	writer.Flush()
	return points, nil
}

// Market simulates daily closes for a set of stocks, prints the table and
// optionally exports it.
func (a *App) Market(ctx context.Context, opts MarketOptions) (planner.MarketTable, error) {
	if err := ctx.Err(); err != nil {
		return planner.MarketTable{}, err
	}

	stocks, days := opts.Stocks, opts.Days
	if stocks == 0 {
		stocks = a.Config.Simulation.Stocks
	}
	if days == 0 {
		days = a.Config.Simulation.Days
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}

	seed := a.simulationSeed(opts.Seed)
	table, err := planner.SimulateMarket(stocks, days, end, seed)
	if err != nil {
		return table, err
	}
	a.Logger.Debug().Int("stocks", stocks).Int("days", days).Uint64("seed", seed).Msg("market simulated")

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(writer, "Date\t")
	for _, name := range table.Stocks {
		fmt.Fprintf(writer, "%s\t", name)
	}
	fmt.Fprintln(writer)
	for d, date := range table.Dates {
		fmt.Fprintf(writer, "%s\t", date.Format(time.DateOnly))
		for s := range table.Stocks {
			fmt.Fprintf(writer, "%s\t", formatDecimal(table.Prices[s][d], 2))
		}
		fmt.Fprintln(writer)
	}
	writer.Flush()

	if opts.CSVPath != "" {
		if err := writeMarketCSV(opts.CSVPath, table); err != nil {
			return table, fmt.Errorf("write market csv: %w", err)
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("market csv written")
	}
	if opts.PNGPath != "" {
		if err := writeMarketPNG(opts.PNGPath, table, a.Config.Export); err != nil {
			return table, fmt.Errorf("write market chart: %w", err)
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("market chart written")
	}
	return table, nil
}
