package cli

import (
	"github.com/spf13/cobra"

	"finlab/internal/app"
)

var (
	exchangeStart float64
	exchangeEnd   float64
	exchangeSeed  uint64

	marketStocks int
	marketDays   int
	marketSeed   uint64
	marketCSV    string
	marketPNG    string
)

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Simulate a daily exchange rate climbing between two levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExchangeOptions{Start: exchangeStart, End: exchangeEnd}
		if cmd.Flags().Changed("seed") {
			seed := exchangeSeed
			opts.Seed = &seed
		}
		_, err := getApp().Exchange(cmd.Context(), opts)
		return err
	},
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Simulate daily closing prices for a set of stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.MarketOptions{
			Stocks:  marketStocks,
			Days:    marketDays,
			CSVPath: marketCSV,
			PNGPath: marketPNG,
		}
		if cmd.Flags().Changed("seed") {
			seed := marketSeed
			opts.Seed = &seed
		}
		_, err := getApp().Market(cmd.Context(), opts)
		return err
	},
}

func init() {
	exchangeCmd.Flags().Float64Var(&exchangeStart, "start", 0, "Starting rate")
	exchangeCmd.Flags().Float64Var(&exchangeEnd, "end", 0, "Rate at which the walk stops")
	exchangeCmd.Flags().Uint64Var(&exchangeSeed, "seed", 0, "Random seed (defaults to config)")
	_ = exchangeCmd.MarkFlagRequired("start")
	_ = exchangeCmd.MarkFlagRequired("end")

	marketCmd.Flags().IntVar(&marketStocks, "stocks", 0, "Number of stocks (defaults to config)")
	marketCmd.Flags().IntVar(&marketDays, "days", 0, "Number of trading days ending today (defaults to config)")
	marketCmd.Flags().Uint64Var(&marketSeed, "seed", 0, "Random seed (defaults to config)")
	marketCmd.Flags().StringVar(&marketCSV, "csv", "", "Path to write the price table as CSV")
	marketCmd.Flags().StringVar(&marketPNG, "png", "", "Path to write a price chart")
}
