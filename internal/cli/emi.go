package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"finlab/internal/app"
)

var (
	emiPrincipal float64
	emiRate      float64
	emiYears     int
	emiSchedule  bool
	emiCSVPath   string
	emiPNGPath   string
)

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Compute the monthly installment and amortization schedule of a loan",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emiPrincipal <= 0 {
			return fmt.Errorf("--principal must be greater than zero")
		}

		a := getApp()
		opts := app.AmortizeOptions{
			Principal:    emiPrincipal,
			RatePct:      a.Config.Loan.AnnualRatePct,
			TenureYears:  a.Config.Loan.TenureYears,
			ShowSchedule: emiSchedule,
			CSVPath:      emiCSVPath,
			PNGPath:      emiPNGPath,
		}
		if cmd.Flags().Changed("rate") {
			opts.RatePct = emiRate
		}
		if cmd.Flags().Changed("years") {
			opts.TenureYears = emiYears
		}

		_, err := a.Amortize(cmd.Context(), opts)
		return err
	},
}

func init() {
	emiCmd.Flags().Float64Var(&emiPrincipal, "principal", 0, "Loan amount")
	emiCmd.Flags().Float64Var(&emiRate, "rate", 0, "Annual interest rate in percent (defaults to config)")
	emiCmd.Flags().IntVar(&emiYears, "years", 0, "Tenure in years (defaults to config)")
	emiCmd.Flags().BoolVar(&emiSchedule, "schedule", false, "Print the full month-by-month schedule")
	emiCmd.Flags().StringVar(&emiCSVPath, "csv", "", "Path to write the schedule as CSV")
	emiCmd.Flags().StringVar(&emiPNGPath, "png", "", "Path to write the schedule chart")
}
