package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"finlab/internal/amortization"
)

// Amortize computes the EMI for a loan, prints the summary and optionally the
// schedule, and exports it as CSV and/or PNG.
func (a *App) Amortize(ctx context.Context, opts AmortizeOptions) (amortization.Result, error) {
	if err := ctx.Err(); err != nil {
		return amortization.Result{}, err
	}

	terms := amortization.Terms{
		Principal:     opts.Principal,
		AnnualRatePct: opts.RatePct,
		TenureYears:   opts.TenureYears,
	}
	res, err := amortization.Compute(terms)
	if err != nil {
		return amortization.Result{}, err
	}

	logger := a.Logger.With().Float64("principal", terms.Principal).Float64("rate_pct", terms.AnnualRatePct).Int("tenure_years", terms.TenureYears).Logger()
	for _, note := range res.Notes {
		logger.Warn().Err(note).Msg("recovered numeric degeneracy")
	}
	logger.Debug().Str("emi", res.MonthlyPayment.String()).Int("months", len(res.Schedule)).Msg("schedule computed")

	a.printLoanSummary(res)
	if opts.ShowSchedule {
		a.printSchedule(res.Schedule)
	}

	if opts.CSVPath != "" {
		if err := writeScheduleCSV(opts.CSVPath, res.Schedule); err != nil {
			return res, fmt.Errorf("write schedule csv: %w", err)
		}
		logger.Info().Str("path", opts.CSVPath).Msg("schedule csv written")
	}
	if opts.PNGPath != "" {
		if err := writeSchedulePNG(opts.PNGPath, res.Schedule, a.Config.Export, a.Config.Loan.Currency); err != nil {
			return res, fmt.Errorf("write schedule chart: %w", err)
		}
		logger.Info().Str("path", opts.PNGPath).Msg("schedule chart written")
	}

	return res, nil
}

func (a *App) printLoanSummary(res amortization.Result) {
	cur := a.Config.Loan.Currency
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Monthly EMI:\t%s %s\n", cur, formatDecimal(res.MonthlyPayment, 2))
	fmt.Fprintf(writer, "Total payment:\t%s %s\n", cur, formatDecimal(res.TotalPayment, 2))
	fmt.Fprintf(writer, "Total interest:\t%s %s\n", cur, formatDecimal(res.TotalInterest, 2))
	fmt.Fprintf(writer, "Interest share:\t%.2f%%\n", res.InterestShare()*100)
	fmt.Fprintf(writer, "Installments:\t%d\n", len(res.Schedule))
	fmt.Fprintf(writer, "Principal repaid by schedule:\t%s %s\n", cur, formatDecimal(res.PrincipalPaid(), 2))
	fmt.Fprintf(writer, "Interest paid by schedule:\t%s %s\n", cur, formatDecimal(res.InterestPaid(), 2))
	writer.Flush()
}

func (a *App) printSchedule(rows []amortization.Row) {
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(writer, "Month\tEMI\tPrincipal\tInterest\tRemaining Balance\t")
	for _, row := range rows {
		fmt.Fprintf(
			writer,
			"%d\t%s\t%s\t%s\t%s\t\n",
			row.Month,
			formatDecimal(row.Payment, 2),
			formatDecimal(row.Principal, 2),
			formatDecimal(row.Interest, 2),
			formatDecimal(row.Balance, 2),
		)
	}
	writer.Flush()
}
