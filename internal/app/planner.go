package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"finlab/internal/finerr"
	"finlab/internal/planner"
)

// Eligibility screens a loan applicant and prints the decision.
func (a *App) Eligibility(ctx context.Context, opts EligibilityOptions) (planner.Decision, error) {
	if err := ctx.Err(); err != nil {
		return planner.Decision{}, err
	}
	if err := requireFinite("income", opts.Income); err != nil {
		return planner.Decision{}, err
	}

	applicant := planner.Applicant{
		Employment:  strings.ToLower(strings.TrimSpace(opts.Employment)),
		Income:      decimal.NewFromFloat(opts.Income),
		CreditScore: opts.CreditScore,
	}
	decision := planner.CheckEligibility(applicant, a.policy())
	a.Logger.Debug().Bool("eligible", decision.Eligible).Int("credit_score", opts.CreditScore).Msg("eligibility screened")

	if decision.Eligible {
		fmt.Fprintf(a.Out, "Eligible: %s (%.2f%%)\n", decision.Reason, decision.RatePct)
	} else {
		fmt.Fprintf(a.Out, "Rejected: %s\n", decision.Reason)
	}
	return decision, nil
}

// Risk rates a set of percentage returns and prints the report.
func (a *App) Risk(ctx context.Context, returns []float64) (planner.RiskReport, error) {
	if err := ctx.Err(); err != nil {
		return planner.RiskReport{}, err
	}

	report, err := planner.AnalyzeRisk(returns)
	if err != nil {
		return report, err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Risk level:\t%s\n", report.Level)
	fmt.Fprintf(writer, "Average return (%%):\t%s\n", formatDecimal(report.Mean, 2))
	fmt.Fprintf(writer, "Standard deviation (%%):\t%s\n", formatDecimal(report.StdDev, 2))
	fmt.Fprintf(writer, "Min return (%%):\t%s\n", formatDecimal(report.Min, 2))
	fmt.Fprintf(writer, "Max return (%%):\t%s\n", formatDecimal(report.Max, 2))
	writer.Flush()
	return report, nil
}

// Budget totals monthly expenses and prints the net savings.
func (a *App) Budget(ctx context.Context, income float64, expenses map[string]float64) (planner.BudgetSummary, error) {
	if err := ctx.Err(); err != nil {
		return planner.BudgetSummary{}, err
	}
	if err := requireFinite("income", income); err != nil {
		return planner.BudgetSummary{}, err
	}

	amounts := make(map[string]decimal.Decimal, len(expenses))
	for name, v := range expenses {
		if err := requireFinite("expense "+name, v); err != nil {
			return planner.BudgetSummary{}, err
		}
		amounts[name] = decimal.NewFromFloat(v)
	}
	summary := planner.Budget(decimal.NewFromFloat(income), amounts)
	if summary.NetSavings.IsNegative() {
		a.Logger.Warn().Str("net", summary.NetSavings.String()).Msg("expenses exceed income")
	}

	cur := a.Config.Loan.Currency
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	for _, name := range summary.Categories {
		fmt.Fprintf(writer, "%s\t%s %s\n", sanitizeInline(name), cur, formatDecimal(amounts[name], 2))
	}
	fmt.Fprintf(writer, "Total expenses\t%s %s\n", cur, formatDecimal(summary.TotalExpenses, 2))
	fmt.Fprintf(writer, "Net savings\t%s %s\n", cur, formatDecimal(summary.NetSavings, 2))
	writer.Flush()
	return summary, nil
}

// Savings projects the months needed to reach a savings goal.
func (a *App) Savings(ctx context.Context, opts SavingsOptions) (planner.SavingsPlan, error) {
	if err := ctx.Err(); err != nil {
		return planner.SavingsPlan{}, err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{{"current savings", opts.Current}, {"monthly saving", opts.Monthly}, {"goal", opts.Goal}} {
		if err := requireFinite(f.name, f.value); err != nil {
			return planner.SavingsPlan{}, err
		}
	}

	plan, err := planner.PlanSavings(decimal.NewFromFloat(opts.Current), decimal.NewFromFloat(opts.Monthly), decimal.NewFromFloat(opts.Goal))
	if err != nil {
		return plan, err
	}

	if plan.MonthsNeeded == 0 {
		fmt.Fprintln(a.Out, "Goal already reached")
		return plan, nil
	}

	cur := a.Config.Loan.Currency
	fmt.Fprintf(a.Out, "Months needed: %d\n", plan.MonthsNeeded)
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(writer, "Month\tProjected Savings\t")
	for _, p := range plan.Timeline {
		fmt.Fprintf(writer, "%d\t%s %s\t\n", p.Month, cur, formatDecimal(p.Balance, 2))
	}
	writer.Flush()
	return plan, nil
}

// requireFinite rejects NaN and infinities before they reach decimal conversion.
func requireFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return finerr.Invalid("%s must be a finite number, got %v", name, v)
	}
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return cleaned
}
