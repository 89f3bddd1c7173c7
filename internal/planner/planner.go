// Package planner contains the small personal-finance calculators that sit
// next to the loan engine: eligibility screening, return risk profiling,
// budgeting and savings goal projection.
package planner

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"finlab/internal/finerr"
)

// Employment statuses recognised by the eligibility screen.
const (
	Employed     = "employed"
	SelfEmployed = "self-employed"
	Unemployed   = "unemployed"
)

// Applicant is the input to the eligibility screen.
type Applicant struct {
	Employment  string
	Income      decimal.Decimal
	CreditScore int
}

// Policy holds the screening thresholds.
type Policy struct {
	MinIncome      decimal.Decimal
	PrimeScore     int
	NearPrimeScore int
	PrimeRatePct   float64
	NearPrimeRate  float64
}

// DefaultPolicy returns the stock screening thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinIncome:      decimal.NewFromInt(50000),
		PrimeScore:     750,
		NearPrimeScore: 650,
		PrimeRatePct:   5,
		NearPrimeRate:  8,
	}
}

// Decision is the eligibility outcome.
type Decision struct {
	Eligible bool
	RatePct  float64
	Reason   string
}

// CheckEligibility screens an applicant against the policy.
func CheckEligibility(a Applicant, p Policy) Decision {
	switch {
	case a.Employment == Unemployed:
		return Decision{Reason: "applicant must be employed"}
	case a.Income.LessThan(p.MinIncome):
		return Decision{Reason: "income must be at least " + p.MinIncome.StringFixed(0)}
	case a.CreditScore >= p.PrimeScore:
		return Decision{Eligible: true, RatePct: p.PrimeRatePct, Reason: "approved at the prime rate"}
	case a.CreditScore >= p.NearPrimeScore:
		return Decision{Eligible: true, RatePct: p.NearPrimeRate, Reason: "approved at the near-prime rate"}
	default:
		return Decision{Reason: "credit score is below the minimum"}
	}
}

// Risk levels of a return profile.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// LowRiskFloorPct is the return every holding must reach for a low risk rating.
const LowRiskFloorPct = 5.0

// RiskReport summarises a set of percentage returns.
type RiskReport struct {
	Level  string
	Mean   decimal.Decimal
	StdDev decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
}

// AnalyzeRisk rates a portfolio from its holdings' percentage returns. Any
// loss is high risk; every holding at or above the floor is low risk.
func AnalyzeRisk(returns []float64) (RiskReport, error) {
	if len(returns) == 0 {
		return RiskReport{}, finerr.Invalid("no returns given")
	}
	for _, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return RiskReport{}, finerr.Invalid("returns must be finite")
		}
	}

	mean, variance := stat.PopMeanVariance(returns, nil)
	level := RiskMedium
	switch {
	case slices.ContainsFunc(returns, func(r float64) bool { return r < 0 }):
		level = RiskHigh
	case floats.Min(returns) >= LowRiskFloorPct:
		level = RiskLow
	}

	return RiskReport{
		Level:  level,
		Mean:   round2(mean),
		StdDev: round2(math.Sqrt(variance)),
		Min:    round2(floats.Min(returns)),
		Max:    round2(floats.Max(returns)),
	}, nil
}

// BudgetSummary is the result of a monthly budget.
type BudgetSummary struct {
	Income        decimal.Decimal
	TotalExpenses decimal.Decimal
	NetSavings    decimal.Decimal
	Categories    []string
}

// Budget totals expenses by category and derives net savings.
func Budget(income decimal.Decimal, expenses map[string]decimal.Decimal) BudgetSummary {
	total := decimal.Zero
	categories := make([]string, 0, len(expenses))
	for name, amount := range expenses {
		total = total.Add(amount)
		categories = append(categories, name)
	}
	slices.Sort(categories)
	return BudgetSummary{
		Income:        income,
		TotalExpenses: total,
		NetSavings:    income.Sub(total),
		Categories:    categories,
	}
}

// MaxSavingsMonths bounds the projected timeline.
const MaxSavingsMonths = 1200

// SavingsPoint is the projected balance after a month of saving.
type SavingsPoint struct {
	Month   int
	Balance decimal.Decimal
}

// SavingsPlan is the projection towards a goal.
type SavingsPlan struct {
	MonthsNeeded int
	Timeline     []SavingsPoint
}

// PlanSavings projects how many months of fixed saving reach the goal.
func PlanSavings(current, monthly, goal decimal.Decimal) (SavingsPlan, error) {
	if !monthly.IsPositive() {
		return SavingsPlan{}, finerr.Invalid("monthly saving must be positive, got %s", monthly)
	}
	gap := goal.Sub(current)
	if !gap.IsPositive() {
		return SavingsPlan{}, nil
	}

	needed := gap.Div(monthly).Ceil()
	if needed.GreaterThan(decimal.NewFromInt(MaxSavingsMonths)) {
		return SavingsPlan{}, finerr.Invalid("goal needs more than %d months of saving", MaxSavingsMonths)
	}
	months := int(needed.IntPart())
	timeline := make([]SavingsPoint, months)
	for i := range timeline {
		m := i + 1
		timeline[i] = SavingsPoint{
			Month:   m,
			Balance: current.Add(monthly.Mul(decimal.NewFromInt(int64(m)))).Round(2),
		}
	}
	return SavingsPlan{MonthsNeeded: months, Timeline: timeline}, nil
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
