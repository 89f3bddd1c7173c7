// Package amortization computes fixed monthly loan payments (EMI) and the
// month-by-month amortization schedule that pays a loan down to zero.
package amortization

import (
	"math"

	"github.com/shopspring/decimal"

	"finlab/internal/finerr"
)

// MoneyPlaces is the number of decimal places used for returned monetary values.
const MoneyPlaces = 2

// MaxTenureYears bounds the schedule length.
const MaxTenureYears = 100

// Terms describes a fixed-rate loan.
type Terms struct {
	Principal     float64
	AnnualRatePct float64
	TenureYears   int
}

// Validate checks the loan preconditions.
func (t Terms) Validate() error {
	if math.IsNaN(t.Principal) || math.IsInf(t.Principal, 0) || t.Principal <= 0 {
		return finerr.Invalid("principal must be a positive amount, got %v", t.Principal)
	}
	if math.IsNaN(t.AnnualRatePct) || math.IsInf(t.AnnualRatePct, 0) || t.AnnualRatePct < 0 {
		return finerr.Invalid("annual interest rate must be a non-negative percentage, got %v", t.AnnualRatePct)
	}
	if t.TenureYears < 1 || t.TenureYears > MaxTenureYears {
		return finerr.Invalid("tenure must be between 1 and %d years, got %d", MaxTenureYears, t.TenureYears)
	}
	return nil
}

// Months returns the number of monthly installments.
func (t Terms) Months() int {
	return t.TenureYears * 12
}

// MonthlyRate converts the annual percentage into a monthly decimal rate.
func (t Terms) MonthlyRate() float64 {
	return t.AnnualRatePct / 1200
}

// Row is one month of the amortization schedule.
type Row struct {
	Month     int
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal
}

// Result holds the payment summary and the full schedule.
type Result struct {
	Terms          Terms
	MonthlyPayment decimal.Decimal
	TotalPayment   decimal.Decimal
	TotalInterest  decimal.Decimal
	Schedule       []Row

	// ZeroRate reports that the annuity formula was replaced by principal/n.
	ZeroRate bool
	// Notes lists recovered numeric degeneracies.
	Notes []error
}

// Payment returns the unrounded fixed monthly payment for the terms. For
// rates too small to register after compounding it returns principal/months.
func Payment(principal, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	// (1+r)^n - 1 without the cancellation of computing the power first.
	accrued := math.Expm1(float64(months) * math.Log1p(monthlyRate))
	switch {
	case math.IsInf(accrued, 1):
		return principal * monthlyRate
	case accrued == 0 || math.IsNaN(accrued):
		return principal / float64(months)
	}
	return principal * monthlyRate * (1 + accrued) / accrued
}

// Compute derives the monthly payment, totals and the full schedule.
func Compute(terms Terms) (Result, error) {
	if err := terms.Validate(); err != nil {
		return Result{}, err
	}

	n := terms.Months()
	r := terms.MonthlyRate()
	payment := Payment(terms.Principal, r, n)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return Result{}, finerr.Invalid("monthly payment overflows for rate %v%%", terms.AnnualRatePct)
	}

	res := Result{Terms: terms}
	if r == 0 {
		res.ZeroRate = true
		res.Notes = append(res.Notes, finerr.Degenerate("zero interest rate, payment falls back to principal/%d", n))
	}

	principal := money(terms.Principal)
	res.MonthlyPayment = money(payment)
	res.TotalPayment = money(payment * float64(n))
	res.TotalInterest = res.TotalPayment.Sub(principal)
	res.Schedule = schedule(terms.Principal, r, payment, n)

	return res, nil
}

// schedule iterates in full float precision and rounds only the emitted rows.
func schedule(principal, r, payment float64, n int) []Row {
	rows := make([]Row, 0, n)
	paid := decimal.Zero
	target := money(principal)
	balance := principal

	for month := 1; month <= n; month++ {
		interest := balance * r
		component := payment - interest
		balance -= component
		clamped := balance < 0 || month == n
		if clamped {
			component += balance
			balance = 0
		}

		rounded := money(component)
		if month == n {
			// Absorb the cent residual left by per-row rounding.
			rounded = target.Sub(paid)
		}
		paid = paid.Add(rounded)

		row := Row{
			Month:     month,
			Payment:   money(payment),
			Principal: rounded,
			Interest:  money(interest),
			Balance:   money(balance),
		}
		if clamped {
			row.Payment = row.Principal.Add(row.Interest)
		}
		rows = append(rows, row)
	}
	return rows
}

// PrincipalPaid sums the rounded principal components of the schedule.
func (r Result) PrincipalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Schedule {
		total = total.Add(row.Principal)
	}
	return total
}

// InterestPaid sums the rounded interest components of the schedule.
func (r Result) InterestPaid() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Schedule {
		total = total.Add(row.Interest)
	}
	return total
}

// InterestShare is the fraction of the total payment that goes to interest.
func (r Result) InterestShare() float64 {
	if r.TotalPayment.IsZero() {
		return 0
	}
	return r.TotalInterest.Div(r.TotalPayment).InexactFloat64()
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(MoneyPlaces)
}
