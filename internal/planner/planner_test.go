package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlab/internal/finerr"
)

func TestCheckEligibility(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		name     string
		in       Applicant
		eligible bool
		rate     float64
	}{
		{"unemployed", Applicant{Employment: Unemployed, Income: decimal.NewFromInt(90000), CreditScore: 800}, false, 0},
		{"low income", Applicant{Employment: Employed, Income: decimal.NewFromInt(49999), CreditScore: 800}, false, 0},
		{"prime", Applicant{Employment: Employed, Income: decimal.NewFromInt(50000), CreditScore: 750}, true, 5},
		{"near prime", Applicant{Employment: SelfEmployed, Income: decimal.NewFromInt(60000), CreditScore: 650}, true, 8},
		{"poor score", Applicant{Employment: Employed, Income: decimal.NewFromInt(60000), CreditScore: 649}, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CheckEligibility(tc.in, policy)
			assert.Equal(t, tc.eligible, got.Eligible)
			assert.Equal(t, tc.rate, got.RatePct)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestAnalyzeRisk(t *testing.T) {
	report, err := AnalyzeRisk([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.Equal(t, RiskMedium, report.Level)
	assert.Equal(t, "5.00", report.Mean.StringFixed(2))
	assert.Equal(t, "2.00", report.StdDev.StringFixed(2))
	assert.Equal(t, "2.00", report.Min.StringFixed(2))
	assert.Equal(t, "9.00", report.Max.StringFixed(2))

	report, err = AnalyzeRisk([]float64{6, 5, 12})
	require.NoError(t, err)
	assert.Equal(t, RiskLow, report.Level)

	report, err = AnalyzeRisk([]float64{10, -0.5})
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, report.Level)

	_, err = AnalyzeRisk(nil)
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)
}

func TestBudget(t *testing.T) {
	summary := Budget(decimal.NewFromInt(100000), map[string]decimal.Decimal{
		"rent":      decimal.NewFromInt(30000),
		"food":      decimal.NewFromInt(15000),
		"transport": decimal.RequireFromString("4999.50"),
	})
	assert.Equal(t, "49999.50", summary.TotalExpenses.StringFixed(2))
	assert.Equal(t, "50000.50", summary.NetSavings.StringFixed(2))
	assert.Equal(t, []string{"food", "rent", "transport"}, summary.Categories)
}

func TestPlanSavings(t *testing.T) {
	plan, err := PlanSavings(decimal.NewFromInt(1000), decimal.NewFromInt(300), decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.Equal(t, 4, plan.MonthsNeeded)
	require.Len(t, plan.Timeline, 4)
	assert.Equal(t, "1300.00", plan.Timeline[0].Balance.StringFixed(2))
	assert.Equal(t, "2200.00", plan.Timeline[3].Balance.StringFixed(2))

	plan, err = PlanSavings(decimal.NewFromInt(5000), decimal.NewFromInt(100), decimal.NewFromInt(2000))
	require.NoError(t, err)
	assert.Zero(t, plan.MonthsNeeded)
	assert.Empty(t, plan.Timeline)

	_, err = PlanSavings(decimal.Zero, decimal.Zero, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)
}

func TestPlanSavingsBoundsTimeline(t *testing.T) {
	_, err := PlanSavings(decimal.Zero, decimal.RequireFromString("0.01"), decimal.NewFromFloat(1e18))
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)

	plan, err := PlanSavings(decimal.Zero, decimal.NewFromInt(1), decimal.NewFromInt(MaxSavingsMonths))
	require.NoError(t, err)
	assert.Equal(t, MaxSavingsMonths, plan.MonthsNeeded)

	_, err = PlanSavings(decimal.Zero, decimal.NewFromInt(1), decimal.NewFromInt(MaxSavingsMonths+1))
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)
}
