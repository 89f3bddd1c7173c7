package amortization

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlab/internal/finerr"
)

func TestComputeReferenceLoan(t *testing.T) {
	res, err := Compute(Terms{Principal: 500000, AnnualRatePct: 8, TenureYears: 5})
	require.NoError(t, err)

	assert.Equal(t, "10138.20", res.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "608291.83", res.TotalPayment.StringFixed(2))
	assert.Equal(t, "108291.83", res.TotalInterest.StringFixed(2))
	require.Len(t, res.Schedule, 60)
	assert.Equal(t, 60, res.Schedule[59].Month)
	assert.True(t, res.Schedule[59].Balance.IsZero(), "final balance %s", res.Schedule[59].Balance)
	assert.False(t, res.ZeroRate)
	assert.Empty(t, res.Notes)
}

func TestComputeFirstMonthSplit(t *testing.T) {
	res, err := Compute(Terms{Principal: 100000, AnnualRatePct: 12, TenureYears: 1})
	require.NoError(t, err)

	first := res.Schedule[0]
	assert.Equal(t, "1000.00", first.Interest.StringFixed(2))
	assert.Equal(t, "7884.88", first.Principal.StringFixed(2))
	assert.Equal(t, "92115.12", first.Balance.StringFixed(2))
}

func TestScheduleInvariants(t *testing.T) {
	cases := []Terms{
		{Principal: 500000, AnnualRatePct: 8, TenureYears: 5},
		{Principal: 1234.56, AnnualRatePct: 0.01, TenureYears: 1},
		{Principal: 2500000, AnnualRatePct: 14.5, TenureYears: 30},
		{Principal: 75000, AnnualRatePct: 3.25, TenureYears: 15},
		{Principal: 999.99, AnnualRatePct: 36, TenureYears: 2},
	}

	for _, terms := range cases {
		res, err := Compute(terms)
		require.NoError(t, err)
		require.Len(t, res.Schedule, terms.Months())

		sum := res.PrincipalPaid()
		diff := sum.Sub(decimal.NewFromFloat(terms.Principal)).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")), "principal sum %s for %+v", sum, terms)

		last := res.Schedule[len(res.Schedule)-1]
		assert.Equal(t, "0.00", last.Balance.StringFixed(2))

		for i := 1; i < len(res.Schedule); i++ {
			prev, cur := res.Schedule[i-1].Balance, res.Schedule[i].Balance
			assert.True(t, cur.LessThanOrEqual(prev), "balance increased at month %d: %s -> %s", i+1, prev, cur)
		}

		assert.True(t, res.TotalInterest.Equal(res.TotalPayment.Sub(decimal.NewFromFloat(terms.Principal).Round(2))))

		product := res.MonthlyPayment.Mul(decimal.NewFromInt(int64(terms.Months())))
		tolerance := 0.005*float64(terms.Months()) + 0.01
		assert.InDelta(t, product.InexactFloat64(), res.TotalPayment.InexactFloat64(), tolerance)
	}
}

func TestComputeZeroRateFallsBackToEvenSplit(t *testing.T) {
	res, err := Compute(Terms{Principal: 1200, AnnualRatePct: 0, TenureYears: 1})
	require.NoError(t, err)

	assert.True(t, res.ZeroRate)
	require.Len(t, res.Notes, 1)
	assert.ErrorIs(t, res.Notes[0], finerr.ErrNumericDegeneracy)
	assert.Equal(t, "100.00", res.MonthlyPayment.StringFixed(2))
	assert.True(t, res.TotalInterest.IsZero())
	for _, row := range res.Schedule {
		assert.True(t, row.Interest.IsZero())
	}
	assert.True(t, res.Schedule[11].Balance.IsZero())
}

func TestPaymentApproachesEvenSplitForTinyRate(t *testing.T) {
	even := Payment(1000, 0, 12)
	tiny := Payment(1000, 1e-9, 12)
	assert.InDelta(t, even, tiny, 1e-4)
}

func TestComputeTinyRatesStayNearEvenSplit(t *testing.T) {
	for _, pct := range []float64{1e-6, 1e-8, 1e-10, 1e-12, 1e-14, 1e-15} {
		var res Result
		require.NotPanics(t, func() {
			var err error
			res, err = Compute(Terms{Principal: 1200, AnnualRatePct: pct, TenureYears: 1})
			require.NoError(t, err)
		}, "rate %v%%", pct)

		assert.False(t, res.ZeroRate, "rate %v%%", pct)
		assert.Equal(t, "100.00", res.MonthlyPayment.StringFixed(2), "rate %v%%", pct)
		assert.InDelta(t, 0, res.TotalInterest.InexactFloat64(), 0.01, "rate %v%%", pct)
		assert.True(t, res.Schedule[11].Balance.IsZero(), "rate %v%%", pct)
	}
}

func TestComputeRejectsOverflowingRate(t *testing.T) {
	_, err := Compute(Terms{Principal: 1e300, AnnualRatePct: 1e300, TenureYears: 1})
	assert.ErrorIs(t, err, finerr.ErrInvalidInput)
}

func TestFinalRowPaymentMatchesComponents(t *testing.T) {
	cases := []Terms{
		{Principal: 500000, AnnualRatePct: 8, TenureYears: 5},
		{Principal: 1234.56, AnnualRatePct: 0.01, TenureYears: 1},
		{Principal: 999.99, AnnualRatePct: 36, TenureYears: 2},
		{Principal: 100, AnnualRatePct: 0, TenureYears: 3},
	}
	for _, terms := range cases {
		res, err := Compute(terms)
		require.NoError(t, err)

		last := res.Schedule[len(res.Schedule)-1]
		assert.True(t, last.Payment.Equal(last.Principal.Add(last.Interest)), "%+v: %s != %s + %s", terms, last.Payment, last.Principal, last.Interest)
	}
}

func TestScheduleTotalsTrackSummary(t *testing.T) {
	res, err := Compute(Terms{Principal: 500000, AnnualRatePct: 8, TenureYears: 5})
	require.NoError(t, err)

	assert.Equal(t, "500000.00", res.PrincipalPaid().StringFixed(2))
	tolerance := 0.005*float64(len(res.Schedule)) + 0.02
	assert.InDelta(t, res.TotalInterest.InexactFloat64(), res.InterestPaid().InexactFloat64(), tolerance)
}

func TestComputeRejectsInvalidTerms(t *testing.T) {
	cases := map[string]Terms{
		"zero principal":     {Principal: 0, AnnualRatePct: 5, TenureYears: 1},
		"negative principal": {Principal: -10, AnnualRatePct: 5, TenureYears: 1},
		"nan principal":      {Principal: math.NaN(), AnnualRatePct: 5, TenureYears: 1},
		"negative rate":      {Principal: 10, AnnualRatePct: -1, TenureYears: 1},
		"infinite rate":      {Principal: 10, AnnualRatePct: math.Inf(1), TenureYears: 1},
		"zero tenure":        {Principal: 10, AnnualRatePct: 5, TenureYears: 0},
		"tenure too long":    {Principal: 10, AnnualRatePct: 5, TenureYears: MaxTenureYears + 1},
	}

	for name, terms := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Compute(terms)
			require.Error(t, err)
			assert.ErrorIs(t, err, finerr.ErrInvalidInput)
		})
	}
}

func TestInterestShare(t *testing.T) {
	res, err := Compute(Terms{Principal: 500000, AnnualRatePct: 8, TenureYears: 5})
	require.NoError(t, err)
	assert.InDelta(t, 108291.83/608291.83, res.InterestShare(), 1e-9)
	assert.Zero(t, Result{}.InterestShare())
}
