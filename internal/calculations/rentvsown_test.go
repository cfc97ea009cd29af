package calculations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flatRentParams аренда равна платежу, инвестиции не растут: счет остается равным взносу
func flatRentParams(rule CrossOverRule) RentParams {
	return RentParams{
		Params: Params{
			StartDate:              date(2024, 1, 1),
			Price:                  dec(500000),
			Deposit:                dec(100000),
			Payment:                dec(2000),
			HorizonYears:           25,
			AnnualInterestRate:     2,
			AnnualAppreciationRate: 3,
			Frequency:              Monthly,
			RealEstateFeePercent:   5,
		},
		MonthlyRent: dec(2000),
		CrossOver:   rule,
	}
}

func defaultRentParams() RentParams {
	return RentParams{
		Params:             baseParams(),
		MonthlyRent:        dec(2500),
		AnnualInvestReturn: 8,
		MonthlyMaintenance: dec(650),
		AnnualTax:          dec(5500),
	}
}

func compare(t *testing.T, rp RentParams) *Comparison {
	t.Helper()
	cmp, err := NewEngine(zap.NewNop()).Compare(context.Background(), rp)
	require.NoError(t, err)
	return cmp
}

func TestCompareCrossOverRules(t *testing.T) {
	tests := []struct {
		rule  CrossOverRule
		count int
	}{
		{rule: "", count: 1},
		{rule: CrossOnAnyChange, count: 1},
		{rule: CrossWhenEquityOvertakes, count: 1},
		{rule: CrossWhenInvestmentOvertakes, count: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.rule), func(t *testing.T) {
			cmp := compare(t, flatRentParams(tt.rule))

			require.Len(t, cmp.CrossOvers, tt.count)
			assert.True(t, cmp.PaymentRentDifference.IsZero())
			for _, row := range cmp.Rows {
				require.True(t, row.InvestEnd.Equal(dec(100000)), "%s: %s", row.Date, row.InvestEnd)
			}
			if tt.count == 1 {
				cross := cmp.CrossOvers[0]
				assert.True(t, cross.Equity.GreaterThanOrEqual(cross.Investment))
				assert.True(t, cross.ElapsedYears > 0)
			}
		})
	}
}

func TestCompareFirstRow(t *testing.T) {
	rp := defaultRentParams()
	cmp := compare(t, rp)

	require.NotEmpty(t, cmp.Rows)
	first := cmp.Rows[0]
	assert.True(t, first.InvestStart.Equal(rp.Deposit))
	assert.False(t, first.CrossOver)
	assert.True(t, first.InvestEnd.GreaterThan(rp.Deposit))

	assert.Equal(t, "2500", cmp.PeriodRent.String())
	assert.Equal(t, "650", cmp.PeriodMaintenance.String())
	assert.Equal(t, "458.33", cmp.PeriodTax.String())
	assert.Equal(t, "500", cmp.PaymentRentDifference.String())
}

func TestCompareCrossOverFlagsMatchSideChanges(t *testing.T) {
	for _, code := range []FrequencyCode{Monthly, SemiMonthly, AcceleratedBiweekly} {
		t.Run(string(code), func(t *testing.T) {
			rp := defaultRentParams()
			rp.Frequency = code
			if code != Monthly {
				rp.Payment = dec(1500)
			}
			cmp := compare(t, rp)

			var changes, flagged int
			for i, row := range cmp.Rows {
				if row.CrossOver {
					flagged++
				}
				if i == 0 {
					continue
				}
				prev := cmp.Rows[i-1]
				if prev.InvestEnd.GreaterThan(prev.Equity) != row.InvestEnd.GreaterThan(row.Equity) {
					changes++
				}
			}
			assert.Equal(t, changes, flagged)
			assert.Len(t, cmp.CrossOvers, flagged)

			last := cmp.Rows[len(cmp.Rows)-1]
			assert.True(t, cmp.FinalEquity.Equal(last.Equity))
			assert.True(t, cmp.FinalInvestment.Equal(last.InvestEnd))
		})
	}
}

func TestCompareInvestmentBalanceChains(t *testing.T) {
	cmp := compare(t, defaultRentParams())
	for i := 1; i < len(cmp.Rows); i++ {
		require.True(t, cmp.Rows[i].InvestStart.Equal(cmp.Rows[i-1].InvestEnd), "row %d", i)
	}
}

func TestCompareIgnoresPrepaymentsAndScenarios(t *testing.T) {
	rp := defaultRentParams()
	plain := compare(t, rp)

	set, err := SaveScenario(simulate(t, shortParams(1)), "x", ScenarioSet{})
	require.NoError(t, err)
	rp.Prepayments = []Prepayment{{Date: date(2024, 3, 1), Amount: dec(50000)}}
	rp.Scenarios = &set
	cmp := compare(t, rp)

	assert.Equal(t, len(plain.Rows), len(cmp.Rows))
	assert.True(t, plain.FinalEquity.Equal(cmp.FinalEquity))
	assert.Empty(t, cmp.Rows[0].ScenarioValues)
}

func TestCompareValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RentParams)
		wantErr error
	}{
		{"unknown cross-over rule", func(rp *RentParams) { rp.CrossOver = "sometimes" }, ErrInvalidParams},
		{"negative rent", func(rp *RentParams) { rp.MonthlyRent = dec(-1) }, ErrInvalidParams},
		{"negative tax", func(rp *RentParams) { rp.AnnualTax = dec(-1) }, ErrInvalidParams},
		{"unknown frequency", func(rp *RentParams) { rp.Frequency = "q" }, ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp := defaultRentParams()
			tt.mutate(&rp)
			_, err := NewEngine(nil).Compare(context.Background(), rp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
