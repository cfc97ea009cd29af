package calculations

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredPayment(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Params)
		wantError bool
		check     func(*testing.T, Params, string)
	}{
		{
			name:   "zero rate",
			mutate: func(p *Params) { p.AnnualInterestRate = 0; p.HorizonYears = 10 },
			check: func(t *testing.T, _ Params, payment string) {
				// 760000 / 120
				assert.Equal(t, "6333.34", payment)
			},
		},
		{
			name:   "semi-monthly is roughly half of monthly",
			mutate: func(p *Params) { p.Frequency = SemiMonthly },
			check: func(t *testing.T, p Params, payment string) {
				p.Frequency = Monthly
				monthly, err := RequiredPayment(p)
				require.NoError(t, err)
				semi, err := decimal.NewFromString(payment)
				require.NoError(t, err)
				assert.InDelta(t, monthly.InexactFloat64()/2, semi.InexactFloat64(), 5)
			},
		},
		{
			name:      "unknown frequency",
			mutate:    func(p *Params) { p.Frequency = "x" },
			wantError: true,
		},
		{
			name:      "deposit covers price",
			mutate:    func(p *Params) { p.Deposit = p.Price },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			payment, err := RequiredPayment(p)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, payment.IsPositive())
			tt.check(t, p, payment.String())
		})
	}
}

func TestRequiredPaymentAmortizesNearHorizon(t *testing.T) {
	p := baseParams()
	required, err := RequiredPayment(p)
	require.NoError(t, err)
	assert.True(t, required.GreaterThan(dec(3000)), "default payment is known to fall short")

	p.Payment = required.Mul(dec(1.01)).Round(2)
	assert.True(t, simulate(t, p).FullyAmortized)

	p.Payment = required.Mul(dec(0.99)).Round(2)
	assert.False(t, simulate(t, p).FullyAmortized)
}
