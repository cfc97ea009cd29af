package calculations

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// RequiredPayment рассчитывает аннуитетный платеж за период частоты p.Frequency,
// при котором долг price - deposit гасится за p.HorizonYears лет.
//
// Оценка по формуле аннуитета с периодической ставкой; дневной график Simulate
// с этим платежом заканчивается близко к концу горизонта, но не обязательно точно в нем.
func RequiredPayment(p Params) (decimal.Decimal, error) {
	freq, err := ParseFrequency(string(p.Frequency))
	if err != nil {
		return decimal.Zero, err
	}
	if !p.Price.IsPositive() || p.Deposit.IsNegative() || !p.Deposit.LessThan(p.Price) {
		return decimal.Zero, fmt.Errorf("%w: взнос должен быть в диапазоне [0; цена)", ErrInvalidParams)
	}
	if p.HorizonYears < 1 {
		return decimal.Zero, fmt.Errorf("%w: горизонт должен быть не меньше 1 года", ErrInvalidParams)
	}

	principal := p.Price.Sub(p.Deposit).InexactFloat64()
	n := float64(freq.PeriodsPerYear * p.HorizonYears)
	r := freq.Rate(p.AnnualInterestRate)

	var payment float64
	if r == 0.0 {
		payment = principal / n
	} else {
		payment = principal * r / (1.0 - math.Pow(1.0+r, -n))
	}
	if math.IsInf(payment, 0) || math.IsNaN(payment) || payment <= 0 {
		return decimal.Zero, fmt.Errorf("%w: платеж не определен для ставки %.2f%%", ErrInvalidParams, p.AnnualInterestRate)
	}

	return decimal.NewFromFloat(payment).RoundUp(2), nil
}
