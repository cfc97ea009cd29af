package calculations

import (
	"context"
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compare сравнивает покупку жилья с арендой и инвестированием разницы.
//
// График ипотеки строится без досрочных платежей и сценариев. Параллельный
// инвестиционный счет в первый день получает первоначальный взнос, в каждый день
// платежа - налог, обслуживание и разницу между платежом и арендой; в остальные
// дни баланс только растет по дневной доходности.
func (e *Engine) Compare(ctx context.Context, rp RentParams) (*Comparison, error) {
	if err := rp.validate(); err != nil {
		return nil, err
	}

	base := rp.Params
	base.Prepayments = nil
	base.Scenarios = nil

	schedule, err := e.Simulate(ctx, base)
	if err != nil {
		return nil, err
	}

	freq := schedule.Frequency
	growth := decimal.NewFromFloat(MustFrequency(Daily).Rate(rp.AnnualInvestReturn)).Add(one)

	cmp := &Comparison{
		PayoffDate:        schedule.PayoffDate,
		FullyAmortized:    schedule.FullyAmortized,
		Frequency:         freq,
		PeriodRent:        freq.PerPeriodMonthly(rp.MonthlyRent),
		PeriodMaintenance: freq.PerPeriodMonthly(rp.MonthlyMaintenance),
		PeriodTax:         freq.PerPeriodAnnual(rp.AnnualTax),
		Warnings:          schedule.Warnings,
	}
	cmp.PaymentRentDifference = rp.Payment.Sub(cmp.PeriodRent)
	contribution := cmp.PeriodTax.Add(cmp.PeriodMaintenance).Add(cmp.PaymentRentDifference)

	rule := rp.CrossOver
	if rule == "" {
		rule = CrossOnAnyChange
	}

	rows := make([]RentVsOwnRow, 0, len(schedule.Rows))
	var prevEnd decimal.Decimal
	var prevAbove bool
	for i, row := range schedule.Rows {
		if row.Date.After(schedule.PayoffDate) {
			break
		}

		start, invested := prevEnd, prevEnd
		switch {
		case i == 0:
			start, invested = rp.Deposit, rp.Deposit
		case row.IsPaymentPeriod:
			invested = start.Add(contribution)
		}
		end := invested.Mul(growth).Round(2)

		above := end.GreaterThan(row.Equity)
		cross := i > 0 && rule.crosses(prevAbove, above)
		if cross {
			cmp.CrossOvers = append(cmp.CrossOvers, CrossOverPoint{
				Date:         row.Date,
				ElapsedYears: row.ElapsedYears,
				Equity:       row.Equity,
				Investment:   end,
			})
		}

		rows = append(rows, RentVsOwnRow{
			ScheduleRow: row,
			InvestStart: start,
			InvestEnd:   end,
			CrossOver:   cross,
		})
		prevEnd, prevAbove = end, above
	}

	if n := len(rows); n > 0 {
		cmp.FinalEquity = rows[n-1].Equity
		cmp.FinalInvestment = rows[n-1].InvestEnd
	}
	cmp.Rows = rows

	e.logger.Debug("rent vs own compared",
		zap.Int("rows", len(rows)),
		zap.Int("cross_overs", len(cmp.CrossOvers)),
		zap.String("rule", string(rule)),
	)
	return cmp, nil
}

// crosses решает, является ли смена положения рядов точкой пересечения по правилу
func (r CrossOverRule) crosses(prevAbove, above bool) bool {
	switch r {
	case CrossWhenInvestmentOvertakes:
		return above && !prevAbove
	case CrossWhenEquityOvertakes:
		return !above && prevAbove
	default:
		return above != prevAbove
	}
}

func (rp RentParams) validate() error {
	switch {
	case rp.MonthlyRent.IsNegative():
		return fmt.Errorf("%w: аренда не может быть отрицательной", ErrInvalidParams)
	case rp.MonthlyMaintenance.IsNegative():
		return fmt.Errorf("%w: расходы на обслуживание не могут быть отрицательными", ErrInvalidParams)
	case rp.AnnualTax.IsNegative():
		return fmt.Errorf("%w: налог не может быть отрицательным", ErrInvalidParams)
	case !utils.IsFinite(rp.AnnualInvestReturn) || rp.AnnualInvestReturn <= -100:
		return fmt.Errorf("%w: доходность инвестиций", ErrInvalidParams)
	}
	switch rp.CrossOver {
	case "", CrossOnAnyChange, CrossWhenInvestmentOvertakes, CrossWhenEquityOvertakes:
		return nil
	default:
		return fmt.Errorf("%w: неизвестное правило пересечения %q", ErrInvalidParams, rp.CrossOver)
	}
}
