package calculations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Engine считает графики погашения и сравнение аренды с покупкой.
// Не хранит состояния между вызовами, безопасен для конкурентного использования.
type Engine struct {
	logger *zap.Logger
}

// NewEngine создает движок расчета; nil логгер заменяется на zap.NewNop()
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// amortizationState накопитель свертки по дням горизонта
type amortizationState struct {
	balance decimal.Decimal
	value   decimal.Decimal
}

// dailyTerms ставки и суммы, общие для всех строк одного расчета
type dailyTerms struct {
	start    time.Time
	payment  decimal.Decimal
	rate     decimal.Decimal
	growth   decimal.Decimal
	fee      decimal.Decimal
	payDates DateSet
	prepaid  map[time.Time]decimal.Decimal
}

// Simulate строит график погашения по дням от StartDate до конца горизонта.
//
// Проценты за день начисляются на остаток после платежа и досрочного платежа
// по дневной геометрической ставке (упрощение, а не ежедневное начисление банка).
// Как только остаток доходит до нуля, график заканчивается.
func (e *Engine) Simulate(ctx context.Context, p Params) (*Schedule, error) {
	freq, err := ParseFrequency(string(p.Frequency))
	if err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	start := utils.Day(p.StartDate)
	valuation := NewValuation(start, p.HorizonYears, freq)
	daily := MustFrequency(Daily)

	terms := dailyTerms{
		start:    start,
		payment:  p.Payment,
		rate:     decimal.NewFromFloat(daily.Rate(p.AnnualInterestRate)),
		growth:   decimal.NewFromFloat(daily.Rate(p.AnnualAppreciationRate)).Add(one),
		fee:      decimal.NewFromFloat(p.RealEstateFeePercent).Div(hundred),
		payDates: valuation.Payments,
		prepaid:  groupPrepayments(p.Prepayments),
	}

	schedule := &Schedule{
		StartDate:    start,
		HorizonYears: p.HorizonYears,
		Frequency:    freq,
	}

	state := amortizationState{balance: p.Price.Sub(p.Deposit), value: p.Price}
	rows := make([]ScheduleRow, 0, p.HorizonYears*365+1)
	applied := make(map[time.Time]bool, len(terms.prepaid))

	for day := range valuation.Days {
		if len(rows)%365 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var row ScheduleRow
		var paidOff bool
		row, state, paidOff = terms.step(day, state)
		if _, ok := terms.prepaid[day]; ok {
			applied[day] = true
		}
		rows = append(rows, row)

		if paidOff {
			schedule.FullyAmortized = true
			break
		}
	}

	if len(rows) > 0 {
		schedule.PayoffDate = rows[len(rows)-1].Date
	}
	if !schedule.FullyAmortized {
		e.logger.Debug("mortgage not amortized within horizon",
			zap.Int("horizon_years", p.HorizonYears),
			zap.String("end_balance", state.balance.String()),
		)
		schedule.Warnings = append(schedule.Warnings,
			fmt.Errorf("%w: остаток %s через %d лет", ErrNotFullyAmortized, state.balance.StringFixed(2), p.HorizonYears))
	}

	for _, date := range sortedDates(terms.prepaid) {
		if applied[date] {
			continue
		}
		e.logger.Debug("prepayment ignored",
			zap.String("date", date.Format(utils.DateLayout)),
			zap.String("amount", terms.prepaid[date].String()),
		)
		schedule.Warnings = append(schedule.Warnings,
			fmt.Errorf("%w: %s", ErrPrepaymentDateNotFound, date.Format(utils.DateLayout)))
	}

	if p.Scenarios != nil && len(p.Scenarios.Scenarios) > 0 {
		rows = joinScenarios(rows, *p.Scenarios)
		if len(rows) == 0 {
			e.logger.Debug("scenario join is empty", zap.Strings("scenarios", p.Scenarios.Names()))
			schedule.Warnings = append(schedule.Warnings, ErrNoScenarioOverlap)
		}
	}

	schedule.Rows = rows
	return schedule, nil
}

// step считает одну строку графика и возвращает новое состояние накопителя
func (t dailyTerms) step(day time.Time, prev amortizationState) (ScheduleRow, amortizationState, bool) {
	isPayment := t.payDates.Contains(day)
	payment := decimal.Zero
	if isPayment {
		payment = t.payment
	}
	prepayment := t.prepaid[day]

	principal := prev.balance.Sub(payment).Sub(prepayment)
	interest := principal.Mul(t.rate).Round(2)
	end := principal.Add(interest)
	value := prev.value.Mul(t.growth).Round(2)

	row := ScheduleRow{
		Date:            day,
		IsPaymentPeriod: isPayment,
		StartBalance:    prev.balance,
		Payment:         payment,
		Prepayment:      prepayment,
		Interest:        interest,
		EndBalance:      end,
		PropertyValue:   value,
		ElapsedYears:    utils.YearFraction(t.start, day),
	}

	paidOff := !end.IsPositive()
	if paidOff {
		// Последняя строка гасит ровно остаток: досрочный платеж учитывается первым,
		// регулярный платеж забирает оставшуюся часть.
		row.Prepayment = decimal.Min(prepayment, prev.balance)
		row.Payment = prev.balance.Sub(row.Prepayment)
		row.Interest = decimal.Zero
		row.EndBalance = decimal.Zero
	}
	row.Equity = equity(value, row.EndBalance, t.fee)

	return row, amortizationState{balance: row.EndBalance, value: value}, paidOff
}

// equity капитал при продаже: (стоимость - остаток) - комиссия с продажи
func equity(value, balance, fee decimal.Decimal) decimal.Decimal {
	return value.Sub(balance).Sub(value.Mul(fee)).Round(2)
}

func (p Params) validate() error {
	switch {
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: цена должна быть > 0", ErrInvalidParams)
	case p.Deposit.IsNegative() || !p.Deposit.LessThan(p.Price):
		return fmt.Errorf("%w: взнос должен быть в диапазоне [0; цена)", ErrInvalidParams)
	case !p.Payment.IsPositive():
		return fmt.Errorf("%w: платеж должен быть > 0", ErrInvalidParams)
	case p.HorizonYears < 1:
		return fmt.Errorf("%w: горизонт должен быть не меньше 1 года", ErrInvalidParams)
	case p.StartDate.IsZero():
		return fmt.Errorf("%w: не задана дата начала", ErrInvalidParams)
	case !utils.IsFinite(p.AnnualInterestRate) || p.AnnualInterestRate <= -100:
		return fmt.Errorf("%w: ставка по кредиту", ErrInvalidParams)
	case !utils.IsFinite(p.AnnualAppreciationRate) || p.AnnualAppreciationRate <= -100:
		return fmt.Errorf("%w: рост стоимости жилья", ErrInvalidParams)
	case !utils.IsFinite(p.RealEstateFeePercent) || p.RealEstateFeePercent < 0 || p.RealEstateFeePercent >= 100:
		return fmt.Errorf("%w: комиссия при продаже должна быть в диапазоне [0; 100)", ErrInvalidParams)
	}
	for _, pp := range p.Prepayments {
		if !pp.Amount.IsPositive() {
			return fmt.Errorf("%w: досрочный платеж на %s должен быть > 0", ErrInvalidParams, pp.Date.Format(utils.DateLayout))
		}
	}
	return nil
}

// groupPrepayments суммирует досрочные платежи на одну дату
func groupPrepayments(prepayments []Prepayment) map[time.Time]decimal.Decimal {
	grouped := make(map[time.Time]decimal.Decimal, len(prepayments))
	for _, pp := range prepayments {
		day := utils.Day(pp.Date)
		grouped[day] = grouped[day].Add(pp.Amount)
	}
	return grouped
}

func sortedDates[V any](m map[time.Time]V) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
