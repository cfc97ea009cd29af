package calculations

import (
	"time"

	"github.com/shopspring/decimal"
)

// Params входные параметры графика погашения ипотеки
type Params struct {
	StartDate              time.Time       `json:"start_date"`
	Price                  decimal.Decimal `json:"price"`
	Deposit                decimal.Decimal `json:"deposit"`
	Payment                decimal.Decimal `json:"payment"`
	HorizonYears           int             `json:"horizon_years"`
	AnnualInterestRate     float64         `json:"annual_interest_rate"`
	AnnualAppreciationRate float64         `json:"annual_appreciation_rate"`
	Frequency              FrequencyCode   `json:"frequency"`
	RealEstateFeePercent   float64         `json:"real_estate_fee_percent"`
	Prepayments            []Prepayment    `json:"prepayments,omitempty"`
	Scenarios              *ScenarioSet    `json:"scenarios,omitempty"`
}

// Prepayment разовый досрочный платеж в счет основного долга
type Prepayment struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// ScheduleRow одна строка графика (один день горизонта)
type ScheduleRow struct {
	Date            time.Time                  `json:"date"`
	IsPaymentPeriod bool                       `json:"is_payment_period"`
	StartBalance    decimal.Decimal            `json:"start_balance"`
	Payment         decimal.Decimal            `json:"payment"`
	Prepayment      decimal.Decimal            `json:"prepayment"`
	Interest        decimal.Decimal            `json:"interest"`
	EndBalance      decimal.Decimal            `json:"end_balance"`
	PropertyValue   decimal.Decimal            `json:"property_value"`
	Equity          decimal.Decimal            `json:"equity"`
	ElapsedYears    float64                    `json:"elapsed_years"`
	ScenarioValues  map[string]decimal.Decimal `json:"scenario_values,omitempty"`
}

// Schedule результат расчета графика.
// Warnings содержит некритичные ситуации (ErrPrepaymentDateNotFound,
// ErrNoScenarioOverlap, ErrNotFullyAmortized), проверяются через errors.Is.
type Schedule struct {
	StartDate      time.Time     `json:"start_date"`
	HorizonYears   int           `json:"horizon_years"`
	Frequency      Frequency     `json:"frequency"`
	Rows           []ScheduleRow `json:"rows"`
	PayoffDate     time.Time     `json:"payoff_date"`
	FullyAmortized bool          `json:"fully_amortized"`
	Warnings       []error       `json:"-"`
}

// ScenarioPoint остаток долга на дату
type ScenarioPoint struct {
	Date       time.Time       `json:"date"`
	EndBalance decimal.Decimal `json:"end_balance"`
}

// Scenario сохраненный ряд остатков долга для сравнения
type Scenario struct {
	Name   string          `json:"name"`
	Series []ScenarioPoint `json:"series"`
}

// ScenarioSet набор сценариев с общим индексом дат. Не изменяется после создания.
type ScenarioSet struct {
	Scenarios []Scenario `json:"scenarios"`
}

// CrossOverRule правило фиксации точки пересечения капитала и инвестиций
type CrossOverRule string

const (
	// CrossOnAnyChange отмечает любую смену взаимного положения рядов
	CrossOnAnyChange CrossOverRule = "any"
	// CrossWhenInvestmentOvertakes только когда инвестиции обгоняют капитал в жилье
	CrossWhenInvestmentOvertakes CrossOverRule = "investment_overtakes"
	// CrossWhenEquityOvertakes только когда капитал в жилье обгоняет инвестиции
	CrossWhenEquityOvertakes CrossOverRule = "equity_overtakes"
)

// RentParams параметры сравнения аренды и покупки
type RentParams struct {
	Params
	MonthlyRent        decimal.Decimal `json:"monthly_rent"`
	AnnualInvestReturn float64         `json:"annual_invest_return"`
	MonthlyMaintenance decimal.Decimal `json:"monthly_maintenance"`
	AnnualTax          decimal.Decimal `json:"annual_tax"`
	CrossOver          CrossOverRule   `json:"cross_over,omitempty"`
}

// RentVsOwnRow строка графика с параллельным инвестиционным счетом
type RentVsOwnRow struct {
	ScheduleRow
	InvestStart decimal.Decimal `json:"invest_start"`
	InvestEnd   decimal.Decimal `json:"invest_end"`
	CrossOver   bool            `json:"cross_over"`
}

// CrossOverPoint дата пересечения рядов капитала и инвестиций
type CrossOverPoint struct {
	Date         time.Time       `json:"date"`
	ElapsedYears float64         `json:"elapsed_years"`
	Equity       decimal.Decimal `json:"equity"`
	Investment   decimal.Decimal `json:"investment"`
}

// Comparison результат сравнения аренды и покупки
type Comparison struct {
	Rows                  []RentVsOwnRow   `json:"rows"`
	PayoffDate            time.Time        `json:"payoff_date"`
	FullyAmortized        bool             `json:"fully_amortized"`
	Frequency             Frequency        `json:"frequency"`
	PeriodRent            decimal.Decimal  `json:"period_rent"`
	PeriodMaintenance     decimal.Decimal  `json:"period_maintenance"`
	PeriodTax             decimal.Decimal  `json:"period_tax"`
	PaymentRentDifference decimal.Decimal  `json:"payment_rent_difference"`
	FinalEquity           decimal.Decimal  `json:"final_equity"`
	FinalInvestment       decimal.Decimal  `json:"final_investment"`
	CrossOvers            []CrossOverPoint `json:"cross_overs"`
	Warnings              []error          `json:"-"`
}

// Summary итоговые показатели графика
type Summary struct {
	TotalInterest  decimal.Decimal `json:"total_interest"`
	FinalEquity    decimal.Decimal `json:"final_equity"`
	PaybackYears   int             `json:"payback_years"`
	PaybackMonths  int             `json:"payback_months"`
	PaybackText    string          `json:"payback_text"`
	FullyAmortized bool            `json:"fully_amortized"`
	PayoffDate     time.Time       `json:"payoff_date"`
}
