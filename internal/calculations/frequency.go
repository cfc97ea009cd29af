package calculations

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
)

// FrequencyCode код частоты платежей во входных параметрах
type FrequencyCode string

const (
	Monthly             FrequencyCode = "m"
	SemiMonthly         FrequencyCode = "b"
	AcceleratedBiweekly FrequencyCode = "a"
	Daily               FrequencyCode = "d"
)

// Frequency описывает частоту платежей: число периодов в году, пересчет ставок,
// генерацию дат и перевод месячных/годовых сумм в сумму за период.
type Frequency struct {
	Code           FrequencyCode `json:"code"`
	Name           string        `json:"name"`
	PeriodsPerYear int           `json:"periods_per_year"`

	next func(cur time.Time) time.Time
	// first возвращает первую дату последовательности не раньше start
	first func(start time.Time) time.Time
}

var frequencies = map[FrequencyCode]Frequency{
	Daily: {
		Code: Daily, Name: "Daily", PeriodsPerYear: 365,
		first: func(start time.Time) time.Time { return start },
		next:  func(cur time.Time) time.Time { return cur.AddDate(0, 0, 1) },
	},
	Monthly: {
		Code: Monthly, Name: "Monthly", PeriodsPerYear: 12,
		first: utils.MonthEnd,
		next: func(cur time.Time) time.Time {
			return utils.MonthEnd(cur.AddDate(0, 0, 1))
		},
	},
	SemiMonthly: {
		Code: SemiMonthly, Name: "Semi-Monthly", PeriodsPerYear: 24,
		first: func(start time.Time) time.Time {
			if start.Day() <= 15 {
				return time.Date(start.Year(), start.Month(), 15, 0, 0, 0, 0, time.UTC)
			}
			return utils.MonthEnd(start)
		},
		next: func(cur time.Time) time.Time {
			if cur.Day() == 15 {
				return utils.MonthEnd(cur)
			}
			nextMonth := cur.AddDate(0, 0, 1)
			return time.Date(nextMonth.Year(), nextMonth.Month(), 15, 0, 0, 0, 0, time.UTC)
		},
	},
	AcceleratedBiweekly: {
		Code: AcceleratedBiweekly, Name: "Accelerated Bi-Weekly", PeriodsPerYear: 26,
		first: func(start time.Time) time.Time { return start.AddDate(0, 0, 14) },
		next:  func(cur time.Time) time.Time { return cur.AddDate(0, 0, 14) },
	},
}

// ParseFrequency возвращает частоту по коду m, b, a или d
func ParseFrequency(code string) (Frequency, error) {
	f, ok := frequencies[FrequencyCode(code)]
	if !ok {
		return Frequency{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, code)
	}
	return f, nil
}

// MustFrequency как ParseFrequency, но паникует на неизвестном коде.
// Только для констант в коде и тестах.
func MustFrequency(code FrequencyCode) Frequency {
	f, err := ParseFrequency(string(code))
	if err != nil {
		panic(err)
	}
	return f
}

// PeriodRate переводит годовую ставку в процентах в геометрическую ставку за период:
// (1 + a/100)^(1/n) - 1
func PeriodRate(annualRatePercent float64, periodsPerYear int) float64 {
	return math.Pow(1.0+annualRatePercent/100.0, 1.0/float64(periodsPerYear)) - 1.0
}

// Rate ставка за один период этой частоты
func (f Frequency) Rate(annualRatePercent float64) float64 {
	return PeriodRate(annualRatePercent, f.PeriodsPerYear)
}

// Periods лениво перечисляет даты частоты в диапазоне [start; start + years*365 дней].
// Последовательность конечна и может перебираться повторно.
func (f Frequency) Periods(start time.Time, horizonYears int) iter.Seq[time.Time] {
	start = utils.Day(start)
	end := HorizonEnd(start, horizonYears)
	return func(yield func(time.Time) bool) {
		if f.next == nil {
			return
		}
		for d := f.first(start); !d.After(end); d = f.next(d) {
			if !yield(d) {
				return
			}
		}
	}
}

// PerPeriodMonthly переводит месячную сумму в сумму за период (12/n)
func (f Frequency) PerPeriodMonthly(amount decimal.Decimal) decimal.Decimal {
	if f.Code == Monthly {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(int64(f.PeriodsPerYear))).Round(2)
}

// PerPeriodAnnual переводит годовую сумму в сумму за период
func (f Frequency) PerPeriodAnnual(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(f.PeriodsPerYear))).Round(2)
}

// HorizonEnd последний день горизонта: start + years*365 дней
func HorizonEnd(start time.Time, horizonYears int) time.Time {
	return utils.Day(start).AddDate(0, 0, horizonYears*365)
}
