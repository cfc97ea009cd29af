package calculations

import (
	"iter"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// DateSet множество дат без учета времени суток
type DateSet map[time.Time]struct{}

// NewDateSet собирает множество из последовательности дат
func NewDateSet(dates iter.Seq[time.Time]) DateSet {
	set := make(DateSet)
	for d := range dates {
		set[utils.Day(d)] = struct{}{}
	}
	return set
}

// Contains проверяет, входит ли дата в множество
func (s DateSet) Contains(d time.Time) bool {
	_, ok := s[utils.Day(d)]
	return ok
}

// Len количество дат в множестве
func (s DateSet) Len() int {
	return len(s)
}

// Valuation даты оценки (ежедневные строки графика) и даты платежей выбранной частоты
type Valuation struct {
	Days     iter.Seq[time.Time]
	Payments DateSet
}

// NewValuation строит ежедневный диапазон и множество дат платежей для горизонта
func NewValuation(start time.Time, horizonYears int, payments Frequency) Valuation {
	return Valuation{
		Days:     MustFrequency(Daily).Periods(start, horizonYears),
		Payments: NewDateSet(payments.Periods(start, horizonYears)),
	}
}
