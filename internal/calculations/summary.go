package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
)

// Summarize считает итоговые показатели графика: сумму процентов, максимальный
// капитал и срок погашения. Если кредит не погашен, срок выводится как "> N Years".
func Summarize(s *Schedule) Summary {
	sum := Summary{
		TotalInterest:  decimal.Zero,
		FinalEquity:    decimal.Zero,
		FullyAmortized: s.FullyAmortized,
		PayoffDate:     s.PayoffDate,
	}

	for i, row := range s.Rows {
		sum.TotalInterest = sum.TotalInterest.Add(row.Interest)
		if i == 0 || row.Equity.GreaterThan(sum.FinalEquity) {
			sum.FinalEquity = row.Equity
		}
	}

	if s.FullyAmortized {
		sum.PaybackYears, sum.PaybackMonths = utils.MonthsBetween(s.StartDate, s.PayoffDate)
		sum.PaybackText = fmt.Sprintf("%d Years, %d Months", sum.PaybackYears, sum.PaybackMonths)
	} else {
		sum.PaybackText = fmt.Sprintf("> %d Years", s.HorizonYears)
	}

	return sum
}

// CumulativeInterest накопленная сумма процентов по строкам графика
func CumulativeInterest(rows []ScheduleRow) []decimal.Decimal {
	out := make([]decimal.Decimal, len(rows))
	cum := decimal.Zero
	for i, row := range rows {
		cum = cum.Add(row.Interest)
		out[i] = cum
	}
	return out
}

// YearlyRow строка годовой сводки графика
type YearlyRow struct {
	Year       int             `json:"year"`
	Payments   decimal.Decimal `json:"payments"`
	Prepaid    decimal.Decimal `json:"prepaid"`
	Interest   decimal.Decimal `json:"interest"`
	EndBalance decimal.Decimal `json:"end_balance"`
	Equity     decimal.Decimal `json:"equity"`
}

// Yearly сворачивает ежедневный график в строки по годам от даты начала
func Yearly(rows []ScheduleRow) []YearlyRow {
	var out []YearlyRow
	for _, row := range rows {
		year := int(row.ElapsedYears) + 1
		if len(out) == 0 || out[len(out)-1].Year != year {
			out = append(out, YearlyRow{Year: year})
		}
		y := &out[len(out)-1]
		y.Payments = y.Payments.Add(row.Payment)
		y.Prepaid = y.Prepaid.Add(row.Prepayment)
		y.Interest = y.Interest.Add(row.Interest)
		y.EndBalance = row.EndBalance
		y.Equity = row.Equity
	}
	return out
}
