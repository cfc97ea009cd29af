package calculations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	rows := []ScheduleRow{
		{Date: date(2024, 1, 1), Interest: dec(10.5), Equity: dec(100)},
		{Date: date(2024, 1, 2), Interest: dec(10.25), Equity: dec(300)},
		{Date: date(2024, 1, 3), Interest: dec(0), Equity: dec(250)},
	}

	tests := []struct {
		name     string
		schedule *Schedule
		text     string
		years    int
		months   int
	}{
		{
			name: "paid off",
			schedule: &Schedule{
				StartDate: date(2024, 1, 1), HorizonYears: 25, Rows: rows,
				PayoffDate: date(2045, 3, 31), FullyAmortized: true,
			},
			text: "21 Years, 2 Months", years: 21, months: 2,
		},
		{
			name: "not paid off",
			schedule: &Schedule{
				StartDate: date(2024, 1, 1), HorizonYears: 25, Rows: rows,
				PayoffDate: HorizonEnd(date(2024, 1, 1), 25),
			},
			text: "> 25 Years",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := Summarize(tt.schedule)
			assert.Equal(t, tt.text, sum.PaybackText)
			assert.Equal(t, tt.years, sum.PaybackYears)
			assert.Equal(t, tt.months, sum.PaybackMonths)
			assert.Equal(t, "20.75", sum.TotalInterest.String())
			assert.Equal(t, "300", sum.FinalEquity.String())
		})
	}
}

func TestSummarizeSimulated(t *testing.T) {
	s := simulate(t, baseParams())
	sum := Summarize(s)
	assert.Equal(t, "> 25 Years", sum.PaybackText)
	assert.False(t, sum.FullyAmortized)
	assert.True(t, sum.TotalInterest.IsPositive())
}

func TestCumulativeInterest(t *testing.T) {
	rows := []ScheduleRow{{Interest: dec(1.1)}, {Interest: dec(2.2)}, {Interest: dec(0.7)}}
	cum := CumulativeInterest(rows)
	require.Len(t, cum, 3)
	assert.Equal(t, "1.1", cum[0].String())
	assert.Equal(t, "3.3", cum[1].String())
	assert.Equal(t, "4", cum[2].String())
	assert.Empty(t, CumulativeInterest(nil))
}

func TestYearly(t *testing.T) {
	s := simulate(t, shortParams(2))
	years := Yearly(s.Rows)
	require.Len(t, years, 2)
	assert.Equal(t, 1, years[0].Year)
	assert.Equal(t, 2, years[1].Year)

	assert.Equal(t, "36000", years[0].Payments.String())
	assert.Equal(t, "36000", years[1].Payments.String())
	assert.True(t, years[1].EndBalance.LessThan(years[0].EndBalance))

	var interest = dec(0)
	for _, y := range years {
		interest = interest.Add(y.Interest)
	}
	assert.True(t, interest.Equal(Summarize(s).TotalInterest))
}
