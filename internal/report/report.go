// Package report формирует PDF отчеты по графику погашения и сравнению аренды с покупкой.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

type pdfReport struct {
	pdf *fpdf.Fpdf
	now time.Time
}

func newReport(now time.Time) *pdfReport {
	r := &pdfReport{pdf: fpdf.New("P", "mm", "A4", ""), now: now}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetFooterFunc(func() {
		r.pdf.SetY(-15)
		r.pdf.SetFont("Arial", "I", 8)
		r.pdf.SetTextColor(128, 128, 128)
		r.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", r.pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return r
}

// Schedule отчет по графику погашения: параметры, итоги и годовая таблица
func Schedule(p calculations.Params, s *calculations.Schedule, now time.Time) ([]byte, error) {
	r := newReport(now)
	r.pdf.AddPage()
	r.drawTitle("Mortgage Amortization Report")

	sum := calculations.Summarize(s)
	r.drawSectionHeader("Inputs")
	r.drawKeyValues(paramRows(p, s.Frequency))

	r.drawSectionHeader("Summary")
	r.drawKeyValues([][2]string{
		{"Payback period", sum.PaybackText},
		{"Payoff date", sum.PayoffDate.Format(utils.DateLayout)},
		{"Total interest", money(sum.TotalInterest)},
		{"Maximum equity", money(sum.FinalEquity)},
	})
	r.drawWarnings(s.Warnings)

	r.drawSectionHeader("Year by Year")
	headers := []string{"Year", "Payments", "Prepaid", "Interest", "End Balance", "Equity"}
	widths := []float64{20, 32, 30, 30, 34, 34}
	r.drawTableHeader(headers, widths)
	for _, y := range calculations.Yearly(s.Rows) {
		r.drawTableRow([]string{
			fmt.Sprintf("%d", y.Year),
			money(y.Payments),
			money(y.Prepaid),
			money(y.Interest),
			money(y.EndBalance),
			money(y.Equity),
		}, widths, false)
	}

	return r.output()
}

// Comparison отчет по сравнению аренды и покупки
func Comparison(rp calculations.RentParams, cmp *calculations.Comparison, now time.Time) ([]byte, error) {
	r := newReport(now)
	r.pdf.AddPage()
	r.drawTitle("Rent vs Own Report")

	r.drawSectionHeader("Inputs")
	rows := paramRows(rp.Params, cmp.Frequency)
	rows = append(rows,
		[2]string{"Monthly rent", money(rp.MonthlyRent)},
		[2]string{"Monthly maintenance", money(rp.MonthlyMaintenance)},
		[2]string{"Annual tax", money(rp.AnnualTax)},
		[2]string{"Investment return", percent(rp.AnnualInvestReturn)},
	)
	r.drawKeyValues(rows)

	r.drawSectionHeader("Per Payment Period")
	r.drawKeyValues([][2]string{
		{"Rent", money(cmp.PeriodRent)},
		{"Maintenance", money(cmp.PeriodMaintenance)},
		{"Tax", money(cmp.PeriodTax)},
		{"Payment minus rent", money(cmp.PaymentRentDifference)},
	})

	r.drawSectionHeader("Outcome")
	r.drawKeyValues([][2]string{
		{"Final equity", money(cmp.FinalEquity)},
		{"Final investment", money(cmp.FinalInvestment)},
		{"Cross-over points", fmt.Sprintf("%d", len(cmp.CrossOvers))},
	})
	r.drawWarnings(cmp.Warnings)

	if len(cmp.CrossOvers) > 0 {
		r.drawSectionHeader("Cross-over Points")
		widths := []float64{45, 45, 45, 45}
		r.drawTableHeader([]string{"Date", "Years", "Equity", "Investment"}, widths)
		for _, c := range cmp.CrossOvers {
			r.drawTableRow([]string{
				c.Date.Format(utils.DateLayout),
				fmt.Sprintf("%.2f", c.ElapsedYears),
				money(c.Equity),
				money(c.Investment),
			}, widths, true)
		}
	}

	r.drawSectionHeader("Year by Year")
	widths := []float64{30, 50, 50, 50}
	r.drawTableHeader([]string{"Year", "Equity", "Investment", "Leader"}, widths)
	for _, y := range yearlyComparison(cmp.Rows) {
		leader := "Own"
		if y.investment.GreaterThan(y.equity) {
			leader = "Rent"
		}
		r.drawTableRow([]string{
			fmt.Sprintf("%d", y.year),
			money(y.equity),
			money(y.investment),
			leader,
		}, widths, y.crossed)
	}

	return r.output()
}

type comparisonYear struct {
	year       int
	equity     decimal.Decimal
	investment decimal.Decimal
	crossed    bool
}

// yearlyComparison значения на конец каждого года расчета
func yearlyComparison(rows []calculations.RentVsOwnRow) []comparisonYear {
	var out []comparisonYear
	for _, row := range rows {
		year := int(row.ElapsedYears) + 1
		if len(out) == 0 || out[len(out)-1].year != year {
			out = append(out, comparisonYear{year: year})
		}
		y := &out[len(out)-1]
		y.equity = row.Equity
		y.investment = row.InvestEnd
		y.crossed = y.crossed || row.CrossOver
	}
	return out
}

func paramRows(p calculations.Params, freq calculations.Frequency) [][2]string {
	return [][2]string{
		{"Start date", p.StartDate.Format(utils.DateLayout)},
		{"Purchase price", money(p.Price)},
		{"Deposit", money(p.Deposit)},
		{"Payment", fmt.Sprintf("%s (%s)", money(p.Payment), freq.Name)},
		{"Interest rate", percent(p.AnnualInterestRate)},
		{"Appreciation", percent(p.AnnualAppreciationRate)},
		{"Selling fee", percent(p.RealEstateFeePercent)},
		{"Horizon", fmt.Sprintf("%d years", p.HorizonYears)},
	}
}

func (r *pdfReport) drawTitle(title string) {
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 12, title, "", 1, "C", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", r.now.Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(6)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfReport) drawKeyValues(rows [][2]string) {
	r.pdf.SetTextColor(50, 50, 50)
	for _, kv := range rows {
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(60, 6, kv[0], "", 0, "L", false, 0, "")
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(contentWidth-60, 6, kv[1], "", 1, "L", false, 0, "")
	}
}

func (r *pdfReport) drawWarnings(warnings []error) {
	if len(warnings) == 0 {
		return
	}
	r.pdf.Ln(2)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(180, 80, 0)
	r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf("%d warning(s) were raised for this calculation.", len(warnings)), "", "L", false)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)

	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)

	if isBold {
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 9)
	}

	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 5, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// money форматирует сумму с разделителями тысяч: 1234567.891 -> "1,234,567.89"
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
