package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6B7280")).Padding(0, 1)
)

func renderSchedule(out io.Writer, r *tools.ScheduleResult) {
	fmt.Fprintln(out, titleStyle.Render("Mortgage Amortization"))

	fmt.Fprintln(out, boxStyle.Render(keyValues([][2]string{
		{"Payback", r.Summary.PaybackText},
		{"Payoff date", r.Summary.PayoffDate.Format(utils.DateLayout)},
		{"Total interest", amount(r.Summary.TotalInterest)},
		{"Maximum equity", amount(r.Summary.FinalEquity)},
	})))

	rows := make([][]string, 0, len(r.Yearly))
	for _, y := range r.Yearly {
		rows = append(rows, []string{
			fmt.Sprintf("%d", y.Year), amount(y.Payments), amount(y.Prepaid),
			amount(y.Interest), amount(y.EndBalance), amount(y.Equity),
		})
	}
	fmt.Fprintln(out, table([]string{"Year", "Payments", "Prepaid", "Interest", "Balance", "Equity"}, rows))

	if len(r.Scenarios) > 0 {
		fmt.Fprintln(out, labelStyle.Render("Scenarios: ")+valueStyle.Render(strings.Join(r.Scenarios, ", ")))
	}
	renderWarnings(out, r.Warnings)
}

func renderComparison(out io.Writer, r *tools.RentVsOwnResult) {
	cmp := r.Comparison
	fmt.Fprintln(out, titleStyle.Render("Rent vs Own"))

	fmt.Fprintln(out, boxStyle.Render(keyValues([][2]string{
		{"Rent per period", amount(cmp.PeriodRent)},
		{"Maintenance per period", amount(cmp.PeriodMaintenance)},
		{"Tax per period", amount(cmp.PeriodTax)},
		{"Payment minus rent", amount(cmp.PaymentRentDifference)},
		{"Final equity", amount(cmp.FinalEquity)},
		{"Final investment", amount(cmp.FinalInvestment)},
		{"Better option", strings.ToUpper(r.Leader)},
	})))

	if len(cmp.CrossOvers) > 0 {
		rows := make([][]string, 0, len(cmp.CrossOvers))
		for _, c := range cmp.CrossOvers {
			rows = append(rows, []string{
				c.Date.Format(utils.DateLayout), fmt.Sprintf("%.2f", c.ElapsedYears),
				amount(c.Equity), amount(c.Investment),
			})
		}
		fmt.Fprintln(out, headerStyle.Render("Cross-over points"))
		fmt.Fprintln(out, table([]string{"Date", "Years", "Equity", "Investment"}, rows))
	} else {
		fmt.Fprintln(out, labelStyle.Render("No cross-over within the horizon"))
	}
	renderWarnings(out, r.Warnings)
}

func renderWarnings(out io.Writer, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(out, warnStyle.Render("! "+w))
	}
}

func keyValues(rows [][2]string) string {
	width := 0
	for _, kv := range rows {
		width = max(width, lipgloss.Width(kv[0]))
	}
	lines := make([]string, 0, len(rows))
	for _, kv := range rows {
		label := labelStyle.Width(width + 2).Render(kv[0])
		lines = append(lines, label+valueStyle.Render(kv[1]))
	}
	return strings.Join(lines, "\n")
}

// table выравнивает первую колонку влево, остальные вправо
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			align := lipgloss.Right
			if i == 0 {
				align = lipgloss.Left
			}
			parts[i] = style.Width(widths[i]).Align(align).Render(cell)
		}
		return strings.Join(parts, "  ")
	}

	lines := []string{line(headers, headerStyle)}
	for _, row := range rows {
		lines = append(lines, line(row, lipgloss.NewStyle()))
	}
	return strings.Join(lines, "\n")
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
