package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/report"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ScheduleResult ответ инструмента amortization_schedule
type ScheduleResult struct {
	SessionID          string                     `json:"session_id"`
	Params             calculations.Params        `json:"params"`
	Summary            calculations.Summary       `json:"summary"`
	RequiredPayment    decimal.Decimal            `json:"required_payment"`
	Rows               []calculations.ScheduleRow `json:"rows"`
	CumulativeInterest []decimal.Decimal          `json:"cumulative_interest"`
	Yearly             []calculations.YearlyRow   `json:"yearly"`
	TotalRows          int                        `json:"total_rows"`
	Scenarios          []string                   `json:"scenarios,omitempty"`
	Warnings           []string                   `json:"warnings,omitempty"`
}

// RentVsOwnResult ответ инструмента rent_vs_own
type RentVsOwnResult struct {
	SessionID  string                   `json:"session_id"`
	Params     calculations.RentParams  `json:"params"`
	Comparison *calculations.Comparison `json:"comparison"`
	TotalRows  int                      `json:"total_rows"`
	Leader     string                   `json:"leader"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// ReportResult ответ инструмента schedule_report
type ReportResult struct {
	SessionID     string `json:"session_id"`
	Mode          string `json:"mode"`
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentBase64 string `json:"content_base64"`
	Size          int    `json:"size"`
}

// AmortizationScheduleHandler строит график погашения с досрочными платежами
// и сценариями из сессии
func AmortizationScheduleHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "amortization_schedule")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		p, err := mortgageParams(d.Config, params, d.today())
		if err != nil {
			return nil, call.invalid(err)
		}
		paymentsOnly, err := boolParam(params, "payments_only", true)
		if err != nil {
			return nil, call.invalid(err)
		}

		call.span.SetAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("price", p.Price.String()),
			attribute.String("payment", p.Payment.String()),
			attribute.String("frequency", string(p.Frequency)),
			attribute.Int("horizon_years", p.HorizonYears),
		)

		state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
		if err != nil {
			return nil, call.storage(err)
		}
		p.Prepayments = state.Prepayments
		if state.Scenarios.Len() > 0 {
			p.Scenarios = &state.Scenarios
		}

		schedule, err := d.Engine.Simulate(ctx, p)
		if err != nil {
			return nil, call.failed(err)
		}
		metrics.ScheduleRows.WithLabelValues(call.name, string(p.Frequency)).Observe(float64(len(schedule.Rows)))

		required, err := calculations.RequiredPayment(p)
		if err != nil {
			return nil, call.failed(err)
		}

		cumulative := calculations.CumulativeInterest(schedule.Rows)
		keep := rowFilter(schedule.Rows, paymentsOnly)
		result := &ScheduleResult{
			SessionID:          sessionID,
			Params:             p,
			Summary:            calculations.Summarize(schedule),
			RequiredPayment:    required,
			Rows:               pick(schedule.Rows, keep),
			CumulativeInterest: pick(cumulative, keep),
			Yearly:             calculations.Yearly(schedule.Rows),
			TotalRows:          len(schedule.Rows),
			Scenarios:          state.Scenarios.Names(),
			Warnings:           warningTexts(schedule.Warnings),
		}
		result.Params.Scenarios = nil

		call.ok(
			attribute.Int("rows", len(schedule.Rows)),
			attribute.Bool("fully_amortized", schedule.FullyAmortized),
			attribute.String("payback", result.Summary.PaybackText),
		)
		d.logger().Debug("schedule built",
			zap.String("session_id", sessionID),
			zap.Int("rows", len(schedule.Rows)),
			zap.Int("warnings", len(schedule.Warnings)),
		)
		return result, nil
	}
}

// RentVsOwnHandler сравнивает покупку с арендой и инвестированием разницы
func RentVsOwnHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "rent_vs_own")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		rp, err := rentParams(d.Config, params, d.today())
		if err != nil {
			return nil, call.invalid(err)
		}
		paymentsOnly, err := boolParam(params, "payments_only", true)
		if err != nil {
			return nil, call.invalid(err)
		}

		call.span.SetAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("monthly_rent", rp.MonthlyRent.String()),
			attribute.Float64("invest_return", rp.AnnualInvestReturn),
			attribute.String("cross_over", string(rp.CrossOver)),
		)

		cmp, err := d.Engine.Compare(ctx, rp)
		if err != nil {
			return nil, call.failed(err)
		}
		metrics.ScheduleRows.WithLabelValues(call.name, string(rp.Frequency)).Observe(float64(len(cmp.Rows)))

		total := len(cmp.Rows)
		trimmed := *cmp
		trimmed.Rows = comparisonRows(cmp.Rows, paymentsOnly)

		leader := "own"
		if cmp.FinalInvestment.GreaterThan(cmp.FinalEquity) {
			leader = "rent"
		}

		call.ok(
			attribute.Int("rows", total),
			attribute.Int("cross_overs", len(cmp.CrossOvers)),
			attribute.String("leader", leader),
		)
		return &RentVsOwnResult{
			SessionID:  sessionID,
			Params:     rp,
			Comparison: &trimmed,
			TotalRows:  total,
			Leader:     leader,
			Warnings:   warningTexts(cmp.Warnings),
		}, nil
	}
}

// ScheduleReportHandler формирует PDF отчет (mode: amortize или rent)
func ScheduleReportHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "schedule_report")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		mode, err := stringParam(params, "mode", "amortize")
		if err != nil {
			return nil, call.invalid(err)
		}
		call.span.SetAttributes(attribute.String("session_id", sessionID), attribute.String("mode", mode))

		var pdf []byte
		switch mode {
		case "amortize":
			p, err := mortgageParams(d.Config, params, d.today())
			if err != nil {
				return nil, call.invalid(err)
			}
			state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
			if err != nil {
				return nil, call.storage(err)
			}
			p.Prepayments = state.Prepayments

			schedule, err := d.Engine.Simulate(ctx, p)
			if err != nil {
				return nil, call.failed(err)
			}
			if pdf, err = report.Schedule(p, schedule, d.today()); err != nil {
				return nil, call.failed(err)
			}
		case "rent":
			rp, err := rentParams(d.Config, params, d.today())
			if err != nil {
				return nil, call.invalid(err)
			}
			cmp, err := d.Engine.Compare(ctx, rp)
			if err != nil {
				return nil, call.failed(err)
			}
			if pdf, err = report.Comparison(rp, cmp, d.today()); err != nil {
				return nil, call.failed(err)
			}
		default:
			return nil, call.invalid(fmt.Errorf("mode: ожидается amortize или rent, получено %q", mode))
		}

		call.ok(attribute.Int("size", len(pdf)))
		return &ReportResult{
			SessionID:     sessionID,
			Mode:          mode,
			Filename:      fmt.Sprintf("mortgage-%s-%s.pdf", mode, d.today().Format("20060102")),
			ContentType:   "application/pdf",
			ContentBase64: base64.StdEncoding.EncodeToString(pdf),
			Size:          len(pdf),
		}, nil
	}
}

// rowFilter индексы строк для ответа: при paymentsOnly только дни платежей,
// досрочных платежей и последняя строка
func rowFilter(rows []calculations.ScheduleRow, paymentsOnly bool) []int {
	keep := make([]int, 0, len(rows))
	for i, row := range rows {
		if !paymentsOnly || row.IsPaymentPeriod || row.Prepayment.IsPositive() || i == len(rows)-1 {
			keep = append(keep, i)
		}
	}
	return keep
}

func pick[T any](values []T, keep []int) []T {
	out := make([]T, 0, len(keep))
	for _, i := range keep {
		out = append(out, values[i])
	}
	return out
}

func comparisonRows(rows []calculations.RentVsOwnRow, paymentsOnly bool) []calculations.RentVsOwnRow {
	if !paymentsOnly {
		return rows
	}
	out := make([]calculations.RentVsOwnRow, 0, len(rows))
	for i, row := range rows {
		if row.IsPaymentPeriod || row.CrossOver || i == len(rows)-1 {
			out = append(out, row)
		}
	}
	return out
}
