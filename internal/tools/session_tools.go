package tools

import (
	"context"
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/validators"
	"go.opentelemetry.io/otel/attribute"
)

// PrepaymentsResult ответ инструментов работы с досрочными платежами
type PrepaymentsResult struct {
	SessionID   string                    `json:"session_id"`
	Prepayments []calculations.Prepayment `json:"prepayments"`
	Count       int                       `json:"count"`
}

// ScenariosResult ответ инструментов работы со сценариями
type ScenariosResult struct {
	SessionID   string   `json:"session_id"`
	Scenarios   []string `json:"scenarios"`
	CommonDates int      `json:"common_dates"`
	Warnings    []string `json:"warnings,omitempty"`
}

// AddPrepaymentHandler добавляет досрочный платеж в сессию
func AddPrepaymentHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "add_prepayment")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		if _, ok := params["date"]; !ok {
			return nil, call.invalid(fmt.Errorf("invalid parameter: date"))
		}
		date, err := dateParam(params, "date", d.today())
		if err != nil {
			return nil, call.invalid(err)
		}
		amount, err := numberParam(params, "amount", 0)
		if err != nil {
			return nil, call.invalid(err)
		}
		if err := validators.ValidatePositiveNumber("amount", amount, 0.01, d.Config.MaxPrice); err != nil {
			return nil, call.invalid(err)
		}

		call.span.SetAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("date", date.Format("2006-01-02")),
			attribute.Float64("amount", amount),
		)

		state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
		if err != nil {
			return nil, call.storage(err)
		}
		if err := validators.CheckPrepayments(d.Config, len(state.Prepayments)+1); err != nil {
			return nil, call.invalid(err)
		}
		state.Prepayments = append(state.Prepayments, calculations.Prepayment{Date: date, Amount: money(amount)})

		if err := d.Store.Save(ctx, sessionID, state); err != nil {
			return nil, call.storage(err)
		}

		call.ok(attribute.Int("count", len(state.Prepayments)))
		return &PrepaymentsResult{SessionID: sessionID, Prepayments: state.Prepayments, Count: len(state.Prepayments)}, nil
	}
}

// ResetPrepaymentsHandler очищает досрочные платежи сессии
func ResetPrepaymentsHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "reset_prepayments")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		call.span.SetAttributes(attribute.String("session_id", sessionID))

		state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
		if err != nil {
			return nil, call.storage(err)
		}
		state.Prepayments = nil
		if err := d.Store.Save(ctx, sessionID, state); err != nil {
			return nil, call.storage(err)
		}

		call.ok()
		return &PrepaymentsResult{SessionID: sessionID, Prepayments: []calculations.Prepayment{}}, nil
	}
}

// SaveScenarioHandler строит график по текущим параметрам и сохраняет ряд остатков
// в наборе сценариев сессии
func SaveScenarioHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "save_scenario")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		name, err := stringParam(params, "name", "")
		if err != nil {
			return nil, call.invalid(err)
		}
		if err := validators.CheckScenarioName(name); err != nil {
			return nil, call.invalid(err)
		}
		p, err := mortgageParams(d.Config, params, d.today())
		if err != nil {
			return nil, call.invalid(err)
		}
		call.span.SetAttributes(attribute.String("session_id", sessionID), attribute.String("name", name))

		state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
		if err != nil {
			return nil, call.storage(err)
		}
		p.Prepayments = state.Prepayments

		schedule, err := d.Engine.Simulate(ctx, p)
		if err != nil {
			return nil, call.failed(err)
		}
		set, err := calculations.SaveScenario(schedule, name, state.Scenarios)
		if err != nil {
			return nil, call.failed(err)
		}
		if err := validators.CheckScenarios(d.Config, set.Len()); err != nil {
			return nil, call.invalid(err)
		}

		var warnings []string
		if set.Len() == 0 {
			warnings = append(warnings, calculations.ErrNoScenarioOverlap.Error())
		}
		state.Scenarios = set
		if err := d.Store.Save(ctx, sessionID, state); err != nil {
			return nil, call.storage(err)
		}

		call.ok(attribute.Int("scenarios", set.Len()))
		return &ScenariosResult{
			SessionID:   sessionID,
			Scenarios:   set.Names(),
			CommonDates: set.Dates().Len(),
			Warnings:    warnings,
		}, nil
	}
}

// ResetScenariosHandler очищает набор сценариев сессии
func ResetScenariosHandler(d Deps) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, call := startCall(ctx, d.Tracer, "reset_scenarios")
		defer call.end()

		sessionID, err := sessionParam(params)
		if err != nil {
			return nil, call.invalid(err)
		}
		call.span.SetAttributes(attribute.String("session_id", sessionID))

		state, err := session.LoadOrEmpty(ctx, d.Store, sessionID)
		if err != nil {
			return nil, call.storage(err)
		}
		state.Scenarios = state.Scenarios.Reset()
		if err := d.Store.Save(ctx, sessionID, state); err != nil {
			return nil, call.storage(err)
		}

		call.ok()
		return &ScenariosResult{SessionID: sessionID, Scenarios: []string{}}, nil
	}
}
