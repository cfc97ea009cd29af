package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

var (
	// ErrValidation входные параметры инструмента не прошли проверку
	ErrValidation = errors.New("неверные параметры")
	// ErrCalculation расчет завершился ошибкой
	ErrCalculation = errors.New("ошибка при выполнении расчета")
	// ErrStorage ошибка чтения или записи сессии
	ErrStorage = errors.New("ошибка хранилища сессий")
	// ErrUnknownTool инструмент с таким именем не зарегистрирован
	ErrUnknownTool = errors.New("неизвестный инструмент")
)

// Deps зависимости обработчиков инструментов
type Deps struct {
	Config *config.Config
	Tracer trace.Tracer
	Engine *calculations.Engine
	Store  session.Store
	Logger *zap.Logger
	// Now источник текущего времени; по умолчанию time.Now
	Now func() time.Time
}

func (d Deps) today() time.Time {
	if d.Now != nil {
		return utils.Day(d.Now())
	}
	return utils.Day(time.Now())
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Registry все инструменты сервера по именам
func Registry(d Deps) map[string]ToolHandler {
	return map[string]ToolHandler{
		"amortization_schedule": AmortizationScheduleHandler(d),
		"add_prepayment":        AddPrepaymentHandler(d),
		"reset_prepayments":     ResetPrepaymentsHandler(d),
		"save_scenario":         SaveScenarioHandler(d),
		"reset_scenarios":       ResetScenariosHandler(d),
		"rent_vs_own":           RentVsOwnHandler(d),
		"schedule_report":       ScheduleReportHandler(d),
	}
}

// Names отсортированные имена инструментов реестра
func Names(registry map[string]ToolHandler) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call вызывает инструмент по имени
func Call(ctx context.Context, registry map[string]ToolHandler, name string, params map[string]interface{}) (interface{}, error) {
	handler, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return handler(ctx, params)
}

// toolCall учет метрик и атрибутов спана одного вызова инструмента
type toolCall struct {
	name string
	span trace.Span
}

func startCall(ctx context.Context, tracer trace.Tracer, name string) (context.Context, toolCall) {
	if tracer == nil {
		tracer = otel.Tracer("mcp-mortgage")
	}
	ctx, span := tracer.Start(ctx, name)
	metrics.APICalls.WithLabelValues("mcp", name, "started").Inc()
	return ctx, toolCall{name: name, span: span}
}

func (c toolCall) end() {
	c.span.End()
}

func (c toolCall) invalid(err error) error {
	c.span.SetAttributes(attribute.String("error", "validation_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, "validation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func (c toolCall) failed(err error) error {
	if errors.Is(err, calculations.ErrInvalidParams) ||
		errors.Is(err, calculations.ErrInvalidFrequency) ||
		errors.Is(err, calculations.ErrInvalidScenarioName) {
		return c.invalid(err)
	}
	c.span.SetAttributes(attribute.String("error", "calculation_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, "calculation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrCalculation, err)
}

func (c toolCall) storage(err error) error {
	c.span.SetAttributes(attribute.String("error", "storage_error"))
	metrics.ToolCalls.WithLabelValues(c.name, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.name, "storage").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "error").Inc()
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func (c toolCall) ok(attrs ...attribute.KeyValue) {
	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.name, "success").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.name, "success").Inc()
}

// warningTexts переводит некритичные ошибки расчета в строки для ответа
func warningTexts(warnings []error) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Error())
	}
	return out
}
