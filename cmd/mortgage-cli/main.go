package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/logging"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// inputFile YAML файл параметров: поля инструментов плюс досрочные платежи
// и сценарии для сравнения
type inputFile struct {
	Params      map[string]interface{}
	Prepayments []map[string]interface{}
	Scenarios   []map[string]interface{}
}

func main() {
	paramsPath := flag.String("params", "", "YAML файл с параметрами расчета")
	mode := flag.String("mode", "amortize", "режим: amortize или rent")
	pdfPath := flag.String("pdf", "", "сохранить PDF отчет в файл")
	flag.Parse()

	if err := run(os.Stdout, *paramsPath, *mode, *pdfPath); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func run(out io.Writer, paramsPath, mode, pdfPath string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	input, err := loadInput(paramsPath)
	if err != nil {
		return err
	}

	registry := tools.Registry(tools.Deps{
		Config: cfg,
		Engine: calculations.NewEngine(logger),
		Store:  session.NewMemoryStore(0),
		Logger: logger,
	})
	ctx := context.Background()
	sessionID := session.NewID()

	call := func(tool string, extra map[string]interface{}) (interface{}, error) {
		params := merge(input.Params, extra)
		params["session_id"] = sessionID
		return tools.Call(ctx, registry, tool, params)
	}

	switch mode {
	case "amortize":
		for _, pp := range input.Prepayments {
			if _, err := call("add_prepayment", pp); err != nil {
				return err
			}
		}
		for _, sc := range input.Scenarios {
			if _, err := call("save_scenario", sc); err != nil {
				return err
			}
		}
		res, err := call("amortization_schedule", nil)
		if err != nil {
			return err
		}
		renderSchedule(out, res.(*tools.ScheduleResult))
	case "rent":
		res, err := call("rent_vs_own", nil)
		if err != nil {
			return err
		}
		renderComparison(out, res.(*tools.RentVsOwnResult))
	default:
		return fmt.Errorf("неизвестный режим %q: ожидается amortize или rent", mode)
	}

	if pdfPath == "" {
		return nil
	}
	res, err := call("schedule_report", map[string]interface{}{"mode": mode})
	if err != nil {
		return err
	}
	pdf, err := base64.StdEncoding.DecodeString(res.(*tools.ReportResult).ContentBase64)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	logger.Info("pdf report written", zap.String("path", pdfPath), zap.Int("bytes", len(pdf)))
	fmt.Fprintln(out, labelStyle.Render("PDF report: ")+valueStyle.Render(pdfPath))
	return nil
}

// loadInput читает YAML файл параметров. Ключи prepayments и scenarios
// выделяются из общего словаря; пустой путь дает значения по умолчанию.
func loadInput(path string) (inputFile, error) {
	input := inputFile{Params: map[string]interface{}{}}
	if path == "" {
		return input, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("failed to read params file: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return input, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}

	for key, value := range raw {
		switch key {
		case "prepayments":
			items, err := listOfMaps(key, value)
			if err != nil {
				return input, err
			}
			input.Prepayments = items
		case "scenarios":
			items, err := listOfMaps(key, value)
			if err != nil {
				return input, err
			}
			input.Scenarios = items
		default:
			input.Params[key] = value
		}
	}
	return input, nil
}

func listOfMaps(key string, value interface{}) ([]map[string]interface{}, error) {
	list, ok := value.([]interface{})
	if !ok {
		return nil, errors.New(key + ": ожидается список")
	}
	out := make([]map[string]interface{}, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d]: ожидается словарь", key, i)
		}
		out = append(out, m)
	}
	return out, nil
}

// merge копия base с перекрытием полями extra
func merge(base, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra)+1)
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
