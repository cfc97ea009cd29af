package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/validators"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
	"github.com/shopspring/decimal"
)

// numberParam читает число; отсутствующий параметр дает def.
// Принимает значения из JSON (float64, json.Number), YAML (int) и строки.
func numberParam(params map[string]interface{}, name string, def float64) (float64, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid parameter: %s", name)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid parameter: %s", name)
		}
		return f, nil
	}
	return 0, fmt.Errorf("invalid parameter: %s", name)
}

func intParam(params map[string]interface{}, name string, def int) (int, error) {
	f, err := numberParam(params, name, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid parameter: %s должно быть целым", name)
	}
	return int(f), nil
}

func stringParam(params map[string]interface{}, name, def string) (string, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid parameter: %s", name)
	}
	return s, nil
}

func boolParam(params map[string]interface{}, name string, def bool) (bool, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("invalid parameter: %s", name)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("invalid parameter: %s", name)
}

func dateParam(params map[string]interface{}, name string, def time.Time) (time.Time, error) {
	v, ok := params[name]
	if !ok || v == nil {
		return def, nil
	}
	switch d := v.(type) {
	case time.Time:
		return utils.Day(d), nil
	case string:
		if strings.TrimSpace(d) == "" {
			return def, nil
		}
		t, err := utils.ParseDate(strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", name, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid parameter: %s", name)
}

// sessionParam возвращает идентификатор сессии из параметров или создает новый
func sessionParam(params map[string]interface{}) (string, error) {
	id, err := stringParam(params, "session_id", "")
	if err != nil {
		return "", err
	}
	if id == "" {
		return session.NewID(), nil
	}
	if !session.ValidID(id) {
		return "", fmt.Errorf("session_id: ожидается UUID")
	}
	return id, nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(utils.Round2(v)).Round(2)
}

// mortgageParams собирает и проверяет параметры графика; незаданные поля берутся из cfg.Defaults
func mortgageParams(cfg *config.Config, params map[string]interface{}, today time.Time) (calculations.Params, error) {
	def := cfg.Defaults

	start, err := dateParam(params, "start_date", today)
	if err != nil {
		return calculations.Params{}, err
	}

	var (
		price, deposit, payment, rate, appreciation, fee float64
		horizon                                          int
		frequency                                        string
	)
	numbers := []struct {
		name string
		dst  *float64
		def  float64
	}{
		{"price", &price, def.Price},
		{"deposit", &deposit, def.Deposit},
		{"payment", &payment, def.Payment},
		{"interest_rate", &rate, def.InterestRate},
		{"appreciation_rate", &appreciation, def.AppreciationRate},
		{"real_estate_fee", &fee, def.RealEstateFee},
	}
	for _, n := range numbers {
		if *n.dst, err = numberParam(params, n.name, n.def); err != nil {
			return calculations.Params{}, err
		}
	}
	if horizon, err = intParam(params, "horizon_years", def.HorizonYears); err != nil {
		return calculations.Params{}, err
	}
	if frequency, err = stringParam(params, "frequency", def.Frequency); err != nil {
		return calculations.Params{}, err
	}

	checks := []error{
		validators.CheckPrice(cfg, price),
		validators.CheckDeposit(cfg, deposit, price),
		validators.CheckPayment(cfg, payment),
		validators.CheckRate(cfg, "interest_rate", rate),
		validators.CheckRate(cfg, "appreciation_rate", appreciation),
		validators.CheckFee(fee),
		validators.CheckHorizon(cfg, horizon),
		validators.CheckFrequency(frequency),
	}
	for _, err := range checks {
		if err != nil {
			return calculations.Params{}, err
		}
	}

	return calculations.Params{
		StartDate:              start,
		Price:                  money(price),
		Deposit:                money(deposit),
		Payment:                money(payment),
		HorizonYears:           horizon,
		AnnualInterestRate:     rate,
		AnnualAppreciationRate: appreciation,
		Frequency:              calculations.FrequencyCode(frequency),
		RealEstateFeePercent:   fee,
	}, nil
}

// rentParams параметры сравнения аренды и покупки поверх параметров графика
func rentParams(cfg *config.Config, params map[string]interface{}, today time.Time) (calculations.RentParams, error) {
	base, err := mortgageParams(cfg, params, today)
	if err != nil {
		return calculations.RentParams{}, err
	}
	def := cfg.Defaults

	rent, err := numberParam(params, "monthly_rent", def.MonthlyRent)
	if err != nil {
		return calculations.RentParams{}, err
	}
	maintenance, err := numberParam(params, "monthly_maintenance", def.MonthlyMaintenance)
	if err != nil {
		return calculations.RentParams{}, err
	}
	tax, err := numberParam(params, "annual_tax", def.AnnualTax)
	if err != nil {
		return calculations.RentParams{}, err
	}
	invest, err := numberParam(params, "invest_return", def.InvestReturn)
	if err != nil {
		return calculations.RentParams{}, err
	}
	rule, err := stringParam(params, "cross_over", def.CrossOver)
	if err != nil {
		return calculations.RentParams{}, err
	}

	checks := []error{
		validators.CheckAmount(cfg, "monthly_rent", rent),
		validators.CheckAmount(cfg, "monthly_maintenance", maintenance),
		validators.CheckAmount(cfg, "annual_tax", tax),
		validators.CheckRate(cfg, "invest_return", invest),
	}
	for _, err := range checks {
		if err != nil {
			return calculations.RentParams{}, err
		}
	}

	return calculations.RentParams{
		Params:             base,
		MonthlyRent:        money(rent),
		MonthlyMaintenance: money(maintenance),
		AnnualTax:          money(tax),
		AnnualInvestReturn: invest,
		CrossOver:          calculations.CrossOverRule(rule),
	}, nil
}
