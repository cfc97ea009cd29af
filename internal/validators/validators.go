package validators

import (
	"fmt"
	"strings"

	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%.0f)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrice проверяет стоимость жилья
func CheckPrice(cfg *config.Config, price float64) error {
	return ValidatePositiveNumber("price", price, 0.01, cfg.MaxPrice)
}

// CheckDeposit проверяет первоначальный взнос: 0 ≤ deposit < price
func CheckDeposit(cfg *config.Config, deposit, price float64) error {
	if err := ValidatePositiveNumber("deposit", deposit, 0, cfg.MaxPrice); err != nil {
		return err
	}
	if deposit >= price {
		return fmt.Errorf("deposit: взнос должен быть меньше стоимости жилья")
	}
	return nil
}

// CheckPayment проверяет регулярный платеж
func CheckPayment(cfg *config.Config, payment float64) error {
	return ValidatePositiveNumber("payment", payment, 0.01, cfg.MaxPayment)
}

// CheckAmount проверяет неотрицательную сумму (аренда, обслуживание, налог)
func CheckAmount(cfg *config.Config, name string, amount float64) error {
	return ValidatePositiveNumber(name, amount, 0, cfg.MaxPayment)
}

// CheckRate проверяет процентную ставку. Отрицательные ставки допустимы до -MaxRate
// (падение цен, отрицательная доходность).
func CheckRate(cfg *config.Config, name string, rate float64) error {
	return ValidatePositiveNumber(name, rate, -cfg.MaxRate, cfg.MaxRate)
}

// CheckFee проверяет комиссию при продаже в процентах
func CheckFee(fee float64) error {
	if err := ValidatePositiveNumber("real_estate_fee", fee, 0, 100); err != nil {
		return err
	}
	if fee == 100 {
		return fmt.Errorf("real_estate_fee: значение должно быть меньше 100")
	}
	return nil
}

// CheckHorizon проверяет горизонт расчета в годах
func CheckHorizon(cfg *config.Config, years int) error {
	return ValidateIntRange("horizon_years", years, 1, cfg.MaxHorizonYears)
}

// CheckFrequency проверяет код частоты платежей
func CheckFrequency(code string) error {
	switch code {
	case "m", "b", "a", "d":
		return nil
	}
	return fmt.Errorf("frequency: неизвестный код %q, допустимы m, b, a, d", code)
}

// CheckPrepayments проверяет число досрочных платежей в сессии
func CheckPrepayments(cfg *config.Config, count int) error {
	return ValidateIntRange("prepayments", count, 0, cfg.MaxPrepayments)
}

// CheckScenarios проверяет число сохраненных сценариев
func CheckScenarios(cfg *config.Config, count int) error {
	return ValidateIntRange("scenarios", count, 0, cfg.MaxScenarios)
}

// CheckScenarioName проверяет имя сценария
func CheckScenarioName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name: имя сценария не может быть пустым")
	}
	return nil
}
