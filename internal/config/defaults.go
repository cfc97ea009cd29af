package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults значения параметров, подставляемые вместо не заданных во входных данных
type Defaults struct {
	Price              float64 `yaml:"price" json:"price"`
	Deposit            float64 `yaml:"deposit" json:"deposit"`
	Payment            float64 `yaml:"payment" json:"payment"`
	InterestRate       float64 `yaml:"interest_rate" json:"interest_rate"`
	AppreciationRate   float64 `yaml:"appreciation_rate" json:"appreciation_rate"`
	RealEstateFee      float64 `yaml:"real_estate_fee" json:"real_estate_fee"`
	HorizonYears       int     `yaml:"horizon_years" json:"horizon_years"`
	Frequency          string  `yaml:"frequency" json:"frequency"`
	MonthlyRent        float64 `yaml:"monthly_rent" json:"monthly_rent"`
	MonthlyMaintenance float64 `yaml:"monthly_maintenance" json:"monthly_maintenance"`
	AnnualTax          float64 `yaml:"annual_tax" json:"annual_tax"`
	InvestReturn       float64 `yaml:"invest_return" json:"invest_return"`
	CrossOver          string  `yaml:"cross_over" json:"cross_over"`
}

// DefaultDefaults значения калькулятора без файла настроек
func DefaultDefaults() Defaults {
	return Defaults{
		Price:              900000,
		Deposit:            140000,
		Payment:            3000,
		InterestRate:       1.55,
		AppreciationRate:   5.0,
		RealEstateFee:      5.0,
		HorizonYears:       25,
		Frequency:          "m",
		MonthlyRent:        2500,
		MonthlyMaintenance: 650,
		AnnualTax:          5500,
		InvestReturn:       8.0,
		CrossOver:          "any",
	}
}

// LoadDefaults читает YAML файл поверх DefaultDefaults.
// Пустой путь возвращает значения по умолчанию.
func LoadDefaults(path string) (Defaults, error) {
	d := DefaultDefaults()
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read defaults file: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	return d, nil
}
