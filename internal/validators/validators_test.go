package validators

import (
	"math"
	"testing"

	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
)

func TestValidators(t *testing.T) {
	cfg, _ := config.LoadConfig()

	tests := []struct {
		name      string
		validate  func() error
		wantError bool
	}{
		{"valid price", func() error { return CheckPrice(cfg, 900000) }, false},
		{"invalid price zero", func() error { return CheckPrice(cfg, 0) }, true},
		{"invalid price NaN", func() error { return CheckPrice(cfg, math.NaN()) }, true},
		{"invalid price too large", func() error { return CheckPrice(cfg, cfg.MaxPrice*2) }, true},
		{"valid deposit", func() error { return CheckDeposit(cfg, 140000, 900000) }, false},
		{"valid zero deposit", func() error { return CheckDeposit(cfg, 0, 900000) }, false},
		{"invalid deposit equals price", func() error { return CheckDeposit(cfg, 900000, 900000) }, true},
		{"invalid deposit negative", func() error { return CheckDeposit(cfg, -1, 900000) }, true},
		{"valid payment", func() error { return CheckPayment(cfg, 3000) }, false},
		{"invalid payment zero", func() error { return CheckPayment(cfg, 0) }, true},
		{"valid rent", func() error { return CheckAmount(cfg, "monthly_rent", 2500) }, false},
		{"invalid tax negative", func() error { return CheckAmount(cfg, "annual_tax", -1) }, true},
		{"valid rate", func() error { return CheckRate(cfg, "interest_rate", 1.55) }, false},
		{"valid negative appreciation", func() error { return CheckRate(cfg, "appreciation_rate", -2) }, false},
		{"invalid rate too large", func() error { return CheckRate(cfg, "interest_rate", 500) }, true},
		{"valid fee", func() error { return CheckFee(5) }, false},
		{"invalid fee 100", func() error { return CheckFee(100) }, true},
		{"valid horizon", func() error { return CheckHorizon(cfg, 25) }, false},
		{"invalid horizon zero", func() error { return CheckHorizon(cfg, 0) }, true},
		{"invalid horizon too long", func() error { return CheckHorizon(cfg, cfg.MaxHorizonYears+1) }, true},
		{"valid frequency", func() error { return CheckFrequency("a") }, false},
		{"invalid frequency", func() error { return CheckFrequency("w") }, true},
		{"too many prepayments", func() error { return CheckPrepayments(cfg, cfg.MaxPrepayments+1) }, true},
		{"scenarios at limit", func() error { return CheckScenarios(cfg, cfg.MaxScenarios) }, false},
		{"blank scenario name", func() error { return CheckScenarioName("  ") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate()
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
