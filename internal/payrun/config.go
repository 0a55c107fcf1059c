package payrun

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Statutory parameters. Defaults mirror the Indian SMB payroll rules the
// product ships with; every figure is overridable through the environment
// because none of them is a universal law. Money values are paise.
type Config struct {
	PFRatePct          decimal.Decimal // employee and employer each
	PFWageCeiling      int64           // monthly basic cap for PF
	ESIEmployeePct     decimal.Decimal
	ESIEmployerPct     decimal.Decimal
	ESIGrossCeiling    int64 // gross at or above this is ESI-ineligible
	DefaultWorkingDays int
}

func DefaultConfig() Config {
	return Config{
		PFRatePct:          decimal.NewFromInt(12),
		PFWageCeiling:      1_500_000, // ₹15,000
		ESIEmployeePct:     decimal.RequireFromString("0.75"),
		ESIEmployerPct:     decimal.RequireFromString("3.25"),
		ESIGrossCeiling:    2_100_000, // ₹21,000
		DefaultWorkingDays: 26,
	}
}

func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PAYROLL_PF_RATE_PCT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.PFRatePct = d
		}
	}
	if v := os.Getenv("PAYROLL_PF_WAGE_CEILING"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.PFWageCeiling = n
		}
	}
	if v := os.Getenv("PAYROLL_ESI_EMPLOYEE_PCT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.ESIEmployeePct = d
		}
	}
	if v := os.Getenv("PAYROLL_ESI_EMPLOYER_PCT"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			cfg.ESIEmployerPct = d
		}
	}
	if v := os.Getenv("PAYROLL_ESI_GROSS_CEILING"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.ESIGrossCeiling = n
		}
	}
	if v := os.Getenv("PAYROLL_DEFAULT_WORKING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultWorkingDays = n
		}
	}

	return cfg
}
