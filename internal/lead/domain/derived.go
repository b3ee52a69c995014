package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/fluxcrm/internal/config"
)

// Derived holds the computed revenue and data-load figures for a lead.
type Derived struct {
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	AnnualRevenue     float64 `json:"annual_revenue"`
	DailyDataLoadMB   float64 `json:"daily_data_load_mb"`
	MonthlyDataLoadMB float64 `json:"monthly_data_load_mb"`
	DailyDataLoadGB   float64 `json:"daily_data_load_gb"`
	MonthlyDataLoadGB float64 `json:"monthly_data_load_gb"`
}

// DerivedAmounts is the unrounded form used when summing across leads.
type DerivedAmounts struct {
	MonthlyRevenue    decimal.Decimal
	AnnualRevenue     decimal.Decimal
	DailyDataLoadMB   decimal.Decimal
	MonthlyDataLoadMB decimal.Decimal
	DailyDataLoadGB   decimal.Decimal
	MonthlyDataLoadGB decimal.Decimal
}

// ComputeAmounts derives revenue and data load for a lead. Revenue is
// counted only for won leads; data load is estimated for every lead.
func ComputeAmounts(lead Lead, cfg config.DataLoadConfig) DerivedAmounts {
	volume := decimal.NewFromInt(lead.ExpectedVolume)

	monthly := decimal.Zero
	if lead.Status == StatusWon {
		monthly = decimal.NewFromFloat(lead.AgreedPrice).Mul(volume)
	}

	dailyMB := volume.Mul(decimal.NewFromFloat(cfg.MBPerScan))
	monthlyMB := dailyMB.Mul(decimal.NewFromInt(int64(cfg.DaysPerMonth)))
	mbPerGB := decimal.NewFromFloat(cfg.MBPerGB)

	return DerivedAmounts{
		MonthlyRevenue:    monthly,
		AnnualRevenue:     monthly.Mul(decimal.NewFromInt(int64(cfg.MonthsPerYear))),
		DailyDataLoadMB:   dailyMB,
		MonthlyDataLoadMB: monthlyMB,
		DailyDataLoadGB:   dailyMB.Div(mbPerGB),
		MonthlyDataLoadGB: monthlyMB.Div(mbPerGB),
	}
}

// Rounded returns the amounts at currency precision.
func (a DerivedAmounts) Rounded() Derived {
	return Derived{
		MonthlyRevenue:    Round2(a.MonthlyRevenue),
		AnnualRevenue:     Round2(a.AnnualRevenue),
		DailyDataLoadMB:   Round2(a.DailyDataLoadMB),
		MonthlyDataLoadMB: Round2(a.MonthlyDataLoadMB),
		DailyDataLoadGB:   Round2(a.DailyDataLoadGB),
		MonthlyDataLoadGB: Round2(a.MonthlyDataLoadGB),
	}
}

func ComputeDerived(lead Lead, cfg config.DataLoadConfig) Derived {
	return ComputeAmounts(lead, cfg).Rounded()
}

func Round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
