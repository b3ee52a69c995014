package domain

import (
	"testing"

	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestComputeDerivedDataLoad(t *testing.T) {
	cfg := config.DefaultDataLoadConfig()

	derived := ComputeDerived(Lead{ExpectedVolume: 100, Status: StatusOpen}, cfg)
	assert.Equal(t, 1500.0, derived.DailyDataLoadMB)
	assert.Equal(t, 45000.0, derived.MonthlyDataLoadMB)
	assert.Equal(t, 1.46, derived.DailyDataLoadGB)
	assert.Equal(t, 43.95, derived.MonthlyDataLoadGB)
}

func TestComputeDerivedRevenueOnlyWhenWon(t *testing.T) {
	cfg := config.DefaultDataLoadConfig()
	lead := Lead{AgreedPrice: 12.5, ExpectedVolume: 100}

	for _, status := range []string{StatusOpen, StatusLost} {
		lead.Status = status
		derived := ComputeDerived(lead, cfg)
		assert.Zero(t, derived.MonthlyRevenue, status)
		assert.Zero(t, derived.AnnualRevenue, status)
	}

	lead.Status = StatusWon
	derived := ComputeDerived(lead, cfg)
	assert.Equal(t, 1250.0, derived.MonthlyRevenue)
	assert.Equal(t, 15000.0, derived.AnnualRevenue)
}

func TestComputeDerivedHonoursSettings(t *testing.T) {
	cfg := config.DataLoadConfig{MBPerScan: 10, DaysPerMonth: 22, MonthsPerYear: 12, MBPerGB: 1000}

	derived := ComputeDerived(Lead{ExpectedVolume: 100}, cfg)
	assert.Equal(t, 1000.0, derived.DailyDataLoadMB)
	assert.Equal(t, 22000.0, derived.MonthlyDataLoadMB)
	assert.Equal(t, 1.0, derived.DailyDataLoadGB)
	assert.Equal(t, 22.0, derived.MonthlyDataLoadGB)
}

func TestCurrencyRounding(t *testing.T) {
	cfg := config.DefaultDataLoadConfig()

	derived := ComputeDerived(Lead{AgreedPrice: 0.333, ExpectedVolume: 7, Status: StatusWon}, cfg)
	assert.Equal(t, 2.33, derived.MonthlyRevenue)
	assert.Equal(t, 27.97, derived.AnnualRevenue)
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("won"))
	assert.False(t, IsValidStatus("PENDING"))
}
