package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDataLoadConfig(t *testing.T) {
	assert.NoError(t, validateDataLoadConfig(DefaultDataLoadConfig()))

	cfg := DefaultDataLoadConfig()
	cfg.MBPerScan = 0
	assert.Error(t, validateDataLoadConfig(cfg))

	cfg = DefaultDataLoadConfig()
	cfg.DaysPerMonth = -1
	assert.Error(t, validateDataLoadConfig(cfg))
}

func TestDataLoadConfigHolderFallsBackToDefaults(t *testing.T) {
	var holder *DataLoadConfigHolder
	assert.Equal(t, DefaultDataLoadConfig(), holder.Get())

	static := NewStaticDataLoadConfigHolder(DataLoadConfig{MBPerScan: 10, DaysPerMonth: 31, MonthsPerYear: 12, MBPerGB: 1000})
	assert.Equal(t, 31, static.Get().DaysPerMonth)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseList(" http://a, ,http://b "))
	assert.Empty(t, parseList(""))
}
