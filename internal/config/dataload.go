package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DataLoadConfig holds the constants used to derive storage load from scan volume.
type DataLoadConfig struct {
	MBPerScan     float64 `mapstructure:"mbPerScan"`
	DaysPerMonth  int     `mapstructure:"daysPerMonth"`
	MonthsPerYear int     `mapstructure:"monthsPerYear"`
	MBPerGB       float64 `mapstructure:"mbPerGB"`
}

func DefaultDataLoadConfig() DataLoadConfig {
	return DataLoadConfig{
		MBPerScan:     15,
		DaysPerMonth:  30,
		MonthsPerYear: 12,
		MBPerGB:       1024,
	}
}

type DataLoadConfigHolder struct {
	current atomic.Value // holds DataLoadConfig
}

// NewStaticDataLoadConfigHolder returns a holder that never reloads.
func NewStaticDataLoadConfigHolder(cfg DataLoadConfig) *DataLoadConfigHolder {
	holder := &DataLoadConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewDataLoadConfigHolder() (*DataLoadConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("fluxcrm")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/fluxcrm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FLUXCRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDataLoadConfig()
	v.SetDefault("dataload.mbPerScan", defaults.MBPerScan)
	v.SetDefault("dataload.daysPerMonth", defaults.DaysPerMonth)
	v.SetDefault("dataload.monthsPerYear", defaults.MonthsPerYear)
	v.SetDefault("dataload.mbPerGB", defaults.MBPerGB)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg DataLoadConfig
	if err := v.UnmarshalKey("dataload", &cfg); err != nil {
		return nil, err
	}
	if err := validateDataLoadConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticDataLoadConfigHolder(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DataLoadConfig
		if err := v.UnmarshalKey("dataload", &updated); err != nil {
			log.Printf("[dataload-config] reload failed: %v", err)
			return
		}
		if err := validateDataLoadConfig(updated); err != nil {
			log.Printf("[dataload-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[dataload-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *DataLoadConfigHolder) Get() DataLoadConfig {
	if h == nil {
		return DefaultDataLoadConfig()
	}
	cfg, ok := h.current.Load().(DataLoadConfig)
	if !ok {
		return DefaultDataLoadConfig()
	}
	return cfg
}

func validateDataLoadConfig(cfg DataLoadConfig) error {
	if cfg.MBPerScan <= 0 {
		return errors.New("dataload.mbPerScan must be positive")
	}
	if cfg.DaysPerMonth <= 0 {
		return errors.New("dataload.daysPerMonth must be positive")
	}
	if cfg.MonthsPerYear <= 0 {
		return errors.New("dataload.monthsPerYear must be positive")
	}
	if cfg.MBPerGB <= 0 {
		return errors.New("dataload.mbPerGB must be positive")
	}
	return nil
}
