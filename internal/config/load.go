package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// LoadConfig holds configuration for the load command.
type LoadConfig struct {
	In           string
	PGDSN        string
	BatchSize    int
	CreateSchema bool
	LogLevel     string
}

// LoadLoad merges config file, environment variables, and flags into LoadConfig.
func LoadLoad(cfgFile string, flags *pflag.FlagSet) (LoadConfig, error) {
	v := newViper()
	v.SetDefault("batch-size", 1000)
	v.SetDefault("create-schema", true)
	v.SetDefault("log-level", "info")

	if err := read(v, cfgFile, flags); err != nil {
		return LoadConfig{}, err
	}

	cfg := LoadConfig{
		In:           v.GetString("in"),
		PGDSN:        v.GetString("pg-dsn"),
		BatchSize:    v.GetInt("batch-size"),
		CreateSchema: v.GetBool("create-schema"),
		LogLevel:     v.GetString("log-level"),
	}

	if cfg.In == "" {
		return cfg, fmt.Errorf("input path is required")
	}
	if cfg.PGDSN == "" {
		return cfg, fmt.Errorf("pg dsn is required")
	}
	if cfg.BatchSize <= 0 {
		return cfg, fmt.Errorf("batch size must be greater than zero")
	}
	return cfg, nil
}
