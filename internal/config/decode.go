package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// DecodeConfig holds configuration for the decode command.
type DecodeConfig struct {
	ProgramID string
	In        string
	Out       string
	Errors    string
	LogLevel  string
}

// LoadDecode merges config file, environment variables, and flags into DecodeConfig.
func LoadDecode(cfgFile string, flags *pflag.FlagSet) (DecodeConfig, error) {
	v := newViper()
	v.SetDefault("program-id", DefaultProgramID)
	v.SetDefault("out", "./data/rows.jsonl")
	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("log-level", "info")

	if err := read(v, cfgFile, flags); err != nil {
		return DecodeConfig{}, err
	}

	cfg := DecodeConfig{
		ProgramID: strings.TrimSpace(v.GetString("program-id")),
		In:        v.GetString("in"),
		Out:       v.GetString("out"),
		Errors:    v.GetString("errors"),
		LogLevel:  v.GetString("log-level"),
	}

	if cfg.In == "" {
		return cfg, fmt.Errorf("input path is required")
	}
	if cfg.Out == "" {
		return cfg, fmt.Errorf("output path is required")
	}
	if cfg.Errors == "" {
		return cfg, fmt.Errorf("errors path is required")
	}
	return cfg, nil
}
