package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultProgramID is the deployed mail program.
const DefaultProgramID = "AWzFXDVYFkiFH5SqmHQ7BBYn4L94CxZwni68vsPmXcVe"

// Sink names accepted by the run command.
const (
	SinkJSONL    = "jsonl"
	SinkPostgres = "postgres"
)

// Config holds configuration for the run command.
type Config struct {
	RPCURL            string
	ProgramID         string
	FromSlot          uint64
	ToSlot            uint64
	BatchSize         uint64
	Concurrency       int
	Commitment        string
	Sink              string
	Out               string
	PGDSN             string
	CreateSchema      bool
	Checkpoint        string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
	MetricsAddr       string
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := newViper()
	v.SetDefault("program-id", DefaultProgramID)
	v.SetDefault("batch-size", uint64(100))
	v.SetDefault("concurrency", 4)
	v.SetDefault("commitment", "finalized")
	v.SetDefault("sink", SinkJSONL)
	v.SetDefault("out", "./data/rows.jsonl")
	v.SetDefault("create-schema", false)
	v.SetDefault("checkpoint", "./data/checkpoint.json")
	v.SetDefault("checkpoint-enabled", true)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if err := read(v, cfgFile, flags); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:            v.GetString("rpc"),
		ProgramID:         strings.TrimSpace(v.GetString("program-id")),
		FromSlot:          v.GetUint64("from"),
		ToSlot:            v.GetUint64("to"),
		BatchSize:         v.GetUint64("batch-size"),
		Concurrency:       v.GetInt("concurrency"),
		Commitment:        v.GetString("commitment"),
		Sink:              strings.ToLower(v.GetString("sink")),
		Out:               v.GetString("out"),
		PGDSN:             v.GetString("pg-dsn"),
		CreateSchema:      v.GetBool("create-schema"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		MetricsAddr:       v.GetString("metrics-addr"),
		LogLevel:          v.GetString("log-level"),
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that do not need network access.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.ProgramID == "" {
		return fmt.Errorf("program id is required")
	}
	if c.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than zero")
	}
	if c.ToSlot != 0 && c.ToSlot < c.FromSlot {
		return fmt.Errorf("to slot must be >= from slot")
	}
	switch c.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("unknown commitment %q", c.Commitment)
	}
	switch c.Sink {
	case SinkJSONL:
		if c.Out == "" {
			return fmt.Errorf("output path is required")
		}
	case SinkPostgres:
		if c.PGDSN == "" {
			return fmt.Errorf("pg dsn is required for the postgres sink")
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// read binds flags and reads the config file, or ./config.* when none is given.
func read(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
