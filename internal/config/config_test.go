package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func runFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("rpc", "", "")
	flags.String("sink", "jsonl", "")
	flags.Uint64("from", 0, "")
	flags.Uint64("to", 0, "")
	flags.Int("concurrency", 4, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", runFlags(t, "--rpc", "http://localhost:8899"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProgramID != DefaultProgramID || cfg.BatchSize != 100 || cfg.Concurrency != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Commitment != "finalized" || cfg.Sink != SinkJSONL || cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INDEXER_PROGRAM_ID", "11111111111111111111111111111111")
	t.Setenv("INDEXER_BATCH_SIZE", "7")

	cfg, err := Load("", runFlags(t, "--rpc", "http://localhost:8899"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProgramID != "11111111111111111111111111111111" || cfg.BatchSize != 7 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexer.yaml")
	content := "rpc: http://node:8899\nsink: postgres\npg-dsn: postgres://localhost/mail\nmetrics-addr: :9090\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != "http://node:8899" || cfg.Sink != SinkPostgres || cfg.MetricsAddr != ":9090" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string][]string{
		"missing rpc":     {},
		"unknown sink":    {"--rpc", "x", "--sink", "kafka"},
		"postgres no dsn": {"--rpc", "x", "--sink", "postgres"},
		"inverted range":  {"--rpc", "x", "--from", "10", "--to", "5"},
		"zero workers":    {"--rpc", "x", "--concurrency", "0"},
	}
	for name, args := range cases {
		if _, err := Load("", runFlags(t, args...)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadDecodeAndLoad(t *testing.T) {
	flags := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flags.String("in", "", "")
	if err := flags.Parse([]string{"--in", "blocks.jsonl"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	dec, err := LoadDecode("", flags)
	if err != nil {
		t.Fatalf("load decode: %v", err)
	}
	if dec.In != "blocks.jsonl" || dec.ProgramID != DefaultProgramID || dec.Errors == "" {
		t.Fatalf("unexpected decode config: %+v", dec)
	}

	if _, err := LoadLoad("", flags); err == nil {
		t.Fatalf("expected error without pg dsn")
	}
	t.Setenv("INDEXER_PG_DSN", "postgres://localhost/mail")
	ld, err := LoadLoad("", flags)
	if err != nil {
		t.Fatalf("load load: %v", err)
	}
	if ld.BatchSize != 1000 || !ld.CreateSchema {
		t.Fatalf("unexpected load config: %+v", ld)
	}
}
