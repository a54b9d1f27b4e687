package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"mailscope/internal/chain"
	"mailscope/internal/config"
	"mailscope/internal/indexer"
	"mailscope/internal/mail"
	"mailscope/internal/metrics"
	"mailscope/internal/storage"
	"mailscope/internal/storage/postgres"
)

const checkpointName = "mail"

func main() {
	root := &cobra.Command{
		Use:          "indexer",
		Short:        "Solana mail program indexer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Index mail program activity from an RPC node",
		RunE:  runIndexer,
	}

	runCmd.Flags().String("rpc", "", "Solana RPC URL")
	runCmd.Flags().String("program-id", config.DefaultProgramID, "mail program address")
	runCmd.Flags().Uint64("from", 0, "start slot (inclusive)")
	runCmd.Flags().Uint64("to", 0, "end slot (inclusive), 0 means latest")
	runCmd.Flags().Uint64("batch-size", 100, "slots per batch")
	runCmd.Flags().Int("concurrency", 4, "parallel getBlock calls")
	runCmd.Flags().String("commitment", "finalized", "commitment (processed, confirmed, finalized)")
	runCmd.Flags().String("sink", config.SinkJSONL, "row sink (jsonl, postgres)")
	runCmd.Flags().String("out", "./data/rows.jsonl", "output rows JSONL path, .zst compresses")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().Bool("create-schema", false, "create row tables before indexing")
	runCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	runCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("metrics-addr", "", "serve /metrics on this address when set")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode blocks JSONL into database rows",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("program-id", config.DefaultProgramID, "mail program address")
	decodeCmd.Flags().String("in", "", "input blocks JSONL")
	decodeCmd.Flags().String("out", "./data/rows.jsonl", "output rows JSONL, .zst compresses")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Upsert rows JSONL into Postgres",
		RunE:  runLoad,
	}

	loadCmd.Flags().String("in", "", "input rows JSONL")
	loadCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	loadCmd.Flags().Int("batch-size", 1000, "rows per upsert batch")
	loadCmd.Flags().Bool("create-schema", true, "create row tables before loading")
	loadCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(loadCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIndexer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	programID, err := indexer.ParseProgramID(cfg.ProgramID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.Commitment)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()
	chainClient.SetObserver(m.ObserveRPC)

	var (
		storageSink storage.Storage
		checkpoint  indexer.CheckpointStore
	)
	switch cfg.Sink {
	case config.SinkPostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if cfg.CreateSchema {
			if err := store.EnsureSchema(ctx, mail.Tables()); err != nil {
				return err
			}
		}
		storageSink = store
		if cfg.CheckpointEnabled {
			checkpoint = indexer.NewDBCheckpointStore(store, checkpointName)
		}
	default:
		storageSink = storage.NewJsonlStorage(cfg.Out)
		if cfg.CheckpointEnabled {
			checkpoint = indexer.NewFileCheckpointStore(cfg.Checkpoint)
		}
	}

	runID := uuid.NewString()
	runner := indexer.NewRunner(indexer.RunConfig{
		FromSlot:     cfg.FromSlot,
		ToSlot:       cfg.ToSlot,
		BatchSize:    cfg.BatchSize,
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		RunID:        runID,
	}, chainClient, mail.NewProcessor(programID, logger), storageSink, checkpoint, m, logger)

	logger.Info("indexer start",
		zap.String("run_id", runID),
		zap.String("rpc", cfg.RPCURL),
		zap.String("program_id", programID.String()),
		zap.Uint64("from", cfg.FromSlot),
		zap.Uint64("to", cfg.ToSlot),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("commitment", cfg.Commitment),
		zap.String("sink", cfg.Sink),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	if cfg.MetricsAddr == "" {
		return runner.Run(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	g.Go(func() error {
		return metrics.Serve(serveCtx, cfg.MetricsAddr, m, logger)
	})
	g.Go(func() error {
		defer stopServe()
		return runner.Run(gctx)
	})
	return g.Wait()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
