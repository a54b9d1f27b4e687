package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mailscope/internal/config"
	"mailscope/internal/mail"
	"mailscope/internal/model"
	"mailscope/internal/storage"
	"mailscope/internal/storage/postgres"
)

func runLoad(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLoad(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	logger.Info("load start",
		zap.String("in", cfg.In),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Bool("create_schema", cfg.CreateSchema),
	)

	var (
		batch  = make([]model.DatabaseRow, 0, cfg.BatchSize)
		loaded int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.PutRows(ctx, batch); err != nil {
			return err
		}
		loaded += len(batch)
		logger.Debug("batch loaded", zap.Int("rows", len(batch)), zap.Int("total", loaded))
		batch = batch[:0]
		return nil
	}

	err = storage.ReadRows(cfg.In, func(row model.DatabaseRow) error {
		if _, ok := mail.TableSchemaOf(row.Table); !ok {
			return fmt.Errorf("unknown table %q for row %s", row.Table, row.PK)
		}
		batch = append(batch, row)
		if len(batch) >= cfg.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}

	logger.Info("load complete", zap.Int("rows", loaded))
	return nil
}
