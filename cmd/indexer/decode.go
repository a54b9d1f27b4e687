package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mailscope/internal/config"
	"mailscope/internal/indexer"
	"mailscope/internal/mail"
	"mailscope/internal/model"
	"mailscope/internal/storage"
)

func runDecode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDecode(cfgFile, cmd.Flags())
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
	processor := mail.NewProcessor(programID, logger)

	outWriter, err := storage.NewJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	errWriter, err := storage.NewJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("decode start",
		zap.String("program_id", programID.String()),
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.String("errors", cfg.Errors),
	)

	var (
		blocks int
		bad    int
		total  mail.Stats
		rows   int
	)
	err = storage.ReadJSONL(cfg.In, func(line []byte) error {
		var block model.Block
		if err := json.Unmarshal(line, &block); err != nil {
			bad++
			return errWriter.Write(model.DecodeError{Error: fmt.Sprintf("parse block: %v", err)})
		}
		blocks++

		result := processor.ProcessBlock(block)
		total.Add(result.Stats)
		for _, row := range result.Rows {
			if err := outWriter.Write(row); err != nil {
				return err
			}
		}
		rows += len(result.Rows)
		for _, failure := range result.Failures {
			if err := errWriter.Write(failure); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Deferred closes cover early returns only.
	if err := outWriter.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Out, err)
	}
	if err := errWriter.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Errors, err)
	}

	logger.Info("decode complete",
		zap.Int("blocks", blocks),
		zap.Int("bad_lines", bad),
		zap.Int("transactions", total.Transactions),
		zap.Int("failed_transactions", total.FailedTransactions),
		zap.Int("rows", rows),
		zap.Int("decoded", total.Decoded),
		zap.Int("skipped", total.Skipped),
		zap.Int("failed", total.Failed),
	)
	return nil
}
