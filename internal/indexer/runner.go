package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mailscope/internal/chain"
	"mailscope/internal/mail"
	"mailscope/internal/metrics"
	"mailscope/internal/model"
	"mailscope/internal/storage"
)

// RunConfig holds runtime settings for the indexer.
type RunConfig struct {
	FromSlot     uint64
	ToSlot       uint64
	BatchSize    uint64
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
	RunID        string
}

// BlockSource fetches blocks by slot. A nil block means the slot was skipped.
type BlockSource interface {
	LatestSlot(ctx context.Context) (uint64, error)
	GetBlock(ctx context.Context, slot uint64) (*chain.Block, error)
}

// Runner fetches slot batches, decodes them and writes rows to storage in slot order.
type Runner struct {
	cfg        RunConfig
	source     BlockSource
	processor  *mail.Processor
	storage    storage.Storage
	checkpoint CheckpointStore
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewRunner builds a Runner. checkpoint and m may be nil.
func NewRunner(
	cfg RunConfig,
	source BlockSource,
	processor *mail.Processor,
	storageSink storage.Storage,
	checkpoint CheckpointStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		cfg:        cfg,
		source:     source,
		processor:  processor,
		storage:    storageSink,
		checkpoint: checkpoint,
		metrics:    m,
		logger:     logger.With(zap.String("run_id", cfg.RunID)),
	}
}

// Run executes the indexing loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("block source is nil")
	}
	if r.processor == nil {
		return fmt.Errorf("processor is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	from := r.cfg.FromSlot
	to := r.cfg.ToSlot
	if to == 0 {
		err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			to, err = r.source.LatestSlot(ctx)
			if err != nil {
				r.logger.Warn("latest slot fetch failed", zap.Error(err))
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("get latest slot: %w", err)
		}
	}

	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load(ctx)
		if err != nil {
			return err
		}
		if ok && cp.LastProcessedSlot >= from {
			from = cp.LastProcessedSlot + 1
			r.logger.Info("resume from checkpoint",
				zap.Uint64("last_processed", cp.LastProcessedSlot),
				zap.String("previous_run_id", cp.RunID),
				zap.Uint64("from", from))
		}
	}

	if from > to {
		r.logger.Info("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, slots := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.runBatch(ctx, slots); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runBatch(ctx context.Context, slots SlotRange) error {
	r.logger.Info("fetch blocks", zap.Uint64("from", slots.From), zap.Uint64("to", slots.To))

	blocks, err := r.fetchBlocks(ctx, slots)
	if err != nil {
		return err
	}

	var (
		rows     []model.DatabaseRow
		failures int
		skipped  int
	)
	for i, block := range blocks {
		slot := slots.From + uint64(i)
		if block == nil {
			skipped++
			r.metrics.ObserveSkippedSlot()
			r.logger.Debug("slot skipped", zap.Uint64("slot", slot))
			continue
		}

		result := r.processor.ProcessBlock(BuildBlock(block))
		r.metrics.ObserveBlock(result)
		rows = append(rows, result.Rows...)
		failures += len(result.Failures)
		for _, f := range result.Failures {
			r.logger.Warn("decode failure",
				zap.Uint64("slot", f.Slot),
				zap.String("trx_hash", f.TrxHash),
				zap.String("source", string(f.Source)),
				zap.String("record_type", string(f.RecordType)),
				zap.String("error", f.Error))
		}
		r.logger.Debug("block decoded",
			zap.Uint64("slot", slot),
			zap.Int("transactions", result.Stats.Transactions),
			zap.Int("rows", len(result.Rows)),
			zap.Int("failed", result.Stats.Failed),
			zap.Int("skipped", result.Stats.Skipped))
	}

	if err := r.storage.PutRows(ctx, rows); err != nil {
		return fmt.Errorf("store rows: %w", err)
	}

	if r.checkpoint != nil {
		cp := Checkpoint{
			LastProcessedSlot: slots.To,
			RunID:             r.cfg.RunID,
			UpdatedAt:         time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := r.checkpoint.Save(ctx, cp); err != nil {
			return err
		}
	}

	r.logger.Info("batch complete",
		zap.Uint64("from", slots.From),
		zap.Uint64("to", slots.To),
		zap.Int("rows", len(rows)),
		zap.Int("failed", failures),
		zap.Int("skipped_slots", skipped))
	return nil
}

// fetchBlocks fetches every slot of the range concurrently; the result is indexed by slot offset.
func (r *Runner) fetchBlocks(ctx context.Context, slots SlotRange) ([]*chain.Block, error) {
	blocks := make([]*chain.Block, slots.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i := range blocks {
		i := i
		slot := slots.From + uint64(i)
		g.Go(func() error {
			block, err := r.getBlockWithRetry(gctx, slot)
			if err != nil {
				return fmt.Errorf("get block %d: %w", slot, err)
			}
			blocks[i] = block
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *Runner) getBlockWithRetry(ctx context.Context, slot uint64) (*chain.Block, error) {
	var block *chain.Block
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		block, err = r.source.GetBlock(ctx, slot)
		if err != nil {
			r.logger.Warn("get block failed", zap.Error(err), zap.Uint64("slot", slot))
		}
		return err
	})
	return block, err
}
