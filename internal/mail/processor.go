package mail

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"mailscope/internal/model"
)

// Stats counts what ProcessBlock saw.
type Stats struct {
	Transactions       int
	FailedTransactions int
	Payloads           int
	Decoded            int
	Skipped            int
	Failed             int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Transactions += o.Transactions
	s.FailedTransactions += o.FailedTransactions
	s.Payloads += o.Payloads
	s.Decoded += o.Decoded
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

// BlockResult holds the rows emitted for a block, in transaction then payload order.
type BlockResult struct {
	Slot     uint64
	Rows     []model.DatabaseRow
	Failures []model.DecodeError
	Stats    Stats
}

// Processor turns blocks into database rows for one program.
type Processor struct {
	programID string
	logger    *zap.Logger
}

// NewProcessor returns a Processor that decodes payloads of programID.
func NewProcessor(programID solana.PublicKey, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{programID: programID.String(), logger: logger}
}

// ProgramID returns the program whose payloads are decoded.
func (p *Processor) ProgramID() string {
	return p.programID
}

// ProcessBlock decodes every transaction of the block. Payloads that fail to decode
// are reported in Failures and never stop the block.
func (p *Processor) ProcessBlock(block model.Block) BlockResult {
	result := BlockResult{Slot: block.Slot}
	for _, tx := range block.Transactions {
		rows, failures, stats := p.ProcessTransaction(tx)
		for i := range failures {
			failures[i].Slot = block.Slot
		}
		result.Rows = append(result.Rows, rows...)
		result.Failures = append(result.Failures, failures...)
		result.Stats.Add(stats)
	}
	return result
}

// ProcessTransaction decodes log payloads first, then instructions in call order
// with each outer instruction followed by its inner ones.
func (p *Processor) ProcessTransaction(tx model.Transaction) ([]model.DatabaseRow, []model.DecodeError, Stats) {
	stats := Stats{Transactions: 1}
	if tx.Failed {
		stats.FailedTransactions++
		return nil, nil, stats
	}

	var (
		rows     []model.DatabaseRow
		failures []model.DecodeError
	)
	emit := func(source model.Source, decoded Decoded, ok bool, err error, ctx TransactionContext) {
		stats.Payloads++
		switch {
		case err != nil:
			stats.Failed++
			failures = append(failures, p.failure(tx.Signature, source, decoded, err))
			return
		case !ok:
			stats.Skipped++
			return
		}
		record, err := Assemble(decoded.Record, ctx)
		if err == nil {
			var row model.DatabaseRow
			row, err = BuildRow(record)
			if err == nil {
				stats.Decoded++
				rows = append(rows, row)
				return
			}
		}
		stats.Failed++
		failures = append(failures, p.failure(tx.Signature, source, decoded, err))
	}

	eventCtx := TransactionContext{TrxHash: tx.Signature}
	for _, log := range tx.Logs {
		if log.ProgramID != p.programID {
			continue
		}
		decoded, ok, err := DecodeEvent(log.Data)
		emit(model.SourceLog, decoded, ok, err, eventCtx)
	}

	for _, ix := range tx.Instructions {
		if ix.ProgramID != p.programID {
			continue
		}
		if bytes.HasPrefix(ix.Data, EventCPITag[:]) {
			decoded, ok, err := DecodeCPIEvent(ix.Data)
			emit(model.SourceCPIEvent, decoded, ok, err, eventCtx)
			continue
		}
		decoded, ok, err := DecodeInstruction(ix.Data)
		if ok && err == nil && decoded.Type == model.RecordUpdateMailLabel {
			if r, isLabel := decoded.Record.(model.UpdateMailLabel); isLabel {
				p.logger.Debug("mail label update",
					zap.String("trx_hash", tx.Signature),
					zap.String("label", model.MailLabel(r.Label).String()))
			}
		}
		emit(model.SourceInstruction, decoded, ok, err, TransactionContext{
			TrxHash:  tx.Signature,
			Accounts: ix.Accounts,
		})
	}
	return rows, failures, stats
}

func (p *Processor) failure(trxHash string, source model.Source, decoded Decoded, err error) model.DecodeError {
	p.logger.Debug("decode payload failed",
		zap.String("trx_hash", trxHash),
		zap.String("source", string(source)),
		zap.String("record_type", string(decoded.Type)),
		zap.String("discriminator", decoded.Discriminator.String()),
		zap.Error(err))
	return model.DecodeError{
		TrxHash:       trxHash,
		Source:        source,
		RecordType:    decoded.Type,
		Discriminator: decoded.Discriminator.String(),
		Error:         err.Error(),
	}
}
