package indexer

import (
	"github.com/mr-tron/base58"

	"mailscope/internal/chain"
	"mailscope/internal/model"
)

// BuildBlock reduces an RPC block to the transactions, log payloads and
// resolved instructions the decoder consumes.
func BuildBlock(block *chain.Block) model.Block {
	out := model.Block{
		Slot:         block.Slot,
		BlockHash:    block.Blockhash,
		Transactions: make([]model.Transaction, 0, len(block.Transactions)),
	}
	if block.BlockTime != nil {
		out.BlockTime = *block.BlockTime
	}
	for _, tx := range block.Transactions {
		out.Transactions = append(out.Transactions, buildTransaction(tx))
	}
	return out
}

func buildTransaction(tx chain.TransactionWithMeta) model.Transaction {
	out := model.Transaction{}
	if len(tx.Transaction.Signatures) > 0 {
		out.Signature = tx.Transaction.Signatures[0]
	}
	if tx.Meta == nil {
		return out
	}
	out.Failed = tx.Meta.Failed()
	out.Logs = ParseProgramData(tx.Meta.LogMessages)

	keys := accountKeys(tx)
	inner := make(map[int][]chain.CompiledInstruction, len(tx.Meta.InnerInstructions))
	for _, group := range tx.Meta.InnerInstructions {
		inner[group.Index] = append(inner[group.Index], group.Instructions...)
	}

	for i, ix := range tx.Transaction.Message.Instructions {
		if resolved, ok := resolveInstruction(ix, keys, false); ok {
			out.Instructions = append(out.Instructions, resolved)
		}
		for _, innerIx := range inner[i] {
			if resolved, ok := resolveInstruction(innerIx, keys, true); ok {
				out.Instructions = append(out.Instructions, resolved)
			}
		}
	}
	return out
}

// accountKeys returns static keys followed by keys loaded from address lookup tables.
func accountKeys(tx chain.TransactionWithMeta) []string {
	keys := append([]string(nil), tx.Transaction.Message.AccountKeys...)
	if tx.Meta != nil && tx.Meta.LoadedAddresses != nil {
		keys = append(keys, tx.Meta.LoadedAddresses.Writable...)
		keys = append(keys, tx.Meta.LoadedAddresses.Readonly...)
	}
	return keys
}

func resolveInstruction(ix chain.CompiledInstruction, keys []string, inner bool) (model.Instruction, bool) {
	if ix.ProgramIDIndex < 0 || ix.ProgramIDIndex >= len(keys) {
		return model.Instruction{}, false
	}
	data, err := base58.Decode(ix.Data)
	if err != nil {
		return model.Instruction{}, false
	}
	accounts := make([]string, len(ix.Accounts))
	for i, idx := range ix.Accounts {
		if idx >= 0 && idx < len(keys) {
			accounts[i] = keys[idx]
		}
	}
	return model.Instruction{
		ProgramID: keys[ix.ProgramIDIndex],
		Accounts:  accounts,
		Data:      data,
		Inner:     inner,
	}, true
}
