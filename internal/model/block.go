package model

// Block is one slot's worth of transactions, already reduced to the payloads
// the decoder cares about.
type Block struct {
	Slot         uint64        `json:"slot"`
	BlockHash    string        `json:"block_hash"`
	BlockTime    int64         `json:"block_time"`
	Transactions []Transaction `json:"transactions"`
}

// Transaction carries the program data logs and instructions found in one transaction.
type Transaction struct {
	Signature    string        `json:"signature"`
	Failed       bool          `json:"failed,omitempty"`
	Logs         []LogPayload  `json:"logs"`
	Instructions []Instruction `json:"instructions"`
}

// LogPayload is a base64-decoded `Program data:` entry and the program it was emitted under.
type LogPayload struct {
	ProgramID string `json:"program_id"`
	Data      []byte `json:"data"`
}

// Instruction is an outer or inner instruction with its accounts resolved in call order.
type Instruction struct {
	ProgramID string   `json:"program_id"`
	Accounts  []string `json:"accounts"`
	Data      []byte   `json:"data"`
	Inner     bool     `json:"inner,omitempty"`
}
