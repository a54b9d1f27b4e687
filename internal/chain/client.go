package chain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// Solana RPC error codes for slots that have no block.
const (
	errCodeSlotSkipped            = -32007
	errCodeLongTermStorageSkipped = -32009
)

// Observer receives the latency and outcome of each RPC call.
type Observer func(method string, elapsed time.Duration, err error)

// Client wraps a JSON-RPC client speaking the Solana node API.
type Client struct {
	rpcClient  *rpc.Client
	commitment string
	observe    Observer
}

// NewClient dials the RPC URL. commitment defaults to finalized.
func NewClient(ctx context.Context, rpcURL, commitment string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	if commitment == "" {
		commitment = "finalized"
	}
	return &Client{rpcClient: rpcClient, commitment: commitment}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// SetObserver installs a callback invoked after every RPC call.
func (c *Client) SetObserver(observe Observer) {
	c.observe = observe
}

// LatestSlot returns the latest slot at the configured commitment.
func (c *Client) LatestSlot(ctx context.Context) (uint64, error) {
	var slot uint64
	err := c.call(ctx, &slot, "getSlot", map[string]any{"commitment": c.commitment})
	return slot, err
}

// GetBlock returns the block at slot, or nil when the slot was skipped.
func (c *Client) GetBlock(ctx context.Context, slot uint64) (*Block, error) {
	var block *Block
	err := c.call(ctx, &block, "getBlock", slot, map[string]any{
		"commitment":                     c.commitment,
		"encoding":                       "json",
		"transactionDetails":             "full",
		"rewards":                        false,
		"maxSupportedTransactionVersion": 0,
	})
	if err != nil {
		if IsSkippedSlot(err) {
			return nil, nil
		}
		return nil, err
	}
	if block != nil {
		block.Slot = slot
	}
	return block, nil
}

// IsSkippedSlot reports whether err is the node saying the slot holds no block.
func IsSkippedSlot(err error) bool {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return false
	}
	code := rpcErr.ErrorCode()
	return code == errCodeSlotSkipped || code == errCodeLongTermStorageSkipped
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := c.rpcClient.CallContext(ctx, result, method, args...)
	if c.observe != nil {
		c.observe(method, time.Since(start), err)
	}
	return err
}

// Block is the subset of a getBlock response the indexer reads.
type Block struct {
	Slot              uint64                `json:"-"`
	Blockhash         string                `json:"blockhash"`
	PreviousBlockhash string                `json:"previousBlockhash"`
	ParentSlot        uint64                `json:"parentSlot"`
	BlockTime         *int64                `json:"blockTime"`
	Transactions      []TransactionWithMeta `json:"transactions"`
}

// TransactionWithMeta pairs a transaction with its execution metadata.
type TransactionWithMeta struct {
	Transaction Transaction      `json:"transaction"`
	Meta        *TransactionMeta `json:"meta"`
}

// Transaction is a signed transaction in json encoding.
type Transaction struct {
	Signatures []string `json:"signatures"`
	Message    Message  `json:"message"`
}

// Message holds the account keys and outer instructions of a transaction.
type Message struct {
	AccountKeys  []string              `json:"accountKeys"`
	Instructions []CompiledInstruction `json:"instructions"`
}

// CompiledInstruction references its program and accounts by index into the
// transaction's account keys. Data is base58.
type CompiledInstruction struct {
	ProgramIDIndex int    `json:"programIdIndex"`
	Accounts       []int  `json:"accounts"`
	Data           string `json:"data"`
}

// InnerInstructions are the instructions invoked by the outer instruction at Index.
type InnerInstructions struct {
	Index        int                   `json:"index"`
	Instructions []CompiledInstruction `json:"instructions"`
}

// LoadedAddresses are account keys resolved from address lookup tables.
type LoadedAddresses struct {
	Writable []string `json:"writable"`
	Readonly []string `json:"readonly"`
}

// TransactionMeta is the execution result of a transaction.
type TransactionMeta struct {
	Err               json.RawMessage     `json:"err"`
	LogMessages       []string            `json:"logMessages"`
	InnerInstructions []InnerInstructions `json:"innerInstructions"`
	LoadedAddresses   *LoadedAddresses    `json:"loadedAddresses"`
}

// Failed reports whether the transaction carries an execution error.
func (m *TransactionMeta) Failed() bool {
	if m == nil {
		return false
	}
	trimmed := strings.TrimSpace(string(m.Err))
	return trimmed != "" && trimmed != "null"
}
