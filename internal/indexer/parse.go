package indexer

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParseProgramID validates a base58 program address.
func ParseProgramID(input string) (solana.PublicKey, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return solana.PublicKey{}, fmt.Errorf("program id is required")
	}
	key, err := solana.PublicKeyFromBase58(input)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid program id %s: %w", input, err)
	}
	return key, nil
}
