package mail

import (
	"crypto/sha256"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// DeriveKey hashes the concatenated key material with SHA-256 and returns lowercase hex.
// Fields are joined with no separator.
func DeriveKey(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
	}
	return common.Bytes2Hex(h.Sum(nil))
}

func keyString(k solana.PublicKey) string {
	return k.String()
}

func boolString(b bool) string {
	return strconv.FormatBool(b)
}

func u32String(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}
