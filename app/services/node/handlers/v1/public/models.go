package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type mineRequest struct {
	Data string `json:"data" validate:"required"`
}

// digestRequest carries the block fields to hash. The timestamp is in
// nanoseconds since the unix epoch.
type digestRequest struct {
	TimeStamp  int64         `json:"timestamp"`
	LastHash   hexutil.Bytes `json:"last_hash"`
	Data       string        `json:"data"`
	Nonce      uint64        `json:"nonce"`
	Difficulty uint          `json:"difficulty" validate:"lte=256"`
}

type digestResponse struct {
	Canonical    string        `json:"canonical"`
	Hash         digest.Digest `json:"hash"`
	LeadingZeros int           `json:"leading_zeros"`
	Valid        bool          `json:"valid"`
}

type chainValidation struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}
