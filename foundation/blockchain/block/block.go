// Package block provides the block data model and the proof of work rules
// for producing and validating blocks.
package block

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
)

// Set of values that govern how difficult a block is to mine.
const (
	DifficultyMin     uint = 4
	DifficultyMax     uint = digest.Width * 8
	GenesisDifficulty uint = 8

	// MineRate is the target amount of time between blocks.
	MineRate = time.Second
)

// GenesisData is the payload stored in the genesis block.
const GenesisData = "genesis block"

// Set of errors returned when a block fails validation.
var (
	ErrPrevHashMismatch  = errors.New("previous hash does not match parent block")
	ErrInvalidDifficulty = errors.New("difficulty is not a valid successor of parent block")
	ErrHashMismatch      = errors.New("hash does not match block fields")
	ErrHashNotSolved     = errors.New("hash does not satisfy difficulty")
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Block represents a single entry in the ledger.
type Block struct {
	TimeStamp  time.Time     `json:"timestamp"`  // Time the block was mined.
	PrevHash   digest.Digest `json:"prev_hash"`  // Hash of the previous block in the chain.
	Hash       digest.Digest `json:"hash"`       // Hash of this block's fields.
	Data       string        `json:"data"`       // Application payload, not interpreted.
	Nonce      uint64        `json:"nonce"`      // Value identified to solve the hash solution.
	Difficulty uint          `json:"difficulty"` // Number of leading zero bits needed to solve the hash solution.
}

// Genesis returns the first block of every ledger. Its hashes are fixed
// sentinels that can't be produced by mining.
func Genesis() Block {
	return Block{
		TimeStamp:  time.Unix(0, 0).UTC(),
		PrevHash:   digest.Zero,
		Hash:       digest.Ones,
		Data:       GenesisData,
		Nonce:      0,
		Difficulty: GenesisDifficulty,
	}
}

// Mine constructs a new block on top of the previous block and performs the
// work to find a nonce that solves the proof of work puzzle. The timestamp
// and difficulty are resampled on every attempt. There is no way to stop a
// mining operation once it starts.
func Mine(prevBlock Block, data string, evHandler EventHandler) Block {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	evHandler("block: Mine: MINING: started: prevBlk[%s]", prevBlock.Hash)
	defer evHandler("block: Mine: MINING: completed")

	var nonce uint64
	for {
		nonce++
		if nonce%1_000_000 == 0 {
			evHandler("block: Mine: MINING: attempts[%d]", nonce)
		}

		timeStamp := time.Now().UTC()
		difficulty := AdjustDifficulty(prevBlock.Difficulty, prevBlock.TimeStamp, timeStamp)

		hash := digest.Hash(timeStamp, prevBlock.Hash.Bytes(), data, nonce, difficulty)
		if !digest.IsValid(hash.Bytes(), difficulty) {
			continue
		}

		evHandler("block: Mine: MINING: SOLVED: newBlk[%s]: difficulty[%d]: attempts[%d]", hash, difficulty, nonce)

		return Block{
			TimeStamp:  timeStamp,
			PrevHash:   prevBlock.Hash,
			Hash:       hash,
			Data:       data,
			Nonce:      nonce,
			Difficulty: difficulty,
		}
	}
}

// ComputeHash recalculates the hash from the block's own fields.
func (b Block) ComputeHash() digest.Digest {
	return digest.Hash(b.TimeStamp, b.PrevHash.Bytes(), b.Data, b.Nonce, b.Difficulty)
}

// Equal reports whether every field of the two blocks matches.
func (b Block) Equal(other Block) bool {
	return b.TimeStamp.Equal(other.TimeStamp) &&
		b.PrevHash == other.PrevHash &&
		b.Hash == other.Hash &&
		b.Data == other.Data &&
		b.Nonce == other.Nonce &&
		b.Difficulty == other.Difficulty
}

// IsGenesis reports whether the block is the canonical genesis block.
func (b Block) IsGenesis() bool {
	return b.Equal(Genesis())
}

// Validate takes a block and checks it can follow a parent block with the
// specified hash and difficulty.
func (b Block) Validate(prevHash digest.Digest, prevDifficulty uint) error {
	if b.PrevHash != prevHash {
		return fmt.Errorf("%w: got %s, exp %s", ErrPrevHashMismatch, b.PrevHash, prevHash)
	}

	if !IsValidDifficulty(prevDifficulty, b.Difficulty) {
		return fmt.Errorf("%w: parent %d, block %d", ErrInvalidDifficulty, prevDifficulty, b.Difficulty)
	}

	if hash := b.ComputeHash(); hash != b.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, b.Hash, hash)
	}

	if !digest.IsValid(b.Hash.Bytes(), b.Difficulty) {
		return fmt.Errorf("%w: hash %s, difficulty %d", ErrHashNotSolved, b.Hash, b.Difficulty)
	}

	return nil
}

// IsValidBlock reports whether the block can follow a parent block with the
// specified hash and difficulty.
func IsValidBlock(b Block, prevHash digest.Digest, prevDifficulty uint) bool {
	return b.Validate(prevHash, prevDifficulty) == nil
}
