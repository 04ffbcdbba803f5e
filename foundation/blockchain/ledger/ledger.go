// Package ledger maintains the ordered sequence of blocks that make up the
// chain and applies the longest valid chain rule for replacing it.
//
// A Ledger is owned by a single caller. It performs no locking of its own,
// so a host that shares a Ledger between goroutines must serialize access.
package ledger

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
)

// ErrGenesisMismatch is returned when the first block of a chain is not the
// canonical genesis block.
var ErrGenesisMismatch = errors.New("first block is not the genesis block")

// =============================================================================

// Ledger represents an append only sequence of blocks.
type Ledger struct {
	blocks    []block.Block
	evHandler block.EventHandler
}

// New constructs a ledger that holds only the genesis block.
func New(evHandler block.EventHandler) *Ledger {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	return &Ledger{
		blocks:    []block.Block{block.Genesis()},
		evHandler: evHandler,
	}
}

// Load constructs a ledger from an existing sequence of blocks. The sequence
// must be a valid chain. An empty sequence produces a genesis only ledger.
func Load(blocks []block.Block, evHandler block.EventHandler) (*Ledger, error) {
	l := New(evHandler)
	if len(blocks) == 0 {
		return l, nil
	}

	if err := ValidateChain(blocks); err != nil {
		return nil, fmt.Errorf("loading chain: %w", err)
	}

	l.blocks = append([]block.Block(nil), blocks...)
	l.evHandler("ledger: Load: blocks[%d]: latestBlk[%s]", len(l.blocks), l.LatestBlock().Hash)

	return l, nil
}

// Append mines a new block with the data on top of the latest block and adds
// it to the chain. This call blocks until the proof of work is solved.
func (l *Ledger) Append(data string) block.Block {
	l.evHandler("ledger: Append: started: number[%d]", len(l.blocks))
	defer l.evHandler("ledger: Append: completed")

	blk := block.Mine(l.LatestBlock(), data, l.evHandler)
	l.blocks = append(l.blocks, blk)

	return blk
}

// Push adds an already mined block to the chain. The block must be a valid
// successor of the latest block.
func (l *Ledger) Push(blk block.Block) error {
	latest := l.LatestBlock()
	if err := blk.Validate(latest.Hash, latest.Difficulty); err != nil {
		return fmt.Errorf("block[%d]: %w", len(l.blocks), err)
	}

	l.blocks = append(l.blocks, blk)
	l.evHandler("ledger: Push: latestBlk[%s]", blk.Hash)

	return nil
}

// Replace swaps the current chain for the candidate when the candidate is
// longer and valid. Anything else leaves the ledger untouched. The return
// value reports if the candidate was adopted.
func (l *Ledger) Replace(candidate []block.Block) bool {
	l.evHandler("ledger: Replace: started: current[%d]: candidate[%d]", len(l.blocks), len(candidate))

	if len(candidate) <= len(l.blocks) {
		l.evHandler("ledger: Replace: rejected: candidate is not longer")
		return false
	}

	if err := ValidateChain(candidate); err != nil {
		l.evHandler("ledger: Replace: rejected: %s", err)
		return false
	}

	l.blocks = append([]block.Block(nil), candidate...)
	l.evHandler("ledger: Replace: accepted: latestBlk[%s]", l.LatestBlock().Hash)

	return true
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []block.Block {
	return append([]block.Block(nil), l.blocks...)
}

// LatestBlock returns the last block in the chain.
func (l *Ledger) LatestBlock() block.Block {
	return l.blocks[len(l.blocks)-1]
}

// Len returns the number of blocks in the chain, genesis included.
func (l *Ledger) Len() int {
	return len(l.blocks)
}

// =============================================================================

// ValidateChain walks the sequence checking the first block is genesis and
// every other block is a valid successor of the block before it. Empty and
// genesis only sequences are valid.
func ValidateChain(blocks []block.Block) error {
	if len(blocks) == 0 {
		return nil
	}

	if !blocks[0].IsGenesis() {
		return ErrGenesisMismatch
	}

	for i := 1; i < len(blocks); i++ {
		prev := blocks[i-1]
		if err := blocks[i].Validate(prev.Hash, prev.Difficulty); err != nil {
			return fmt.Errorf("block[%d]: %w", i, err)
		}
	}

	return nil
}

// IsValidChain reports whether the sequence is a valid chain.
func IsValidChain(blocks []block.Block) bool {
	return ValidateChain(blocks) == nil
}
