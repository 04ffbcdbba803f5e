package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
)

// MineNewBlock mines a block holding the data on top of the latest block and
// writes it to storage. The block only joins the chain once it is stored.
// Readers wait while the block is being mined.
func (s *State) MineNewBlock(data string) (storage.BlockData, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	num := uint64(s.ledger.Len())
	blockData := storage.NewBlockData(num, block.Mine(s.ledger.LatestBlock(), data, block.EventHandler(s.evHandler)))

	s.evHandler("state: MineNewBlock: MINING: write to disk: blk[%d]", num)

	if err := s.storage.Write(blockData); err != nil {
		return storage.BlockData{}, fmt.Errorf("writing block %d: %w", num, err)
	}

	if err := s.ledger.Push(blockData.Block); err != nil {
		return storage.BlockData{}, fmt.Errorf("adding block %d: %w", num, err)
	}

	// Let the peers know about the longer chain.
	if s.Worker != nil {
		s.Worker.SignalShareChain()
	}

	return blockData, nil
}

// ProposeChain offers a candidate chain to replace the current one. The
// candidate is adopted only if it is longer and valid, in which case storage
// is rewritten to match. A rejected candidate is not an error. When storage
// can't be rewritten the current chain is kept and written back.
func (s *State) ProposeChain(candidate []block.Block) (bool, error) {
	s.evHandler("state: ProposeChain: started: blocks[%d]", len(candidate))
	defer s.evHandler("state: ProposeChain: completed")

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.ledger.Blocks()

	staged, err := ledger.Load(current, block.EventHandler(s.evHandler))
	if err != nil {
		return false, fmt.Errorf("staging chain: %w", err)
	}

	if !staged.Replace(candidate) {
		return false, nil
	}

	s.evHandler("state: ProposeChain: rewrite storage: blocks[%d]", staged.Len())

	if err := storage.WriteAll(s.storage, staged.Blocks()); err != nil {
		s.evHandler("state: ProposeChain: rewrite storage: ERROR: %s", err)

		if rerr := storage.WriteAll(s.storage, current); rerr != nil {
			return false, fmt.Errorf("rewriting storage: %w: restoring storage: %v", err, rerr)
		}

		return false, fmt.Errorf("rewriting storage: %w", err)
	}

	s.ledger = staged

	return true, nil
}
