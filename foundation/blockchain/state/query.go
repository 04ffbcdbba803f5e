package state

import "github.com/ardanlabs/powledger/foundation/blockchain/block"

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// QueryBlocksByNumber returns the set of blocks based on block numbers. The
// range is inclusive and clipped to the end of the chain.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := uint64(s.ledger.Len() - 1)

	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	if from > to {
		return nil
	}

	blocks := s.ledger.Blocks()
	return blocks[from : to+1]
}
