package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns the genesis block.
func (s *State) RetrieveGenesis() block.Block {
	return block.Genesis()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.LatestBlock()
}

// RetrieveBlocks returns a copy of the entire chain.
func (s *State) RetrieveBlocks() []block.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Blocks()
}

// RetrieveStatus returns the status of this node for its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockHash:   s.ledger.LatestBlock().Hash,
		LatestBlockNumber: uint64(s.ledger.Len() - 1),
		KnownPeers:        s.RetrieveKnownPeers(),
	}
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// ValidateChain runs the chain validation rules over the current chain.
func (s *State) ValidateChain() error {
	return ledger.ValidateChain(s.RetrieveBlocks())
}
