// Package state is the core API for the blockchain node. It owns the ledger,
// serializes access to it and keeps storage and peers in step with it.
package state

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
)

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for peer updates and chain sharing.
type Worker interface {
	Shutdown()
	Sync()
	SignalShareChain()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Host       string
	Storage    storage.Serializer
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the blockchain database.
type State struct {
	mu sync.RWMutex

	host       string
	evHandler  EventHandler
	knownPeers *peer.PeerSet
	storage    storage.Serializer
	ledger     *ledger.Ledger

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := storage.ReadAll(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("reading blocks: %w", err)
	}

	// A new database starts with the genesis block.
	if len(blocks) == 0 {
		ev("state: New: initializing storage with genesis")

		blocks = []block.Block{block.Genesis()}
		if err := cfg.Storage.Write(storage.NewBlockData(0, blocks[0])); err != nil {
			return nil, fmt.Errorf("writing genesis: %w", err)
		}
	}

	// The stored chain is validated from genesis before it can be used.
	ldgr, err := ledger.Load(blocks, block.EventHandler(ev))
	if err != nil {
		return nil, err
	}

	state := State{
		host:       cfg.Host,
		evHandler:  ev,
		knownPeers: knownPeers,
		storage:    cfg.Storage,
		ledger:     ldgr,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Make sure the database file is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
