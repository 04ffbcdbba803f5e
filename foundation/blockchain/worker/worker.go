// Package worker implements peer updates and chain sharing for the
// blockchain.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// DefaultPeerUpdateInterval represents the interval of finding new peer nodes
// and pulling longer chains from them.
const DefaultPeerUpdateInterval = time.Minute

// =============================================================================

// Worker manages the background workflows for the blockchain.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	shareChain   chan bool
	evHandler    state.EventHandler
	shutdownOnce sync.Once
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. A zero interval uses the default.
func Run(st *state.State, interval time.Duration, evHandler state.EventHandler) {
	if interval <= 0 {
		interval = DefaultPeerUpdateInterval
	}
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		state:      st,
		ticker:     time.NewTicker(interval),
		shut:       make(chan struct{}),
		shareChain: make(chan bool, 1),
		evHandler:  evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.shareChainOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for range g {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.evHandler("worker: shutdown: started")
		defer w.evHandler("worker: shutdown: completed")

		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)
		w.wg.Wait()
	})
}

// SignalShareChain signals the chain should be proposed to the known peers.
// If there is already a signal pending in the channel, just return since
// the latest chain will be shared.
func (w *Worker) SignalShareChain() {
	select {
	case w.shareChain <- true:
		w.evHandler("worker: SignalShareChain: share chain signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
