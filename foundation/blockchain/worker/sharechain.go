package worker

// shareChainOperations handles proposing the local chain to the peers
// after a block is mined.
func (w *Worker) shareChainOperations() {
	w.evHandler("worker: shareChainOperations: G started")
	defer w.evHandler("worker: shareChainOperations: G completed")

	for {
		select {
		case <-w.shareChain:
			if !w.isShutdown() {
				w.state.NetSendChainToPeers()
			}
		case <-w.shut:
			w.evHandler("worker: shareChainOperations: received shut signal")
			return
		}
	}
}
