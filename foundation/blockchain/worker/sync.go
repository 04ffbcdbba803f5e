package worker

// Sync updates the peer list and pulls any longer chain the peers have.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	for _, peer := range w.state.RetrieveKnownPeers() {

		// Retrieve the status of this peer.
		peerStatus, err := w.state.NetRequestPeerStatus(peer)
		if err != nil {
			w.evHandler("worker: sync: queryPeerStatus: %s: ERROR: %s", peer.Host, err)
			continue
		}

		// Add new peers to this nodes list.
		w.addNewPeers(peerStatus.KnownPeers)

		// If this peer has blocks we don't have, offer its chain.
		if peerStatus.LatestBlockNumber > w.state.RetrieveStatus().LatestBlockNumber {
			w.evHandler("worker: sync: retrievePeerChain: %s: latestBlockNumber[%d]", peer.Host, peerStatus.LatestBlockNumber)

			accepted, err := w.state.NetRequestPeerChain(peer)
			if err != nil {
				w.evHandler("worker: sync: retrievePeerChain: %s: ERROR %s", peer.Host, err)
				continue
			}

			w.evHandler("worker: sync: retrievePeerChain: %s: accepted[%t]", peer.Host, accepted)
		}
	}
}
