// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client. Repeated
// prefix query values limit the events to those starting with a prefix.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID, r.URL.Query()["prefix"]...)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis block.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveGenesis(), http.StatusOK)
}

// LatestBlock returns the last block in the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk := h.State.RetrieveLatestBlock()
	num := h.State.RetrieveStatus().LatestBlockNumber

	return web.Respond(ctx, w, storage.NewBlockData(num, blk), http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
// Without a range the whole chain is returned.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := parseBlockNumber(web.Param(r, "from"), 0)
	if err != nil {
		return errs.NewRequestError(err, http.StatusBadRequest)
	}

	to, err := parseBlockNumber(web.Param(r, "to"), state.QueryLatest)
	if err != nil {
		return errs.NewRequestError(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewRequestError(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	// The first block returned is numbered by where the range started.
	first := from
	if from == state.QueryLatest {
		first = h.State.RetrieveStatus().LatestBlockNumber
	}

	blockData := make([]storage.BlockData, len(blocks))
	for i, blk := range blocks {
		blockData[i] = storage.NewBlockData(first+uint64(i), blk)
	}

	return web.Respond(ctx, w, blockData, http.StatusOK)
}

// MineBlock mines a new block holding the provided data. The call returns
// once the proof of work is solved.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mineRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "size", len(req.Data))

	blockData, err := h.State.MineNewBlock(req.Data)
	if err != nil {
		return fmt.Errorf("mine block: %w", err)
	}

	return web.Respond(ctx, w, blockData, http.StatusCreated)
}

// ValidateChain runs the chain validation rules over the node's chain.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := chainValidation{
		Valid:  true,
		Length: len(h.State.RetrieveBlocks()),
	}

	if err := h.State.ValidateChain(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Digest computes the digest of the provided block fields and reports
// whether it satisfies the difficulty.
func (h Handlers) Digest(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req digestRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(req); err != nil {
		return err
	}

	fields := digest.Fields(time.Unix(0, req.TimeStamp), req.LastHash, req.Data, req.Nonce, req.Difficulty)
	hash := digest.Sum(fields)

	resp := digestResponse{
		Canonical:    digest.Canonical(fields),
		Hash:         hash,
		LeadingZeros: digest.LeadingZeros(hash.Bytes()),
		Valid:        digest.IsValid(hash.Bytes(), req.Difficulty),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// parseBlockNumber converts a path value into a block number. An empty value
// uses the default and "latest" selects the end of the chain.
func parseBlockNumber(s string, def uint64) (uint64, error) {
	switch s {
	case "":
		return def, nil
	case "latest":
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return num, nil
}

