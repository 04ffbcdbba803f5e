// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStatus(), http.StatusOK)
}

// Chain returns the full chain held by this node.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveBlocks(), http.StatusOK)
}

// ProposeChain takes a chain received from a peer and adopts it if it is
// longer than the local chain and valid. A chain that is not adopted is
// reported in the response, not as an error.
func (h Handlers) ProposeChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var blocks []block.Block
	if err := web.Decode(r, &blocks); err != nil {
		return errs.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if len(blocks) == 0 {
		return errs.NewRequestError(errors.New("proposed chain is empty"), http.StatusBadRequest)
	}

	h.Log.Infow("propose chain", "traceid", v.TraceID, "blocks", len(blocks), "latest", blocks[len(blocks)-1].Hash)

	replaced, err := h.State.ProposeChain(blocks)
	if err != nil {
		return fmt.Errorf("propose chain: %w", err)
	}

	resp := struct {
		Status   string `json:"status"`
		Replaced bool   `json:"replaced"`
	}{
		Status:   "ok",
		Replaced: replaced,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
