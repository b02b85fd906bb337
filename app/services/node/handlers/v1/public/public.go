// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/web"
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

// Events handles a web socket to provide events to a client.
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

	ch := h.Evts.Acquire(v.TraceID)
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

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app submitTx
	if err := web.Decode(r, &app); err != nil {
		return err
	}

	tx := toDatabaseTx(app)

	h.Log.Infow("add tran", "traceid", v.TraceID, "accounts", len(tx))
	id, err := h.State.SubmitTransaction(tx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{
		Status: "transaction added to mempool",
		ID:     id,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Balances returns the current balance sheet, or a single account's
// balance when one is specified on the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acct := web.Param(r, "account")

	sheet := h.State.RetrieveBalances()

	resp := balances{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
	}
	for account, bal := range sheet {
		if acct != "" && acct != string(account) {
			continue
		}
		resp.Balances = append(resp.Balances, balance{Account: string(account), Balance: bal})
	}

	sort.Slice(resp.Balances, func(i, j int) bool {
		return resp.Balances[i].Account < resp.Balances[j].Account
	})

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()

	trans := make([]tx, 0, len(pool))
	for _, entry := range pool {
		txn := make(map[string]int64, len(entry.Tx))
		for account, value := range entry.Tx {
			txn[string(account)] = value
		}
		trans = append(trans, tx{ID: entry.ID, Txn: txn})
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// BlocksByNumber returns the blocks in the specified number range.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	toStr := web.Param(r, "to")

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid from block number %q", fromStr), http.StatusBadRequest)
	}

	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid to block number %q", toStr), http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from block number must not be greater than to"), http.StatusBadRequest)
	}

	blocks, err := h.State.RetrieveBlocks(from, to)
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// VerifyChain replays the full chain from genesis and reports whether it
// validates, and the balance sheet it derives when it does.
func (h Handlers) VerifyChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain, err := h.State.RetrieveChain()
	if err != nil {
		return err
	}

	verdict := chainVerdict{Blocks: len(chain)}

	sheet, err := database.CheckChain(chain)
	if err != nil {
		verdict.Error = err.Error()
		return web.Respond(ctx, w, verdict, http.StatusOK)
	}

	verdict.Valid = true
	verdict.Accounts = len(sheet)
	verdict.Balances = make(map[string]int64, len(sheet))
	for account, bal := range sheet {
		verdict.Balances[string(account)] = bal
	}

	return web.Respond(ctx, w, verdict, http.StatusOK)
}
