// Package worker implements background block assembly for the ledger
// node.
package worker

import (
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/state"
)

// flushInterval represents how often a partially filled batch of
// transactions is forged into a block anyway, so submissions never sit in
// the mempool indefinitely.
const flushInterval = 10 * time.Second

// =============================================================================

// Worker manages the block assembly workflow for the ledger node.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	forge     chan bool
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up the background processes.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:     st,
		ticker:    time.NewTicker(flushInterval),
		shut:      make(chan struct{}),
		forge:     make(chan bool, 1),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.forgeOperations()
	}()

	<-hasStarted
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.ticker.Stop()
	close(w.shut)
	w.wg.Wait()
}

// SignalForging signals a block assembly operation. If there is already a
// signal pending in the channel, just return since assembly will run.
func (w *Worker) SignalForging() {
	select {
	case w.forge <- true:
	default:
	}
	w.evHandler("worker: SignalForging: forging signaled")
}

// =============================================================================

// forgeOperations handles the forging of new blocks as transactions
// accumulate in the mempool.
func (w *Worker) forgeOperations() {
	w.evHandler("worker: forgeOperations: G started")
	defer w.evHandler("worker: forgeOperations: G completed")

	for {
		select {
		case <-w.forge:
			if !w.isShutdown() {
				w.runForgeOperation(false)
			}
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runForgeOperation(true)
			}
		case <-w.shut:
			return
		}
	}
}

// runForgeOperation forges full blocks while the mempool holds at least a
// block's worth of transactions. When flush is set, any remaining partial
// batch is forged as well.
func (w *Worker) runForgeOperation(flush bool) {
	for w.state.MempoolCount() >= w.state.TransPerBlock() {
		if _, err := w.state.ForgeNextBlock(); err != nil {
			if !errors.Is(err, state.ErrNoTransactions) {
				w.evHandler("worker: runForgeOperation: ERROR: %s", err)
			}
			return
		}
	}

	if flush && w.state.MempoolCount() > 0 {
		if _, err := w.state.ForgeNextBlock(); err != nil && !errors.Is(err, state.ErrNoTransactions) {
			w.evHandler("worker: runForgeOperation: ERROR: %s", err)
		}
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
