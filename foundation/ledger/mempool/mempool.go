// Package mempool maintains the pool of transactions waiting to be
// batched into a block.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// Entry pairs a pooled transaction with the id it was assigned at
// submission time.
type Entry struct {
	ID string
	Tx database.Tx
}

// Mempool represents a cache of transactions in arrival order. The
// transactions carry no fees or nonces, so there is no selection
// strategy, blocks are assembled first come first served.
type Mempool struct {
	mu    sync.RWMutex
	pool  map[string]database.Tx
	order []string
}

// New constructs a new mempool for use.
func New() *Mempool {
	return &Mempool{
		pool: make(map[string]database.Tx),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool and returns the
// new pool depth.
func (mp *Mempool) Upsert(id string, tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[id]; !exists {
		mp.order = append(mp.order, id)
	}
	mp.pool[id] = tx

	return len(mp.pool)
}

// Delete removes a transaction from the mempool.
func (mp *Mempool) Delete(id string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.pool[id]; !exists {
		return
	}

	delete(mp.pool, id)
	for i, oid := range mp.order {
		if oid == id {
			mp.order = append(mp.order[:i], mp.order[i+1:]...)
			break
		}
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]database.Tx)
	mp.order = nil
}

// PickBest returns up to the specified number of transactions in arrival
// order. Pass -1 for all of them.
func (mp *Mempool) PickBest(howMany int) []Entry {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany == -1 || howMany > len(mp.order) {
		howMany = len(mp.order)
	}

	entries := make([]Entry, 0, howMany)
	for _, id := range mp.order[:howMany] {
		entries = append(entries, Entry{ID: id, Tx: mp.pool[id]})
	}

	return entries
}

// Copy returns a copy of every transaction currently in the pool in
// arrival order.
func (mp *Mempool) Copy() []Entry {
	return mp.PickBest(-1)
}
