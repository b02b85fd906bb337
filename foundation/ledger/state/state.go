// Package state is the core API for the ledger node and implements all
// the business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/mempool"
	"github.com/google/uuid"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no admissible transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of new transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background block assembly.
type Worker interface {
	Shutdown()
	SignalForging()
}

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the ledger node: the balance database, the mempool and
// the block assembly policy.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	evHandler EventHandler

	mempool *mempool.Mempool
	db      *database.Database

	// Worker is not set here. The call to worker.Run assigns itself and
	// starts everything up and running for the node.
	Worker Worker
}

// New constructs a new ledger node state for data management.
func New(cfg Config) (*State, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		mempool:   mempool.New(),
		db:        db,
	}

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	defer s.db.Close()

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// SubmitTransaction accepts a transaction into the mempool and returns
// the id it was filed under. Only the conservation rule is checked here
// since it can never become true later; solvency depends on the balance
// sheet at assembly time and is the assembly policy's call.
func (s *State) SubmitTransaction(tx database.Tx) (string, error) {
	if len(tx) == 0 {
		return "", errors.New("transaction has no entries")
	}

	if sum := tx.Sum(); sum != 0 {
		return "", fmt.Errorf("transaction deltas sum to %d, must be 0", sum)
	}

	id := uuid.NewString()
	n := s.mempool.Upsert(id, tx)

	s.evHandler("state: SubmitTransaction: accepted: id[%s] poolDepth[%d]", id, n)

	if s.Worker != nil && n >= s.genesis.TransPerBlock {
		s.Worker.SignalForging()
	}

	return id, nil
}

// ForgeNextBlock assembles the next block from the mempool, validates it
// against the current head of the chain and records it. Transactions that
// fail validation against the folding balance sheet are dropped from the
// pool and skipped, which is the one place an invalid transaction is
// non-fatal.
func (s *State) ForgeNextBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.mempool.PickBest(s.genesis.TransPerBlock)
	if len(entries) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// Filter the batch down to transactions that validate in sequence
	// against the current balance sheet.
	balances := s.db.CopyBalances()
	txs := make([]database.Tx, 0, len(entries))
	included := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Tx.IsValid(balances) {
			s.evHandler("state: ForgeNextBlock: WARNING: dropping invalid tx: id[%s]", entry.ID)
			s.mempool.Delete(entry.ID)
			continue
		}

		balances = balances.Apply(entry.Tx)
		txs = append(txs, entry.Tx)
		included = append(included, entry.ID)
	}

	if len(txs) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	block, err := database.NewBlock(s.db.LatestBlock(), txs)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: ForgeNextBlock: forged: blk[%d] txs[%d]", block.Contents.Number, block.Contents.TxCount)

	if err := s.validateAcceptBlock(block); err != nil {
		return database.Block{}, err
	}

	for _, id := range included {
		s.mempool.Delete(id)
	}

	return block, nil
}

// ProcessSubmittedBlock takes a block produced outside this node,
// validates it and if that passes, adds the block to the chain.
func (s *State) ProcessSubmittedBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: ProcessSubmittedBlock: started: blk[%d]", block.Contents.Number)
	defer s.evHandler("state: ProcessSubmittedBlock: completed")

	return s.validateAcceptBlock(block)
}

// CheckChain replays the entire persisted chain from genesis and returns
// the derived balance sheet. Any tampering with the stored blocks
// surfaces here as a typed validation error.
func (s *State) CheckChain() (database.Balances, error) {
	chain, err := s.db.ReadChain()
	if err != nil {
		return nil, err
	}

	return database.CheckChain(chain)
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBalances returns the current balance sheet.
func (s *State) RetrieveBalances() database.Balances {
	return s.db.CopyBalances()
}

// RetrieveMempool returns a copy of the uncommitted transactions.
func (s *State) RetrieveMempool() []mempool.Entry {
	return s.mempool.Copy()
}

// MempoolCount returns the current number of uncommitted transactions.
func (s *State) MempoolCount() int {
	return s.mempool.Count()
}

// RetrieveLatestBlock returns the block at the head of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveBlocks returns the blocks in the inclusive number range
// [from, to]. Block 0 is the genesis block.
func (s *State) RetrieveBlocks(from uint64, to uint64) ([]database.Block, error) {
	var blocks []database.Block
	for num := from; num <= to; num++ {
		block, err := s.db.GetBlock(num)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// RetrieveChain returns the full chain, genesis first.
func (s *State) RetrieveChain() (database.Chain, error) {
	return s.db.ReadChain()
}

// TransPerBlock returns the block assembly batch size.
func (s *State) TransPerBlock() int {
	return s.genesis.TransPerBlock
}

// =============================================================================

// validateAcceptBlock runs the block through the validation rules against
// the current head and records it as the new head when it passes. The
// caller must hold the state mutex.
func (s *State) validateAcceptBlock(block database.Block) error {
	s.evHandler("state: validateAcceptBlock: validate block")

	balances, err := block.Validate(s.db.LatestBlock(), s.db.CopyBalances())
	if err != nil {
		return err
	}

	s.evHandler("state: validateAcceptBlock: write to disk")

	if err := s.db.Accept(block, balances); err != nil {
		return err
	}

	s.blockEvent(block)

	return nil
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	s.evHandler(`viewer: block: {"hash":%q,"number":%d,"txns":%d}`, block.Hash, block.Contents.Number, block.Contents.TxCount)
}
