// Package database maintains the account balance sheet in memory and
// handles the lower level support for storing and replaying the chain of
// blocks that produced it.
package database

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
)

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading blocks.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented
// by any package providing support to iterate over stored blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the balance sheet and the chain of blocks it was
// derived from. The genesis block is derived from the genesis file and
// every stored block is validated during construction, so a database that
// constructs successfully holds the balance sheet of a fully valid chain.
type Database struct {
	mu sync.RWMutex

	genesis      genesis.Genesis
	genesisBlock Block
	latestBlock  Block
	balances     Balances

	storage Storage
}

// New constructs a new database by folding the genesis balances and
// replaying every block found in storage through the block validation
// rules.
func New(gen genesis.Genesis, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	genesisBlock, err := NewGenesisBlock(toBalances(gen.Balances))
	if err != nil {
		return nil, fmt.Errorf("building genesis block: %w", err)
	}

	db := Database{
		genesis:      gen,
		genesisBlock: genesisBlock,
		latestBlock:  genesisBlock,
		balances:     make(Balances),
		storage:      storage,
	}

	for _, tx := range genesisBlock.Contents.Txs {
		db.balances = db.balances.Apply(tx)
	}

	// Replay any blocks already in storage, validating each one against
	// the balance sheet folded so far.
	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		ev("database: New: replay: blk[%d] txs[%d]", block.Contents.Number, block.Contents.TxCount)

		balances, err := block.Validate(db.latestBlock, db.balances)
		if err != nil {
			return nil, err
		}

		db.balances = balances
		db.latestBlock = block
	}

	return &db, nil
}

// Close closes the underlying block storage.
func (db *Database) Close() {
	db.storage.Close()
}

// Reset clears the stored chain and re-initializes the balance sheet back
// to the genesis information.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}

	db.latestBlock = db.genesisBlock
	db.balances = make(Balances)
	for _, tx := range db.genesisBlock.Contents.Txs {
		db.balances = db.balances.Apply(tx)
	}

	return nil
}

// Accept records a block that already passed validation as the new head
// of the chain, along with the balance sheet its validation produced.
func (db *Database) Accept(block Block, balances Balances) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(block); err != nil {
		return err
	}

	db.latestBlock = block
	db.balances = balances

	return nil
}

// CopyBalances makes a copy of the current balance sheet.
func (db *Database) CopyBalances() Balances {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.balances.Clone()
}

// Balance returns the current balance for the specified account. Accounts
// that never transacted hold zero.
func (db *Database) Balance(accountID AccountID) int64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.balances[accountID]
}

// LatestBlock returns the block at the head of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// GenesisBlock returns the distinguished first block of the chain.
func (db *Database) GenesisBlock() Block {
	return db.genesisBlock
}

// GetBlock returns the stored block with the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	if num == 0 {
		return db.genesisBlock, nil
	}

	return db.storage.GetBlock(num)
}

// ForEach returns an iterator to walk through all the stored blocks
// starting with block number 1.
func (db *Database) ForEach() Iterator {
	return db.storage.ForEach()
}

// ReadChain reads the full chain, genesis first, into its structured
// form for replay through CheckChain.
func (db *Database) ReadChain() (Chain, error) {
	chain := Chain{db.genesisBlock}

	iter := db.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		chain = append(chain, block)
	}

	return chain, nil
}

// =============================================================================

// toBalances converts the genesis file's balance assignments into a
// balance sheet.
func toBalances(m map[string]int64) Balances {
	balances := make(Balances, len(m))
	for account, balance := range m {
		balances[AccountID(account)] = balance
	}

	return balances
}
