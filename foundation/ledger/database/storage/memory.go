package storage

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// Memory represents the storage implementation for keeping blocks in
// memory. Used by tests and ephemeral nodes. This implements the
// database.Storage interface.
type Memory struct {
	mu     sync.RWMutex
	blocks map[uint64]database.Block
}

// NewMemory constructs a Memory value for use.
func NewMemory() *Memory {
	return &Memory{
		blocks: make(map[uint64]database.Block),
	}
}

// Close in this implementation has nothing to do.
func (m *Memory) Close() error {
	return nil
}

// Write stores the specified block keyed by its number.
func (m *Memory) Write(block database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks[block.Contents.Number] = block
	return nil
}

// GetBlock returns the block with the specified number.
func (m *Memory) GetBlock(num uint64) (database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	block, exists := m.blocks[num]
	if !exists {
		return database.Block{}, fs.ErrNotExist
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with block number 1.
func (m *Memory) ForEach() database.Iterator {
	return &MemoryIterator{memory: m}
}

// Reset clears out all the stored blocks.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = make(map[uint64]database.Block)
	return nil
}

// =============================================================================

// MemoryIterator represents the iteration implementation for walking
// through blocks held in memory. This implements the database Iterator
// interface.
type MemoryIterator struct {
	memory  *Memory // Access to the memory storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from memory.
func (mi *MemoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, errors.New("end of chain")
	}

	mi.current++
	block, err := mi.memory.GetBlock(mi.current)
	if errors.Is(err, fs.ErrNotExist) {
		mi.eoc = true
	}

	return block, err
}

// Done returns the end of chain value.
func (mi *MemoryIterator) Done() bool {
	return mi.eoc
}
