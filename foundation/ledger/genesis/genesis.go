// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file that establishes the initial
// account balances for the ledger.
type Genesis struct {
	Date          time.Time        `json:"date"`
	ChainID       uint16           `json:"chain_id"`        // An unique id for this running instance.
	TransPerBlock int              `json:"trans_per_block"` // The maximum number of transactions batched into a block.
	Balances      map[string]int64 `json:"balances"`
}

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Save writes the genesis information to the specified file.
func (g Genesis) Save(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
