package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// submitTx is what clients submit to move funds between accounts. The
// deltas must sum to zero, every key must be a non-empty account id.
type submitTx struct {
	Tx map[string]int64 `json:"txn" validate:"required,min=1,dive,keys,required,endkeys"`
}

// Validate checks the payload against its declared tags.
func (app submitTx) Validate() error {
	return validate.Check(app)
}

// toDatabaseTx converts the payload into the core transaction type.
func toDatabaseTx(app submitTx) database.Tx {
	tx := make(database.Tx, len(app.Tx))
	for account, value := range app.Tx {
		tx[database.AccountID(account)] = value
	}
	return tx
}

// =============================================================================

// balance represents an account and its current balance.
type balance struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

// balances returns the full balance sheet.
type balances struct {
	LatestBlock string    `json:"latest_block"`
	Balances    []balance `json:"balances"`
}

// tx represents an uncommitted transaction in the mempool.
type tx struct {
	ID  string           `json:"id"`
	Txn map[string]int64 `json:"txn"`
}

// chainVerdict is the result of replaying the full chain from genesis.
type chainVerdict struct {
	Valid    bool             `json:"valid"`
	Blocks   int              `json:"blocks"`
	Accounts int              `json:"accounts"`
	Error    string           `json:"error,omitempty"`
	Balances map[string]int64 `json:"balances,omitempty"`
}
