package database

// Balances represents the balance sheet for all accounts that have
// transacted on the ledger. It is only ever advanced through Apply, which
// returns a fresh copy so a caller walking the chain can hold on to any
// prior balance sheet without it changing underneath them.
type Balances map[AccountID]int64

// Apply returns a new balance sheet equal to the receiver with each
// account in the transaction incremented by its delta. Accounts missing
// from the receiver start at zero. The receiver is never mutated. Apply
// performs no validation, callers must check IsValid first or the new
// balance sheet can be corrupted.
func (b Balances) Apply(tx Tx) Balances {
	balances := make(Balances, len(b)+len(tx))
	for accountID, value := range b {
		balances[accountID] = value
	}

	for accountID, value := range tx {
		balances[accountID] += value
	}

	return balances
}

// Clone makes a copy of the balance sheet.
func (b Balances) Clone() Balances {
	balances := make(Balances, len(b))
	for accountID, value := range b {
		balances[accountID] = value
	}

	return balances
}
