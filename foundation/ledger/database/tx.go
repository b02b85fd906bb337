package database

// AccountID represents an account that can hold a balance on the ledger.
type AccountID string

// Tx represents a set of balance deltas that are applied atomically.
// Each key identifies an account and each value is the signed amount that
// account gains or loses. A transaction arriving from the outside is not
// guaranteed to be balanced, validity must be checked before it's applied.
type Tx map[AccountID]int64

// Sum returns the total of all deltas in the transaction. A balanced
// transaction sums to exactly zero.
func (tx Tx) Sum() int64 {
	var sum int64
	for _, value := range tx {
		sum += value
	}

	return sum
}

// IsValid determines if the transaction can be applied against the
// specified balance sheet. The deltas must sum to zero and no account may
// be driven below a zero balance. Accounts missing from the balance sheet
// are treated as holding zero, so a transaction may open a new account as
// long as it only adds funds to it.
func (tx Tx) IsValid(balances Balances) bool {
	if tx.Sum() != 0 {
		return false
	}

	for accountID, value := range tx {
		if balances[accountID]+value < 0 {
			return false
		}
	}

	return true
}
