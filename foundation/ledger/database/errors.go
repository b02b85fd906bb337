package database

import "fmt"

// InvalidTransactionError is returned when a block carries a transaction
// that breaks the conservation or solvency rules against the balance
// sheet folded up to that point.
type InvalidTransactionError struct {
	Number uint64
	Tx     Tx
}

// Error implements the error interface.
func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("block %d: invalid transaction %v", e.Number, e.Tx)
}

// HashMismatchError is returned when a block's stored hash does not match
// the recomputed fingerprint of its contents.
type HashMismatchError struct {
	Number uint64
	Got    string
	Exp    string
}

// Error implements the error interface.
func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("block %d: hash mismatch, got %s, exp %s", e.Number, e.Got, e.Exp)
}

// BlockNumberError is returned when a block does not carry the next
// sequential number after its parent.
type BlockNumberError struct {
	Number uint64
	Exp    uint64
}

// Error implements the error interface.
func (e *BlockNumberError) Error() string {
	return fmt.Sprintf("block %d: not the next block number, exp %d", e.Number, e.Exp)
}

// ParentLinkageError is returned when a block's parent hash does not
// match the hash of the block before it.
type ParentLinkageError struct {
	Number uint64
}

// Error implements the error interface.
func (e *ParentLinkageError) Error() string {
	return fmt.Sprintf("block %d: parent hash doesn't match the previous block", e.Number)
}

// MalformedChainInputError is returned when input handed to the chain
// validator does not decode into a sequence of blocks at all. It is kept
// distinct from the validation errors so callers can tell a structurally
// broken chain apart from a well-formed chain that fails the rules.
type MalformedChainInputError struct {
	Err error
}

// Error implements the error interface.
func (e *MalformedChainInputError) Error() string {
	return fmt.Sprintf("malformed chain input: %s", e.Err)
}

// Unwrap provides access to the underlying cause.
func (e *MalformedChainInputError) Unwrap() error {
	return e.Err
}
