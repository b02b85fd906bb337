package database

import (
	"github.com/ardanlabs/ledger/foundation/ledger/fingerprint"
)

// BlockContents represents everything a block commits to: its position in
// the chain, the link to its parent and the ordered batch of transactions
// it carries. The fields are declared in tag-sorted order so the canonical
// serialization used for hashing is sorted at every nesting level.
type BlockContents struct {
	Number     uint64 `json:"block_number"`
	ParentHash string `json:"parent_hash,omitempty"`
	TxCount    int    `json:"txn_count"`
	Txs        []Tx   `json:"txns"`
}

// Block represents a group of transactions batched together with the
// fingerprint the block was published under. The hash is never trusted
// when a block enters the system, Validate recomputes it from the
// contents.
type Block struct {
	Contents BlockContents `json:"contents"`
	Hash     string        `json:"hash"`
}

// NewBlock constructs the next block in the chain from the specified batch
// of transactions. The caller is responsible for only batching
// transactions that validate in sequence against the current balance
// sheet.
func NewBlock(parent Block, txs []Tx) (Block, error) {
	contents := BlockContents{
		Number:     parent.Contents.Number + 1,
		ParentHash: parent.Hash,
		TxCount:    len(txs),
		Txs:        txs,
	}

	hash, err := fingerprint.Hash(contents)
	if err != nil {
		return Block{}, err
	}

	return Block{Contents: contents, Hash: hash}, nil
}

// NewGenesisBlock constructs the distinguished first block in the chain.
// Its single transaction is the initial balance assignment itself, which
// is the one place funds are created out of nothing. That transaction is
// exempt from the conservation and solvency rules, the chain validator
// folds it in without checking.
func NewGenesisBlock(initial Balances) (Block, error) {
	tx := make(Tx, len(initial))
	for accountID, value := range initial {
		tx[accountID] = value
	}

	contents := BlockContents{
		Number:  0,
		TxCount: 1,
		Txs:     []Tx{tx},
	}

	hash, err := fingerprint.Hash(contents)
	if err != nil {
		return Block{}, err
	}

	return Block{Contents: contents, Hash: hash}, nil
}

// Validate checks the block is internally consistent and properly linked
// to its parent, folding the block's transactions into the specified
// balance sheet as it goes. Transactions are not independent: each one is
// checked against the balance sheet left behind by the transaction before
// it. The first failed check wins and the folded balance sheet is only
// returned when every check passes. Neither the block nor the parent is
// mutated.
func (b Block) Validate(parent Block, balances Balances) (Balances, error) {
	for _, tx := range b.Contents.Txs {
		if !tx.IsValid(balances) {
			return nil, &InvalidTransactionError{Number: b.Contents.Number, Tx: tx}
		}
		balances = balances.Apply(tx)
	}

	hash, err := fingerprint.Hash(b.Contents)
	if err != nil {
		return nil, err
	}
	if hash != b.Hash {
		return nil, &HashMismatchError{Number: b.Contents.Number, Got: b.Hash, Exp: hash}
	}

	if b.Contents.Number != parent.Contents.Number+1 {
		return nil, &BlockNumberError{Number: b.Contents.Number, Exp: parent.Contents.Number + 1}
	}

	if b.Contents.ParentHash != parent.Hash {
		return nil, &ParentLinkageError{Number: b.Contents.Number}
	}

	return balances, nil
}
