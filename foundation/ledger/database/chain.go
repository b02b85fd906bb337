package database

import (
	"encoding/json"
	"errors"

	"github.com/ardanlabs/ledger/foundation/ledger/fingerprint"
)

// Chain is the ordered sequence of blocks that makes up the ledger. Index
// zero is the distinguished genesis block.
type Chain []Block

// ParseChain decodes a serialized chain into its structured form. Input
// that does not decode into a non-empty sequence of blocks is reported as
// malformed, which is a different failure from a well-formed chain that
// breaks the validation rules.
func ParseChain(data []byte) (Chain, error) {
	var chain Chain
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, &MalformedChainInputError{Err: err}
	}

	if len(chain) == 0 {
		return nil, &MalformedChainInputError{Err: errors.New("chain has no blocks")}
	}

	return chain, nil
}

// CheckChain replays the entire chain from genesis and derives the final
// balance sheet, which is the authoritative source of truth for all
// account balances. The genesis block's transactions are folded in
// without validation since genesis is exempt from the transaction rules,
// but its hash is still verified. Every subsequent block is run through
// the full block validation against the balance sheet folded so far. The
// first failure wins and identifies the offending block.
func CheckChain(chain Chain) (Balances, error) {
	if len(chain) == 0 {
		return nil, &MalformedChainInputError{Err: errors.New("chain has no blocks")}
	}

	gen := chain[0]

	balances := make(Balances)
	for _, tx := range gen.Contents.Txs {
		balances = balances.Apply(tx)
	}

	hash, err := fingerprint.Hash(gen.Contents)
	if err != nil {
		return nil, err
	}
	if hash != gen.Hash {
		return nil, &HashMismatchError{Number: gen.Contents.Number, Got: gen.Hash, Exp: hash}
	}

	for i := 1; i < len(chain); i++ {
		balances, err = chain[i].Validate(chain[i-1], balances)
		if err != nil {
			return nil, err
		}
	}

	return balances, nil
}
