package database_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/fingerprint"
)

// newTestChain builds a valid two block chain: a genesis assigning 50 to
// alice and bob, then a block moving funds between them.
func newTestChain(t *testing.T) database.Chain {
	t.Helper()

	gen, err := database.NewGenesisBlock(database.Balances{"alice": 50, "bob": 50})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to build the genesis block: %v", failed, err)
	}

	block, err := database.NewBlock(gen, []database.Tx{{"alice": 3, "bob": -3}, {"alice": -1, "bob": 1}})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to build the block: %v", failed, err)
	}

	return database.Chain{gen, block}
}

func Test_CheckChain(t *testing.T) {
	t.Log("Given the need to replay a chain from genesis and derive the balances.")
	{
		t.Logf("\tTest 0:\tWhen replaying a chain holding only the genesis block.")
		{
			gen, err := database.NewGenesisBlock(database.Balances{"alice": 50, "bob": 50})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build the genesis block: %v", failed, err)
			}

			balances, err := database.CheckChain(database.Chain{gen})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to validate the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to validate the chain.", success)

			exp := database.Balances{"alice": 50, "bob": 50}
			if !reflect.DeepEqual(balances, exp) {
				t.Errorf("\t%s\tTest 0:\tShould derive the genesis balances: got %v", failed, balances)
			} else {
				t.Logf("\t%s\tTest 0:\tShould derive the genesis balances.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen replaying a chain with a block of transfers.")
		{
			chain := newTestChain(t)

			balances, err := database.CheckChain(chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to validate the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to validate the chain.", success)

			exp := database.Balances{"alice": 52, "bob": 48}
			if !reflect.DeepEqual(balances, exp) {
				t.Errorf("\t%s\tTest 1:\tShould derive the folded balances: got %v", failed, balances)
			} else {
				t.Logf("\t%s\tTest 1:\tShould derive the folded balances.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen replaying the same chain twice.")
		{
			chain := newTestChain(t)

			b1, err := database.CheckChain(chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to validate the chain: %v", failed, err)
			}

			b2, err := database.CheckChain(chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to validate the chain again: %v", failed, err)
			}

			if !reflect.DeepEqual(b1, b2) {
				t.Errorf("\t%s\tTest 2:\tShould derive identical balances both times.", failed)
			} else {
				t.Logf("\t%s\tTest 2:\tShould derive identical balances both times.", success)
			}
		}
	}
}

func Test_CheckChainFailures(t *testing.T) {
	t.Log("Given the need to reject tampered chains with a specific failure.")
	{
		t.Logf("\tTest 0:\tWhen a transaction is flipped without recomputing the hash.")
		{
			chain := newTestChain(t)

			chain[1].Contents.Txs[0]["alice"] = -3
			chain[1].Contents.Txs[0]["bob"] = 3

			_, err := database.CheckChain(chain)
			var hmErr *database.HashMismatchError
			if !errors.As(err, &hmErr) {
				t.Fatalf("\t%s\tTest 0:\tShould receive a HashMismatchError: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a HashMismatchError.", success)

			if hmErr.Number != 1 {
				t.Errorf("\t%s\tTest 0:\tShould identify block 1: got %d", failed, hmErr.Number)
			} else {
				t.Logf("\t%s\tTest 0:\tShould identify block 1.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen a block number is changed and the hash recomputed.")
		{
			chain := newTestChain(t)

			chain[1].Contents.Number = 5
			hash, err := fingerprint.Hash(chain[1].Contents)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to rehash the contents: %v", failed, err)
			}
			chain[1].Hash = hash

			_, err = database.CheckChain(chain)
			var bnErr *database.BlockNumberError
			if !errors.As(err, &bnErr) {
				t.Fatalf("\t%s\tTest 1:\tShould receive a BlockNumberError: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould receive a BlockNumberError.", success)
		}

		t.Logf("\tTest 2:\tWhen the genesis block itself is tampered with.")
		{
			chain := newTestChain(t)

			chain[0].Contents.Txs[0]["alice"] = 5000

			_, err := database.CheckChain(chain)
			var hmErr *database.HashMismatchError
			if !errors.As(err, &hmErr) {
				t.Fatalf("\t%s\tTest 2:\tShould receive a HashMismatchError: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a HashMismatchError.", success)

			if hmErr.Number != 0 {
				t.Errorf("\t%s\tTest 2:\tShould identify the genesis block: got %d", failed, hmErr.Number)
			} else {
				t.Logf("\t%s\tTest 2:\tShould identify the genesis block.", success)
			}
		}

		t.Logf("\tTest 3:\tWhen the chain is empty.")
		{
			_, err := database.CheckChain(database.Chain{})
			var mciErr *database.MalformedChainInputError
			if !errors.As(err, &mciErr) {
				t.Fatalf("\t%s\tTest 3:\tShould receive a MalformedChainInputError: got %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould receive a MalformedChainInputError.", success)
		}
	}
}

func Test_ParseChain(t *testing.T) {
	t.Log("Given the need to normalize serialized chains before validation.")
	{
		t.Logf("\tTest 0:\tWhen parsing a serialized valid chain.")
		{
			chain := newTestChain(t)

			data, err := json.Marshal(chain)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to serialize the chain: %v", failed, err)
			}

			parsed, err := database.ParseChain(data)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to parse the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to parse the chain.", success)

			balances, err := database.CheckChain(parsed)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to validate the parsed chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to validate the parsed chain.", success)

			if balances["alice"] != 52 || balances["bob"] != 48 {
				t.Errorf("\t%s\tTest 0:\tShould derive the folded balances: got %v", failed, balances)
			} else {
				t.Logf("\t%s\tTest 0:\tShould derive the folded balances.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen parsing input that is not a chain at all.")
		{
			for _, input := range []string{`"not a chain"`, `{"a":1}`, `[]`, `not json`} {
				_, err := database.ParseChain([]byte(input))
				var mciErr *database.MalformedChainInputError
				if !errors.As(err, &mciErr) {
					t.Fatalf("\t%s\tTest 1:\tShould receive a MalformedChainInputError for %q: got %v", failed, input, err)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould receive a MalformedChainInputError for every malformed input.", success)
		}
	}
}
