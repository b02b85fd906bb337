package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/database/storage"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newTestState(t *testing.T, transPerBlock int) *state.State {
	t.Helper()

	gen := genesis.Genesis{
		Date:          time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:       1,
		TransPerBlock: transPerBlock,
		Balances: map[string]int64{
			"alice": 100,
			"bob":   100,
		},
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: storage.NewMemory(),
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the node state: %v", failed, err)
	}
	t.Cleanup(func() { st.Shutdown() })

	return st
}

func Test_SubmitTransaction(t *testing.T) {
	t.Log("Given the need to accept transactions into the mempool.")
	{
		st := newTestState(t, 10)

		t.Logf("\tTest 0:\tWhen submitting a balanced transaction.")
		{
			id, err := st.SubmitTransaction(database.Tx{"alice": -10, "bob": 10})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transaction.", success)

			if id == "" {
				t.Fatalf("\t%s\tTest 0:\tShould return a non-empty id.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould return a non-empty id.", success)

			if st.MempoolCount() != 1 {
				t.Errorf("\t%s\tTest 0:\tShould have 1 uncommitted transaction: got %d", failed, st.MempoolCount())
			} else {
				t.Logf("\t%s\tTest 0:\tShould have 1 uncommitted transaction.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen submitting a transaction whose deltas don't sum to zero.")
		{
			if _, err := st.SubmitTransaction(database.Tx{"alice": -10, "bob": 5}); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject the transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen submitting an empty transaction.")
		{
			if _, err := st.SubmitTransaction(database.Tx{}); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject the transaction.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the transaction.", success)
		}
	}
}

func Test_ForgeNextBlock(t *testing.T) {
	t.Log("Given the need to assemble blocks from the mempool.")
	{
		t.Logf("\tTest 0:\tWhen forging with pooled transactions.")
		{
			st := newTestState(t, 10)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -10, "bob": 10}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the first transaction: %v", failed, err)
			}
			if _, err := st.SubmitTransaction(database.Tx{"bob": -5, "alice": 5}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the second transaction: %v", failed, err)
			}

			block, err := st.ForgeNextBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould forge a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould forge a block.", success)

			if block.Contents.Number != 1 {
				t.Errorf("\t%s\tTest 0:\tShould forge block number 1: got %d", failed, block.Contents.Number)
			} else {
				t.Logf("\t%s\tTest 0:\tShould forge block number 1.", success)
			}

			if block.Contents.TxCount != 2 {
				t.Errorf("\t%s\tTest 0:\tShould include both transactions: got %d", failed, block.Contents.TxCount)
			} else {
				t.Logf("\t%s\tTest 0:\tShould include both transactions.", success)
			}

			if st.MempoolCount() != 0 {
				t.Errorf("\t%s\tTest 0:\tShould drain the mempool: got %d", failed, st.MempoolCount())
			} else {
				t.Logf("\t%s\tTest 0:\tShould drain the mempool.", success)
			}

			balances := st.RetrieveBalances()
			if balances["alice"] != 95 || balances["bob"] != 105 {
				t.Errorf("\t%s\tTest 0:\tShould advance the balance sheet: got alice[%d] bob[%d]", failed, balances["alice"], balances["bob"])
			} else {
				t.Logf("\t%s\tTest 0:\tShould advance the balance sheet.", success)
			}

			if st.RetrieveLatestBlock().Hash != block.Hash {
				t.Errorf("\t%s\tTest 0:\tShould record the block as the new head.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould record the block as the new head.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen forging with an empty mempool.")
		{
			st := newTestState(t, 10)

			if _, err := st.ForgeNextBlock(); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest 1:\tShould report there is nothing to forge: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould report there is nothing to forge.", success)
		}

		t.Logf("\tTest 2:\tWhen the pool holds a transaction that overdraws an account.")
		{
			st := newTestState(t, 10)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -500, "bob": 500}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the overdraft at submission time: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould accept the overdraft at submission time.", success)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -10, "bob": 10}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the solvent transaction: %v", failed, err)
			}

			block, err := st.ForgeNextBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould still forge a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould still forge a block.", success)

			if block.Contents.TxCount != 1 {
				t.Errorf("\t%s\tTest 2:\tShould drop the overdraft and keep the solvent transaction: got %d txs", failed, block.Contents.TxCount)
			} else {
				t.Logf("\t%s\tTest 2:\tShould drop the overdraft and keep the solvent transaction.", success)
			}

			if st.MempoolCount() != 0 {
				t.Errorf("\t%s\tTest 2:\tShould remove the dropped transaction from the pool: got %d", failed, st.MempoolCount())
			} else {
				t.Logf("\t%s\tTest 2:\tShould remove the dropped transaction from the pool.", success)
			}
		}

		t.Logf("\tTest 3:\tWhen every pooled transaction is inadmissible.")
		{
			st := newTestState(t, 10)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -500, "bob": 500}); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould accept the transaction at submission time: %v", failed, err)
			}

			if _, err := st.ForgeNextBlock(); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest 3:\tShould report there is nothing to forge: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould report there is nothing to forge.", success)

			if st.MempoolCount() != 0 {
				t.Errorf("\t%s\tTest 3:\tShould still purge the bad transaction: got %d", failed, st.MempoolCount())
			} else {
				t.Logf("\t%s\tTest 3:\tShould still purge the bad transaction.", success)
			}
		}
	}
}

func Test_CheckChain(t *testing.T) {
	t.Log("Given the need to audit the persisted chain end to end.")
	{
		t.Logf("\tTest 0:\tWhen replaying a chain grown through the node.")
		{
			st := newTestState(t, 10)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -30, "bob": 30}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			if _, err := st.ForgeNextBlock(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould forge the first block: %v", failed, err)
			}

			if _, err := st.SubmitTransaction(database.Tx{"bob": -130, "alice": 130}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the second transaction: %v", failed, err)
			}
			if _, err := st.ForgeNextBlock(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould forge the second block: %v", failed, err)
			}

			balances, err := st.CheckChain()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould verify the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould verify the chain.", success)

			if balances["alice"] != 200 || balances["bob"] != 0 {
				t.Errorf("\t%s\tTest 0:\tShould derive the balances from replay: got alice[%d] bob[%d]", failed, balances["alice"], balances["bob"])
			} else {
				t.Logf("\t%s\tTest 0:\tShould derive the balances from replay.", success)
			}

			live := st.RetrieveBalances()
			for account, balance := range balances {
				if live[account] != balance {
					t.Errorf("\t%s\tTest 0:\tShould match the live balance sheet for account %q.", failed, account)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould match the live balance sheet.", success)
		}

		t.Logf("\tTest 1:\tWhen a forged block is rejected by peer validation.")
		{
			st := newTestState(t, 10)

			if _, err := st.SubmitTransaction(database.Tx{"alice": -30, "bob": 30}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the transaction: %v", failed, err)
			}
			block, err := st.ForgeNextBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould forge a block: %v", failed, err)
			}

			// The head already advanced to this block, so resubmitting it
			// must fail the block number check.
			err = st.ProcessSubmittedBlock(block)

			var bnErr *database.BlockNumberError
			if !errors.As(err, &bnErr) {
				t.Fatalf("\t%s\tTest 1:\tShould reject the stale block with a block number error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the stale block with a block number error.", success)
		}
	}
}
