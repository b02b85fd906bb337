package database_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

func Test_ApplyReturnsNewBalanceSheet(t *testing.T) {
	t.Log("Given the need to apply transactions without mutating the input.")
	{
		t.Logf("\tTest 0:\tWhen applying a transfer between existing accounts.")
		{
			before := database.Balances{"alice": 5, "bob": 5}
			tx := database.Tx{"alice": -3, "bob": 3}

			after := before.Apply(tx)

			if after["alice"] != 2 || after["bob"] != 8 {
				t.Errorf("\t%s\tTest 0:\tShould have the new balances: got %v", failed, after)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have the new balances.", success)
			}

			if before["alice"] != 5 || before["bob"] != 5 {
				t.Errorf("\t%s\tTest 0:\tShould not mutate the input balance sheet: got %v", failed, before)
			} else {
				t.Logf("\t%s\tTest 0:\tShould not mutate the input balance sheet.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen applying a transaction that opens a new account.")
		{
			before := database.Balances{"alice": 5}
			tx := database.Tx{"alice": -2, "lisa": 2}

			after := before.Apply(tx)

			if after["lisa"] != 2 {
				t.Errorf("\t%s\tTest 1:\tShould open the new account with its delta: got %d", failed, after["lisa"])
			} else {
				t.Logf("\t%s\tTest 1:\tShould open the new account with its delta.", success)
			}

			if _, exists := before["lisa"]; exists {
				t.Errorf("\t%s\tTest 1:\tShould not add the account to the input balance sheet.", failed)
			} else {
				t.Logf("\t%s\tTest 1:\tShould not add the account to the input balance sheet.", success)
			}
		}
	}
}

func Test_SolvencyPreservation(t *testing.T) {
	t.Log("Given the need to know valid transactions never drive a balance negative.")
	{
		balances := database.Balances{"alice": 10, "bob": 0, "lisa": 3}

		txs := []database.Tx{
			{"alice": -10, "bob": 10},
			{"bob": -10, "lisa": 10},
			{"lisa": -13, "alice": 13},
		}

		for testID, tx := range txs {
			t.Logf("\tTest %d:\tWhen applying a validated transaction.", testID)
			{
				if !tx.IsValid(balances) {
					t.Fatalf("\t%s\tTest %d:\tShould have a valid transaction.", failed, testID)
				}

				balances = balances.Apply(tx)

				for account, balance := range balances {
					if balance < 0 {
						t.Fatalf("\t%s\tTest %d:\tShould keep account %s non-negative: got %d", failed, testID, account, balance)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould keep all balances non-negative.", success, testID)
			}
		}
	}
}
