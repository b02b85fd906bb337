package commands

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/database/storage"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay the full chain from genesis and report the verdict",
	Args:  cobra.NoArgs,
	RunE:  verifyRun,
}

func verifyRun(cmd *cobra.Command, args []string) error {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis file: %w", err)
	}

	genesisBlock, err := database.NewGenesisBlock(balancesFromGenesis(gen))
	if err != nil {
		return err
	}

	strg, err := storage.NewDisk(dbPath)
	if err != nil {
		return fmt.Errorf("opening block storage: %w", err)
	}

	chain := database.Chain{genesisBlock}
	iter := strg.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}
		chain = append(chain, block)
	}

	sheet, err := database.CheckChain(chain)
	if err != nil {
		reportFailure(err)
		return err
	}

	fmt.Printf("chain is valid: %d blocks, %d accounts\n", len(chain), len(sheet))
	return nil
}

// reportFailure names the specific rule the chain broke.
func reportFailure(err error) {
	var itErr *database.InvalidTransactionError
	var hmErr *database.HashMismatchError
	var bnErr *database.BlockNumberError
	var plErr *database.ParentLinkageError

	switch {
	case errors.As(err, &itErr):
		fmt.Printf("chain is INVALID: block %d carries an invalid transaction\n", itErr.Number)
	case errors.As(err, &hmErr):
		fmt.Printf("chain is INVALID: block %d fails its hash check\n", hmErr.Number)
	case errors.As(err, &bnErr):
		fmt.Printf("chain is INVALID: block %d breaks the numbering sequence\n", bnErr.Number)
	case errors.As(err, &plErr):
		fmt.Printf("chain is INVALID: block %d is not linked to its parent\n", plErr.Number)
	default:
		fmt.Printf("chain is INVALID: %s\n", err)
	}
}

// balancesFromGenesis converts the genesis balance assignments into a
// balance sheet.
func balancesFromGenesis(gen genesis.Genesis) database.Balances {
	balances := make(database.Balances, len(gen.Balances))
	for account, balance := range gen.Balances {
		balances[database.AccountID(account)] = balance
	}
	return balances
}
