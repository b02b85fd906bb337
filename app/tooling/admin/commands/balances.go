package commands

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/database/storage"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(balancesCmd)
}

var balancesCmd = &cobra.Command{
	Use:   "balances [account]",
	Short: "Replay the chain and print the current account balances",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balancesRun,
}

func balancesRun(cmd *cobra.Command, args []string) error {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis file: %w", err)
	}

	strg, err := storage.NewDisk(dbPath)
	if err != nil {
		return fmt.Errorf("opening block storage: %w", err)
	}

	// Construction replays and validates the chain on disk.
	db, err := database.New(gen, strg, nil)
	if err != nil {
		return fmt.Errorf("replaying chain: %w", err)
	}
	defer db.Close()

	fmt.Printf("LatestBlockHash: %s\n\n", db.LatestBlock().Hash)

	var only database.AccountID
	if len(args) == 1 {
		only = database.AccountID(args[0])
	}

	sheet := db.CopyBalances()

	accounts := make([]database.AccountID, 0, len(sheet))
	for account := range sheet {
		if only != "" && account != only {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	for _, account := range accounts {
		fmt.Printf("Account: %s  Balance: %d\n", account, sheet[account])
	}

	return nil
}
