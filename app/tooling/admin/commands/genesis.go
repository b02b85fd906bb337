package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/spf13/cobra"
)

var transPerBlock int

func init() {
	genesisCmd.Flags().IntVarP(&transPerBlock, "trans-per-block", "t", 10, "Maximum number of transactions batched into a block.")
	rootCmd.AddCommand(genesisCmd)
}

var genesisCmd = &cobra.Command{
	Use:   "genesis account=balance ...",
	Short: "Write a new genesis file with the specified initial balances",
	Args:  cobra.MinimumNArgs(1),
	RunE:  genesisRun,
}

func genesisRun(cmd *cobra.Command, args []string) error {
	balances := make(map[string]int64)
	for _, arg := range args {
		account, balanceStr, found := strings.Cut(arg, "=")
		if !found || account == "" {
			return fmt.Errorf("argument %q is not in account=balance form", arg)
		}

		balance, err := strconv.ParseInt(balanceStr, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing balance for account %q: %w", account, err)
		}
		if balance < 0 {
			return fmt.Errorf("account %q can't start with a negative balance", account)
		}

		balances[account] = balance
	}

	gen := genesis.Genesis{
		Date:          time.Now().UTC(),
		ChainID:       1,
		TransPerBlock: transPerBlock,
		Balances:      balances,
	}

	if err := gen.Save(genesisPath); err != nil {
		return fmt.Errorf("saving genesis file: %w", err)
	}

	fmt.Printf("genesis file written to %s with %d accounts\n", genesisPath, len(balances))
	return nil
}
