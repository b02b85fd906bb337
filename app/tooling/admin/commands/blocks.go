package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/ledger/database/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(blocksCmd)
}

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Dump the stored blocks as JSON",
	Args:  cobra.NoArgs,
	RunE:  blocksRun,
}

func blocksRun(cmd *cobra.Command, args []string) error {
	strg, err := storage.NewDisk(dbPath)
	if err != nil {
		return fmt.Errorf("opening block storage: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	iter := strg.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return err
		}

		if err := enc.Encode(block); err != nil {
			return err
		}
	}

	return nil
}
