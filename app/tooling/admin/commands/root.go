// Package commands contains the admin tool commands.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath      string
	genesisPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db-path", "d", "zblock/blocks", "Path to the directory with the block files.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis-path", "g", "zblock/genesis.json", "Path to the genesis file.")
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tooling for the ledger node",
}

// Execute runs the admin tool.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
