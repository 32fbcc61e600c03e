package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ynab4import",
		Short: "Migrate a YNAB4 budget into a ledger database",
		Long: `ynab4import reads a YNAB4 .ynab4 budget folder, picks the most recent
device snapshot, and writes its accounts, categories, payees, transactions
and monthly budgets into a sqlite ledger.

Importing the same budget twice duplicates everything; use --reset to
start from an empty ledger.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	importCmd := &cobra.Command{
		Use:   "import <budget.ynab4 | dir>",
		Short: "Import a budget folder into the ledger",
		Long: `Import a .ynab4 budget folder. When the argument is a directory holding
several budgets, the one named by import.budget_name is used.`,
		Args: cobra.ExactArgs(1),
		RunE: RunImport,
	}
	importCmd.Flags().String("db", "", "Ledger database path (default: database.path)")
	importCmd.Flags().Int("concurrency", 0, "Maximum concurrent ledger calls per stage (default: import.concurrency)")
	importCmd.Flags().Bool("reset", false, "Wipe the ledger before importing")
	importCmd.Flags().Bool("progress", false, "Show a live progress view while importing")
	importCmd.Flags().String("budget", "", "Budget name to pick when the argument holds several budgets")

	devicesCmd := &cobra.Command{
		Use:   "devices <budget.ynab4>",
		Short: "List device snapshots and the one an import would use",
		Args:  cobra.ExactArgs(1),
		RunE:  RunDevices,
	}

	locateCmd := &cobra.Command{
		Use:   "locate <dir> <name>",
		Short: "Find a budget folder by name",
		Args:  cobra.ExactArgs(2),
		RunE:  RunLocate,
	}

	rootCmd.AddCommand(importCmd, devicesCmd, locateCmd)
	return rootCmd
}
