// Package cmd wires the reblast command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

const VERSION = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reblast",
	Short: "Submit FASTA queries to NCBI remote BLAST and collect TSV + XLSX results",
	Long: `reblast wraps the blastn binary in -remote mode. The run subcommand
submits a single query and converts the tabular result into a spreadsheet;
the batch subcommand walks a directory tree, splits multi-record FASTA
files, and runs every sequence that has no result yet.`,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
