package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/reblast/internal/config"
	"github.com/yumyai/reblast/logger"
	"github.com/yumyai/reblast/pkg/blast"
)

var runCmd = &cobra.Command{
	Use:   "run QUERY.fasta",
	Short: "Run one remote BLAST job and convert the result to TSV + XLSX",
	Args:  cobra.ExactArgs(1),
	RunE:  runSingle,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("db", "d", "core_nt", "BLAST database (nt or core_nt)")
	runCmd.Flags().StringP("outdir", "o", ".", "Output folder")
	runCmd.Flags().StringP("outfile", "u", "", "TSV file name; default = auto-generated")
	runCmd.Flags().StringP("task", "t", "blastn", "BLAST task (blastn, megablast, dc-megablast, blastn-short)")
	runCmd.Flags().StringP("filter", "f", "", "Entrez filter string, e.g. 'txid1762[Organism]'")
	runCmd.Flags().StringP("filter-name", "n", "", "Readable label for the filter, used in the output name")
	runCmd.Flags().IntSliceP("sleep", "s", []int{11, 15}, "Random pause after the job, seconds (MIN,MAX)")
}

func runSingle(c *cobra.Command, args []string) error {

	flags := c.Flags()

	outdir, _ := flags.GetString("outdir")
	db, _ := flags.GetString("db")
	task, _ := flags.GetString("task")
	outfile, _ := flags.GetString("outfile")
	filter, _ := flags.GetString("filter")
	filter_name, _ := flags.GetString("filter-name")
	sleep, _ := flags.GetIntSlice("sleep")

	sleep_min, sleep_max, err := sleepRange(sleep)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	cfg := config.FromEnv()

	req := &blast.Request{
		Query:      args[0],
		DB:         db,
		Task:       task,
		Filter:     filter,
		FilterName: filter_name,
		OutDir:     outdir,
		OutFile:    outfile,
	}

	ledger := openLedger(outdir)
	if ledger != nil {
		defer ledger.Close()
	}

	if err := executeJob(c.Context(), cfg, req, ledger); err != nil {
		return err
	}

	// polite back-off before the caller submits the next query
	if sleep_max > 0 {
		nap := randomSeconds(sleep_min, sleep_max)
		logger.Info("Sleeping", zap.Duration("pause", nap))
		time.Sleep(nap)
	}

	return nil
}

func sleepRange(sleep []int) (int, int, error) {
	if len(sleep) != 2 {
		return 0, 0, fmt.Errorf("--sleep wants exactly two values (MIN,MAX), got %d", len(sleep))
	}
	if sleep[0] < 0 || sleep[1] < sleep[0] {
		return 0, 0, fmt.Errorf("invalid --sleep range %d,%d", sleep[0], sleep[1])
	}
	return sleep[0], sleep[1], nil
}

func randomSeconds(min, max int) time.Duration {
	if max <= min {
		return time.Duration(min) * time.Second
	}
	return time.Duration(min+rand.Intn(max-min+1)) * time.Second
}
