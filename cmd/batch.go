package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/reblast/internal/config"
	"github.com/yumyai/reblast/internal/util"
	"github.com/yumyai/reblast/logger"
	"github.com/yumyai/reblast/pkg/batch"
	"github.com/yumyai/reblast/pkg/blast"
)

var batchCmd = &cobra.Command{
	Use:   "batch INPUT_DIR OUT_DIR",
	Short: "Run remote BLAST for every FASTA file under a directory",
	Long: `Walks INPUT_DIR for *.fa / *.fna / *.fasta / *.fas files, splits
multi-record FASTA into single-record files, skips every sequence whose
.xlsx result already exists in OUT_DIR, and runs the rest one at a time
with a random pause between submissions.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringSlice("include", nil, "Keep only FASTA whose filename contains any keyword (case-insensitive)")
	batchCmd.Flags().StringP("db", "d", "core_nt", "BLAST database for every job")
	batchCmd.Flags().StringP("task", "t", "megablast", "BLAST task for every job")
	batchCmd.Flags().StringP("filter", "f", "", "Entrez filter string forwarded to every job")
	batchCmd.Flags().StringP("filter-name", "n", "", "Readable label for the filter")
	batchCmd.Flags().IntSliceP("sleep", "s", []int{11, 15}, "Random pause between jobs, seconds (MIN,MAX)")
}

func runBatch(c *cobra.Command, args []string) error {

	input_dir, out_dir := args[0], args[1]

	flags := c.Flags()
	include, _ := flags.GetStringSlice("include")
	db, _ := flags.GetString("db")
	task, _ := flags.GetString("task")
	filter, _ := flags.GetString("filter")
	filter_name, _ := flags.GetString("filter-name")
	sleep, _ := flags.GetIntSlice("sleep")

	sleep_min, sleep_max, err := sleepRange(sleep)
	if err != nil {
		return err
	}

	if !util.DirExists(input_dir) {
		return fmt.Errorf("input folder not found: %s", input_dir)
	}

	if err := os.MkdirAll(out_dir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	// Mirror the console log into a timestamped file next to the results.
	log_path := path.Join(out_dir, fmt.Sprintf("batch_log_%s.txt", time.Now().Format("20060102_150405")))
	if err := logger.InitLoggerWithFile(zapcore.InfoLevel, log_path); err != nil {
		return fmt.Errorf("open batch log: %w", err)
	}
	defer logger.Sync()

	cfg := config.FromEnv()

	ledger := openLedger(out_dir)
	if ledger != nil {
		defer ledger.Close()
	}

	run := func(ctx context.Context, query string) error {
		req := &blast.Request{
			Query:      query,
			DB:         db,
			Task:       task,
			Filter:     filter,
			FilterName: filter_name,
			OutDir:     out_dir,
		}
		// the driver handles the pause between jobs
		return executeJob(ctx, cfg, req, ledger)
	}

	driver := batch.NewDriver(batch.Options{
		InputDir: input_dir,
		OutDir:   out_dir,
		Include:  include,
		SleepMin: sleep_min,
		SleepMax: sleep_max,
	}, run)

	if err := driver.Run(c.Context()); err != nil {
		return err
	}

	logger.Info("Log saved", zap.String("path", log_path))
	return nil
}
