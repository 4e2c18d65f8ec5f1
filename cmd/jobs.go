package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yumyai/reblast/internal/util"
	"github.com/yumyai/reblast/pkg/job"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs OUT_DIR",
	Short: "List the recorded BLAST runs for an output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  listJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func listJobs(c *cobra.Command, args []string) error {

	// a listing must not conjure an empty ledger into existence
	if !util.FileExists(path.Join(args[0], job.LedgerFile)) {
		fmt.Fprintln(c.OutOrStdout(), "No recorded jobs.")
		return nil
	}

	ledger, err := job.Open(args[0])
	if err != nil {
		return err
	}
	defer ledger.Close()

	entries, err := ledger.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.OutOrStdout(), "No recorded jobs.")
		return nil
	}

	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUERY\tTASK\tDB\tSTATUS\tROWS\tSTARTED\tELAPSED")

	for _, e := range entries {
		elapsed := ""
		if !e.FinishedAt.IsZero() {
			elapsed = e.FinishedAt.Sub(e.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%.8s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, filepath.Base(e.Query), e.Task, e.DB, e.Status, e.Rows,
			e.StartedAt.Local().Format("2006-01-02 15:04:05"), elapsed)
	}

	return w.Flush()
}
