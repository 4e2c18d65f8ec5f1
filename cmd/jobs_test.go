package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yumyai/reblast/pkg/job"
)

func TestListJobsWithoutLedger(t *testing.T) {

	dir := t.TempDir()

	var buf bytes.Buffer
	jobsCmd.SetOut(&buf)
	defer jobsCmd.SetOut(nil)

	if err := listJobs(jobsCmd, []string{dir}); err != nil {
		t.Fatalf("listJobs: %v", err)
	}

	if !strings.Contains(buf.String(), "No recorded jobs.") {
		t.Errorf("got %q, want the empty-ledger message", buf.String())
	}

	// the read-only listing must not create the ledger file
	if _, err := os.Stat(filepath.Join(dir, job.LedgerFile)); !os.IsNotExist(err) {
		t.Errorf("listing created %s", job.LedgerFile)
	}
}

func TestListJobsWithLedger(t *testing.T) {

	dir := t.TempDir()

	ledger, err := job.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := ledger.Start("probe_1.fasta", "core_nt", "megablast", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.Finish(id, 42); err != nil {
		t.Fatal(err)
	}
	ledger.Close()

	var buf bytes.Buffer
	jobsCmd.SetOut(&buf)
	defer jobsCmd.SetOut(nil)

	if err := listJobs(jobsCmd, []string{dir}); err != nil {
		t.Fatalf("listJobs: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"probe_1.fasta", "completed", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
