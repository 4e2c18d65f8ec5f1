package job

import (
	"errors"
	"testing"
)

func TestLedgerRoundTrip(t *testing.T) {

	ledger, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ledger.Close()

	id1, err := ledger.Start("probe_1.fasta", "core_nt", "megablast", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := ledger.Finish(id1, 137); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	id2, err := ledger.Start("probe_2.fasta", "nt", "blastn", "txid1762[Organism]")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.Fail(id2, errors.New("blastn failed: exit status 2")); err != nil {
		t.Fatal(err)
	}

	id3, err := ledger.Start("probe_3.fasta", "core_nt", "megablast", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.NoHits(id3); err != nil {
		t.Fatal(err)
	}

	entries, err := ledger.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	byID := map[string]Entry{}
	for _, e := range entries {
		byID[e.ID] = e
	}

	e1 := byID[id1]
	if e1.Status != StatusCompleted || e1.Rows != 137 {
		t.Errorf("job 1: got (%s, %d), want (completed, 137)", e1.Status, e1.Rows)
	}
	if e1.StartedAt.IsZero() || e1.FinishedAt.IsZero() {
		t.Errorf("job 1: timestamps not recorded")
	}

	e2 := byID[id2]
	if e2.Status != StatusFailed || e2.Error == "" {
		t.Errorf("job 2: got (%s, %q), want failed with error text", e2.Status, e2.Error)
	}
	if e2.Filter != "txid1762[Organism]" {
		t.Errorf("job 2: filter not stored: %q", e2.Filter)
	}

	e3 := byID[id3]
	if e3.Status != StatusNoHits {
		t.Errorf("job 3: got %s, want no_hits", e3.Status)
	}
}

func TestLedgerReopen(t *testing.T) {

	dir := t.TempDir()

	ledger, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := ledger.Start("q.fasta", "core_nt", "blastn", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := ledger.Finish(id, 1); err != nil {
		t.Fatal(err)
	}
	ledger.Close()

	// records survive reopening the same directory
	ledger, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer ledger.Close()

	entries, err := ledger.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("got %d entries, want the one recorded before reopen", len(entries))
	}
}
