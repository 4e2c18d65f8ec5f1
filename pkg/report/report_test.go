package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadTSVSkipsCommentsAndBlanks(t *testing.T) {

	dir := t.TempDir()
	tsv := filepath.Join(dir, "hits.tsv")

	content := "# BLASTN 2.16.0+\n" +
		"probe\tNR_1\t100\n" +
		"\n" +
		"probe\tNR_2\t98\n"
	if err := os.WriteFile(tsv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadTSV(tsv)
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[1][1] != "NR_2" {
		t.Errorf("got %q, want NR_2", rows[1][1])
	}
}

func TestConvertCommentOnlyTSV(t *testing.T) {

	dir := t.TempDir()
	tsv := filepath.Join(dir, "probe_20250825_130509.tsv")

	content := "# BLASTN 2.16.0+\n# Query: probe\n# 0 hits found\n"
	if err := os.WriteFile(tsv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Convert(tsv, []string{"query_seq_id"})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("got %v, want ErrNoRows", err)
	}

	// no header-only workbook left behind to fool the done check
	xlsx := filepath.Join(dir, "probe_20250825_130509.xlsx")
	if _, err := os.Stat(xlsx); !os.IsNotExist(err) {
		t.Errorf("workbook was written for an empty result table")
	}
}

func TestConvertMatchesTSV(t *testing.T) {

	dir := t.TempDir()
	tsv := filepath.Join(dir, "probe_20250825_130509.tsv")

	header := []string{"query_seq_id", "subject_seq_id", "percent_identity", "evalue"}
	data := [][]string{
		{"probe", "NR_025000.1", "100.000", "2e-50"},
		{"probe", "NR_026000.1", "97.500", "4e-44"},
	}

	content := ""
	for _, row := range data {
		content += row[0] + "\t" + row[1] + "\t" + row[2] + "\t" + row[3] + "\n"
	}
	if err := os.WriteFile(tsv, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	xlsx, n, err := Convert(tsv, header)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if n != len(data) {
		t.Errorf("got %d rows, want %d", n, len(data))
	}
	if filepath.Base(xlsx) != "probe_20250825_130509.xlsx" {
		t.Errorf("unexpected workbook name %s", filepath.Base(xlsx))
	}

	// the workbook must hold exactly the TSV row data, plus the header
	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != len(data)+1 {
		t.Fatalf("workbook has %d rows, want %d", len(got), len(data)+1)
	}

	for i, want := range header {
		if got[0][i] != want {
			t.Errorf("header col %d: got %q, want %q", i, got[0][i], want)
		}
	}
	for r, row := range data {
		for c, want := range row {
			if got[r+1][c] != want {
				t.Errorf("row %d col %d: got %q, want %q", r, c, got[r+1][c], want)
			}
		}
	}
}
