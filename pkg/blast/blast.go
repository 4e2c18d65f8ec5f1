// Package blast builds and executes remote blastn searches.
package blast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/yumyai/reblast/internal/util"
	"github.com/yumyai/reblast/pkg/fasta"
)

// ErrNoHits means blastn exited cleanly but wrote an empty result table,
// usually a query/filter combination that matches nothing.
var ErrNoHits = errors.New("BLAST finished but produced no results")

const MaxTargetSeqs = 200

// Tasks accepted by blastn that make sense against a remote nucleotide db.
var Tasks = []string{"blastn", "megablast", "dc-megablast", "blastn-short"}

// Databases we allow for remote searches.
var Databases = []string{"nt", "core_nt"}

// Columns requested through -outfmt 6, in order. The XLSX header row is
// generated from this same list, so the two can never drift apart.
var Columns = []string{
	"query_seq_id", "subject_seq_id", "query_coverage", "percent_identity",
	"length", "mismatch", "gapopen", "query_start", "query_end",
	"subject_start", "send", "evalue", "bitscore", "score", "qcovhsp",
	"query_length", "subject_length(Acc. Len)", "staxids", "sscinames",
	"sskingdoms",
}

// outfmt is the -outfmt argument matching Columns.
const outfmt = "6 qseqid saccver " +
	"qcovs " + // Query Cover (sum of all HSPs, %)
	"pident length mismatch gapopen " +
	"qstart qend sstart send " +
	"evalue " +
	"bitscore " + // Max Score (bit-score of the best HSP)
	"score " + // Total Score (raw score of the best HSP)
	"qcovhsp " + // coverage of this HSP (%)
	"qlen slen " + // query length and Acc. Len
	"staxids sscinames sskingdoms"

// Request describes one remote BLAST job.
type Request struct {
	Query      string // FASTA file with a single query sequence
	DB         string // nt or core_nt
	Task       string // blastn / megablast / dc-megablast / blastn-short
	Filter     string // Entrez query string, empty = no filter
	FilterName string // readable label for Filter, used in auto-naming
	OutDir     string
	OutFile    string // TSV name; empty = auto-generated
}

func (r *Request) Validate() error {

	if !util.FileExists(r.Query) {
		return fmt.Errorf("query FASTA not found: %s", r.Query)
	}

	if !contains(Databases, r.DB) {
		return fmt.Errorf("unknown BLAST database %q (expected one of %s)",
			r.DB, strings.Join(Databases, ", "))
	}

	if !contains(Tasks, r.Task) {
		return fmt.Errorf("unknown BLAST task %q (expected one of %s)",
			r.Task, strings.Join(Tasks, ", "))
	}

	return nil
}

// OutPath resolves the TSV destination, auto-naming with now when no
// explicit file name was given.
func (r *Request) OutPath(now time.Time) string {
	if r.OutFile != "" {
		return joinOut(r.OutDir, r.OutFile)
	}
	return AutoName(r.Query, r.OutDir, r.FilterName, now)
}

// AutoName builds the timestamped default output name:
// <query stem>[_vs_<filterName>]_<YYYYMMDD_HHMMSS>.tsv
func AutoName(query, outdir, filterName string, now time.Time) string {

	// probe.v2.fasta -> probe, matching the original naming scheme
	base := strings.SplitN(util.Stem(query), ".", 2)[0]
	ts := now.Format("20060102_150405")

	if filterName != "" {
		return joinOut(outdir, fmt.Sprintf("%s_vs_%s_%s.tsv", base, filterName, ts))
	}
	return joinOut(outdir, fmt.Sprintf("%s_%s.tsv", base, ts))
}

// Args renders the full blastn argument list for the request.
func (r *Request) Args(tsv_path string) []string {

	args := []string{
		"-task", r.Task,
		"-query", r.Query,
		"-db", r.DB,
		"-remote",
		"-max_target_seqs", strconv.Itoa(MaxTargetSeqs),
		"-outfmt", outfmt,
		"-out", tsv_path,
	}

	if r.Filter != "" {
		args = append(args, "-entrez_query", r.Filter)
	}

	return args
}

// Runner invokes the blastn binary.
type Runner struct {
	Bin     string // blastn executable, resolved through PATH when bare
	BlastDB string // value for the BLASTDB environment variable
}

// Run blocks until blastn exits and returns the path of the TSV it wrote.
// A clean exit with an empty or missing output file is reported as ErrNoHits.
func (rn *Runner) Run(ctx context.Context, req *Request) (string, error) {

	if err := req.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}

	tsv_path := req.OutPath(time.Now())

	cmd := exec.CommandContext(ctx, rn.Bin, req.Args(tsv_path)...)

	// Where blastn looks for taxdb.* if a local copy exists. Not required
	// for remote searches.
	if os.Getenv("BLASTDB") == "" && rn.BlastDB != "" {
		cmd.Env = append(os.Environ(), "BLASTDB="+rn.BlastDB)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("blastn failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("blastn failed: %w", err)
	}

	if !util.NonEmptyFile(tsv_path) {
		// Leave no empty TSV behind, it would shadow a later retry.
		os.Remove(tsv_path)
		return "", ErrNoHits
	}

	return tsv_path, nil
}

// ShortQueryThreshold is the length at or below which NCBI recommends the
// blastn-short task.
const ShortQueryThreshold = 50

// ShortQuery reports the first-record length and whether the requested task
// should have been blastn-short for it.
func ShortQuery(query string, task string) (int, bool, error) {

	if task == "blastn-short" { // user already chose it
		return 0, false, nil
	}

	length, err := fasta.FirstRecordLen(query, ShortQueryThreshold)
	if err != nil {
		return 0, false, err
	}

	return length, length <= ShortQueryThreshold, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func joinOut(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
