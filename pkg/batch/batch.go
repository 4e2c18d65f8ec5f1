// Package batch walks a directory of FASTA files and runs one BLAST job
// per sequence, skipping records whose results already exist.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/reblast/internal/util"
	"github.com/yumyai/reblast/logger"
	"github.com/yumyai/reblast/pkg/fasta"
)

// SplitDirName is the folder under the output directory holding the
// single-record files produced from multi-record FASTA input.
const SplitDirName = "split_seqs"

// LineWidth is the column width sequences are re-wrapped to when split.
const LineWidth = 70

var fastaExts = map[string]bool{
	".fa": true, ".fna": true, ".fasta": true, ".fas": true,
}

var ErrNoInput = errors.New("no matching FASTA files found")

// RunFunc executes a single BLAST job for one single-record FASTA file.
type RunFunc func(ctx context.Context, query string) error

// Options configure one batch run.
type Options struct {
	InputDir string
	OutDir   string

	// Keep only files whose name contains any keyword (case-insensitive).
	// Empty keeps everything.
	Include []string

	// Random pause between jobs, in seconds.
	SleepMin int
	SleepMax int
}

// Driver runs jobs sequentially, one remote submission at a time. NCBI
// throttles and blocks clients that hammer the service in parallel.
type Driver struct {
	opts  Options
	run   RunFunc
	sleep func(time.Duration) // replaceable in tests
}

func NewDriver(opts Options, run RunFunc) *Driver {
	return &Driver{
		opts:  opts,
		run:   run,
		sleep: time.Sleep,
	}
}

// Discover finds every FASTA file under inputDir, sorted, honoring the
// include whitelist.
func Discover(inputDir string, include []string) ([]string, error) {

	var fastas []string

	err := filepath.WalkDir(inputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !fastaExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		if !matchesInclude(filepath.Base(p), include) {
			return nil
		}
		fastas = append(fastas, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", inputDir, err)
	}

	sort.Strings(fastas)
	return fastas, nil
}

func matchesInclude(name string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, kw := range include {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DoneAlready reports whether outDir already holds an .xlsx whose name
// starts with the query's stem. That file is the completion marker.
func DoneAlready(query, outDir string) (bool, error) {

	stem := util.Stem(query)

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, stem) && strings.HasSuffix(name, ".xlsx") {
			return true, nil
		}
	}

	return false, nil
}

// Run executes the whole batch: discover, split, skip done, run the rest.
// A failing record is logged and the batch moves on.
func (d *Driver) Run(ctx context.Context) error {

	fastas, err := Discover(d.opts.InputDir, d.opts.Include)
	if err != nil {
		return err
	}
	if len(fastas) == 0 {
		return ErrNoInput
	}

	logger.Info("Found FASTA files", zap.Int("count", len(fastas)))

	if err := os.MkdirAll(d.opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	split_dir := path.Join(d.opts.OutDir, SplitDirName)

	var queries []string
	for _, fa := range fastas {
		split, err := fasta.Split(fa, split_dir, LineWidth)
		if err != nil {
			return fmt.Errorf("split %s: %w", fa, err)
		}
		if len(split) > 1 {
			logger.Info("Multi-record FASTA split",
				zap.String("file", filepath.Base(fa)),
				zap.Int("sequences", len(split)))
		}
		queries = append(queries, split...)
	}

	seq_total := len(queries)
	logger.Info("Total sequences to BLAST", zap.Int("count", seq_total))

	t_batch0 := time.Now()
	failed := 0

	for i, q := range queries {

		if err := ctx.Err(); err != nil {
			return err
		}

		seq_done := i + 1

		done, err := DoneAlready(q, d.opts.OutDir)
		if err != nil {
			return err
		}
		if done {
			logger.Info("Already done, skipping",
				zap.String("progress", fmt.Sprintf("%d/%d", seq_done, seq_total)),
				zap.String("query", filepath.Base(q)))
			continue
		}

		logger.Info("BLAST",
			zap.String("progress", fmt.Sprintf("%d/%d", seq_done, seq_total)),
			zap.String("query", filepath.Base(q)))

		t0 := time.Now()
		if err := d.run(ctx, q); err != nil {
			failed++
			logger.Error("Job failed, continuing",
				zap.String("query", filepath.Base(q)),
				zap.Error(err))
			continue
		}

		logger.Info("Job done",
			zap.String("query", filepath.Base(q)),
			zap.String("elapsed", elapsed(time.Since(t0))))

		if seq_done < seq_total {
			nap := randomPause(d.opts.SleepMin, d.opts.SleepMax)
			logger.Info("Sleeping between jobs", zap.Duration("pause", nap))
			d.sleep(nap)
		}
	}

	logger.Info("All jobs finished",
		zap.String("elapsed", elapsed(time.Since(t_batch0))),
		zap.Int("failed", failed))

	return nil
}

func randomPause(min, max int) time.Duration {
	if max <= min {
		return time.Duration(min) * time.Second
	}
	return time.Duration(min+rand.Intn(max-min+1)) * time.Second
}

// elapsed renders a duration as HH:MM:SS.
func elapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
