package cmd

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/reblast/internal/config"
	"github.com/yumyai/reblast/logger"
	"github.com/yumyai/reblast/pkg/blast"
	"github.com/yumyai/reblast/pkg/job"
	"github.com/yumyai/reblast/pkg/report"
)

// executeJob runs the whole single-query pipeline: warn on short queries,
// invoke blastn, convert the TSV to XLSX, and record the run in the ledger.
// The ledger is optional; a nil ledger just skips bookkeeping.
func executeJob(ctx context.Context, cfg *config.Config, req *blast.Request, ledger *job.Ledger) error {

	if length, short, err := blast.ShortQuery(req.Query, req.Task); err == nil && short {
		logger.Warn("Query is very short; NCBI recommends -task blastn-short",
			zap.Int("length_bp", length),
			zap.Int("threshold_bp", blast.ShortQueryThreshold),
			zap.String("requested_task", req.Task))
	}

	job_id := recordStart(ledger, req)

	runner := &blast.Runner{Bin: cfg.BlastBin, BlastDB: cfg.BlastDB}

	logger.Info("Waiting for BLAST result ...",
		zap.String("query", req.Query),
		zap.String("task", req.Task),
		zap.String("db", req.DB))

	t0 := time.Now()
	tsv_path, err := runner.Run(ctx, req)
	if err != nil {
		recordResult(ledger, job_id, 0, err)
		return err
	}

	logger.Info("Received BLAST result",
		zap.Duration("query_time", time.Since(t0).Round(time.Second)),
		zap.String("tsv", tsv_path))

	xlsx_path, rows, err := report.Convert(tsv_path, blast.Columns)
	if err != nil {
		recordResult(ledger, job_id, 0, err)
		return err
	}

	logger.Info("Created excel", zap.String("xlsx", xlsx_path), zap.Int("rows", rows))

	recordResult(ledger, job_id, rows, nil)
	return nil
}

// Ledger trouble is logged, never fatal. The xlsx file, not the ledger, is
// the completion marker.
func recordStart(ledger *job.Ledger, req *blast.Request) string {
	if ledger == nil {
		return ""
	}
	id, err := ledger.Start(req.Query, req.DB, req.Task, req.Filter)
	if err != nil {
		logger.Warn("Could not record job start", zap.Error(err))
		return ""
	}
	return id
}

func recordResult(ledger *job.Ledger, id string, rows int, jerr error) {
	if ledger == nil || id == "" {
		return
	}

	var err error
	switch {
	case errors.Is(jerr, blast.ErrNoHits), errors.Is(jerr, report.ErrNoRows):
		err = ledger.NoHits(id)
	case jerr != nil:
		err = ledger.Fail(id, jerr)
	default:
		err = ledger.Finish(id, rows)
	}

	if err != nil {
		logger.Warn("Could not record job result", zap.Error(err))
	}
}

// openLedger opens the run ledger in outDir, logging instead of failing.
func openLedger(outDir string) *job.Ledger {
	ledger, err := job.Open(outDir)
	if err != nil {
		logger.Warn("Job ledger unavailable", zap.Error(err))
		return nil
	}
	return ledger
}
