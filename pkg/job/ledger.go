// Package job keeps a per-output-directory ledger of BLAST runs.
//
// The ledger is informational. The authoritative "already done" signal is
// the presence of the .xlsx result file, so losing or deleting the ledger
// never changes what the batch driver does.
package job

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const LedgerFile = "reblast_jobs.db"

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusNoHits    Status = "no_hits"
)

// Entry is one recorded run.
type Entry struct {
	ID         string
	Query      string
	DB         string
	Task       string
	Filter     string
	Status     Status
	Error      string
	Rows       int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Ledger struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL,
	db          TEXT NOT NULL,
	task        TEXT NOT NULL,
	filter      TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	rows_out    INTEGER NOT NULL DEFAULT 0,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT ''
);`

// Open opens (creating if needed) the ledger inside outDir.
func Open(outDir string) (*Ledger, error) {

	ledger_path := path.Join(outDir, LedgerFile)

	db, err := sql.Open("sqlite", ledger_path)
	if err != nil {
		return nil, fmt.Errorf("open job ledger: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create job ledger schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Start records a new running job and returns its id.
func (l *Ledger) Start(query, db, task, filter string) (string, error) {

	ctx := context.TODO()
	id := uuid.NewString()

	qstring := `INSERT INTO jobs (id, query, db, task, filter, status, started_at)
	            VALUES (?, ?, ?, ?, ?, ?, ?);`

	_, err := l.db.ExecContext(ctx, qstring,
		id, query, db, task, filter, string(StatusRunning),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("record job start: %w", err)
	}

	return id, nil
}

// Finish marks the job completed with the number of result rows written.
func (l *Ledger) Finish(id string, rows int) error {
	return l.settle(id, StatusCompleted, "", rows)
}

// NoHits marks the job as cleanly finished without any result row.
func (l *Ledger) NoHits(id string) error {
	return l.settle(id, StatusNoHits, "", 0)
}

// Fail records the failure text for the job.
func (l *Ledger) Fail(id string, jerr error) error {
	msg := ""
	if jerr != nil {
		msg = jerr.Error()
	}
	return l.settle(id, StatusFailed, msg, 0)
}

func (l *Ledger) settle(id string, status Status, msg string, rows int) error {

	ctx := context.TODO()

	qstring := `UPDATE jobs SET status = ?, error = ?, rows_out = ?, finished_at = ?
	            WHERE id = ?;`

	_, err := l.db.ExecContext(ctx, qstring,
		string(status), msg, rows,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("record job result: %w", err)
	}

	return nil
}

// List returns every recorded run, newest first.
func (l *Ledger) List() ([]Entry, error) {

	ctx := context.TODO()

	qstring := `SELECT id, query, db, task, filter, status, error, rows_out,
	                   started_at, finished_at
	            FROM jobs ORDER BY started_at DESC;`

	stm, err := l.db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry

	for rows.Next() {

		var e Entry
		var status, started, finished string

		if err := rows.Scan(&e.ID, &e.Query, &e.DB, &e.Task, &e.Filter,
			&status, &e.Error, &e.Rows, &started, &finished); err != nil {
			return nil, err
		}

		e.Status = Status(status)
		e.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			e.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}

		results = append(results, e)
	}

	return results, rows.Err()
}
