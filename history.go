package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type RunRecord struct {
	Index     int
	Workload  string
	Nemesis   string
	StartedAt time.Time
	Elapsed   time.Duration
	Result    RunResult
}

type HistoryStore interface {
	RecordRun(ctx context.Context, record RunRecord) error
}

type noHistory struct{}

func (noHistory) RecordRun(context.Context, RunRecord) error { return nil }

// SQLHistory keeps one row per finished run in a libsql database.
type SQLHistory struct {
	db *sql.DB
}

func OpenHistory(url string) (*SQLHistory, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, err
	}
	return &SQLHistory{db: db}, nil
}

func (h *SQLHistory) Init(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS runs (
		run_index INTEGER,
		workload TEXT,
		nemesis TEXT,
		started_at TEXT,
		elapsed_sec REAL,
		exit_code INTEGER,
		timed_out BOOL,
		looks_good BOOL,
		analysis_invalid BOOL
	)`)
	return err
}

func (h *SQLHistory) RecordRun(ctx context.Context, record RunRecord) error {
	_, err := h.db.ExecContext(
		ctx,
		"INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.Index,
		record.Workload,
		record.Nemesis,
		record.StartedAt.Format("2006-01-02 15:04:05"),
		record.Elapsed.Seconds(),
		record.Result.ExitCode,
		record.Result.TimedOut,
		record.Result.EverythingLooksGood,
		record.Result.AnalysisInvalid,
	)
	return err
}

func (h *SQLHistory) Close() error {
	return h.db.Close()
}
