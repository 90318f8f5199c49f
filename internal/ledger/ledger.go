// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists an audit trail of conversion runs in a local
// SQLite database. The ledger is write-only from the converter's point
// of view: conversion never consults it, it only records what happened.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/uraprojects/notebook-rewriter/pkg/types"
)

const dbFile = "ledger.db"

// StatusConverted and StatusFailed are the per-file outcomes a run records.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Store manages the run ledger SQLite database.
type Store struct {
	db        *sql.DB
	ledgerDir string
	maxRuns   int
}

// NewStore opens or creates the ledger database at ledgerDir/ledger.db,
// creating the schema if it does not exist.
func NewStore(cfg types.LedgerConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LedgerDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LedgerDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{
		db:        db,
		ledgerDir: cfg.LedgerDir,
		maxRuns:   maxRuns,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			root_dir TEXT NOT NULL,
			converted INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one recorded batch conversion.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	RootDir   string    `json:"root_dir" yaml:"root_dir"`
	Converted int       `json:"converted" yaml:"converted"`
	Failed    int       `json:"failed" yaml:"failed"`
}

// RunFile is one per-file outcome within a run.
type RunFile struct {
	Path    string `json:"path" yaml:"path"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RecordRun appends one run with its per-file outcomes. The run's
// converted/failed counts are derived from the file statuses. Every
// record carries its path, failures included.
func (s *Store) RecordRun(ctx context.Context, rootDir string, startedAt time.Time, files []RunFile) (int64, error) {
	converted, failed := 0, 0
	for _, f := range files {
		if f.Status == StatusConverted {
			converted++
		} else {
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, root_dir, converted, failed) VALUES (?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339Nano), rootDir, converted, failed)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (run_id, path, status, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.ExecContext(ctx, runID, f.Path, f.Status, f.Message); err != nil {
			return 0, fmt.Errorf("inserting file record %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists recorded runs, most recent first. A limit of zero uses the
// store default.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxRuns
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, root_dir, converted, failed
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r  Run
			ts string
		)
		if err := rows.Scan(&r.ID, &ts, &r.RootDir, &r.Converted, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", ts, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFiles lists the per-file outcomes of one run, in recorded order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]RunFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, status, message FROM run_files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run files: %w", err)
	}
	defer rows.Close()

	var files []RunFile
	for rows.Next() {
		var f RunFile
		if err := rows.Scan(&f.Path, &f.Status, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning run file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
