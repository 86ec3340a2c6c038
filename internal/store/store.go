// Package store records analysis runs in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eykd/docxref/internal/xref"
)

// Run summarizes one recorded analysis.
type Run struct {
	RunID       string `json:"run_id"`
	CreatedAt   string `json:"created_at"` // RFC3339, UTC
	RootMarker  string `json:"root_marker"`
	TotalFiles  int    `json:"total_files"`
	TotalLinks  int    `json:"total_links"`
	Violations  int    `json:"violations"`
	Solved      int    `json:"solved"`
	Skipped     int    `json:"skipped"`
	Resolvable  int    `json:"resolvable"`
	TopCategory string `json:"top_category"`
}

// ViolationRow is a violation as persisted for a run.
type ViolationRow struct {
	Source        string  `json:"source"`
	Line          int     `json:"line"`
	Column        int     `json:"column"`
	Category      string  `json:"category"`
	CurrentPath   string  `json:"current_path"`
	CorrectedPath string  `json:"corrected_path"`
	Severity      int     `json:"severity"`
	FixType       string  `json:"fix_type"`
	Exists        bool    `json:"exists"`
	Confidence    float64 `json:"confidence"`
}

// Store is a sqlite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" || p == "." {
		return nil, errors.New("missing history database path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}

	// The pure-Go driver takes the database file path as its DSN.
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// History writes come from one dxr process at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  run_id TEXT PRIMARY KEY,
  created_at TEXT NOT NULL,
  root_marker TEXT NOT NULL,
  total_files INTEGER NOT NULL,
  total_links INTEGER NOT NULL,
  violations INTEGER NOT NULL,
  solved INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  resolvable INTEGER NOT NULL,
  top_category TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS violations (
  run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  source TEXT NOT NULL,
  line INTEGER NOT NULL,
  col INTEGER NOT NULL,
  category TEXT NOT NULL,
  current_path TEXT NOT NULL,
  corrected_path TEXT NOT NULL,
  severity INTEGER NOT NULL,
  fix_type TEXT NOT NULL,
  target_exists INTEGER NOT NULL,
  confidence REAL NOT NULL,
  PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`)
	return err
}

// RecordRun stores rep and its violations in one transaction and returns the
// new run ID.
func (s *Store) RecordRun(ctx context.Context, rep *xref.Report) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("store not initialized")
	}
	if rep == nil {
		return "", errors.New("missing report")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating run id: %w", err)
	}
	runID := id.String()

	top := ""
	if len(rep.TopCategories) > 0 && rep.TopCategories[0].Count > 0 {
		top = rep.TopCategories[0].Category.String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs(run_id, created_at, root_marker, total_files, total_links, violations, solved, skipped, resolvable, top_category)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, runID, rep.Timestamp.UTC().Truncate(time.Second).Format(time.RFC3339), rep.RootMarker,
		rep.TotalFiles, rep.TotalLinks, len(rep.Violations), rep.Solved, rep.Skipped, rep.Resolvable, top)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO violations(run_id, seq, source, line, col, category, current_path, corrected_path, severity, fix_type, target_exists, confidence)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, v := range rep.Violations {
		exists := 0
		confidence := 0.0
		if v.Validation != nil {
			if v.Validation.Exists {
				exists = 1
			}
			confidence = v.Validation.Confidence
		}
		if _, err := stmt.ExecContext(ctx, runID, i, v.Link.Source.Path, v.Link.Position.Line, v.Link.Position.Column,
			v.Category.String(), v.CurrentPath, v.CorrectedPath, v.Severity, string(v.FixType), exists, confidence); err != nil {
			return "", fmt.Errorf("inserting violation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, created_at, root_marker, total_files, total_links, violations, solved, skipped, resolvable, top_category
FROM runs
ORDER BY created_at DESC, run_id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.RootMarker, &r.TotalFiles, &r.TotalLinks,
			&r.Violations, &r.Solved, &r.Skipped, &r.Resolvable, &r.TopCategory); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunViolations returns the violations recorded for runID in their original
// order. An unknown run yields an empty slice.
func (s *Store) RunViolations(ctx context.Context, runID string) ([]ViolationRow, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	id := strings.TrimSpace(runID)
	if id == "" {
		return nil, errors.New("missing run id")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT source, line, col, category, current_path, corrected_path, severity, fix_type, target_exists, confidence
FROM violations
WHERE run_id = ?
ORDER BY seq ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ViolationRow{}
	for rows.Next() {
		var v ViolationRow
		var exists int
		if err := rows.Scan(&v.Source, &v.Line, &v.Column, &v.Category, &v.CurrentPath, &v.CorrectedPath,
			&v.Severity, &v.FixType, &exists, &v.Confidence); err != nil {
			return nil, err
		}
		v.Exists = exists != 0
		out = append(out, v)
	}
	return out, rows.Err()
}
