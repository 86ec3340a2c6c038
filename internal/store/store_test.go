package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/eykd/docxref/internal/xref"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleReport(ts time.Time) *xref.Report {
	src := xref.NewDocument("docs/standards/core/PRINCIPLES.md", "docs")
	return &xref.Report{
		Timestamp:  ts,
		RootMarker: "docs",
		TotalFiles: 2,
		TotalLinks: 5,
		Solved:     2,
		Skipped:    1,
		Resolvable: 1,
		Violations: []xref.Violation{
			{
				Link:          xref.RawLink{URL: "../GLOSSARY.md", Source: src, Position: xref.Position{Line: 3, Column: 7}},
				Category:      xref.Glossary,
				CurrentPath:   "../GLOSSARY.md",
				CorrectedPath: "../../GLOSSARY.md",
				Severity:      2,
				FixType:       xref.FixAddDepth,
				Validation:    &xref.ValidationResult{Exists: true, Confidence: xref.ConfidenceExists},
			},
			{
				Link:          xref.RawLink{URL: "orchestrator/README.md", Source: src, Position: xref.Position{Line: 9, Column: 1}},
				Category:      xref.Orchestrator,
				CurrentPath:   "orchestrator/README.md",
				CorrectedPath: "../../orchestrator/README.md",
				Severity:      3,
				FixType:       xref.FixAddDepth,
			},
		},
		TopCategories: []xref.CategoryCount{{Category: xref.Glossary, Count: 1}},
	}
}

func TestStore_RecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older, err := s.RecordRun(ctx, sampleReport(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	newer, err := s.RecordRun(ctx, sampleReport(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != newer || runs[1].RunID != older {
		t.Fatalf("ListRuns = %+v", runs)
	}
	r := runs[0]
	if r.CreatedAt != "2026-02-01T00:00:00Z" || r.Violations != 2 || r.TotalLinks != 5 || r.TopCategory != "GLOSSARY" {
		t.Errorf("run = %+v", r)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("ListRuns(1) returned %d", len(limited))
	}
}

func TestStore_RunViolations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.RecordRun(ctx, sampleReport(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	rows, err := s.RunViolations(ctx, id)
	if err != nil {
		t.Fatalf("RunViolations: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].CorrectedPath != "../../GLOSSARY.md" || !rows[0].Exists || rows[0].Line != 3 || rows[0].Column != 7 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Category != "ORCHESTRATOR" || rows[1].Exists || rows[1].Confidence != 0 {
		t.Errorf("row 1 = %+v", rows[1])
	}

	none, err := s.RunViolations(ctx, "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("unknown run = %v, %v", none, err)
	}
	if _, err := s.RunViolations(ctx, " "); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store: %v", err)
	}
	if _, err := s.ListRuns(context.Background(), 1); err == nil {
		t.Error("expected error from nil store")
	}
}
