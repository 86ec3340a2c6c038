package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/config"
	"github.com/eykd/docxref/internal/store"
	"github.com/eykd/docxref/internal/xref"
)

// mockProjectIO is an in-memory ProjectIO keyed by slash-separated paths.
type mockProjectIO struct {
	mu sync.Mutex

	cfg     config.Config
	cfgErr  error
	listErr error

	files    map[string]string
	readErr  map[string]error
	writeErr error
	written  map[string]string

	loadedDir  string
	listedDir  string
	listedRoot string
}

func newMockProjectIO(files map[string]string) *mockProjectIO {
	cfg := config.Default()
	cfg.RootMarker = "docs"
	cfg.HistoryDB = ""
	return &mockProjectIO{
		cfg:     cfg,
		files:   files,
		readErr: make(map[string]error),
		written: make(map[string]string),
	}
}

func (m *mockProjectIO) LoadConfig(dir string) (config.Config, error) {
	m.loadedDir = dir
	return m.cfg, m.cfgErr
}

func (m *mockProjectIO) ListDocuments(dir, root string, _ []string) ([]string, error) {
	m.listedDir = dir
	m.listedRoot = filepath.ToSlash(root)
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []string
	for p := range m.files {
		if strings.HasPrefix(p, m.listedRoot+"/") && strings.HasSuffix(p, ".md") {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockProjectIO) ReadDocument(path string) ([]byte, error) {
	p := filepath.ToSlash(path)
	if err, ok := m.readErr[p]; ok {
		return nil, err
	}
	content, ok := m.files[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (m *mockProjectIO) Stat(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[filepath.ToSlash(path)]; ok {
		return true, nil
	}
	return false, os.ErrNotExist
}

func (m *mockProjectIO) WriteFileAtomic(path string, content []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written[filepath.ToSlash(path)] = string(content)
	return nil
}

// mockHistory is an in-memory HistoryStore.
type mockHistory struct {
	openErr   error
	recordErr error
	listErr   error

	runs     []store.Run
	rows     []store.ViolationRow
	recorded []*xref.Report

	openedPath string
	listLimit  int
	closed     bool
}

func (m *mockHistory) open(path string) (HistoryStore, error) {
	m.openedPath = path
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m, nil
}

func (m *mockHistory) RecordRun(_ context.Context, rep *xref.Report) (string, error) {
	if m.recordErr != nil {
		return "", m.recordErr
	}
	m.recorded = append(m.recorded, rep)
	return "run-1", nil
}

func (m *mockHistory) ListRuns(_ context.Context, limit int) ([]store.Run, error) {
	m.listLimit = limit
	return m.runs, m.listErr
}

func (m *mockHistory) RunViolations(_ context.Context, runID string) ([]store.ViolationRow, error) {
	if runID != "run-1" {
		return []store.ViolationRow{}, nil
	}
	return m.rows, nil
}

func (m *mockHistory) Close() error {
	m.closed = true
	return nil
}

// sampleProject is a small docs tree with two depth violations in
// docs/standards/core/PRINCIPLES.md, both of which resolve.
func sampleProject() map[string]string {
	return map[string]string{
		"docs/GLOSSARY.md":                  "# Glossary\n",
		"docs/README.md":                    "[Glossary](../GLOSSARY.md)\n",
		"docs/orchestrator/README.md":       "# Orchestrator\n",
		"docs/standards/core/PRINCIPLES.md": "See [the glossary](../GLOSSARY.md) and [orch](orchestrator/README.md).\n",
		"docs/drafts/WIP.md":                "---\ndocxref:\n  skip: true\n---\n[x](GLOSSARY.md)\n",
	}
}

// runCmd executes c with args and returns stdout, stderr and the error.
func runCmd(c *cobra.Command, args ...string) (string, string, error) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

var errDisk = errors.New("disk error")
