package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/eykd/docxref/internal/config"
	"github.com/eykd/docxref/internal/discover"
	"github.com/eykd/docxref/internal/markdown"
	"github.com/eykd/docxref/internal/xref"
)

// maxDocumentSize bounds how much of a single document is read.
const maxDocumentSize = 8 << 20

// ProjectIO handles I/O for commands that load a documentation project.
// Stat satisfies xref.FileChecker so validation runs through the same seam.
type ProjectIO interface {
	LoadConfig(dir string) (config.Config, error)
	// ListDocuments returns the markdown files under root, slash-separated
	// and prefixed with root. dir is the project directory whose
	// .gitignore also applies.
	ListDocuments(dir, root string, exclude []string) ([]string, error)
	ReadDocument(path string) ([]byte, error)
	Stat(path string) (isFile bool, err error)
	WriteFileAtomic(path string, content []byte) error
}

// project is a loaded documentation tree.
type project struct {
	dir   string // project directory; document paths are relative to it
	cfg   config.Config
	docs  []projectDoc
	diags []Diagnostic
}

type projectDoc struct {
	Path   string // slash-separated, relative to the project directory
	Source *markdown.Source
}

// projectDir returns the --config directory, or "." when unset.
func projectDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		return "."
	}
	return dir
}

// loadConfig loads the project configuration and applies a --docs override.
func loadConfig(cmd *cobra.Command, pio ProjectIO) (string, config.Config, error) {
	dir := projectDir(cmd)
	cfg, err := pio.LoadConfig(dir)
	if err != nil {
		return "", config.Config{}, codedErrorf(CodeConfig, "loading configuration: %w", err)
	}
	if docs, _ := cmd.Flags().GetString("docs"); docs != "" {
		cfg = cfg.WithDocsDir(docs)
	}
	return dir, cfg, nil
}

// loadProject discovers and parses every document of the project. Unreadable
// or undecodable documents become error diagnostics and are left out; a
// failure to load the configuration or walk the tree is returned as an error.
func loadProject(cmd *cobra.Command, pio ProjectIO, log *slog.Logger) (*project, error) {
	dir, cfg, err := loadConfig(cmd, pio)
	if err != nil {
		return nil, err
	}
	p := &project{dir: dir, cfg: cfg, docs: []projectDoc{}, diags: []Diagnostic{}}

	root := filepath.Join(dir, cfg.DocsDir)
	paths, err := pio.ListDocuments(dir, root, cfg.Exclude)
	if err != nil {
		return nil, codedErrorf(CodeDiscovery, "listing documents in %s: %w", root, err)
	}
	log.Debug("documents discovered", "root", root, "count", len(paths))

	for _, full := range paths {
		rel, err := filepath.Rel(dir, filepath.FromSlash(full))
		if err != nil {
			rel = full
		}
		rel = filepath.ToSlash(rel)

		data, err := pio.ReadDocument(filepath.Join(dir, rel))
		if err != nil {
			p.diags = append(p.diags, Diagnostic{Severity: SeverityError, Code: CodeRead, Message: err.Error(), Path: rel})
			continue
		}
		src, err := markdown.Parse(data)
		if err != nil {
			p.diags = append(p.diags, Diagnostic{Severity: SeverityError, Code: CodeEncoding, Message: err.Error(), Path: rel})
			continue
		}
		if src.FrontmatterErr != nil {
			p.diags = append(p.diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeFrontmatter,
				Message:  fmt.Sprintf("ignoring frontmatter: %v", src.FrontmatterErr),
				Path:     rel,
			})
		}
		if src.Frontmatter.Docxref.Skip {
			log.Debug("document opted out", "path", rel)
			continue
		}
		p.docs = append(p.docs, projectDoc{Path: rel, Source: src})
	}
	return p, nil
}

// links converts the parsed documents into analyzer input.
func (p *project) links() []xref.DocumentLinks {
	out := make([]xref.DocumentLinks, len(p.docs))
	for i, d := range p.docs {
		refs := make([]xref.LinkRef, len(d.Source.Links))
		for j, l := range d.Source.Links {
			refs[j] = xref.LinkRef{URL: l.URL, Text: l.Text, Line: l.Line, Column: l.Column}
		}
		out[i] = xref.DocumentLinks{Path: d.Path, Links: refs}
	}
	return out
}

// analyze runs the analyzer over p with validation through pio.
func (p *project) analyze(ctx context.Context, pio ProjectIO, log *slog.Logger) (*xref.Report, error) {
	v, err := xref.NewValidator(pio, p.cfg.ValidationCacheSize)
	if err != nil {
		return nil, err
	}
	a := xref.NewAnalyzer(xref.AnalyzerOptions{
		RootMarker: p.cfg.RootMarker,
		Workers:    p.cfg.Workers,
		Validator:  v,
		BaseDir:    p.dir,
		TopN:       p.cfg.TopN,
		Logger:     log,
	})
	return a.Analyze(ctx, p.links())
}

// colorEnabled reports whether w is a terminal that accepts ANSI colors.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// fileProjectIO implements ProjectIO using OS file I/O.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type fileProjectIO struct{}

func newDefaultProjectIO() *fileProjectIO {
	return &fileProjectIO{}
}

// LoadConfig loads the configuration for the project in dir.
func (f *fileProjectIO) LoadConfig(dir string) (config.Config, error) {
	return config.Load(dir)
}

// ListDocuments walks root for markdown files.
func (f *fileProjectIO) ListDocuments(dir, root string, exclude []string) ([]string, error) {
	return discover.ProjectDocuments(dir, root, exclude)
}

// ReadDocument reads the document at path.
func (f *fileProjectIO) ReadDocument(path string) ([]byte, error) {
	return f.ReadDocumentImpl(path)
}

// ReadDocumentImpl reads at most maxDocumentSize bytes from path.
func (f *fileProjectIO) ReadDocumentImpl(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return os.ReadFile(path)
}

// Stat reports whether path is an existing regular file.
func (f *fileProjectIO) Stat(path string) (bool, error) {
	return xref.OSFileChecker{}.Stat(path)
}

// WriteFileAtomic replaces path with content via a temp file rename.
func (f *fileProjectIO) WriteFileAtomic(path string, content []byte) error {
	return f.WriteFileAtomicImpl(path, content)
}

// WriteFileAtomicImpl performs the atomic write, keeping the permissions of
// an existing file and using 0644 for a new one.
func (f *fileProjectIO) WriteFileAtomicImpl(path string, content []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return writeAtomic(path, content, mode)
}

func writeAtomic(path string, content []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dxr-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
