package xref

import (
	"context"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LinkRef is a link as supplied by a link extractor.
type LinkRef struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// DocumentLinks pairs a document path with the links found in it.
type DocumentLinks struct {
	Path  string
	Links []LinkRef
}

// Report is the result of one analysis run.
type Report struct {
	Timestamp     time.Time       `json:"timestamp"`
	RootMarker    string          `json:"rootMarker"`
	TotalFiles    int             `json:"totalFiles"`
	TotalLinks    int             `json:"totalLinks"`
	EligibleLinks int             `json:"eligibleLinks"`
	Violations    []Violation     `json:"violations"`
	Stats         Stats           `json:"stats"`
	TopCategories []CategoryCount `json:"topCategories"`
	Attempted     int             `json:"attempted"`
	Solved        int             `json:"solved"`
	Skipped       int             `json:"skipped"`
	// Resolvable counts violations whose corrected path exists on disk.
	Resolvable int `json:"resolvable"`
}

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	// RootMarker is the path segment that depth is measured from.
	RootMarker string
	// Workers bounds document-level parallelism; values below 1 mean 1.
	Workers int
	// Validator checks corrected paths. Nil skips validation.
	Validator *Validator
	// BaseDir is prepended to document paths when validating, so documents
	// can be named relative to a project directory other than the cwd.
	BaseDir string
	// TopN limits Report.TopCategories; zero keeps every category.
	TopN   int
	Logger *slog.Logger
	Now    func() time.Time
}

// Analyzer finds depth violations across a set of documents.
type Analyzer struct {
	opts      AnalyzerOptions
	corrector *BatchCorrector
	log       *slog.Logger
}

// NewAnalyzer returns an Analyzer configured by opts.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Analyzer{opts: opts, corrector: NewBatchCorrector(), log: log}
}

// Corrector returns the batch corrector whose cache accumulates solved
// corrections across Analyze calls.
func (a *Analyzer) Corrector() *BatchCorrector { return a.corrector }

// Analyze classifies and corrects every eligible link in docs, validates the
// corrections, and aggregates the violations. Only context cancellation
// produces an error.
func (a *Analyzer) Analyze(ctx context.Context, docs []DocumentLinks) (*Report, error) {
	rep := &Report{
		Timestamp:  a.opts.Now(),
		RootMarker: a.opts.RootMarker,
		TotalFiles: len(docs),
		Violations: []Violation{},
	}

	// refs parallels the batch items so records can be traced back to their links.
	items := make([][]Item, len(docs))
	refs := make([][]LinkRef, len(docs))
	for i, d := range docs {
		doc := NewDocument(d.Path, a.opts.RootMarker)
		for _, l := range d.Links {
			rep.TotalLinks++
			if !IsEligible(l.URL) {
				continue
			}
			items[i] = append(items[i], Item{URL: l.URL, Source: doc})
			refs[i] = append(refs[i], l)
		}
		if doc.Depth == 0 && len(items[i]) > 0 {
			a.log.Debug("document outside root marker; using depth 0", "path", d.Path, "marker", a.opts.RootMarker)
		}
	}

	batch, err := a.corrector.CorrectDocuments(ctx, items, a.opts.Workers)
	if err != nil {
		return nil, err
	}
	rep.EligibleLinks = batch.Attempted
	rep.Attempted, rep.Solved, rep.Skipped = batch.Attempted, batch.Solved, batch.Skipped

	k := 0
	for i := range items {
		for j := range items[i] {
			rec := batch.Records[k]
			k++
			if !rec.Solved {
				continue
			}
			rep.Violations = append(rep.Violations, newViolation(rec, refs[i][j]))
		}
	}

	if a.opts.Validator != nil {
		err := runIndexed(ctx, len(rep.Violations), a.opts.Workers, func(i int) {
			v := &rep.Violations[i]
			res := a.opts.Validator.Validate(v.CorrectedPath, filepath.Join(a.opts.BaseDir, docDir(v.Link.Source.Path)))
			v.Validation = &res
		})
		if err != nil {
			return nil, err
		}
	}

	agg := NewAggregator()
	for _, v := range rep.Violations {
		agg.Add(v)
		if v.Validation != nil && v.Validation.Exists {
			rep.Resolvable++
		}
	}
	rep.Stats = agg.Stats()
	rep.TopCategories = agg.TopCategories(a.opts.TopN)

	a.log.Info("analysis complete",
		"files", rep.TotalFiles,
		"links", rep.TotalLinks,
		"violations", len(rep.Violations),
		"resolvable", rep.Resolvable,
	)
	return rep, nil
}

func newViolation(rec Record, ref LinkRef) Violation {
	src := rec.Item.Source
	return Violation{
		Link: RawLink{
			URL:        rec.Item.URL,
			Source:     src,
			AnchorText: ref.Text,
			Position:   Position{Line: ref.Line, Column: ref.Column},
		},
		Category:      rec.Category,
		CurrentPath:   rec.Item.URL,
		CorrectedPath: rec.Corrected,
		TargetPath:    resolve(rec.Item.URL, docDir(src.Path)),
		Severity:      Severity(rec.Category, src.Depth),
		FixType:       FixTypeOf(rec.Item.URL, rec.Corrected),
	}
}

// docDir returns the directory containing the document at p.
func docDir(p string) string {
	return path.Dir(strings.ReplaceAll(p, `\`, "/"))
}
