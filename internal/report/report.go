// Package report renders analysis reports as JSON or human-readable text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eykd/docxref/internal/xref"
)

// WriteJSON writes rep as indented JSON.
func WriteJSON(w io.Writer, rep *xref.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// TextOptions controls WriteText.
type TextOptions struct {
	// Color wraps severities in ANSI colors; set it only for terminals.
	Color bool
	// Suggestions lists fallback candidates under unresolved violations.
	Suggestions bool
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// WriteText writes one line per violation followed by a summary.
func WriteText(w io.Writer, rep *xref.Report, opts TextOptions) error {
	ew := &errWriter{w: w}
	for _, v := range rep.Violations {
		status := ""
		if v.Validation != nil && !v.Validation.Exists {
			status = " (target missing)"
		}
		ew.printf("%s:%d:%d %s %s -> %s %s%s\n",
			Sanitize(v.Link.Source.Path), v.Link.Position.Line, v.Link.Position.Column,
			v.Category, Sanitize(v.CurrentPath), Sanitize(v.CorrectedPath),
			severityLabel(v.Severity, opts.Color), status)
		if opts.Suggestions && v.Validation != nil && !v.Validation.Exists {
			for _, s := range v.Validation.Suggestions[min(1, len(v.Validation.Suggestions)):] {
				mark := ""
				if s.Exists {
					mark = " (exists)"
				}
				ew.printf("    try %s [%.2f]%s\n", Sanitize(s.Candidate), s.Confidence, mark)
			}
		}
	}

	ew.printf("\n%d files, %d links (%d relative), %d violations, %d resolvable\n",
		rep.TotalFiles, rep.TotalLinks, rep.EligibleLinks, len(rep.Violations), rep.Resolvable)
	ew.printf("attempted %d, solved %d, skipped %d\n", rep.Attempted, rep.Solved, rep.Skipped)

	if rep.Stats.Total > 0 {
		ew.printf("\nTop categories:\n")
		for _, c := range rep.TopCategories {
			if c.Count == 0 {
				continue
			}
			ew.printf("  %-20s %d\n", c.Category, c.Count)
		}
		ew.printf("\nBy directory:\n")
		for _, kv := range sortedCounts(rep.Stats.ByDirectory) {
			ew.printf("  %-40s %d\n", Sanitize(kv.key), kv.count)
		}
	}
	return ew.err
}

func severityLabel(sev int, color bool) string {
	label := fmt.Sprintf("[sev %d]", sev)
	if !color {
		return label
	}
	switch {
	case sev >= 4:
		return ansiRed + label + ansiReset
	case sev >= 2:
		return ansiYellow + label + ansiReset
	default:
		return ansiCyan + label + ansiReset
	}
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders a tally by descending count, then key.
func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

// Sanitize replaces control characters (runes < 0x20 or == 0x7F) with '?'
// before including path values in human-readable output, preventing ANSI injection.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '?'
		}
		return r
	}, s)
}

// errWriter remembers the first write error so formatting code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
