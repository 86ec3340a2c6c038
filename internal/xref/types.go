// Package xref classifies relative cross-references in a documentation tree
// and synthesizes depth-correct replacements for them.
package xref

import (
	"fmt"
	"strings"
)

// Category is the canonical destination a relative link is presumed to reach.
type Category int

const (
	// Glossary targets the root-level GLOSSARY.md.
	Glossary Category = iota
	// Orchestrator targets files under orchestrator/.
	Orchestrator
	// Architecture targets files under architecture/.
	Architecture
	// StandardsCore targets files under standards/core/.
	StandardsCore
	// DocumentationGuide targets the root-level DOCUMENTATION_GUIDE.md.
	DocumentationGuide
	// Other is any link that matches no known target.
	Other
)

// Categories lists every category in classification priority order, with
// Other last.
var Categories = []Category{Glossary, Orchestrator, Architecture, StandardsCore, DocumentationGuide, Other}

var categoryNames = map[Category]string{
	Glossary:           "GLOSSARY",
	Orchestrator:       "ORCHESTRATOR",
	Architecture:       "ARCHITECTURE",
	StandardsCore:      "STANDARDS_CORE",
	DocumentationGuide: "DOCUMENTATION_GUIDE",
	Other:              "OTHER",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalText encodes the category by name so map keys and JSON fields stay readable.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name produced by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category with the given name (case-insensitive).
func ParseCategory(name string) (Category, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range Categories {
		if categoryNames[c] == upper {
			return c, nil
		}
	}
	return Other, fmt.Errorf("unknown category %q", name)
}

// Document is a read-only snapshot of a document's location in the tree.
type Document struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"`
}

// NewDocument builds a Document whose depth is measured from marker.
func NewDocument(path, marker string) Document {
	return Document{Path: path, Depth: Depth(path, marker)}
}

// Position is a 1-based source location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// RawLink is a link as found in a source document.
type RawLink struct {
	URL        string   `json:"url"`
	Source     Document `json:"source"`
	AnchorText string   `json:"anchorText"`
	Position   Position `json:"position"`
}

// FixType describes the shape of the edit between the current and corrected path.
type FixType string

const (
	// FixAddDepth means the corrected path is longer than the original.
	FixAddDepth FixType = "ADD_DEPTH"
	// FixReduceDepth means the corrected path is shorter than the original.
	FixReduceDepth FixType = "REDUCE_DEPTH"
	// FixReorderDepth means both paths have the same length but differ.
	FixReorderDepth FixType = "REORDER_DEPTH"
)

// FixTypeOf compares path lengths to describe the edit from original to corrected.
func FixTypeOf(original, corrected string) FixType {
	switch {
	case len(corrected) > len(original):
		return FixAddDepth
	case len(corrected) < len(original):
		return FixReduceDepth
	default:
		return FixReorderDepth
	}
}

// Violation is a link whose current path disagrees with the depth-correct path.
type Violation struct {
	Link          RawLink           `json:"link"`
	Category      Category          `json:"category"`
	CurrentPath   string            `json:"currentPath"`
	CorrectedPath string            `json:"correctedPath"`
	TargetPath    string            `json:"targetPath"` // current path joined onto the source directory
	Severity      int               `json:"severity"`   // 1..5
	FixType       FixType           `json:"fixType"`
	Validation    *ValidationResult `json:"validation,omitempty"`
}

// Confidence levels reported by the Validator.
const (
	ConfidenceExists     = 0.95
	ConfidenceMissing    = 0.05
	ConfidenceSuggestion = 0.65
)

// ValidationResult reports whether a candidate path resolves to a regular file.
type ValidationResult struct {
	Candidate   string       `json:"candidate"`
	Path        string       `json:"path"` // candidate joined onto the base directory
	Exists      bool         `json:"exists"`
	Confidence  float64      `json:"confidence"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Suggestion is a fallback candidate offered when a corrected path does not exist.
type Suggestion struct {
	Candidate  string  `json:"candidate"`
	Confidence float64 `json:"confidence"`
	Exists     bool    `json:"exists"`
}
