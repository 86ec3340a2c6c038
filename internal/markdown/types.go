// Package markdown extracts relative links from markdown documents and
// rewrites their targets while preserving every other byte of the source.
package markdown

// LinkKind distinguishes inline links from reference definitions.
type LinkKind string

const (
	// KindInline is a [text](url) link.
	KindInline LinkKind = "inline"
	// KindReference is a [label]: url definition.
	KindReference LinkKind = "reference"
)

// Link is a link found in a document.
type Link struct {
	URL  string   `json:"url"`
	Text string   `json:"text"` // link text, or the label of a reference definition
	Kind LinkKind `json:"kind"`

	Line      int `json:"line"`      // 1-based
	Column    int `json:"column"`    // 1-based byte column of the opening bracket
	URLColumn int `json:"urlColumn"` // 1-based byte column of the first URL byte
}

// Source is a parsed document: its lines, their endings, and the links found.
type Source struct {
	Lines    []string // original lines, without endings
	LineEnds []string // "\n", "\r\n", "\r" or "" per line
	HasBOM   bool

	Frontmatter    Frontmatter
	FrontmatterErr error // set when the frontmatter block is not valid YAML
	Links          []Link
}

// Edit replaces the URL of one link.
type Edit struct {
	Line      int    // 1-based
	URLColumn int    // 1-based byte column where Old starts
	Old       string // must match the bytes at that position
	New       string
}

const utf8BOM = "\xEF\xBB\xBF"
