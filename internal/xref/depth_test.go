package xref_test

import (
	"testing"

	"github.com/eykd/docxref/internal/xref"
)

func TestDepth(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		marker string
		want   int
	}{
		{name: "file directly in root", path: "docs/README.md", marker: "docs", want: 1},
		{name: "one level below root", path: "docs/orchestrator/LIFECYCLE.md", marker: "docs", want: 2},
		{name: "two levels below root", path: "docs/standards/core/PRINCIPLES.md", marker: "docs", want: 3},
		{name: "absolute path prefix ignored", path: "/home/me/repo/docs/a/b/c.md", marker: "docs", want: 3},
		{name: "backslash separators", path: `docs\architecture\API.md`, marker: "docs", want: 2},
		{name: "leading dot segment", path: "./docs/guide/x.md", marker: "docs", want: 2},
		{name: "marker absent", path: "src/README.md", marker: "docs", want: 0},
		{name: "marker only as substring", path: "mydocs/a/README.md", marker: "docs", want: 0},
		{name: "empty marker", path: "docs/a/README.md", marker: "", want: 0},
		{name: "empty path", path: "", marker: "docs", want: 0},
		{name: "path is the marker itself", path: "docs", marker: "docs", want: 0},
		{name: "multi-segment marker", path: "site/docs/a/README.md", marker: "site/docs", want: 2},
		{name: "first marker occurrence wins", path: "docs/docs/README.md", marker: "docs", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := xref.Depth(tt.path, tt.marker); got != tt.want {
				t.Errorf("Depth(%q, %q) = %d, want %d", tt.path, tt.marker, got, tt.want)
			}
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc := xref.NewDocument("docs/standards/core/PRINCIPLES.md", "docs")
	if doc.Path != "docs/standards/core/PRINCIPLES.md" || doc.Depth != 3 {
		t.Errorf("NewDocument = %+v, want path preserved and depth 3", doc)
	}
}
