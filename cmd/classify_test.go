package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/eykd/docxref/internal/xref"
)

func TestNewClassifyCmd(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   []string
		reject string
	}{
		{
			name: "glossary from deep document",
			args: []string{"../GLOSSARY.md", "--source", "docs/standards/core/PRINCIPLES.md"},
			want: []string{"category: GLOSSARY", "depth: 3", "corrected: ../../GLOSSARY.md (ADD_DEPTH, severity 2)"},
		},
		{
			name: "already correct",
			args: []string{"../GLOSSARY.md", "--source", "docs/README.md"},
			want: []string{"category: GLOSSARY", "corrected: ../GLOSSARY.md (unchanged)"},
		},
		{
			name: "standards core from orchestrator",
			args: []string{"standards/core/NAMING.md", "--source", "docs/orchestrator/README.md"},
			want: []string{"category: STANDARDS_CORE", "corrected: ../standards/core/NAMING.md"},
		},
		{
			name:   "external link",
			args:   []string{"https://example.com/GLOSSARY.md"},
			want:   []string{"category: OTHER", "not a relative link"},
			reject: "corrected:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pio := newMockProjectIO(nil)
			out, _, err := runCmd(NewClassifyCmd(pio), tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			if tt.reject != "" && strings.Contains(out, tt.reject) {
				t.Errorf("output should not contain %q:\n%s", tt.reject, out)
			}
		})
	}
}

func TestNewClassifyCmd_JSON(t *testing.T) {
	pio := newMockProjectIO(nil)
	out, _, err := runCmd(NewClassifyCmd(pio), "--json", "--source", "docs/orchestrator/LIFECYCLE.md", "orchestrator/README.md#states")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got classifyOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Category != xref.Orchestrator || got.Depth != 2 || !got.Changed ||
		got.Corrected != "../orchestrator/README.md#states" || got.FixType != xref.FixAddDepth {
		t.Errorf("output = %+v", got)
	}
}

func TestNewClassifyCmd_RequiresURL(t *testing.T) {
	if _, _, err := runCmd(NewClassifyCmd(newMockProjectIO(nil))); err == nil {
		t.Error("expected error without a URL argument")
	}
}
