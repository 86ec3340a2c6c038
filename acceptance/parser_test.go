package acceptance

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_SingleScenario(t *testing.T) {
	content := `;===============================================================
; A glossary link from a core standard gains one ascent.
;===============================================================
GIVEN a document at "docs/standards/core/PRINCIPLES.md".

WHEN it links to "../GLOSSARY.md".

THEN the corrected link is "../../GLOSSARY.md".
AND the fix type is ADD_DEPTH.
`
	feature, err := Parse(content, "testdata/glossary.txt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if feature.SourceFile != "testdata/glossary.txt" {
		t.Errorf("SourceFile = %q", feature.SourceFile)
	}
	if len(feature.Scenarios) != 1 {
		t.Fatalf("len(Scenarios) = %d, want 1", len(feature.Scenarios))
	}

	sc := feature.Scenarios[0]
	if sc.Description != "A glossary link from a core standard gains one ascent." || sc.Line != 2 {
		t.Errorf("scenario header = %q at line %d", sc.Description, sc.Line)
	}
	want := []Step{
		{Keyword: "GIVEN", Text: `a document at "docs/standards/core/PRINCIPLES.md".`, Args: []string{"docs/standards/core/PRINCIPLES.md"}, Line: 4},
		{Keyword: "WHEN", Text: `it links to "../GLOSSARY.md".`, Args: []string{"../GLOSSARY.md"}, Line: 6},
		{Keyword: "THEN", Text: `the corrected link is "../../GLOSSARY.md".`, Args: []string{"../../GLOSSARY.md"}, Line: 8},
		{Keyword: "THEN", Text: "the fix type is ADD_DEPTH.", Line: 9},
	}
	if !reflect.DeepEqual(sc.Steps, want) {
		t.Errorf("Steps =\n%+v\nwant\n%+v", sc.Steps, want)
	}
}

func TestParse_Structure(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		scenarios int
		steps     []int
		descs     []string
	}{
		{
			name:      "empty",
			content:   "",
			scenarios: 0,
		},
		{
			name:      "only comments",
			content:   "; notes\n; more notes\n",
			scenarios: 0,
		},
		{
			name: "two scenarios",
			content: ";====\n; First.\n;====\nGIVEN a document at \"docs/A.md\".\nWHEN it links to \"GLOSSARY.md\".\n" +
				";====\n; Second.\n;====\nGIVEN a document at \"docs/B.md\".\n",
			scenarios: 2,
			steps:     []int{2, 1},
			descs:     []string{"First.", "Second."},
		},
		{
			name:      "comments between steps",
			content:   ";====\n; Commented.\n;====\n; setup\nGIVEN a document at \"docs/A.md\".\n\n; act\nWHEN it links to \"x.md\".\n",
			scenarios: 1,
			steps:     []int{2},
			descs:     []string{"Commented."},
		},
		{
			name:      "steps without header",
			content:   "GIVEN a document at \"docs/A.md\".\nWHEN it links to \"x.md\".\nTHEN the link is unchanged.\n",
			scenarios: 1,
			steps:     []int{3},
			descs:     []string{""},
		},
		{
			name:      "windows line endings",
			content:   ";====\r\n;   Padded.\r\n;====\r\nGIVEN   a document at \"docs/A.md\".\r\n",
			scenarios: 1,
			steps:     []int{1},
			descs:     []string{"Padded."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feature, err := Parse(tt.content, "test.txt")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(feature.Scenarios) != tt.scenarios {
				t.Fatalf("len(Scenarios) = %d, want %d", len(feature.Scenarios), tt.scenarios)
			}
			for i, sc := range feature.Scenarios {
				if len(sc.Steps) != tt.steps[i] {
					t.Errorf("Scenarios[%d] has %d steps, want %d", i, len(sc.Steps), tt.steps[i])
				}
				if sc.Description != tt.descs[i] {
					t.Errorf("Scenarios[%d].Description = %q, want %q", i, sc.Description, tt.descs[i])
				}
				for _, st := range sc.Steps {
					if strings.HasPrefix(st.Text, " ") || strings.HasSuffix(st.Text, "\r") {
						t.Errorf("step text not trimmed: %q", st.Text)
					}
				}
			}
		})
	}
}

func TestParse_AndTakesPreviousKeyword(t *testing.T) {
	content := "GIVEN the root marker \"site\".\nAND a document at \"site/A.md\".\nWHEN it links to \"x.md\".\nTHEN the depth is 1.\nAND the link is unchanged.\n"
	feature, err := Parse(content, "test.txt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var got []string
	for _, st := range feature.Scenarios[0].Steps {
		got = append(got, st.Keyword)
	}
	want := []string{"GIVEN", "GIVEN", "WHEN", "THEN", "THEN"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keywords = %v, want %v", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"leading AND", "AND the depth is 1.\n", "test.txt:1: AND without a preceding step"},
		{"unknown line", "GIVEN a document at \"docs/A.md\".\nGIVENS nothing\n", "test.txt:2: expected GIVEN"},
		{"lowercase keyword", "given a document.\n", "test.txt:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content, "test.txt")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestIsSeparatorLine(t *testing.T) {
	tests := map[string]bool{
		";====":           true,
		"  ;=;=  ":        true,
		";":               false,
		"; A description": false,
		"":                false,
		"GIVEN x":         false,
	}
	for line, want := range tests {
		if got := isSeparatorLine(line); got != want {
			t.Errorf("isSeparatorLine(%q) = %v, want %v", line, got, want)
		}
	}
}
