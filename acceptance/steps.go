package acceptance

import (
	"fmt"
	"path"
	"regexp"
	"strconv"

	"github.com/eykd/docxref/internal/xref"
)

// DefaultRootMarker is the marker used when a scenario does not name one.
const DefaultRootMarker = "docs"

// world is the state one scenario builds up as its steps run.
type world struct {
	marker string
	doc    string
	files  map[string]bool

	linked bool
	record xref.Record
}

// Stat implements xref.FileChecker over the files declared by the scenario.
func (w *world) Stat(p string) (bool, error) {
	return w.files[path.Clean(p)], nil
}

type stepFunc func(w *world, m []string) error

type stepDef struct {
	keyword string
	re      *regexp.Regexp
	fn      stepFunc
}

var stepDefs = []stepDef{
	{"GIVEN", regexp.MustCompile(`^the root marker "([^"]*)"\.?$`), func(w *world, m []string) error {
		w.marker = m[1]
		return nil
	}},
	{"GIVEN", regexp.MustCompile(`^a document at "([^"]+)"\.?$`), func(w *world, m []string) error {
		w.doc = m[1]
		return nil
	}},
	{"GIVEN", regexp.MustCompile(`^the file "([^"]+)" exists\.?$`), func(w *world, m []string) error {
		w.files[path.Clean(m[1])] = true
		return nil
	}},
	{"WHEN", regexp.MustCompile(`^it links to "([^"]*)"\.?$`), func(w *world, m []string) error {
		if w.doc == "" {
			return fmt.Errorf("no document given")
		}
		w.record = xref.CorrectOne(xref.Item{URL: m[1], Source: xref.NewDocument(w.doc, w.marker)})
		w.linked = true
		return nil
	}},
	{"THEN", regexp.MustCompile(`^the link is not eligible\.?$`), func(w *world, _ []string) error {
		if xref.IsEligible(w.record.Item.URL) {
			return fmt.Errorf("%q is eligible", w.record.Item.URL)
		}
		return expectString("corrected link", w.record.Corrected, w.record.Item.URL)
	}},
	{"THEN", regexp.MustCompile(`^the category is ([A-Z_]+)\.?$`), func(w *world, m []string) error {
		want, err := xref.ParseCategory(m[1])
		if err != nil {
			return err
		}
		return expectString("category", w.record.Category.String(), want.String())
	}},
	{"THEN", regexp.MustCompile(`^the depth is (\d+)\.?$`), func(w *world, m []string) error {
		return expectInt("depth", w.record.Item.Source.Depth, m[1])
	}},
	{"THEN", regexp.MustCompile(`^the corrected link is "([^"]*)"\.?$`), func(w *world, m []string) error {
		if !w.record.Solved {
			return fmt.Errorf("link %q was left unchanged", w.record.Item.URL)
		}
		return expectString("corrected link", w.record.Corrected, m[1])
	}},
	{"THEN", regexp.MustCompile(`^the link is unchanged\.?$`), func(w *world, _ []string) error {
		if w.record.Solved {
			return fmt.Errorf("link %q was corrected to %q", w.record.Item.URL, w.record.Corrected)
		}
		return nil
	}},
	{"THEN", regexp.MustCompile(`^the fix type is ([A-Z_]+)\.?$`), func(w *world, m []string) error {
		got := xref.FixTypeOf(w.record.Item.URL, w.record.Corrected)
		return expectString("fix type", string(got), m[1])
	}},
	{"THEN", regexp.MustCompile(`^the severity is (\d+)\.?$`), func(w *world, m []string) error {
		return expectInt("severity", xref.Severity(w.record.Category, w.record.Item.Source.Depth), m[1])
	}},
	{"THEN", regexp.MustCompile(`^the corrected target (exists|is missing)\.?$`), func(w *world, m []string) error {
		v, err := xref.NewValidator(w, 0)
		if err != nil {
			return err
		}
		res := v.Validate(w.record.Corrected, path.Dir(w.doc))
		if res.Exists != (m[1] == "exists") {
			return fmt.Errorf("%s: exists = %v", res.Path, res.Exists)
		}
		return nil
	}},
	{"THEN", regexp.MustCompile(`^"([^"]+)" is suggested\.?$`), func(w *world, m []string) error {
		v, err := xref.NewValidator(w, 0)
		if err != nil {
			return err
		}
		res := v.Validate(w.record.Corrected, path.Dir(w.doc))
		for _, s := range res.Suggestions {
			if s.Candidate == m[1] && s.Exists {
				return nil
			}
		}
		return fmt.Errorf("no existing suggestion %q in %+v", m[1], res.Suggestions)
	}},
}

func expectString(what, got, want string) error {
	if got != want {
		return fmt.Errorf("%s = %q, want %q", what, got, want)
	}
	return nil
}

func expectInt(what string, got int, want string) error {
	n, err := strconv.Atoi(want)
	if err != nil {
		return err
	}
	if got != n {
		return fmt.Errorf("%s = %d, want %d", what, got, n)
	}
	return nil
}

// Run executes the steps of sc in order and returns the first failure,
// prefixed with the step's line number. A THEN before any WHEN is an error.
func Run(sc Scenario) error {
	w := &world{marker: DefaultRootMarker, files: make(map[string]bool)}
	for _, st := range sc.Steps {
		def, m := matchStep(st)
		if def == nil {
			return fmt.Errorf("line %d: no step matches %s %q", st.Line, st.Keyword, st.Text)
		}
		if def.keyword == "THEN" && !w.linked {
			return fmt.Errorf("line %d: THEN before WHEN", st.Line)
		}
		if err := def.fn(w, m); err != nil {
			return fmt.Errorf("line %d: %s %s: %w", st.Line, st.Keyword, st.Text, err)
		}
	}
	return nil
}

func matchStep(st Step) (*stepDef, []string) {
	for i := range stepDefs {
		d := &stepDefs[i]
		if d.keyword != st.Keyword {
			continue
		}
		if m := d.re.FindStringSubmatch(st.Text); m != nil {
			return d, m
		}
	}
	return nil, nil
}
