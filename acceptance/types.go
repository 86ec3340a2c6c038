// Package acceptance runs plain-text GIVEN/WHEN/THEN scenarios that pin down
// how links are classified and corrected.
//
// A scenario file looks like:
//
//	;===============================================================
//	; A glossary link from a core standard gains one ascent.
//	;===============================================================
//	GIVEN a document at "docs/standards/core/PRINCIPLES.md".
//	WHEN it links to "../GLOSSARY.md".
//	THEN the corrected link is "../../GLOSSARY.md".
//	AND the fix type is ADD_DEPTH.
//
// Lines starting with ";" that are not scenario headers are comments.
package acceptance

// Step is a single GIVEN, WHEN or THEN statement. An AND line takes the
// keyword of the step before it.
type Step struct {
	Keyword string
	Text    string   // statement without the keyword
	Args    []string // double-quoted values in Text, in order
	Line    int
}

// Scenario is a named sequence of steps.
type Scenario struct {
	Description string
	Steps       []Step
	Line        int // line of the description header
}

// Feature is a parsed scenario file.
type Feature struct {
	SourceFile string
	Scenarios  []Scenario
}
