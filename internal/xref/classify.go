package xref

import (
	"regexp"
	"strings"
)

// Rule pairs a category with the pattern that selects it. Rules are evaluated
// in slice order and the first match wins.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
	// HomeLevel is the depth below the root at which the target lives.
	HomeLevel int
	// Target is the canonical filename (home level 0) or directory prefix
	// (home level 1) written into corrected paths.
	Target string
}

// Rules is the classification table in priority order.
var Rules = []Rule{
	{Category: Glossary, Pattern: regexp.MustCompile(`(?i)GLOSSARY\.md`), HomeLevel: 0, Target: "GLOSSARY.md"},
	{Category: Orchestrator, Pattern: regexp.MustCompile(`(?i)orchestrator/[^'"\s]+\.md`), HomeLevel: 1, Target: "orchestrator/"},
	{Category: Architecture, Pattern: regexp.MustCompile(`(?i)architecture/[^'"\s]+\.md`), HomeLevel: 1, Target: "architecture/"},
	{Category: StandardsCore, Pattern: regexp.MustCompile(`(?i)standards/core/[^\s]+\.md`), HomeLevel: 1, Target: "standards/core/"},
	{Category: DocumentationGuide, Pattern: regexp.MustCompile(`(?i)DOCUMENTATION_GUIDE\.md`), HomeLevel: 0, Target: "DOCUMENTATION_GUIDE.md"},
}

// schemeRE matches a URL scheme prefix such as "https:" or "mailto:".
var schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// Classify maps url to the first matching category, or Other. Only the path
// is matched; a "#fragment" or "?query" never selects a category.
func Classify(url string) Category {
	if r, ok := ruleFor(url); ok {
		return r.Category
	}
	return Other
}

// RuleOf returns the rule for category c. Other has no rule.
func RuleOf(c Category) (Rule, bool) {
	for _, r := range Rules {
		if r.Category == c {
			return r, true
		}
	}
	return Rule{}, false
}

func ruleFor(url string) (Rule, bool) {
	path, _ := splitSuffix(url)
	for _, r := range Rules {
		if r.Pattern.MatchString(path) {
			return r, true
		}
	}
	return Rule{}, false
}

// IsEligible reports whether url is a relative link that may be classified.
// Empty strings, in-page anchors, scheme URLs, protocol-relative URLs and
// root-absolute paths are not eligible.
func IsEligible(url string) bool {
	u := strings.TrimSpace(url)
	switch {
	case u == "":
		return false
	case strings.HasPrefix(u, "#"):
		return false
	case strings.HasPrefix(u, "/"), strings.HasPrefix(u, `\`):
		return false
	case schemeRE.MatchString(u):
		return false
	}
	return true
}
