package xref

import "strings"

// MinimumHops is the fewest parent ascents a corrected path may carry.
const MinimumHops = 1

// Ascents returns the number of "../" segments a document at depth needs to
// reach a categorized target: depth-1, but never fewer than MinimumHops.
func Ascents(depth int) int {
	if depth > 1 {
		return depth - 1
	}
	return MinimumHops
}

// Synthesize returns the depth-correct form of url for a link of category cat
// found in doc. The second result is false when no correction applies: the
// category is Other, or url is already correct. A trailing "#fragment" or
// "?query" is carried over unchanged.
//
// Synthesize is idempotent: feeding a corrected path back in at the same
// depth returns it unchanged.
func Synthesize(cat Category, doc Document, url string) (string, bool) {
	rule, ok := RuleOf(cat)
	if !ok {
		return url, false
	}
	path, suffix := splitSuffix(url)
	loc := rule.Pattern.FindStringIndex(path)
	if loc == nil {
		// The path does not name the category's target.
		return url, false
	}
	prefix := strings.Repeat("../", Ascents(doc.Depth))

	var corrected string
	switch rule.HomeLevel {
	case 0:
		corrected = prefix + rule.Target + suffix
	default:
		remainder := path[loc[0]+len(rule.Target):]
		corrected = prefix + rule.Target + remainder + suffix
	}

	if corrected == url {
		return url, false
	}
	return corrected, true
}

// splitSuffix separates a "#fragment" or "?query" tail from a link path.
func splitSuffix(url string) (path, suffix string) {
	if i := strings.IndexAny(url, "#?"); i >= 0 {
		return url[:i], url[i:]
	}
	return url, ""
}

// leadingAscents counts the "../" segments at the start of p, skipping any
// "./" segments, and returns the count with the remaining body.
func leadingAscents(p string) (int, string) {
	n := 0
	for {
		switch {
		case strings.HasPrefix(p, "../"):
			n++
			p = p[3:]
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		default:
			return n, p
		}
	}
}
