package xref

import "strings"

// Depth returns the nesting depth of path below the root marker segment.
// The marker directory itself counts as one level, so a file directly inside
// it has depth 1. The file name never counts. A path without the marker, or
// an empty marker, has depth 0.
func Depth(path, marker string) int {
	marker = strings.Trim(strings.ReplaceAll(marker, `\`, "/"), "/")
	if marker == "" {
		return 0
	}
	segments := splitSegments(path)
	markerSegs := splitSegments(marker)

	idx := indexSegments(segments, markerSegs)
	if idx < 0 {
		return 0
	}
	// Segments after the marker, minus the filename, plus the marker directory.
	after := len(segments) - (idx + len(markerSegs))
	if after < 1 {
		return 0
	}
	return after
}

// splitSegments splits a slash- or backslash-separated path into its
// non-empty, non-"." segments.
func splitSegments(path string) []string {
	raw := strings.Split(strings.ReplaceAll(path, `\`, "/"), "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" || s == "." {
			continue
		}
		segs = append(segs, s)
	}
	return segs
}

// indexSegments returns the index of the first occurrence of sub within segs,
// or -1.
func indexSegments(segs, sub []string) int {
	if len(sub) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(sub) <= len(segs); i++ {
		for j := range sub {
			if segs[i+j] != sub[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
