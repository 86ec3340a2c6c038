package xref

import (
	"path"
	"sort"
	"strings"
)

// MaxSeverity is the ceiling of the severity scale.
const MaxSeverity = 5

// baseSeverity weights each category; mistakes against core standards hurt most.
var baseSeverity = map[Category]int{
	Glossary:           1,
	DocumentationGuide: 2,
	Orchestrator:       2,
	Architecture:       3,
	StandardsCore:      4,
	Other:              1,
}

// Severity scores a violation of category cat in a document at depth,
// from 1 to MaxSeverity. Deeper documents score higher.
func Severity(cat Category, depth int) int {
	if depth < 0 {
		depth = 0
	}
	s := baseSeverity[cat] + depth/2
	if s > MaxSeverity {
		return MaxSeverity
	}
	if s < 1 {
		return 1
	}
	return s
}

// Stats holds grouped violation counts.
type Stats struct {
	// ByCategory has an entry for every category, including zero counts.
	ByCategory   map[Category]int `json:"byCategory"`
	ByDirectory  map[string]int   `json:"byDirectory"`
	ByTargetFile map[string]int   `json:"byTargetFile"`
	Total        int              `json:"total"`
}

// CategoryCount is one entry of a frequency ranking.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Aggregator tallies violations. It is not safe for concurrent use; callers
// running documents in parallel add results after merging them.
type Aggregator struct {
	stats     Stats
	firstSeen []Category
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	byCat := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		byCat[c] = 0
	}
	return &Aggregator{stats: Stats{
		ByCategory:   byCat,
		ByDirectory:  make(map[string]int),
		ByTargetFile: make(map[string]int),
	}}
}

// Add tallies v by category, source directory and target file name.
func (a *Aggregator) Add(v Violation) {
	if a.stats.ByCategory[v.Category] == 0 {
		a.firstSeen = append(a.firstSeen, v.Category)
	}
	a.stats.ByCategory[v.Category]++
	a.stats.ByDirectory[sourceDir(v.Link.Source.Path)]++

	target := v.TargetPath
	if target == "" {
		target = v.CorrectedPath
	}
	if name := targetFileName(target); name != "" {
		a.stats.ByTargetFile[name]++
	}
	a.stats.Total++
}

// Stats returns a copy of the current tallies.
func (a *Aggregator) Stats() Stats {
	out := Stats{
		ByCategory:   make(map[Category]int, len(a.stats.ByCategory)),
		ByDirectory:  make(map[string]int, len(a.stats.ByDirectory)),
		ByTargetFile: make(map[string]int, len(a.stats.ByTargetFile)),
		Total:        a.stats.Total,
	}
	for k, v := range a.stats.ByCategory {
		out.ByCategory[k] = v
	}
	for k, v := range a.stats.ByDirectory {
		out.ByDirectory[k] = v
	}
	for k, v := range a.stats.ByTargetFile {
		out.ByTargetFile[k] = v
	}
	return out
}

// TopCategories ranks categories by descending count and returns at most n.
// Ties keep the order in which categories were first seen; categories never
// seen follow in classification order. n <= 0 returns every category.
func (a *Aggregator) TopCategories(n int) []CategoryCount {
	order := append([]Category(nil), a.firstSeen...)
	for _, c := range Categories {
		if a.stats.ByCategory[c] == 0 {
			order = append(order, c)
		}
	}
	ranked := make([]CategoryCount, len(order))
	for i, c := range order {
		ranked[i] = CategoryCount{Category: c, Count: a.stats.ByCategory[c]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// sourceDir returns every segment of p but the last.
func sourceDir(p string) string {
	segs := strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
	return strings.Join(segs[:len(segs)-1], "/")
}

func targetFileName(p string) string {
	p, _ = splitSuffix(p)
	if p == "" {
		return ""
	}
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
