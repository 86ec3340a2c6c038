package xref

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FileChecker reports whether a path names a regular file.
type FileChecker interface {
	Stat(path string) (isFile bool, err error)
}

// OSFileChecker implements FileChecker with os.Stat.
type OSFileChecker struct{}

// Stat reports whether path exists and is a regular file.
func (OSFileChecker) Stat(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Validator resolves candidate paths against a base directory. Existence
// results are memoized in a bounded LRU keyed by the resolved path; a
// Validator is safe for concurrent use.
type Validator struct {
	checker FileChecker
	cache   *lru.Cache[string, bool]
}

// NewValidator returns a Validator using checker. A cacheSize of zero or less
// disables memoization.
func NewValidator(checker FileChecker, cacheSize int) (*Validator, error) {
	if checker == nil {
		checker = OSFileChecker{}
	}
	v := &Validator{checker: checker}
	if cacheSize > 0 {
		c, err := lru.New[string, bool](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating validation cache: %w", err)
		}
		v.cache = c
	}
	return v, nil
}

// Validate joins candidate onto baseDir and checks that the result is a
// regular file. Missing targets carry fallback suggestions, led by the
// original candidate. Filesystem errors count as "does not exist".
func (v *Validator) Validate(candidate, baseDir string) ValidationResult {
	full := resolve(candidate, baseDir)
	exists := v.exists(full)
	res := ValidationResult{
		Candidate:  candidate,
		Path:       full,
		Exists:     exists,
		Confidence: ConfidenceMissing,
	}
	if exists {
		res.Confidence = ConfidenceExists
		return res
	}

	res.Suggestions = []Suggestion{{Candidate: candidate, Confidence: ConfidenceMissing}}
	for _, alt := range alternatives(candidate) {
		res.Suggestions = append(res.Suggestions, Suggestion{
			Candidate:  alt,
			Confidence: ConfidenceSuggestion,
			Exists:     v.exists(resolve(alt, baseDir)),
		})
	}
	return res
}

// Exists reports whether candidate resolves to a regular file under baseDir.
func (v *Validator) Exists(candidate, baseDir string) bool {
	return v.exists(resolve(candidate, baseDir))
}

func (v *Validator) exists(full string) bool {
	if v.cache != nil {
		if ok, hit := v.cache.Get(full); hit {
			return ok
		}
	}
	isFile, err := v.checker.Stat(filepath.FromSlash(full))
	ok := err == nil && isFile
	if v.cache != nil {
		v.cache.Add(full, ok)
	}
	return ok
}

// resolve joins the path portion of candidate onto baseDir and returns it
// with forward slashes.
func resolve(candidate, baseDir string) string {
	p, _ := splitSuffix(candidate)
	p = strings.ReplaceAll(p, `\`, "/")
	return filepath.ToSlash(filepath.Join(filepath.FromSlash(baseDir), filepath.FromSlash(p)))
}

// alternatives produces fallback candidates for a missing path: one more
// ascent, one fewer ascent, all ascents stripped, and a single ascent. The
// original candidate and duplicates are omitted.
func alternatives(candidate string) []string {
	p, suffix := splitSuffix(candidate)
	n, body := leadingAscents(strings.ReplaceAll(p, `\`, "/"))
	if body == "" {
		return nil
	}

	variants := []string{strings.Repeat("../", n+1) + body}
	if n >= 1 {
		variants = append(variants, strings.Repeat("../", n-1)+body)
	}
	variants = append(variants, body, "../"+body)

	seen := map[string]bool{candidate: true}
	var out []string
	for _, v := range variants {
		v += suffix
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
