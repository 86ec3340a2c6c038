// Package discover finds markdown documents under a documentation root.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"build":        {},
	"dist":         {},
}

// matcher applies gitignore patterns relative to base.
type matcher struct {
	gi   *ignore.GitIgnore
	base string
}

func (m matcher) matches(path string, isDir bool) bool {
	rel, err := filepath.Rel(m.base, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return m.gi.MatchesPath(rel)
}

// Documents returns the .md files under root as slash-separated paths that
// begin with root, sorted. Hidden files and directories, symlinks, and paths
// matched by root's .gitignore or by the extra gitignore-style patterns are
// skipped.
func Documents(root string, extraIgnore []string) ([]string, error) {
	return ProjectDocuments("", root, extraIgnore)
}

// ProjectDocuments is Documents for a root inside projectDir. The project's
// .gitignore applies as well, with its patterns relative to projectDir.
func ProjectDocuments(projectDir, root string, extraIgnore []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	var matchers []matcher
	if projectDir != "" && filepath.Clean(projectDir) != filepath.Clean(root) {
		if gi := loadGitignore(projectDir); gi != nil {
			matchers = append(matchers, matcher{gi: gi, base: projectDir})
		}
	}
	if gi := loadGitignore(root); gi != nil {
		matchers = append(matchers, matcher{gi: gi, base: root})
	}
	if len(extraIgnore) > 0 {
		matchers = append(matchers, matcher{gi: ignore.CompileIgnoreLines(extraIgnore...), base: root})
	}

	var results []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if ignored(matchers, path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		if ignored(matchers, path, false) {
			return nil
		}

		results = append(results, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

func ignored(matchers []matcher, path string, isDir bool) bool {
	for _, m := range matchers {
		if m.matches(path, isDir) {
			return true
		}
	}
	return false
}

func loadGitignore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
