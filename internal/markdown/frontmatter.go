package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the docxref settings a document may declare in its YAML
// front matter:
//
//	---
//	docxref:
//	  skip: true
//	---
//
// Other front matter keys are ignored.
type Frontmatter struct {
	Present bool `yaml:"-"`
	Docxref struct {
		// Skip excludes the document from analysis and fixing.
		Skip bool `yaml:"skip"`
	} `yaml:"docxref"`
}

// parseFrontmatterLines decodes a front matter block at the top of lines and
// returns the number of lines it spans. The closing "---" must appear
// unindented; "---" inside YAML block scalars is always indented, so this is
// unambiguous. Without a closing delimiter there is no front matter.
func parseFrontmatterLines(lines []string) (Frontmatter, int, error) {
	var fm Frontmatter
	if len(lines) == 0 || lines[0] != "---" {
		return fm, 0, nil
	}
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return fm, 0, nil
	}

	fm.Present = true
	yamlContent := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return Frontmatter{Present: true}, end + 1, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, end + 1, nil
}
