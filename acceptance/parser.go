package acceptance

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var quotedRE = regexp.MustCompile(`"([^"]*)"`)

// isSeparatorLine reports whether line is a run of ';' and '=' holding at
// least one '='.
func isSeparatorLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.Contains(trimmed, "=") && strings.Trim(trimmed, ";=") == ""
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, ";") && !isSeparatorLine(trimmed)
}

// splitKeyword returns the leading keyword of line and the remaining text.
func splitKeyword(line string) (keyword, text string) {
	trimmed := strings.TrimSpace(line)
	for _, kw := range []string{"GIVEN", "WHEN", "THEN", "AND"} {
		if rest, ok := strings.CutPrefix(trimmed, kw); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			return kw, strings.TrimSpace(rest)
		}
	}
	return "", ""
}

// Parse reads scenarios from content. Steps before the first header form an
// unnamed scenario. A line that is neither blank, a comment, a header nor a
// step is an error, as is an AND with no step before it.
func Parse(content, sourcePath string) (*Feature, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	feature := &Feature{SourceFile: sourcePath}

	inHeader := false
	for i, line := range lines {
		lineNum := i + 1
		switch {
		case isSeparatorLine(line):
			inHeader = !inHeader
			continue
		case inHeader && isCommentLine(line):
			desc := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ";"))
			feature.Scenarios = append(feature.Scenarios, Scenario{Description: desc, Line: lineNum})
			continue
		case isCommentLine(line), strings.TrimSpace(line) == "":
			continue
		}

		keyword, text := splitKeyword(line)
		if keyword == "" {
			return nil, fmt.Errorf("%s:%d: expected GIVEN, WHEN, THEN or AND", sourcePath, lineNum)
		}
		if len(feature.Scenarios) == 0 {
			feature.Scenarios = append(feature.Scenarios, Scenario{})
		}
		sc := &feature.Scenarios[len(feature.Scenarios)-1]
		if keyword == "AND" {
			if len(sc.Steps) == 0 {
				return nil, fmt.Errorf("%s:%d: AND without a preceding step", sourcePath, lineNum)
			}
			keyword = sc.Steps[len(sc.Steps)-1].Keyword
		}
		var args []string
		for _, m := range quotedRE.FindAllStringSubmatch(text, -1) {
			args = append(args, m[1])
		}
		sc.Steps = append(sc.Steps, Step{Keyword: keyword, Text: text, Args: args, Line: lineNum})
	}

	return feature, nil
}

// ParseFileImpl reads and parses the scenario file at path.
// This is an Impl function exempt from coverage requirements.
func ParseFileImpl(path string) (*Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), path)
}
