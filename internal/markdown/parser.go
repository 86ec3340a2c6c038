package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// inlineLinkRE finds inline links anywhere in a line. Group 2 is the URL.
	inlineLinkRE = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s"]+)(?:\s+"[^"]*")?\s*\)`)
	// refDefRE matches a reference definition, indented at most three spaces.
	refDefRE = regexp.MustCompile(`^ {0,3}\[([^\]]+)\]:\s+(\S+)(?:\s+"([^"]*)")?`)
	// badgeLinkRE finds a link whose text is a single image, as in
	// [![alt](img.png)](url). Group 1 is the image, group 2 the outer URL.
	badgeLinkRE = regexp.MustCompile(`\[(!\[[^\]]*\]\([^)]*\))\]\(([^)\s"]+)(?:\s+"[^"]*")?\s*\)`)
	codeSpanRE  = regexp.MustCompile("`+[^`]*`+")
)

// Parse splits src into lines and collects the links outside fenced code
// blocks, inline code spans and the frontmatter block. Image links are
// skipped. Content that is not valid UTF-8 is rejected. A malformed
// frontmatter block is skipped and reported in Source.FrontmatterErr rather
// than failing the parse.
func Parse(src []byte) (*Source, error) {
	result := &Source{Links: []Link{}}

	if !utf8.Valid(src) {
		return result, fmt.Errorf("document contains invalid UTF-8 content")
	}
	if bytes.HasPrefix(src, []byte(utf8BOM)) {
		result.HasBOM = true
		src = src[len(utf8BOM):]
	}

	result.Lines, result.LineEnds = splitLines(src)

	fm, start, err := parseFrontmatterLines(result.Lines)
	result.Frontmatter = fm
	result.FrontmatterErr = err

	fence := ""
	for i := start; i < len(result.Lines); i++ {
		line := result.Lines[i]
		lineNum := i + 1

		if fence == "" {
			if marker := openFenceMarker(line); marker != "" {
				fence = marker
				continue
			}
		} else {
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}

		if m := refDefRE.FindStringSubmatchIndex(line); m != nil {
			result.Links = append(result.Links, Link{
				URL:       line[m[4]:m[5]],
				Text:      line[m[2]:m[3]],
				Kind:      KindReference,
				Line:      lineNum,
				Column:    m[2],
				URLColumn: m[4] + 1,
			})
			continue
		}

		result.Links = append(result.Links, inlineLinks(line, lineNum)...)
	}

	return result, nil
}

// inlineLinks returns the inline links of one line in column order. Badge
// links are matched first and blanked so the image inside them is not
// mistaken for the link.
func inlineLinks(line string, lineNum int) []Link {
	masked := maskCodeSpans(line)
	var links []Link
	for _, m := range badgeLinkRE.FindAllStringSubmatchIndex(masked, -1) {
		if m[0] > 0 && masked[m[0]-1] == '!' {
			continue
		}
		links = append(links, inlineLink(line, lineNum, m[0], m[2], m[3], m[4], m[5]))
		masked = masked[:m[0]] + strings.Repeat(" ", m[1]-m[0]) + masked[m[1]:]
	}
	for _, m := range inlineLinkRE.FindAllStringSubmatchIndex(masked, -1) {
		if m[0] > 0 && masked[m[0]-1] == '!' {
			continue
		}
		links = append(links, inlineLink(line, lineNum, m[0], m[2], m[3], m[4], m[5]))
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Column < links[j].Column })
	return links
}

// inlineLink builds a Link from byte offsets into line, unwrapping an
// <angle-bracketed> URL.
func inlineLink(line string, lineNum, start, textStart, textEnd, urlStart, urlEnd int) Link {
	url := line[urlStart:urlEnd]
	if strings.HasPrefix(url, "<") && strings.HasSuffix(url, ">") {
		url = url[1 : len(url)-1]
		urlStart++
	}
	return Link{
		URL:       url,
		Text:      line[textStart:textEnd],
		Kind:      KindInline,
		Line:      lineNum,
		Column:    start + 1,
		URLColumn: urlStart + 1,
	}
}

// maskCodeSpans blanks inline code spans so links inside them are not matched.
// Byte positions are preserved.
func maskCodeSpans(line string) string {
	if !strings.Contains(line, "`") {
		return line
	}
	return codeSpanRE.ReplaceAllStringFunc(line, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
}

// openFenceMarker returns the run of backticks or tildes that opens a fenced
// code block on line, or "" if line is not a fence opener. Up to three
// leading spaces are allowed and the run must be at least three long.
func openFenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := len(trimmed) - len(strings.TrimLeft(trimmed, string(c)))
	if n < 3 {
		return ""
	}
	return trimmed[:n]
}

// closesFence reports whether line closes a block opened with marker: a run
// of the same character at least as long, followed only by spaces.
func closesFence(line, marker string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	rest := strings.TrimLeft(trimmed, marker[:1])
	if len(trimmed)-len(rest) < len(marker) {
		return false
	}
	return strings.TrimSpace(rest) == ""
}

// splitLines splits src into lines and their corresponding line endings.
// Lines do not include the ending characters.
// A trailing newline does not produce an extra empty line.
func splitLines(src []byte) ([]string, []string) {
	if len(src) == 0 {
		return []string{}, []string{}
	}

	var lines []string
	var ends []string
	start := 0

	for i := 0; i < len(src); {
		switch src[i] {
		case '\n':
			lines = append(lines, string(src[start:i]))
			ends = append(ends, "\n")
			i++
			start = i
		case '\r':
			end := "\r"
			advance := 1
			if i+1 < len(src) && src[i+1] == '\n' {
				end = "\r\n"
				advance = 2
			}
			lines = append(lines, string(src[start:i]))
			ends = append(ends, end)
			i += advance
			start = i
		default:
			i++
		}
	}

	if start < len(src) {
		lines = append(lines, string(src[start:]))
		ends = append(ends, "")
	}

	return lines, ends
}
