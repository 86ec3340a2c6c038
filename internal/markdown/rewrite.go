package markdown

import (
	"fmt"
	"sort"
)

// Serialize reconstructs the original source bytes from a Source.
// The output is byte-identical to the input passed to Parse for all valid inputs.
func Serialize(s *Source) []byte {
	buf := []byte{}
	if s.HasBOM {
		buf = append(buf, utf8BOM...)
	}
	for i, line := range s.Lines {
		buf = append(buf, line...)
		buf = append(buf, s.LineEnds[i]...)
	}
	return buf
}

// Rewrite applies edits to s and returns the resulting bytes. s is not
// modified. Every edit must name bytes that are actually present at its
// position, and edits on one line must not overlap; otherwise Rewrite fails
// without applying anything.
func Rewrite(s *Source, edits []Edit) ([]byte, error) {
	byLine := make(map[int][]Edit)
	for _, e := range edits {
		if e.Line < 1 || e.Line > len(s.Lines) {
			return nil, fmt.Errorf("edit line %d out of range", e.Line)
		}
		line := s.Lines[e.Line-1]
		start := e.URLColumn - 1
		if start < 0 || start+len(e.Old) > len(line) || line[start:start+len(e.Old)] != e.Old {
			return nil, fmt.Errorf("edit at %d:%d does not match %q", e.Line, e.URLColumn, e.Old)
		}
		byLine[e.Line] = append(byLine[e.Line], e)
	}

	lines := append([]string(nil), s.Lines...)
	for ln, es := range byLine {
		// Apply right to left so earlier columns stay valid.
		sort.Slice(es, func(i, j int) bool { return es[i].URLColumn > es[j].URLColumn })
		line := lines[ln-1]
		for i, e := range es {
			if i > 0 && e.URLColumn-1+len(e.Old) > es[i-1].URLColumn-1 {
				return nil, fmt.Errorf("overlapping edits on line %d", ln)
			}
			start := e.URLColumn - 1
			line = line[:start] + e.New + line[start+len(e.Old):]
		}
		lines[ln-1] = line
	}

	return Serialize(&Source{Lines: lines, LineEnds: s.LineEnds, HasBOM: s.HasBOM}), nil
}
