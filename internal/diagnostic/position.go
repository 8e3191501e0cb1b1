package diagnostic

import "sort"

// LineIndex provides byte offset to line/column conversion.
// It pre-computes line start positions for O(log n) lookups.
type LineIndex struct {
	source     string
	lineStarts []int // byte offset of each line start
}

// NewLineIndex creates a LineIndex for the given source.
func NewLineIndex(source string) *LineIndex {
	idx := &LineIndex{
		source:     source,
		lineStarts: []int{0},
	}

	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			idx.addLineStart(i + 1)
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			idx.addLineStart(i + 1)
		}
	}

	return idx
}

func (idx *LineIndex) addLineStart(offset int) {
	if offset < len(idx.source) {
		idx.lineStarts = append(idx.lineStarts, offset)
	}
}

// LineCount returns the number of lines in the source.
func (idx *LineIndex) LineCount() int {
	return len(idx.lineStarts)
}

// Position converts a byte offset to a 1-based Position. Offsets outside
// the source are clamped.
func (idx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.source) {
		offset = len(idx.source)
	}

	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}

	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - idx.lineStarts[line] + 1,
	}
}

// Line returns the text of the given 1-based line without its terminator.
func (idx *LineIndex) Line(line int) string {
	if line < 1 || line > len(idx.lineStarts) {
		return ""
	}
	start := idx.lineStarts[line-1]
	end := len(idx.source)
	if line < len(idx.lineStarts) {
		end = idx.lineStarts[line]
	}
	text := idx.source[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return text
}
