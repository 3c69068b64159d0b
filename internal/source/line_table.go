package source

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// LineTable converts between byte offsets and 1-based (line, column)
// positions: position→offset is O(1) (line start plus column) and
// offset→position is O(log n) (binary search over line starts), per
// spec.md §4.A.
//
// lineStarts[i] holds the byte offset at which line i+1 begins (1-based
// lines, 0-based slice). lineStarts[0] is always 0.
type LineTable struct {
	text       string
	lineStarts []uint32
	digest     uint64
}

// Build scans text once and produces its LineTable, per spec.md §4.A:
// "build(text) scans once, pushing 0 and every byte index one past a
// line-terminator (\n, \r\n, lone \r)."
func Build(text string) *LineTable {
	lt := &LineTable{text: text, digest: xxhash.Sum64String(text)}
	lt.lineStarts = append(lt.lineStarts, 0)

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lt.lineStarts = append(lt.lineStarts, uint32(i+1))
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++ // consume the \n half of \r\n
			}
			lt.lineStarts = append(lt.lineStarts, uint32(i+1))
		}
	}
	return lt
}

// Text returns the source text the table was built from.
func (lt *LineTable) Text() string { return lt.text }

// Digest returns the xxhash of the source text, computed once by Build.
// The workspace cache does not consult it; cache entries are keyed by URI.
func (lt *LineTable) Digest() uint64 { return lt.digest }

// LineCount returns the number of lines in the source.
func (lt *LineTable) LineCount() int { return len(lt.lineStarts) }

// SourceLength returns len(text).
func (lt *LineTable) SourceLength() uint32 { return uint32(len(lt.text)) }

// GetOffset returns the 0-based byte offset for a 1-based (line,col)
// position, clamped to the line's end, per spec.md §4.A:
// "getOffset(line,col) returns lineStart[line-1] + (col-1), clamped to next
// line start or source length".
func (lt *LineTable) GetOffset(pos Position) uint32 {
	if pos.Line == 0 || int(pos.Line) > len(lt.lineStarts) {
		return lt.SourceLength()
	}
	lineStart := lt.lineStarts[pos.Line-1]
	var lineEnd uint32
	if int(pos.Line) < len(lt.lineStarts) {
		lineEnd = lt.lineStarts[pos.Line]
	} else {
		lineEnd = lt.SourceLength()
	}

	if pos.Column == 0 {
		return lineStart
	}
	offset := lineStart + (pos.Column - 1)
	if offset > lineEnd {
		return lineEnd
	}
	return offset
}

// GetPosition returns the 1-based (line,col) position for a 0-based byte
// offset, per spec.md §4.A: "getPosition(offset) binary-searches for the
// largest lineStart <= offset and returns (lineIndex+1, offset-lineStart+1)."
func (lt *LineTable) GetPosition(offset uint32) Position {
	if offset > lt.SourceLength() {
		offset = lt.SourceLength()
	}

	// sort.Search finds the first index i such that lineStarts[i] > offset;
	// the line containing offset is the one before it.
	idx := sort.Search(len(lt.lineStarts), func(i int) bool {
		return lt.lineStarts[i] > offset
	})
	lineIdx := idx - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := lt.lineStarts[lineIdx]
	return Position{Line: uint32(lineIdx + 1), Column: offset - lineStart + 1}
}

// GetLineStartOffset returns the 0-based offset of the start of a 1-based
// line number.
func (lt *LineTable) GetLineStartOffset(line uint32) uint32 {
	if line == 0 || int(line) > len(lt.lineStarts) {
		return lt.SourceLength()
	}
	return lt.lineStarts[line-1]
}

// GetLineEndOffset returns the 0-based offset of a line's end, with
// trailing \r and/or \n stripped, per spec.md §4.A.
func (lt *LineTable) GetLineEndOffset(line uint32) uint32 {
	if line == 0 || int(line) > len(lt.lineStarts) {
		return lt.SourceLength()
	}

	var end uint32
	if int(line) < len(lt.lineStarts) {
		end = lt.lineStarts[line]
	} else {
		return lt.SourceLength()
	}

	if end > 0 && end <= lt.SourceLength() && lt.text[end-1] == '\n' {
		end--
	}
	if end > 0 && end <= lt.SourceLength() && lt.text[end-1] == '\r' {
		end--
	}
	return end
}

// GetLineLength returns the byte length of a line, excluding its terminator.
func (lt *LineTable) GetLineLength(line uint32) uint32 {
	if line == 0 || int(line) > len(lt.lineStarts) {
		return 0
	}
	return lt.GetLineEndOffset(line) - lt.GetLineStartOffset(line)
}

// GetLineText extracts a single line's text (without its terminator).
func (lt *LineTable) GetLineText(line uint32) string {
	if line == 0 || int(line) > len(lt.lineStarts) {
		return ""
	}
	start := lt.GetLineStartOffset(line)
	end := lt.GetLineEndOffset(line)
	if int(start) > len(lt.text) {
		return ""
	}
	if int(end) > len(lt.text) {
		end = uint32(len(lt.text))
	}
	return lt.text[start:end]
}

// IsLineStart reports whether offset is exactly the start of some line.
func (lt *LineTable) IsLineStart(offset uint32) bool {
	idx := sort.Search(len(lt.lineStarts), func(i int) bool {
		return lt.lineStarts[i] >= offset
	})
	return idx < len(lt.lineStarts) && lt.lineStarts[idx] == offset
}

// RangeText extracts the text spanned by a Range.
func (lt *LineTable) RangeText(r Range) string {
	start := lt.GetOffset(r.Start)
	end := lt.GetOffset(r.End)
	if start > end {
		start, end = end, start
	}
	if int(end) > len(lt.text) {
		end = uint32(len(lt.text))
	}
	return lt.text[start:end]
}
