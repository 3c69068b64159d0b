package lsp

import (
	"unicode/utf16"

	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
)

// toSourcePosition converts an LSP Position (0-based line, 0-based UTF-16
// code-unit character offset) into the core's 1-based byte Position, per
// spec.md §4.I "positions cross the wire as UTF-16; everywhere else in the
// system they are 1-based byte offsets". The character offset is resolved
// against the line's actual text so that any non-ASCII content before the
// cursor is counted in UTF-16 units, not bytes.
func toSourcePosition(file *source.File, p Position) source.Position {
	line := p.Line + 1
	lineText := file.Lines.GetLineText(line)
	byteCol := utf16ColumnToByte(lineText, p.Character)
	return source.Position{Line: line, Column: byteCol + 1}
}

// fromSourcePosition is the inverse of toSourcePosition.
func fromSourcePosition(file *source.File, p source.Position) Position {
	lineText := file.Lines.GetLineText(p.Line)
	byteCol := p.Column - 1
	if int(byteCol) > len(lineText) {
		byteCol = uint32(len(lineText))
	}
	char := byteColumnToUTF16(lineText, byteCol)
	return Position{Line: p.Line - 1, Character: char}
}

// utf16ColumnToByte walks line counting UTF-16 code units (2 for runes
// outside the BMP, 1 otherwise) until it has consumed target units, then
// returns the corresponding byte offset into line.
func utf16ColumnToByte(line string, target uint32) uint32 {
	var units uint32
	for i, r := range line {
		if units >= target {
			return uint32(i)
		}
		units += uint32(len(utf16.Encode([]rune{r})))
	}
	return uint32(len(line))
}

// byteColumnToUTF16 is the inverse of utf16ColumnToByte: counts UTF-16 code
// units for every rune fully before byteOffset.
func byteColumnToUTF16(line string, byteOffset uint32) uint32 {
	var units uint32
	for i, r := range line {
		if uint32(i) >= byteOffset {
			break
		}
		units += uint32(len(utf16.Encode([]rune{r})))
	}
	return units
}

func toSourceRange(file *source.File, r Range) source.Range {
	return source.Range{Start: toSourcePosition(file, r.Start), End: toSourcePosition(file, r.End)}
}

func fromSourceRange(file *source.File, r source.Range) Range {
	return Range{Start: fromSourcePosition(file, r.Start), End: fromSourcePosition(file, r.End)}
}

func toWireDiagnostic(file *source.File, d langsyntax.Diagnostic) Diagnostic {
	return Diagnostic{
		Range:    fromSourceRange(file, d.Range),
		Severity: int(d.Severity),
		Source:   d.Source,
		Message:  d.Message,
	}
}
