package langsyntax

import "strconv"

// parseIntLiteral and parseFloatLiteral tolerate a malformed numeral
// (should be unreachable given the lexer only emits digit runs) by
// returning the zero value rather than propagating a parse error — the
// lexer is the only producer of TokInt/TokFloat text, and it only ever
// emits valid digit sequences.
func parseIntLiteral(text string) int64 {
	v, _ := strconv.ParseInt(text, 10, 64)
	return v
}

func parseFloatLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}
