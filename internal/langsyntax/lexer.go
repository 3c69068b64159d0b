package langsyntax

import "strings"

// lexer scans Lang source into a flat token slice ahead of parsing, the
// same two-pass shape the teacher's extraction pipeline uses for other
// languages' token streams. A tolerant lexer never stops at an illegal
// byte — it emits a TokIllegal token for it and keeps scanning, so the
// parser always gets an EOF-terminated stream to recover against.
type lexer struct {
	src  string
	pos  int
	line uint32
	col  uint32
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

var punctuation = []string{
	"->", "==", "!=", "<=", ">=", "&&", "||", "..",
	"+", "-", "*", "/", "%", "<", ">", "!", "=",
	"(", ")", "{", "}", "[", "]", ",", ";", ":", ".", "#", "|",
}

// tokenize scans the whole source up front; lexing never fails, it only
// ever produces TokIllegal tokens for bytes it cannot classify.
func tokenize(src string) []Token {
	l := newLexer(src)
	var toks []Token
	for {
		l.skipTrivia()
		if l.pos >= len(l.src) {
			toks = append(toks, Token{Kind: TokEOF, Line: l.line, Col: l.col, Offset: uint32(l.pos)})
			return toks
		}

		startLine, startCol, startOff := l.line, l.col, uint32(l.pos)
		c := l.peekByte()

		switch {
		case isIdentStart(c):
			text := l.scanIdent()
			kind := TokIdent
			if IsKeyword(text) {
				kind = TokKeyword
			}
			toks = append(toks, l.stamp(kind, text, startLine, startCol, startOff))

		case isDigit(c):
			text, isFloat := l.scanNumber()
			kind := TokInt
			if isFloat {
				kind = TokFloat
			}
			toks = append(toks, l.stamp(kind, text, startLine, startCol, startOff))

		case c == '"':
			text := l.scanString()
			toks = append(toks, l.stamp(TokString, text, startLine, startCol, startOff))

		default:
			if p, ok := l.scanPunct(); ok {
				toks = append(toks, l.stamp(TokPunct, p, startLine, startCol, startOff))
			} else {
				l.advance()
				toks = append(toks, l.stamp(TokIllegal, string(c), startLine, startCol, startOff))
			}
		}
	}
}

func (l *lexer) stamp(kind TokenKind, text string, startLine, startCol uint32, startOff uint32) Token {
	return Token{
		Kind: kind, Text: text,
		Line: startLine, Col: startCol, Offset: startOff,
		EndLine: l.line, EndCol: l.col, EndOffset: uint32(l.pos),
	}
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *lexer) scanIdent() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		l.advance()
	}
	return l.src[start:l.pos]
}

func (l *lexer) scanNumber() (string, bool) {
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) && isDigit(l.peekByte()) {
		l.advance()
	}
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		isFloat = true
		l.advance()
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	return l.src[start:l.pos], isFloat
}

// scanString unescapes a double-quoted literal; an unterminated string
// simply runs to end-of-input rather than erroring the whole lex pass —
// the resulting text is still returned, and no diagnostic is reported for
// the missing closing quote.
func (l *lexer) scanString() string {
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) && l.peekByte() != '"' {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(c)
	}
	if l.pos < len(l.src) {
		l.advance() // closing quote
	}
	return sb.String()
}

func (l *lexer) scanPunct() (string, bool) {
	for _, p := range punctuation {
		if strings.HasPrefix(l.src[l.pos:], p) {
			for range p {
				l.advance()
			}
			return p, true
		}
	}
	return "", false
}
