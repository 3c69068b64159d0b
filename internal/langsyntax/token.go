// Package langsyntax is the merged parser-adapter + AST-builder component
// (spec.md §4.B, §4.D). No concrete Lang grammar exists anywhere in the
// reference corpus and spec.md §1 places grammar definition explicitly out
// of scope, so this package owns a small hand-written tolerant lexer and
// recursive-descent parser that builds the internal/ast tree directly —
// there is no separate CST representation to hand off between a "B" and a
// "D" stage.
package langsyntax

// TokenKind enumerates the lexical token categories the parser consumes.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokFloat
	TokString
	TokKeyword
	TokPunct
	TokIllegal
)

// Token is one lexed unit; Line/Col are 1-based, matching
// internal/source.Position's convention. End* fields mark one past the
// token's last byte, so a Token's span is [Offset, EndOffset).
type Token struct {
	Kind      TokenKind
	Text      string
	Line      uint32
	Col       uint32
	Offset    uint32
	EndLine   uint32
	EndCol    uint32
	EndOffset uint32
}

var keywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true,
	"break": true, "continue": true, "return": true, "defer": true,
	"class": true, "import": true, "export": true, "from": true, "as": true,
	"new": true, "this": true, "let": true, "const": true, "static": true,
	"true": true, "false": true, "null": true, "type": true, "extends": true,
	"int": true, "float": true, "bool": true, "string": true, "any": true,
	"void": true, "number": true, "function": true, "coroutine": true,
}

// IsKeyword reports whether word is a reserved word.
func IsKeyword(word string) bool { return keywords[word] }
