package langsyntax

import "github.com/langls/server/internal/ast"

// ParseResult is the merged CST/AST-builder output: a freshly allocated
// Arena owning every node, the tolerant AST root, and the syntax
// diagnostics collected along the way. It outlives the parse call — the
// analyzer (internal/analysis) walks Root directly.
type ParseResult struct {
	Arena       *ast.Arena
	Root        *ast.CompilationUnit
	Diagnostics []Diagnostic
}

// ParseFile drives the tolerant parser over one file's full text. It never
// panics and never returns an error: on malformed input Root still comes
// back non-nil, with Error/Missing nodes standing in for whatever could
// not be parsed, exactly per spec.md §4.B's "the adapter never throws on
// malformed input" contract.
func ParseFile(text string) *ParseResult {
	arena := ast.NewArena()
	root, diags := Parse(text, arena)
	return &ParseResult{Arena: arena, Root: root, Diagnostics: diags}
}
