// Package analysis implements the semantic analyzer (spec.md §4.F): a
// single post-order traversal of a parsed file's AST that declares
// symbols, resolves names, infers expression types, and emits semantic
// diagnostics into a fresh, immutable AnalysisResult.
package analysis

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// AnalysisResult is the immutable bundle spec.md §3 describes: parse
// output, AST root, symbol table, semantic diagnostics, and the two maps
// position services (internal/position) query against. Once returned from
// Analyze, nothing mutates it further — a re-analysis produces a brand new
// AnalysisResult and the workspace swaps the published pointer.
type AnalysisResult struct {
	URI     string
	Version int

	Parse *langsyntax.ParseResult
	Root  *ast.CompilationUnit

	Symbols     *symbols.SymbolTable
	Diagnostics []langsyntax.Diagnostic

	// NodeSymbols maps an identifier/member-access node to the symbol it
	// resolved to, per spec.md §4.F "Name resolution".
	NodeSymbols map[ast.Node]*symbols.Symbol

	// NodeTypes maps any expression node to its inferred type. Not named
	// explicitly in spec.md's AnalysisResult shape, but required to
	// implement §4.H hover's "for literals, render the inferred type"
	// without re-running inference at query time.
	NodeTypes map[ast.Node]symbols.TypeInfo

	// ScopeRanges maps each constructed scope's owner range to the scope
	// itself, per spec.md §3 "scopeRangeMap: Range -> innermost Scope".
	ScopeRanges map[source.Range]*symbols.Scope

	Done bool
}

func newResult(uri string, version int, parse *langsyntax.ParseResult) *AnalysisResult {
	return &AnalysisResult{
		URI:         uri,
		Version:     version,
		Parse:       parse,
		Root:        parse.Root,
		Diagnostics: append([]langsyntax.Diagnostic(nil), parse.Diagnostics...),
		NodeSymbols: make(map[ast.Node]*symbols.Symbol),
		NodeTypes:   make(map[ast.Node]symbols.TypeInfo),
		ScopeRanges: make(map[source.Range]*symbols.Scope),
	}
}

func (r *AnalysisResult) addDiagnostic(rng source.Range, severity langsyntax.Severity, message string) {
	r.Diagnostics = append(r.Diagnostics, langsyntax.Diagnostic{
		Range:    rng,
		Severity: severity,
		Message:  message,
		Source:   "semantic",
	})
}

func (r *AnalysisResult) recordScope(scope *symbols.Scope) {
	r.ScopeRanges[scope.Owner] = scope
}
