package position

import (
	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// FindScopeAt returns the smallest recorded scope whose owner Range
// contains pos, per spec.md §4.H's "findScopeAtPosition (smallest Range in
// ScopeRanges containing position)". Falls back to the module scope when
// no narrower scope contains pos (e.g. a position between top-level
// declarations).
func FindScopeAt(result *analysis.AnalysisResult, pos source.Position) *symbols.Scope {
	var best *symbols.Scope
	var bestSpan int64
	for rng, scope := range result.ScopeRanges {
		if !rng.Contains(pos) && !rng.ContainsInclusive(pos) {
			continue
		}
		span := rangeSpan(rng)
		if best == nil || span < bestSpan {
			best = scope
			bestSpan = span
		}
	}
	if best == nil {
		return result.Symbols.Module
	}
	return best
}

// rangeSpan gives a crude but consistent ordering over Ranges for
// smallest-wins comparison: line distance dominates, column is the
// tiebreaker within one line.
func rangeSpan(r source.Range) int64 {
	lineSpan := int64(r.End.Line) - int64(r.Start.Line)
	colSpan := int64(r.End.Column) - int64(r.Start.Column)
	return lineSpan*1_000_000 + colSpan
}

// VisibleSymbolsAt returns every symbol visible from pos, innermost scope's
// definitions shadowing outer ones, per spec.md §8 invariant 4. Delegates
// entirely to Scope.VisibleSymbols once the enclosing scope is found.
func VisibleSymbolsAt(result *analysis.AnalysisResult, pos source.Position) []*symbols.Symbol {
	scope := FindScopeAt(result, pos)
	return scope.VisibleSymbols()
}
