package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langls/server/internal/source"
)

func TestBuiltinsPreseeded(t *testing.T) {
	table := NewSymbolTable(source.Range{})
	for _, name := range []string{"print", "type", "tostring", "tonumber", "ipairs", "pairs", "error", "assert"} {
		sym, ok := table.Global.ResolveLocally(name)
		require.Truef(t, ok, "builtin %q should be preseeded", name)
		assert.Equal(t, SymbolBuiltinFunction, sym.SymbolKind)
	}
}

func TestDefineRejectsDuplicate(t *testing.T) {
	s := NewBlockScope(nil, source.Range{})
	first := &Symbol{Name: "x", Type: Int}
	_, ok := s.Define(first)
	assert.True(t, ok)

	second := &Symbol{Name: "x", Type: String}
	prior, ok := s.Define(second)
	assert.False(t, ok)
	assert.Same(t, first, prior)
}

// TestShadowing is spec.md §8 invariant 4.
func TestShadowing(t *testing.T) {
	outer := NewBlockScope(nil, source.Range{})
	outer.Define(&Symbol{Name: "x", Type: Int})

	inner := NewBlockScope(outer, source.Range{})
	inner.Define(&Symbol{Name: "x", Type: String})

	sym, ok := inner.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, String, sym.Type)

	visible := inner.VisibleSymbols()
	count := 0
	for _, s := range visible {
		if s.Name == "x" {
			count++
			assert.Equal(t, String, s.Type)
		}
	}
	assert.Equal(t, 1, count, "shadowed name must appear exactly once")
}

func TestResolveLocallyDoesNotWalkParents(t *testing.T) {
	outer := NewBlockScope(nil, source.Range{})
	outer.Define(&Symbol{Name: "x", Type: Int})
	inner := NewBlockScope(outer, source.Range{})

	_, ok := inner.ResolveLocally("x")
	assert.False(t, ok)

	_, ok = inner.Resolve("x")
	assert.True(t, ok)
}

// TestScopeRangeMonotonicity is spec.md §8 invariant 3, at the
// scope-construction level (findScopeAtPosition itself lives in
// internal/position).
func TestScopeRangeMonotonicity(t *testing.T) {
	outer := NewBlockScope(nil, source.Range{
		Start: source.Position{Line: 1, Column: 1},
		End:   source.Position{Line: 10, Column: 1},
	})
	inner := NewBlockScope(outer, source.Range{
		Start: source.Position{Line: 3, Column: 1},
		End:   source.Position{Line: 5, Column: 1},
	})
	assert.True(t, outer.Owner.Start.LessEqual(inner.Owner.Start))
	assert.True(t, inner.Owner.End.LessEqual(outer.Owner.End))
}
