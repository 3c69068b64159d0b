package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

func analyze(t *testing.T, src string) (*analysis.AnalysisResult, *source.File) {
	t.Helper()
	parse := langsyntax.ParseFile(src)
	result := analysis.Analyze("file:///test.lang", 1, parse, nil)
	file := source.NewFile("file:///test.lang", "/test.lang", src, 1)
	return result, file
}

// posAt converts a byte offset in src to the source.Position FindNodeAt
// expects, using the same LineTable the rest of the system relies on.
func posAt(file *source.File, offset int) source.Position {
	return file.Lines.GetPosition(uint32(offset))
}

func TestFindNodeAtLocatesIdentifier(t *testing.T) {
	src := `int x = 1; x;`
	result, file := analyze(t, src)

	offset := len(`int x = 1; `) // points at the bare "x;" reference
	ctx, ok := FindNodeAt(result.Root, posAt(file, offset))
	require.True(t, ok)

	ident, ok := ctx.Node.(*ast.Identifier)
	require.True(t, ok, "expected *ast.Identifier, got %T", ctx.Node)
	assert.Equal(t, symbols.Int, result.NodeTypes[ident])

	_, hasCU := FindAncestor[*ast.CompilationUnit](ctx)
	assert.True(t, hasCU)
}

func TestClassifyCompletionDetectsDotAccess(t *testing.T) {
	src := `class P { int hp; } P p = new P(); p.`
	result, file := analyze(t, src)

	offset := len(src) // cursor right after the trailing dot
	cctx := ClassifyCompletion(result.Root, posAt(file, offset))
	assert.Equal(t, TriggerDotAccess, cctx.Trigger)
	require.NotNil(t, cctx.BaseExpr)
}

func TestClassifyCompletionDetectsArgumentPosition(t *testing.T) {
	src := `int add(int a, int b) { return a + b; } add(1, `
	result, file := analyze(t, src)

	offset := len(src)
	cctx := ClassifyCompletion(result.Root, posAt(file, offset))
	assert.Equal(t, TriggerArgument, cctx.Trigger)
}

func TestVisibleSymbolsAtShadowsOuterScope(t *testing.T) {
	src := `int x = 1; function f() { int x = 2; x; }`
	result, file := analyze(t, src)

	offset := len(src) - len(" }")
	syms := VisibleSymbolsAt(result, posAt(file, offset))

	var found *symbols.Symbol
	for _, s := range syms {
		if s.Name == "x" {
			found = s
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, symbols.SymbolVariable, found.SymbolKind)
	assert.Equal(t, symbols.ScopeFunction, found.OwningScope.Kind, "the function-local x must shadow the module-level x")
}

func TestHoverAtRendersNameAndType(t *testing.T) {
	src := `int x = 42; x;`
	result, file := analyze(t, src)

	offset := len(`int x = 42; `)
	h, ok := HoverAt(result, posAt(file, offset))
	require.True(t, ok)
	assert.Equal(t, "x : int", h.Text)
}

func TestDefinitionAtResolvesLocalSymbol(t *testing.T) {
	src := `int x = 42; x;`
	result, file := analyze(t, src)

	offset := len(`int x = 42; `)
	loc, ok := DefinitionAt(result, posAt(file, offset), result.URI)
	require.True(t, ok)
	assert.Equal(t, "file:///test.lang", loc.URI)
}

func TestReferencesFindsAllOccurrencesInOneFile(t *testing.T) {
	src := `int x = 1; x; x;`
	result, _ := analyze(t, src)

	var target *symbols.Symbol
	for _, sym := range result.NodeSymbols {
		target = sym
		break
	}
	require.NotNil(t, target)

	refs := References(KeyOf(target, result.URI), []Document{{URI: result.URI, Result: result}})
	assert.Len(t, refs, 2)
}
