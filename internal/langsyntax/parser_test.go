package langsyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langls/server/internal/ast"
)

// TestHoverScenarioParses is spec.md §8 S1's input.
func TestHoverScenarioParses(t *testing.T) {
	res := ParseFile(`int x = 42; x;`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Root.Decls, 2)

	vd, ok := res.Root.Decls[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", res.Arena.Strings.Lookup(vd.Name))

	lit, ok := vd.Init.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

// TestImportAndExportScenarioParses is spec.md §8 S2's two files.
func TestImportAndExportScenarioParses(t *testing.T) {
	util := ParseFile(`export int add(int a, int b) { return a + b; }`)
	require.Empty(t, util.Diagnostics)
	fn, ok := util.Root.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.True(t, fn.Flags().Has(ast.IsExport))
	assert.Equal(t, "add", util.Arena.Strings.Lookup(fn.Name))
	assert.Len(t, fn.Params, 2)

	main := ParseFile(`import { add } from "./util"; add(1, 2);`)
	require.Empty(t, main.Diagnostics)
	require.Len(t, main.Root.Imports, 1)
	assert.Equal(t, "./util", main.Root.Imports[0].Path)
	assert.Equal(t, "add", main.Arena.Strings.Lookup(main.Root.Imports[0].Items[0].Name))
}

// TestTypeMismatchScenarioParses is spec.md §8 S3's input.
func TestTypeMismatchScenarioParses(t *testing.T) {
	res := ParseFile(`int x = "hi";`)
	require.Empty(t, res.Diagnostics)
	vd := res.Root.Decls[0].(*ast.VarDecl)
	_, ok := vd.Init.(*ast.StringLiteral)
	assert.True(t, ok)
}

// TestIncompleteMemberAccessScenarioParses is spec.md §8 S4's input: a
// trailing `p.` with nothing after the dot.
func TestIncompleteMemberAccessScenarioParses(t *testing.T) {
	res := ParseFile(`class P { int hp; } P p = new P(); p.`)
	require.Len(t, res.Root.Decls, 3)

	class := res.Root.Decls[0].(*ast.ClassDecl)
	assert.Equal(t, "P", res.Arena.Strings.Lookup(class.Name))
	require.Len(t, class.Members, 1)
	field := class.Members[0].(*ast.VarDecl)
	assert.Equal(t, "hp", res.Arena.Strings.Lookup(field.Name))

	exprStmt := res.Root.Decls[2].(*ast.ExprStmt)
	member, ok := exprStmt.Expr.(*ast.MemberAccessExpr)
	require.True(t, ok)
	assert.True(t, member.Incomplete)
	assert.True(t, member.Flags().Has(ast.Incomplete))
}

// TestCircularImportScenarioParses is spec.md §8 S5's two files.
func TestCircularImportScenarioParses(t *testing.T) {
	a := ParseFile(`import { b } from "./b";`)
	require.Empty(t, a.Diagnostics)
	assert.Equal(t, "./b", a.Root.Imports[0].Path)

	b := ParseFile(`import { a } from "./a";`)
	require.Empty(t, b.Diagnostics)
	assert.Equal(t, "./a", b.Root.Imports[0].Path)
}

func TestLeftAssociativeBinaryChain(t *testing.T) {
	res := ParseFile(`int x = 1 + 2 + 3;`)
	require.Empty(t, res.Diagnostics)
	vd := res.Root.Decls[0].(*ast.VarDecl)
	outer := vd.Init.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAdd, outer.Op)
	inner, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok, "expected ((1+2)+3), left child should be a BinaryExpr")
	assert.Equal(t, ast.OpAdd, inner.Op)
	_, ok = outer.Right.(*ast.IntLiteral)
	assert.True(t, ok)
}

func TestMissingSemicolonRecoversWithDiagnostic(t *testing.T) {
	res := ParseFile(`int x = 1 int y = 2;`)
	assert.NotEmpty(t, res.Diagnostics)
	require.Len(t, res.Root.Decls, 2)
}

func TestMultiVarDecl(t *testing.T) {
	res := ParseFile(`int a, int b = pair();`)
	require.Len(t, res.Root.Decls, 1)
	mvd, ok := res.Root.Decls[0].(*ast.MultiVarDecl)
	require.True(t, ok)
	assert.Len(t, mvd.Names, 2)
}

func TestWildcardImport(t *testing.T) {
	res := ParseFile(`import * as util from "./util";`)
	require.Len(t, res.Root.Imports, 1)
	imp := res.Root.Imports[0]
	assert.True(t, imp.IsWildcard)
	assert.Equal(t, "util", res.Arena.Strings.Lookup(imp.Wildcard))
}
