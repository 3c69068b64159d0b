// Package position implements the query layer spec.md §4.H calls one of
// "the hard parts": locating the AST node under a cursor, classifying what
// kind of completion it wants, walking visible symbols with shadowing, and
// answering hover/go-to-definition/references from the maps an
// internal/analysis.AnalysisResult already carries. Grounded on
// original_source's NodeFinder.h — findDeepestAt's child-first recursion,
// forEachChild's per-AstKind child enumeration, and
// analyzeCompletionContext's trigger classification all port directly, with
// byte offsets replaced by the 1-based line/column source.Position our AST
// nodes carry instead.
package position

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/source"
)

// NodeContext is the result of FindNodeAt: the deepest node containing the
// query position, plus every ancestor from the compilation unit down to
// (but not including) Node itself, outermost first.
type NodeContext struct {
	Node      ast.Node
	Ancestors []ast.Node
}

// Parent returns Node's immediate parent, or nil if Node is the
// compilation unit itself.
func (c NodeContext) Parent() ast.Node {
	if len(c.Ancestors) == 0 {
		return nil
	}
	return c.Ancestors[len(c.Ancestors)-1]
}

// FindAncestor returns the nearest ancestor of type T, searching from the
// immediate parent outward to the root, matching NodeFinder.h's
// ctx.findAncestor<T>() template method.
func FindAncestor[T ast.Node](c NodeContext) (T, bool) {
	var zero T
	for i := len(c.Ancestors) - 1; i >= 0; i-- {
		if t, ok := c.Ancestors[i].(T); ok {
			return t, true
		}
	}
	return zero, false
}

// FindNodeAt locates the deepest node containing pos, per NodeFinder.h's
// findDeepestAt: the compilation unit is always considered containing
// (even when its own range is error-marked), and ties among children are
// broken by taking the first child whose subtree contains pos.
func FindNodeAt(root *ast.CompilationUnit, pos source.Position) (NodeContext, bool) {
	var path []ast.Node
	found := findDeepestAt(root, pos, true, &path)
	if found == nil {
		return NodeContext{}, false
	}
	return NodeContext{Node: found, Ancestors: path[:len(path)-1]}, true
}

func findDeepestAt(node ast.Node, pos source.Position, isRoot bool, path *[]ast.Node) ast.Node {
	if node == nil {
		return nil
	}
	if !isRoot && !node.Range().Contains(pos) {
		return nil
	}

	*path = append(*path, node)

	var deeper ast.Node
	forEachChild(node, func(child ast.Node) {
		if deeper != nil {
			return
		}
		if found := findDeepestAt(child, pos, false, path); found != nil {
			deeper = found
		}
	})
	if deeper != nil {
		return deeper
	}

	// No child matched; this node is the deepest containing pos, and it's
	// already the last entry pushed onto path.
	return node
}

// forEachChild visits node's immediate children in source order, covering
// every concrete AST node kind — the Go counterpart of NodeFinder.h's
// forEachChild switch.
func forEachChild(node ast.Node, visit func(ast.Node)) {
	switch n := node.(type) {
	case *ast.CompilationUnit:
		for _, imp := range n.Imports {
			visit(imp)
		}
		for _, d := range n.Decls {
			visit(d)
		}

	case *ast.VarDecl:
		if n.DeclaredType != nil {
			visit(n.DeclaredType)
		}
		if n.Init != nil {
			visit(n.Init)
		}
	case *ast.MultiVarDecl:
		for _, t := range n.DeclaredTypes {
			if t != nil {
				visit(t)
			}
		}
		if n.Init != nil {
			visit(n.Init)
		}
	case *ast.ParamDecl:
		if n.DeclaredType != nil {
			visit(n.DeclaredType)
		}
		if n.Default != nil {
			visit(n.Default)
		}
	case *ast.FunctionDecl:
		if n.ReturnType != nil {
			visit(n.ReturnType)
		}
		for _, p := range n.Params {
			visit(p)
		}
		visit(n.Body)
	case *ast.ClassDecl:
		for _, m := range n.Members {
			visit(m)
		}
	case *ast.ImportDecl:
		// Leaf for navigation purposes: its Path is a string literal, not
		// an AST node.
	case *ast.ErrorDecl:

	case *ast.Block:
		for _, s := range n.Stmts {
			visit(s)
		}
	case *ast.ExprStmt:
		visit(n.Expr)
	case *ast.ReturnStmt:
		for _, v := range n.Values {
			visit(v)
		}
	case *ast.IfStmt:
		visit(n.Cond)
		visit(n.Then)
		if n.Else != nil {
			visit(n.Else)
		}
	case *ast.WhileStmt:
		visit(n.Cond)
		visit(n.Body)
	case *ast.ForStmt:
		if n.Init != nil {
			visit(n.Init)
		}
		if n.Cond != nil {
			visit(n.Cond)
		}
		if n.Post != nil {
			visit(n.Post)
		}
		visit(n.Body)
	case *ast.BreakStmt, *ast.ContinueStmt:
	case *ast.DeferStmt:
		visit(n.Body)
	case *ast.ErrorStmt:

	case *ast.Identifier, *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.NullLiteral, *ast.ThisExpr:
	case *ast.BinaryExpr:
		visit(n.Left)
		visit(n.Right)
	case *ast.UnaryExpr:
		visit(n.Operand)
	case *ast.AssignExpr:
		visit(n.Target)
		visit(n.Value)
	case *ast.CallExpr:
		visit(n.Callee)
		for _, a := range n.Args {
			visit(a)
		}
	case *ast.MemberAccessExpr:
		visit(n.Object)
	case *ast.ColonLookupExpr:
		visit(n.Object)
	case *ast.IndexExpr:
		visit(n.Object)
		visit(n.Index)
	case *ast.NewExpr:
		for _, a := range n.Args {
			visit(a)
		}
	case *ast.ListExpr:
		for _, e := range n.Elements {
			visit(e)
		}
	case *ast.MapExpr:
		for _, e := range n.Entries {
			visit(e.Key)
			visit(e.Value)
		}
	case *ast.TupleExpr:
		for _, e := range n.Elements {
			visit(e)
		}
	case *ast.LambdaExpr:
		for _, p := range n.Params {
			visit(p)
		}
		visit(n.Body)
	case *ast.ErrorExpr, *ast.MissingExpr:

	case *ast.ListTypeRef:
		if n.Element != nil {
			visit(n.Element)
		}
	case *ast.MapTypeRef:
		if n.Key != nil {
			visit(n.Key)
		}
		if n.Value != nil {
			visit(n.Value)
		}
	case *ast.FunctionTypeRef:
		for _, p := range n.Params {
			if p != nil {
				visit(p)
			}
		}
		if n.Return != nil {
			visit(n.Return)
		}
	case *ast.UnionTypeRef:
		for _, m := range n.Members {
			if m != nil {
				visit(m)
			}
		}
	case *ast.TypeRef, *ast.ErrorType:
	}
}
