package ast

import "github.com/langls/server/internal/source"

// Node is satisfied by every concrete AST node. Exhaustive switches on
// Kind() replace the visitor class hierarchy a class-based AST would reach
// for.
type Node interface {
	Kind() Kind
	Range() source.Range
	Flags() Flags
}

// Decl, Stmt, Expr, and TypeNode are marker sub-interfaces used to type
// child fields. Only the listed constructors produce values satisfying
// each one, so a field typed Expr can never hold, say, a bare FunctionDecl
// — the never-null invariant is enforced by these fields never being able
// to hold anything but a real node or an Error/Missing node of the right
// category.
type Decl interface {
	Node
	declNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type TypeNode interface {
	Node
	typeNode()
}

// base is embedded by every concrete node and supplies Kind/Range/Flags.
type base struct {
	kind  Kind
	rng   source.Range
	flags Flags
}

func (b *base) Kind() Kind          { return b.kind }
func (b *base) Range() source.Range { return b.rng }
func (b *base) Flags() Flags        { return b.flags }
