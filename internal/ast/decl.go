package ast

func (*VarDecl) declNode()      {}
func (*VarDecl) stmtNode()      {} // a var decl also appears in statement position inside bodies
func (*MultiVarDecl) declNode() {}
func (*MultiVarDecl) stmtNode() {}
func (*ParamDecl) declNode()    {}
func (*FunctionDecl) declNode() {}
func (*ClassDecl) declNode()    {}
func (*ImportDecl) declNode()   {}
func (*ErrorDecl) declNode()    {}

// VarDecl is a single-name declaration: `int x = 1;`, `const int y = f();`.
// DeclaredType is nil when the source omitted an annotation; the analyzer
// infers Type in that case.
type VarDecl struct {
	base
	Name         StringID
	DeclaredType TypeNode // nil if no annotation was written
	Init         Expr     // nil if no initializer was written (valid for class fields); ErrorExpr if malformed
}

// MultiVarDecl is `int a, b = f();`, Lang's tuple-destructuring form.
type MultiVarDecl struct {
	base
	Names         []StringID
	DeclaredTypes []TypeNode // parallel to Names; entries may be nil
	Init          Expr
}

// ParamDecl is one function or lambda parameter.
type ParamDecl struct {
	base
	Name         StringID
	DeclaredType TypeNode // nil if untyped
	Default      Expr     // nil if no default value
}

// FunctionDecl covers both top-level functions and class methods; IsStatic
// distinguishes the latter two (set in Flags).
type FunctionDecl struct {
	base
	Name       StringID
	Params     []*ParamDecl
	ReturnType TypeNode // nil if unannotated
	Body       *Block   // never nil; an empty Block on a fully-missing body
}

// ClassDecl holds fields (VarDecl) and methods (FunctionDecl) as Decl so
// both live in one ordered slice, matching declaration order in source.
type ClassDecl struct {
	base
	Name    StringID
	Extends StringID // 0 / interned empty string if no superclass
	Members []Decl
}

// ImportItem is one named import, e.g. `import { foo, bar as baz } from "m"`.
type ImportItem struct {
	Name  StringID
	Alias StringID // equals Name when no `as` clause is present
}

// ImportDecl covers both `import * as ns from "path"` and
// `import { a, b } from "path"` forms; exactly one of Wildcard/Items
// applies to a given node.
type ImportDecl struct {
	base
	Path     string
	Wildcard StringID // alias for `import * as X`; 0 if not a wildcard import
	IsWildcard bool
	Items    []ImportItem
}

// ErrorDecl stands in for a declaration the parser could not make sense of
// at all; Flags always includes HasError.
type ErrorDecl struct {
	base
	Message string
}
