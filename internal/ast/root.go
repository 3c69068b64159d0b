package ast

// CompilationUnit is the root of one file's AST: its import declarations
// followed by the file's top-level declarations, in source order.
type CompilationUnit struct {
	base
	Imports []*ImportDecl
	Decls   []Decl
}
