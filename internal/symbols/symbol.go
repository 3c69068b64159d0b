package symbols

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/source"
)

// SymbolKind classifies a Symbol, per spec.md §3.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota
	SymbolParameter
	SymbolFunction
	SymbolClass
	SymbolModule
	SymbolTypeAlias
	SymbolBuiltinFunction
	SymbolBuiltinType
)

// Symbol is a named, typed definition belonging to one scope.
type Symbol struct {
	Name          string
	SymbolKind    SymbolKind
	Type          TypeInfo
	DefiningRange source.Range
	DefiningNode  ast.Node // nil for builtins, which have no source location
	DefiningURI   string   // empty for the current file; set for symbols bound via import
	OwningScope   *Scope
	IsConst       bool
	IsStatic      bool
	IsGlobal      bool
	IsExported    bool
	Doc           string // opaque optional documentation string
}

// SymbolTable owns the scope tree for one file's AnalysisResult. The
// global scope is preseeded with builtins at construction and never
// mutated thereafter (spec.md §5: "Builtin symbols ... installed once ...
// and never mutated").
type SymbolTable struct {
	Global *Scope
	Module *Scope
}

// NewSymbolTable builds a fresh global+module scope pair with builtins
// installed in Global.
func NewSymbolTable(moduleOwner source.Range) *SymbolTable {
	global := newScope(ScopeGlobal, nil, source.Range{})
	installBuiltins(global)
	module := newScope(ScopeModule, global, moduleOwner)
	return &SymbolTable{Global: global, Module: module}
}

// NewFunctionScope, NewClassScope, and NewBlockScope are thin wrappers so
// internal/analysis never constructs a Scope by hand, keeping scope-kind
// invariants (parent always set, owner range always recorded) in one
// place.
func NewFunctionScope(parent *Scope, owner source.Range) *Scope {
	return newScope(ScopeFunction, parent, owner)
}

func NewClassScope(parent *Scope, owner source.Range) *Scope {
	return newScope(ScopeClass, parent, owner)
}

func NewBlockScope(parent *Scope, owner source.Range) *Scope {
	return newScope(ScopeBlock, parent, owner)
}
