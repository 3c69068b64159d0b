package symbols

import "github.com/langls/server/internal/source"

// ScopeKind classifies a Scope, per spec.md §3.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeClass
	ScopeBlock
)

// Scope is a region of source in which a set of symbols is resolvable.
// Parent is a weak reference (spec.md §3/§9: "classes reference their
// scopes, scopes reference symbols, symbols reference defining scopes" —
// materialize in one owning table and refer by index/weak handle to avoid
// reference cycles); here the SymbolTable is that owning table and Scope
// values are addressed by plain pointer into it, never copied.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Symbols  map[string]*Symbol
	Owner    source.Range
}

func newScope(kind ScopeKind, parent *Scope, owner source.Range) *Scope {
	s := &Scope{Kind: kind, Parent: parent, Symbols: make(map[string]*Symbol)}
	s.Owner = owner
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Define inserts sym into the scope, rejecting duplicates by name — the
// caller attaches a diagnostic using both the new and prior definition
// ranges, per spec.md §4.E.
func (s *Scope) Define(sym *Symbol) (prior *Symbol, ok bool) {
	if existing, found := s.Symbols[sym.Name]; found {
		return existing, false
	}
	sym.OwningScope = s
	s.Symbols[sym.Name] = sym
	return nil, true
}

// ResolveLocally looks up name in this scope only, per spec.md §4.E.
func (s *Scope) ResolveLocally(name string) (*Symbol, bool) {
	sym, ok := s.Symbols[name]
	return sym, ok
}

// Resolve walks the parent chain, per spec.md §4.E. Later (inner) symbols
// shadow earlier (outer) ones by virtue of being found first.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// VisibleSymbols collects every name visible from this scope outward,
// with inner definitions shadowing outer ones (spec.md §8 invariant 4).
func (s *Scope) VisibleSymbols() []*Symbol {
	seen := make(map[string]bool)
	var out []*Symbol
	for scope := s; scope != nil; scope = scope.Parent {
		for name, sym := range scope.Symbols {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, sym)
		}
	}
	return out
}
