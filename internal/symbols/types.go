// Package symbols owns the scope tree, symbol records, and the TypeInfo
// sum type (spec.md §3 "Symbols & scopes (E)" / "Types (E)"). TypeInfo
// follows the same interface-per-variant shape go/types uses for its Type
// sum type, rather than one struct with a kind tag and a dozen
// mostly-unused fields — each composite carries exactly the payload its
// kind needs.
package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags a TypeInfo variant for type switches and diagnostics.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindAny
	KindVoid
	KindNull
	KindInt
	KindFloat
	KindNumber
	KindBool
	KindString
	KindFunctionKeyword
	KindCoroutineKeyword
	KindList
	KindMap
	KindTuple
	KindUnion
	KindFunctionSignature
	KindClass
	KindModule
)

// TypeInfo is satisfied by every type variant. Structural equality is
// implemented per-kind by Equal; ClassType is the sole nominal exception
// (spec.md §3: "Structural equality for all but ClassType, which is
// nominal (by name)").
type TypeInfo interface {
	Kind() Kind
	String() string
}

// Basic covers every base type that carries no payload: Unknown, Any,
// Void, Null, Int, Float, Number, Bool, String, FunctionKeyword,
// CoroutineKeyword.
type Basic struct{ kind Kind }

func (b Basic) Kind() Kind { return b.kind }
func (b Basic) String() string {
	switch b.kind {
	case KindUnknown:
		return "unknown"
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindFunctionKeyword:
		return "function"
	case KindCoroutineKeyword:
		return "coroutine"
	default:
		return "?"
	}
}

// Singleton Basic values; every caller shares the same value for a given
// base kind so `==` works for quick checks before falling back to Equal.
var (
	Unknown   = Basic{KindUnknown}
	Any       = Basic{KindAny}
	Void      = Basic{KindVoid}
	Null      = Basic{KindNull}
	Int       = Basic{KindInt}
	Float     = Basic{KindFloat}
	Number    = Basic{KindNumber}
	Bool      = Basic{KindBool}
	String    = Basic{KindString}
	Function  = Basic{KindFunctionKeyword}
	Coroutine = Basic{KindCoroutineKeyword}
)

// List is `List<T>`.
type List struct{ Element TypeInfo }

func (l List) Kind() Kind     { return KindList }
func (l List) String() string { return fmt.Sprintf("[%s]", l.Element) }

// Map is `Map<K,V>`.
type Map struct{ Key, Value TypeInfo }

func (m Map) Kind() Kind     { return KindMap }
func (m Map) String() string { return fmt.Sprintf("{%s: %s}", m.Key, m.Value) }

// Tuple is `Tuple<T...>`, 2..16 elements per spec.md §3.
type Tuple struct{ Elements []TypeInfo }

func (t Tuple) Kind() Kind { return KindTuple }
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NewTuple validates the 2..16 arity spec.md §3 requires and rejects
// null-typed elements.
func NewTuple(elements []TypeInfo) (Tuple, error) {
	if len(elements) < 2 || len(elements) > 16 {
		return Tuple{}, fmt.Errorf("tuple must have 2..16 elements, got %d", len(elements))
	}
	for i, e := range elements {
		if e.Kind() == KindNull {
			return Tuple{}, fmt.Errorf("tuple element %d may not be null-typed", i)
		}
	}
	return Tuple{Elements: elements}, nil
}

// Union is `Union<T...>`, >= 2 members, deduplicated and sorted by String()
// for canonical form so Union<A,B> and Union<B,A> compare equal.
type Union struct{ Members []TypeInfo }

func (u Union) Kind() Kind { return KindUnion }
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// NewUnion deduplicates and sorts members into canonical form, per
// spec.md §8 invariant 6.
func NewUnion(members []TypeInfo) (Union, error) {
	seen := make(map[string]TypeInfo)
	for _, m := range members {
		if m.Kind() == KindNull {
			// Null is a legal union member (e.g. `int | null`); only the
			// dedup key needs a stable string, not a rejection.
		}
		seen[canonicalKey(m)] = m
	}
	if len(seen) < 2 {
		return Union{}, fmt.Errorf("union must have >= 2 distinct members, got %d", len(seen))
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]TypeInfo, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return Union{Members: out}, nil
}

func canonicalKey(t TypeInfo) string {
	if c, ok := t.(ClassType); ok {
		return "class:" + c.Name
	}
	return t.String()
}

// Param is one parameter slot of a FunctionSignature.
type Param struct {
	Name string
	Type TypeInfo
}

// FunctionSignature is a function-value's type; ReturnType is the declared
// (or, for a lambda, inferred) return type, Void when there is none, or a
// Tuple for a multi-return.
// IsMultiReturn marks the `MultiReturnTag` spec.md §3 calls for: a
// function that returns more than one value whose callers may consume
// either the whole Tuple or, with a warning, just the first result.
type FunctionSignature struct {
	Params        []Param
	ReturnType    TypeInfo
	IsVariadic    bool
	IsMultiReturn bool
}

func (f FunctionSignature) Kind() Kind { return KindFunctionSignature }
func (f FunctionSignature) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
	}
	variadic := ""
	if f.IsVariadic {
		variadic = "..."
	}
	return fmt.Sprintf("(%s%s) -> %s", strings.Join(parts, ", "), variadic, f.ReturnType)
}

// ClassType is the sole nominal TypeInfo variant: two ClassTypes are equal
// iff their Name matches, regardless of structural member shape, per
// spec.md §3.
type ClassType struct {
	Name        string
	ClassScope  *Scope
	DefiningURI string
}

func (c ClassType) Kind() Kind     { return KindClass }
func (c ClassType) String() string { return c.Name }

// ModuleType is the type a wildcard-imported namespace symbol carries
// (spec.md §4.F: "Wildcard imports introduce a Module symbol whose type
// exposes the target's module scope for member lookup"). Equality is
// nominal by Scope identity, matching ClassType's nominal treatment.
type ModuleType struct {
	Name  string
	Scope *Scope
}

func (m ModuleType) Kind() Kind     { return KindModule }
func (m ModuleType) String() string { return "module " + m.Name }

// Equal implements the structural-except-ClassType equality rule spec.md
// §3 and §8 invariant 6 describe.
func Equal(a, b TypeInfo) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Basic:
		return true // same Kind already established equality for base types
	case List:
		return Equal(av.Element, b.(List).Element)
	case Map:
		bm := b.(Map)
		return Equal(av.Key, bm.Key) && Equal(av.Value, bm.Value)
	case Tuple:
		bt := b.(Tuple)
		if len(av.Elements) != len(bt.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bt.Elements[i]) {
				return false
			}
		}
		return true
	case Union:
		bu := b.(Union)
		if len(av.Members) != len(bu.Members) {
			return false
		}
		for i := range av.Members {
			if !Equal(av.Members[i], bu.Members[i]) {
				return false
			}
		}
		return true
	case FunctionSignature:
		bf := b.(FunctionSignature)
		if len(av.Params) != len(bf.Params) || av.IsVariadic != bf.IsVariadic {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i].Type, bf.Params[i].Type) {
				return false
			}
		}
		return Equal(av.ReturnType, bf.ReturnType)
	case ClassType:
		return av.Name == b.(ClassType).Name // nominal
	case ModuleType:
		return av.Scope == b.(ModuleType).Scope // nominal, by scope identity
	default:
		return false
	}
}
