package ast

// Flags is the per-node bitset spec.md §3 calls out: HasError, Incomplete,
// IsGlobal, IsConst, IsStatic, IsExport. Kept as a single uint8 rather than
// six bool fields so zero-value nodes stay cheap and copyable.
type Flags uint8

const (
	HasError Flags = 1 << iota
	Incomplete
	IsGlobal
	IsConst
	IsStatic
	IsExport
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }
