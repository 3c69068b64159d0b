package position

import (
	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// Location names a range within a specific file, the cross-file pointer
// go-to-definition and references both return.
type Location struct {
	URI   string
	Range source.Range
}

// DefinitionAt answers go-to-definition at pos, per spec.md §4.H: the node
// under the cursor must already have resolved to a Symbol during analysis
// (NodeSymbols), whose DefiningRange/DefiningURI is the answer —
// DefiningURI is empty for a symbol declared in the current file, in which
// case localURI fills the gap. Following a member chain ("a.b.c") requires
// no extra work here: each MemberAccessExpr/ColonLookupExpr link in the
// chain already has its own NodeSymbols entry set by the analyzer, so the
// innermost node at pos is already resolved against the correct link.
func DefinitionAt(result *analysis.AnalysisResult, pos source.Position, localURI string) (Location, bool) {
	ctx, ok := FindNodeAt(result.Root, pos)
	if !ok {
		return Location{}, false
	}
	sym, ok := result.NodeSymbols[ctx.Node]
	if !ok {
		return Location{}, false
	}
	return locationOf(sym, localURI), true
}

func locationOf(sym *symbols.Symbol, localURI string) Location {
	uri := sym.DefiningURI
	if uri == "" {
		uri = localURI
	}
	return Location{URI: uri, Range: sym.DefiningRange}
}

// KeyOf identifies a symbol by its defining location rather than pointer
// identity, since an imported binding is a distinct *Symbol value per
// importing file that merely copies the origin's DefiningRange/DefiningURI
// (internal/analysis's analyzeImport). Two Symbols with equal keys name
// the same declaration.
type Key struct {
	URI   string
	Range source.Range
}

func KeyOf(sym *symbols.Symbol, localURI string) Key {
	loc := locationOf(sym, localURI)
	return Key{URI: loc.URI, Range: loc.Range}
}
