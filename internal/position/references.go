package position

import (
	"github.com/langls/server/internal/analysis"
)

// Document pairs a URI with its current analysis, the shape
// internal/workspace hands to References for the set of files worth
// scanning — per spec.md §4.H, every open file plus (for the optional
// cross-file case) every transitive importer of the defining file.
type Document struct {
	URI    string
	Result *analysis.AnalysisResult
}

// References finds every occurrence of the symbol identified by key across
// docs, per spec.md §4.H's "optional but specified" references query. A
// symbol's uses show up in NodeSymbols against Identifier,
// MemberAccessExpr, ColonLookupExpr, and NewExpr nodes — exactly the set
// internal/analysis populates during name resolution.
func References(key Key, docs []Document) []Location {
	var out []Location
	for _, doc := range docs {
		if doc.Result == nil {
			continue
		}
		for node, sym := range doc.Result.NodeSymbols {
			if KeyOf(sym, doc.URI) != key {
				continue
			}
			out = append(out, Location{URI: doc.URI, Range: node.Range()})
		}
	}
	return out
}
