package analysis

// ImportResolver is the workspace-provided hook the analyzer calls to turn
// an import path string into another file's AnalysisResult (spec.md §4.F
// "the analyzer asks the workspace to resolve the path string against the
// current URI ... then requests an AnalysisResult for that URI"). The
// workspace (internal/workspace) is the only implementation; keeping the
// dependency as an interface here, rather than importing internal/workspace
// directly, avoids an import cycle (workspace depends on analysis, not the
// reverse).
//
// visitedInStack carries the set of URIs already on the current recursive
// import-resolution call stack (spec.md §4.G "passes a visitedInStack:
// set<URI> down through recursive import requests"). ResolveAndAnalyze
// reports circular=true, rather than recursing further, when path resolves
// to a URI already in that set.
type ImportResolver interface {
	ResolveAndAnalyze(fromURI, path string, visitedInStack map[string]bool) (result *AnalysisResult, circular bool, found bool)
}
