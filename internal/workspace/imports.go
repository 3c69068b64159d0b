package workspace

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/debug"
	"github.com/langls/server/internal/langsyntax"
)

// ResolveAndAnalyze implements analysis.ImportResolver, grounded on
// original_source's Workspace.h resolveModulePath and spec.md §6's import
// resolution order:
//
//  1. relative to fromURI's directory ("./x", "../x")
//  2. relative to the workspace root
//  3. each configured Include path, in order
//
// A ".lang" suffix is appended if the path doesn't already carry one; the
// first candidate that exists on disk wins. Once resolved to a URI already
// present in visitedInStack, ResolveAndAnalyze reports circular=true
// without recursing further (spec.md §4.G "visitedInStack: set<URI>").
func (w *Workspace) ResolveAndAnalyze(fromURI, importPath string, visitedInStack map[string]bool) (*analysis.AnalysisResult, bool, bool) {
	targetPath, ok := w.resolveImportPath(fromURI, importPath)
	if !ok {
		debug.LogWorkspace("import %q from %s: not found", importPath, fromURI)
		return nil, false, false
	}
	targetURI := PathToURI(targetPath)

	if visitedInStack[targetURI] {
		return nil, true, true
	}

	if e, ok := w.lookupURI(targetURI); ok {
		if r := e.result.Load(); r != nil {
			w.addDependent(targetURI, fromURI)
			return r, false, true
		}
	}

	text, err := os.ReadFile(targetPath)
	if err != nil {
		debug.LogWorkspace("import %q from %s: read %s: %v", importPath, fromURI, targetPath, err)
		return nil, false, false
	}

	nested := make(map[string]bool, len(visitedInStack)+1)
	for k := range visitedInStack {
		nested[k] = true
	}
	nested[targetURI] = true

	w.register(targetURI, targetPath, string(text), 0)
	result := w.analyzeDocumentWithStack(targetURI, string(text), 0, nested)
	w.addDependent(targetURI, fromURI)
	return result, false, true
}

// analyzeDocumentWithStack is analyzeDocument plus a carried-through
// visitedInStack, used only for transitively-resolved import targets (an
// opened, user-facing document always starts with a fresh empty stack).
func (w *Workspace) analyzeDocumentWithStack(uri, text string, version int64, stack map[string]bool) *analysis.AnalysisResult {
	parse := langsyntax.ParseFile(text)
	result := analysis.Analyze(uri, int(version), parse, &stackBoundResolver{w: w, stack: stack})

	e, ok := w.lookupURI(uri)
	if !ok {
		e = w.register(uri, "", text, version)
	}
	e.result.Store(result)

	debug.LogWorkspace("analyzed import target %s: %d diagnostics", uri, len(result.Diagnostics))
	if w.publish != nil {
		w.publish.PublishDiagnostics(uri, result.Diagnostics)
	}
	return result
}

// stackBoundResolver wraps Workspace so a nested ResolveAndAnalyze call
// carries the accumulated visitedInStack forward instead of a caller
// needing to thread it through analysis.Analyze's signature.
type stackBoundResolver struct {
	w     *Workspace
	stack map[string]bool
}

func (r *stackBoundResolver) ResolveAndAnalyze(fromURI, path string, visitedInStack map[string]bool) (*analysis.AnalysisResult, bool, bool) {
	merged := make(map[string]bool, len(r.stack)+len(visitedInStack))
	for k := range r.stack {
		merged[k] = true
	}
	for k := range visitedInStack {
		merged[k] = true
	}
	return r.w.ResolveAndAnalyze(fromURI, path, merged)
}

// resolveImportPath implements the three-step search order, returning the
// first candidate file found on disk.
func (w *Workspace) resolveImportPath(fromURI, importPath string) (string, bool) {
	candidates := make([]string, 0, 4)

	if fromPath, err := URIToPath(fromURI); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(fromPath), importPath))
	}

	if w.cfg != nil && w.cfg.Project.Root != "" {
		candidates = append(candidates, filepath.Join(w.cfg.Project.Root, importPath))
		for _, inc := range w.cfg.Include {
			incDir := inc
			if !filepath.IsAbs(incDir) {
				incDir = filepath.Join(w.cfg.Project.Root, inc)
			}
			candidates = append(candidates, filepath.Join(incDir, importPath))
		}
	}

	for _, c := range candidates {
		for _, withSuffix := range suffixCandidates(c) {
			if w.isExcluded(withSuffix) {
				continue
			}
			if fi, err := os.Stat(withSuffix); err == nil && !fi.IsDir() {
				return filepath.Clean(withSuffix), true
			}
		}
	}
	return "", false
}

// suffixCandidates yields p unchanged, then p+".lang" if p doesn't already
// end in that suffix, per spec.md §6 "a .lang suffix is appended if the
// import string doesn't already carry one".
func suffixCandidates(p string) []string {
	if filepath.Ext(p) == ".lang" {
		return []string{p}
	}
	return []string{p, p + ".lang"}
}

func (w *Workspace) isExcluded(p string) bool {
	if w.cfg == nil || len(w.cfg.Exclude) == 0 {
		return false
	}
	rel := p
	if w.cfg.Project.Root != "" {
		if r, err := filepath.Rel(w.cfg.Project.Root, p); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}
