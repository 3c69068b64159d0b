// Package workspace owns the file registry and per-URI analysis cache
// (spec.md §4.G "Workspace & cache"), grounded on original_source's
// Workspace.h: a map of open/known files keyed by canonical URI, a second
// index by filesystem path for disk-backed import targets, and one
// AnalysisResult published per URI behind an atomic pointer swap so readers
// never observe a half-built result.
package workspace

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/config"
	"github.com/langls/server/internal/debug"
	"github.com/langls/server/internal/errors"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
)

// entry is one file's registry slot: its current text/version plus the
// most recently published AnalysisResult. result is a pointer loaded and
// stored atomically so a concurrent reader (position services answering a
// hover/completion query) never observes a torn write mid-analysis.
type entry struct {
	file   *source.File
	result atomic.Pointer[analysis.AnalysisResult]
}

// DiagnosticsPublisher is invoked after every (re)analysis, per spec.md
// §4.G "After every analyzeDocument call ... publish diagnostics for that
// URI". internal/lsp supplies the concrete implementation that turns this
// into a textDocument/publishDiagnostics notification; tests can supply a
// recording stub.
type DiagnosticsPublisher interface {
	PublishDiagnostics(uri string, diags []langsyntax.Diagnostic)
}

// Workspace is the single owner of every file's text and analysis result
// for one LSP session. It implements analysis.ImportResolver so the
// analyzer can recursively pull in imported files without importing this
// package itself.
type Workspace struct {
	cfg     *config.Config
	publish DiagnosticsPublisher

	mu         sync.RWMutex
	byURI      map[string]*entry
	byPath     map[string]*entry
	dependents map[string]map[string]bool // URI -> set of URIs that import it

	group singleflight.Group

	watcher *Watcher
}

// New builds a Workspace rooted at cfg.Project.Root. pub may be nil, in
// which case analyses still run but no notification is emitted — useful
// for `langls check` (spec.md §2), which wants diagnostics as a return
// value rather than a wire notification.
func New(cfg *config.Config, pub DiagnosticsPublisher) *Workspace {
	return &Workspace{
		cfg:        cfg,
		publish:    pub,
		byURI:      make(map[string]*entry),
		byPath:     make(map[string]*entry),
		dependents: make(map[string]map[string]bool),
	}
}

// Config returns the workspace's configuration, for callers (internal/lsp)
// that need include/exclude patterns or project root without reaching into
// workspace internals.
func (w *Workspace) Config() *config.Config { return w.cfg }

func (w *Workspace) lookupURI(uri string) (*entry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.byURI[uri]
	return e, ok
}

func (w *Workspace) register(uri, path, text string, version int64) *entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.byURI[uri]
	if !ok {
		e = &entry{}
		w.byURI[uri] = e
		if path != "" {
			w.byPath[path] = e
		}
	}
	e.file = source.NewFile(uri, path, text, version)
	return e
}

func (w *Workspace) forget(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.byURI[uri]; ok {
		if e.file != nil && e.file.Path != "" {
			delete(w.byPath, e.file.Path)
		}
		delete(w.byURI, uri)
	}
	delete(w.dependents, uri)
}

// DidOpen registers uri with text/version and analyzes it immediately, per
// spec.md §4.I's didOpen -> workspace lifecycle.
func (w *Workspace) DidOpen(uri, path, text string, version int64) *analysis.AnalysisResult {
	w.register(uri, path, text, version)
	return w.analyzeDocument(uri, text, version)
}

// DidChange replaces uri's text wholesale (Full sync only, per spec.md
// §4.I) and re-analyzes it, invalidating exactly that URI's cache entry.
// Dependents keep their previously published results until they are
// themselves re-analyzed, unless Watch.EagerDeps is set, in which case
// they're eagerly rebuilt too (spec.md §4.G "optional eager mode").
func (w *Workspace) DidChange(uri, text string, version int64) *analysis.AnalysisResult {
	w.mu.Lock()
	e, ok := w.byURI[uri]
	path := ""
	if ok {
		path = e.file.Path
	}
	w.mu.Unlock()
	if !ok {
		path = uriToPathBestEffort(uri)
	}
	w.register(uri, path, text, version)
	result := w.analyzeDocument(uri, text, version)

	if w.cfg.Watch.EagerDeps {
		w.reanalyzeDependents(uri)
	}
	return result
}

// DidClose drops uri from the registry. Per spec.md §4.G this only removes
// the file from the open set; if it's still reachable as an import target
// it will be lazily re-opened from disk on next resolution.
func (w *Workspace) DidClose(uri string) {
	w.forget(uri)
}

// analyzeDocument runs the full parse+analyze pipeline for uri and
// publishes the result, per spec.md §4.G. singleflight collapses
// concurrent calls for the same URI+version (e.g. a rapid-fire didChange
// racing a completion request that would otherwise trigger its own
// redundant re-analysis).
func (w *Workspace) analyzeDocument(uri, text string, version int64) *analysis.AnalysisResult {
	key := uri + "@" + strconv.FormatInt(version, 10)
	v, _, _ := w.group.Do(key, func() (interface{}, error) {
		parse := langsyntax.ParseFile(text)
		result := analysis.Analyze(uri, int(version), parse, w)

		e, ok := w.lookupURI(uri)
		if !ok {
			e = w.register(uri, "", text, version)
		}
		e.result.Store(result)

		debug.LogWorkspace("analyzed %s@%d: %d diagnostics", uri, version, len(result.Diagnostics))
		if w.publish != nil {
			w.publish.PublishDiagnostics(uri, result.Diagnostics)
		}
		return result, nil
	})
	return v.(*analysis.AnalysisResult)
}

// addDependent records that dependentURI imports targetURI, so EagerDeps
// mode knows what to re-analyze when targetURI changes. Called from
// ResolveAndAnalyze (imports.go) whenever an import actually resolves.
func (w *Workspace) addDependent(targetURI, dependentURI string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	deps, ok := w.dependents[targetURI]
	if !ok {
		deps = make(map[string]bool)
		w.dependents[targetURI] = deps
	}
	deps[dependentURI] = true
}

func (w *Workspace) reanalyzeDependents(uri string) {
	w.mu.RLock()
	deps := w.dependents[uri]
	uris := make([]string, 0, len(deps))
	for d := range deps {
		uris = append(uris, d)
	}
	w.mu.RUnlock()

	for _, depURI := range uris {
		e, ok := w.lookupURI(depURI)
		if !ok || e.file == nil {
			continue
		}
		w.analyzeDocument(depURI, e.file.Text, e.file.Version)
	}
}

// Result returns the most recently published AnalysisResult for uri, or
// nil if uri is unknown or has not yet completed analysis.
func (w *Workspace) Result(uri string) *analysis.AnalysisResult {
	e, ok := w.lookupURI(uri)
	if !ok {
		return nil
	}
	return e.result.Load()
}

// Snapshot captures every currently-registered document's URI and version,
// for crash-diagnostic dumps (config.WriteSnapshotFile) per spec.md's
// session-snapshot ambient feature: a human-diffable record of what the
// workspace had open, independent of the primary KDL config.
func (w *Workspace) Snapshot() *config.SessionSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	root := ""
	if w.cfg != nil {
		root = w.cfg.Project.Root
	}
	snap := &config.SessionSnapshot{Root: root}
	for uri, e := range w.byURI {
		if e.file == nil {
			continue
		}
		snap.Documents = append(snap.Documents, config.OpenDocumentSnapshot{URI: uri, Version: e.file.Version})
	}
	return snap
}

// File returns the source.File backing uri, or nil if unknown.
func (w *Workspace) File(uri string) *source.File {
	e, ok := w.lookupURI(uri)
	if !ok {
		return nil
	}
	return e.file
}

// EnableWatch starts an fsnotify-backed watcher over the project root when
// cfg.Watch.Enabled is set, per spec.md §4.G's optional eager mode. It is a
// no-op (and returns nil, nil) when watching is disabled.
func (w *Workspace) EnableWatch(ctx context.Context) (*Watcher, error) {
	if !w.cfg.Watch.Enabled {
		return nil, nil
	}
	watcher, err := newWatcher(w)
	if err != nil {
		return nil, errors.NewInternalError("workspace.watch", err)
	}
	w.watcher = watcher
	watcher.Start(ctx)
	return watcher, nil
}

// Close releases any background resources (the fsnotify watcher, if one is
// running).
func (w *Workspace) Close() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func uriToPathBestEffort(uri string) string {
	p, err := URIToPath(uri)
	if err != nil {
		return ""
	}
	return filepath.Clean(p)
}
