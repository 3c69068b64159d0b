package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/langls/server/internal/debug"
)

// Watcher is the optional eager-reanalysis backend spec.md §4.G describes
// ("An optional eager mode may rebuild all known dependents"), grounded on
// the teacher's internal/indexing/watcher.go: a recursive fsnotify watch
// over the project root, debounced per path, feeding back into the owning
// Workspace's analyzeDocument instead of a search index.
type Watcher struct {
	ws       *Workspace
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	cancel context.CancelFunc
	done   chan struct{}
}

func newWatcher(ws *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	debounce := time.Duration(ws.cfg.Watch.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	return &Watcher{
		ws:       ws,
		fsw:      fsw,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Start adds recursive watches under the project root and begins
// processing events in a background goroutine, mirroring the teacher's
// Start/processEvents split.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	if err := w.addWatches(w.ws.cfg.Project.Root); err != nil {
		debug.LogWorkspace("watch: failed to add watches under %s: %v", w.ws.cfg.Project.Root, err)
	}

	go w.processEvents(ctx)
}

// Close stops the watcher and releases its fsnotify handle.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) addWatches(root string) error {
	if root == "" {
		return nil
	}
	visited := make(map[string]bool)
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(p)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if w.ws.isExcluded(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			debug.LogWorkspace("watch: add %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogWorkspace("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !strings.HasSuffix(ev.Name, ".lang") {
		return
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if w.ws.isExcluded(ev.Name) {
		return
	}

	w.mu.Lock()
	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	w.timers[ev.Name] = time.AfterFunc(w.debounce, func() { w.reanalyzeFromDisk(ev.Name) })
	w.mu.Unlock()
}

// reanalyzeFromDisk re-reads path and re-runs analysis for its URI, then
// (per Watch.EagerDeps) cascades to known dependents — the out-of-editor
// counterpart to didChange.
func (w *Watcher) reanalyzeFromDisk(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		return
	}
	uri := PathToURI(filepath.Clean(path))

	e, known := w.ws.lookupURI(uri)
	var version int64 = 1
	if known && e.file != nil {
		version = e.file.Version + 1
	}

	w.ws.register(uri, path, string(text), version)
	w.ws.analyzeDocument(uri, string(text), version)

	if w.ws.cfg.Watch.EagerDeps {
		w.ws.reanalyzeDependents(uri)
	}
}
