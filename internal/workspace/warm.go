package workspace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/langls/server/internal/debug"
)

// WarmAll walks the project root once at startup and analyzes every .lang
// file it finds, bounded to GOMAXPROCS concurrent analyses, per spec.md
// §5's "parallel analysis across files is allowed" — a single worker is
// sufficient but not required, and warming the cache ahead of the first
// editor query avoids a burst of serialized analyzeDocument calls on
// initial didOpen storms (a client opening every file in a multi-root
// workspace at once). ctx cancellation aborts remaining work but already
// published results are kept.
func (w *Workspace) WarmAll(ctx context.Context) error {
	root := ""
	if w.cfg != nil {
		root = w.cfg.Project.Root
	}
	if root == "" {
		return nil
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".lang") {
			return nil
		}
		if w.isExcluded(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range files {
		path := path
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			text, err := os.ReadFile(path)
			if err != nil {
				debug.LogWorkspace("warm: read %s: %v", path, err)
				return nil
			}
			uri := PathToURI(path)
			if _, ok := w.lookupURI(uri); !ok {
				w.register(uri, path, string(text), 0)
			}
			w.analyzeDocument(uri, string(text), 0)
			return nil
		})
	}
	return g.Wait()
}
