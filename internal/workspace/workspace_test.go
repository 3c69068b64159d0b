package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langls/server/internal/config"
	"github.com/langls/server/internal/langsyntax"
)

type recordingPublisher struct {
	diags map[string][]langsyntax.Diagnostic
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{diags: make(map[string][]langsyntax.Diagnostic)}
}

func (p *recordingPublisher) PublishDiagnostics(uri string, diags []langsyntax.Diagnostic) {
	p.diags[uri] = diags
}

func TestDidOpenAnalyzesAndPublishes(t *testing.T) {
	cfg := config.Default(t.TempDir())
	pub := newRecordingPublisher()
	ws := New(cfg, pub)

	result := ws.DidOpen("file:///main.lang", "/main.lang", `int x = "hi";`, 1)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, pub.diags, "file:///main.lang")
}

func TestDidChangeInvalidatesOnlyThatURI(t *testing.T) {
	cfg := config.Default(t.TempDir())
	ws := New(cfg, nil)

	ws.DidOpen("file:///a.lang", "/a.lang", `int x = 1;`, 1)
	first := ws.Result("file:///a.lang")
	require.NotNil(t, first)
	assert.Empty(t, first.Diagnostics)

	second := ws.DidChange("file:///a.lang", `int x = "oops";`, 2)
	require.NotEmpty(t, second.Diagnostics)
	assert.Same(t, second, ws.Result("file:///a.lang"))
}

func TestDidCloseForgetsFile(t *testing.T) {
	cfg := config.Default(t.TempDir())
	ws := New(cfg, nil)
	ws.DidOpen("file:///a.lang", "/a.lang", `int x = 1;`, 1)
	require.NotNil(t, ws.Result("file:///a.lang"))

	ws.DidClose("file:///a.lang")
	assert.Nil(t, ws.Result("file:///a.lang"))
}

// TestImportResolutionFindsRelativeFile exercises spec.md §6 resolution
// order step 1: a path relative to the importing file's own directory,
// with the .lang suffix appended automatically.
func TestImportResolutionFindsRelativeFile(t *testing.T) {
	root := t.TempDir()
	utilPath := filepath.Join(root, "util.lang")
	require.NoError(t, os.WriteFile(utilPath, []byte(`export int add(int a, int b) { return a + b; }`), 0o644))

	cfg := config.Default(root)
	ws := New(cfg, nil)

	mainURI := "file://" + filepath.Join(root, "main.lang")
	result := ws.DidOpen(mainURI, filepath.Join(root, "main.lang"), `import { add } from "./util"; add(1, 2);`, 1)
	assert.Empty(t, result.Diagnostics)
}

// TestImportResolutionMissingFileIsDiagnosed checks that an import naming
// a file that doesn't exist anywhere in the search order fails gracefully
// with a diagnostic rather than a panic.
func TestImportResolutionMissingFileIsDiagnosed(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	ws := New(cfg, nil)

	mainURI := "file://" + filepath.Join(root, "main.lang")
	result := ws.DidOpen(mainURI, filepath.Join(root, "main.lang"), `import { missing } from "./nope";`, 1)
	require.NotEmpty(t, result.Diagnostics)
}

// TestCircularImportIsToleratedAcrossFiles is the on-disk counterpart to
// analysis's in-memory TestCircularImportScenario: two real files that
// import each other must resolve without infinite recursion, converging on
// a single circular-import warning.
func TestCircularImportIsToleratedAcrossFiles(t *testing.T) {
	root := t.TempDir()
	aPath := filepath.Join(root, "a.lang")
	bPath := filepath.Join(root, "b.lang")
	require.NoError(t, os.WriteFile(aPath, []byte(`import { b } from "./b"; export int a = 1;`), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte(`import { a } from "./a"; export int b = 2;`), 0o644))

	cfg := config.Default(root)
	ws := New(cfg, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.DidOpen("file://"+aPath, aPath, mustRead(t, aPath), 1)
	}()

	select {
	case <-done:
	case <-t.Context().Done():
		t.Fatal("circular import resolution did not terminate")
	}
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestSnapshotCapturesOpenDocuments(t *testing.T) {
	cfg := config.Default(t.TempDir())
	ws := New(cfg, nil)
	ws.DidOpen("file:///a.lang", "/a.lang", `int x = 1;`, 1)
	ws.DidOpen("file:///b.lang", "/b.lang", `int y = 2;`, 4)

	snap := ws.Snapshot()
	assert.Equal(t, cfg.Project.Root, snap.Root)
	assert.Len(t, snap.Documents, 2)
}

// TestWarmAllAnalyzesEveryFileOnDisk exercises spec.md §5's allowance for
// parallel cross-file analysis: every .lang file under the root should have
// a published AnalysisResult after one WarmAll call, without any of them
// having been explicitly opened.
func TestWarmAllAnalyzesEveryFileOnDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.lang"), []byte(`int x = 1;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.lang"), []byte(`int y = 2;`), 0o644))
	vendorDir := filepath.Join(root, "vendor")
	require.NoError(t, os.MkdirAll(vendorDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "c.lang"), []byte(`int z = 3;`), 0o644))

	cfg := config.Default(root)
	cfg.Exclude = []string{"**/vendor/**"}
	ws := New(cfg, nil)

	require.NoError(t, ws.WarmAll(context.Background()))

	assert.NotNil(t, ws.Result("file://"+filepath.Join(root, "a.lang")))
	assert.NotNil(t, ws.Result("file://"+filepath.Join(root, "b.lang")))
	assert.Nil(t, ws.Result("file://"+filepath.Join(vendorDir, "c.lang")))
}

func TestExcludePatternsBlockImportResolution(t *testing.T) {
	root := t.TempDir()
	vendorDir := filepath.Join(root, "vendor")
	require.NoError(t, os.MkdirAll(vendorDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "util.lang"), []byte(`export int add(int a, int b) { return a + b; }`), 0o644))

	cfg := config.Default(root)
	cfg.Exclude = []string{"**/vendor/**"}
	ws := New(cfg, nil)

	mainURI := "file://" + filepath.Join(root, "main.lang")
	result := ws.DidOpen(mainURI, filepath.Join(root, "main.lang"), `import { add } from "./vendor/util";`, 1)
	require.NotEmpty(t, result.Diagnostics)
}
