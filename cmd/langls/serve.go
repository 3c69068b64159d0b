package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/langls/server/internal/config"
	"github.com/langls/server/internal/debug"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/lsp"
	"github.com/langls/server/internal/workspace"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "run the language server over stdio (Content-Length framed JSON-RPC)",
	Action: func(c *cli.Context) error {
		enableDebugIfRequested(c)
		debug.SetStdioMode(true) // stdout is the JSON-RPC stream from here on

		cfg, err := loadConfigWithOverrides(c)
		if err != nil {
			return err
		}

		var publish deferredPublisher
		ws := workspace.New(cfg, &publish)
		srv := lsp.NewServer(ws, os.Stdin, os.Stdout)
		publish.srv = srv

		if err := ws.WarmAll(context.Background()); err != nil {
			debug.LogLSP("warm-up scan: %v", err)
		}

		watchCtx, cancelWatch := context.WithCancel(context.Background())
		defer cancelWatch()
		if _, err := ws.EnableWatch(watchCtx); err != nil {
			debug.LogLSP("watch mode disabled: %v", err)
		}

		// SIGTERM/SIGINT triggers an unclean-exit-coded shutdown if the
		// client never completes the shutdown/exit handshake (spec.md §6),
		// matching the teacher's serverCommand signal handling
		// (cmd/lci/main_server.go).
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		done := make(chan int, 1)
		go func() { done <- srv.Serve() }()

		select {
		case code := <-done:
			if err := ws.Close(); err != nil {
				debug.LogLSP("workspace close: %v", err)
			}
			if code != 0 {
				return cli.Exit("", code)
			}
			return nil
		case sig := <-sigCh:
			debug.LogLSP("received signal %v, exiting uncleanly", sig)
			dumpSnapshot(cfg, ws)
			_ = ws.Close()
			return cli.Exit("", 1)
		}
	},
}

// dumpSnapshot writes a best-effort crash-diagnostic snapshot of every
// currently open document to <root>/.langls-snapshot.toml. Failures are
// logged, never fatal — this runs on the way out during an unclean exit.
func dumpSnapshot(cfg *config.Config, ws *workspace.Workspace) {
	path := filepath.Join(cfg.Project.Root, ".langls-snapshot.toml")
	if err := config.WriteSnapshotFile(path, ws.Snapshot()); err != nil {
		debug.LogLSP("snapshot dump: %v", err)
		return
	}
	debug.LogLSP("wrote crash snapshot to %s", path)
}

// deferredPublisher lets the workspace be constructed with a publisher
// before the Server that implements it exists, since Server itself needs a
// constructed Workspace to wrap.
type deferredPublisher struct {
	srv *lsp.Server
}

func (p *deferredPublisher) PublishDiagnostics(uri string, diags []langsyntax.Diagnostic) {
	if p.srv == nil {
		return
	}
	p.srv.PublishDiagnostics(uri, diags)
}
