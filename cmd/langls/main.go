// Command langls is the langls LSP server's entrypoint: `serve` runs the
// façade over stdio, `check` is a one-shot CI-friendly diagnostics dump, and
// `version` prints the build version — the same three-subcommand shape as
// the teacher's cmd/lci (main.go/status.go/main_server.go), narrowed to
// this server's surface.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/langls/server/internal/config"
	"github.com/langls/server/internal/debug"
	"github.com/langls/server/internal/lsp"
	"github.com/langls/server/internal/version"
)

// loadConfigWithOverrides loads the workspace config for root and applies
// CLI flag overrides, in the same shape as the teacher's
// loadConfigWithOverrides (cmd/lci/main.go).
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config for %s: %w", root, err)
	}

	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludes...)
	}
	if c.Bool("watch") {
		cfg.Watch.Enabled = true
	}
	return cfg, nil
}

func main() {
	lsp.Version = version.Version

	app := &cli.App{
		Name:    "langls",
		Usage:   "language server for Lang",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "workspace root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "additional import search paths (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "additional doublestar exclude patterns",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "watch the workspace for out-of-editor changes",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write debug logs to a temp file instead of discarding them (serve logs nothing while it owns stdio)",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			checkCommand,
			{
				Name:  "version",
				Usage: "print the server version",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "langls:", err)
		os.Exit(1)
	}
}

func enableDebugIfRequested(c *cli.Context) {
	if !c.Bool("debug") {
		return
	}
	path, err := debug.InitDebugLogFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "langls: could not open debug log:", err)
		return
	}
	debug.EnableDebug = "true"
	fmt.Fprintln(os.Stderr, "langls: debug log at", path)
}
