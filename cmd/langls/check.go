package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/workspace"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "parse and analyze a single file, print its diagnostics, exit nonzero on any error",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		enableDebugIfRequested(c)

		path := c.Args().First()
		if path == "" {
			return cli.Exit("langls check: missing <file> argument", 2)
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("langls check: %v", err), 2)
		}

		uri := workspace.PathToURI(path)
		parse := langsyntax.ParseFile(string(text))
		result := analysis.Analyze(uri, 1, parse, nil)

		hasError := false
		for _, d := range result.Diagnostics {
			fmt.Printf("%s:%s: %s: %s\n", path, d.Range.Start, severityLabel(d.Severity), d.Message)
			if d.Severity == langsyntax.SeverityError {
				hasError = true
			}
		}
		if hasError {
			return cli.Exit("", 1)
		}
		fmt.Printf("%s: no errors\n", path)
		return nil
	},
}

func severityLabel(s langsyntax.Severity) string {
	switch s {
	case langsyntax.SeverityError:
		return "error"
	case langsyntax.SeverityWarning:
		return "warning"
	case langsyntax.SeverityInformation:
		return "info"
	case langsyntax.SeverityHint:
		return "hint"
	default:
		return "diagnostic"
	}
}
