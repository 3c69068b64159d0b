package langsyntax

import (
	"fmt"

	"github.com/langls/server/internal/source"
)

// Severity mirrors LSP's DiagnosticSeverity numbering (1=Error..4=Hint),
// per spec.md §7.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is the shape every core component (syntax, semantic, import
// resolution) reports in; Source distinguishes "syntax" diagnostics raised
// here from "semantic" ones raised by internal/analysis.
type Diagnostic struct {
	Range    source.Range
	Severity Severity
	Message  string
	Source   string
}

func syntaxDiag(rng source.Range, severity Severity, format string, args ...any) Diagnostic {
	return Diagnostic{Range: rng, Severity: severity, Message: fmt.Sprintf(format, args...), Source: "syntax"}
}
