package position

import (
	"fmt"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// Hover is the rendered content spec.md §4.H's hover answers with: the
// resolved name and type, a human label for the symbol's kind, and its
// optional doc string.
type Hover struct {
	Range source.Range
	Text  string // "name : type" (or the bare inferred type for a literal)
	Doc   string
}

// HoverAt answers a hover request at pos: a name-bearing node (identifier,
// member access, colon lookup, this, new) renders "name : type" plus its
// symbol kind and doc; any other expression renders just its inferred
// type, per spec.md §4.H "for literals, render the inferred type".
func HoverAt(result *analysis.AnalysisResult, pos source.Position) (Hover, bool) {
	ctx, ok := FindNodeAt(result.Root, pos)
	if !ok {
		return Hover{}, false
	}

	if sym, ok := result.NodeSymbols[ctx.Node]; ok {
		return Hover{
			Range: ctx.Node.Range(),
			Text:  fmt.Sprintf("%s : %s", sym.Name, sym.Type),
			Doc:   hoverDoc(sym),
		}, true
	}

	expr, ok := ctx.Node.(ast.Expr)
	if !ok {
		return Hover{}, false
	}
	t, ok := result.NodeTypes[expr]
	if !ok {
		return Hover{}, false
	}
	return Hover{Range: ctx.Node.Range(), Text: t.String()}, true
}

func hoverDoc(sym *symbols.Symbol) string {
	label := symbolKindLabel(sym.SymbolKind)
	if sym.Doc == "" {
		return label
	}
	return label + "\n\n" + sym.Doc
}

func symbolKindLabel(k symbols.SymbolKind) string {
	switch k {
	case symbols.SymbolVariable:
		return "variable"
	case symbols.SymbolParameter:
		return "parameter"
	case symbols.SymbolFunction:
		return "function"
	case symbols.SymbolClass:
		return "class"
	case symbols.SymbolModule:
		return "module"
	case symbols.SymbolTypeAlias:
		return "type alias"
	case symbols.SymbolBuiltinFunction:
		return "builtin function"
	case symbols.SymbolBuiltinType:
		return "builtin type"
	default:
		return "symbol"
	}
}
