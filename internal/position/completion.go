package position

import (
	"sort"
	"strings"

	edlib "github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"

	"github.com/langls/server/internal/analysis"
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// CompletionTrigger classifies why completion was requested at a position,
// per spec.md §4.H and NodeFinder.h's CompletionTrigger enum.
type CompletionTrigger int

const (
	TriggerNone CompletionTrigger = iota
	TriggerDotAccess
	TriggerColonAccess
	TriggerNewExpression
	TriggerTypeAnnotation
	TriggerArgument
	TriggerImport
	TriggerIdentifier
)

// CompletionContext is the classification result ClassifyCompletion
// produces, mirroring NodeFinder.h's analyzeCompletionContext.
type CompletionContext struct {
	Trigger       CompletionTrigger
	BaseExpr      ast.Expr // set for DotAccess/ColonAccess/Argument
	ArgumentIndex int
	Enclosing     ast.Node
}

// ClassifyCompletion implements NodeFinder.h's analyzeCompletionContext,
// checked in the same priority order: member access (complete or
// dangling-dot, with the cursor inside or just past it), colon lookup, new-expression, call argument, type
// position, import, then bare identifier.
func ClassifyCompletion(root *ast.CompilationUnit, pos source.Position) CompletionContext {
	ctx, ok := FindNodeAt(root, pos)
	if !ok {
		return CompletionContext{Trigger: TriggerNone}
	}
	result := CompletionContext{Enclosing: ctx.Parent()}

	if member, ok := ctx.Node.(*ast.MemberAccessExpr); ok {
		result.Trigger = TriggerDotAccess
		result.BaseExpr = member.Object
		return result
	}
	if parent, ok := ctx.Parent().(*ast.MemberAccessExpr); ok && parent.Incomplete {
		result.Trigger = TriggerDotAccess
		result.BaseExpr = parent.Object
		return result
	}
	// A cursor just past a member access (e.g. right after a trailing
	// `p.`) lies outside its half-open range; look one column back.
	if pos.Column > 1 {
		if before, ok := FindNodeAt(root, source.Position{Line: pos.Line, Column: pos.Column - 1}); ok {
			if member, ok := before.Node.(*ast.MemberAccessExpr); ok {
				result.Trigger = TriggerDotAccess
				result.BaseExpr = member.Object
				return result
			}
		}
	}

	if colon, ok := ctx.Node.(*ast.ColonLookupExpr); ok {
		result.Trigger = TriggerColonAccess
		result.BaseExpr = colon.Object
		return result
	}

	if _, ok := ctx.Node.(*ast.NewExpr); ok {
		result.Trigger = TriggerNewExpression
		return result
	}
	if _, ok := FindAncestor[*ast.NewExpr](ctx); ok {
		result.Trigger = TriggerNewExpression
		return result
	}

	if call, ok := FindAncestor[*ast.CallExpr](ctx); ok {
		result.Trigger = TriggerArgument
		result.BaseExpr = call.Callee
		result.ArgumentIndex = argumentIndex(call, pos)
		return result
	}

	if isInTypePosition(ctx) {
		result.Trigger = TriggerTypeAnnotation
		return result
	}

	if _, ok := FindAncestor[*ast.ImportDecl](ctx); ok {
		result.Trigger = TriggerImport
		return result
	}

	if _, ok := ctx.Node.(*ast.Identifier); ok {
		result.Trigger = TriggerIdentifier
	}
	return result
}

func argumentIndex(call *ast.CallExpr, pos source.Position) int {
	for i, arg := range call.Args {
		if pos.Less(arg.Range().Start) {
			return i
		}
		if arg.Range().ContainsInclusive(pos) {
			return i
		}
	}
	return len(call.Args)
}

func isInTypePosition(ctx NodeContext) bool {
	if _, ok := ctx.Node.(ast.TypeNode); ok {
		return true
	}
	switch parent := ctx.Parent().(type) {
	case *ast.VarDecl:
		return parent.DeclaredType == ctx.Node
	case *ast.ParamDecl:
		return parent.DeclaredType == ctx.Node
	case *ast.FunctionDecl:
		return parent.ReturnType == ctx.Node
	}
	return false
}

// Item is one completion candidate, the shape internal/lsp maps onto an
// LSP CompletionItem.
type Item struct {
	Label string
	Kind  symbols.SymbolKind
	Type  symbols.TypeInfo
	Doc   string
	Score float32
}

// Complete assembles the ranked candidate list for a completion request,
// per spec.md §4.H: which symbols are offered depends entirely on the
// classified trigger kind — DotAccess/ColonAccess walk the base
// expression's resolved type's member scope, Import offers no candidates,
// and everything else walks the lexically visible symbol set. prefix is the partial identifier text
// already typed (possibly empty), used to rank and filter candidates with
// Jaro-Winkler similarity plus a Porter2-stemmed fallback for
// typo-tolerant matching (spec.md's domain-stack wiring for go-edlib and
// porter2).
func Complete(result *analysis.AnalysisResult, pos source.Position, prefix string) []Item {
	cctx := ClassifyCompletion(result.Root, pos)

	var candidates []*symbols.Symbol
	switch cctx.Trigger {
	case TriggerDotAccess:
		candidates = membersOf(result, cctx.BaseExpr, false)
	case TriggerColonAccess:
		candidates = membersOf(result, cctx.BaseExpr, true)
	case TriggerImport:
		return nil // file-path completion is not symbol-based; no candidates are offered
	default:
		candidates = VisibleSymbolsAt(result, pos)
	}

	items := make([]Item, 0, len(candidates))
	for _, sym := range candidates {
		items = append(items, Item{Label: sym.Name, Kind: sym.SymbolKind, Type: sym.Type, Doc: sym.Doc})
	}
	return rankByPrefix(items, prefix)
}

// membersOf resolves baseExpr's already-inferred type and returns the
// members visible on it: class fields/methods for a ClassType
// (methodsOnly narrows to callable members for colon-lookup completion),
// or a module's exported symbols for a ModuleType.
func membersOf(result *analysis.AnalysisResult, baseExpr ast.Expr, methodsOnly bool) []*symbols.Symbol {
	if baseExpr == nil {
		return nil
	}
	t, ok := result.NodeTypes[baseExpr]
	if !ok {
		return nil
	}
	switch bt := t.(type) {
	case symbols.ClassType:
		var out []*symbols.Symbol
		for _, sym := range bt.ClassScope.Symbols {
			if methodsOnly && sym.SymbolKind != symbols.SymbolFunction {
				continue
			}
			out = append(out, sym)
		}
		return out
	case symbols.ModuleType:
		var out []*symbols.Symbol
		for _, sym := range bt.Scope.VisibleSymbols() {
			if sym.IsExported {
				out = append(out, sym)
			}
		}
		return out
	}
	return nil
}

// rankByPrefix orders items by how well Label matches prefix: a label
// sharing the prefix scores 1.0, a label whose Porter2 stem equals the
// prefix's stem scores a fixed 0.85 (e.g. "connect" completing while the
// user typed "connecting"), and any other label scores its Jaro-Winkler
// similarity to the prefix. Items sort by descending score, then
// alphabetically.
func rankByPrefix(items []Item, prefix string) []Item {
	if prefix == "" {
		sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
		return items
	}

	lowerPrefix := strings.ToLower(prefix)
	stemmedPrefix := porter2.Stem(lowerPrefix)

	for i := range items {
		label := strings.ToLower(items[i].Label)
		switch {
		case strings.HasPrefix(label, lowerPrefix):
			items[i].Score = 1.0
		case porter2.Stem(label) == stemmedPrefix:
			items[i].Score = 0.85
		default:
			sim, err := edlib.StringsSimilarity(lowerPrefix, label, edlib.JaroWinkler)
			if err != nil {
				sim = 0
			}
			items[i].Score = sim
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Label < items[j].Label
	})

	// Drop candidates that neither share the prefix nor are a plausible
	// fuzzy match, so a typo offers close names without flooding the list
	// with everything in scope.
	cut := len(items)
	for i, it := range items {
		if it.Score < 0.55 {
			cut = i
			break
		}
	}
	return items[:cut]
}
