package analysis

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// analyzeStmt dispatches on the concrete statement kind, pushing a fresh
// block scope for every brace-delimited body (spec.md §3 "Block ... is also
// the Scope owner range").
func analyzeStmt(st ast.Stmt, ctx *context) {
	switch v := st.(type) {
	case *ast.Block:
		child := symbols.NewBlockScope(ctx.scope, v.Range())
		ctx.result.recordScope(child)
		childCtx := ctx.withScope(child)
		for _, s := range v.Stmts {
			analyzeStmt(s, childCtx)
		}

	case *ast.ExprStmt:
		inferExpr(v.Expr, ctx)

	case *ast.VarDecl:
		analyzeVarDeclStmt(v, ctx)

	case *ast.MultiVarDecl:
		analyzeMultiVarDeclStmt(v, ctx)

	case *ast.ReturnStmt:
		analyzeReturnStmt(v, ctx)

	case *ast.IfStmt:
		condType := inferExpr(v.Cond, ctx)
		checkBoolish(condType, v.Cond.Range(), ctx)
		analyzeStmt(v.Then, ctx)
		if v.Else != nil {
			analyzeStmt(v.Else, ctx)
		}

	case *ast.WhileStmt:
		condType := inferExpr(v.Cond, ctx)
		checkBoolish(condType, v.Cond.Range(), ctx)
		loopCtx := *ctx
		loopCtx.loopDepth++
		analyzeStmt(v.Body, &loopCtx)

	case *ast.ForStmt:
		forScope := symbols.NewBlockScope(ctx.scope, v.Range())
		ctx.result.recordScope(forScope)
		forCtx := ctx.withScope(forScope)
		if v.Init != nil {
			analyzeStmt(v.Init, forCtx)
		}
		if v.Cond != nil {
			condType := inferExpr(v.Cond, forCtx)
			checkBoolish(condType, v.Cond.Range(), forCtx)
		}
		loopCtx := *forCtx
		loopCtx.loopDepth++
		if v.Post != nil {
			analyzeStmt(v.Post, &loopCtx)
		}
		analyzeStmt(v.Body, &loopCtx)

	case *ast.BreakStmt:
		if ctx.loopDepth == 0 {
			ctx.diag(v.Range(), langsyntax.SeverityError, "break used outside a loop")
		}

	case *ast.ContinueStmt:
		if ctx.loopDepth == 0 {
			ctx.diag(v.Range(), langsyntax.SeverityError, "continue used outside a loop")
		}

	case *ast.DeferStmt:
		// defer's body shares the enclosing function scope and does not
		// reset loopDepth — break/continue inside a deferred block would
		// be nonsensical regardless, since it never runs inside the loop
		// that encloses it lexically.
		analyzeStmt(v.Body, ctx)

	case *ast.ErrorStmt:
		ctx.diag(v.Range(), langsyntax.SeverityError, "%s", v.Message)
	}
}

func checkBoolish(t symbols.TypeInfo, rng source.Range, ctx *context) {
	switch t.Kind() {
	case symbols.KindBool, symbols.KindAny, symbols.KindUnknown:
		return
	}
	ctx.diag(rng, langsyntax.SeverityWarning, "condition has type %s, expected bool", t)
}

func analyzeVarDeclStmt(v *ast.VarDecl, ctx *context) {
	declaredType := ctx.resolveType(v.DeclaredType)
	finalType := declaredType

	if v.Init != nil {
		initType := inferExpr(v.Init, ctx)
		if v.DeclaredType == nil {
			finalType = initType
		} else {
			checkAssignable(initType, declaredType, v.Init.Range(), ctx)
			finalType = declaredType
		}
	}

	sym := &symbols.Symbol{
		Name:          ctx.name(v.Name),
		SymbolKind:    symbols.SymbolVariable,
		Type:          finalType,
		DefiningRange: v.Range(),
		DefiningNode:  v,
		IsConst:       v.Flags().Has(ast.IsConst),
		IsGlobal:      ctx.scope.Kind == symbols.ScopeModule || ctx.scope.Kind == symbols.ScopeGlobal,
		IsExported:    v.Flags().Has(ast.IsExport),
	}
	if prior, ok := ctx.scope.Define(sym); !ok {
		ctx.diag(v.Range(), langsyntax.SeverityError, "%q is already declared in this scope (first declared at %s)", sym.Name, prior.DefiningRange)
	}
}

func analyzeMultiVarDeclStmt(v *ast.MultiVarDecl, ctx *context) {
	var initType symbols.TypeInfo = symbols.Unknown
	if v.Init != nil {
		initType = inferExpr(v.Init, ctx)
	}
	var elemTypes []symbols.TypeInfo
	if tup, ok := initType.(symbols.Tuple); ok {
		elemTypes = tup.Elements
	} else if v.Init != nil && initType.Kind() != symbols.KindUnknown {
		ctx.diag(v.Init.Range(), langsyntax.SeverityError, "initializer must produce a multi-value tuple for this declaration")
	}

	for i, nameID := range v.Names {
		var declared symbols.TypeInfo
		if i < len(v.DeclaredTypes) {
			declared = ctx.resolveType(v.DeclaredTypes[i])
		} else {
			declared = symbols.Unknown
		}

		finalType := declared
		if i < len(elemTypes) {
			if declared.Kind() != symbols.KindUnknown {
				checkAssignable(elemTypes[i], declared, v.Range(), ctx)
			} else {
				finalType = elemTypes[i]
			}
		} else if v.Init != nil && elemTypes != nil {
			ctx.diag(v.Range(), langsyntax.SeverityWarning, "initializer does not produce enough values for this declaration")
		}

		sym := &symbols.Symbol{
			Name:          ctx.name(nameID),
			SymbolKind:    symbols.SymbolVariable,
			Type:          finalType,
			DefiningRange: v.Range(),
			DefiningNode:  v,
			IsGlobal:      ctx.scope.Kind == symbols.ScopeModule || ctx.scope.Kind == symbols.ScopeGlobal,
			IsExported:    v.Flags().Has(ast.IsExport),
		}
		if prior, ok := ctx.scope.Define(sym); !ok {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%q is already declared in this scope (first declared at %s)", sym.Name, prior.DefiningRange)
		}
	}
}

func analyzeReturnStmt(v *ast.ReturnStmt, ctx *context) {
	var resultType symbols.TypeInfo
	switch len(v.Values) {
	case 0:
		resultType = symbols.Void
	case 1:
		resultType = inferExpr(v.Values[0], ctx)
	default:
		elems := make([]symbols.TypeInfo, len(v.Values))
		for i, e := range v.Values {
			elems[i] = inferExpr(e, ctx)
		}
		if tup, err := symbols.NewTuple(elems); err == nil {
			resultType = tup
		} else {
			resultType = symbols.Unknown
		}
	}

	if ctx.inferReturn {
		*ctx.collectedReturns = append(*ctx.collectedReturns, resultType)
		return
	}
	if ctx.expectedReturn == nil {
		ctx.diag(v.Range(), langsyntax.SeverityError, "return used outside a function")
		return
	}
	checkAssignable(resultType, ctx.expectedReturn, v.Range(), ctx)
}
