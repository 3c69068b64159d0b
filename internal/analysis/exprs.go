package analysis

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/symbols"
)

// inferExpr infers e's type, caches it into NodeTypes, and returns it.
// Every expression passes through here exactly once per visit so hover
// (spec.md §4.H) never has to re-run inference at query time.
func inferExpr(e ast.Expr, ctx *context) symbols.TypeInfo {
	t := inferExprRaw(e, ctx)
	if t == nil {
		t = symbols.Unknown
	}
	ctx.result.NodeTypes[e] = t
	return t
}

func inferExprRaw(e ast.Expr, ctx *context) symbols.TypeInfo {
	switch v := e.(type) {
	case *ast.Identifier:
		return inferIdentifier(v, ctx)
	case *ast.IntLiteral:
		return symbols.Int
	case *ast.FloatLiteral:
		return symbols.Float
	case *ast.StringLiteral:
		return symbols.String
	case *ast.BoolLiteral:
		return symbols.Bool
	case *ast.NullLiteral:
		return symbols.Null
	case *ast.BinaryExpr:
		left := inferExpr(v.Left, ctx)
		right := inferExpr(v.Right, ctx)
		t, msg := binaryResult(string(v.Op), left, right)
		if msg != "" {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s", msg)
		}
		return t
	case *ast.UnaryExpr:
		operand := inferExpr(v.Operand, ctx)
		t, msg := unaryResult(string(v.Op), operand)
		if msg != "" {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s", msg)
		}
		return t
	case *ast.AssignExpr:
		targetType := inferExpr(v.Target, ctx)
		valueType := inferExpr(v.Value, ctx)
		checkAssignable(valueType, targetType, v.Range(), ctx)
		return targetType
	case *ast.CallExpr:
		return inferCall(v, ctx)
	case *ast.MemberAccessExpr:
		return inferMemberAccess(v, ctx)
	case *ast.ColonLookupExpr:
		return inferColonLookup(v, ctx)
	case *ast.IndexExpr:
		return inferIndex(v, ctx)
	case *ast.NewExpr:
		return inferNew(v, ctx)
	case *ast.ListExpr:
		return inferList(v, ctx)
	case *ast.MapExpr:
		return inferMap(v, ctx)
	case *ast.TupleExpr:
		return inferTuple(v, ctx)
	case *ast.ThisExpr:
		return inferThis(v, ctx)
	case *ast.LambdaExpr:
		return inferLambda(v, ctx)
	case *ast.ErrorExpr, *ast.MissingExpr:
		return symbols.Unknown
	default:
		return symbols.Unknown
	}
}

// inferIdentifier resolves a bare name against the lexical scope chain
// first, then — inside a method body — against the enclosing class's
// members, matching the implicit-`this` member access spec.md §4.F
// describes for "Class analysis".
func inferIdentifier(v *ast.Identifier, ctx *context) symbols.TypeInfo {
	name := ctx.name(v.Name)

	if sym, ok := ctx.scope.Resolve(name); ok {
		ctx.result.NodeSymbols[v] = sym
		return sym.Type
	}

	if ctx.currentClass != nil {
		if sym, ok := ctx.currentClass.ClassScope.ResolveLocally(name); ok {
			if ctx.isInStaticMethod && !sym.IsStatic {
				ctx.diag(v.Range(), langsyntax.SeverityError, "cannot reference instance member %q without an object in a static method", name)
				return symbols.Unknown
			}
			ctx.result.NodeSymbols[v] = sym
			return sym.Type
		}
	}

	ctx.diag(v.Range(), langsyntax.SeverityError, "undefined name %q", name)
	return symbols.Unknown
}

func inferThis(v *ast.ThisExpr, ctx *context) symbols.TypeInfo {
	if ctx.currentClass == nil {
		ctx.diag(v.Range(), langsyntax.SeverityError, "this is only valid inside a method")
		return symbols.Unknown
	}
	if ctx.isInStaticMethod {
		ctx.diag(v.Range(), langsyntax.SeverityError, "this is not valid inside a static method")
		return symbols.Unknown
	}
	return *ctx.currentClass
}

func inferCall(v *ast.CallExpr, ctx *context) symbols.TypeInfo {
	calleeType := inferExpr(v.Callee, ctx)
	argTypes := make([]symbols.TypeInfo, len(v.Args))
	for i, a := range v.Args {
		argTypes[i] = inferExpr(a, ctx)
	}

	sig, ok := calleeType.(symbols.FunctionSignature)
	if !ok {
		if calleeType.Kind() != symbols.KindUnknown && calleeType.Kind() != symbols.KindAny {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s is not callable", calleeType)
		}
		return symbols.Unknown
	}

	for i, at := range argTypes {
		switch {
		case i < len(sig.Params):
			checkAssignable(at, sig.Params[i].Type, v.Args[i].Range(), ctx)
		case !sig.IsVariadic:
			ctx.diag(v.Args[i].Range(), langsyntax.SeverityError, "too many arguments")
		}
	}

	if sig.IsMultiReturn {
		if tup, ok := sig.ReturnType.(symbols.Tuple); ok {
			return tup
		}
	}
	return sig.ReturnType
}

func inferMemberAccess(v *ast.MemberAccessExpr, ctx *context) symbols.TypeInfo {
	objType := inferExpr(v.Object, ctx)
	if v.Incomplete {
		// A trailing `obj.` with no name yet: nothing to resolve, and
		// internal/position (not here) is what answers the completion
		// request this shape exists for.
		return symbols.Unknown
	}

	memberName := ctx.name(v.Member)
	switch ot := objType.(type) {
	case symbols.ClassType:
		if sym, ok := ot.ClassScope.ResolveLocally(memberName); ok {
			ctx.result.NodeSymbols[v] = sym
			return sym.Type
		}
		ctx.diag(v.Range(), langsyntax.SeverityError, "%s has no member %q", ot.Name, memberName)
		return symbols.Unknown
	case symbols.ModuleType:
		if sym, ok := ot.Scope.ResolveLocally(memberName); ok && sym.IsExported {
			ctx.result.NodeSymbols[v] = sym
			return sym.Type
		}
		ctx.diag(v.Range(), langsyntax.SeverityError, "module has no exported member %q", memberName)
		return symbols.Unknown
	default:
		if objType.Kind() == symbols.KindAny || objType.Kind() == symbols.KindUnknown {
			return symbols.Unknown
		}
		ctx.diag(v.Range(), langsyntax.SeverityError, "%s has no member %q", objType, memberName)
		return symbols.Unknown
	}
}

func inferColonLookup(v *ast.ColonLookupExpr, ctx *context) symbols.TypeInfo {
	objType := inferExpr(v.Object, ctx)
	if v.Incomplete {
		return symbols.Unknown
	}
	name := ctx.name(v.Method)

	ct, ok := objType.(symbols.ClassType)
	if !ok {
		if objType.Kind() != symbols.KindAny && objType.Kind() != symbols.KindUnknown {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s has no method %q", objType, name)
		}
		return symbols.Unknown
	}
	sym, ok := ct.ClassScope.ResolveLocally(name)
	if !ok || sym.SymbolKind != symbols.SymbolFunction {
		ctx.diag(v.Range(), langsyntax.SeverityError, "%s has no method %q", ct.Name, name)
		return symbols.Unknown
	}
	ctx.result.NodeSymbols[v] = sym
	return sym.Type
}

func inferIndex(v *ast.IndexExpr, ctx *context) symbols.TypeInfo {
	objType := inferExpr(v.Object, ctx)
	idxType := inferExpr(v.Index, ctx)

	switch ot := objType.(type) {
	case symbols.List:
		if idxType.Kind() != symbols.KindInt && idxType.Kind() != symbols.KindAny && idxType.Kind() != symbols.KindUnknown {
			ctx.diag(v.Index.Range(), langsyntax.SeverityError, "list index must be int, got %s", idxType)
		}
		return ot.Element
	case symbols.Map:
		checkAssignable(idxType, ot.Key, v.Index.Range(), ctx)
		return ot.Value
	case symbols.Tuple:
		// Tuple indices are only meaningful as integer literals; without
		// constant-folding the per-slot element type, degrade to Unknown
		// rather than guess.
		return symbols.Unknown
	default:
		if objType.Kind() != symbols.KindAny && objType.Kind() != symbols.KindUnknown {
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s is not indexable", objType)
		}
		return symbols.Unknown
	}
}

func inferNew(v *ast.NewExpr, ctx *context) symbols.TypeInfo {
	for _, a := range v.Args {
		inferExpr(a, ctx)
	}
	if len(v.ClassName.Segments) == 0 {
		return symbols.Unknown
	}
	// Lang has no package-qualification system of its own beyond import
	// aliases, so a dotted `new a.B(...)` resolves on its final segment —
	// the simple class name — exactly as a named import binds it locally.
	name := ctx.name(v.ClassName.Segments[len(v.ClassName.Segments)-1])
	sym, ok := ctx.scope.Resolve(name)
	if !ok || sym.SymbolKind != symbols.SymbolClass {
		ctx.diag(v.Range(), langsyntax.SeverityError, "unknown class %q", name)
		return symbols.Unknown
	}
	ctx.result.NodeSymbols[v] = sym
	return sym.Type
}

func inferList(v *ast.ListExpr, ctx *context) symbols.TypeInfo {
	if len(v.Elements) == 0 {
		return symbols.List{Element: symbols.Any}
	}
	elem := inferExpr(v.Elements[0], ctx)
	for _, e := range v.Elements[1:] {
		t := inferExpr(e, ctx)
		if !symbols.Equal(elem, t) {
			elem = symbols.Any
		}
	}
	return symbols.List{Element: elem}
}

func inferMap(v *ast.MapExpr, ctx *context) symbols.TypeInfo {
	if len(v.Entries) == 0 {
		return symbols.Map{Key: symbols.Any, Value: symbols.Any}
	}
	var keyType, valType symbols.TypeInfo
	for i, ent := range v.Entries {
		kt := inferExpr(ent.Key, ctx)
		vt := inferExpr(ent.Value, ctx)
		if i == 0 {
			keyType, valType = kt, vt
			continue
		}
		if !symbols.Equal(keyType, kt) {
			keyType = symbols.Any
		}
		if !symbols.Equal(valType, vt) {
			valType = symbols.Any
		}
	}
	return symbols.Map{Key: keyType, Value: valType}
}

func inferTuple(v *ast.TupleExpr, ctx *context) symbols.TypeInfo {
	elems := make([]symbols.TypeInfo, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = inferExpr(e, ctx)
	}
	tup, err := symbols.NewTuple(elems)
	if err != nil {
		ctx.diag(v.Range(), langsyntax.SeverityError, "%s", err.Error())
		return symbols.Unknown
	}
	return tup
}

// inferLambda analyzes a lambda body in its own function scope, inferring
// its return type from its own return statements exactly like an
// unannotated top-level function (lambdas carry no return-type syntax at
// all, per internal/langsyntax's grammar).
func inferLambda(v *ast.LambdaExpr, ctx *context) symbols.TypeInfo {
	lambdaScope := symbols.NewFunctionScope(ctx.scope, v.Body.Range())
	ctx.result.recordScope(lambdaScope)
	lambdaCtx := ctx.withScope(lambdaScope)
	lambdaCtx.loopDepth = 0

	params := make([]symbols.Param, len(v.Params))
	for i, p := range v.Params {
		pt := ctx.resolveType(p.DeclaredType)
		params[i] = symbols.Param{Name: ctx.name(p.Name), Type: pt}
		psym := &symbols.Symbol{
			Name:          ctx.name(p.Name),
			SymbolKind:    symbols.SymbolParameter,
			Type:          pt,
			DefiningRange: p.Range(),
			DefiningNode:  p,
		}
		if prior, ok := lambdaScope.Define(psym); !ok {
			ctx.diag(p.Range(), langsyntax.SeverityError, "parameter %q is already declared at %s", psym.Name, prior.DefiningRange)
		}
		if p.Default != nil {
			defType := inferExpr(p.Default, lambdaCtx)
			checkAssignable(defType, pt, p.Default.Range(), lambdaCtx)
		}
	}

	var collected []symbols.TypeInfo
	lambdaCtx.inferReturn = true
	lambdaCtx.collectedReturns = &collected
	lambdaCtx.expectedReturn = nil

	for _, st := range v.Body.Stmts {
		analyzeStmt(st, lambdaCtx)
	}

	return symbols.FunctionSignature{Params: params, ReturnType: reduceReturnTypes(collected)}
}
