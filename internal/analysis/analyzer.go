package analysis

import (
	"fmt"

	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/langsyntax"
	"github.com/langls/server/internal/source"
	"github.com/langls/server/internal/symbols"
)

// context threads analyzer state explicitly through every call instead of
// keeping it on the Analyzer value itself (spec.md §9 redesign note:
// "implicit traversal state ... => explicit analyzer context struct" — the
// original_source reference carries the same state as private fields on
// SemanticAnalyzerVisitor; here it travels as an immutable-per-call value
// so concurrent analysis of independent files never race on shared state).
type context struct {
	result   *AnalysisResult
	scope    *symbols.Scope
	arena    *ast.Arena
	uri      string
	resolver ImportResolver

	visitedInStack map[string]bool

	expectedReturn   symbols.TypeInfo
	inferReturn      bool
	collectedReturns *[]symbols.TypeInfo

	loopDepth        int
	isInStaticMethod bool
	currentClass     *symbols.ClassType
}

func (ctx *context) name(id ast.StringID) string { return ctx.arena.Strings.Lookup(id) }

// withScope returns a shallow copy of ctx with Scope replaced, the idiom
// used every time analysis pushes a new lexical scope (block, function,
// class, for-loop init scope).
func (ctx *context) withScope(s *symbols.Scope) *context {
	c := *ctx
	c.scope = s
	return &c
}

func (ctx *context) diag(rng source.Range, severity langsyntax.Severity, format string, args ...any) {
	ctx.result.addDiagnostic(rng, severity, fmt.Sprintf(format, args...))
}

// Analyze runs the full semantic pass over one parsed file and returns a
// freshly populated AnalysisResult, per spec.md §4.F. resolver may be nil
// (e.g. in isolated tests); imports then fail to resolve and degrade to a
// diagnostic rather than a crash, consistent with the analyzer's
// never-panics contract.
func Analyze(uri string, version int, parse *langsyntax.ParseResult, resolver ImportResolver) *AnalysisResult {
	result := newResult(uri, version, parse)
	table := symbols.NewSymbolTable(parse.Root.Range())
	result.Symbols = table
	result.recordScope(table.Global)
	result.recordScope(table.Module)

	ctx := &context{
		result:         result,
		scope:          table.Module,
		arena:          parse.Arena,
		uri:            uri,
		resolver:       resolver,
		visitedInStack: map[string]bool{uri: true},
	}

	analyzeCompilationUnit(parse.Root, ctx)
	result.Done = true
	return result
}

func analyzeCompilationUnit(root *ast.CompilationUnit, ctx *context) {
	for _, imp := range root.Imports {
		analyzeImport(imp, ctx)
	}

	// Phase 1a: class stubs, so every class name (including forward and
	// mutually-referencing ones) resolves before any member or body is
	// examined.
	var classDecls []*ast.ClassDecl
	for _, d := range root.Decls {
		if cd, ok := d.(*ast.ClassDecl); ok {
			declareClassStub(cd, ctx)
			classDecls = append(classDecls, cd)
		}
	}

	// Phase 1b: top-level function stubs, so self- and mutually-recursive
	// calls resolve before any body is analyzed.
	for _, d := range root.Decls {
		if fd, ok := d.(*ast.FunctionDecl); ok {
			declareFunctionStub(fd, ctx)
		}
	}

	// Phase 1c: populate class members now that every class and function
	// name at module scope is declared.
	for _, cd := range classDecls {
		populateClassMembers(cd, ctx)
	}

	// Phase 2: bodies and remaining top-level declarations, in source
	// order.
	for _, d := range root.Decls {
		switch v := d.(type) {
		case *ast.ClassDecl:
			analyzeClassBody(v, ctx)
		case *ast.FunctionDecl:
			sym, ok := ctx.scope.ResolveLocally(ctx.name(v.Name))
			if ok {
				analyzeFunctionBody(v, sym, ctx)
			}
		case *ast.VarDecl:
			analyzeVarDeclStmt(v, ctx)
		case *ast.MultiVarDecl:
			analyzeMultiVarDeclStmt(v, ctx)
		case *ast.ExprStmt:
			inferExpr(v.Expr, ctx)
		case *ast.ErrorDecl:
			ctx.diag(v.Range(), langsyntax.SeverityError, "%s", v.Message)
		}
	}
}

func analyzeImport(imp *ast.ImportDecl, ctx *context) {
	if ctx.resolver == nil {
		ctx.diag(imp.Range(), langsyntax.SeverityError, "cannot resolve import %q: no workspace available", imp.Path)
		return
	}

	target, circular, found := ctx.resolver.ResolveAndAnalyze(ctx.uri, imp.Path, ctx.visitedInStack)
	if !found {
		ctx.diag(imp.Range(), langsyntax.SeverityError, "cannot resolve import %q", imp.Path)
		return
	}
	if circular {
		ctx.diag(imp.Range(), langsyntax.SeverityWarning, "circular import involving %q", imp.Path)
	}
	if target == nil {
		return
	}

	if imp.IsWildcard {
		alias := ctx.name(imp.Wildcard)
		modSym := &symbols.Symbol{
			Name:          alias,
			SymbolKind:    symbols.SymbolModule,
			Type:          symbols.ModuleType{Name: target.URI, Scope: target.Symbols.Module},
			DefiningRange: imp.Range(),
			DefiningNode:  imp,
			DefiningURI:   target.URI,
		}
		if prior, ok := ctx.scope.Define(modSym); !ok {
			ctx.diag(imp.Range(), langsyntax.SeverityError, "%q is already declared at %s", alias, prior.DefiningRange)
		}
		return
	}

	for _, item := range imp.Items {
		srcName := ctx.name(item.Name)
		aliasName := ctx.name(item.Alias)
		origSym, ok := target.Symbols.Module.ResolveLocally(srcName)
		if !ok || !origSym.IsExported {
			ctx.diag(imp.Range(), langsyntax.SeverityError, "module %q has no exported member %q", imp.Path, srcName)
			continue
		}
		boundSym := &symbols.Symbol{
			Name:          aliasName,
			SymbolKind:    origSym.SymbolKind,
			Type:          origSym.Type,
			DefiningRange: origSym.DefiningRange,
			DefiningNode:  origSym.DefiningNode,
			DefiningURI:   target.URI,
			Doc:           origSym.Doc,
		}
		if prior, ok := ctx.scope.Define(boundSym); !ok {
			ctx.diag(imp.Range(), langsyntax.SeverityError, "%q is already declared at %s", aliasName, prior.DefiningRange)
		}
	}
}

func declareFunctionStub(fd *ast.FunctionDecl, ctx *context) {
	name := ctx.name(fd.Name)
	sig := buildFunctionSignature(fd, ctx)
	sym := &symbols.Symbol{
		Name:          name,
		SymbolKind:    symbols.SymbolFunction,
		Type:          sig,
		DefiningRange: fd.Range(),
		DefiningNode:  fd,
		IsGlobal:      true,
		IsExported:    fd.Flags().Has(ast.IsExport),
	}
	if prior, ok := ctx.scope.Define(sym); !ok {
		ctx.diag(fd.Range(), langsyntax.SeverityError, "%q is already declared at %s", name, prior.DefiningRange)
	}
}

func buildFunctionSignature(fd *ast.FunctionDecl, ctx *context) symbols.FunctionSignature {
	params := make([]symbols.Param, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = symbols.Param{Name: ctx.name(p.Name), Type: ctx.resolveType(p.DeclaredType)}
	}
	ret := symbols.TypeInfo(symbols.Void)
	if fd.ReturnType != nil {
		ret = ctx.resolveType(fd.ReturnType)
	}
	return symbols.FunctionSignature{Params: params, ReturnType: ret}
}

func declareClassStub(cd *ast.ClassDecl, ctx *context) {
	name := ctx.name(cd.Name)
	classScope := symbols.NewClassScope(ctx.scope, cd.Range())
	ctx.result.recordScope(classScope)

	ct := symbols.ClassType{Name: name, ClassScope: classScope, DefiningURI: ctx.uri}
	sym := &symbols.Symbol{
		Name:          name,
		SymbolKind:    symbols.SymbolClass,
		Type:          ct,
		DefiningRange: cd.Range(),
		DefiningNode:  cd,
		IsGlobal:      true,
		IsExported:    cd.Flags().Has(ast.IsExport),
	}
	if prior, ok := ctx.scope.Define(sym); !ok {
		ctx.diag(cd.Range(), langsyntax.SeverityError, "%q is already declared at %s", name, prior.DefiningRange)
	}
}

// populateClassMembers declares fields and method signatures into a
// previously-stubbed class's scope. Split from declareClassStub so a class
// whose field or method type annotation names another class declared later
// in the same file still resolves (spec.md §4.F "inserted in two phases").
func populateClassMembers(cd *ast.ClassDecl, ctx *context) {
	name := ctx.name(cd.Name)
	sym, ok := ctx.scope.ResolveLocally(name)
	if !ok {
		return
	}
	ct, ok := sym.Type.(symbols.ClassType)
	if !ok {
		return
	}

	if extends := ctx.name(cd.Extends); extends != "" {
		if superSym, ok := ctx.scope.Resolve(extends); !ok || superSym.SymbolKind != symbols.SymbolClass {
			ctx.diag(cd.Range(), langsyntax.SeverityError, "unknown superclass %q", extends)
		}
	}

	for _, member := range cd.Members {
		switch m := member.(type) {
		case *ast.VarDecl:
			fieldSym := &symbols.Symbol{
				Name:          ctx.name(m.Name),
				SymbolKind:    symbols.SymbolVariable,
				Type:          ctx.resolveType(m.DeclaredType),
				DefiningRange: m.Range(),
				DefiningNode:  m,
				IsConst:       m.Flags().Has(ast.IsConst),
				IsStatic:      m.Flags().Has(ast.IsStatic),
			}
			if prior, ok := ct.ClassScope.Define(fieldSym); !ok {
				ctx.diag(m.Range(), langsyntax.SeverityError, "field %q is already declared at %s", fieldSym.Name, prior.DefiningRange)
			}
		case *ast.FunctionDecl:
			methodSym := &symbols.Symbol{
				Name:          ctx.name(m.Name),
				SymbolKind:    symbols.SymbolFunction,
				Type:          buildFunctionSignature(m, ctx),
				DefiningRange: m.Range(),
				DefiningNode:  m,
				IsStatic:      m.Flags().Has(ast.IsStatic),
			}
			if prior, ok := ct.ClassScope.Define(methodSym); !ok {
				ctx.diag(m.Range(), langsyntax.SeverityError, "method %q is already declared at %s", methodSym.Name, prior.DefiningRange)
			}
		case *ast.ErrorDecl:
			ctx.diag(m.Range(), langsyntax.SeverityError, "%s", m.Message)
		}
	}
}

// analyzeClassBody is phase 2 for a class: field initializers and method
// bodies, with currentClass pushed so `this` resolves (spec.md §4.F
// "Class analysis").
func analyzeClassBody(cd *ast.ClassDecl, ctx *context) {
	name := ctx.name(cd.Name)
	sym, ok := ctx.scope.ResolveLocally(name)
	if !ok {
		return
	}
	ct, ok := sym.Type.(symbols.ClassType)
	if !ok {
		return
	}
	classCtx := ctx.withScope(ct.ClassScope)
	classCtx.currentClass = &ct

	for _, member := range cd.Members {
		switch m := member.(type) {
		case *ast.VarDecl:
			if m.Init == nil {
				continue
			}
			fieldSym, ok := ct.ClassScope.ResolveLocally(ctx.name(m.Name))
			if !ok {
				continue
			}
			initType := inferExpr(m.Init, classCtx)
			if m.DeclaredType == nil {
				fieldSym.Type = initType
			} else {
				checkAssignable(initType, fieldSym.Type, m.Init.Range(), classCtx)
			}
		case *ast.FunctionDecl:
			methodSym, ok := ct.ClassScope.ResolveLocally(ctx.name(m.Name))
			if !ok {
				continue
			}
			methodCtx := *classCtx
			methodCtx.isInStaticMethod = m.Flags().Has(ast.IsStatic)
			analyzeFunctionBody(m, methodSym, &methodCtx)
		}
	}
}

// analyzeFunctionBody pushes a function scope, declares parameters, walks
// the body, and — for an unannotated return type — rewrites sym.Type with
// the type inferred from the function's own return statements.
func analyzeFunctionBody(fd *ast.FunctionDecl, sym *symbols.Symbol, ctx *context) {
	sig, _ := sym.Type.(symbols.FunctionSignature)

	funcScope := symbols.NewFunctionScope(ctx.scope, fd.Body.Range())
	ctx.result.recordScope(funcScope)
	bodyCtx := ctx.withScope(funcScope)
	bodyCtx.loopDepth = 0
	bodyCtx.expectedReturn = sig.ReturnType
	bodyCtx.inferReturn = fd.ReturnType == nil
	var collected []symbols.TypeInfo
	bodyCtx.collectedReturns = &collected

	for i, p := range fd.Params {
		var pType symbols.TypeInfo = symbols.Unknown
		if i < len(sig.Params) {
			pType = sig.Params[i].Type
		}
		paramSym := &symbols.Symbol{
			Name:          ctx.name(p.Name),
			SymbolKind:    symbols.SymbolParameter,
			Type:          pType,
			DefiningRange: p.Range(),
			DefiningNode:  p,
		}
		if prior, ok := funcScope.Define(paramSym); !ok {
			ctx.diag(p.Range(), langsyntax.SeverityError, "parameter %q is already declared at %s", paramSym.Name, prior.DefiningRange)
		}
		if p.Default != nil {
			defType := inferExpr(p.Default, bodyCtx)
			checkAssignable(defType, pType, p.Default.Range(), bodyCtx)
		}
	}

	// The body's own Block is merged into the function scope rather than
	// given a nested block scope of its own — the function's parameters
	// and its top-level locals share one lexical level, matching the
	// common "function scope doubles as its outermost block" shape.
	for _, st := range fd.Body.Stmts {
		analyzeStmt(st, bodyCtx)
	}

	if bodyCtx.inferReturn {
		sig.ReturnType = reduceReturnTypes(collected)
		sym.Type = sig
	}
}

func reduceReturnTypes(collected []symbols.TypeInfo) symbols.TypeInfo {
	switch len(collected) {
	case 0:
		return symbols.Void
	case 1:
		return collected[0]
	}
	if allEqual(collected) {
		return collected[0]
	}
	if u, err := symbols.NewUnion(collected); err == nil {
		return u
	}
	return collected[0]
}

func allEqual(types []symbols.TypeInfo) bool {
	for _, t := range types[1:] {
		if !symbols.Equal(types[0], t) {
			return false
		}
	}
	return true
}

// resolveType turns a syntactic type annotation into a TypeInfo, per
// spec.md §4.F's operator-typing-adjacent "resolve type annotation"
// responsibility (named `resolveTypeFromContext` in the original_source
// reference). nil (an omitted annotation) resolves to Unknown; the caller
// decides whether that omission is itself an error.
func (ctx *context) resolveType(tn ast.TypeNode) symbols.TypeInfo {
	if tn == nil {
		return symbols.Unknown
	}
	switch t := tn.(type) {
	case *ast.TypeRef:
		return ctx.resolveNamedType(t)
	case *ast.ListTypeRef:
		return symbols.List{Element: ctx.resolveType(t.Element)}
	case *ast.MapTypeRef:
		return symbols.Map{Key: ctx.resolveType(t.Key), Value: ctx.resolveType(t.Value)}
	case *ast.FunctionTypeRef:
		params := make([]symbols.Param, len(t.Params))
		for i, p := range t.Params {
			params[i] = symbols.Param{Type: ctx.resolveType(p)}
		}
		return symbols.FunctionSignature{Params: params, ReturnType: ctx.resolveType(t.Return)}
	case *ast.UnionTypeRef:
		members := make([]symbols.TypeInfo, len(t.Members))
		for i, m := range t.Members {
			members[i] = ctx.resolveType(m)
		}
		u, err := symbols.NewUnion(members)
		if err != nil {
			ctx.diag(t.Range(), langsyntax.SeverityError, "%s", err.Error())
			return symbols.Unknown
		}
		return u
	case *ast.ErrorType:
		return symbols.Unknown
	default:
		return symbols.Unknown
	}
}

func (ctx *context) resolveNamedType(t *ast.TypeRef) symbols.TypeInfo {
	name := ctx.name(t.Name)
	switch name {
	case "int":
		return symbols.Int
	case "float":
		return symbols.Float
	case "bool":
		return symbols.Bool
	case "string":
		return symbols.String
	case "any":
		return symbols.Any
	case "void":
		return symbols.Void
	case "null":
		return symbols.Null
	case "number":
		return symbols.Number
	case "function":
		return symbols.Function
	case "coroutine":
		return symbols.Coroutine
	}
	if sym, ok := ctx.scope.Resolve(name); ok {
		switch sym.SymbolKind {
		case symbols.SymbolClass, symbols.SymbolTypeAlias, symbols.SymbolBuiltinType:
			return sym.Type
		}
	}
	ctx.diag(t.Range(), langsyntax.SeverityError, "unknown type %q", name)
	return symbols.Unknown
}

func checkAssignable(sourceType, targetType symbols.TypeInfo, rng source.Range, ctx *context) {
	if targetType == nil || targetType.Kind() == symbols.KindUnknown {
		return
	}
	if sourceType == nil || sourceType.Kind() == symbols.KindUnknown {
		return
	}
	res := symbols.IsAssignable(sourceType, targetType)
	if !res.Allowed {
		ctx.diag(rng, langsyntax.SeverityError, "cannot assign %s to %s", sourceType, targetType)
		return
	}
	if res.Warning != "" {
		ctx.diag(rng, langsyntax.SeverityWarning, "%s", res.Warning)
	}
}
