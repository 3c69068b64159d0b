package ast

import "github.com/langls/server/internal/source"

// Arena is the bump allocator for one file's AST plus the Interner used
// while building it. internal/langsyntax holds one Arena per parse and
// discards it wholesale when the file's AnalysisResult is replaced, so
// individual node frees are never needed.
type Arena struct {
	Strings *Interner

	compilationUnits typedArena[CompilationUnit]
	varDecls         typedArena[VarDecl]
	multiVarDecls    typedArena[MultiVarDecl]
	paramDecls       typedArena[ParamDecl]
	functionDecls    typedArena[FunctionDecl]
	classDecls       typedArena[ClassDecl]
	importDecls      typedArena[ImportDecl]
	errorDecls       typedArena[ErrorDecl]

	blocks        typedArena[Block]
	exprStmts     typedArena[ExprStmt]
	returnStmts   typedArena[ReturnStmt]
	ifStmts       typedArena[IfStmt]
	whileStmts    typedArena[WhileStmt]
	forStmts      typedArena[ForStmt]
	breakStmts    typedArena[BreakStmt]
	continueStmts typedArena[ContinueStmt]
	deferStmts    typedArena[DeferStmt]
	errorStmts    typedArena[ErrorStmt]

	identifiers       typedArena[Identifier]
	intLiterals       typedArena[IntLiteral]
	floatLiterals     typedArena[FloatLiteral]
	stringLiterals    typedArena[StringLiteral]
	boolLiterals      typedArena[BoolLiteral]
	nullLiterals      typedArena[NullLiteral]
	binaryExprs       typedArena[BinaryExpr]
	unaryExprs        typedArena[UnaryExpr]
	assignExprs       typedArena[AssignExpr]
	callExprs         typedArena[CallExpr]
	memberAccessExprs typedArena[MemberAccessExpr]
	colonLookupExprs  typedArena[ColonLookupExpr]
	indexExprs        typedArena[IndexExpr]
	newExprs          typedArena[NewExpr]
	listExprs         typedArena[ListExpr]
	mapExprs          typedArena[MapExpr]
	tupleExprs        typedArena[TupleExpr]
	thisExprs         typedArena[ThisExpr]
	lambdaExprs       typedArena[LambdaExpr]
	errorExprs        typedArena[ErrorExpr]
	missingExprs      typedArena[MissingExpr]

	typeRefs         typedArena[TypeRef]
	listTypeRefs     typedArena[ListTypeRef]
	mapTypeRefs      typedArena[MapTypeRef]
	functionTypeRefs typedArena[FunctionTypeRef]
	unionTypeRefs    typedArena[UnionTypeRef]
	errorTypes       typedArena[ErrorType]
}

// NewArena returns an empty Arena with a fresh Interner.
func NewArena() *Arena {
	return &Arena{Strings: NewInterner()}
}

func (a *Arena) NewCompilationUnit(rng source.Range, imports []*ImportDecl, decls []Decl) *CompilationUnit {
	n := a.compilationUnits.new()
	n.base = base{kind: KindCompilationUnit, rng: rng}
	n.Imports, n.Decls = imports, decls
	for _, d := range decls {
		if d.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	return n
}

func (a *Arena) NewVarDecl(rng source.Range, name StringID, declType TypeNode, init Expr, flags Flags) *VarDecl {
	n := a.varDecls.new()
	n.base = base{kind: KindVarDecl, rng: rng, flags: flags | propagated(declType, init)}
	n.Name, n.DeclaredType, n.Init = name, declType, init
	return n
}

func (a *Arena) NewMultiVarDecl(rng source.Range, names []StringID, types []TypeNode, init Expr, flags Flags) *MultiVarDecl {
	n := a.multiVarDecls.new()
	n.base = base{kind: KindMultiVarDecl, rng: rng, flags: flags | propagated(init)}
	n.Names, n.DeclaredTypes, n.Init = names, types, init
	return n
}

func (a *Arena) NewParamDecl(rng source.Range, name StringID, declType TypeNode, def Expr) *ParamDecl {
	n := a.paramDecls.new()
	n.base = base{kind: KindParamDecl, rng: rng, flags: propagated(declType, def)}
	n.Name, n.DeclaredType, n.Default = name, declType, def
	return n
}

func (a *Arena) NewFunctionDecl(rng source.Range, name StringID, params []*ParamDecl, ret TypeNode, body *Block, flags Flags) *FunctionDecl {
	n := a.functionDecls.new()
	n.base = base{kind: KindFunctionDecl, rng: rng, flags: flags | propagated(ret, body)}
	n.Name, n.Params, n.ReturnType, n.Body = name, params, ret, body
	return n
}

func (a *Arena) NewClassDecl(rng source.Range, name, extends StringID, members []Decl, flags Flags) *ClassDecl {
	n := a.classDecls.new()
	n.base = base{kind: KindClassDecl, rng: rng, flags: flags}
	for _, m := range members {
		if m.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Name, n.Extends, n.Members = name, extends, members
	return n
}

func (a *Arena) NewImportDecl(rng source.Range, path string, wildcard StringID, isWildcard bool, items []ImportItem) *ImportDecl {
	n := a.importDecls.new()
	n.base = base{kind: KindImportDecl, rng: rng}
	n.Path, n.Wildcard, n.IsWildcard, n.Items = path, wildcard, isWildcard, items
	return n
}

func (a *Arena) NewErrorDecl(rng source.Range, msg string) *ErrorDecl {
	n := a.errorDecls.new()
	n.base = base{kind: KindErrorDecl, rng: rng, flags: HasError}
	n.Message = msg
	return n
}

func (a *Arena) NewBlock(rng source.Range, stmts []Stmt) *Block {
	n := a.blocks.new()
	n.base = base{kind: KindBlock, rng: rng}
	for _, s := range stmts {
		if s.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Stmts = stmts
	return n
}

func (a *Arena) NewExprStmt(rng source.Range, expr Expr) *ExprStmt {
	n := a.exprStmts.new()
	n.base = base{kind: KindExprStmt, rng: rng, flags: propagated(expr)}
	n.Expr = expr
	return n
}

func (a *Arena) NewReturnStmt(rng source.Range, values []Expr) *ReturnStmt {
	n := a.returnStmts.new()
	n.base = base{kind: KindReturnStmt, rng: rng}
	for _, v := range values {
		if v.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Values = values
	return n
}

func (a *Arena) NewIfStmt(rng source.Range, cond Expr, then *Block, els Stmt) *IfStmt {
	n := a.ifStmts.new()
	n.base = base{kind: KindIfStmt, rng: rng, flags: propagated(cond, then, els)}
	n.Cond, n.Then, n.Else = cond, then, els
	return n
}

func (a *Arena) NewWhileStmt(rng source.Range, cond Expr, body *Block) *WhileStmt {
	n := a.whileStmts.new()
	n.base = base{kind: KindWhileStmt, rng: rng, flags: propagated(cond, body)}
	n.Cond, n.Body = cond, body
	return n
}

func (a *Arena) NewForStmt(rng source.Range, init Stmt, cond Expr, post Stmt, body *Block) *ForStmt {
	n := a.forStmts.new()
	n.base = base{kind: KindForStmt, rng: rng, flags: propagated(init, cond, post, body)}
	n.Init, n.Cond, n.Post, n.Body = init, cond, post, body
	return n
}

func (a *Arena) NewBreakStmt(rng source.Range) *BreakStmt {
	n := a.breakStmts.new()
	n.base = base{kind: KindBreakStmt, rng: rng}
	return n
}

func (a *Arena) NewContinueStmt(rng source.Range) *ContinueStmt {
	n := a.continueStmts.new()
	n.base = base{kind: KindContinueStmt, rng: rng}
	return n
}

func (a *Arena) NewDeferStmt(rng source.Range, body *Block) *DeferStmt {
	n := a.deferStmts.new()
	n.base = base{kind: KindDeferStmt, rng: rng, flags: propagated(body)}
	n.Body = body
	return n
}

func (a *Arena) NewErrorStmt(rng source.Range, msg string) *ErrorStmt {
	n := a.errorStmts.new()
	n.base = base{kind: KindErrorStmt, rng: rng, flags: HasError}
	n.Message = msg
	return n
}

func (a *Arena) NewIdentifier(rng source.Range, name StringID) *Identifier {
	n := a.identifiers.new()
	n.base = base{kind: KindIdentifier, rng: rng}
	n.Name = name
	return n
}

func (a *Arena) NewIntLiteral(rng source.Range, v int64) *IntLiteral {
	n := a.intLiterals.new()
	n.base = base{kind: KindIntLiteral, rng: rng}
	n.Value = v
	return n
}

func (a *Arena) NewFloatLiteral(rng source.Range, v float64) *FloatLiteral {
	n := a.floatLiterals.new()
	n.base = base{kind: KindFloatLiteral, rng: rng}
	n.Value = v
	return n
}

func (a *Arena) NewStringLiteral(rng source.Range, v StringID) *StringLiteral {
	n := a.stringLiterals.new()
	n.base = base{kind: KindStringLiteral, rng: rng}
	n.Value = v
	return n
}

func (a *Arena) NewBoolLiteral(rng source.Range, v bool) *BoolLiteral {
	n := a.boolLiterals.new()
	n.base = base{kind: KindBoolLiteral, rng: rng}
	n.Value = v
	return n
}

func (a *Arena) NewNullLiteral(rng source.Range) *NullLiteral {
	n := a.nullLiterals.new()
	n.base = base{kind: KindNullLiteral, rng: rng}
	return n
}

func (a *Arena) NewBinaryExpr(rng source.Range, op Operator, left, right Expr) *BinaryExpr {
	n := a.binaryExprs.new()
	n.base = base{kind: KindBinaryExpr, rng: rng, flags: propagated(left, right)}
	n.Op, n.Left, n.Right = op, left, right
	return n
}

func (a *Arena) NewUnaryExpr(rng source.Range, op Operator, operand Expr) *UnaryExpr {
	n := a.unaryExprs.new()
	n.base = base{kind: KindUnaryExpr, rng: rng, flags: propagated(operand)}
	n.Op, n.Operand = op, operand
	return n
}

func (a *Arena) NewAssignExpr(rng source.Range, target, value Expr) *AssignExpr {
	n := a.assignExprs.new()
	n.base = base{kind: KindAssignExpr, rng: rng, flags: propagated(target, value)}
	n.Target, n.Value = target, value
	return n
}

func (a *Arena) NewCallExpr(rng source.Range, callee Expr, args []Expr) *CallExpr {
	n := a.callExprs.new()
	n.base = base{kind: KindCallExpr, rng: rng, flags: propagated(callee)}
	for _, arg := range args {
		if arg.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Callee, n.Args = callee, args
	return n
}

// NewMemberAccessExpr sets Incomplete (and the node's Incomplete flag) when
// no member name token followed the dot, e.g. a cursor sitting right after
// `obj.`.
func (a *Arena) NewMemberAccessExpr(rng source.Range, object Expr, member StringID, incomplete bool) *MemberAccessExpr {
	n := a.memberAccessExprs.new()
	flags := propagated(object)
	if incomplete {
		flags |= Incomplete
	}
	n.base = base{kind: KindMemberAccessExpr, rng: rng, flags: flags}
	n.Object, n.Member, n.Incomplete = object, member, incomplete
	return n
}

func (a *Arena) NewColonLookupExpr(rng source.Range, object Expr, method StringID, incomplete bool) *ColonLookupExpr {
	n := a.colonLookupExprs.new()
	flags := propagated(object)
	if incomplete {
		flags |= Incomplete
	}
	n.base = base{kind: KindColonLookupExpr, rng: rng, flags: flags}
	n.Object, n.Method, n.Incomplete = object, method, incomplete
	return n
}

func (a *Arena) NewIndexExpr(rng source.Range, object, index Expr) *IndexExpr {
	n := a.indexExprs.new()
	n.base = base{kind: KindIndexExpr, rng: rng, flags: propagated(object, index)}
	n.Object, n.Index = object, index
	return n
}

func (a *Arena) NewNewExpr(rng source.Range, className QualifiedName, args []Expr) *NewExpr {
	n := a.newExprs.new()
	n.base = base{kind: KindNewExpr, rng: rng}
	if len(className.Segments) == 0 {
		n.flags |= HasError
	}
	for _, arg := range args {
		if arg.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.ClassName, n.Args = className, args
	return n
}

func (a *Arena) NewListExpr(rng source.Range, elements []Expr) *ListExpr {
	n := a.listExprs.new()
	n.base = base{kind: KindListExpr, rng: rng}
	for _, e := range elements {
		if e.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Elements = elements
	return n
}

func (a *Arena) NewMapExpr(rng source.Range, entries []MapEntry) *MapExpr {
	n := a.mapExprs.new()
	n.base = base{kind: KindMapExpr, rng: rng}
	for _, e := range entries {
		if e.Key.Flags().Has(HasError) || e.Value.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Entries = entries
	return n
}

func (a *Arena) NewTupleExpr(rng source.Range, elements []Expr) *TupleExpr {
	n := a.tupleExprs.new()
	n.base = base{kind: KindTupleExpr, rng: rng}
	for _, e := range elements {
		if e.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Elements = elements
	return n
}

func (a *Arena) NewThisExpr(rng source.Range) *ThisExpr {
	n := a.thisExprs.new()
	n.base = base{kind: KindThisExpr, rng: rng}
	return n
}

func (a *Arena) NewLambdaExpr(rng source.Range, params []*ParamDecl, body *Block) *LambdaExpr {
	n := a.lambdaExprs.new()
	n.base = base{kind: KindLambdaExpr, rng: rng, flags: propagated(body)}
	n.Params, n.Body = params, body
	return n
}

// NewErrorExpr synthesizes a node for a malformed-but-present expression;
// HasError is always set.
func (a *Arena) NewErrorExpr(rng source.Range, msg string) *ErrorExpr {
	n := a.errorExprs.new()
	n.base = base{kind: KindErrorExpr, rng: rng, flags: HasError}
	n.Message = msg
	return n
}

// NewMissingExpr synthesizes a node for an expression position with no
// token at all; HasError and Incomplete are both set.
func (a *Arena) NewMissingExpr(rng source.Range) *MissingExpr {
	n := a.missingExprs.new()
	n.base = base{kind: KindMissingExpr, rng: rng, flags: HasError | Incomplete}
	return n
}

func (a *Arena) NewTypeRef(rng source.Range, name StringID) *TypeRef {
	n := a.typeRefs.new()
	n.base = base{kind: KindTypeRef, rng: rng}
	n.Name = name
	return n
}

func (a *Arena) NewListTypeRef(rng source.Range, elem TypeNode) *ListTypeRef {
	n := a.listTypeRefs.new()
	n.base = base{kind: KindListTypeRef, rng: rng, flags: propagated(elem)}
	n.Element = elem
	return n
}

func (a *Arena) NewMapTypeRef(rng source.Range, key, value TypeNode) *MapTypeRef {
	n := a.mapTypeRefs.new()
	n.base = base{kind: KindMapTypeRef, rng: rng, flags: propagated(key, value)}
	n.Key, n.Value = key, value
	return n
}

func (a *Arena) NewFunctionTypeRef(rng source.Range, params []TypeNode, ret TypeNode) *FunctionTypeRef {
	n := a.functionTypeRefs.new()
	n.base = base{kind: KindFunctionTypeRef, rng: rng, flags: propagated(ret)}
	for _, p := range params {
		if p.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Params, n.Return = params, ret
	return n
}

func (a *Arena) NewUnionTypeRef(rng source.Range, members []TypeNode) *UnionTypeRef {
	n := a.unionTypeRefs.new()
	n.base = base{kind: KindUnionTypeRef, rng: rng}
	for _, m := range members {
		if m.Flags().Has(HasError) {
			n.flags |= HasError
		}
	}
	n.Members = members
	return n
}

func (a *Arena) NewErrorType(rng source.Range, msg string) *ErrorType {
	n := a.errorTypes.new()
	n.base = base{kind: KindErrorType, rng: rng, flags: HasError}
	n.Message = msg
	return n
}

// propagated ORs together the HasError flag of every non-nil Node argument,
// so a parent automatically inherits HasError from any child without every
// constructor repeating the same loop.
func propagated(nodes ...Node) Flags {
	var f Flags
	for _, n := range nodes {
		if n != nil && n.Flags().Has(HasError) {
			f |= HasError
		}
	}
	return f
}
