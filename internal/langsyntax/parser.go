package langsyntax

import (
	"github.com/langls/server/internal/ast"
	"github.com/langls/server/internal/source"
)

// parser is a hand-written recursive-descent, panic-mode-recovery parser
// that builds the tolerant AST directly (spec.md §4.B + §4.D merged, since
// no separate CST representation exists in this implementation). It never
// returns an error; malformed input becomes Error/Missing nodes plus a
// diagnostic, exactly as spec.md §4.C/§4.D mandate.
type parser struct {
	toks  []Token
	pos   int
	arena *ast.Arena
	diags []Diagnostic
}

func newParser(toks []Token, arena *ast.Arena) *parser {
	return &parser{toks: toks, arena: arena}
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) at(kind TokenKind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *parser) atAny(kind TokenKind, texts ...string) bool {
	for _, t := range texts {
		if p.at(kind, t) {
			return true
		}
	}
	return false
}

func (p *parser) advance() Token {
	t := p.cur()
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

// expect consumes a token of the given kind/text, or reports a diagnostic
// and leaves the cursor in place so callers can recover.
func (p *parser) expect(kind TokenKind, text string) (Token, bool) {
	if p.at(kind, text) {
		return p.advance(), true
	}
	t := p.cur()
	p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError,
		"expected %q, found %q", text, t.Text))
	return t, false
}

func (p *parser) tokRange(t Token) source.Range {
	return source.Range{
		Start: source.Position{Line: t.Line, Column: t.Col},
		End:   source.Position{Line: t.EndLine, Column: t.EndCol},
	}
}

func (p *parser) rangeFrom(start Token) source.Range {
	end := p.toks[p.pos-1]
	if p.pos == 0 {
		end = start
	}
	return source.Range{
		Start: source.Position{Line: start.Line, Column: start.Col},
		End:   source.Position{Line: end.EndLine, Column: end.EndCol},
	}
}

// synchronize discards tokens until a plausible statement/declaration
// boundary, the panic-mode recovery spec.md §4.B calls for.
func (p *parser) synchronize() {
	for !p.at(TokEOF, "") {
		if p.at(TokPunct, ";") {
			p.advance()
			return
		}
		if p.atAny(TokKeyword, "class", "export", "import", "if", "while", "for", "return", "break", "continue", "defer") {
			return
		}
		if p.at(TokPunct, "}") {
			return
		}
		p.advance()
	}
}

// Parse lexes and parses src into a CompilationUnit, recording diagnostics
// along the way. Parsing never fails outright; worst case the result is a
// CompilationUnit with only Error/Missing declarations.
func Parse(src string, arena *ast.Arena) (*ast.CompilationUnit, []Diagnostic) {
	toks := tokenize(src)
	p := newParser(toks, arena)
	return p.parseCompilationUnit(), p.diags
}

func (p *parser) parseCompilationUnit() *ast.CompilationUnit {
	start := p.cur()
	var imports []*ast.ImportDecl
	for p.at(TokKeyword, "import") {
		imports = append(imports, p.parseImportDecl())
	}
	var decls []ast.Decl
	for !p.at(TokEOF, "") {
		decls = append(decls, p.parseTopDecl())
	}
	return p.arena.NewCompilationUnit(p.rangeFrom(start), imports, decls)
}

func (p *parser) parseImportDecl() *ast.ImportDecl {
	start := p.advance() // 'import'

	if p.at(TokPunct, "*") {
		p.advance()
		p.expect(TokKeyword, "as")
		aliasTok, _ := p.expect(TokIdent, "")
		p.expect(TokKeyword, "from")
		path := p.parseImportPath()
		p.expect(TokPunct, ";")
		return p.arena.NewImportDecl(p.rangeFrom(start), path, p.arena.Strings.Intern(aliasTok.Text), true, nil)
	}

	var items []ast.ImportItem
	if _, ok := p.expect(TokPunct, "{"); ok {
		for !p.at(TokPunct, "}") && !p.at(TokEOF, "") {
			if p.at(TokKeyword, "type") {
				p.advance() // type-only import item; alias handling below is identical
			}
			nameTok, _ := p.expect(TokIdent, "")
			alias := nameTok.Text
			if p.at(TokKeyword, "as") {
				p.advance()
				if aliasTok, ok := p.expect(TokIdent, ""); ok {
					alias = aliasTok.Text
				}
			}
			items = append(items, ast.ImportItem{
				Name:  p.arena.Strings.Intern(nameTok.Text),
				Alias: p.arena.Strings.Intern(alias),
			})
			if p.at(TokPunct, ",") {
				p.advance()
			}
		}
		p.expect(TokPunct, "}")
	}
	p.expect(TokKeyword, "from")
	path := p.parseImportPath()
	p.expect(TokPunct, ";")
	return p.arena.NewImportDecl(p.rangeFrom(start), path, 0, false, items)
}

func (p *parser) parseImportPath() string {
	if p.at(TokString, "") {
		return p.advance().Text
	}
	t := p.cur()
	p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "expected import path string"))
	return ""
}

func (p *parser) parseTopDecl() ast.Decl {
	start := p.cur()
	var flags ast.Flags = ast.IsGlobal
	if p.at(TokKeyword, "export") {
		p.advance()
		flags |= ast.IsExport
	}

	switch {
	case p.at(TokKeyword, "class"):
		return p.parseClassDecl(flags)
	case p.isTypeStart() && !p.looksLikeExprStart():
		return p.parseVarOrFunctionDecl(flags)
	case p.canStartExpr():
		expr := p.parseExpr()
		p.expect(TokPunct, ";")
		return p.arena.NewExprStmt(p.rangeFrom(start), expr)
	default:
		t := p.cur()
		p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "expected a declaration, found %q", t.Text))
		p.synchronize()
		return p.arena.NewErrorDecl(p.rangeFrom(start), "expected a declaration")
	}
}

// canStartExpr reports whether the current token could begin a primary
// expression, used to admit bare top-level expression statements (e.g.
// `add(1, 2);`) without swallowing genuinely malformed declarations into
// an infinite loop of single-token ErrorDecls.
func (p *parser) canStartExpr() bool {
	t := p.cur()
	switch t.Kind {
	case TokIdent, TokInt, TokFloat, TokString:
		return true
	case TokKeyword:
		switch t.Text {
		case "true", "false", "null", "this", "new", "function":
			return true
		}
		return false
	case TokPunct:
		return t.Text == "(" || t.Text == "[" || t.Text == "{" || t.Text == "!" || t.Text == "-" || t.Text == "#"
	default:
		return false
	}
}

func (p *parser) isTypeStart() bool {
	t := p.cur()
	if t.Kind == TokIdent {
		return true
	}
	if t.Kind != TokKeyword {
		return t.Kind == TokPunct && (t.Text == "[" || t.Text == "{" || t.Text == "(")
	}
	switch t.Text {
	case "int", "float", "bool", "string", "any", "void", "number", "function", "coroutine", "const":
		return true
	}
	return false
}

func (p *parser) parseVarOrFunctionDecl(flags ast.Flags) ast.Decl {
	start := p.cur()
	if p.at(TokKeyword, "const") {
		p.advance()
		flags |= ast.IsConst
	}

	declType := p.parseType()
	nameTok, _ := p.expect(TokIdent, "")
	name := p.arena.Strings.Intern(nameTok.Text)

	if p.at(TokPunct, "(") {
		return p.parseFunctionDecl(start, name, declType, flags)
	}

	if p.at(TokPunct, ",") {
		return p.parseMultiVarDeclTail(start, []ast.TypeNode{declType}, []ast.StringID{name}, flags)
	}

	var init ast.Expr // left nil when absent; omitting an initializer is valid (e.g. a class field)
	if p.at(TokPunct, "=") {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(TokPunct, ";")
	return p.arena.NewVarDecl(p.rangeFrom(start), name, declType, init, flags)
}

// parseVarDeclStmt parses a local variable (or multi-variable) declaration
// in statement position. Unlike parseVarOrFunctionDecl it never produces a
// FunctionDecl — nested function declarations are not part of Lang's
// statement grammar — so its result always satisfies ast.Stmt.
func (p *parser) parseVarDeclStmt() ast.Stmt {
	start := p.cur()
	var flags ast.Flags
	if p.at(TokKeyword, "const") {
		p.advance()
		flags |= ast.IsConst
	}

	declType := p.parseType()
	nameTok, _ := p.expect(TokIdent, "")
	name := p.arena.Strings.Intern(nameTok.Text)

	if p.at(TokPunct, ",") {
		return p.parseMultiVarDeclTail(start, []ast.TypeNode{declType}, []ast.StringID{name}, flags).(ast.Stmt)
	}

	var init ast.Expr // left nil when absent; omitting an initializer is valid (e.g. a class field)
	if p.at(TokPunct, "=") {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(TokPunct, ";")
	return p.arena.NewVarDecl(p.rangeFrom(start), name, declType, init, flags)
}

func (p *parser) parseMultiVarDeclTail(start Token, types []ast.TypeNode, names []ast.StringID, flags ast.Flags) ast.Decl {
	for p.at(TokPunct, ",") {
		p.advance()
		var t ast.TypeNode
		if p.isTypeStart() && !p.peekIsBareIdentFollowedByComma() {
			t = p.parseType()
		}
		nameTok, _ := p.expect(TokIdent, "")
		types = append(types, t)
		names = append(names, p.arena.Strings.Intern(nameTok.Text))
	}
	p.expect(TokPunct, "=")
	init := p.parseExpr()
	p.expect(TokPunct, ";")
	return p.arena.NewMultiVarDecl(p.rangeFrom(start), names, types, init, flags)
}

// peekIsBareIdentFollowedByComma distinguishes `a, b = f()` (untyped
// names) from `int a, float b = f()` (typed names) when scanning the next
// multi-var entry: an identifier immediately followed by ',' or '=' is a
// bare name, not a type annotation.
func (p *parser) peekIsBareIdentFollowedByComma() bool {
	if p.cur().Kind != TokIdent {
		return false
	}
	next := p.toks[min(p.pos+1, len(p.toks)-1)]
	return next.Kind == TokPunct && (next.Text == "," || next.Text == "=")
}

func (p *parser) parseFunctionDecl(start Token, name ast.StringID, retType ast.TypeNode, flags ast.Flags) *ast.FunctionDecl {
	p.advance() // '('
	var params []*ast.ParamDecl
	for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
		params = append(params, p.parseParamDecl())
		if p.at(TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(TokPunct, ")")
	body := p.parseBlock()
	return p.arena.NewFunctionDecl(p.rangeFrom(start), name, params, retType, body, flags)
}

func (p *parser) parseParamDecl() *ast.ParamDecl {
	start := p.cur()
	pType := p.parseType()
	nameTok, _ := p.expect(TokIdent, "")
	var def ast.Expr
	if p.at(TokPunct, "=") {
		p.advance()
		def = p.parseExpr()
	}
	return p.arena.NewParamDecl(p.rangeFrom(start), p.arena.Strings.Intern(nameTok.Text), pType, def)
}

func (p *parser) parseClassDecl(flags ast.Flags) *ast.ClassDecl {
	start := p.advance() // 'class'
	nameTok, _ := p.expect(TokIdent, "")
	var extends ast.StringID
	if p.at(TokKeyword, "extends") {
		p.advance()
		if t, ok := p.expect(TokIdent, ""); ok {
			extends = p.arena.Strings.Intern(t.Text)
		}
	}
	p.expect(TokPunct, "{")
	var members []ast.Decl
	for !p.at(TokPunct, "}") && !p.at(TokEOF, "") {
		members = append(members, p.parseClassMember())
	}
	p.expect(TokPunct, "}")
	return p.arena.NewClassDecl(p.rangeFrom(start), p.arena.Strings.Intern(nameTok.Text), extends, members, flags)
}

func (p *parser) parseClassMember() ast.Decl {
	start := p.cur()
	var flags ast.Flags
	if p.at(TokKeyword, "static") {
		p.advance()
		flags |= ast.IsStatic
	}
	if !p.isTypeStart() {
		t := p.cur()
		p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "expected a field or method, found %q", t.Text))
		p.synchronize()
		return p.arena.NewErrorDecl(p.rangeFrom(start), "expected a class member")
	}
	return p.parseVarOrFunctionDecl(flags)
}

// ---- statements ----

func (p *parser) parseBlock() *ast.Block {
	start := p.cur()
	if _, ok := p.expect(TokPunct, "{"); !ok {
		return p.arena.NewBlock(p.rangeFrom(start), nil)
	}
	var stmts []ast.Stmt
	for !p.at(TokPunct, "}") && !p.at(TokEOF, "") {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(TokPunct, "}")
	return p.arena.NewBlock(p.rangeFrom(start), stmts)
}

func (p *parser) parseStmt() ast.Stmt {
	start := p.cur()
	switch {
	case p.at(TokPunct, "{"):
		return p.parseBlock()
	case p.at(TokKeyword, "if"):
		return p.parseIfStmt()
	case p.at(TokKeyword, "while"):
		return p.parseWhileStmt()
	case p.at(TokKeyword, "for"):
		return p.parseForStmt()
	case p.at(TokKeyword, "break"):
		p.advance()
		p.expect(TokPunct, ";")
		return p.arena.NewBreakStmt(p.rangeFrom(start))
	case p.at(TokKeyword, "continue"):
		p.advance()
		p.expect(TokPunct, ";")
		return p.arena.NewContinueStmt(p.rangeFrom(start))
	case p.at(TokKeyword, "return"):
		return p.parseReturnStmt()
	case p.at(TokKeyword, "defer"):
		p.advance()
		body := p.parseBlock()
		return p.arena.NewDeferStmt(p.rangeFrom(start), body)
	case p.isTypeStart() && !p.looksLikeExprStart():
		return p.parseVarDeclStmt()
	default:
		expr := p.parseExpr()
		p.expect(TokPunct, ";")
		return p.arena.NewExprStmt(p.rangeFrom(start), expr)
	}
}

// looksLikeExprStart disambiguates a bare identifier used as an expression
// (`foo();`) from the same identifier used as a type in a declaration
// (`foo bar = 1;`): a declaration's second token is always another
// identifier.
func (p *parser) looksLikeExprStart() bool {
	if p.cur().Kind != TokIdent {
		return false
	}
	next := p.toks[min(p.pos+1, len(p.toks)-1)]
	return next.Kind != TokIdent
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // 'if'
	p.expect(TokPunct, "(")
	cond := p.parseExpr()
	p.expect(TokPunct, ")")
	then := p.parseBlock()
	var els ast.Stmt
	if p.at(TokKeyword, "else") {
		p.advance()
		if p.at(TokKeyword, "if") {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlock()
		}
	}
	return p.arena.NewIfStmt(p.rangeFrom(start), cond, then, els)
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // 'while'
	p.expect(TokPunct, "(")
	cond := p.parseExpr()
	p.expect(TokPunct, ")")
	body := p.parseBlock()
	return p.arena.NewWhileStmt(p.rangeFrom(start), cond, body)
}

func (p *parser) parseForStmt() *ast.ForStmt {
	start := p.advance() // 'for'
	p.expect(TokPunct, "(")

	var initStmt ast.Stmt
	if !p.at(TokPunct, ";") {
		if p.isTypeStart() && !p.looksLikeExprStart() {
			initStmt = p.parseVarDeclStmt()
		} else {
			e := p.parseExpr()
			p.expect(TokPunct, ";")
			initStmt = p.arena.NewExprStmt(e.Range(), e)
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.at(TokPunct, ";") {
		cond = p.parseExpr()
	}
	p.expect(TokPunct, ";")

	var post ast.Stmt
	if !p.at(TokPunct, ")") {
		e := p.parseExpr()
		post = p.arena.NewExprStmt(e.Range(), e)
	}
	p.expect(TokPunct, ")")

	body := p.parseBlock()
	return p.arena.NewForStmt(p.rangeFrom(start), initStmt, cond, post, body)
}

func (p *parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance() // 'return'
	var values []ast.Expr
	if !p.at(TokPunct, ";") {
		values = append(values, p.parseExpr())
		for p.at(TokPunct, ",") {
			p.advance()
			values = append(values, p.parseExpr())
		}
	}
	p.expect(TokPunct, ";")
	return p.arena.NewReturnStmt(p.rangeFrom(start), values)
}

// ---- expressions (precedence climbing) ----

func (p *parser) parseExpr() ast.Expr { return p.parseAssignment() }

func (p *parser) parseAssignment() ast.Expr {
	start := p.cur()
	left := p.parseLogicalOr()
	if p.at(TokPunct, "=") {
		p.advance()
		value := p.parseAssignment()
		return p.arena.NewAssignExpr(p.rangeFrom(start), left, value)
	}
	return left
}

func (p *parser) parseLogicalOr() ast.Expr {
	return p.parseBinaryLevel(p.parseLogicalAnd, ast.OpOr)
}

func (p *parser) parseLogicalAnd() ast.Expr {
	return p.parseBinaryLevel(p.parseEquality, ast.OpAnd)
}

func (p *parser) parseEquality() ast.Expr {
	return p.parseBinaryLevel(p.parseComparison, ast.OpEq, ast.OpNotEq)
}

func (p *parser) parseComparison() ast.Expr {
	return p.parseBinaryLevel(p.parseConcat, ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq)
}

func (p *parser) parseConcat() ast.Expr {
	return p.parseBinaryLevel(p.parseAdditive, "..")
}

func (p *parser) parseAdditive() ast.Expr {
	return p.parseBinaryLevel(p.parseMultiplicative, ast.OpAdd, ast.OpSub)
}

func (p *parser) parseMultiplicative() ast.Expr {
	return p.parseBinaryLevel(p.parseUnary, ast.OpMul, ast.OpDiv, ast.OpMod)
}

// parseBinaryLevel produces a left-associative chain, ((a op b) op c), per
// spec.md §4.D.
func (p *parser) parseBinaryLevel(next func() ast.Expr, ops ...ast.Operator) ast.Expr {
	start := p.cur()
	left := next()
	for {
		matched := false
		for _, op := range ops {
			if p.at(TokPunct, string(op)) {
				p.advance()
				right := next()
				left = p.arena.NewBinaryExpr(p.rangeFrom(start), op, left, right)
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.cur()
	switch {
	case p.at(TokPunct, "!"):
		p.advance()
		return p.arena.NewUnaryExpr(p.rangeFrom(start), ast.OpNot, p.parseUnary())
	case p.at(TokPunct, "-"):
		p.advance()
		return p.arena.NewUnaryExpr(p.rangeFrom(start), ast.OpNeg, p.parseUnary())
	case p.at(TokPunct, "#"):
		p.advance()
		return p.arena.NewUnaryExpr(p.rangeFrom(start), "#", p.parseUnary())
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() ast.Expr {
	start := p.cur()
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(TokPunct, "."):
			p.advance()
			if p.at(TokIdent, "") {
				nameTok := p.advance()
				expr = p.arena.NewMemberAccessExpr(p.rangeFrom(start), expr, p.arena.Strings.Intern(nameTok.Text), false)
			} else {
				expr = p.arena.NewMemberAccessExpr(p.rangeFrom(start), expr, 0, true)
			}
		case p.at(TokPunct, ":"):
			p.advance()
			if p.at(TokIdent, "") {
				nameTok := p.advance()
				expr = p.arena.NewColonLookupExpr(p.rangeFrom(start), expr, p.arena.Strings.Intern(nameTok.Text), false)
			} else {
				expr = p.arena.NewColonLookupExpr(p.rangeFrom(start), expr, 0, true)
			}
		case p.at(TokPunct, "("):
			args := p.parseArgs()
			expr = p.arena.NewCallExpr(p.rangeFrom(start), expr, args)
		case p.at(TokPunct, "["):
			p.advance()
			idx := p.parseExpr()
			p.expect(TokPunct, "]")
			expr = p.arena.NewIndexExpr(p.rangeFrom(start), expr, idx)
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
		args = append(args, p.parseExpr())
		if p.at(TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(TokPunct, ")")
	return args
}

func (p *parser) parsePrimary() ast.Expr {
	switch {
	case p.at(TokInt, ""):
		t := p.advance()
		return p.arena.NewIntLiteral(p.tokRange(t), parseIntLiteral(t.Text))
	case p.at(TokFloat, ""):
		t := p.advance()
		return p.arena.NewFloatLiteral(p.tokRange(t), parseFloatLiteral(t.Text))
	case p.at(TokString, ""):
		t := p.advance()
		return p.arena.NewStringLiteral(p.tokRange(t), p.arena.Strings.Intern(t.Text))
	case p.at(TokKeyword, "true"):
		t := p.advance()
		return p.arena.NewBoolLiteral(p.tokRange(t), true)
	case p.at(TokKeyword, "false"):
		t := p.advance()
		return p.arena.NewBoolLiteral(p.tokRange(t), false)
	case p.at(TokKeyword, "null"):
		t := p.advance()
		return p.arena.NewNullLiteral(p.tokRange(t))
	case p.at(TokKeyword, "this"):
		t := p.advance()
		return p.arena.NewThisExpr(p.tokRange(t))
	case p.at(TokKeyword, "new"):
		return p.parseNewExpr()
	case p.at(TokKeyword, "function"):
		return p.parseLambdaExpr()
	case p.at(TokIdent, ""):
		t := p.advance()
		return p.arena.NewIdentifier(p.tokRange(t), p.arena.Strings.Intern(t.Text))
	case p.at(TokPunct, "("):
		return p.parseParenOrTuple()
	case p.at(TokPunct, "["):
		return p.parseListExpr()
	case p.at(TokPunct, "{"):
		return p.parseMapExpr()
	default:
		t := p.advance()
		p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "unexpected token %q", t.Text))
		return p.arena.NewErrorExpr(p.tokRange(t), "unexpected token "+t.Text)
	}
}

func (p *parser) parseNewExpr() ast.Expr {
	start := p.advance() // 'new'
	var segments []ast.StringID
	if p.at(TokIdent, "") {
		t := p.advance()
		segments = append(segments, p.arena.Strings.Intern(t.Text))
		for p.at(TokPunct, ".") {
			p.advance()
			if t, ok := p.expect(TokIdent, ""); ok {
				segments = append(segments, p.arena.Strings.Intern(t.Text))
			}
		}
	} else {
		t := p.cur()
		p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "expected a class name after 'new'"))
	}
	var args []ast.Expr
	if p.at(TokPunct, "(") {
		args = p.parseArgs()
	}
	return p.arena.NewNewExpr(p.rangeFrom(start), ast.QualifiedName{Segments: segments}, args)
}

func (p *parser) parseLambdaExpr() ast.Expr {
	start := p.advance() // 'function'
	p.expect(TokPunct, "(")
	var params []*ast.ParamDecl
	for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
		params = append(params, p.parseParamDecl())
		if p.at(TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(TokPunct, ")")
	body := p.parseBlock()
	return p.arena.NewLambdaExpr(p.rangeFrom(start), params, body)
}

func (p *parser) parseParenOrTuple() ast.Expr {
	start := p.advance() // '('
	if p.at(TokPunct, ")") {
		p.advance()
		return p.arena.NewTupleExpr(p.rangeFrom(start), nil)
	}
	first := p.parseExpr()
	if p.at(TokPunct, ",") {
		elements := []ast.Expr{first}
		for p.at(TokPunct, ",") {
			p.advance()
			elements = append(elements, p.parseExpr())
		}
		p.expect(TokPunct, ")")
		return p.arena.NewTupleExpr(p.rangeFrom(start), elements)
	}
	p.expect(TokPunct, ")")
	return first
}

func (p *parser) parseListExpr() ast.Expr {
	start := p.advance() // '['
	var elements []ast.Expr
	for !p.at(TokPunct, "]") && !p.at(TokEOF, "") {
		elements = append(elements, p.parseExpr())
		if p.at(TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(TokPunct, "]")
	return p.arena.NewListExpr(p.rangeFrom(start), elements)
}

func (p *parser) parseMapExpr() ast.Expr {
	start := p.advance() // '{'
	var entries []ast.MapEntry
	for !p.at(TokPunct, "}") && !p.at(TokEOF, "") {
		key := p.parseExpr()
		p.expect(TokPunct, ":")
		value := p.parseExpr()
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
		if p.at(TokPunct, ",") {
			p.advance()
		}
	}
	p.expect(TokPunct, "}")
	return p.arena.NewMapExpr(p.rangeFrom(start), entries)
}

// ---- types ----

func (p *parser) parseType() ast.TypeNode {
	start := p.cur()
	first := p.parsePrimaryType()
	if !p.at(TokPunct, "|") {
		return first
	}
	members := []ast.TypeNode{first}
	for p.at(TokPunct, "|") {
		p.advance()
		members = append(members, p.parsePrimaryType())
	}
	return p.arena.NewUnionTypeRef(p.rangeFrom(start), members)
}

func (p *parser) parsePrimaryType() ast.TypeNode {
	start := p.cur()
	switch {
	case p.at(TokPunct, "["):
		p.advance()
		elem := p.parseType()
		p.expect(TokPunct, "]")
		return p.arena.NewListTypeRef(p.rangeFrom(start), elem)
	case p.at(TokPunct, "{"):
		p.advance()
		key := p.parseType()
		p.expect(TokPunct, ":")
		value := p.parseType()
		p.expect(TokPunct, "}")
		return p.arena.NewMapTypeRef(p.rangeFrom(start), key, value)
	case p.at(TokPunct, "("):
		p.advance()
		var params []ast.TypeNode
		for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
			params = append(params, p.parseType())
			if p.at(TokPunct, ",") {
				p.advance()
			}
		}
		p.expect(TokPunct, ")")
		p.expect(TokPunct, "->")
		ret := p.parseType()
		return p.arena.NewFunctionTypeRef(p.rangeFrom(start), params, ret)
	case p.at(TokIdent, "") || p.cur().Kind == TokKeyword:
		t := p.advance()
		return p.arena.NewTypeRef(p.tokRange(t), p.arena.Strings.Intern(t.Text))
	default:
		t := p.advance()
		p.diags = append(p.diags, syntaxDiag(p.tokRange(t), SeverityError, "expected a type, found %q", t.Text))
		return p.arena.NewErrorType(p.tokRange(t), "expected a type")
	}
}
