// Package parser implements GoxLang's hand-written recursive-descent
// parser: a single token of lookahead, grammar and precedence climb
// as specified, failing fast on the first syntactic error.
package parser

import (
	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/diagnostics"
	"github.com/goxlang/goxc/internal/token"
)

// Parser consumes a flat token slice produced by the lexer.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over toks. toks must end with an EOF token.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse builds the Program AST, or returns the first syntax error
// encountered.
func Parse(toks []token.Token) (prog *ast.Program, err error) {
	p := New(toks)
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*diagnostics.Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) fail(format string, args ...any) {
	panic(diagnostics.New(p.cur().Line, diagnostics.CategorySyntax, format, args...))
}

// expect consumes the current token if it has kind k, else fails.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail("expected %s, got %s %q", k, p.cur().Kind, p.cur().Lexeme)
	}
	return p.advance()
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		prog.Statements = append(prog.Statements, p.parseTopLevelStatement())
	}
	return prog
}

// parseTopLevelStatement parses a statement valid at program scope:
// Vardecl, Funcdecl, or a top-level Assignment/PrintStmt.
func (p *Parser) parseTopLevelStatement() ast.Statement {
	switch p.cur().Kind {
	case token.VAR, token.CONST:
		return p.parseVardecl()
	case token.IMPORT, token.FUNC:
		return p.parseFuncdecl()
	case token.PRINT:
		return p.parsePrintStmt()
	default:
		return p.parseAssignment()
	}
}

// parseStatement parses a statement valid inside a function body:
// declarations, if/while, break/continue, return, print, and
// assignments.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.VAR, token.CONST:
		return p.parseVardecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		line := p.advance().Line
		p.expect(token.SEMI)
		return &ast.BreakStmt{LineNo: line}
	case token.CONTINUE:
		line := p.advance().Line
		p.expect(token.SEMI)
		return &ast.ContinueStmt{LineNo: line}
	case token.RETURN:
		return p.parseReturn()
	case token.PRINT:
		return p.parsePrintStmt()
	default:
		return p.parseAssignment()
	}
}

func (p *Parser) parseStatementList(end token.Kind) []ast.Statement {
	var stmts []ast.Statement
	for !p.at(end) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	return stmts
}

func (p *Parser) parseAssignment() ast.Statement {
	line := p.cur().Line
	loc := p.parseLocation()
	p.expect(token.ASSIGN)
	expr := p.parseExpression()
	p.expect(token.SEMI)
	return &ast.Assignment{LineNo: line, Loc: loc, Expr: expr}
}

func (p *Parser) parsePrintStmt() ast.Statement {
	line := p.expect(token.PRINT).Line
	expr := p.parseExpression()
	p.expect(token.SEMI)
	return &ast.PrintStmt{LineNo: line, Expr: expr}
}

func (p *Parser) parseReturn() ast.Statement {
	line := p.expect(token.RETURN).Line
	expr := p.parseExpression()
	p.expect(token.SEMI)
	return &ast.ReturnStmt{LineNo: line, Expr: expr}
}

func (p *Parser) parseIf() ast.Statement {
	line := p.expect(token.IF).Line
	cond := p.parseExpression()
	p.expect(token.LBRACE)
	then := p.parseStatementList(token.RBRACE)
	p.expect(token.RBRACE)

	stmt := &ast.IfStmt{LineNo: line, Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.advance()
		p.expect(token.LBRACE)
		stmt.Else = p.parseStatementList(token.RBRACE)
		if stmt.Else == nil {
			stmt.Else = []ast.Statement{}
		}
		p.expect(token.RBRACE)
		stmt.HasElse = true
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	line := p.expect(token.WHILE).Line
	cond := p.parseExpression()
	p.expect(token.LBRACE)
	body := p.parseStatementList(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.WhileStmt{LineNo: line, Cond: cond, Body: body}
}

// parseVardecl parses `var name type [= expr];` or
// `const name = expr;` enforcing the syntactic rules from spec
// §4.2: var requires a type, const forbids one and requires an
// initializer.
func (p *Parser) parseVardecl() ast.Statement {
	kindTok := p.advance() // VAR or CONST
	line := kindTok.Line
	nameTok := p.expect(token.ID)

	v := &ast.Vardecl{LineNo: line, Name: nameTok.Lexeme}
	if kindTok.Kind == token.VAR {
		v.Kind = ast.DeclVar
		if !token.IsTypeKeyword(p.cur().Kind) {
			p.fail("var declaration %q requires a type", nameTok.Lexeme)
		}
		v.Typ = typeFromToken(p.advance().Kind)
	} else {
		v.Kind = ast.DeclConst
		if token.IsTypeKeyword(p.cur().Kind) {
			p.fail("const declaration %q must not declare a type", nameTok.Lexeme)
		}
	}

	if p.at(token.ASSIGN) {
		p.advance()
		v.Value = p.parseExpression()
	} else if v.Kind == ast.DeclConst {
		p.fail("const declaration %q requires an initializer", nameTok.Lexeme)
	}
	p.expect(token.SEMI)
	return v
}

// parseFuncdecl parses `[import] func name(params) type (; | { body })`.
func (p *Parser) parseFuncdecl() ast.Statement {
	isImport := false
	line := p.cur().Line
	if p.at(token.IMPORT) {
		isImport = true
		p.advance()
		line = p.cur().Line
	}
	p.expect(token.FUNC)
	name := p.expect(token.ID).Lexeme
	p.expect(token.LPAREN)

	var params []ast.Param
	if !p.at(token.RPAREN) {
		params = append(params, p.parseParam())
		for p.at(token.COMMA) {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN)

	if !token.IsTypeKeyword(p.cur().Kind) {
		p.fail("expected return type after ')', got %s %q", p.cur().Kind, p.cur().Lexeme)
	}
	retType := typeFromToken(p.advance().Kind)

	fd := &ast.Funcdecl{LineNo: line, IsImport: isImport, Name: name, Params: params, ReturnType: retType}
	if isImport {
		p.expect(token.SEMI)
		return fd
	}
	if p.at(token.SEMI) {
		p.fail("function %q must have a body (only 'import func' may end with ';')", name)
	}
	p.expect(token.LBRACE)
	fd.Body = p.parseStatementList(token.RBRACE)
	p.expect(token.RBRACE)
	return fd
}

func (p *Parser) parseParam() ast.Param {
	name := p.expect(token.ID).Lexeme
	if !token.IsTypeKeyword(p.cur().Kind) {
		p.fail("parameter %q requires a type", name)
	}
	typ := typeFromToken(p.advance().Kind)
	return ast.Param{Name: name, Typ: typ}
}

// parseLocation parses the two Location forms: a bare identifier, or
// a backtick-prefixed factor addressing a memory cell.
func (p *Parser) parseLocation() ast.Location {
	line := p.cur().Line
	if p.at(token.DEREF) {
		p.advance()
		addr := p.parseFactor()
		return ast.NewLocationMem(line, addr)
	}
	name := p.expect(token.ID).Lexeme
	return ast.NewLocationPrimi(line, name)
}
