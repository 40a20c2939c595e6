// Package checker implements the post-order semantic pass enforcing
// GoxLang's typing, scoping, and control-flow rules (spec §4.3). It
// annotates every AST node's Type slot as a side effect and fails
// fast, panicking with the first diagnostics.Error encountered.
package checker

import (
	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/diagnostics"
	"github.com/goxlang/goxc/internal/symbols"
	"github.com/goxlang/goxc/internal/typesystem"
)

// Checker holds the mutable state threaded through the traversal.
type Checker struct {
	global     *symbols.Scope
	funcs      map[string]*ast.Funcdecl
	activeFunc *ast.Funcdecl // the Funcdecl whose body is currently being checked, nil at global scope
}

// Check runs the semantic pass over prog, returning the first
// violation found, or nil if the program is well-typed.
func Check(prog *ast.Program) (err error) {
	c := &Checker{
		global: symbols.NewScope(symbols.ScopeGlobal, nil),
		funcs:  make(map[string]*ast.Funcdecl),
	}
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*diagnostics.Error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	c.checkProgram(prog)
	return nil
}

func fail(line int, cat diagnostics.Category, format string, args ...any) {
	panic(diagnostics.New(line, cat, format, args...))
}

func (c *Checker) checkProgram(prog *ast.Program) {
	// First pass: register every top-level Funcdecl so forward
	// references between functions resolve regardless of order.
	// Top-level Vardecls are defined in source order by the second pass.
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.Funcdecl:
			if _, exists := c.funcs[s.Name]; exists {
				fail(s.Line(), diagnostics.CategoryFuncDecl, "function %q already declared", s.Name)
			}
			c.funcs[s.Name] = s
			if !c.global.Define(s.Name, s) {
				fail(s.Line(), diagnostics.CategoryFuncDecl, "name %q already declared", s.Name)
			}
		}
	}

	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.Vardecl:
			c.checkVardecl(s, c.global)
		case *ast.Funcdecl:
			c.checkFuncdecl(s)
		case *ast.Assignment:
			c.checkAssignment(s, c.global)
		case *ast.PrintStmt:
			c.checkPrintStmt(s, c.global)
		}
	}
}

func (c *Checker) checkStatement(stmt ast.Statement, scope *symbols.Scope) {
	switch s := stmt.(type) {
	case *ast.Vardecl:
		c.checkVardecl(s, scope)
	case *ast.Assignment:
		c.checkAssignment(s, scope)
	case *ast.PrintStmt:
		c.checkPrintStmt(s, scope)
	case *ast.IfStmt:
		c.checkIf(s, scope)
	case *ast.WhileStmt:
		c.checkWhile(s, scope)
	case *ast.BreakStmt:
		if !scope.InLoop() {
			fail(s.Line(), diagnostics.CategoryFunction, "break used outside of a loop")
		}
	case *ast.ContinueStmt:
		if !scope.InLoop() {
			fail(s.Line(), diagnostics.CategoryFunction, "continue used outside of a loop")
		}
	case *ast.ReturnStmt:
		c.checkReturn(s, scope)
	case *ast.Funcdecl:
		fail(s.Line(), diagnostics.CategoryFuncDecl, "functions may only be declared at global scope")
	default:
		fail(stmt.Line(), diagnostics.CategoryFunction, "unsupported statement")
	}
}

func (c *Checker) checkBlock(stmts []ast.Statement, scope *symbols.Scope) {
	for _, s := range stmts {
		c.checkStatement(s, scope)
	}
}

func (c *Checker) checkVardecl(v *ast.Vardecl, scope *symbols.Scope) {
	if v.Kind == ast.DeclConst {
		if v.Value == nil {
			fail(v.Line(), diagnostics.CategoryVarDecl, "const %q requires an initializer", v.Name)
		}
		valType := c.checkExpr(v.Value, scope)
		// Resolved eagerly here, not lazily on first read.
		v.Typ = valType
	} else {
		if v.Value != nil {
			valType := c.checkExpr(v.Value, scope)
			if valType != v.Typ {
				fail(v.Line(), diagnostics.CategoryVarDecl,
					"cannot initialize var %q of type %s with value of type %s", v.Name, v.Typ, valType)
			}
		}
	}
	if !scope.Define(v.Name, v) {
		fail(v.Line(), diagnostics.CategoryVarDecl, "name %q already declared in this scope", v.Name)
	}
}

func (c *Checker) checkFuncdecl(f *ast.Funcdecl) {
	if f.IsImport {
		return
	}
	funcScope := symbols.NewScope(symbols.ScopeFunc, c.global)
	for i := range f.Params {
		param := &f.Params[i]
		paramDecl := &ast.Vardecl{LineNo: f.Line(), Kind: ast.DeclVar, Name: param.Name, Typ: param.Typ}
		if !funcScope.Define(param.Name, paramDecl) {
			fail(f.Line(), diagnostics.CategoryFuncDecl, "duplicate parameter name %q in function %q", param.Name, f.Name)
		}
	}

	prevFunc := c.activeFunc
	c.activeFunc = f
	c.checkBlock(f.Body, funcScope)
	c.activeFunc = prevFunc

	if !guaranteesReturn(f.Body) {
		fail(f.Line(), diagnostics.CategoryFunction,
			"function %q does not guarantee a return on every path", f.Name)
	}
}

// guaranteesReturn implements the AST-level "every path returns"
// check from spec §4.3: a top-level ReturnStmt in the body, or an
// IfStmt with both branches present and both recursively guaranteed.
func guaranteesReturn(body []ast.Statement) bool {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.ReturnStmt:
			return true
		case *ast.IfStmt:
			if s.HasElse && guaranteesReturn(s.Then) && guaranteesReturn(s.Else) {
				return true
			}
		}
	}
	return false
}

func (c *Checker) checkAssignment(a *ast.Assignment, scope *symbols.Scope) {
	if primi, ok := a.Loc.(*ast.LocationPrimi); ok {
		decl, _, found := scope.Resolve(primi.Name)
		if !found {
			fail(a.Line(), diagnostics.CategoryName, "undeclared name %q", primi.Name)
		}
		vd, ok := decl.(*ast.Vardecl)
		if !ok {
			fail(a.Line(), diagnostics.CategoryAssign, "%q is not a variable", primi.Name)
		}
		if vd.Kind == ast.DeclConst {
			fail(a.Line(), diagnostics.CategoryAssign, "cannot assign to const %q", primi.Name)
		}
		primi.SetType(vd.Typ)
		primi.SetUsage(ast.UsageStore)
		exprType := c.checkExpr(a.Expr, scope)
		if exprType != vd.Typ {
			fail(a.Line(), diagnostics.CategoryAssign,
				"cannot assign value of type %s to variable %q of type %s", exprType, primi.Name, vd.Typ)
		}
		return
	}

	// LocationMem: memory is untyped from the source's perspective;
	// only the address and RHS expressions are type-checked.
	mem := a.Loc.(*ast.LocationMem)
	c.checkExpr(mem.Addr, scope)
	mem.SetUsage(ast.UsageStore)
	exprType := c.checkExpr(a.Expr, scope)
	mem.SetType(exprType)
}

func (c *Checker) checkPrintStmt(p *ast.PrintStmt, scope *symbols.Scope) {
	c.checkExpr(p.Expr, scope)
}

func (c *Checker) checkIf(s *ast.IfStmt, scope *symbols.Scope) {
	condType := c.checkExpr(s.Cond, scope)
	if condType != typesystem.Bool {
		fail(s.Line(), diagnostics.CategoryIf, "if condition must be bool, got %s", condType)
	}
	c.checkBlock(s.Then, symbols.NewScope(symbols.ScopeIf, scope))
	if s.HasElse {
		c.checkBlock(s.Else, symbols.NewScope(symbols.ScopeElse, scope))
	}
}

func (c *Checker) checkWhile(s *ast.WhileStmt, scope *symbols.Scope) {
	condType := c.checkExpr(s.Cond, scope)
	if condType != typesystem.Bool {
		fail(s.Line(), diagnostics.CategoryWhile, "while condition must be bool, got %s", condType)
	}
	c.checkBlock(s.Body, symbols.NewScope(symbols.ScopeLoop, scope))
}

func (c *Checker) checkReturn(r *ast.ReturnStmt, scope *symbols.Scope) {
	if _, ok := scope.EnclosingFunc(); !ok || c.activeFunc == nil {
		fail(r.Line(), diagnostics.CategoryReturn, "return used outside of a function")
	}
	retType := c.checkExpr(r.Expr, scope)
	fn := c.activeFunc
	if retType != fn.ReturnType {
		fail(r.Line(), diagnostics.CategoryReturn,
			"return type %s does not match function %q's declared return type %s", retType, fn.Name, fn.ReturnType)
	}
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

var binOpStr = map[ast.BinOp]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/",
	ast.OpLt: "<", ast.OpLe: "<=", ast.OpGt: ">", ast.OpGe: ">=",
	ast.OpEq: "==", ast.OpNe: "!=", ast.OpAnd: "&&", ast.OpOr: "||",
}

var unaryOpStr = map[ast.UnaryOp]string{
	ast.OpPos: "+", ast.OpNeg: "-", ast.OpNot: "!", ast.OpGrow: "^",
}

// checkExpr type-checks e, sets its Type, and returns that type.
func (c *Checker) checkExpr(e ast.Expression, scope *symbols.Scope) typesystem.Kind {
	switch ex := e.(type) {
	case *ast.Literal:
		ex.SetType(ex.Kind)
		return ex.Kind

	case *ast.Binary:
		left := c.checkExpr(ex.Left, scope)
		right := c.checkExpr(ex.Right, scope)
		opStr := binOpStr[ex.Op]
		result, ok := typesystem.BinarySignature(left, opStr, right)
		if !ok {
			fail(ex.Line(), diagnostics.CategoryBinary,
				"no operator %s for operand types %s and %s", opStr, left, right)
		}
		ex.SetType(result)
		return result

	case *ast.Unary:
		operand := c.checkExpr(ex.Expr, scope)
		opStr := unaryOpStr[ex.Op]
		result, ok := typesystem.UnarySignature(opStr, operand)
		if !ok {
			fail(ex.Line(), diagnostics.CategoryUnary,
				"no unary operator %s for operand type %s", opStr, operand)
		}
		ex.SetType(result)
		return result

	case *ast.TypeConversion:
		source := c.checkExpr(ex.Expr, scope)
		if !typesystem.ConversionAllowed(ex.Target, source) {
			fail(ex.Line(), diagnostics.CategoryConvert,
				"cannot convert value of type %s to %s", source, ex.Target)
		}
		ex.SetType(ex.Target)
		return ex.Target

	case *ast.FuncCall:
		fn, ok := c.funcs[ex.Name]
		if !ok {
			fail(ex.Line(), diagnostics.CategoryFunCall, "call to undeclared function %q", ex.Name)
		}
		if len(ex.Args) != len(fn.Params) {
			fail(ex.Line(), diagnostics.CategoryFunCall,
				"function %q expects %d argument(s), got %d", ex.Name, len(fn.Params), len(ex.Args))
		}
		for i, arg := range ex.Args {
			argType := c.checkExpr(arg, scope)
			if argType != fn.Params[i].Typ {
				fail(ex.Line(), diagnostics.CategoryFunCall,
					"argument %d to %q has type %s, want %s", i+1, ex.Name, argType, fn.Params[i].Typ)
			}
		}
		ex.SetType(fn.ReturnType)
		return fn.ReturnType

	case *ast.LocationPrimi:
		decl, _, found := scope.Resolve(ex.Name)
		if !found {
			fail(ex.Line(), diagnostics.CategoryName, "undeclared name %q", ex.Name)
		}
		vd, ok := decl.(*ast.Vardecl)
		if !ok {
			fail(ex.Line(), diagnostics.CategoryName, "%q is not a variable", ex.Name)
		}
		ex.SetUsage(ast.UsageLoad)
		ex.SetType(vd.Typ)
		return vd.Typ

	case *ast.LocationMem:
		c.checkExpr(ex.Addr, scope)
		ex.SetUsage(ast.UsageLoad)
		// A memory read is always typed int here. The IR generator may
		// still pick another PEEK width from an enclosing type conversion,
		// declaration or assignment; with no such context it reads int.
		ex.SetType(typesystem.Int)
		return typesystem.Int

	default:
		fail(e.Line(), diagnostics.CategoryFunction, "unsupported expression")
		return typesystem.None
	}
}
