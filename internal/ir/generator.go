package ir

import (
	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/typesystem"
)

// Generate lowers a type-checked Program into a Module. prog must
// already have passed checker.Check — every node's Type/Usage slot is
// assumed filled in.
func Generate(prog *ast.Program) *Module {
	g := &generator{
		mod: &Module{Functions: map[string]*Function{}, Globals: map[string]*Global{}},
	}

	var topStmts []ast.Statement
	var userMain *ast.Funcdecl
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.Funcdecl:
			if s.Name == "main" && !s.IsImport {
				userMain = s
				continue
			}
			g.genFuncdecl(s)
		default:
			topStmts = append(topStmts, stmt)
		}
	}

	if userMain != nil {
		renamed := *userMain
		renamed.Name = "_actual_main"
		g.genFuncdecl(&renamed)
	}
	g.genSyntheticMain(topStmts, userMain != nil)

	return g.mod
}

// generator carries the state threaded through one function's
// lowering: which function is currently being emitted, which names
// are local to it (vs. module globals), and whether the current
// statement is being lowered into the synthetic main (where Vardecls
// become globals rather than locals).
type generator struct {
	mod         *Module
	fn          *Function
	locals      map[string]bool
	globalScope bool
}

func (g *generator) emit(op Opcode, operand any, line int) {
	g.fn.Code = append(g.fn.Code, Instr{Op: op, Operand: operand, Line: line})
}

func (g *generator) genFuncdecl(f *ast.Funcdecl) {
	fn := &Function{
		Name:     f.Name,
		Return:   typesystem.Lower(f.ReturnType),
		Imported: f.IsImport,
		Locals:   map[string]typesystem.LowType{},
	}
	for _, p := range f.Params {
		fn.Params = append(fn.Params, p.Name)
		fn.ParamTypes = append(fn.ParamTypes, typesystem.Lower(p.Typ))
	}
	g.mod.Functions[f.Name] = fn
	if f.IsImport {
		return
	}

	g.fn = fn
	g.globalScope = false
	g.locals = map[string]bool{}
	for _, p := range f.Params {
		g.locals[p.Name] = true
	}
	for _, stmt := range f.Body {
		g.genStmt(stmt)
	}
	link(fn)
}

// genSyntheticMain builds the compiler-generated entry point holding
// every top-level statement, calling the renamed user main if one
// exists.
func (g *generator) genSyntheticMain(topStmts []ast.Statement, hasUserMain bool) {
	fn := &Function{Name: "main", Return: typesystem.I, Locals: map[string]typesystem.LowType{}}
	g.mod.Functions["main"] = fn
	g.fn = fn
	g.globalScope = true
	g.locals = map[string]bool{}

	for _, stmt := range topStmts {
		g.genStmt(stmt)
	}

	if hasUserMain {
		g.emit(CALL, "_actual_main", 0)
	} else {
		g.emit(CONSTI, int64(0), 0)
	}
	g.emit(RET, nil, 0)
	link(fn)
}

func (g *generator) genStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Vardecl:
		g.genVardecl(s)
	case *ast.Assignment:
		g.genAssignment(s)
	case *ast.PrintStmt:
		g.genPrintStmt(s)
	case *ast.IfStmt:
		g.genIf(s)
	case *ast.WhileStmt:
		g.genWhile(s)
	case *ast.BreakStmt:
		g.emit(CONSTI, int64(1), s.Line())
		g.emit(CBREAK, nil, s.Line())
	case *ast.ContinueStmt:
		g.emit(CONTINUE, nil, s.Line())
	case *ast.ReturnStmt:
		g.genExpr(s.Expr, typesystem.None)
		g.emit(RET, nil, s.Line())
	}
}

func (g *generator) genVardecl(v *ast.Vardecl) {
	low := typesystem.Lower(v.Typ)
	if g.globalScope {
		g.mod.Globals[v.Name] = &Global{Name: v.Name, Low: low}
		if v.Value != nil {
			g.genExpr(v.Value, v.Typ)
			g.emit(GLOBAL_SET, v.Name, v.Line())
		}
		return
	}
	g.fn.Locals[v.Name] = low
	g.locals[v.Name] = true
	if v.Value != nil {
		g.genExpr(v.Value, v.Typ)
		g.emit(LOCAL_SET, v.Name, v.Line())
	}
}

func (g *generator) genAssignment(a *ast.Assignment) {
	switch loc := a.Loc.(type) {
	case *ast.LocationPrimi:
		g.genExpr(a.Expr, loc.Type())
		g.genExpr(loc, typesystem.None)
	case *ast.LocationMem:
		g.genExpr(a.Expr, loc.Type())
		g.genExpr(loc, loc.Type())
	}
}

func (g *generator) genPrintStmt(p *ast.PrintStmt) {
	g.genExpr(p.Expr, typesystem.None)
	switch p.Expr.Type() {
	case typesystem.Float:
		g.emit(PRINTF, nil, p.Line())
	case typesystem.Bool:
		g.emit(PRINTBOOL, nil, p.Line())
	case typesystem.Char:
		g.emit(PRINTCHAR, nil, p.Line())
	default:
		g.emit(PRINTI, nil, p.Line())
	}
}

// genIf always emits IF/ELSE/ENDIF in that order; a missing else
// clause simply lowers an empty else-body between ELSE and ENDIF.
func (g *generator) genIf(s *ast.IfStmt) {
	g.genExpr(s.Cond, typesystem.None)
	g.emit(IF, nil, s.Line())
	for _, stmt := range s.Then {
		g.genStmt(stmt)
	}
	g.emit(ELSE, nil, s.Line())
	for _, stmt := range s.Else {
		g.genStmt(stmt)
	}
	g.emit(ENDIF, nil, s.Line())
}

// genWhile lowers `while cond { body }` to LOOP; CONSTI 1; cond; SUBI;
// CBREAK; body; ENDLOOP — the loop breaks once 1-cond is nonzero,
// i.e. once cond is false.
func (g *generator) genWhile(s *ast.WhileStmt) {
	g.emit(LOOP, nil, s.Line())
	g.emit(CONSTI, int64(1), s.Line())
	g.genExpr(s.Cond, typesystem.None)
	g.emit(SUBI, nil, s.Line())
	g.emit(CBREAK, nil, s.Line())
	for _, stmt := range s.Body {
		g.genStmt(stmt)
	}
	g.emit(ENDLOOP, nil, s.Line())
}

var arithOpcodesI = map[ast.BinOp]Opcode{ast.OpAdd: ADDI, ast.OpSub: SUBI, ast.OpMul: MULI, ast.OpDiv: DIVI}
var arithOpcodesF = map[ast.BinOp]Opcode{ast.OpAdd: ADDF, ast.OpSub: SUBF, ast.OpMul: MULF, ast.OpDiv: DIVF}
var cmpOpcodesI = map[ast.BinOp]Opcode{ast.OpLt: LTI, ast.OpLe: LEI, ast.OpGt: GTI, ast.OpGe: GEI, ast.OpEq: EQI, ast.OpNe: NEI}
var cmpOpcodesF = map[ast.BinOp]Opcode{ast.OpLt: LTF, ast.OpLe: LEF, ast.OpGt: GTF, ast.OpGe: GEF, ast.OpEq: EQF, ast.OpNe: NEF}

// genExpr lowers e, pushing its value onto the operand stack. expected
// is the surrounding context's expected type — populated from an
// enclosing TypeConversion, a Vardecl's declared type, or an
// Assignment's LHS type — and is consulted only by LocationMem to pick
// its PEEK*/POKE* width (the §9 LocationMem-typing fix); every other
// expression kind ignores it.
func (g *generator) genExpr(e ast.Expression, expected typesystem.Kind) {
	switch ex := e.(type) {
	case *ast.Literal:
		g.genLiteral(ex)

	case *ast.Binary:
		g.genBinary(ex)

	case *ast.Unary:
		g.genUnary(ex)

	case *ast.TypeConversion:
		g.genTypeConversion(ex)

	case *ast.FuncCall:
		for _, arg := range ex.Args {
			g.genExpr(arg, typesystem.None)
		}
		g.emit(CALL, ex.Name, ex.Line())

	case *ast.LocationPrimi:
		g.genLocationPrimi(ex)

	case *ast.LocationMem:
		g.genLocationMem(ex, expected)
	}
}

func (g *generator) genLiteral(ex *ast.Literal) {
	switch ex.Kind {
	case typesystem.Float:
		g.emit(CONSTF, ex.Value.(float64), ex.Line())
	case typesystem.Bool:
		n := int64(0)
		if ex.Value.(bool) {
			n = 1
		}
		g.emit(CONSTI, n, ex.Line())
	case typesystem.Char:
		g.emit(CONSTI, int64(ex.Value.(rune)), ex.Line())
	default:
		g.emit(CONSTI, ex.Value.(int64), ex.Line())
	}
}

func (g *generator) genBinary(ex *ast.Binary) {
	if ex.Op == ast.OpAnd {
		g.genExpr(ex.Left, typesystem.None)
		g.emit(IF, nil, ex.Line())
		g.genExpr(ex.Right, typesystem.None)
		g.emit(ELSE, nil, ex.Line())
		g.emit(CONSTI, int64(0), ex.Line())
		g.emit(ENDIF, nil, ex.Line())
		return
	}
	if ex.Op == ast.OpOr {
		g.genExpr(ex.Left, typesystem.None)
		g.emit(IF, nil, ex.Line())
		g.emit(CONSTI, int64(1), ex.Line())
		g.emit(ELSE, nil, ex.Line())
		g.genExpr(ex.Right, typesystem.None)
		g.emit(ENDIF, nil, ex.Line())
		return
	}

	g.genExpr(ex.Left, typesystem.None)
	g.genExpr(ex.Right, typesystem.None)

	isFloat := ex.Left.Type() == typesystem.Float
	var op Opcode
	var ok bool
	if isFloat {
		op, ok = arithOpcodesF[ex.Op]
		if !ok {
			op, ok = cmpOpcodesF[ex.Op]
		}
	} else {
		op, ok = arithOpcodesI[ex.Op]
		if !ok {
			op, ok = cmpOpcodesI[ex.Op]
		}
	}
	if ok {
		g.emit(op, nil, ex.Line())
	}
}

func (g *generator) genUnary(ex *ast.Unary) {
	switch ex.Op {
	case ast.OpPos:
		g.genExpr(ex.Expr, typesystem.None)
	case ast.OpNeg:
		g.genExpr(ex.Expr, typesystem.None)
		if ex.Expr.Type() == typesystem.Float {
			g.emit(CONSTF, -1.0, ex.Line())
			g.emit(MULF, nil, ex.Line())
		} else {
			g.emit(CONSTI, int64(-1), ex.Line())
			g.emit(MULI, nil, ex.Line())
		}
	case ast.OpNot:
		// 1 - x, not "multiply by -1" (see the boolean-! open question).
		g.emit(CONSTI, int64(1), ex.Line())
		g.genExpr(ex.Expr, typesystem.None)
		g.emit(SUBI, nil, ex.Line())
	case ast.OpGrow:
		g.genExpr(ex.Expr, typesystem.None)
		g.emit(GROW, nil, ex.Line())
	}
}

func (g *generator) genTypeConversion(ex *ast.TypeConversion) {
	if mem, ok := ex.Expr.(*ast.LocationMem); ok {
		// The memory op itself selects the target width; no ITOF/FTOI.
		g.genExpr(mem, ex.Target)
		return
	}

	g.genExpr(ex.Expr, ex.Target)
	sourceLow := typesystem.Lower(ex.Expr.Type())
	targetLow := typesystem.Lower(ex.Target)
	if sourceLow == targetLow {
		return
	}
	if targetLow == typesystem.F {
		g.emit(ITOF, nil, ex.Line())
	} else {
		g.emit(FTOI, nil, ex.Line())
	}
}

func (g *generator) genLocationPrimi(ex *ast.LocationPrimi) {
	isLocal := g.locals[ex.Name]
	if ex.GetUsage() == ast.UsageStore {
		if isLocal {
			g.emit(LOCAL_SET, ex.Name, ex.Line())
		} else {
			g.emit(GLOBAL_SET, ex.Name, ex.Line())
		}
		return
	}
	if isLocal {
		g.emit(LOCAL_GET, ex.Name, ex.Line())
	} else {
		g.emit(GLOBAL_GET, ex.Name, ex.Line())
	}
}

func (g *generator) genLocationMem(ex *ast.LocationMem, expected typesystem.Kind) {
	width := expected
	if width == typesystem.None {
		width = ex.Type()
	}
	if width == typesystem.None {
		width = typesystem.Int
	}

	if ex.GetUsage() == ast.UsageStore {
		g.genExpr(ex.Addr, typesystem.None)
		g.emit(pokeOp(width), nil, ex.Line())
		return
	}
	g.genExpr(ex.Addr, typesystem.None)
	g.emit(peekOp(width), nil, ex.Line())
}

func peekOp(width typesystem.Kind) Opcode {
	switch width {
	case typesystem.Float:
		return PEEKF
	case typesystem.Char:
		return PEEKB
	default:
		return PEEKI
	}
}

func pokeOp(width typesystem.Kind) Opcode {
	switch width {
	case typesystem.Float:
		return POKEF
	case typesystem.Char:
		return POKEB
	default:
		return POKEI
	}
}
