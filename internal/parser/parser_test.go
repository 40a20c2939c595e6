package parser

import (
	"testing"

	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	prog, err := Parse(toks)
	if err != nil {
		t.Fatalf("parser error: %s", err)
	}
	return prog
}

func TestParseTypedVardecl(t *testing.T) {
	prog := parse(t, "var x int = 1;")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	v, ok := prog.Statements[0].(*ast.Vardecl)
	if !ok {
		t.Fatalf("statement type = %T, want *ast.Vardecl", prog.Statements[0])
	}
	if v.Kind != ast.DeclVar || v.Name != "x" {
		t.Errorf("vardecl = %+v, want Kind=DeclVar Name=x", v)
	}
}

func TestParseConstRejectsExplicitType(t *testing.T) {
	_, err := func() (prog *ast.Program, err error) {
		toks, lerr := lexer.Tokenize("const x int = 1;")
		if lerr != nil {
			t.Fatalf("lexer error: %s", lerr)
		}
		return Parse(toks)
	}()
	if err == nil {
		t.Fatal("expected a syntax error: const must not declare a type")
	}
}

func TestParseConstRequiresInitializer(t *testing.T) {
	toks, err := lexer.Tokenize("const x;")
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a syntax error: const requires an initializer")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 2 + 3 * 4 should parse as 2 + (3 * 4), i.e. the top node is '+'
	// whose right child is a '*' Binary.
	prog := parse(t, "var x int = 2 + 3 * 4;")
	v := prog.Statements[0].(*ast.Vardecl)
	add, ok := v.Value.(*ast.Binary)
	if !ok || add.Op != ast.OpAdd {
		t.Fatalf("top expression = %+v, want a '+' Binary", v.Value)
	}
	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("right child = %+v, want a '*' Binary", add.Right)
	}
}

func TestParseLogicalPrecedence(t *testing.T) {
	// a || b && c parses as a || (b && c): && binds tighter than ||.
	prog := parse(t, "var r bool = a || b && c;")
	v := prog.Statements[0].(*ast.Vardecl)
	or, ok := v.Value.(*ast.Binary)
	if !ok || or.Op != ast.OpOr {
		t.Fatalf("top expression = %+v, want an 'or' Binary", v.Value)
	}
	and, ok := or.Right.(*ast.Binary)
	if !ok || and.Op != ast.OpAnd {
		t.Fatalf("right child = %+v, want an 'and' Binary", or.Right)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	prog := parse(t, "func f() int { if true { return 1; } return 0; }")
	fn := prog.Statements[0].(*ast.Funcdecl)
	ifStmt := fn.Body[0].(*ast.IfStmt)
	if ifStmt.HasElse {
		t.Error("HasElse = true, want false for an if with no else branch")
	}
}

func TestParseIfWithElse(t *testing.T) {
	prog := parse(t, "func f() int { if true { return 1; } else { return 0; } }")
	fn := prog.Statements[0].(*ast.Funcdecl)
	ifStmt := fn.Body[0].(*ast.IfStmt)
	if !ifStmt.HasElse {
		t.Error("HasElse = false, want true")
	}
	if len(ifStmt.Else) != 1 {
		t.Errorf("len(Else) = %d, want 1", len(ifStmt.Else))
	}
}

func TestParseFuncCallArguments(t *testing.T) {
	prog := parse(t, "var x int = add(1, 2+3);")
	v := prog.Statements[0].(*ast.Vardecl)
	call, ok := v.Value.(*ast.FuncCall)
	if !ok {
		t.Fatalf("expression type = %T, want *ast.FuncCall", v.Value)
	}
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("call = %+v, want Name=add with 2 args", call)
	}
}

func TestParseLocationMem(t *testing.T) {
	prog := parse(t, "var x int = `p; `p = 5;")
	v := prog.Statements[0].(*ast.Vardecl)
	if _, ok := v.Value.(*ast.LocationMem); !ok {
		t.Fatalf("initializer type = %T, want *ast.LocationMem", v.Value)
	}
	assign := prog.Statements[1].(*ast.Assignment)
	if _, ok := assign.Loc.(*ast.LocationMem); !ok {
		t.Fatalf("assignment target type = %T, want *ast.LocationMem", assign.Loc)
	}
}

func TestParseImportFuncRequiresSemicolonBody(t *testing.T) {
	prog := parse(t, "import func puts(s int) int;")
	fn := prog.Statements[0].(*ast.Funcdecl)
	if !fn.IsImport || fn.Body != nil {
		t.Errorf("funcdecl = %+v, want IsImport=true and a nil body", fn)
	}
}

func TestParseImportFuncRejectsBody(t *testing.T) {
	toks, err := lexer.Tokenize("import func puts(s int) int { return 0; }")
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a syntax error: import func must end with ';', not a body")
	}
}

func TestParseTypeConversion(t *testing.T) {
	prog := parse(t, "var x float = float(1);")
	v := prog.Statements[0].(*ast.Vardecl)
	conv, ok := v.Value.(*ast.TypeConversion)
	if !ok {
		t.Fatalf("expression type = %T, want *ast.TypeConversion", v.Value)
	}
	if _, ok := conv.Expr.(*ast.Literal); !ok {
		t.Errorf("conversion operand type = %T, want *ast.Literal", conv.Expr)
	}
}

func TestParseMissingSemicolonIsSyntaxError(t *testing.T) {
	toks, err := lexer.Tokenize("var x int = 1")
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected a syntax error for a missing trailing semicolon")
	}
}
