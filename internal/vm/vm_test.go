package vm_test

import (
	"strings"
	"testing"

	"github.com/goxlang/goxc/internal/checker"
	"github.com/goxlang/goxc/internal/ir"
	"github.com/goxlang/goxc/internal/lexer"
	"github.com/goxlang/goxc/internal/parser"
	"github.com/goxlang/goxc/internal/vm"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parser error: %s", err)
	}
	if err := checker.Check(prog); err != nil {
		return "", err
	}
	mod := ir.Generate(prog)

	var out strings.Builder
	machine := vm.New(mod, 0)
	machine.Out = &out
	if err := machine.Run(); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

// TestScenarios exercises every example program from the language
// scenarios: arithmetic precedence, float formatting, recursion-free
// iteration, conditionals, and raw memory access.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic precedence",
			src:  "var x int = 2 + 3 * 4 - 5; print x;",
			want: "9",
		},
		{
			name: "float arithmetic",
			src:  "const pi = 3.14; const r = 2.0; print pi*r*r;",
			want: "12.56",
		},
		{
			name: "factorial via while",
			src: `func fact(n int) int {
				var r int = 1;
				var i int = 1;
				while i <= n {
					r = r*i;
					i = i+1;
				}
				return r;
			}
			print fact(5);`,
			want: "120",
		},
		{
			name: "if-else on bool",
			src:  "var b bool = true; if b { print 1; } else { print 0; }",
			want: "1",
		},
		{
			name: "raw memory store and load",
			src:  "var p int = ^16; `p = 42; print `p;",
			want: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMissingReturnPathRejected(t *testing.T) {
	src := `func f() int { if true { return 1; } }`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected a checker error for a function that does not guarantee return")
	}
	if !strings.Contains(err.Error(), "FunctionError") {
		t.Errorf("error = %q, want it to carry category FunctionError", err.Error())
	}
}

func TestIntegerDivideByZeroTraps(t *testing.T) {
	src := "var z int = 0; var x int = 1 / z; print x;"
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected a runtime error for integer division by zero")
	}
	if !strings.Contains(err.Error(), "RuntimeError") {
		t.Errorf("error = %q, want it to carry category RuntimeError", err.Error())
	}
}

func TestWhileBreakAndContinue(t *testing.T) {
	src := `var i int = 0;
	var total int = 0;
	while i <= 9 {
		i = i + 1;
		if i == 3 {
			continue;
		}
		if i == 7 {
			break;
		}
		total = total + i;
	}
	print total;`
	// 1+2+4+5+6 = 18 (3 skipped via continue, loop stops before adding 7)
	got, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "18" {
		t.Errorf("output = %q, want %q", got, "18")
	}
}

func TestShortCircuitOperators(t *testing.T) {
	src := `func fails() bool { print 9; return false; }
	var a bool = false && fails();
	var b bool = true || fails();
	print a;
	print b;`
	got, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "falsetrue" {
		t.Errorf("output = %q, want %q (fails() must never run)", got, "falsetrue")
	}
}
