package ir

import (
	"fmt"
	"strings"

	"github.com/goxlang/goxc/internal/typesystem"
)

// Instr is one bytecode instruction. Operand's dynamic type depends
// on Op: int64 for CONSTI, float64 for CONSTF, string for
// LOCAL_GET/SET, GLOBAL_GET/SET, and CALL, int for the linked jump
// targets on IF/ELSE/CBREAK/CONTINUE/ENDLOOP, nil otherwise (LOOP and
// ENDIF carry no operand).
type Instr struct {
	Op      Opcode
	Operand any
	Line    int
}

// Global describes a module-level variable: its name and the IR
// cell width it was lowered to.
type Global struct {
	Name string
	Low  typesystem.LowType
}

// Function is one lowered function: its signature plus its flat,
// already-linked instruction stream.
type Function struct {
	Name       string
	Params     []string
	ParamTypes []typesystem.LowType
	Return     typesystem.LowType
	Imported   bool
	Locals     map[string]typesystem.LowType
	Code       []Instr
}

// Module is the generator's output: every function keyed by name,
// plus every top-level global.
type Module struct {
	Functions map[string]*Function
	Globals   map[string]*Global
}

// Dump renders the global table followed by a textual listing of
// every function's instructions, one per line — diagnostic output for
// the -ir CLI flag, not a debugger.
func Dump(mod *Module) string {
	var b strings.Builder
	for name, g := range mod.Globals {
		fmt.Fprintf(&b, "global %s: %s\n", name, g.Low)
	}
	for name, fn := range mod.Functions {
		fmt.Fprintf(&b, "func %s", name)
		if fn.Imported {
			fmt.Fprintf(&b, " (imported)\n")
			continue
		}
		fmt.Fprintf(&b, "\n")
		for i, instr := range fn.Code {
			fmt.Fprintf(&b, "  %4d %s", i, instr.Op)
			if instr.Operand != nil {
				fmt.Fprintf(&b, " %v", instr.Operand)
			}
			fmt.Fprintf(&b, "\n")
		}
	}
	return b.String()
}
