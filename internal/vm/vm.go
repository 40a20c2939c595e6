// Package vm implements the single-threaded stack-machine interpreter
// that executes an ir.Module: a typed operand stack, growable linear
// memory, global/local environments, and a call stack realized
// through Go's own recursion (each CALL saves its caller's state on
// Go's stack and restores it on return, matching spec §4.5's "save
// and restore the full bundle" call semantics without hand-rolled
// frame bookkeeping).
package vm

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/goxlang/goxc/internal/diagnostics"
	"github.com/goxlang/goxc/internal/ir"
)

// DefaultMemorySize is the VM's minimum linear memory, per spec §3
// ("at least 1024 cells").
const DefaultMemorySize = 1024

// VM holds all mutable runtime state for one program execution.
type VM struct {
	mod     *ir.Module
	memory  []uint64
	globals map[string]Value
	stack   []Value

	Out io.Writer

	// TraceID distinguishes concurrent goxc invocations in shared log
	// aggregation when -vb verbose output is requested.
	TraceID string
}

// New prepares a VM over mod with at least DefaultMemorySize cells of
// linear memory (memSize, if larger, wins) and every global
// initialized to its zero value.
func New(mod *ir.Module, memSize int) *VM {
	if memSize < DefaultMemorySize {
		memSize = DefaultMemorySize
	}
	v := &VM{
		mod:     mod,
		memory:  make([]uint64, memSize),
		globals: make(map[string]Value, len(mod.Globals)),
		Out:     os.Stdout,
		TraceID: uuid.NewString(),
	}
	for name, g := range mod.Globals {
		v.globals[name] = zeroValue(g.Low)
	}
	return v
}

func runtimeErr(line int, format string, args ...any) error {
	return diagnostics.New(line, diagnostics.CategoryRuntime, format, args...)
}

func (vm *VM) push(v Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

// Run executes the module's synthetic main to completion.
func (vm *VM) Run() error {
	_, err := vm.call("main", nil)
	return err
}

// call invokes the named function with args already evaluated,
// running its body until RET and returning its result.
func (vm *VM) call(name string, args []Value) (Value, error) {
	fn, ok := vm.mod.Functions[name]
	if !ok {
		return Value{}, runtimeErr(0, "call to undefined function %q", name)
	}
	if fn.Imported {
		return Value{}, runtimeErr(0, "function %q is declared import and has no callable body", name)
	}
	if len(args) != len(fn.Params) {
		return Value{}, runtimeErr(0, "function %q expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}

	locals := make(map[string]Value, len(fn.Locals)+len(fn.Params))
	for i, p := range fn.Params {
		locals[p] = args[i]
	}
	for name, low := range fn.Locals {
		if _, exists := locals[name]; !exists {
			locals[name] = zeroValue(low)
		}
	}
	return vm.exec(fn, locals)
}

// exec runs fn's instruction stream against locals until RET, using
// the jump targets the IR link pass already computed.
func (vm *VM) exec(fn *ir.Function, locals map[string]Value) (Value, error) {
	pc := 0
	for pc < len(fn.Code) {
		instr := fn.Code[pc]
		switch instr.Op {

		case ir.CONSTI:
			vm.push(intValue(instr.Operand.(int64)))
			pc++
		case ir.CONSTF:
			vm.push(floatValue(instr.Operand.(float64)))
			pc++

		case ir.ADDI, ir.SUBI, ir.MULI, ir.DIVI:
			b, a := vm.pop(), vm.pop()
			v, err := intArith(instr.Op, a.I, b.I, instr.Line)
			if err != nil {
				return Value{}, err
			}
			vm.push(v)
			pc++
		case ir.LTI, ir.LEI, ir.GTI, ir.GEI, ir.EQI, ir.NEI:
			b, a := vm.pop(), vm.pop()
			vm.push(boolValue(intCompare(instr.Op, a.I, b.I)))
			pc++

		case ir.ADDF, ir.SUBF, ir.MULF, ir.DIVF:
			b, a := vm.pop(), vm.pop()
			vm.push(floatValue(floatArith(instr.Op, a.F, b.F)))
			pc++
		case ir.LTF, ir.LEF, ir.GTF, ir.GEF, ir.EQF, ir.NEF:
			b, a := vm.pop(), vm.pop()
			vm.push(boolValue(floatCompare(instr.Op, a.F, b.F)))
			pc++

		case ir.ITOF:
			v := vm.pop()
			vm.push(floatValue(float64(v.I)))
			pc++
		case ir.FTOI:
			v := vm.pop()
			vm.push(intValue(int64(v.F)))
			pc++

		case ir.PRINTI:
			fmt.Fprintf(vm.Out, "%d", vm.pop().I)
			pc++
		case ir.PRINTF:
			fmt.Fprint(vm.Out, strconv.FormatFloat(vm.pop().F, 'g', -1, 64))
			pc++
		case ir.PRINTBOOL:
			if vm.pop().I != 0 {
				fmt.Fprint(vm.Out, "true")
			} else {
				fmt.Fprint(vm.Out, "false")
			}
			pc++
		case ir.PRINTCHAR:
			fmt.Fprintf(vm.Out, "%c", rune(vm.pop().I))
			pc++

		case ir.PEEKI, ir.PEEKF, ir.PEEKB:
			addr := vm.pop()
			v, err := vm.peek(instr.Op, addr.I, instr.Line)
			if err != nil {
				return Value{}, err
			}
			vm.push(v)
			pc++
		case ir.POKEI, ir.POKEF, ir.POKEB:
			addr := vm.pop()
			val := vm.pop()
			if err := vm.poke(instr.Op, addr.I, val, instr.Line); err != nil {
				return Value{}, err
			}
			pc++

		case ir.GROW:
			n := vm.pop()
			old := int64(len(vm.memory))
			if n.I < 0 {
				return Value{}, runtimeErr(instr.Line, "cannot grow memory by a negative amount %d", n.I)
			}
			vm.memory = append(vm.memory, make([]uint64, n.I)...)
			vm.push(intValue(old))
			pc++

		case ir.LOCAL_GET:
			vm.push(locals[instr.Operand.(string)])
			pc++
		case ir.LOCAL_SET:
			locals[instr.Operand.(string)] = vm.pop()
			pc++
		case ir.GLOBAL_GET:
			vm.push(vm.globals[instr.Operand.(string)])
			pc++
		case ir.GLOBAL_SET:
			vm.globals[instr.Operand.(string)] = vm.pop()
			pc++

		case ir.IF:
			cond := vm.pop()
			if cond.I != 0 {
				pc++
			} else {
				pc = instr.Operand.(int)
			}
		case ir.ELSE:
			pc = instr.Operand.(int)
		case ir.ENDIF:
			pc++

		case ir.LOOP:
			pc++
		case ir.CBREAK:
			cond := vm.pop()
			if cond.I != 0 {
				pc = instr.Operand.(int)
			} else {
				pc++
			}
		case ir.CONTINUE:
			pc = instr.Operand.(int)
		case ir.ENDLOOP:
			pc = instr.Operand.(int)

		case ir.CALL:
			name := instr.Operand.(string)
			callee, ok := vm.mod.Functions[name]
			if !ok {
				return Value{}, runtimeErr(instr.Line, "call to undefined function %q", name)
			}
			argc := len(callee.Params)
			if len(vm.stack) < argc {
				return Value{}, runtimeErr(instr.Line, "not enough operands for call to %q", name)
			}
			args := make([]Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = vm.pop()
			}
			ret, err := vm.call(name, args)
			if err != nil {
				return Value{}, err
			}
			vm.push(ret)
			pc++

		case ir.RET:
			if len(vm.stack) == 0 {
				return Value{}, nil
			}
			return vm.pop(), nil

		default:
			return Value{}, runtimeErr(instr.Line, "unknown opcode %v", instr.Op)
		}
	}
	return Value{}, nil
}

func intArith(op ir.Opcode, a, b int64, line int) (Value, error) {
	switch op {
	case ir.ADDI:
		return intValue(a + b), nil
	case ir.SUBI:
		return intValue(a - b), nil
	case ir.MULI:
		return intValue(a * b), nil
	case ir.DIVI:
		if b == 0 {
			return Value{}, runtimeErr(line, "division by zero")
		}
		return intValue(floorDiv(a, b)), nil
	}
	return Value{}, runtimeErr(line, "unhandled integer arithmetic opcode %v", op)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func intCompare(op ir.Opcode, a, b int64) bool {
	switch op {
	case ir.LTI:
		return a < b
	case ir.LEI:
		return a <= b
	case ir.GTI:
		return a > b
	case ir.GEI:
		return a >= b
	case ir.EQI:
		return a == b
	case ir.NEI:
		return a != b
	}
	return false
}

func floatArith(op ir.Opcode, a, b float64) float64 {
	switch op {
	case ir.ADDF:
		return a + b
	case ir.SUBF:
		return a - b
	case ir.MULF:
		return a * b
	case ir.DIVF:
		return a / b
	}
	return 0
}

func floatCompare(op ir.Opcode, a, b float64) bool {
	switch op {
	case ir.LTF:
		return a < b
	case ir.LEF:
		return a <= b
	case ir.GTF:
		return a > b
	case ir.GEF:
		return a >= b
	case ir.EQF:
		return a == b
	case ir.NEF:
		return a != b
	}
	return false
}

func (vm *VM) peek(op ir.Opcode, addr int64, line int) (Value, error) {
	if addr < 0 || int(addr) >= len(vm.memory) {
		return Value{}, runtimeErr(line, "memory address %d out of range (size %d)", addr, len(vm.memory))
	}
	cell := vm.memory[addr]
	switch op {
	case ir.PEEKF:
		return floatValue(math.Float64frombits(cell)), nil
	default:
		return intValue(int64(cell)), nil
	}
}

func (vm *VM) poke(op ir.Opcode, addr int64, val Value, line int) error {
	if addr < 0 || int(addr) >= len(vm.memory) {
		return runtimeErr(line, "memory address %d out of range (size %d)", addr, len(vm.memory))
	}
	switch op {
	case ir.POKEF:
		vm.memory[addr] = math.Float64bits(val.F)
	default:
		vm.memory[addr] = uint64(val.I)
	}
	return nil
}
