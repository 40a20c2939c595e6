package vm

import "github.com/goxlang/goxc/internal/typesystem"

// Value is a tagged stack-machine operand: an int64 payload for I
// cells (int, bool, and char all travel as their code-point/ordinal
// value) or a float64 payload for F cells. Kept as a plain struct
// rather than a boxed interface so pushing a value never allocates.
type Value struct {
	Low typesystem.LowType
	I   int64
	F   float64
}

func intValue(n int64) Value     { return Value{Low: typesystem.I, I: n} }
func floatValue(f float64) Value { return Value{Low: typesystem.F, F: f} }

func boolValue(b bool) Value {
	if b {
		return intValue(1)
	}
	return intValue(0)
}

// Truthy reports whether v is the "true"/nonzero operand expected by
// IF/CBREAK.
func (v Value) Truthy() bool {
	if v.Low == typesystem.F {
		return v.F != 0
	}
	return v.I != 0
}

func zeroValue(low typesystem.LowType) Value {
	if low == typesystem.F {
		return floatValue(0)
	}
	return intValue(0)
}
