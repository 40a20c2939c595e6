// Package typesystem defines GoxLang's primitive type set, the
// operator signature tables the checker consults, and the lowering
// from source types to the IR's two low-level cell types.
package typesystem

// Kind is one of GoxLang's four primitive source types, plus the
// sentinel None used before a node has been type-checked.
type Kind int

const (
	None Kind = iota
	Int
	Float
	Char
	Bool
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Char:
		return "char"
	case Bool:
		return "bool"
	default:
		return "none"
	}
}

// LowType is the IR's cell width: I for integer-like values (int,
// bool, char all fit in one cell), F for floats.
type LowType int

const (
	I LowType = iota
	F
)

func (lt LowType) String() string {
	if lt == F {
		return "F"
	}
	return "I"
}

// Lower maps a source Kind to its IR cell type.
func Lower(k Kind) LowType {
	if k == Float {
		return F
	}
	return I
}

// binKey identifies a (left, op, right) triple in the binary
// signature table.
type binKey struct {
	Left  Kind
	Op    string
	Right Kind
}

// binarySignatures is the Glossary's binary signature table:
// int∘int→int for +,-,*,/; int∘int→bool for the six comparisons;
// same shape for float; char∘char→bool for the six comparisons only;
// bool∘bool→bool for &&,||.
var binarySignatures = func() map[binKey]Kind {
	sigs := map[binKey]Kind{}
	arith := []string{"+", "-", "*", "/"}
	cmp := []string{"<", "<=", ">", ">=", "==", "!="}
	for _, op := range arith {
		sigs[binKey{Int, op, Int}] = Int
		sigs[binKey{Float, op, Float}] = Float
	}
	for _, op := range cmp {
		sigs[binKey{Int, op, Int}] = Bool
		sigs[binKey{Float, op, Float}] = Bool
		sigs[binKey{Char, op, Char}] = Bool
	}
	sigs[binKey{Bool, "&&", Bool}] = Bool
	sigs[binKey{Bool, "||", Bool}] = Bool
	return sigs
}()

// BinarySignature looks up the result type of (left op right); ok is
// false if the combination is not in the table.
func BinarySignature(left Kind, op string, right Kind) (Kind, bool) {
	k, ok := binarySignatures[binKey{left, op, right}]
	return k, ok
}

type unaryKey struct {
	Op  string
	Typ Kind
}

// unarySignatures is the Glossary's unary signature table:
// +int→int, -int→int, +float→float, -float→float, !bool→bool, ^int→int.
var unarySignatures = map[unaryKey]Kind{
	{"+", Int}:   Int,
	{"-", Int}:   Int,
	{"+", Float}: Float,
	{"-", Float}: Float,
	{"!", Bool}:  Bool,
	{"^", Int}:   Int,
}

// UnarySignature looks up the result type of (op typ).
func UnarySignature(op string, typ Kind) (Kind, bool) {
	k, ok := unarySignatures[unaryKey{op, typ}]
	return k, ok
}

// ConversionAllowed implements the checker's type-conversion rule:
// char(e) is always accepted; any other T(e) is rejected when
// type(e) == char.
func ConversionAllowed(target, source Kind) bool {
	if target == Char {
		return true
	}
	return source != Char
}
