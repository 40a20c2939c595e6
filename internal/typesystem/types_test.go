package typesystem

import "testing"

func TestKindStrings(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{Int, "int"},
		{Float, "float"},
		{Char, "char"},
		{Bool, "bool"},
		{None, "none"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestLower(t *testing.T) {
	if Lower(Float) != F {
		t.Errorf("Lower(Float) = %v, want F", Lower(Float))
	}
	for _, k := range []Kind{Int, Char, Bool} {
		if Lower(k) != I {
			t.Errorf("Lower(%v) = %v, want I", k, Lower(k))
		}
	}
}

func TestBinarySignatureArithmetic(t *testing.T) {
	if k, ok := BinarySignature(Int, "+", Int); !ok || k != Int {
		t.Errorf("BinarySignature(Int,+,Int) = (%v,%v), want (Int,true)", k, ok)
	}
	if k, ok := BinarySignature(Float, "*", Float); !ok || k != Float {
		t.Errorf("BinarySignature(Float,*,Float) = (%v,%v), want (Float,true)", k, ok)
	}
	if _, ok := BinarySignature(Int, "+", Float); ok {
		t.Error("mixed int+float arithmetic must not be in the signature table")
	}
}

func TestBinarySignatureComparisons(t *testing.T) {
	if k, ok := BinarySignature(Char, "==", Char); !ok || k != Bool {
		t.Errorf("BinarySignature(Char,==,Char) = (%v,%v), want (Bool,true)", k, ok)
	}
	if _, ok := BinarySignature(Bool, "<", Bool); ok {
		t.Error("bool must not support ordering comparisons")
	}
}

func TestBinarySignatureLogical(t *testing.T) {
	if k, ok := BinarySignature(Bool, "&&", Bool); !ok || k != Bool {
		t.Errorf("BinarySignature(Bool,&&,Bool) = (%v,%v), want (Bool,true)", k, ok)
	}
	if _, ok := BinarySignature(Int, "&&", Int); ok {
		t.Error("&& must not be defined for int operands")
	}
}

func TestUnarySignature(t *testing.T) {
	if k, ok := UnarySignature("!", Bool); !ok || k != Bool {
		t.Errorf("UnarySignature(!,Bool) = (%v,%v), want (Bool,true)", k, ok)
	}
	if k, ok := UnarySignature("-", Float); !ok || k != Float {
		t.Errorf("UnarySignature(-,Float) = (%v,%v), want (Float,true)", k, ok)
	}
	if _, ok := UnarySignature("!", Int); ok {
		t.Error("! must not be defined for int operands")
	}
}

func TestConversionAllowed(t *testing.T) {
	if !ConversionAllowed(Char, Int) {
		t.Error("char(int) must always be allowed")
	}
	if ConversionAllowed(Int, Char) {
		t.Error("int(char) must be rejected: char is not a convertible source")
	}
	if !ConversionAllowed(Float, Int) {
		t.Error("float(int) must be allowed")
	}
}
