package lexer

import (
	"testing"

	"github.com/goxlang/goxc/internal/diagnostics"
	"github.com/goxlang/goxc/internal/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %s", src, err)
	}
	got := kinds(t, toks)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize(%q)[%d] = %s, want %s", src, i, got[i], want[i])
		}
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	assertKinds(t, "<= >= == != && ||",
		token.LE, token.GE, token.EQ, token.NE, token.AND, token.OR, token.EOF)

	assertKinds(t, "+ - * / < > ^ = ; ( ) { } , ` !",
		token.PLUS, token.MINUS, token.TIMES, token.DIVIDE, token.LT, token.GT,
		token.GROW, token.ASSIGN, token.SEMI, token.LPAREN, token.RPAREN,
		token.LBRACE, token.RBRACE, token.COMMA, token.DEREF, token.NOT, token.EOF)
}

func TestKeywordsAndTypes(t *testing.T) {
	assertKinds(t, "var const print return break continue if else while func import",
		token.VAR, token.CONST, token.PRINT, token.RETURN, token.BREAK,
		token.CONTINUE, token.IF, token.ELSE, token.WHILE, token.FUNC,
		token.IMPORT, token.EOF)

	assertKinds(t, "int float char bool",
		token.INT_TYPE, token.FLOAT_TYPE, token.CHAR_TYPE, token.BOOL_TYPE, token.EOF)
}

func TestIdentifierVsKeyword(t *testing.T) {
	assertKinds(t, "ifx whilex x",
		token.ID, token.ID, token.ID, token.EOF)
}

func TestBooleanLiterals(t *testing.T) {
	toks, err := Tokenize("true false")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if toks[0].Kind != token.BOOL || toks[0].Literal != true {
		t.Errorf("token 0 = %+v, want BOOL true", toks[0])
	}
	if toks[1].Kind != token.BOOL || toks[1].Literal != false {
		t.Errorf("token 1 = %+v, want BOOL false", toks[1])
	}
}

func TestNumericLiterals(t *testing.T) {
	toks, err := Tokenize("42 3.14 1e3 1.5e-2 .5")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// "1e3" has no '.', so it is the INT 1 followed by the identifier e3.
	wantKind := []token.Kind{token.INT, token.FLOAT, token.INT, token.ID, token.FLOAT, token.FLOAT, token.EOF}
	for i, k := range wantKind {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[0].Literal.(int64) != 42 {
		t.Errorf("int literal = %v, want 42", toks[0].Literal)
	}
	if toks[1].Literal.(float64) != 3.14 {
		t.Errorf("float literal = %v, want 3.14", toks[1].Literal)
	}
}

func TestCharLiterals(t *testing.T) {
	toks, err := Tokenize(`'a' '\n' '\t' '\x41'`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []rune{'a', '\n', '\t', 'A'}
	for i, w := range want {
		if toks[i].Kind != token.CHAR {
			t.Fatalf("token %d kind = %s, want CHAR", i, toks[i].Kind)
		}
		if toks[i].Literal.(rune) != w {
			t.Errorf("char literal %d = %q, want %q", i, toks[i].Literal, w)
		}
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	assertKinds(t, "var // trailing line comment\nx /* a block\ncomment */ int;",
		token.VAR, token.ID, token.INT_TYPE, token.SEMI, token.EOF)
}

func TestLineTracking(t *testing.T) {
	toks, err := Tokenize("var\nx\nint;")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	wantLines := []int{1, 2, 3, 3, 4}
	for i, want := range wantLines {
		if toks[i].Line != want {
			t.Errorf("token %d line = %d, want %d", i, toks[i].Line, want)
		}
	}
}

func TestIllegalCharactersAggregate(t *testing.T) {
	_, err := Tokenize("var x = 1 @ 2 # 3;")
	if err == nil {
		t.Fatal("expected a lexical error")
	}
	lexErrs, ok := err.(*diagnostics.LexErrors)
	if !ok {
		t.Fatalf("error type = %T, want *diagnostics.LexErrors", err)
	}
	if len(lexErrs.Errors) != 2 {
		t.Fatalf("got %d lexical errors, want 2 (for '@' and '#')", len(lexErrs.Errors))
	}
}

func TestUnterminatedBlockCommentIsLexicalError(t *testing.T) {
	_, err := Tokenize("var x /* never closed")
	if err == nil {
		t.Fatal("expected a lexical error for an unterminated block comment")
	}
}
