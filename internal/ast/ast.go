// Package ast defines the closed family of GoxLang syntax tree nodes.
// Every node is a plain struct; traversals use type switches rather
// than a visitor interface, per the recommendation to express a closed
// sum type directly instead of dispatching through runtime types.
package ast

import "github.com/goxlang/goxc/internal/typesystem"

// Node is the minimal contract every AST node satisfies.
type Node interface {
	Line() int
}

// Statement is any top-level or block-level statement node.
type Statement interface {
	Node
	stmtNode()
}

// Expression is any value-producing node. Type holds the static type
// assigned by the checker (typesystem.None before checking runs).
type Expression interface {
	Node
	exprNode()
	SetType(typesystem.Kind)
	Type() typesystem.Kind
}

// Location is the subset of Expression that can appear on the left of
// an assignment: a named variable or a raw memory cell.
type Location interface {
	Expression
	locNode()
	SetUsage(Usage)
	GetUsage() Usage
}

// Usage tags whether a Location is being read or written, set by the
// IR generator based on the syntactic context it is visited in.
type Usage int

const (
	UsageLoad Usage = iota
	UsageStore
)

// Program is the root node: an ordered sequence of top-level
// statements (Vardecl, Funcdecl, and top-level Assignment/PrintStmt).
type Program struct {
	Statements []Statement
}

func (p *Program) Line() int { return 0 }

// exprBase factors the Line/Type bookkeeping shared by every
// Expression implementation.
type exprBase struct {
	line int
	typ  typesystem.Kind
}

func (e *exprBase) Line() int                 { return e.line }
func (e *exprBase) SetType(t typesystem.Kind) { e.typ = t }
func (e *exprBase) Type() typesystem.Kind     { return e.typ }
func (e *exprBase) exprNode()                 {}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Assignment is `location = expr;`.
type Assignment struct {
	LineNo int
	Loc    Location
	Expr   Expression
}

func (a *Assignment) Line() int { return a.LineNo }
func (a *Assignment) stmtNode() {}

// PrintStmt is `print expr;`.
type PrintStmt struct {
	LineNo int
	Expr   Expression
}

func (p *PrintStmt) Line() int { return p.LineNo }
func (p *PrintStmt) stmtNode() {}

// IfStmt is `if cond { then } [else { alt }]`. Else is nil when absent
// (distinct from an empty else body, which is a non-nil empty slice).
type IfStmt struct {
	LineNo  int
	Cond    Expression
	Then    []Statement
	Else    []Statement // nil means no else clause at all
	HasElse bool
}

func (i *IfStmt) Line() int { return i.LineNo }
func (i *IfStmt) stmtNode() {}

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	LineNo int
	Cond   Expression
	Body   []Statement
}

func (w *WhileStmt) Line() int { return w.LineNo }
func (w *WhileStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct{ LineNo int }

func (b *BreakStmt) Line() int { return b.LineNo }
func (b *BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ LineNo int }

func (c *ContinueStmt) Line() int { return c.LineNo }
func (c *ContinueStmt) stmtNode() {}

// ReturnStmt is `return expr;`.
type ReturnStmt struct {
	LineNo int
	Expr   Expression
}

func (r *ReturnStmt) Line() int { return r.LineNo }
func (r *ReturnStmt) stmtNode() {}

// DeclKind distinguishes var from const declarations.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclConst
)

// Vardecl is `var name type [= value];` or `const name = value;`.
// A const carries no explicit Type in source; its type is resolved to
// the initializer's type during the same checker pass that visits it
// (eagerly, not lazily on first read — see the lazy-const-typing
// Open Question).
type Vardecl struct {
	LineNo int
	Kind   DeclKind
	Name   string
	Typ    typesystem.Kind // explicit type for var; resolved type for const after checking
	Value  Expression      // nil for a var with no initializer
}

func (v *Vardecl) Line() int { return v.LineNo }
func (v *Vardecl) stmtNode() {}

// Param is a single function parameter.
type Param struct {
	Name string
	Typ  typesystem.Kind
}

// Funcdecl is `[import] func name(params) type [; | { body }]`.
// IsImport functions have a nil Body.
type Funcdecl struct {
	LineNo     int
	IsImport   bool
	Name       string
	Params     []Param
	ReturnType typesystem.Kind
	Body       []Statement
}

func (f *Funcdecl) Line() int { return f.LineNo }
func (f *Funcdecl) stmtNode() {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Literal is a literal value of a primitive type. Value holds an
// int64, float64, rune (the character's code point), or bool
// depending on Kind.
type Literal struct {
	exprBase
	Kind  typesystem.Kind // the literal's own static type: int/float/char/bool
	Value any
}

func NewLiteral(line int, kind typesystem.Kind, value any) *Literal {
	l := &Literal{Kind: kind, Value: value}
	l.line = line
	return l
}

// BinOp enumerates the source-level binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
)

// Binary is `left op right`.
type Binary struct {
	exprBase
	Op    BinOp
	Left  Expression
	Right Expression
}

func NewBinary(line int, op BinOp, left, right Expression) *Binary {
	b := &Binary{Op: op, Left: left, Right: right}
	b.line = line
	return b
}

// UnaryOp enumerates the source-level unary operators.
type UnaryOp int

const (
	OpPos  UnaryOp = iota // unary +
	OpNeg                 // unary -
	OpNot                 // !
	OpGrow                // ^ (grow-memory)
)

// Unary is `op expr`.
type Unary struct {
	exprBase
	Op   UnaryOp
	Expr Expression
}

func NewUnary(line int, op UnaryOp, expr Expression) *Unary {
	u := &Unary{Op: op, Expr: expr}
	u.line = line
	return u
}

// TypeConversion is `type(expr)`.
type TypeConversion struct {
	exprBase
	Target typesystem.Kind
	Expr   Expression
}

func NewTypeConversion(line int, target typesystem.Kind, expr Expression) *TypeConversion {
	t := &TypeConversion{Target: target, Expr: expr}
	t.line = line
	return t
}

// FuncCall is `name(args)`.
type FuncCall struct {
	exprBase
	Name string
	Args []Expression
}

func NewFuncCall(line int, name string, args []Expression) *FuncCall {
	f := &FuncCall{Name: name, Args: args}
	f.line = line
	return f
}

// locBase factors the Usage tag shared by both Location variants.
type locBase struct {
	exprBase
	usage Usage
}

func (l *locBase) locNode()         {}
func (l *locBase) SetUsage(u Usage) { l.usage = u }
func (l *locBase) GetUsage() Usage  { return l.usage }

// LocationPrimi is a named-variable location: `x`.
type LocationPrimi struct {
	locBase
	Name string
}

func NewLocationPrimi(line int, name string) *LocationPrimi {
	l := &LocationPrimi{Name: name}
	l.line = line
	return l
}

// LocationMem is a raw memory cell location: a backtick followed by
// an address expression, e.g. `addr`.
type LocationMem struct {
	locBase
	Addr Expression
}

func NewLocationMem(line int, addr Expression) *LocationMem {
	l := &LocationMem{Addr: addr}
	l.line = line
	return l
}
