// Package symbols implements GoxLang's lexically-scoped symbol table:
// a tree of scopes, each tagged with a ScopeKind enum the checker
// consults to validate break/continue/return.
package symbols

import "github.com/goxlang/goxc/internal/ast"

// ScopeKind is the Glossary's "scope kind": the semantic tag on a
// scope used to validate control-flow statements. An enum, not a
// string, per the symbol-table design note.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunc
	ScopeIf
	ScopeElse
	ScopeLoop
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunc:
		return "funcSymbol"
	case ScopeIf:
		return "ifSymbol"
	case ScopeElse:
		return "elseSymbol"
	case ScopeLoop:
		return "loopSymbol"
	default:
		return "unknown"
	}
}

// Scope is one node in the symbol-table tree: a name→declaration
// mapping plus a parent pointer.
type Scope struct {
	Kind   ScopeKind
	parent *Scope
	decls  map[string]ast.Node
}

// NewScope creates a scope of the given kind, chained to parent
// (parent may be nil only for the root global scope).
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, parent: parent, decls: make(map[string]ast.Node)}
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Define inserts name → decl in this scope. It returns false if name
// already exists in this same scope (shadowing an outer scope is
// always permitted; redefining within one scope is not).
func (s *Scope) Define(name string, decl ast.Node) bool {
	if _, exists := s.decls[name]; exists {
		return false
	}
	s.decls[name] = decl
	return true
}

// Resolve walks from this scope up to the root looking for name.
func (s *Scope) Resolve(name string) (ast.Node, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if decl, ok := cur.decls[name]; ok {
			return decl, cur, true
		}
	}
	return nil, nil, false
}

// ResolveLocal looks up name only within this exact scope.
func (s *Scope) ResolveLocal(name string) (ast.Node, bool) {
	decl, ok := s.decls[name]
	return decl, ok
}

// InLoop reports whether this scope or any ancestor is a loop scope,
// for validating break/continue.
func (s *Scope) InLoop() bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.Kind == ScopeLoop {
			return true
		}
	}
	return false
}

// EnclosingFunc walks up looking for a funcSymbol scope, for
// validating return. ok is false at global scope with no enclosing
// function (i.e. outside any Funcdecl body).
func (s *Scope) EnclosingFunc() (*Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.Kind == ScopeFunc {
			return cur, true
		}
	}
	return nil, false
}
