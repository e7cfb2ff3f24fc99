package ast

import (
	"contenttag/internal/source"
)

// ScopeID references a scope in Scopes (1-based, 0 = none).
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeClass
	ScopeCatch
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	case ScopeCatch:
		return "catch"
	}
	return "scope(?)"
}

// Scope is one lexical scope with the names it binds.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Bindings map[string]source.Span // имя -> место объявления (первое)
}

// Scopes is the arena of all scopes of one file.
type Scopes struct {
	Arena *Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{Arena: NewArena[Scope](capHint)}
}

// New allocates a child scope of parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, sp source.Span) ScopeID {
	return ScopeID(s.Arena.Allocate(Scope{
		Kind:     kind,
		Parent:   parent,
		Span:     sp,
		Bindings: make(map[string]source.Span),
	}))
}

func (s *Scopes) Get(id ScopeID) *Scope {
	return s.Arena.Get(uint32(id))
}

// Declare binds name in scope id. The first declaration's span is kept.
func (s *Scopes) Declare(id ScopeID, name string, sp source.Span) {
	sc := s.Get(id)
	if sc == nil || name == "" {
		return
	}
	if _, ok := sc.Bindings[name]; !ok {
		sc.Bindings[name] = sp
	}
}

// DeclareVar binds name in the nearest function or module scope (var hoisting).
func (s *Scopes) DeclareVar(id ScopeID, name string, sp source.Span) {
	s.Declare(s.Hoist(id), name, sp)
}

// Hoist returns the nearest function or module scope enclosing id.
func (s *Scopes) Hoist(id ScopeID) ScopeID {
	for cur := id; cur.IsValid(); {
		sc := s.Get(cur)
		if sc.Kind == ScopeFunction || sc.Kind == ScopeModule {
			return cur
		}
		cur = sc.Parent
	}
	return id
}

// Lookup walks the scope chain from id outwards and returns the scope that
// binds name.
func (s *Scopes) Lookup(id ScopeID, name string) (ScopeID, bool) {
	for cur := id; cur.IsValid(); {
		sc := s.Get(cur)
		if sc == nil {
			return NoScopeID, false
		}
		if _, ok := sc.Bindings[name]; ok {
			return cur, true
		}
		cur = sc.Parent
	}
	return NoScopeID, false
}

// Has reports whether name is visible from scope id.
func (s *Scopes) Has(id ScopeID, name string) bool {
	_, ok := s.Lookup(id, name)
	return ok
}
