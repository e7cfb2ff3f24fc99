package ast

import (
	"contenttag/internal/source"
)

// Position says which grammar hook produced a Template node.
type Position uint8

const (
	PosStatement Position = iota
	PosExpression
	PosClassMember
)

func (p Position) String() string {
	switch p {
	case PosStatement:
		return "statement"
	case PosExpression:
		return "expression"
	case PosClassMember:
		return "class-member"
	}
	return "position(?)"
}

// Property is one attribute of an opening tag: `key` or `key=value`.
type Property struct {
	Key      string
	Value    string
	HasValue bool
}

// Template is an embedded `<tag>…</tag>` region. A single variant serves
// all three positions, so it implements Stmt, Expr and ClassMember.
type Template struct {
	base
	TagName      string
	Properties   []Property
	StartRange   source.Span // '<' .. '>' открывающего тега
	ContentRange source.Span
	EndRange     source.Span // '<' .. '>' закрывающего тега
	Content      string
	Scope        ScopeID
	Pos          Position
}

func (*Template) Kind() Kind  { return KindTemplate }
func (*Template) stmtNode()   {}
func (*Template) exprNode()   {}
func (*Template) memberNode() {}

// Property returns the named property and whether it is present.
func (t *Template) Property(key string) (Property, bool) {
	for _, p := range t.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// NewTemplate creates a template node whose span starts at start.
func NewTemplate(tagName string, start source.Span, scope ScopeID, pos Position) *Template {
	return &Template{
		base:       base{Sp: start},
		TagName:    tagName,
		StartRange: start,
		Scope:      scope,
		Pos:        pos,
	}
}
