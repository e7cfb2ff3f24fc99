package ast

import (
	"contenttag/internal/source"
)

// Ident is an identifier reference or binding.
type Ident struct {
	base
	Name string
}

// Literal is any atom that is not an identifier: numbers, strings, regular
// expressions, this, super, null, booleans, private names.
type Literal struct {
	base
	Raw string
}

// TemplateLit is a backtick literal. Quasis holds the raw text chunk spans
// (without delimiters); len(Quasis) == len(Exprs)+1.
type TemplateLit struct {
	base
	Quasis []source.Span
	Exprs  []Expr
}

// Simple reports whether the literal has exactly one chunk (no `${}`).
func (t *TemplateLit) Simple() bool { return len(t.Exprs) == 0 }

// TaggedTemplate is `tag` immediately followed by a template literal.
type TaggedTemplate struct {
	base
	Tag   Expr
	Quasi *TemplateLit
}

// Function is a function declaration, expression, arrow or method body.
type Function struct {
	base
	Name   *Ident
	Params []Expr
	Body   []Stmt // тело-блок
	X      Expr   // тело-выражение у стрелочной функции
	Arrow  bool
	Scope  ScopeID
}

// Object is an object literal. Props holds keys, values, spreads and methods
// in source order.
type Object struct {
	base
	Props []Expr
}

// Array is an array literal or array pattern.
type Array struct {
	base
	Elems []Expr
}

// Seq is a chain of operands joined by operators (binary, ternary,
// assignment, comma inside parens, prefix/postfix). Parts keeps the
// operand expressions in source order; operators are not retained.
type Seq struct {
	base
	Parts []Expr
}

// Paren is a parenthesised expression or arrow parameter list.
type Paren struct {
	base
	Items []Expr
}

// Call is a call or `new` expression.
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

// Member is `x.prop`, `x?.prop` or `x[expr]`.
type Member struct {
	base
	X        Expr
	Prop     Expr
	Computed bool
}

// Prop is one entry of an object literal or object pattern. Shorthand
// entries (`{a}`, `{a = 1}`) have Key set and Value nil or the default.
type Prop struct {
	base
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
}

// Spread is `...x` in arrays, objects, arguments and rest patterns.
type Spread struct {
	base
	X Expr
}

func (*Ident) Kind() Kind          { return KindIdent }
func (*Literal) Kind() Kind        { return KindLiteral }
func (*TemplateLit) Kind() Kind    { return KindTemplateLit }
func (*TaggedTemplate) Kind() Kind { return KindTaggedTemplate }
func (*Function) Kind() Kind       { return KindFunction }
func (*Object) Kind() Kind         { return KindObject }
func (*Array) Kind() Kind          { return KindArray }
func (*Seq) Kind() Kind            { return KindSeq }
func (*Paren) Kind() Kind          { return KindParen }
func (*Call) Kind() Kind           { return KindCall }
func (*Member) Kind() Kind         { return KindMember }
func (*Prop) Kind() Kind           { return KindProp }
func (*Spread) Kind() Kind         { return KindSpread }

func (*Ident) exprNode()          {}
func (*Literal) exprNode()        {}
func (*TemplateLit) exprNode()    {}
func (*TaggedTemplate) exprNode() {}
func (*Function) exprNode()       {}
func (*Object) exprNode()         {}
func (*Array) exprNode()          {}
func (*Seq) exprNode()            {}
func (*Paren) exprNode()          {}
func (*Call) exprNode()           {}
func (*Member) exprNode()         {}
func (*Class) exprNode()          {}
func (*Prop) exprNode()           {}
func (*Spread) exprNode()         {}

// NewIdent creates an identifier node.
func NewIdent(sp source.Span, name string) *Ident {
	return &Ident{base: base{Sp: sp}, Name: name}
}
