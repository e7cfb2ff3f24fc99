package ast

// Class is a class declaration or expression.
type Class struct {
	base
	Name  *Ident
	Super Expr
	Body  *ClassBody
	Scope ScopeID
}

// ClassBody holds the members of a class in source order.
type ClassBody struct {
	base
	Members []ClassMember
}

// Method is a method, getter, setter or constructor.
type Method struct {
	base
	Static bool
	Key    Expr
	Func   *Function
}

// Field is a class property declaration, with or without initializer.
type Field struct {
	base
	Static bool
	Key    Expr
	Value  Expr
}

// StaticBlock is `static { ... }`.
type StaticBlock struct {
	base
	Body  []Stmt
	Scope ScopeID
}

// OpaqueMember is a TypeScript-only member (index signature, overload
// signature without body) kept as a raw span.
type OpaqueMember struct {
	base
}

func (*Class) Kind() Kind        { return KindClass }
func (*ClassBody) Kind() Kind    { return KindClassBody }
func (*Method) Kind() Kind       { return KindMethod }
func (*Field) Kind() Kind        { return KindField }
func (*StaticBlock) Kind() Kind  { return KindStaticBlock }
func (*OpaqueMember) Kind() Kind { return KindOpaqueMember }

func (*Method) memberNode()       {}
func (*Field) memberNode()        {}
func (*StaticBlock) memberNode()  {}
func (*OpaqueMember) memberNode() {}
