package ast

import (
	"contenttag/internal/source"
)

// ImportSpecifier is one `imported as local` pair of a named import.
type ImportSpecifier struct {
	Imported string
	Local    *Ident
	TypeOnly bool
}

// ImportDecl is a static `import ... from '...'` declaration.
type ImportDecl struct {
	base
	Module         string // значение строки без кавычек
	ModuleSpan     source.Span
	Default        *Ident
	Namespace      *Ident
	Named          []ImportSpecifier
	TypeOnly       bool
	SideEffectOnly bool
}

// ExportDecl covers `export default <expr>`, `export <decl>` and export lists.
type ExportDecl struct {
	base
	Default bool
	Decl    Stmt // export const/function/class ...
	X       Expr // export default <expr>
}

// VarDecl is a var/let/const (or using) declaration.
type VarDecl struct {
	base
	Keyword string
	Names   []*Ident // все связанные имена, включая деструктуризацию
	Targets []Expr   // шаблоны слева, как распарсились
	Inits   []Expr   // инициализаторы (nil, если нет)
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	base
	Func *Function
}

// ClassDecl is a class declaration statement.
type ClassDecl struct {
	base
	Class *Class
}

// Block is `{ ... }` in statement position.
type Block struct {
	base
	Body  []Stmt
	Scope ScopeID
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	base
	X Expr
}

// EmptyStmt is a lone `;`.
type EmptyStmt struct {
	base
}

// ControlStmt is a control-flow statement (if, for, while, do, switch, try,
// return, throw, break, continue, labeled, with). Only its children matter
// for template discovery, so they are kept in source order.
type ControlStmt struct {
	base
	Keyword string
	Exprs   []Expr
	Body    []Stmt
}

// OpaqueStmt is a TypeScript-only declaration (type, interface, declare,
// enum, namespace without templates) kept as a raw span.
type OpaqueStmt struct {
	base
	Keyword string
}

func (*ImportDecl) Kind() Kind  { return KindImportDecl }
func (*ExportDecl) Kind() Kind  { return KindExportDecl }
func (*VarDecl) Kind() Kind     { return KindVarDecl }
func (*FuncDecl) Kind() Kind    { return KindFuncDecl }
func (*ClassDecl) Kind() Kind   { return KindClassDecl }
func (*Block) Kind() Kind       { return KindBlock }
func (*ExprStmt) Kind() Kind    { return KindExprStmt }
func (*EmptyStmt) Kind() Kind   { return KindEmpty }
func (*ControlStmt) Kind() Kind { return KindControl }
func (*OpaqueStmt) Kind() Kind  { return KindOpaque }

func (*ImportDecl) stmtNode()  {}
func (*ExportDecl) stmtNode()  {}
func (*VarDecl) stmtNode()     {}
func (*FuncDecl) stmtNode()    {}
func (*ClassDecl) stmtNode()   {}
func (*Block) stmtNode()       {}
func (*ExprStmt) stmtNode()    {}
func (*EmptyStmt) stmtNode()   {}
func (*ControlStmt) stmtNode() {}
func (*OpaqueStmt) stmtNode()  {}
