package ast

import (
	"contenttag/internal/source"
)

// Kind is the closed set of node variants. Tree walkers switch on the
// concrete type; Kind is kept for diagnostics and tracing.
type Kind uint8

const (
	KindProgram Kind = iota
	KindImportDecl
	KindExportDecl
	KindVarDecl
	KindFuncDecl
	KindClassDecl
	KindBlock
	KindExprStmt
	KindEmpty
	KindControl
	KindOpaque
	KindIdent
	KindLiteral
	KindTemplateLit
	KindTaggedTemplate
	KindFunction
	KindClass
	KindObject
	KindArray
	KindSeq
	KindParen
	KindCall
	KindMember
	KindClassBody
	KindMethod
	KindField
	KindStaticBlock
	KindOpaqueMember
	KindProp
	KindSpread
	KindTemplate
)

var kindNames = [...]string{
	KindProgram:        "Program",
	KindImportDecl:     "ImportDecl",
	KindExportDecl:     "ExportDecl",
	KindVarDecl:        "VarDecl",
	KindFuncDecl:       "FuncDecl",
	KindClassDecl:      "ClassDecl",
	KindBlock:          "Block",
	KindExprStmt:       "ExprStmt",
	KindEmpty:          "Empty",
	KindControl:        "Control",
	KindOpaque:         "Opaque",
	KindIdent:          "Ident",
	KindLiteral:        "Literal",
	KindTemplateLit:    "TemplateLit",
	KindTaggedTemplate: "TaggedTemplate",
	KindFunction:       "Function",
	KindClass:          "Class",
	KindObject:         "Object",
	KindArray:          "Array",
	KindSeq:            "Seq",
	KindParen:          "Paren",
	KindCall:           "Call",
	KindMember:         "Member",
	KindClassBody:      "ClassBody",
	KindMethod:         "Method",
	KindField:          "Field",
	KindStaticBlock:    "StaticBlock",
	KindOpaqueMember:   "OpaqueMember",
	KindProp:           "Prop",
	KindSpread:         "Spread",
	KindTemplate:       "Template",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is implemented by every AST node.
type Node interface {
	Span() source.Span
	Kind() Kind
}

// Stmt is a statement-position node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression-position node.
type Expr interface {
	Node
	exprNode()
}

// ClassMember is a node that may appear directly in a class body.
type ClassMember interface {
	Node
	memberNode()
}

// base несёт span; встраивается во все узлы.
type base struct {
	Sp source.Span
}

func (b *base) Span() source.Span { return b.Sp }

// At sets the node span; the parser calls it when a node is finished.
func (b *base) At(sp source.Span) { b.Sp = sp }

// Program is the root of a parsed file.
type Program struct {
	base
	Body  []Stmt
	Scope ScopeID
}

func (*Program) Kind() Kind { return KindProgram }

// NewProgram creates a program node.
func NewProgram(sp source.Span, scope ScopeID) *Program {
	return &Program{base: base{Sp: sp}, Scope: scope}
}
