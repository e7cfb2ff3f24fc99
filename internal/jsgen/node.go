// Package jsgen builds the small synthetic JavaScript trees the rewriter
// emits (template calls, static blocks, the managed import) and prints
// them through a format.Writer.
package jsgen

import "contenttag/internal/source"

// Node is a synthetic JavaScript node.
type Node interface {
	jsNode()
}

type (
	// Ident is a bare identifier.
	Ident struct {
		Name string
	}

	// This is the `this` keyword.
	This struct{}

	// String is a double-quoted string literal. Origin, when set, is the
	// source range the value came from; the printer maps the literal to it.
	String struct {
		Value  string
		Origin *source.Span
	}

	// Number is a numeric literal printed as is.
	Number struct {
		Text string
	}

	Call struct {
		Callee Node
		Args   []Node
		Origin *source.Span
	}

	// Member is `x.prop` or, when Computed, `x[prop]`.
	Member struct {
		X        Node
		Prop     Node
		Computed bool
	}

	// Object is an object literal of KeyValue and Method properties.
	Object struct {
		Props []Node
	}

	// KeyValue is `key: value`, or `key` alone when Shorthand.
	KeyValue struct {
		Key       string
		Value     Node
		Shorthand bool
	}

	// Method is `name(params) { body }` inside an object literal.
	Method struct {
		Name   string
		Params []string
		Body   []Node
	}

	// Arrow is `param => { body }` (parenthesised for other arities).
	Arrow struct {
		Params []string
		Body   []Node
	}

	Return struct {
		X Node
	}

	ExprStmt struct {
		X Node
	}

	Block struct {
		Body []Node
	}

	// StaticBlock is a class `static { … }` initialization block.
	StaticBlock struct {
		Body []Node
	}

	ExportDefault struct {
		X Node
	}

	// Import is `import { Imported as Local } from "Source";`.
	Import struct {
		Imported string
		Local    string
		Source   string
	}
)

func (*Ident) jsNode()         {}
func (*This) jsNode()          {}
func (*String) jsNode()        {}
func (*Number) jsNode()        {}
func (*Call) jsNode()          {}
func (*Member) jsNode()        {}
func (*Object) jsNode()        {}
func (*KeyValue) jsNode()      {}
func (*Method) jsNode()        {}
func (*Arrow) jsNode()         {}
func (*Return) jsNode()        {}
func (*ExprStmt) jsNode()      {}
func (*Block) jsNode()         {}
func (*StaticBlock) jsNode()   {}
func (*ExportDefault) jsNode() {}
func (*Import) jsNode()        {}
