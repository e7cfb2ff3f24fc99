package jsgen

import (
	"fmt"
	"strings"

	"contenttag/internal/format"
)

// Print writes n to w. Statements end with `;`; nested bodies follow the
// writer's indentation (or stay on one line when w is compact).
func Print(w *format.Writer, n Node) {
	switch n := n.(type) {
	case *Ident:
		w.WriteString(n.Name)
	case *This:
		w.WriteString("this")
	case *String:
		if n.Origin != nil {
			w.Mark(n.Origin.Start)
		}
		w.WriteString(Quote(n.Value))
	case *Number:
		w.WriteString(n.Text)
	case *Call:
		if n.Origin != nil {
			w.Mark(n.Origin.Start)
		}
		Print(w, n.Callee)
		w.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				w.WriteString(", ")
			}
			Print(w, a)
		}
		w.WriteString(")")
	case *Member:
		Print(w, n.X)
		if n.Computed {
			w.WriteString("[")
			Print(w, n.Prop)
			w.WriteString("]")
			return
		}
		w.WriteString(".")
		Print(w, n.Prop)
	case *Object:
		printObject(w, n)
	case *KeyValue:
		w.WriteString(n.Key)
		if n.Shorthand {
			return
		}
		w.WriteString(": ")
		Print(w, n.Value)
	case *Method:
		w.WriteString(n.Name)
		w.WriteString("(" + strings.Join(n.Params, ", ") + ") ")
		printBody(w, n.Body)
	case *Arrow:
		if len(n.Params) == 1 {
			w.WriteString(n.Params[0])
		} else {
			w.WriteString("(" + strings.Join(n.Params, ", ") + ")")
		}
		w.WriteString(" => ")
		printBody(w, n.Body)
	case *Return:
		w.WriteString("return")
		if n.X != nil {
			w.WriteString(" ")
			Print(w, n.X)
		}
		w.WriteString(";")
	case *ExprStmt:
		Print(w, n.X)
		w.WriteString(";")
	case *Block:
		printBody(w, n.Body)
	case *StaticBlock:
		w.WriteString("static ")
		printBody(w, n.Body)
	case *ExportDefault:
		w.WriteString("export default ")
		Print(w, n.X)
		w.WriteString(";")
	case *Import:
		w.WriteString("import { ")
		w.WriteString(n.Imported)
		if n.Local != "" && n.Local != n.Imported {
			w.WriteString(" as " + n.Local)
		}
		w.WriteString(" } from " + Quote(n.Source) + ";")
	default:
		panic(fmt.Sprintf("jsgen: unexpected node %T", n))
	}
}

// printBody печатает `{ stmt... }`; пустое тело — `{}`.
func printBody(w *format.Writer, body []Node) {
	if len(body) == 0 {
		w.WriteString("{}")
		return
	}
	w.WriteString("{")
	w.IndentPush()
	for _, st := range body {
		w.Newline()
		Print(w, st)
	}
	w.IndentPop()
	w.Newline()
	w.WriteString("}")
}

func printObject(w *format.Writer, o *Object) {
	if len(o.Props) == 0 {
		w.WriteString("{}")
		return
	}
	w.WriteString("{")
	w.IndentPush()
	for i, p := range o.Props {
		if i > 0 {
			w.WriteString(",")
		}
		w.Newline()
		Print(w, p)
	}
	w.IndentPop()
	w.Newline()
	w.WriteString("}")
}

// Sprint renders n on its own with the given options.
func Sprint(n Node, opt format.Options) string {
	return format.PrintNode(opt, "", func(w *format.Writer) { Print(w, n) })
}
