package ast

// Children returns the direct children of n in source order (a do-while
// condition is listed before its body). The switch is exhaustive over the
// node variants; adding a variant without a case here is a bug.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Body {
			add(s)
		}
	case *ExportDecl:
		if n.Decl != nil {
			add(n.Decl)
		}
		if n.X != nil {
			add(n.X)
		}
	case *VarDecl:
		for i, t := range n.Targets {
			add(t)
			if i < len(n.Inits) && n.Inits[i] != nil {
				add(n.Inits[i])
			}
		}
	case *FuncDecl:
		add(n.Func)
	case *ClassDecl:
		add(n.Class)
	case *Block:
		for _, s := range n.Body {
			add(s)
		}
	case *ExprStmt:
		add(n.X)
	case *ControlStmt:
		for _, e := range n.Exprs {
			add(e)
		}
		for _, s := range n.Body {
			add(s)
		}
	case *Function:
		for _, p := range n.Params {
			add(p)
		}
		for _, s := range n.Body {
			add(s)
		}
		if n.X != nil {
			add(n.X)
		}
	case *Class:
		if n.Super != nil {
			add(n.Super)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *ClassBody:
		for _, m := range n.Members {
			add(m)
		}
	case *Method:
		if n.Key != nil {
			add(n.Key)
		}
		add(n.Func)
	case *Field:
		if n.Key != nil {
			add(n.Key)
		}
		if n.Value != nil {
			add(n.Value)
		}
	case *StaticBlock:
		for _, s := range n.Body {
			add(s)
		}
	case *Object:
		for _, p := range n.Props {
			add(p)
		}
	case *Array:
		for _, e := range n.Elems {
			add(e)
		}
	case *Seq:
		for _, e := range n.Parts {
			add(e)
		}
	case *Paren:
		for _, e := range n.Items {
			add(e)
		}
	case *Call:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}
	case *Member:
		add(n.X)
		if n.Prop != nil {
			add(n.Prop)
		}
	case *TaggedTemplate:
		add(n.Tag)
		add(n.Quasi)
	case *Prop:
		if n.Key != nil {
			add(n.Key)
		}
		if n.Value != nil {
			add(n.Value)
		}
	case *Spread:
		add(n.X)
	case *TemplateLit:
		for _, e := range n.Exprs {
			add(e)
		}
	case *ImportDecl, *EmptyStmt, *OpaqueStmt, *OpaqueMember, *Ident, *Literal, *Template:
		// листья
	}
	return out
}

// Inspect traverses the tree rooted at root in depth-first order, calling fn
// with each node and its parent (nil for root). Children are skipped when fn
// returns false.
func Inspect(root Node, fn func(n, parent Node) bool) {
	inspect(root, nil, fn)
}

func inspect(n, parent Node, fn func(n, parent Node) bool) {
	if !fn(n, parent) {
		return
	}
	for _, c := range Children(n) {
		inspect(c, n, fn)
	}
}

// Templates returns every Template node under root with its parent, in
// traversal order. Template bodies are leaves, so nested same-named tags
// never show up as separate nodes.
func Templates(root Node) []Located[*Template] {
	var out []Located[*Template]
	Inspect(root, func(n, parent Node) bool {
		if t, ok := n.(*Template); ok {
			out = append(out, Located[*Template]{Node: t, Parent: parent})
		}
		return true
	})
	return out
}

// Located pairs a node with its syntactic parent.
type Located[T Node] struct {
	Node   T
	Parent Node
}
