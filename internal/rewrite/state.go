package rewrite

import (
	"strconv"

	"contenttag/internal/ast"
	"contenttag/internal/collect"
	"contenttag/internal/jsgen"
	"contenttag/internal/parser"
)

// site is one match scheduled for rewriting.
type site struct {
	match  *collect.Match
	parent ast.Node
	target Target
	call   *jsgen.Call
}

// classBlock collects the calls that go into one class's static block.
type classBlock struct {
	body  *ast.ClassBody
	calls []*jsgen.Call
}

// state accumulates everything the per-file walk learns. Once frozen, the
// managed import name is fixed and applied to every registered call site.
type state struct {
	parse *parser.Result

	importName string
	// calls — реестр мест вызова: имя подставляется после freeze
	calls   []*jsgen.Ident
	sites   []*site
	classes []*classBlock
	byBody  map[*ast.ClassBody]*classBlock
	frozen  bool
}

func newState(parse *parser.Result, importName string) *state {
	return &state{
		parse:      parse,
		importName: importName,
		byBody:     make(map[*ast.ClassBody]*classBlock),
	}
}

// callee registers a new call-site identifier. An empty name means the
// managed import binding.
func (s *state) callee(name string) *jsgen.Ident {
	if s.frozen {
		panic("rewrite: call site registered after freeze")
	}
	if name == "" {
		name = s.importName
	}
	id := &jsgen.Ident{Name: name}
	s.calls = append(s.calls, id)
	return id
}

func (s *state) addToClass(body *ast.ClassBody, call *jsgen.Call) {
	cb, ok := s.byBody[body]
	if !ok {
		cb = &classBlock{body: body}
		s.byBody[body] = cb
		s.classes = append(s.classes, cb)
	}
	cb.calls = append(cb.calls, call)
}

// freeze picks the managed import name: the first of base, base1, base2, …
// that no identifier of the file uses, and renames every call site. Without
// rename the names given to callee stay as they are.
func (s *state) freeze(rename bool) string {
	s.frozen = true
	if !rename {
		return s.importName
	}
	base := s.importName
	name := base
	for i := 1; s.parse.HasIdent(name); i++ {
		name = base + strconv.Itoa(i)
	}
	s.importName = name
	for _, id := range s.calls {
		id.Name = name
	}
	return name
}
