// Package tagscan recognises embedded `<tag>…</tag>` regions while the host
// parser runs. It plugs into the parser as an Extension at the statement,
// assignment-expression and class-member entry points.
package tagscan

import (
	"bytes"
	"fmt"
	"strings"

	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/parser"
	"contenttag/internal/source"
	"contenttag/internal/token"
)

// DefaultTag is the conventional tag name.
const DefaultTag = "template"

// Scanner is a parser.Extension producing *ast.Template nodes. One Scanner
// serves a single parse.
type Scanner struct {
	tag   string
	nodes []*ast.Template
}

var _ parser.Extension = (*Scanner)(nil)

// New returns a scanner for tag. An empty tag disables detection.
func New(tag string) *Scanner {
	return &Scanner{tag: tag}
}

// Tag returns the configured tag name.
func (s *Scanner) Tag() string { return s.tag }

// Nodes returns the detected regions in detection order.
func (s *Scanner) Nodes() []*ast.Template { return s.nodes }

func (s *Scanner) ParseStatement(h parser.Host) ast.Stmt {
	if t := s.scan(h, ast.PosStatement); t != nil {
		return t
	}
	return nil
}

func (s *Scanner) ParseMaybeAssign(h parser.Host) ast.Expr {
	if t := s.scan(h, ast.PosExpression); t != nil {
		return t
	}
	return nil
}

func (s *Scanner) ParseClassMember(h parser.Host) ast.ClassMember {
	if t := s.scan(h, ast.PosClassMember); t != nil {
		return t
	}
	return nil
}

// opensAt: сразу за '<' начинается имя тега. Сравнение по префиксу, как
// и у вложенных открытий: `<templates>` тоже считается открытием.
func (s *Scanner) opensAt(input []byte, off uint32) bool {
	return bytes.HasPrefix(input[off:], []byte(s.tag))
}

// closesAt: за '<' идёт `/tag>`.
func (s *Scanner) closesAt(input []byte, off uint32) bool {
	rest := input[off:]
	return len(rest) > len(s.tag)+1 &&
		rest[0] == '/' &&
		bytes.HasPrefix(rest[1:], []byte(s.tag)) &&
		rest[len(s.tag)+1] == '>'
}

func isChar(tok token.Token, c string) bool {
	return tok.Kind == token.Char && tok.Text == c
}

// scan распознаёт регион на текущем токене '<'. nil — регион не начинается,
// токены не тронуты. Иначе весь регион съеден и парсер стоит на первом
// токене после закрывающего '>'.
func (s *Scanner) scan(h parser.Host, pos ast.Position) *ast.Template {
	tok := h.Tok()
	input := h.Input()
	if s.tag == "" || tok.Kind != token.Lt || !s.opensAt(input, tok.Span.End) {
		return nil
	}
	open := tok.Span
	fileID := open.File

	// открывающий тег читаем уже в режиме body: атрибуты могут содержать
	// кавычки и слэши
	h.SetBodyMode(true, open.End)
	for !isChar(h.Tok(), ">") {
		if h.Tok().Kind == token.EOF {
			h.Fail(diag.SynUnclosedTemplateTag, open, fmt.Sprintf("unclosed opening <%s> tag", s.tag))
		}
		h.Next()
	}
	gt := h.Tok().Span

	node := ast.NewTemplate(s.tag, source.Span{File: fileID, Start: open.Start, End: gt.End}, h.Scope(), pos)
	node.Properties = ParseProperties(string(input[open.Start:gt.Start]))
	contentStart := gt.End
	h.Next()

	depth := 1
	for {
		cur := h.Tok()
		if cur.Kind == token.EOF {
			h.Fail(diag.SynUnclosedTemplate, node.StartRange,
				fmt.Sprintf("unclosed <%s>: expected </%s>", s.tag, s.tag))
		}
		if isChar(cur, "<") {
			switch {
			case s.opensAt(input, cur.Span.End):
				depth++
			case s.closesAt(input, cur.Span.End):
				depth--
				if depth == 0 {
					s.finish(h, node, contentStart, cur.Span.Start)
					return node
				}
			}
		}
		h.Next()
	}
}

// finish закрывает регион: закрывающий тег `</tag>` начинается в endStart.
func (s *Scanner) finish(h parser.Host, node *ast.Template, contentStart, endStart uint32) {
	input := h.Input()
	fileID := node.StartRange.File
	for !isChar(h.Tok(), ">") {
		h.Next()
	}
	h.Next() // '>' съеден: конец узла = конец закрывающего тега
	end := h.SpanFrom(endStart).End

	node.ContentRange = source.Span{File: fileID, Start: contentStart, End: endStart}
	node.EndRange = source.Span{File: fileID, Start: endStart, End: end}
	node.Content = string(input[contentStart:endStart])
	node.At(source.Span{File: fileID, Start: node.StartRange.Start, End: end})
	s.nodes = append(s.nodes, node)

	h.SetBodyMode(false, end)
}

// ParseProperties разбирает текст открывающего тега без '>': части,
// разделённые пробелами (кроме первой, имени тега), становятся свойствами
// `key` или `key=value`. Значение может само содержать '='.
func ParseProperties(openTag string) []ast.Property {
	parts := strings.Split(openTag, " ")
	var props []ast.Property
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		prop := ast.Property{Key: key, Value: value, HasValue: hasValue}
		// повторный ключ перезаписывает значение, порядок — первого появления
		replaced := false
		for i := range props {
			if props[i].Key == key {
				props[i] = prop
				replaced = true
				break
			}
		}
		if !replaced {
			props = append(props, prop)
		}
	}
	return props
}
