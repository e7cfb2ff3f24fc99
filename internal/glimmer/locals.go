// Package glimmer holds the two template-language collaborators the
// rewriter needs: free-name analysis of a template body and whitespace
// minification of its text.
package glimmer

import (
	"strings"

	"golang.org/x/net/html"
)

// LocalsOptions tunes Locals.
type LocalsOptions struct {
	// IncludeHTMLElements reports plain lowercase element names too.
	IncludeHTMLElements bool
	// IncludeKeywords keeps built-in keywords such as `if` and `each`.
	IncludeKeywords bool
}

// Analyzer reports the free names of a template body.
type Analyzer interface {
	Locals(src string, opts LocalsOptions) []string
}

// Default is the built-in Analyzer.
var Default Analyzer = analyzer{}

type analyzer struct{}

func (analyzer) Locals(src string, opts LocalsOptions) []string { return Locals(src, opts) }

// frame — блок `{{#x}}` или элемент `<X>` со своими block params.
type frame struct {
	closer  string
	element bool
	params  []string
}

type scanner struct {
	src   string
	opts  LocalsOptions
	stack []frame
	seen  map[string]struct{}
	out   []string
}

// Locals returns the names a template body refers to that are neither
// bound inside the template nor resolved by the template compiler.
// Names appear once, in order of first use. Mustache paths contribute
// their head segment; element tags are reported whole (`Foo.Bar`).
func Locals(src string, opts LocalsOptions) []string {
	s := &scanner{src: src, opts: opts, seen: make(map[string]struct{})}
	s.run()
	return s.out
}

// span — байтовый диапазон одного `{{…}}` в исходном теле.
type span struct{ start, end int }

// run режет тело на теги, текст и комментарии токенизатором x/net/html.
// Токенизатор читает замаскированную копию, где mustache и префиксы
// `<:`/`<@` заменены буквами той же длины, поэтому смещения совпадают с
// исходником. Имена тегов и block params берутся из исходного текста:
// токенизатор приводит имена к нижнему регистру.
func (s *scanner) run() {
	masked, spans := mask(s.src)
	z := html.NewTokenizer(strings.NewReader(masked))
	off, next := 0, 0
	// mustaches разбирает выражения, начинающиеся до конца текущего токена.
	mustaches := func(end int, visit bool) {
		for ; next < len(spans) && spans[next].start < end; next++ {
			if visit {
				s.mustache(s.src[spans[next].start:spans[next].end])
			}
		}
	}
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// strings.Reader даёт только io.EOF; недописанный тег в конце
			// токеном не становится, его mustache разбираем как есть
			mustaches(len(s.src), true)
			return
		}
		start := off
		off += len(z.Raw())

		switch tt {
		case html.TextToken:
			mustaches(off, true)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, params := tagParts(s.src[start:off], masked[start:off])
			if _, raw := rawTextElements[name]; !raw || tt == html.SelfClosingTagToken {
				z.NextIsNotRawText()
			}
			s.element(name)
			mustaches(off, true)
			if tt == html.SelfClosingTagToken {
				continue
			}
			if _, void := voidElements[name]; void {
				continue
			}
			s.stack = append(s.stack, frame{closer: name, element: true, params: params})
		case html.EndTagToken:
			name, _ := tagParts(s.src[start:off], masked[start:off])
			mustaches(off, false)
			s.pop(name, true)
		default:
			// комментарии и doctype
			mustaches(off, false)
		}
	}
}

// rawTextElements keep their content as text, as in HTML.
var rawTextElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// mask returns a copy of src with every mustache and the sigil of `<:x>`
// and `<@x>` tags replaced by 'x', plus the mustache spans in order.
// HTML comments are left as they are.
func mask(src string) (string, []span) {
	buf := []byte(src)
	var spans []span
	for i := 0; i < len(src); {
		rest := src[i:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			i = pastMarker(src, i+4, "-->")
		case strings.HasPrefix(rest, "{{"):
			end := mustacheSpanEnd(src, i)
			for k := i; k < end; k++ {
				buf[k] = 'x'
			}
			spans = append(spans, span{i, end})
			i = end
		case strings.HasPrefix(rest, "</") && len(rest) > 2 && isSigil(rest[2]):
			buf[i+2] = 'x'
			i += 3
		case rest[0] == '<' && len(rest) > 1 && isSigil(rest[1]):
			buf[i+1] = 'x'
			i += 2
		default:
			i++
		}
	}
	return string(buf), spans
}

func isSigil(c byte) bool { return c == ':' || c == '@' }

// mustacheSpanEnd returns the end of the mustache opening at i: past the
// closing braces, or len(src) when it is never closed.
func mustacheSpanEnd(src string, i int) int {
	rest := src[i+2:]
	switch {
	case strings.HasPrefix(rest, "!--"), strings.HasPrefix(rest, "~!--"):
		body := i + 2 + strings.Index(rest, "--") + 2
		return pastMarker(src, pastMarker(src, body, "--"), "}}")
	case strings.HasPrefix(rest, "!"), strings.HasPrefix(rest, "~!"):
		return pastMarker(src, i+2, "}}")
	}
	end := mustacheEnd(src, i+2)
	if end == len(src) {
		return end
	}
	end += 2
	if strings.HasPrefix(rest, "{") && end < len(src) && src[end] == '}' {
		end++
	}
	return end
}

func pastMarker(src string, from int, marker string) int {
	if from >= len(src) {
		return len(src)
	}
	if i := strings.Index(src[from:], marker); i >= 0 {
		return from + i + len(marker)
	}
	return len(src)
}

// mustache разбирает один `{{…}}` целиком, вместе со скобками.
func (s *scanner) mustache(text string) {
	inner := strings.TrimPrefix(text, "{{")
	if strings.HasPrefix(inner, "!") || strings.HasPrefix(inner, "~!") {
		return
	}
	inner = strings.TrimSuffix(inner, "}}")
	if strings.HasPrefix(inner, "{") {
		inner = strings.TrimSuffix(inner[1:], "}")
	}
	inner = strings.TrimPrefix(inner, "~")
	inner = strings.TrimSuffix(inner, "~")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return
	}

	switch inner[0] {
	case '#', '^':
		if strings.HasPrefix(inner, "#>") || strings.HasPrefix(inner, "#*") {
			return
		}
		toks := lexExpr(inner[1:])
		name := ""
		if len(toks) > 0 && toks[0].kind == tokWord {
			name = toks[0].text
		}
		params := s.expr(toks)
		s.stack = append(s.stack, frame{closer: name, params: params})
	case '/':
		s.pop(strings.TrimSpace(inner[1:]), false)
	case '>':
		// partials не поддерживаются шаблонным компилятором
	default:
		toks := lexExpr(inner)
		if len(toks) > 0 && toks[0].kind == tokWord && toks[0].text == "else" {
			toks = toks[1:]
		}
		s.expr(toks)
	}
}

// mustacheEnd returns the index of the closing `}}`, skipping string
// literals, or len(src) when there is none.
func mustacheEnd(src string, from int) int {
	var quote byte
	for i := from; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '}' && i+1 < len(src) && src[i+1] == '}':
			return i
		}
	}
	return len(src)
}

// tagParts reads the tag name of a start or end tag from its original
// text and the `|a b|` block params from the masked one, where mustaches
// cannot contribute quotes or bars.
func tagParts(orig, masked string) (name string, params []string) {
	i := 1
	if strings.HasPrefix(masked, "</") {
		i = 2
	}
	j := i
	for j < len(masked) && !isSpace(masked[j]) && masked[j] != '>' && masked[j] != '/' {
		j++
	}
	name = orig[i:j]

	var quote byte
	for k := j; k < len(masked); k++ {
		c := masked[k]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '|':
			end := strings.IndexByte(masked[k+1:], '|')
			if end < 0 {
				return name, params
			}
			params = strings.Fields(masked[k+1 : k+1+end])
			k += end + 1
		}
	}
	return name, params
}

// pop снимает фреймы до ближайшего подходящего; без совпадения стек не трогаем.
func (s *scanner) pop(closer string, element bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].closer == closer && s.stack[i].element == element {
			s.stack = s.stack[:i]
			return
		}
	}
}

func (s *scanner) scoped(name string) bool {
	for i := len(s.stack) - 1; i >= 0; i-- {
		for _, p := range s.stack[i].params {
			if p == name {
				return true
			}
		}
	}
	return false
}

func (s *scanner) add(name string) {
	if !s.opts.IncludeKeywords && IsKeyword(name) {
		return
	}
	if _, dup := s.seen[name]; dup {
		return
	}
	s.seen[name] = struct{}{}
	s.out = append(s.out, name)
}

func (s *scanner) element(tag string) {
	if tag == "" || tag[0] == ':' || tag[0] == '@' || tag[0] == '{' || strings.HasPrefix(tag, "this.") {
		return
	}
	if !s.opts.IncludeHTMLElements && !strings.Contains(tag, ".") && strings.ToLower(tag) == tag {
		return
	}
	if s.scoped(head(tag)) {
		return
	}
	s.add(tag)
}

func (s *scanner) path(text string) {
	if text == "" || isLiteral(text) {
		return
	}
	switch text[0] {
	case '@', '.', ':':
		return
	}
	h := head(text)
	if h == "this" || s.scoped(h) {
		return
	}
	s.add(h)
}

// expr walks the tokens of one mustache body. It returns the block params
// declared with `as |…|`.
func (s *scanner) expr(toks []exprToken) []string {
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokWord {
			continue
		}
		if t.text == "as" && i+1 < len(toks) && toks[i+1].kind == tokBar {
			var params []string
			for j := i + 2; j < len(toks) && toks[j].kind != tokBar; j++ {
				params = append(params, toks[j].text)
			}
			return params
		}
		if i+1 < len(toks) && toks[i+1].kind == tokEquals {
			// ключ хэша
			i++
			continue
		}
		s.path(t.text)
	}
	return nil
}

func head(path string) string {
	if i := strings.IndexAny(path, "./"); i > 0 {
		return path[:i]
	}
	return path
}

func isLiteral(text string) bool {
	switch text {
	case "true", "false", "null", "undefined":
		return true
	}
	c := text[0]
	if c >= '0' && c <= '9' {
		return true
	}
	return c == '-' && len(text) > 1 && text[1] >= '0' && text[1] <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
