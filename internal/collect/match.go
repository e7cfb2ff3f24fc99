package collect

import (
	"fmt"

	"contenttag/internal/ast"
	"contenttag/internal/source"
)

// Kind distinguishes the two embedding syntaxes.
type Kind uint8

const (
	// KindTag is `<tag>…</tag>`.
	KindTag Kind = iota
	// KindCall is an import-bound identifier followed by a backtick literal.
	KindCall
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag-delimited"
	case KindCall:
		return "call-style"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText renders the kind for JSON and msgpack encoders.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText accepts the names produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "tag-delimited":
		*k = KindTag
	case "call-style":
		*k = KindCall
	default:
		return fmt.Errorf("unknown match kind %q", text)
	}
	return nil
}

// Match is one located embedding. Ranges are half-open byte offsets into
// the original text.
type Match struct {
	Kind    Kind
	TagName string

	Range        source.Span
	StartRange   source.Span
	ContentRange source.Span
	EndRange     source.Span

	// RawContent is exactly the text at ContentRange; Content is what the
	// rewriter emits after `trim` / `minify`.
	RawContent string
	Content    string
	Properties []ast.Property

	// только для KindCall
	ImportPath       string
	ImportIdentifier string

	// Node is the *ast.Template or *ast.TaggedTemplate behind the match.
	Node ast.Node
}

// Template returns the tag node of a KindTag match.
func (m *Match) Template() (*ast.Template, bool) {
	t, ok := m.Node.(*ast.Template)
	return t, ok
}
