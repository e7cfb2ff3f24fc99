package glimmer

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Minifier compacts the text of a template body.
type Minifier interface {
	Minify(src string) string
}

// DefaultMinifier is the built-in Minifier.
var DefaultMinifier Minifier = minifier{}

type minifier struct{}

func (minifier) Minify(src string) string { return Minify(src) }

var (
	spaceRun  = regexp.MustCompile(` {2,}`)
	lineBreak = regexp.MustCompile(`[\r\n\t\f\v]`)
)

// Minify collapses runs of spaces and drops line breaks and tabs in the
// text nodes of src. Tags, comments and mustaches are copied byte for byte.
func Minify(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// strings.Reader даёт только io.EOF
			break
		}
		raw := z.Raw()
		if tt == html.TextToken {
			b.WriteString(minifyText(string(raw)))
			continue
		}
		b.Write(raw)
	}
	return b.String()
}

func minifyText(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		i := strings.Index(s, "{{")
		if i < 0 {
			b.WriteString(collapse(s))
			break
		}
		b.WriteString(collapse(s[:i]))
		j := strings.Index(s[i+2:], "}}")
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		end := i + 2 + j + 2
		b.WriteString(s[i:end])
		s = s[end:]
	}
	return b.String()
}

func collapse(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	return lineBreak.ReplaceAllString(s, "")
}
