// Package srcmap builds version 3 source maps for rewritten files and
// reads them back for verification.
package srcmap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/go-sourcemap/sourcemap"
)

// Flavor says how a map is delivered with the output.
type Flavor uint8

const (
	FlavorOff Flavor = iota
	// FlavorSeparate returns the map next to the output.
	FlavorSeparate
	// FlavorInline appends a data-URL comment to the output.
	FlavorInline
	// FlavorBoth does both.
	FlavorBoth
)

var flavorNames = map[string]Flavor{
	"off":      FlavorOff,
	"separate": FlavorSeparate,
	"inline":   FlavorInline,
	"both":     FlavorBoth,
}

func (f Flavor) String() string {
	for name, v := range flavorNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("flavor(%d)", uint8(f))
}

// ParseFlavor parses off|separate|inline|both.
func ParseFlavor(s string) (Flavor, error) {
	if f, ok := flavorNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FlavorOff, fmt.Errorf("unknown source map flavor %q (want off, separate, inline or both)", s)
}

// Inline reports whether the flavor appends a comment to the output.
func (f Flavor) Inline() bool { return f == FlavorInline || f == FlavorBoth }

// Separate reports whether the flavor returns the map object.
func (f Flavor) Separate() bool { return f == FlavorSeparate || f == FlavorBoth }

type segment struct {
	genLine, genCol int
	srcLine, srcCol int
}

// Generator accumulates mappings for a single source file. Lines and
// columns are zero-based; columns count UTF-16 code units.
type Generator struct {
	file     string
	source   string
	content  string
	segments []segment
}

// NewGenerator starts a map for output file `file` generated from source
// path `source` whose original text is content.
func NewGenerator(file, source, content string) *Generator {
	return &Generator{file: file, source: source, content: content}
}

// AddMapping maps a generated position to an original one.
func (g *Generator) AddMapping(genLine, genCol, srcLine, srcCol int) {
	g.segments = append(g.segments, segment{genLine, genCol, srcLine, srcCol})
}

// Len returns the number of mappings.
func (g *Generator) Len() int { return len(g.segments) }

type mapJSON struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// JSON serialises the map.
func (g *Generator) JSON() ([]byte, error) {
	return json.Marshal(mapJSON{
		Version:        3,
		File:           g.file,
		Sources:        []string{g.source},
		SourcesContent: []string{g.content},
		Names:          []string{},
		Mappings:       g.encode(),
	})
}

// InlineComment returns the `//# sourceMappingURL=data:…` comment line.
func (g *Generator) InlineComment() (string, error) {
	data, err := g.JSON()
	if err != nil {
		return "", err
	}
	return "//# sourceMappingURL=data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (g *Generator) encode() string {
	segs := slices.Clone(g.segments)
	slices.SortStableFunc(segs, func(a, b segment) int {
		if a.genLine != b.genLine {
			return a.genLine - b.genLine
		}
		return a.genCol - b.genCol
	})

	var b strings.Builder
	line, prevGenCol, prevSrcLine, prevSrcCol := 0, 0, 0, 0
	first := true
	for _, s := range segs {
		for line < s.genLine {
			b.WriteByte(';')
			line++
			prevGenCol = 0
			first = true
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeVLQ(&b, s.genCol-prevGenCol)
		writeVLQ(&b, 0) // единственный источник
		writeVLQ(&b, s.srcLine-prevSrcLine)
		writeVLQ(&b, s.srcCol-prevSrcCol)
		prevGenCol, prevSrcLine, prevSrcCol = s.genCol, s.srcLine, s.srcCol
	}
	return b.String()
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ пишет число в base64 VLQ: знак в младшем бите, группы по 5 бит.
func writeVLQ(b *strings.Builder, n int) {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Digits[digit])
		if v == 0 {
			return
		}
	}
}

// Position is a zero-based original location.
type Position struct {
	Source string
	Line   int
	Col    int
}

// Lookup decodes a serialised map and returns the original position of a
// zero-based generated position.
func Lookup(data []byte, genLine, genCol int) (Position, bool, error) {
	c, err := sourcemap.Parse("", data)
	if err != nil {
		return Position{}, false, fmt.Errorf("parse source map: %w", err)
	}
	src, _, line, col, ok := c.Source(genLine+1, genCol)
	if !ok {
		return Position{}, false, nil
	}
	return Position{Source: src, Line: line - 1, Col: col}, true, nil
}

// Verify checks that a serialised map decodes and that every listed
// generated position resolves to the expected original one.
func Verify(data []byte, want map[[2]int]Position) error {
	c, err := sourcemap.Parse("", data)
	if err != nil {
		return fmt.Errorf("parse source map: %w", err)
	}
	for gen, pos := range want {
		src, _, line, col, ok := c.Source(gen[0]+1, gen[1])
		if !ok {
			return fmt.Errorf("generated %d:%d has no mapping", gen[0], gen[1])
		}
		if line-1 != pos.Line || col != pos.Col || (pos.Source != "" && src != pos.Source) {
			return fmt.Errorf("generated %d:%d maps to %s:%d:%d, want %s:%d:%d", gen[0], gen[1], src, line-1, col, pos.Source, pos.Line, pos.Col)
		}
	}
	return nil
}

// DecodeInline extracts the map from an inline sourceMappingURL comment.
func DecodeInline(output string) ([]byte, bool) {
	const marker = "//# sourceMappingURL=data:application/json;charset=utf-8;base64,"
	i := strings.LastIndex(output, marker)
	if i < 0 {
		return nil, false
	}
	rest := output[i+len(marker):]
	if j := strings.IndexAny(rest, "\r\n"); j >= 0 {
		rest = rest[:j]
	}
	data, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		return nil, false
	}
	return data, true
}
