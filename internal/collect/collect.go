// Package collect turns a parsed host file into the ordered list of
// embedded-template matches: tag-delimited regions found by the tag
// scanner and call-style literals bound through recognized imports.
package collect

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/glimmer"
	"contenttag/internal/imports"
	"contenttag/internal/parser"
	"contenttag/internal/source"
	"contenttag/internal/tagscan"
	"contenttag/internal/trace"
)

// Options configures one collection run.
type Options struct {
	// Path is the logical file path used in error messages.
	Path string
	// TagName enables the tag pass; "" disables it.
	TagName string
	// Entries enables the literal pass; nil or empty disables it.
	Entries []imports.Entry
	// Enumerator lists static imports; nil means the host parser's own view.
	Enumerator imports.Enumerator
	// Minifier serves the `minify` property; nil means glimmer.DefaultMinifier.
	Minifier glimmer.Minifier
	// Reporter receives the diagnostic of a failed parse (may be nil).
	Reporter diag.Reporter
}

// Result is the outcome of Collect.
type Result struct {
	File     *source.File
	Parse    *parser.Result
	Bindings imports.Bindings
	Matches  []Match
}

// Collect parses file and gathers its matches sorted by start offset. A
// syntax error or a configuration error aborts the run; no partial result
// is returned.
func Collect(ctx context.Context, file *source.File, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	span := trace.Begin(tracer, trace.ScopePhase, "parse", parent).WithExtra("path", file.Path)
	scanner := tagscan.New(opts.TagName)
	parsed, err := parser.ParseFile(file, parser.Options{Reporter: opts.Reporter, Extension: scanner})
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.End(fmt.Sprintf("%d templates", len(scanner.Nodes())))

	res := &Result{File: file, Parse: parsed}

	if opts.TagName != "" {
		minifier := opts.Minifier
		if minifier == nil {
			minifier = glimmer.DefaultMinifier
		}
		for _, t := range scanner.Nodes() {
			m, err := tagMatch(opts.Path, t, minifier)
			if err != nil {
				return nil, err
			}
			res.Matches = append(res.Matches, m)
		}
	}

	if len(opts.Entries) > 0 {
		span := trace.Begin(tracer, trace.ScopePhase, "imports", parent)
		enum := opts.Enumerator
		if enum == nil {
			enum = imports.ProgramEnumerator{Program: parsed.Program}
		}
		if m, ok := enum.(imports.Masker); ok {
			masks := make([]source.Span, 0, len(scanner.Nodes()))
			for _, t := range scanner.Nodes() {
				masks = append(masks, t.Span())
			}
			enum = m.WithMasks(masks)
		}
		static, err := enum.Imports(ctx, file)
		if err != nil {
			span.End("error")
			return nil, err
		}
		res.Bindings = imports.Resolve(static, opts.Entries)
		span.End(fmt.Sprintf("%d bindings", len(res.Bindings)))

		res.Matches = append(res.Matches, literalMatches(file, parsed.Program, res.Bindings)...)
	}

	slices.SortStableFunc(res.Matches, func(a, b Match) int {
		return cmp.Compare(a.Range.Start, b.Range.Start)
	})
	return res, nil
}

func tagMatch(path string, t *ast.Template, minifier glimmer.Minifier) (Match, error) {
	if err := checkProperties(path, t); err != nil {
		return Match{}, err
	}
	content := t.Content
	// сначала trim, затем minify
	if _, ok := t.Property("trim"); ok {
		content = strings.TrimSpace(content)
	}
	if _, ok := t.Property("minify"); ok {
		content = minifier.Minify(content)
	}
	return Match{
		Kind:         KindTag,
		TagName:      t.TagName,
		Range:        t.Span(),
		StartRange:   t.StartRange,
		ContentRange: t.ContentRange,
		EndRange:     t.EndRange,
		RawContent:   t.Content,
		Content:      content,
		Properties:   t.Properties,
		Node:         t,
	}, nil
}

func literalMatches(file *source.File, prog *ast.Program, bindings imports.Bindings) []Match {
	if len(bindings) == 0 {
		return nil
	}
	var out []Match
	ast.Inspect(prog, func(n, _ ast.Node) bool {
		tt, ok := n.(*ast.TaggedTemplate)
		if !ok || tt.Quasi == nil || !tt.Quasi.Simple() {
			return true
		}
		id, ok := tt.Tag.(*ast.Ident)
		if !ok {
			return true
		}
		entry, ok := bindings.Lookup(id.Name)
		if !ok {
			return true
		}
		quasi := tt.Quasi.Span()
		content := tt.Quasi.Quasis[0]
		raw := string(content.Slice(file.Content))
		out = append(out, Match{
			Kind:             KindCall,
			TagName:          id.Name,
			Range:            tt.Span(),
			StartRange:       source.Span{File: quasi.File, Start: id.Span().Start, End: quasi.Start + 1},
			ContentRange:     content,
			EndRange:         source.Span{File: quasi.File, Start: quasi.End - 1, End: quasi.End},
			RawContent:       raw,
			Content:          raw,
			ImportPath:       entry.ImportPath,
			ImportIdentifier: entry.ImportIdentifier,
			Node:             tt,
		})
		return true
	})
	return out
}
