// Package contenttag locates embedded template markup in JavaScript and
// TypeScript sources (`<template>…</template>` regions and import-bound
// `hbs` literals) and rewrites it into `template(…)` calls.
//
// Every call works on one source text and keeps no state between calls, so
// files can be processed concurrently.
package contenttag

import (
	"context"

	"contenttag/internal/collect"
	"contenttag/internal/edit"
	"contenttag/internal/glimmer"
	"contenttag/internal/imports"
	"contenttag/internal/imports/treesitter"
	"contenttag/internal/parser"
	"contenttag/internal/rewrite"
	"contenttag/internal/source"
	"contenttag/internal/srcmap"
)

// DefaultTagName is the tag recognized when none is configured.
const DefaultTagName = "template"

type (
	// Match is one located embedding.
	Match = collect.Match
	// Kind distinguishes tag-delimited from call-style matches.
	Kind = collect.Kind
	// ImportEntry is a (module specifier, exported identifier) pair whose
	// local bindings mark call-style literals.
	ImportEntry = imports.Entry
	// Replacement is one entry of the position-preserving ledger.
	Replacement = edit.Replacement
	// ScopeMode selects explicit scope capture or the eval form.
	ScopeMode = rewrite.ScopeMode
	// SourceMapFlavor selects how a source map is delivered.
	SourceMapFlavor = srcmap.Flavor

	// Analyzer reports the free names of a template body.
	Analyzer = glimmer.Analyzer
	// LocalsOptions tunes an Analyzer call.
	LocalsOptions = glimmer.LocalsOptions
	// Minifier collapses whitespace of a template body for `minify`.
	Minifier = glimmer.Minifier

	// SyntaxError is returned when the text cannot be parsed, including an
	// unterminated tag region.
	SyntaxError = parser.SyntaxError
	// ConfigError is returned when a tag carries an unsupported property.
	ConfigError = collect.ConfigError
)

const (
	KindTag  = collect.KindTag
	KindCall = collect.KindCall

	ScopeExplicit = rewrite.ScopeExplicit
	ScopeImplicit = rewrite.ScopeImplicit

	SourceMapOff      = srcmap.FlavorOff
	SourceMapSeparate = srcmap.FlavorSeparate
	SourceMapInline   = srcmap.FlavorInline
	SourceMapBoth     = srcmap.FlavorBoth
)

// DefaultLiteralBindings returns the well-known `hbs` providers.
func DefaultLiteralBindings() []ImportEntry {
	return append([]ImportEntry(nil), imports.DefaultEntries...)
}

// LocateOptions configures detection.
type LocateOptions struct {
	// TagName defaults to DefaultTagName.
	TagName string
	// NoTags disables tag-delimited detection.
	NoTags bool
	// LiteralBindings defaults to DefaultLiteralBindings.
	LiteralBindings []ImportEntry
	// NoLiterals disables call-style detection.
	NoLiterals bool
	// TreeSitterImports enumerates imports with the tree-sitter grammar
	// instead of the host parser.
	TreeSitterImports bool
	// Minifier overrides the `minify` property implementation.
	Minifier Minifier
}

func (o LocateOptions) collectOptions(path string) collect.Options {
	opts := collect.Options{Path: path, Minifier: o.Minifier}
	if !o.NoTags {
		opts.TagName = o.TagName
		if opts.TagName == "" {
			opts.TagName = DefaultTagName
		}
	}
	if !o.NoLiterals {
		opts.Entries = o.LiteralBindings
		if opts.Entries == nil {
			opts.Entries = imports.DefaultEntries
		}
	}
	if o.TreeSitterImports {
		opts.Enumerator = treesitter.Enumerator{}
	}
	return opts
}

// Locate returns the matches of src sorted by start offset. path is the
// logical file path used in errors.
func Locate(ctx context.Context, src []byte, path string, opts LocateOptions) ([]Match, error) {
	res, err := locate(ctx, src, path, opts)
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

func locate(ctx context.Context, src []byte, path string, opts LocateOptions) (*collect.Result, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, src))
	return collect.Collect(ctx, file, opts.collectOptions(path))
}

// RewriteOptions configures a rewrite.
type RewriteOptions struct {
	LocateOptions

	// ModuleName is emitted as `moduleName`; defaults to the path.
	ModuleName string
	ScopeMode  ScopeMode
	// PositionPreserving splices only the matched ranges and returns a
	// replacement ledger instead of regenerating the file.
	PositionPreserving bool
	// SourceMaps applies to full regeneration only.
	SourceMaps SourceMapFlavor
	// MapFile is the `file` field of the source map.
	MapFile string
	// RewriteLiterals turns call-style literals into template calls too.
	RewriteLiterals bool
	// Analyzer overrides free-name analysis of template bodies.
	Analyzer Analyzer
}

// Result is the outcome of Rewrite.
type Result struct {
	Output       []byte
	SourceMap    []byte
	Replacements []Replacement
	// ImportName is the local name of the managed import ("" when nothing
	// was rewritten).
	ImportName string
	Matches    []Match
}

// Rewrite rewrites every match of src. A syntax or configuration error
// aborts the call without output; a file without matches comes back
// unchanged.
func Rewrite(ctx context.Context, src []byte, path string, opts RewriteOptions) (*Result, error) {
	res, err := locate(ctx, src, path, opts.LocateOptions)
	if err != nil {
		return nil, err
	}
	mode := rewrite.ModeFull
	if opts.PositionPreserving {
		mode = rewrite.ModePositionPreserving
	}
	out, err := rewrite.File(ctx, res, rewrite.Options{
		ModuleName:      opts.ModuleName,
		ScopeMode:       opts.ScopeMode,
		Mode:            mode,
		SourceMaps:      opts.SourceMaps,
		MapFile:         opts.MapFile,
		RewriteLiterals: opts.RewriteLiterals,
		Analyzer:        opts.Analyzer,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:       out.Output,
		SourceMap:    out.SourceMap,
		Replacements: out.Replacements,
		ImportName:   out.ImportName,
		Matches:      res.Matches,
	}, nil
}
