package rewrite

import (
	"fmt"
	"strings"

	"contenttag/internal/format"
	"contenttag/internal/glimmer"
	"contenttag/internal/srcmap"
)

// DefaultImportSource is the module the managed import comes from.
const DefaultImportSource = "@ember/template-compiler"

// DefaultImportName is the first candidate for the managed import binding.
const DefaultImportName = "template"

// ScopeMode selects how free names of a template reach the compiler.
type ScopeMode uint8

const (
	// ScopeExplicit emits `scope: instance => { return { a, b }; }`.
	ScopeExplicit ScopeMode = iota
	// ScopeImplicit emits `eval() { return eval(arguments[0]); }`.
	ScopeImplicit
)

func (m ScopeMode) String() string {
	switch m {
	case ScopeExplicit:
		return "explicit"
	case ScopeImplicit:
		return "implicit"
	}
	return fmt.Sprintf("scope(%d)", uint8(m))
}

// ParseScopeMode parses explicit|implicit.
func ParseScopeMode(s string) (ScopeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explicit":
		return ScopeExplicit, nil
	case "implicit", "eval":
		return ScopeImplicit, nil
	}
	return ScopeExplicit, fmt.Errorf("unknown scope mode %q (want explicit or implicit)", s)
}

// Mode selects the output of a rewrite.
type Mode uint8

const (
	// ModeFull regenerates the file with the managed import.
	ModeFull Mode = iota
	// ModePositionPreserving splices only the matched ranges and returns a
	// replacement ledger.
	ModePositionPreserving
)

func (m Mode) String() string {
	if m == ModePositionPreserving {
		return "position-preserving"
	}
	return "full"
}

// Target is the shape of the code a match turns into.
type Target uint8

const (
	TargetInline Target = iota
	TargetExportDefault
	TargetClassStatic
)

func (t Target) String() string {
	switch t {
	case TargetExportDefault:
		return "export-default"
	case TargetClassStatic:
		return "class-static-member"
	}
	return "inline-expression"
}

// Options configures one rewrite.
type Options struct {
	// ModuleName is emitted as `moduleName`; "" means the file path.
	ModuleName string
	ScopeMode  ScopeMode
	Mode       Mode

	// SourceMaps applies to ModeFull only.
	SourceMaps srcmap.Flavor
	// MapFile is the `file` field of the map.
	MapFile string

	// RewriteLiterals turns call-style matches into template calls as well.
	RewriteLiterals bool

	Analyzer     glimmer.Analyzer
	ImportSource string
	ImportName   string

	// Format controls indentation of generated code in ModeFull.
	Format format.Options
}

func (o Options) withDefaults(path string) Options {
	if o.ModuleName == "" {
		o.ModuleName = path
	}
	if o.Analyzer == nil {
		o.Analyzer = glimmer.Default
	}
	if o.ImportSource == "" {
		o.ImportSource = DefaultImportSource
	}
	if o.ImportName == "" {
		o.ImportName = DefaultImportName
	}
	return o
}
