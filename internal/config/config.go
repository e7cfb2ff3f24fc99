package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"contenttag"
	"contenttag/internal/imports"
	"contenttag/internal/rewrite"
	"contenttag/internal/srcmap"
)

// Literal is one `[[literal]]` entry: a module specifier and the exported
// name whose local bindings mark call-style literals.
type Literal struct {
	Path       string `toml:"path" yaml:"path"`
	Identifier string `toml:"identifier" yaml:"identifier"`
}

// Config holds project settings. Path is the file the values came from,
// empty when only defaults apply.
type Config struct {
	Path            string
	Tag             string
	Scope           string
	SourceMaps      string
	RewriteLiterals bool
	Include         []string
	Literals        []Literal
	Jobs            int
}

// DefaultInclude matches the file kinds that may carry embedded templates.
var DefaultInclude = []string{"*.gjs", "*.gts"}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Tag:        contenttag.DefaultTagName,
		Scope:      rewrite.ScopeExplicit.String(),
		SourceMaps: srcmap.FlavorOff.String(),
		Include:    append([]string(nil), DefaultInclude...),
	}
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if !isTagName(c.Tag) {
		errs = append(errs, fmt.Errorf("tag: invalid tag name %q", c.Tag))
	}
	if _, err := rewrite.ParseScopeMode(c.Scope); err != nil {
		errs = append(errs, fmt.Errorf("scope: %w", err))
	}
	if _, err := srcmap.ParseFlavor(c.SourceMaps); err != nil {
		errs = append(errs, fmt.Errorf("source_maps: %w", err))
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("include: bad pattern %q: %w", pattern, err))
		}
	}
	for i, lit := range c.Literals {
		if strings.TrimSpace(lit.Path) == "" || strings.TrimSpace(lit.Identifier) == "" {
			errs = append(errs, fmt.Errorf("literal[%d]: path and identifier are required", i))
		}
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}
	if len(errs) == 0 {
		return nil
	}
	if c.Path != "" {
		return fmt.Errorf("%s: %w", c.Path, errors.Join(errs...))
	}
	return errors.Join(errs...)
}

// Matches reports whether the base name of path fits an include pattern.
func (c Config) Matches(path string) bool {
	include := c.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	base := filepath.Base(path)
	for _, pattern := range include {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// LiteralBindings converts the `[[literal]]` entries; nil means the
// built-in table.
func (c Config) LiteralBindings() []imports.Entry {
	if len(c.Literals) == 0 {
		return nil
	}
	out := make([]imports.Entry, 0, len(c.Literals))
	for _, lit := range c.Literals {
		out = append(out, imports.Entry{ImportPath: lit.Path, ImportIdentifier: lit.Identifier})
	}
	return out
}

// RewriteOptions builds the library options for the validated config.
func (c Config) RewriteOptions() (contenttag.RewriteOptions, error) {
	scope, err := rewrite.ParseScopeMode(c.Scope)
	if err != nil {
		return contenttag.RewriteOptions{}, err
	}
	flavor, err := srcmap.ParseFlavor(c.SourceMaps)
	if err != nil {
		return contenttag.RewriteOptions{}, err
	}
	return contenttag.RewriteOptions{
		LocateOptions: contenttag.LocateOptions{
			TagName:         c.Tag,
			LiteralBindings: c.LiteralBindings(),
		},
		ScopeMode:       scope,
		SourceMaps:      flavor,
		RewriteLiterals: c.RewriteLiterals,
	}, nil
}

// isTagName принимает имена вида `template`, `hbs`, `my-tag`.
func isTagName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '-' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
