package collect

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"contenttag/internal/ast"
	"contenttag/internal/diag"
	"contenttag/internal/source"
)

// supportedProperties are the opening-tag properties the collector knows
// how to apply.
var supportedProperties = []string{"trim", "minify"}

// ConfigError reports a tag property that is not allowed where it is used.
type ConfigError struct {
	Path       string
	Property   string
	Suggestion string
	Diagnostic diag.Diagnostic
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("embedded template preprocessing currently does not support passing arguments, found args in: %s (property %q", e.Path, e.Property)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}
	return msg + ")"
}

// Unwrap exposes the underlying diagnostic.
func (e *ConfigError) Unwrap() error { return e.Diagnostic }

// Span returns the opening tag that carries the property.
func (e *ConfigError) Span() source.Span { return e.Diagnostic.Primary }

func checkProperties(path string, t *ast.Template) error {
	for _, p := range t.Properties {
		if isSupported(p.Key) {
			continue
		}
		suggestion := suggest(p.Key)
		d := diag.NewError(diag.CfgUnsupportedProperty, t.StartRange,
			fmt.Sprintf("unsupported property %q on <%s>", p.Key, t.TagName))
		if suggestion != "" {
			d = d.WithNote(t.StartRange, "did you mean "+suggestion+"?")
		}
		return &ConfigError{Path: path, Property: p.Key, Suggestion: suggestion, Diagnostic: d}
	}
	return nil
}

func isSupported(key string) bool {
	for _, s := range supportedProperties {
		if s == key {
			return true
		}
	}
	return false
}

// suggest ищет поддерживаемое свойство, похожее на key: сначала key как
// подпоследовательность имени (`trm`), затем наоборот (`trimm`).
func suggest(key string) string {
	if key == "" {
		return ""
	}
	if found := fuzzy.Find(key, supportedProperties); len(found) > 0 {
		return found[0].Str
	}
	for _, s := range supportedProperties {
		if len(fuzzy.Find(s, []string{key})) > 0 {
			return s
		}
	}
	return ""
}
