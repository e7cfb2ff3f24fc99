package glimmer

// keywords are names the template compiler resolves itself; they never
// refer to a host binding.
var keywords = map[string]struct{}{
	"action":             {},
	"array":              {},
	"component":          {},
	"concat":             {},
	"debugger":           {},
	"each":               {},
	"each-in":            {},
	"fn":                 {},
	"get":                {},
	"has-block":          {},
	"has-block-params":   {},
	"hash":               {},
	"helper":             {},
	"if":                 {},
	"in-element":         {},
	"let":                {},
	"link-to":            {},
	"log":                {},
	"modifier":           {},
	"mount":              {},
	"mut":                {},
	"on":                 {},
	"outlet":             {},
	"query-params":       {},
	"readonly":           {},
	"unbound":            {},
	"unique-id":          {},
	"unless":             {},
	"with":               {},
	"yield":              {},
	"-get-dynamic-var":   {},
	"-in-element":        {},
	"-with-dynamic-vars": {},
	"-mount":             {},
	"-outlet":            {},
	"-has-block":         {},
	"-has-block-params":  {},
}

// IsKeyword reports whether name is a built-in template keyword.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// voidElements never have a closing tag.
var voidElements = map[string]struct{}{
	"area":    {},
	"base":    {},
	"br":      {},
	"col":     {},
	"command": {},
	"embed":   {},
	"hr":      {},
	"img":     {},
	"input":   {},
	"keygen":  {},
	"link":    {},
	"meta":    {},
	"param":   {},
	"source":  {},
	"track":   {},
	"wbr":     {},
}
