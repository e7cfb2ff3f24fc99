package driver

import (
	"errors"
	"fmt"

	"contenttag"
	"contenttag/internal/diag"
	"contenttag/internal/source"
)

// IOError reports a file that could not be read or written.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// diagnosticsOf turns a per-file error into diagnostics anchored in file.
// Spans of syntax and configuration errors are byte offsets into the same
// content, so only the file id is rebound.
func diagnosticsOf(err error, file *source.File) []diag.Diagnostic {
	var (
		syn *contenttag.SyntaxError
		cfg *contenttag.ConfigError
		ioe *IOError
	)
	switch {
	case errors.As(err, &syn):
		return []diag.Diagnostic{rebind(syn.Diagnostic, file)}
	case errors.As(err, &cfg):
		return []diag.Diagnostic{rebind(cfg.Diagnostic, file)}
	case errors.As(err, &ioe):
		code := diag.IOReadFailed
		if ioe.Op == "write" {
			code = diag.IOWriteFailed
		}
		return []diag.Diagnostic{fileLevel(code, file, ioe.Error())}
	}
	return []diag.Diagnostic{fileLevel(diag.UnknownCode, file, err.Error())}
}

func rebind(d diag.Diagnostic, file *source.File) diag.Diagnostic {
	if file == nil {
		return d
	}
	d.Primary.File = file.ID
	notes := make([]diag.Note, len(d.Notes))
	for i, n := range d.Notes {
		n.Span.File = file.ID
		notes[i] = n
	}
	d.Notes = notes
	return d
}

func fileLevel(code diag.Code, file *source.File, msg string) diag.Diagnostic {
	var sp source.Span
	if file != nil {
		sp.File = file.ID
	}
	return diag.NewError(code, sp, msg)
}
