package lexer

import (
	"contenttag/internal/diag"
	"contenttag/internal/source"
)

type Options struct {
	// Reporter получает лексические ошибки; nil - молча продолжаем.
	// Сам фрагмент всегда отдаётся токеном Invalid.
	Reporter diag.Reporter
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if r := lx.opts.Reporter; r != nil {
		r.Report(diag.NewError(code, sp, msg))
	}
}
