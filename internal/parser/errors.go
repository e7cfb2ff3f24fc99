package parser

import (
	"fmt"

	"contenttag/internal/diag"
	"contenttag/internal/source"
)

// SyntaxError is returned when the host text cannot be tokenized or parsed,
// including a tag region that never closes.
type SyntaxError struct {
	Path       string
	Pos        source.LineCol
	Diagnostic diag.Diagnostic
}

func newSyntaxError(file *source.File, d diag.Diagnostic) *SyntaxError {
	return &SyntaxError{
		Path:       file.Path,
		Pos:        file.Position(d.Primary.Start),
		Diagnostic: d,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s (%s)", e.Path, e.Pos.Line, e.Pos.Col, e.Diagnostic.Message, e.Diagnostic.Code.ID())
}

// Unwrap exposes the underlying diagnostic.
func (e *SyntaxError) Unwrap() error { return e.Diagnostic }

// Span returns the offending source range.
func (e *SyntaxError) Span() source.Span { return e.Diagnostic.Primary }

// lexSink копит ошибки лексера. Токен, отсканированный при заглядывании
// вперёд и затем отброшенный сменой режима, ошибкой не считается: падаем,
// только когда парсер реально съедает Invalid.
type lexSink struct {
	items []diag.Diagnostic
}

func (s *lexSink) Report(d diag.Diagnostic) {
	s.items = append(s.items, d)
}

// at ищет ошибку, начинающуюся ровно в off (последняя записанная выигрывает:
// после отката лексер может сообщить об одном месте дважды).
func (s *lexSink) at(off uint32) (diag.Diagnostic, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Primary.Start == off {
			return s.items[i], true
		}
	}
	return diag.Diagnostic{}, false
}

// after возвращает первую ошибку, начавшуюся не раньше off.
func (s *lexSink) after(off uint32) (diag.Diagnostic, bool) {
	for _, d := range s.items {
		if d.Primary.Start >= off {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}
