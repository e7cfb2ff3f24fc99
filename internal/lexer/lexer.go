package lexer

import (
	"unicode/utf8"

	"contenttag/internal/source"
	"contenttag/internal/token"
)

// Mode selects how the lexer splits input.
type Mode uint8

const (
	// ModeHost tokenizes JavaScript/TypeScript.
	ModeHost Mode = iota
	// ModeBody tokenizes the body of an embedded template: alphanumeric runs
	// become token.Word, every other byte becomes a single token.Char.
	// Quotes, slashes and backticks carry no meaning here.
	ModeBody
)

func (m Mode) String() string {
	if m == ModeBody {
		return "body"
	}
	return "host"
}

type braceKind uint8

const (
	braceBlock    braceKind = iota // обычная '{'
	braceTemplate                  // '${' внутри template literal
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	mode   Mode
	look   *token.Token // 1 элементный буфер для токена

	// prevKind/prevText — последний отсканированный значимый токен;
	// по нему решаем, '/' это деление или начало regexp.
	prevKind token.Kind
	prevText string

	braces []braceKind
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		mode:     ModeHost,
		prevKind: token.Invalid,
	}
}

// File returns the file being tokenized.
func (lx *Lexer) File() *source.File { return lx.file }

// Mode returns the current tokenization mode.
func (lx *Lexer) Mode() Mode { return lx.mode }

// Offset returns the byte offset the next scan starts at, ignoring any
// buffered lookahead.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// SetMode switches the tokenization mode and restarts scanning at off.
// Buffered lookahead is discarded, so no token scanned under the previous
// mode leaks into the new one.
func (lx *Lexer) SetMode(mode Mode, off uint32) {
	lx.mode = mode
	lx.look = nil
	lx.cursor.Seek(off)
	if mode == ModeHost {
		// после шаблона ожидаем начало выражения
		lx.prevKind = token.Invalid
		lx.prevText = ""
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.mode == ModeBody {
		return lx.scanBody()
	}

	newline := lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{
			Kind:          token.EOF,
			Span:          lx.emptySpan(),
			NewlineBefore: newline,
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch == '\\':
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8.RuneSelf:
		// Возможный Unicode идентификатор → scanIdentOrKeyword() разберётся
		tok = lx.scanIdentOrKeyword()

	case ch == '#':
		tok = lx.scanPrivateName()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumber()

	case ch == '"' || ch == '\'':
		tok = lx.scanString(ch)

	case ch == '`':
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = lx.scanTemplateChunk(start, token.NoSubstTemplate, token.TemplateHead)

	case ch == '/' && !token.EndsExpression(lx.prevKind, lx.prevText):
		tok = lx.scanRegex()

	case ch == '}' && len(lx.braces) > 0 && lx.braces[len(lx.braces)-1] == braceTemplate:
		lx.braces = lx.braces[:len(lx.braces)-1]
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok = lx.scanTemplateChunk(start, token.TemplateTail, token.TemplateMiddle)

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.NewlineBefore = newline
	lx.prevKind = tok.Kind
	lx.prevText = tok.Text
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) tokenFrom(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// State is a lexer snapshot used by the parser for speculative lookahead.
type State struct {
	off      uint32
	mode     Mode
	look     *token.Token
	prevKind token.Kind
	prevText string
	braces   []braceKind
}

// Save captures the current scanning position and context.
func (lx *Lexer) Save() State {
	st := State{
		off:      lx.cursor.Off,
		mode:     lx.mode,
		prevKind: lx.prevKind,
		prevText: lx.prevText,
		braces:   append([]braceKind(nil), lx.braces...),
	}
	if lx.look != nil {
		t := *lx.look
		st.look = &t
	}
	return st
}

// Restore rewinds the lexer to a state returned by Save.
func (lx *Lexer) Restore(st State) {
	lx.cursor.Seek(st.off)
	lx.mode = st.mode
	lx.prevKind = st.prevKind
	lx.prevText = st.prevText
	lx.braces = append(lx.braces[:0], st.braces...)
	lx.look = st.look
}
