package lexer

import (
	"unicode"
	"unicode/utf8"
)

// классы ASCII-байтов
const (
	clsIdentStart uint8 = 1 << iota // _ $ A-Z a-z
	clsDigit
	clsHex
	clsSpace
)

var asciiClass = func() (t [utf8.RuneSelf]uint8) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= clsIdentStart
		t[c-'a'+'A'] |= clsIdentStart
	}
	t['_'] |= clsIdentStart
	t['$'] |= clsIdentStart
	for c := '0'; c <= '9'; c++ {
		t[c] |= clsDigit | clsHex
	}
	for c := 'a'; c <= 'f'; c++ {
		t[c] |= clsHex
		t[c-'a'+'A'] |= clsHex
	}
	for _, c := range " \t\v\f\r\n" {
		t[c] |= clsSpace
	}
	return t
}()

func hasClass(b byte, cls uint8) bool {
	return b < utf8.RuneSelf && asciiClass[b]&cls != 0
}

// peekRune decodes the rune under the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	rest := lx.cursor.rest()
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	if rest[0] < utf8.RuneSelf {
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

func (lx *Lexer) bumpRune() {
	_, n := lx.peekRune()
	lx.cursor.Seek(lx.cursor.Off + uint32(n))
}

func isIdentStartByte(b byte) bool    { return hasClass(b, clsIdentStart) }
func isIdentContinueByte(b byte) bool { return hasClass(b, clsIdentStart|clsDigit) }
func isDec(b byte) bool               { return hasClass(b, clsDigit) }
func isHex(b byte) bool               { return hasClass(b, clsHex) }
func isSpace(b byte) bool             { return hasClass(b, clsSpace) }
func isLineTerminator(b byte) bool    { return b == '\n' || b == '\r' }

// isAlnum собирает token.Word в body-режиме; байты не-ASCII тоже слово.
func isAlnum(b byte) bool {
	return b >= utf8.RuneSelf || (hasClass(b, clsIdentStart|clsDigit) && b != '_' && b != '$')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

// ZWNJ и ZWJ допустимы внутри идентификатора
func isIdentContinueRune(r rune) bool {
	switch {
	case isIdentStartRune(r), unicode.IsDigit(r), r == '\u200c', r == '\u200d':
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}
