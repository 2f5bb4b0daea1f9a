package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRune читает руну под курсором; для битого UTF-8 возвращает RuneError и размер 1.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.rest())
}

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	lx.cursor.Off += uint32(sz) // at most utf8.UTFMax
}

// IsSpace reports whether r is horizontal whitespace: ' ', '\t', '\v', '\f'
// or any Unicode space separator (Zs). Line terminators are not spaces.
func IsSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f':
		return true
	}
	return r >= utf8.RuneSelf && unicode.Is(unicode.Zs, r)
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// числа разбираем грубо: 0x1F, 1_000, 3.14e10 - один токен
func isNumberContinueRune(r rune) bool {
	return r == '_' || r == '.' || (r < utf8.RuneSelf && (isDec(byte(r)) || unicode.IsLetter(r)))
}
