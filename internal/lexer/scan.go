package lexer

import (
	"unicode/utf8"

	"wscheck/internal/diag"
	"wscheck/internal/token"
)

// scanToken читает один значимый токен под курсором. Курсор не на trivia.
func (lx *Lexer) scanToken() token.Token {
	start := lx.cursor.Mark()
	r, sz := lx.peekRune()

	switch {
	case r == utf8.RuneError && sz == 1:
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.warnLex(diag.LexInvalidUTF8, sp, "invalid UTF-8 byte")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}

	case lx.isTripleQuote(r):
		return lx.scanTripleString(r)

	default:
		if quote, multiline := lx.syn.isQuote(r); quote {
			return lx.scanString(r, multiline)
		}
	}

	kind := token.Punct
	switch {
	case isIdentStartRune(r):
		kind = token.Ident
		lx.bumpRune()
		lx.eatWhile(isIdentContinueRune)
	case r < utf8.RuneSelf && isDec(byte(r)):
		kind = token.Number
		lx.eatWhile(isNumberContinueRune)
	default:
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) eatWhile(pred func(rune) bool) {
	for !lx.cursor.EOF() {
		r, _ := lx.peekRune()
		if !pred(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanString читает литерал в кавычках q. Однострочный литерал с переводом
// строки внутри - предупреждение и Invalid до конца строки; незакрытый
// многострочный литерал съедает файл до EOF и это ошибка.
func (lx *Lexer) scanString(q rune, multiline bool) token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			if multiline {
				lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			} else {
				lx.warnLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			}
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cursor.Peek()
		if !multiline {
			if b == '\n' || b == '\r' {
				sp := lx.cursor.SpanFrom(start)
				lx.warnLex(diag.LexUnterminatedString, sp, "newline in string literal")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			if b == '\\' {
				lx.cursor.Bump()
				if !lx.cursor.EatString("\r\n") {
					lx.bumpRune()
				}
				continue
			}
		}
		r, _ := lx.peekRune()
		lx.bumpRune()
		if r == q {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.String, Span: sp, Text: lx.text(sp)}
		}
	}
}

func (lx *Lexer) isTripleQuote(r rune) bool {
	if !lx.syn.TripleQuotes || r >= utf8.RuneSelf {
		return false
	}
	if quote, _ := lx.syn.isQuote(r); !quote {
		return false
	}
	b := byte(r)
	b0, b1, b2, ok := lx.cursor.Peek3()
	return ok && b0 == b && b1 == b && b2 == b
}

func (lx *Lexer) scanTripleString(q rune) token.Token {
	start := lx.cursor.Mark()
	delim := string([]rune{q, q, q})
	lx.cursor.EatString(delim)
	for !lx.cursor.EOF() {
		if lx.cursor.Eat('\\') {
			lx.bumpRune()
			continue
		}
		if lx.cursor.EatString(delim) {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.String, Span: sp, Text: lx.text(sp)}
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
