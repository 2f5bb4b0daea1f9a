package lexer

import (
	"wscheck/internal/diag"
	"wscheck/internal/token"
)

// collectLeadingTrivia собирает все trivia перед значимым токеном, включая
// целые пустые строки и переводы строк.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for {
		tv, ok := lx.scanTrivia()
		if !ok {
			return
		}
		lx.hold = append(lx.hold, tv)
	}
}

// collectTrailingTrivia собирает trivia на строке токена до первого перевода
// строки включительно. Многострочный блочный комментарий не прерывает сбор:
// строка, на которой он закончился, продолжает trailing.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for {
		tv, ok := lx.scanTrivia()
		if !ok {
			return out
		}
		out = append(out, tv)
		if tv.Class() == token.ClassEndOfLine {
			return out
		}
	}
}

// scanTrivia читает один элемент trivia под курсором.
//   - пробельные руны (' ', '\t', '\v', '\f', Unicode Zs) коалесцируются в один TriviaSpace
//   - "\r\n", "\r" и "\n" - каждый отдельный TriviaNewline
//   - "#!" в начале файла -> TriviaDirective (если Syntax.Shebang)
//   - DocLinePrefix до конца строки -> TriviaDocLine
//   - блочные и строчные комментарии по Syntax
func (lx *Lexer) scanTrivia() (token.Trivia, bool) {
	if lx.cursor.EOF() {
		return token.Trivia{}, false
	}
	start := lx.cursor.Mark()

	switch b := lx.cursor.Peek(); {
	case b == '\r':
		lx.cursor.Bump()
		lx.cursor.Eat('\n')
		return lx.trivia(token.TriviaNewline, start), true
	case b == '\n':
		lx.cursor.Bump()
		return lx.trivia(token.TriviaNewline, start), true
	}

	if lx.eatSpaces() {
		return lx.trivia(token.TriviaSpace, start), true
	}

	if start == 0 && lx.syn.Shebang && lx.cursor.HasPrefix("#!") {
		lx.skipToLineEnd()
		return lx.trivia(token.TriviaDirective, start), true
	}

	if lx.syn.DocLinePrefix != "" && lx.cursor.EatString(lx.syn.DocLinePrefix) {
		lx.skipToLineEnd()
		return lx.trivia(token.TriviaDocLine, start), true
	}

	// блочные раньше строчных: "--[[" начинается с "--"
	for _, bc := range lx.syn.BlockComments {
		if lx.cursor.HasPrefix(bc.Open) {
			lx.scanBlockComment(bc)
			return lx.trivia(token.TriviaBlockComment, start), true
		}
	}

	for _, lc := range lx.syn.LineComments {
		if lx.cursor.EatString(lc) {
			lx.skipToLineEnd()
			return lx.trivia(token.TriviaLineComment, start), true
		}
	}

	return token.Trivia{}, false
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// eatSpaces consumes a run of whitespace runes and reports whether any were read.
func (lx *Lexer) eatSpaces() bool {
	seen := false
	for !lx.cursor.EOF() {
		r, _ := lx.peekRune()
		if !IsSpace(r) {
			break
		}
		lx.bumpRune()
		seen = true
	}
	return seen
}

// skipToLineEnd stops in front of the line terminator, which stays for the
// next trivia. Whitespace at the end of the line is left unread too so that it
// becomes its own TriviaSpace.
func (lx *Lexer) skipToLineEnd() {
	end := lx.cursor.Off
	for !lx.cursor.EOF() {
		if b := lx.cursor.Peek(); b == '\n' || b == '\r' {
			break
		}
		r, _ := lx.peekRune()
		lx.bumpRune()
		if !IsSpace(r) {
			end = lx.cursor.Off
		}
	}
	lx.cursor.Off = end
}

func (lx *Lexer) scanBlockComment(bc BlockComment) {
	start := lx.cursor.Mark()
	lx.cursor.EatString(bc.Open)
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if bc.Nested && lx.cursor.EatString(bc.Open) {
			depth++
			continue
		}
		if lx.cursor.EatString(bc.Close) {
			depth--
			continue
		}
		lx.cursor.Bump()
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
}
