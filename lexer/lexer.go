// Package lexer tokenizes wisp source text into a lazy token stream.
//
// NextToken is pulled one token at a time instead of eagerly producing a
// whole slice. Trivia (whitespace, newlines, comments) is emitted as real
// tokens rather than skipped internally, so callers that care about exact
// source reconstruction can see every byte; the compiler filters it out.
// Lex failures come back as in-band Error tokens instead of a side error
// list.
package lexer

import (
	"strings"

	"wisp/token"
)

// Lexer scans source text into tokens on demand.
type Lexer struct {
	src     []rune
	start   int
	current int
	line    int
}

// New returns a Lexer ready to scan src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.src)
}

func (l *Lexer) advance() rune {
	r := l.src[l.current]
	l.current++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.src) {
		return 0
	}
	return l.src[l.current+1]
}

// isMatch consumes the next rune and returns true if it equals expected.
func (l *Lexer) isMatch(expected rune) bool {
	if l.isAtEnd() || l.src[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) lexeme() string {
	return string(l.src[l.start:l.current])
}

func (l *Lexer) emit(kind token.Kind) token.Token {
	return token.New(kind, l.lexeme(), l.line)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}

// NextToken produces the next token in the stream. Past the end of input it
// returns Eof repeatedly.
func (l *Lexer) NextToken() token.Token {
	l.start = l.current

	if l.isAtEnd() {
		return l.emit(token.Eof)
	}

	r := l.advance()

	switch {
	case r == ' ' || r == '\r' || r == '\t':
		for !l.isAtEnd() {
			switch l.peek() {
			case ' ', '\r', '\t':
				l.advance()
			default:
				return l.emit(token.Whitespace)
			}
		}
		return l.emit(token.Whitespace)
	case r == '\n':
		l.line++
		return l.emit(token.Newline)
	case isDigit(r):
		return l.number()
	case isAlpha(r):
		return l.identifier()
	case r == '"':
		return l.string()
	}

	switch r {
	case '(':
		return l.emit(token.LeftParen)
	case ')':
		return l.emit(token.RightParen)
	case '{':
		return l.emit(token.LeftBrace)
	case '}':
		return l.emit(token.RightBrace)
	case ',':
		return l.emit(token.Comma)
	case '.':
		return l.emit(token.Dot)
	case '-':
		return l.emit(token.Minus)
	case '+':
		return l.emit(token.Plus)
	case '*':
		return l.emit(token.Star)
	case ';':
		return l.emit(token.Semicolon)
	case '!':
		if l.isMatch('=') {
			return l.emit(token.BangEqual)
		}
		return l.emit(token.Bang)
	case '=':
		if l.isMatch('=') {
			return l.emit(token.EqualEqual)
		}
		return l.emit(token.Equal)
	case '<':
		if l.isMatch('=') {
			return l.emit(token.LessEqual)
		}
		return l.emit(token.Less)
	case '>':
		if l.isMatch('=') {
			return l.emit(token.GreaterEqual)
		}
		return l.emit(token.Greater)
	case '/':
		if l.isMatch('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
			return l.emit(token.Comment)
		}
		return l.emit(token.Slash)
	}

	return token.NewError(token.InvalidCharacter, l.lexeme(), l.line)
}

// number scans DIGIT+ ( "." DIGIT+ )? . A trailing dot with no fractional
// digit after it (e.g. "1.") is left unconsumed — the dot becomes its own
// token on the next call, and the number token is just "1".
func (l *Lexer) number() token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	return l.emit(token.Number)
}

// identifier scans [A-Za-z_][A-Za-z0-9_]* and resolves it to a keyword kind
// via a first-letter branch, falling back to Identifier.
func (l *Lexer) identifier() token.Token {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.lexeme()
	return l.emit(l.keywordKind(text))
}

// keywordKind is a trie-style decision on the identifier's first letter
// (and, where more than one keyword shares it, the second) rather than a
// hash lookup: each branch checks a fixed suffix, and any mismatch or
// trailing identifier character falls back to Identifier.
func (l *Lexer) keywordKind(text string) token.Kind {
	if len(text) == 0 {
		return token.Identifier
	}
	switch text[0] {
	case 'a':
		return checkKeyword(text, 1, "nd", token.And)
	case 'c':
		return checkKeyword(text, 1, "lass", token.Class)
	case 'e':
		return checkKeyword(text, 1, "lse", token.Else)
	case 'f':
		if len(text) > 1 {
			switch text[1] {
			case 'a':
				return checkKeyword(text, 2, "lse", token.False)
			case 'o':
				return checkKeyword(text, 2, "r", token.For)
			case 'u':
				return checkKeyword(text, 2, "n", token.Fun)
			}
		}
	case 'i':
		return checkKeyword(text, 1, "f", token.If)
	case 'n':
		return checkKeyword(text, 1, "il", token.Nil)
	case 'o':
		return checkKeyword(text, 1, "r", token.Or)
	case 'p':
		return checkKeyword(text, 1, "rint", token.Print)
	case 'r':
		return checkKeyword(text, 1, "eturn", token.Return)
	case 's':
		return checkKeyword(text, 1, "uper", token.Super)
	case 't':
		if len(text) > 1 {
			switch text[1] {
			case 'h':
				return checkKeyword(text, 2, "is", token.This)
			case 'r':
				return checkKeyword(text, 2, "ue", token.True)
			}
		}
	case 'v':
		return checkKeyword(text, 1, "ar", token.Var)
	case 'w':
		return checkKeyword(text, 1, "hile", token.While)
	}
	return token.Identifier
}

// checkKeyword compares text[start:] against suffix; a match yields kind,
// anything else (including a longer identifier like "ifoo") falls back to
// Identifier.
func checkKeyword(text string, start int, suffix string, kind token.Kind) token.Kind {
	if text[start:] == suffix {
		return kind
	}
	return token.Identifier
}

// string scans a `"`-delimited string literal allowing embedded newlines.
// Line counting tracks each embedded newline. A missing closing quote
// yields an UnterminatedString error token.
func (l *Lexer) string() token.Token {
	startLine := l.line
	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}

	if l.isAtEnd() {
		return token.NewError(token.UnterminatedString, l.lexeme(), startLine)
	}

	l.advance() // consume closing quote
	return token.New(token.String, l.lexeme(), startLine)
}

// Value returns the string literal's content with surrounding quotes
// stripped, for use by the compiler when interning the constant.
func Value(tok token.Token) string {
	if tok.Kind != token.String || len(tok.Lexeme) < 2 {
		return tok.Lexeme
	}
	return tok.Lexeme[1 : len(tok.Lexeme)-1]
}

// ConcatLexemes joins lexemes in order. Because trivia is tokenized rather
// than discarded, the concatenation of every lexeme reproduces the source
// byte-for-byte; tests rely on this.
func ConcatLexemes(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Lexeme)
	}
	return b.String()
}
