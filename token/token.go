// Package token defines the lexical token model shared by the lexer and
// compiler.
package token

import "fmt"

// Kind is a closed enumeration of lexical token categories.
type Kind uint8

const (
	// single-character delimiters
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Semicolon
	Dot
	Minus
	Plus
	Slash
	Star

	// one or two character operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// trivia — emitted by the lexer, filtered before reaching the compiler
	Whitespace
	Newline
	Comment

	// terminators / errors
	Eof
	Error
)

// ErrKind distinguishes the flavor of an Error token's failure.
type ErrKind uint8

const (
	// NoErr is the zero value for tokens that are not error tokens.
	NoErr ErrKind = iota
	InvalidCharacter
	UnterminatedString
)

func (k ErrKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnterminatedString:
		return "UnterminatedString"
	default:
		return "NoErr"
	}
}

// Keywords maps reserved identifier text to its keyword Kind. Anything not
// found here that matches the identifier grammar is a plain Identifier.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

var names = map[Kind]string{
	LeftParen: "LeftParen", RightParen: "RightParen",
	LeftBrace: "LeftBrace", RightBrace: "RightBrace",
	Comma: "Comma", Semicolon: "Semicolon", Dot: "Dot",
	Minus: "Minus", Plus: "Plus", Slash: "Slash", Star: "Star",
	Bang: "Bang", BangEqual: "BangEqual",
	Equal: "Equal", EqualEqual: "EqualEqual",
	Greater: "Greater", GreaterEqual: "GreaterEqual",
	Less: "Less", LessEqual: "LessEqual",
	Identifier: "Identifier", String: "String", Number: "Number",
	And: "And", Class: "Class", Else: "Else", False: "False",
	For: "For", Fun: "Fun", If: "If", Nil: "Nil", Or: "Or",
	Print: "Print", Return: "Return", Super: "Super", This: "This",
	True: "True", Var: "Var", While: "While",
	Whitespace: "Whitespace", Newline: "Newline", Comment: "Comment",
	Eof: "Eof", Error: "Error",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Token is an immutable lexical token: a kind tag, the exact source
// substring it was recognized from, and the 1-based source line it starts
// on. Error takes a side ErrKind rather than a payload so Token stays a
// plain value type.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	ErrKind ErrKind
}

// New constructs a Token for the given kind, lexeme, and line.
func New(kind Kind, lexeme string, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line}
}

// NewError constructs an Error token carrying the offending lexeme and the
// specific lex failure it represents.
func NewError(kind ErrKind, lexeme string, line int) Token {
	return Token{Kind: Error, Lexeme: lexeme, Line: line, ErrKind: kind}
}

// IsTrivia reports whether the token is whitespace/newline/comment trivia
// that the compiler should never see.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Whitespace, Newline, Comment:
		return true
	default:
		return false
	}
}

func (t Token) String() string {
	if t.Kind == Error {
		return fmt.Sprintf("Token{Error(%s) %q line %d}", t.ErrKind, t.Lexeme, t.Line)
	}
	return fmt.Sprintf("Token{%s %q line %d}", t.Kind, t.Lexeme, t.Line)
}
