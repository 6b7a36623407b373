// Package diag implements the structured diagnostics shared by the compiler
// and VM: a single Diagnostic shape that always renders as
// "<stage> error at line <N>: <message>". The lexer reports failures as
// in-band Error tokens; the compiler turns those into Parse diagnostics.
package diag

import "fmt"

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage uint8

const (
	Lex Stage = iota
	Parse
	Runtime
)

func (s Stage) String() string {
	switch s {
	case Lex:
		return "Lex"
	case Parse:
		return "Parse"
	case Runtime:
		return "Runtime"
	default:
		return "Unknown"
	}
}

// Kind names a specific diagnostic cause. Each kind is scoped to one Stage
// by convention (lex kinds only appear on Lex diagnostics, etc.) but the
// type itself is a plain string so new kinds never require touching this
// package.
type Kind string

const (
	// Lex kinds.
	InvalidCharacter   Kind = "InvalidCharacter"
	UnterminatedString Kind = "UnterminatedString"

	// Parse kinds.
	ExpectedDeclOrStmt      Kind = "ExpectedDeclOrStmt"
	ExpectedExpr            Kind = "ExpectedExpr"
	ExpectedIdentifier      Kind = "ExpectedIdentifier"
	UnexpectedToken         Kind = "UnexpectedToken"
	DoubleParse             Kind = "DoubleParse"
	LexError                Kind = "LexError"
	InvalidAssignmentTarget Kind = "InvalidAssignmentTarget"
	UnclosedBlock           Kind = "UnclosedBlock"
	TooManyConstants        Kind = "TooManyConstants"
	Unimplemented           Kind = "Unimplemented"

	// Runtime kinds.
	InvalidType     Kind = "InvalidType"
	MissingOperand  Kind = "MissingOperand"
	StackOverflow   Kind = "StackOverflow"
	StackUnderflow  Kind = "StackUnderflow"
	UndefinedGlobal Kind = "UndefinedGlobal"
	BadOpcode       Kind = "BadOpcode"
)

// Diagnostic is a single lex/parse/runtime failure. It implements error.
type Diagnostic struct {
	Stage   Stage
	Kind    Kind
	Line    int
	Lexeme  string
	Message string
}

// New builds a Diagnostic with no offending lexeme attached.
func New(stage Stage, kind Kind, line int, message string) *Diagnostic {
	return &Diagnostic{Stage: stage, Kind: kind, Line: line, Message: message}
}

// NewWithLexeme builds a Diagnostic carrying the offending source lexeme.
func NewWithLexeme(stage Stage, kind Kind, line int, lexeme, message string) *Diagnostic {
	return &Diagnostic{Stage: stage, Kind: kind, Line: line, Lexeme: lexeme, Message: message}
}

// Error renders the diagnostic as "<stage> error at line <N>: <message>".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s error at line %d: %s", d.Stage, d.Line, d.Message)
}
