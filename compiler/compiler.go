package compiler

// This file implements the Pratt parser that compiles tokens directly to
// bytecode, with no intermediate syntax tree: each token kind maps to a
// prefix/infix handler pair plus a binding power, and handlers emit into
// the Chunk as they parse.

import (
	"strconv"

	"wisp/diag"
	"wisp/lexer"
	"wisp/token"
	"wisp/value"
)

// precedence levels, lowest to highest.
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// local tracks one declared local variable. Its slot is implicit: the
// index of this entry within Compiler.locals at declaration time equals
// the stack position the value occupies at runtime.
type local struct {
	name  string
	depth int
}

// reservedKeywords recognized for synchronization whose statement forms
// parse to Unimplemented: no classes, functions, loops, or conditionals
// yet.
var reservedKeywords = map[token.Kind]bool{
	token.Class:  true,
	token.Fun:    true,
	token.For:    true,
	token.If:     true,
	token.While:  true,
	token.Return: true,
}

// Compiler is a single-pass Pratt parser and bytecode emitter. It is
// reusable across multiple Compile calls, though top-level scope depth
// always returns to zero between balanced statements so no state actually
// survives a call boundary today.
type Compiler struct {
	lex      *lexer.Lexer
	chunk    *Chunk
	current  token.Token
	previous token.Token

	panicMode bool
	errors    []error

	locals     []local
	scopeDepth int

	// globalNames dedups repeated references to the same variable name so
	// they share one constant-pool slot instead of interning a fresh
	// string object per occurrence.
	globalNames map[string]int

	rules map[token.Kind]parseRule
}

// New returns a ready-to-use Compiler.
func New() *Compiler {
	c := &Compiler{}
	c.rules = c.buildRules()
	return c
}

func (c *Compiler) buildRules() map[token.Kind]parseRule {
	return map[token.Kind]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: precTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: precFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: precFactor},
		token.Bang:         {prefix: (*Compiler).unary},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: precEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: precEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: precComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: precComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: precComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: precComparison},
		token.Number:       {prefix: (*Compiler).number},
		token.String:       {prefix: (*Compiler).stringLiteral},
		token.Identifier:   {prefix: (*Compiler).variable},
		token.True:         {prefix: (*Compiler).literal},
		token.False:        {prefix: (*Compiler).literal},
		token.Nil:          {prefix: (*Compiler).literal},
	}
}

func (c *Compiler) getRule(kind token.Kind) parseRule {
	return c.rules[kind]
}

// Compile lexes and compiles source into a fresh Chunk. It never stops at
// the first error: every declaration is attempted, errors are recorded and
// synchronized past, and the returned Chunk is always finalized with a
// trailing RETURN so it stays decodable even when errs is non-empty.
func (c *Compiler) Compile(source string) (*Chunk, []error) {
	c.lex = lexer.New(source)
	c.chunk = NewChunk()
	c.errors = nil
	c.panicMode = false
	c.globalNames = make(map[string]int)
	c.locals = c.locals[:0]
	c.scopeDepth = 0

	c.advance()
	for !c.check(token.Eof) {
		c.declaration()
	}
	c.endCompiler()
	return c.chunk, c.errors
}

func (c *Compiler) endCompiler() {
	c.chunk.WriteOp(OpReturn, c.currentLine())
}

func (c *Compiler) currentLine() int {
	if c.previous.Lexeme != "" {
		return c.previous.Line
	}
	return c.current.Line
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		tok := c.lex.NextToken()
		if tok.IsTrivia() {
			continue
		}
		if tok.Kind == token.Error {
			c.errorAtLex(tok)
			continue
		}
		c.current = tok
		return
	}
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

// consume advances past an expected token kind, or records kind as a parse
// error at the current token using message.
func (c *Compiler) consume(expect token.Kind, errKind diag.Kind, message string) {
	if c.check(expect) {
		c.advance()
		return
	}
	c.errorAtCurrent(errKind, message)
}

// --- error reporting & recovery ---

func (c *Compiler) errorAtLex(tok token.Token) {
	var message string
	switch tok.ErrKind {
	case token.UnterminatedString:
		message = "unterminated string"
	default:
		message = "unexpected character '" + tok.Lexeme + "'"
	}
	c.reportAt(tok, diag.LexError, message)
}

func (c *Compiler) errorAtCurrent(kind diag.Kind, message string) {
	c.reportAt(c.current, kind, message)
}

func (c *Compiler) errorAtPrevious(kind diag.Kind, message string) {
	c.reportAt(c.previous, kind, message)
}

func (c *Compiler) reportAt(tok token.Token, kind diag.Kind, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.errors = append(c.errors, diag.NewWithLexeme(diag.Parse, kind, tok.Line, tok.Lexeme, message))
}

// synchronize discards tokens until just past a ';', a declaration-start
// keyword, or EOF, so compilation can continue past one error and surface
// more diagnostics.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for !c.check(token.Eof) {
		if c.previous.Kind == token.Semicolon {
			return
		}
		switch c.current.Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

// --- declarations & statements ---

func (c *Compiler) declaration() {
	if c.match(token.Var) {
		c.varDeclaration()
	} else {
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	c.consume(token.Identifier, diag.ExpectedIdentifier, "expected variable name")
	name := c.previous

	isLocal := c.scopeDepth > 0
	if isLocal {
		c.declareLocal(name.Lexeme)
	}

	if c.match(token.Equal) {
		c.expression()
	} else {
		c.chunk.WriteOp(OpNil, name.Line)
	}
	c.consume(token.Semicolon, diag.UnexpectedToken, "expected ';' after variable declaration")

	if isLocal {
		// The initializer's value on the stack IS the local; nothing more
		// to emit. declareLocal already recorded its slot.
		return
	}

	idx, err := c.internName(name.Lexeme, name.Line)
	if err != nil {
		c.errors = append(c.errors, err)
		return
	}
	c.chunk.WriteByteOperand(OpDefineGlobal, byte(idx), name.Line)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.Print):
		c.printStatement()
	case c.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	case reservedKeywords[c.current.Kind]:
		c.unimplementedStatement()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) unimplementedStatement() {
	tok := c.current
	c.reportAt(tok, diag.Unimplemented, "'"+tok.Kind.String()+"' is not implemented")
	c.advance()
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, diag.UnexpectedToken, "expected ';' after value")
	c.chunk.WriteOp(OpPrint, c.previous.Line)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, diag.UnexpectedToken, "expected ';' after expression")
	c.chunk.WriteOp(OpPop, c.previous.Line)
}

// block compiles declarations until a closing brace. Reaching EOF first is
// an UnclosedBlock error.
func (c *Compiler) block() {
	for !c.check(token.RightBrace) && !c.check(token.Eof) {
		c.declaration()
	}
	if c.check(token.Eof) {
		c.errorAtCurrent(diag.UnclosedBlock, "unterminated block")
		return
	}
	c.advance() // consume '}'
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope drops locals that just went out of scope, emitting one POP per
// dropped local so the VM's stack returns to its pre-block depth.
func (c *Compiler) endScope() {
	c.scopeDepth--
	line := c.previous.Line
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.chunk.WriteOp(OpPop, line)
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// --- expressions ---

func (c *Compiler) expression() {
	c.parsePrecedence(precAssignment)
}

func (c *Compiler) parsePrecedence(min precedence) {
	c.advance()
	rule := c.getRule(c.previous.Kind)
	if rule.prefix == nil {
		c.errorAtPrevious(diag.ExpectedExpr, "expected expression")
		return
	}

	canAssign := min <= precAssignment
	rule.prefix(c, canAssign)

	for c.getRule(c.current.Kind).precedence >= min && c.getRule(c.current.Kind).precedence != precNone {
		c.advance()
		infix := c.getRule(c.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.errorAtPrevious(diag.InvalidAssignmentTarget, "invalid assignment target")
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RightParen, diag.UnexpectedToken, "expected ')' after expression")
}

// binary parses the right operand at precedence+1 (so operators are
// left-associative) before emitting the opcode — the emission happens
// after both operands are compiled, not an AST rearrangement.
func (c *Compiler) binary(_ bool) {
	operator := c.previous
	rule := c.getRule(operator.Kind)
	c.parsePrecedence(rule.precedence + 1)

	line := operator.Line
	switch operator.Kind {
	case token.Plus:
		c.chunk.WriteOp(OpAdd, line)
	case token.Minus:
		c.chunk.WriteOp(OpSubtract, line)
	case token.Star:
		c.chunk.WriteOp(OpMultiply, line)
	case token.Slash:
		c.chunk.WriteOp(OpDivide, line)
	case token.EqualEqual:
		c.chunk.WriteOp(OpEqual, line)
	case token.BangEqual:
		c.chunk.WriteOp(OpEqual, line)
		c.chunk.WriteOp(OpNot, line)
	case token.Greater:
		c.chunk.WriteOp(OpGreater, line)
	case token.GreaterEqual:
		c.chunk.WriteOp(OpLess, line)
		c.chunk.WriteOp(OpNot, line)
	case token.Less:
		c.chunk.WriteOp(OpLess, line)
	case token.LessEqual:
		c.chunk.WriteOp(OpGreater, line)
		c.chunk.WriteOp(OpNot, line)
	}
}

func (c *Compiler) unary(_ bool) {
	operator := c.previous
	c.parsePrecedence(precUnary)

	switch operator.Kind {
	case token.Minus:
		c.chunk.WriteOp(OpNegate, operator.Line)
	case token.Bang:
		c.chunk.WriteOp(OpNot, operator.Line)
	}
}

func (c *Compiler) number(_ bool) {
	tok := c.previous
	n, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		c.errorAtPrevious(diag.DoubleParse, "invalid number literal '"+tok.Lexeme+"'")
		return
	}
	if _, err := c.chunk.AddConstant(value.NewNumber(n), tok.Line); err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *Compiler) stringLiteral(_ bool) {
	tok := c.previous
	handle := c.chunk.Objects.Intern(lexer.Value(tok))
	if _, err := c.chunk.AddConstant(value.NewString(handle), tok.Line); err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *Compiler) literal(_ bool) {
	tok := c.previous
	switch tok.Kind {
	case token.Nil:
		c.chunk.WriteOp(OpNil, tok.Line)
	case token.True:
		c.chunk.WriteOp(OpTrue, tok.Line)
	case token.False:
		c.chunk.WriteOp(OpFalse, tok.Line)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// namedVariable resolves name against the local stack first, falling
// through to global access by name when no local matches.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	if slot, ok := c.resolveLocal(name.Lexeme); ok {
		if canAssign && c.match(token.Equal) {
			c.expression()
			c.chunk.WriteByteOperand(OpSetLocal, byte(slot), name.Line)
		} else {
			c.chunk.WriteByteOperand(OpGetLocal, byte(slot), name.Line)
		}
		return
	}

	idx, err := c.internName(name.Lexeme, name.Line)
	if err != nil {
		c.errors = append(c.errors, err)
		return
	}
	if canAssign && c.match(token.Equal) {
		c.expression()
		c.chunk.WriteByteOperand(OpSetGlobal, byte(idx), name.Line)
	} else {
		c.chunk.WriteByteOperand(OpGetGlobal, byte(idx), name.Line)
	}
}

func (c *Compiler) internName(name string, line int) (int, error) {
	if idx, ok := c.globalNames[name]; ok {
		return idx, nil
	}
	handle := c.chunk.Objects.Intern(name)
	idx, err := c.chunk.NameConstant(value.NewString(handle), line)
	if err != nil {
		return 0, err
	}
	c.globalNames[name] = idx
	return idx, nil
}

// --- locals ---

// declareLocal records name as a local in the current scope. Its slot is
// implicit — len(c.locals) at the moment of the append, matching the
// stack position the initializer's value will occupy.
func (c *Compiler) declareLocal(name string) {
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth})
}

// resolveLocal scans from the most recently declared local downward so
// shadowing in a nested scope resolves to the innermost declaration.
func (c *Compiler) resolveLocal(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return i, true
		}
	}
	return 0, false
}
