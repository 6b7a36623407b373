// Package compiler implements the single-pass Pratt compiler and the
// bytecode Chunk it emits into: code bytes, constant pool, and a
// run-length-encoded line map, plus a disassembler for debugging.
package compiler

import (
	"fmt"
	"strings"

	"wisp/diag"
	"wisp/value"
)

// OpCode is a single byte-wide instruction tag.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpConstantLong
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpDefineGlobal
	OpSetGlobal
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpReturn
)

var opNames = map[OpCode]string{
	OpConstant:     "OP_CONSTANT",
	OpConstantLong: "OP_CONSTANT_LONG",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpReturn:       "OP_RETURN",
}

func (op OpCode) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// maxSmallConstants is the number of constant indices (0..254) reachable
// with a 1-byte OP_CONSTANT operand; index 255 and beyond need
// OP_CONSTANT_LONG.
const maxSmallConstants = 255

// maxConstants is the largest constant-pool size the 3-byte
// OP_CONSTANT_LONG operand can address.
const maxConstants = 0xFF_FFFF

// lineRun is one (line, byte_count) pair in the run-length line map.
type lineRun struct {
	line  int
	count int
}

// Chunk is the compiled program: code bytes, constant pool, and the
// source-line attribution for each byte. Objects holds the heap string
// bodies compile-time string constants were interned into; ownership of
// this list transfers to the VM when the chunk is run. The compiler only
// ever appends to it, never frees.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Objects   *value.ObjectList
	lines     []lineRun
}

// NewChunk returns an empty Chunk ready for emission.
func NewChunk() *Chunk {
	return &Chunk{Objects: value.NewObjectList()}
}

// WriteByte appends b to the code stream, attributing it to line.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	if n := len(c.lines); n > 0 && c.lines[n-1].line == line {
		c.lines[n-1].count++
		return
	}
	c.lines = append(c.lines, lineRun{line: line, count: 1})
}

// WriteOp appends a zero-operand opcode.
func (c *Chunk) WriteOp(op OpCode, line int) int {
	offset := len(c.Code)
	c.WriteByte(byte(op), line)
	return offset
}

// WriteByteOperand appends op followed by a single operand byte.
func (c *Chunk) WriteByteOperand(op OpCode, operand byte, line int) int {
	offset := len(c.Code)
	c.WriteByte(byte(op), line)
	c.WriteByte(operand, line)
	return offset
}

// addConstantValue appends v to the pool and returns its index, with no
// bytecode emitted — the two calling conventions (a value-loading
// expression vs. a 1-byte name operand) decide what to emit themselves.
func (c *Chunk) addConstantValue(v value.Value, line int) (int, error) {
	if len(c.Constants) >= maxConstants {
		return 0, diag.New(diag.Parse, diag.TooManyConstants, line,
			"too many constants in one chunk")
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1, nil
}

// AddConstant appends value to the constant pool and emits the
// CONSTANT/CONSTANT_LONG sequence that loads it, returning the pool index.
// Pools that would exceed maxConstants entries fail with TooManyConstants.
func (c *Chunk) AddConstant(v value.Value, line int) (int, error) {
	index, err := c.addConstantValue(v, line)
	if err != nil {
		return 0, err
	}

	if index <= maxSmallConstants-1 {
		c.WriteByteOperand(OpConstant, byte(index), line)
	} else {
		c.WriteByte(byte(OpConstantLong), line)
		c.WriteByte(byte(index), line)
		c.WriteByte(byte(index>>8), line)
		c.WriteByte(byte(index>>16), line)
	}
	return index, nil
}

// NameConstant interns v (always a String value naming a variable) into the
// constant pool without emitting a load instruction, for use as the 1-byte
// operand of GET_GLOBAL/DEFINE_GLOBAL/SET_GLOBAL. (GET_LOCAL/SET_LOCAL take
// a stack slot operand instead.)
func (c *Chunk) NameConstant(v value.Value, line int) (int, error) {
	index, err := c.addConstantValue(v, line)
	if err != nil {
		return 0, err
	}
	if index > maxSmallConstants-1 {
		return 0, diag.New(diag.Parse, diag.TooManyConstants, line,
			"too many constants in one chunk")
	}
	return index, nil
}

// LineAt returns the source line attributed to the byte at offset.
// Queries past the end of the code return the last recorded line; an
// empty chunk returns 0.
func (c *Chunk) LineAt(offset int) int {
	if len(c.lines) == 0 {
		return 0
	}
	remaining := offset
	for i, run := range c.lines {
		if remaining < run.count {
			return run.line
		}
		if i == len(c.lines)-1 {
			return run.line
		}
		remaining -= run.count
	}
	return c.lines[len(c.lines)-1].line
}

// Disassemble renders the whole chunk as a textual instruction listing:
// one line per instruction with its byte offset, source line, mnemonic,
// and operand rendering.
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	offset := 0
	for offset < len(c.Code) {
		offset = c.disassembleInstruction(&b, offset)
	}
	return b.String()
}

func (c *Chunk) disassembleInstruction(b *strings.Builder, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)
	line := c.LineAt(offset)
	if offset > 0 && line == c.LineAt(offset-1) {
		fmt.Fprint(b, "   | ")
	} else {
		fmt.Fprintf(b, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	switch op {
	case OpConstant:
		return c.constantInstruction(b, op, offset)
	case OpConstantLong:
		return c.constantLongInstruction(b, op, offset)
	case OpGetLocal, OpSetLocal:
		return c.slotInstruction(b, op, offset)
	case OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		return c.globalInstruction(b, op, offset)
	default:
		fmt.Fprintf(b, "%s\n", op)
		return offset + 1
	}
}

func (c *Chunk) constantInstruction(b *strings.Builder, op OpCode, offset int) int {
	index := c.Code[offset+1]
	fmt.Fprintf(b, "%-18s %4d '%s'\n", op, index, value.Render(c.Constants[index], c.Objects))
	return offset + 2
}

func (c *Chunk) constantLongInstruction(b *strings.Builder, op OpCode, offset int) int {
	index := int(c.Code[offset+1]) | int(c.Code[offset+2])<<8 | int(c.Code[offset+3])<<16
	fmt.Fprintf(b, "%-18s %4d '%s'\n", op, index, value.Render(c.Constants[index], c.Objects))
	return offset + 4
}

func (c *Chunk) slotInstruction(b *strings.Builder, op OpCode, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(b, "%-18s %4d\n", op, slot)
	return offset + 2
}

func (c *Chunk) globalInstruction(b *strings.Builder, op OpCode, offset int) int {
	index := c.Code[offset+1]
	name := "?"
	if int(index) < len(c.Constants) {
		name = value.Render(c.Constants[index], c.Objects)
	}
	fmt.Fprintf(b, "%-18s %4d %q\n", op, index, name)
	return offset + 2
}
