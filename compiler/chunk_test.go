package compiler

import (
	"strings"
	"testing"

	"wisp/value"
)

func TestLineAtWithinAndAcrossRuns(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpPop, 2)
	c.WriteOp(OpReturn, 3)

	tests := []struct {
		offset int
		want   int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
	}
	for _, tt := range tests {
		if got := c.LineAt(tt.offset); got != tt.want {
			t.Errorf("LineAt(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestLineAtPastEndReturnsLastLine(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpReturn, 5)

	if got := c.LineAt(100); got != 5 {
		t.Errorf("LineAt(past end) = %d, want 5", got)
	}
}

func TestLineAtEmptyChunk(t *testing.T) {
	c := NewChunk()
	if got := c.LineAt(0); got != 0 {
		t.Errorf("LineAt(0) on empty chunk = %d, want 0", got)
	}
}

func TestAddConstantSmallEmitsConstant(t *testing.T) {
	c := NewChunk()
	index, err := c.AddConstant(value.NewNumber(7), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 0 {
		t.Fatalf("index = %d, want 0", index)
	}
	want := []byte{byte(OpConstant), 0}
	if string(c.Code) != string(want) {
		t.Errorf("Code = %v, want %v", c.Code, want)
	}
}

func TestAddConstantLongBeyondSmallRange(t *testing.T) {
	c := NewChunk()
	for i := 0; i < maxSmallConstants; i++ {
		if _, err := c.AddConstant(value.NewNumber(float64(i)), 1); err != nil {
			t.Fatalf("unexpected error filling pool: %v", err)
		}
	}
	index, err := c.AddConstant(value.NewNumber(999), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != maxSmallConstants {
		t.Fatalf("index = %d, want %d", index, maxSmallConstants)
	}
	lastFour := c.Code[len(c.Code)-4:]
	if OpCode(lastFour[0]) != OpConstantLong {
		t.Errorf("opcode = %v, want OP_CONSTANT_LONG", OpCode(lastFour[0]))
	}
	gotIndex := int(lastFour[1]) | int(lastFour[2])<<8 | int(lastFour[3])<<16
	if gotIndex != maxSmallConstants {
		t.Errorf("encoded index = %d, want %d", gotIndex, maxSmallConstants)
	}
}

func TestNameConstantDoesNotEmit(t *testing.T) {
	c := NewChunk()
	h := c.Objects.Intern("x")
	index, err := c.NameConstant(value.NewString(h), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 0 {
		t.Fatalf("index = %d, want 0", index)
	}
	if len(c.Code) != 0 {
		t.Errorf("NameConstant emitted bytecode: %v", c.Code)
	}
}

func TestDisassembleRendersConstantAndGlobal(t *testing.T) {
	c := NewChunk()
	h := c.Objects.Intern("x")
	nameIdx, err := c.NameConstant(value.NewString(h), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.AddConstant(value.NewNumber(2), 1)
	c.WriteByteOperand(OpDefineGlobal, byte(nameIdx), 1)
	c.WriteOp(OpReturn, 1)

	out := c.Disassemble("test")
	if !strings.Contains(out, "== test ==") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "OP_DEFINE_GLOBAL") || !strings.Contains(out, `"x"`) {
		t.Errorf("missing global instruction rendering: %q", out)
	}
	if !strings.Contains(out, "OP_RETURN") {
		t.Errorf("missing return instruction: %q", out)
	}
}

func TestOpCodeStringUnknown(t *testing.T) {
	unknown := OpCode(255)
	if got := unknown.String(); got != "OP_UNKNOWN(255)" {
		t.Errorf("String() = %q, want OP_UNKNOWN(255)", got)
	}
}
