package compiler

import (
	"testing"

	"wisp/diag"
)

func compileOK(t *testing.T, source string) *Chunk {
	t.Helper()
	chunk, errs := New().Compile(source)
	if len(errs) > 0 {
		t.Fatalf("unexpected compile errors for %q: %v", source, errs)
	}
	return chunk
}

func TestBytecodeShapeArithmeticPrecedence(t *testing.T) {
	// 1 + 2 * 3; -> CONSTANT 0, CONSTANT 1, CONSTANT 2, MULTIPLY, ADD, POP, RETURN
	chunk := compileOK(t, "1 + 2 * 3;")
	want := []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpConstant), 2,
		byte(OpMultiply),
		byte(OpAdd),
		byte(OpPop),
		byte(OpReturn),
	}
	if string(chunk.Code) != string(want) {
		t.Errorf("Code = %v, want %v", chunk.Code, want)
	}
	if len(chunk.Constants) != 3 {
		t.Fatalf("Constants len = %d, want 3", len(chunk.Constants))
	}
	for i, n := range []float64{1, 2, 3} {
		if chunk.Constants[i].Number != n {
			t.Errorf("Constants[%d] = %v, want %v", i, chunk.Constants[i].Number, n)
		}
	}
}

func TestComparisonShortcuts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"not-equal is EQUAL+NOT", "1 != 2;", []byte{byte(OpConstant), 0, byte(OpConstant), 1, byte(OpEqual), byte(OpNot), byte(OpPop), byte(OpReturn)}},
		{"greater-equal is LESS+NOT", "1 >= 2;", []byte{byte(OpConstant), 0, byte(OpConstant), 1, byte(OpLess), byte(OpNot), byte(OpPop), byte(OpReturn)}},
		{"less-equal is GREATER+NOT", "1 <= 2;", []byte{byte(OpConstant), 0, byte(OpConstant), 1, byte(OpGreater), byte(OpNot), byte(OpPop), byte(OpReturn)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := compileOK(t, tt.src)
			if string(chunk.Code) != string(tt.want) {
				t.Errorf("Code = %v, want %v", chunk.Code, tt.want)
			}
		})
	}
}

func TestUnaryDoubleNegation(t *testing.T) {
	// ---n; -> CONSTANT 0, NEGATE, NEGATE, NEGATE, POP, RETURN
	chunk := compileOK(t, "---5;")
	want := []byte{byte(OpConstant), 0, byte(OpNegate), byte(OpNegate), byte(OpNegate), byte(OpPop), byte(OpReturn)}
	if string(chunk.Code) != string(want) {
		t.Errorf("Code = %v, want %v", chunk.Code, want)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	// (1 + 2) * 3; -> CONSTANT 0, CONSTANT 1, ADD, CONSTANT 2, MULTIPLY, POP, RETURN
	chunk := compileOK(t, "(1 + 2) * 3;")
	want := []byte{
		byte(OpConstant), 0,
		byte(OpConstant), 1,
		byte(OpAdd),
		byte(OpConstant), 2,
		byte(OpMultiply),
		byte(OpPop),
		byte(OpReturn),
	}
	if string(chunk.Code) != string(want) {
		t.Errorf("Code = %v, want %v", chunk.Code, want)
	}
}

func TestGlobalVarDeclarationAndPrint(t *testing.T) {
	chunk := compileOK(t, "var x = 2; print x * x;")
	want := []byte{
		byte(OpConstant), 0, // 2
		byte(OpDefineGlobal), 1, // name "x"
		byte(OpGetGlobal), 1,
		byte(OpGetGlobal), 1,
		byte(OpMultiply),
		byte(OpPrint),
		byte(OpReturn),
	}
	if string(chunk.Code) != string(want) {
		t.Errorf("Code = %v, want %v", chunk.Code, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind diag.Kind
	}{
		{"missing expr after operator", "print 1 + ;", diag.ExpectedExpr},
		{"missing trailing semicolon", "1 + 2", diag.UnexpectedToken},
		{"missing identifier in var decl", "var = 1;", diag.ExpectedIdentifier},
		{"unterminated block", "{ print 1;", diag.UnclosedBlock},
		{"invalid assignment target", "1 = 2;", diag.InvalidAssignmentTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := New().Compile(tt.src)
			if len(errs) == 0 {
				t.Fatalf("expected a compile error, got none")
			}
			d, ok := errs[0].(*diag.Diagnostic)
			if !ok {
				t.Fatalf("error is %T, want *diag.Diagnostic", errs[0])
			}
			if d.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", d.Kind, tt.wantKind)
			}
		})
	}
}
