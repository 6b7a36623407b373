package value

import "testing"

func TestIsFalsy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil is falsy", Nil, true},
		{"false is falsy", NewBool(false), true},
		{"true is truthy", NewBool(true), false},
		{"zero is truthy", NewNumber(0), false},
		{"empty string is truthy", NewString(0), false},
	}
	objs := NewObjectList()
	objs.Intern("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFalsy(); got != tt.want {
				t.Errorf("IsFalsy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	objs := NewObjectList()
	foo1 := objs.Intern("foo")
	foo2 := objs.Intern("foo")
	bar := objs.Intern("bar")

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", Nil, Nil, true},
		{"number reflexivity", NewNumber(1), NewNumber(1), true},
		{"number inequality", NewNumber(1), NewNumber(2), false},
		{"bool equality", NewBool(true), NewBool(true), true},
		{"cross-kind never equal", NewNumber(0), NewBool(false), false},
		{"cross-kind nil vs number", Nil, NewNumber(0), false},
		{"distinct handles, equal content", NewString(foo1), NewString(foo2), true},
		{"distinct handles, distinct content", NewString(foo1), NewString(bar), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b, objs); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualNaNIsNotReflexive(t *testing.T) {
	objs := NewObjectList()
	nan := NewNumber(nan())
	if Equal(nan, nan, objs) {
		t.Errorf("Equal(NaN, NaN) = true, want false")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestRender(t *testing.T) {
	objs := NewObjectList()
	h := objs.Intern("hello")

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"nil", Nil, "nil"},
		{"true", NewBool(true), "true"},
		{"false", NewBool(false), "false"},
		{"integral number", NewNumber(4), "4"},
		{"fractional number", NewNumber(1.5), "1.5"},
		{"negative number", NewNumber(-3), "-3"},
		{"string", NewString(h), "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.v, objs); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectListConcat(t *testing.T) {
	objs := NewObjectList()
	a := objs.Intern("foo")
	b := objs.Intern("bar")
	h := objs.Concat(a, b)
	if got := objs.Get(h).Body; got != "foobar" {
		t.Errorf("Concat body = %q, want %q", got, "foobar")
	}
	if objs.Get(a).Body != "foo" || objs.Get(b).Body != "bar" {
		t.Errorf("Concat mutated an operand")
	}
}

func TestObjectListAdopt(t *testing.T) {
	dst := NewObjectList()
	dst.Intern("existing")

	src := NewObjectList()
	h := src.Intern("incoming")

	offset := dst.Adopt(src)
	if offset != 1 {
		t.Fatalf("Adopt offset = %d, want 1", offset)
	}
	if got := dst.Get(h + offset).Body; got != "incoming" {
		t.Errorf("dst.Get(remapped handle) = %q, want %q", got, "incoming")
	}
	if dst.Len() != 2 {
		t.Errorf("dst.Len() = %d, want 2", dst.Len())
	}
}

func TestObjectListAdoptZeroOffsetNoOp(t *testing.T) {
	dst := NewObjectList()
	src := NewObjectList()
	src.Intern("only")

	offset := dst.Adopt(src)
	if offset != 0 {
		t.Fatalf("Adopt offset = %d, want 0", offset)
	}
	if dst.Len() != 1 {
		t.Errorf("dst.Len() = %d, want 1", dst.Len())
	}
}

func TestNewStringObjectHash(t *testing.T) {
	a := NewStringObject("abc")
	b := NewStringObject("abc")
	if a.Hash != b.Hash {
		t.Errorf("equal bodies hashed differently: %d vs %d", a.Hash, b.Hash)
	}
	c := NewStringObject("abd")
	if a.Hash == c.Hash {
		t.Errorf("distinct bodies hashed identically: %d", a.Hash)
	}
	if a.Length != 3 {
		t.Errorf("Length = %d, want 3", a.Length)
	}
}
