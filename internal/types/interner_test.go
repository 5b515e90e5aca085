package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Int == NoTypeID || b.Double == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if in.KindOf(b.UChar) != KindChar || !in.IsUnsigned(b.UChar) {
		t.Fatalf("expected unsigned char builtin")
	}
	if in.IsUnsigned(b.Int) {
		t.Fatalf("int must be signed")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	p1 := in.Pointer(b.Char)
	p2 := in.Pointer(b.Char)
	if p1 != p2 {
		t.Fatalf("pointer types should be deduplicated")
	}
	if in.Array(b.Int, 4) == in.Array(b.Int, 5) {
		t.Fatalf("array sizes must affect identity")
	}
	if in.Integer(KindInt, Signed) != b.Int {
		t.Fatalf("integer lookup must return the builtin id")
	}
}

func TestSignednessAffectsIdentity(t *testing.T) {
	in := NewInterner()
	if in.Integer(KindLong, Signed) == in.Integer(KindLong, Unsigned) {
		t.Fatalf("signed and unsigned long must differ")
	}
}

func TestRegisterFnDeduplicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn([]TypeID{b.Int, b.Char}, b.Void, false)
	f2 := in.RegisterFn([]TypeID{b.Int, b.Char}, b.Void, false)
	f3 := in.RegisterFn([]TypeID{b.Int, b.Char}, b.Void, true)
	if f1 != f2 {
		t.Fatalf("identical signatures should share an id")
	}
	if f1 == f3 {
		t.Fatalf("variadic flag must affect identity")
	}
	info, ok := in.FnInfo(f3)
	if !ok || !info.Variadic || len(info.Params) != 2 {
		t.Fatalf("unexpected fn info: %+v", info)
	}
}

func TestInternRejectsUnknownElem(t *testing.T) {
	in := NewInterner()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for dangling element type")
		}
	}()
	in.Pointer(TypeID(9999))
}

func TestFormat(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	printf := in.RegisterFn([]TypeID{in.Pointer(b.Char)}, b.Int, true)
	cases := []struct {
		id   TypeID
		want string
	}{
		{b.UInt, "unsigned int"},
		{b.LLong, "long long"},
		{in.Pointer(b.Char), "char*"},
		{in.Array(b.Int, 4), "int[4]"},
		{printf, "int(char*, ...)"},
		{in.RegisterFn(nil, b.Int, false), "int(void)"},
	}
	for _, tc := range cases {
		if got := in.Format(tc.id); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestUsualArithmeticConversions(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if got := in.CommonInteger(b.Char, b.Short); got != b.Int {
		t.Fatalf("char+short should promote to int, got %s", in.Format(got))
	}
	if got := in.CommonInteger(b.Int, b.UInt); got != b.UInt {
		t.Fatalf("int+unsigned int should be unsigned int, got %s", in.Format(got))
	}
	if got := in.CommonInteger(b.UInt, b.LLong); got != b.LLong {
		t.Fatalf("higher rank wins, got %s", in.Format(got))
	}
	if got := in.CommonFloat(b.Float, b.Double); got != b.Double {
		t.Fatalf("float+double should be double, got %s", in.Format(got))
	}
	if got := in.DefaultArgPromotion(b.Float); got != b.Double {
		t.Fatalf("variadic float should promote to double")
	}
	if got := in.DefaultArgPromotion(b.UChar); got != b.Int {
		t.Fatalf("variadic unsigned char should promote to int")
	}
}
