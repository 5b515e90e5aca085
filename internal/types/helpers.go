package types

import (
	"fmt"
	"strings"
)

// KindOf returns the kind of id or KindInvalid.
func (in *Interner) KindOf(id TypeID) Kind {
	tt, ok := in.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return tt.Kind
}

// IsInteger reports whether id is an integer type.
func (in *Interner) IsInteger(id TypeID) bool {
	return in.KindOf(id).IsInteger()
}

// IsFloat reports whether id is float or double.
func (in *Interner) IsFloat(id TypeID) bool {
	return in.KindOf(id).IsFloat()
}

// IsPointer reports whether id is a pointer type.
func (in *Interner) IsPointer(id TypeID) bool {
	return in.KindOf(id) == KindPointer
}

// IsVoid reports whether id is void.
func (in *Interner) IsVoid(id TypeID) bool {
	return in.KindOf(id) == KindVoid
}

// IsUnsigned reports whether id is an unsigned integer type.
func (in *Interner) IsUnsigned(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind.IsInteger() && tt.Sign == Unsigned
}

// Elem returns the element type of a pointer or array.
func (in *Interner) Elem(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || (tt.Kind != KindPointer && tt.Kind != KindArray) {
		return NoTypeID, false
	}
	return tt.Elem, true
}

// Promote applies the integer promotions: kinds ranked below int become int.
func (in *Interner) Promote(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok || !tt.Kind.IsInteger() {
		return id
	}
	if Rank(tt.Kind) < Rank(KindInt) {
		return in.builtins.Int
	}
	return id
}

// CommonInteger returns the type both integer operands convert to under
// the usual arithmetic conversions.
func (in *Interner) CommonInteger(a, b TypeID) TypeID {
	a, b = in.Promote(a), in.Promote(b)
	if a == b {
		return a
	}
	ta, tb := in.MustLookup(a), in.MustLookup(b)
	ra, rb := Rank(ta.Kind), Rank(tb.Kind)
	switch {
	case ra > rb:
		return a
	case rb > ra:
		return b
	case ta.Sign == Unsigned:
		return a
	default:
		return b
	}
}

// CommonFloat returns double when either operand is double, float otherwise.
func (in *Interner) CommonFloat(a, b TypeID) TypeID {
	if in.KindOf(a) == KindDouble || in.KindOf(b) == KindDouble {
		return in.builtins.Double
	}
	return in.builtins.Float
}

// DefaultArgPromotion converts a variadic argument type: small integers
// become int and float becomes double.
func (in *Interner) DefaultArgPromotion(id TypeID) TypeID {
	if in.KindOf(id) == KindFloat {
		return in.builtins.Double
	}
	return in.Promote(id)
}

// Format renders id using C spelling.
func (in *Interner) Format(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return fmt.Sprintf("<type#%d>", id)
	}
	switch tt.Kind {
	case KindChar, KindShort, KindInt, KindLong, KindLLong:
		if tt.Sign == Unsigned {
			return "unsigned " + tt.Kind.String()
		}
		return tt.Kind.String()
	case KindPointer:
		return in.Format(tt.Elem) + "*"
	case KindArray:
		return fmt.Sprintf("%s[%d]", in.Format(tt.Elem), tt.Count)
	case KindFunc:
		info, _ := in.FnInfo(id)
		var b strings.Builder
		b.WriteString(in.Format(info.Result))
		b.WriteByte('(')
		for i, p := range info.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(in.Format(p))
		}
		switch {
		case info.Variadic && len(info.Params) > 0:
			b.WriteString(", ...")
		case info.Variadic:
			b.WriteString("...")
		case len(info.Params) == 0:
			b.WriteString("void")
		}
		b.WriteByte(')')
		return b.String()
	default:
		return tt.Kind.String()
	}
}
