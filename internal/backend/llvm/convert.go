package llvm

import (
	irtypes "github.com/llir/llvm/ir/types"

	"ccgen/internal/source"
	"ccgen/internal/types"
)

// convert brings v to type to. Integers widen or narrow, float and double
// convert into each other, everything else must already match.
func (fe *funcEmitter) convert(loc source.Loc, v Value, to types.TypeID) (Value, error) {
	if v.Type == to {
		return v, nil
	}
	switch {
	case fe.in.IsInteger(v.Type) && fe.in.IsInteger(to):
		return fe.convertInt(v, to), nil
	case fe.in.IsFloat(v.Type) && fe.in.IsFloat(to):
		return fe.convertFloat(v, to), nil
	}
	return Value{}, errorf(TypeMismatch, loc, "cannot convert %s to %s", fe.in.Format(v.Type), fe.in.Format(to))
}

// convertInt extends by the signedness of the source and truncates when narrowing.
func (fe *funcEmitter) convertInt(v Value, to types.TypeID) Value {
	from := types.BitWidth(fe.in.KindOf(v.Type))
	width := types.BitWidth(fe.in.KindOf(to))
	dst := lowerType(fe.in, to)
	switch {
	case width == from:
		return Value{Handle: v.Handle, Type: to}
	case width < from:
		return Value{Handle: fe.cur.block().NewTrunc(v.Handle, dst), Type: to}
	case fe.in.IsUnsigned(v.Type):
		return Value{Handle: fe.cur.block().NewZExt(v.Handle, dst), Type: to}
	default:
		return Value{Handle: fe.cur.block().NewSExt(v.Handle, dst), Type: to}
	}
}

func (fe *funcEmitter) convertFloat(v Value, to types.TypeID) Value {
	if fe.in.KindOf(to) == types.KindDouble {
		return Value{Handle: fe.cur.block().NewFPExt(v.Handle, irtypes.Double), Type: to}
	}
	return Value{Handle: fe.cur.block().NewFPTrunc(v.Handle, irtypes.Float), Type: to}
}

func (fe *funcEmitter) intType(id types.TypeID) *irtypes.IntType {
	return lowerType(fe.in, id).(*irtypes.IntType)
}

func (fe *funcEmitter) floatType(id types.TypeID) *irtypes.FloatType {
	return lowerType(fe.in, id).(*irtypes.FloatType)
}

func (fe *funcEmitter) pointerType(id types.TypeID) *irtypes.PointerType {
	return lowerType(fe.in, id).(*irtypes.PointerType)
}
