package llvm

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"ccgen/internal/ast"
	"ccgen/internal/source"
)

// lowerBinary lowers lhs, then rhs, then picks the instruction from the
// family of the left operand.
func (fe *funcEmitter) lowerBinary(n *ast.Node, data *ast.BinaryData) (Value, error) {
	var (
		cond value.Value
		err  error
	)
	switch {
	case data.Op.IsLogical():
		cond, err = fe.lowerLogical(data)
	case data.Op.IsComparison():
		cond, err = fe.lowerCompare(n, data)
	default:
		return fe.lowerArith(n, data)
	}
	if err != nil {
		return Value{}, err
	}
	return fe.boolToInt(cond), nil
}

// boolToInt widens an i1 truth value to an int 0 or 1.
func (fe *funcEmitter) boolToInt(cond value.Value) Value {
	return Value{Handle: fe.cur.block().NewZExt(cond, irtypes.I32), Type: fe.in.Builtins().Int}
}

func (fe *funcEmitter) lowerOperands(data *ast.BinaryData) (lhs, rhs Value, err error) {
	if lhs, err = fe.lowerOperand(data.LHS); err != nil {
		return Value{}, Value{}, err
	}
	if rhs, err = fe.lowerOperand(data.RHS); err != nil {
		return Value{}, Value{}, err
	}
	return lhs, rhs, nil
}

func (fe *funcEmitter) mismatch(loc source.Loc, op ast.BinaryOp, lhs, rhs Value) *Error {
	return errorf(TypeMismatch, loc, "invalid operands to %s (%s and %s)", op, fe.in.Format(lhs.Type), fe.in.Format(rhs.Type))
}

func (fe *funcEmitter) lowerArith(n *ast.Node, data *ast.BinaryData) (Value, error) {
	lhs, rhs, err := fe.lowerOperands(data)
	if err != nil {
		return Value{}, err
	}
	switch {
	case fe.in.IsInteger(lhs.Type) && fe.in.IsInteger(rhs.Type):
		return fe.intArith(data.Op, lhs, rhs), nil
	case fe.in.IsFloat(lhs.Type) && fe.in.IsFloat(rhs.Type) && !data.Op.IsBitwise():
		return fe.floatArith(data.Op, lhs, rhs), nil
	case fe.in.IsPointer(lhs.Type) && fe.in.IsInteger(rhs.Type) && (data.Op == ast.OpAdd || data.Op == ast.OpSub):
		return fe.pointerOffset(data.Op, lhs, rhs), nil
	case fe.in.IsInteger(lhs.Type) && fe.in.IsPointer(rhs.Type) && data.Op == ast.OpAdd:
		return fe.pointerOffset(data.Op, rhs, lhs), nil
	}
	return Value{}, fe.mismatch(n.Loc, data.Op, lhs, rhs)
}

// shiftInts promotes the shifted operand alone and brings the count to its
// width. The result has the promoted left type.
func (fe *funcEmitter) shiftInts(lhs, rhs Value) (Value, Value) {
	lhs = fe.convertInt(lhs, fe.in.Promote(lhs.Type))
	return lhs, fe.convertInt(rhs, lhs.Type)
}

// usualInts converts both integer operands to their common type.
func (fe *funcEmitter) usualInts(lhs, rhs Value) (Value, Value) {
	common := fe.in.CommonInteger(lhs.Type, rhs.Type)
	return fe.convertInt(lhs, common), fe.convertInt(rhs, common)
}

func (fe *funcEmitter) intArith(op ast.BinaryOp, lhs, rhs Value) Value {
	if op == ast.OpShl || op == ast.OpShr {
		lhs, rhs = fe.shiftInts(lhs, rhs)
	} else {
		lhs, rhs = fe.usualInts(lhs, rhs)
	}
	unsigned := fe.in.IsUnsigned(lhs.Type)
	b := fe.cur.block()
	x, y := lhs.Handle, rhs.Handle
	var res value.Value
	switch op {
	case ast.OpAdd:
		res = b.NewAdd(x, y)
	case ast.OpSub:
		res = b.NewSub(x, y)
	case ast.OpMul:
		res = b.NewMul(x, y)
	case ast.OpDiv:
		if unsigned {
			res = b.NewUDiv(x, y)
		} else {
			res = b.NewSDiv(x, y)
		}
	case ast.OpRem:
		if unsigned {
			res = b.NewURem(x, y)
		} else {
			res = b.NewSRem(x, y)
		}
	case ast.OpBitAnd:
		res = b.NewAnd(x, y)
	case ast.OpBitOr:
		res = b.NewOr(x, y)
	case ast.OpBitXor:
		res = b.NewXor(x, y)
	case ast.OpShl:
		res = b.NewShl(x, y)
	case ast.OpShr:
		if unsigned {
			res = b.NewLShr(x, y)
		} else {
			res = b.NewAShr(x, y)
		}
	default:
		panic("llvm: integer operator " + op.String())
	}
	return Value{Handle: res, Type: lhs.Type}
}

func (fe *funcEmitter) usualFloats(lhs, rhs Value) (Value, Value) {
	common := fe.in.CommonFloat(lhs.Type, rhs.Type)
	if lhs.Type != common {
		lhs = fe.convertFloat(lhs, common)
	}
	if rhs.Type != common {
		rhs = fe.convertFloat(rhs, common)
	}
	return lhs, rhs
}

func (fe *funcEmitter) floatArith(op ast.BinaryOp, lhs, rhs Value) Value {
	lhs, rhs = fe.usualFloats(lhs, rhs)
	b := fe.cur.block()
	x, y := lhs.Handle, rhs.Handle
	var res value.Value
	switch op {
	case ast.OpAdd:
		res = b.NewFAdd(x, y)
	case ast.OpSub:
		res = b.NewFSub(x, y)
	case ast.OpMul:
		res = b.NewFMul(x, y)
	case ast.OpDiv:
		res = b.NewFDiv(x, y)
	case ast.OpRem:
		res = b.NewFRem(x, y)
	default:
		panic("llvm: floating operator " + op.String())
	}
	return Value{Handle: res, Type: lhs.Type}
}

// pointerOffset lowers ptr + n and ptr - n as an element-wise getelementptr.
func (fe *funcEmitter) pointerOffset(op ast.BinaryOp, ptr, idx Value) Value {
	wide := fe.in.Builtins().LLong
	if fe.in.IsUnsigned(idx.Type) {
		wide = fe.in.Builtins().ULLong
	}
	idx = fe.convertInt(idx, wide)
	index := idx.Handle
	b := fe.cur.block()
	if op == ast.OpSub {
		index = b.NewSub(constant.NewInt(irtypes.I64, 0), index)
	}
	elem := fe.pointerType(ptr.Type).ElemType
	return Value{Handle: b.NewGetElementPtr(elem, ptr.Handle, index), Type: ptr.Type}
}

// lowerCompare returns the i1 result of a comparison.
func (fe *funcEmitter) lowerCompare(n *ast.Node, data *ast.BinaryData) (value.Value, error) {
	lhs, rhs, err := fe.lowerOperands(data)
	if err != nil {
		return nil, err
	}
	switch {
	case fe.in.IsInteger(lhs.Type) && fe.in.IsInteger(rhs.Type):
		lhs, rhs = fe.usualInts(lhs, rhs)
		pred := intPredicate(data.Op, fe.in.IsUnsigned(lhs.Type))
		return fe.cur.block().NewICmp(pred, lhs.Handle, rhs.Handle), nil
	case fe.in.IsFloat(lhs.Type) && fe.in.IsFloat(rhs.Type):
		lhs, rhs = fe.usualFloats(lhs, rhs)
		return fe.cur.block().NewFCmp(floatPredicate(data.Op), lhs.Handle, rhs.Handle), nil
	case fe.in.IsPointer(lhs.Type) && lhs.Type == rhs.Type:
		return fe.cur.block().NewICmp(intPredicate(data.Op, true), lhs.Handle, rhs.Handle), nil
	case fe.in.IsPointer(lhs.Type) && fe.isNullConstant(data.RHS):
		return fe.cur.block().NewICmp(intPredicate(data.Op, true), lhs.Handle, constant.NewNull(fe.pointerType(lhs.Type))), nil
	case fe.in.IsPointer(rhs.Type) && fe.isNullConstant(data.LHS):
		return fe.cur.block().NewICmp(intPredicate(data.Op, true), constant.NewNull(fe.pointerType(rhs.Type)), rhs.Handle), nil
	}
	return nil, fe.mismatch(n.Loc, data.Op, lhs, rhs)
}

// isNullConstant reports whether id is the literal 0, which compares equal
// to a null pointer of any type.
func (fe *funcEmitter) isNullConstant(id ast.NodeID) bool {
	lit := fe.tree.IntLit(id)
	return lit != nil && lit.Value == 0
}

func intPredicate(op ast.BinaryOp, unsigned bool) enum.IPred {
	switch op {
	case ast.OpEq:
		return enum.IPredEQ
	case ast.OpNe:
		return enum.IPredNE
	case ast.OpLt:
		if unsigned {
			return enum.IPredULT
		}
		return enum.IPredSLT
	case ast.OpLe:
		if unsigned {
			return enum.IPredULE
		}
		return enum.IPredSLE
	case ast.OpGt:
		if unsigned {
			return enum.IPredUGT
		}
		return enum.IPredSGT
	case ast.OpGe:
		if unsigned {
			return enum.IPredUGE
		}
		return enum.IPredSGE
	}
	panic("llvm: comparison operator " + op.String())
}

// floatPredicate uses ordered predicates except for !=, which must hold for NaN.
func floatPredicate(op ast.BinaryOp) enum.FPred {
	switch op {
	case ast.OpEq:
		return enum.FPredOEQ
	case ast.OpNe:
		return enum.FPredUNE
	case ast.OpLt:
		return enum.FPredOLT
	case ast.OpLe:
		return enum.FPredOLE
	case ast.OpGt:
		return enum.FPredOGT
	case ast.OpGe:
		return enum.FPredOGE
	}
	panic("llvm: comparison operator " + op.String())
}
