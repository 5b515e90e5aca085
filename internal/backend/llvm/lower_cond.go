package llvm

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"ccgen/internal/ast"
)

// lowerCond lowers id as a branch condition and returns an i1. Comparisons
// and logical operators hand over their i1 without a round trip through int.
func (fe *funcEmitter) lowerCond(id ast.NodeID) (value.Value, error) {
	if data := fe.tree.Binary(id); data != nil {
		switch {
		case data.Op.IsComparison():
			return fe.lowerCompare(fe.tree.Node(id), data)
		case data.Op.IsLogical():
			return fe.lowerLogical(data)
		}
	}
	v, err := fe.lowerOperand(id)
	if err != nil {
		return nil, err
	}
	return fe.truth(id, v)
}

// truth compares a scalar against zero.
func (fe *funcEmitter) truth(id ast.NodeID, v Value) (value.Value, error) {
	b := fe.cur.block()
	switch {
	case fe.in.IsInteger(v.Type):
		return b.NewICmp(enum.IPredNE, v.Handle, constant.NewInt(fe.intType(v.Type), 0)), nil
	case fe.in.IsFloat(v.Type):
		return b.NewFCmp(enum.FPredUNE, v.Handle, constant.NewFloat(fe.floatType(v.Type), 0)), nil
	case fe.in.IsPointer(v.Type):
		return b.NewICmp(enum.IPredNE, v.Handle, constant.NewNull(fe.pointerType(v.Type))), nil
	}
	return nil, errorf(TypeMismatch, fe.locOf(id), "%s used as a condition", fe.in.Format(v.Type))
}
