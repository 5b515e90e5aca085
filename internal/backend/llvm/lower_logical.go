package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"ccgen/internal/ast"
)

// lowerLogical lowers && and || with short-circuit control flow:
//
//	from:    br i1 %lhs, label %land.rhs, label %land.end
//	land.rhs: ... br label %land.end
//	land.end: phi i1 [ false, %from ], [ %rhs, %land.rhs ]
//
// || swaps the branch targets and joins true from the deciding block.
func (fe *funcEmitter) lowerLogical(data *ast.BinaryData) (value.Value, error) {
	prefix, short := "land", constant.False
	if data.Op == ast.OpLogicalOr {
		prefix, short = "lor", constant.True
	}
	lhs, err := fe.lowerCond(data.LHS)
	if err != nil {
		return nil, err
	}
	from := fe.cur.block()
	rhsBlock := fe.cur.newBlock(prefix + ".rhs")
	end := fe.cur.newBlock(prefix + ".end")
	if data.Op == ast.OpLogicalOr {
		fe.cur.condBr(lhs, end, rhsBlock)
	} else {
		fe.cur.condBr(lhs, rhsBlock, end)
	}

	fe.cur.positionAt(rhsBlock)
	rhs, err := fe.lowerCond(data.RHS)
	if err != nil {
		return nil, err
	}
	rhsEnd := fe.cur.block()
	fe.cur.br(end)

	fe.cur.positionAt(end)
	return fe.cur.block().NewPhi(ir.NewIncoming(short, from), ir.NewIncoming(rhs, rhsEnd)), nil
}
