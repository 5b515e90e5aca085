package llvm

import (
	"github.com/llir/llvm/ir"

	"ccgen/internal/ast"
)

func (fe *funcEmitter) lowerReturn(n *ast.Node, data *ast.ReturnData) (Value, error) {
	result := fe.info.Result
	void := fe.in.IsVoid(result)
	if !data.Value.IsValid() {
		if !void {
			return Value{}, errorf(TypeMismatch, n.Loc, "return without a value in %q returning %s", fe.name, fe.in.Format(result))
		}
		fe.cur.ret(nil)
		return stmtValue(), nil
	}
	if void {
		return Value{}, errorf(TypeMismatch, n.Loc, "return with a value in void function %q", fe.name)
	}
	v, err := fe.lowerOperand(data.Value)
	if err != nil {
		return Value{}, err
	}
	if v, err = fe.convert(n.Loc, v, result); err != nil {
		return Value{}, err
	}
	fe.cur.ret(v.Handle)
	return stmtValue(), nil
}

// lowerIf emits if.then, if.else and if.end. The merge block exists only
// when at least one arm falls through.
func (fe *funcEmitter) lowerIf(data *ast.IfData) (Value, error) {
	cond, err := fe.lowerCond(data.Cond)
	if err != nil {
		return Value{}, err
	}
	var end *ir.Block
	merge := func() *ir.Block {
		if end == nil {
			end = fe.cur.newBlock("if.end")
		}
		return end
	}

	then := fe.cur.newBlock("if.then")
	var els *ir.Block
	if data.Else.IsValid() {
		els = fe.cur.newBlock("if.else")
		fe.cur.condBr(cond, then, els)
	} else {
		fe.cur.condBr(cond, then, merge())
	}

	fe.cur.positionAt(then)
	if _, err := fe.lower(data.Then); err != nil {
		return Value{}, err
	}
	if fe.cur.reachable() {
		fe.cur.br(merge())
	}

	if els != nil {
		fe.cur.positionAt(els)
		if _, err := fe.lower(data.Else); err != nil {
			return Value{}, err
		}
		if fe.cur.reachable() {
			fe.cur.br(merge())
		}
	}

	if end == nil {
		fe.cur.setUnreachable()
		return stmtValue(), nil
	}
	fe.cur.positionAt(end)
	return stmtValue(), nil
}

// lowerWhile emits a pre-tested loop: while.cond, while.body, while.end.
func (fe *funcEmitter) lowerWhile(data *ast.WhileData) (Value, error) {
	head := fe.cur.newBlock("while.cond")
	body := fe.cur.newBlock("while.body")
	end := fe.cur.newBlock("while.end")

	fe.cur.br(head)
	fe.cur.positionAt(head)
	cond, err := fe.lowerCond(data.Cond)
	if err != nil {
		return Value{}, err
	}
	fe.cur.condBr(cond, body, end)

	fe.cur.positionAt(body)
	if _, err := fe.lower(data.Body); err != nil {
		return Value{}, err
	}
	if fe.cur.reachable() {
		fe.cur.br(head)
	}
	fe.cur.positionAt(end)
	return stmtValue(), nil
}
