package llvm

import (
	"math"

	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"

	"ccgen/internal/ast"
	"ccgen/internal/source"
)

// lower dispatches on the node kind. Kinds without a rule are rejected with
// UnsupportedConstruct rather than silently skipped.
func (fe *funcEmitter) lower(id ast.NodeID) (Value, error) {
	n := fe.tree.Node(id)
	if n == nil {
		return Value{}, errorf(UnsupportedConstruct, source.Loc{}, "missing node #%d", id)
	}
	switch n.Kind {
	case ast.NodeBlock:
		if data := fe.tree.Block(id); data != nil {
			return fe.lowerBlock(data)
		}
	case ast.NodeBinary:
		if data := fe.tree.Binary(id); data != nil {
			return fe.lowerBinary(n, data)
		}
	case ast.NodeReturn:
		if data := fe.tree.Return(id); data != nil {
			return fe.lowerReturn(n, data)
		}
	case ast.NodeIntLit:
		if data := fe.tree.IntLit(id); data != nil {
			return fe.lowerIntLit(n, data)
		}
	case ast.NodeFloatLit:
		if data := fe.tree.FloatLit(id); data != nil {
			return fe.lowerFloatLit(data), nil
		}
	case ast.NodeIdent:
		if data := fe.tree.Ident(id); data != nil {
			return fe.lowerIdent(n, data)
		}
	case ast.NodeCall:
		if data := fe.tree.Call(id); data != nil {
			return fe.lowerCall(n, data)
		}
	case ast.NodeIf:
		if data := fe.tree.If(id); data != nil {
			return fe.lowerIf(data)
		}
	case ast.NodeWhile:
		if data := fe.tree.While(id); data != nil {
			return fe.lowerWhile(data)
		}
	case ast.NodeFuncDef:
		return Value{}, errorf(UnsupportedConstruct, n.Loc, "nested function definition inside %q", fe.name)
	default:
		return Value{}, errorf(UnsupportedConstruct, n.Loc, "cannot lower %s", n.Kind)
	}
	return Value{}, errorf(UnsupportedConstruct, n.Loc, "%s node without payload", n.Kind)
}

func (fe *funcEmitter) locOf(id ast.NodeID) source.Loc {
	if n := fe.tree.Node(id); n != nil {
		return n.Loc
	}
	return source.Loc{}
}

// lowerBlock lowers statements in order. Once a statement terminates the
// current block the rest of the list is unreachable.
func (fe *funcEmitter) lowerBlock(data *ast.BlockData) (Value, error) {
	for i, stmt := range data.Stmts {
		if !fe.cur.reachable() {
			loc := fe.locOf(stmt)
			if fe.s.opts.Unreachable == UnreachableError {
				return Value{}, errorf(UnreachableCode, loc, "statement in %q follows a terminator", fe.name)
			}
			fe.s.warn(UnreachableCode, loc, plural(len(data.Stmts)-i, "unreachable statement")+" dropped in "+quote(fe.name))
			break
		}
		if _, err := fe.lower(stmt); err != nil {
			return Value{}, err
		}
	}
	return stmtValue(), nil
}

func (fe *funcEmitter) lowerIntLit(n *ast.Node, data *ast.IntLitData) (Value, error) {
	if data.Value < math.MinInt32 || data.Value > math.MaxInt32 {
		return Value{}, errorf(TypeMismatch, n.Loc, "integer literal %d does not fit in int", data.Value)
	}
	b := fe.in.Builtins()
	return Value{Handle: constant.NewInt(irtypes.I32, data.Value), Type: b.Int}, nil
}

func (fe *funcEmitter) lowerFloatLit(data *ast.FloatLitData) Value {
	b := fe.in.Builtins()
	if data.Double {
		return Value{Handle: constant.NewFloat(irtypes.Double, data.Value), Type: b.Double}
	}
	return Value{Handle: constant.NewFloat(irtypes.Float, float64(float32(data.Value))), Type: b.Float}
}

func (fe *funcEmitter) lowerIdent(n *ast.Node, data *ast.IdentData) (Value, error) {
	v, ok := fe.scope[data.Name]
	if !ok {
		return Value{}, errorf(UnresolvedName, n.Loc, "%q is not a parameter of %q", data.Name, fe.name)
	}
	return v, nil
}

// lowerOperand lowers id and requires it to produce a non-void value.
func (fe *funcEmitter) lowerOperand(id ast.NodeID) (Value, error) {
	v, err := fe.lower(id)
	if err != nil {
		return Value{}, err
	}
	if v.IsStmt() || fe.in.IsVoid(v.Type) || v.Handle == nil {
		return Value{}, errorf(TypeMismatch, fe.locOf(id), "expression has no value")
	}
	return v, nil
}
