package llvm

import (
	"github.com/llir/llvm/ir/value"
	"golang.org/x/text/unicode/norm"

	"ccgen/internal/ast"
)

// lowerCall calls a function declared earlier in the session. Fixed
// arguments convert to the parameter types; variadic extras get the
// default argument promotions.
func (fe *funcEmitter) lowerCall(n *ast.Node, data *ast.CallData) (Value, error) {
	name := norm.NFC.String(data.Callee)
	entry, ok := fe.s.funcs[name]
	if !ok {
		return Value{}, errorf(UnresolvedName, n.Loc, "call to undeclared function %q", name)
	}
	info := entry.info
	fixed := len(info.Params)
	if len(data.Args) < fixed || (!info.Variadic && len(data.Args) != fixed) {
		want := plural(fixed, "argument")
		if info.Variadic {
			want = "at least " + want
		}
		return Value{}, errorf(TypeMismatch, n.Loc, "call to %q expects %s, got %d", name, want, len(data.Args))
	}

	args := make([]value.Value, 0, len(data.Args))
	for i, argID := range data.Args {
		arg, err := fe.lowerOperand(argID)
		if err != nil {
			return Value{}, err
		}
		target := fe.in.DefaultArgPromotion(arg.Type)
		if i < fixed {
			target = info.Params[i]
		}
		if arg, err = fe.convert(fe.locOf(argID), arg, target); err != nil {
			return Value{}, err
		}
		args = append(args, arg.Handle)
	}

	call := fe.cur.block().NewCall(entry.fn, args...)
	if fe.in.IsVoid(info.Result) {
		return Value{Type: info.Result}, nil
	}
	return Value{Handle: call, Type: info.Result}, nil
}
