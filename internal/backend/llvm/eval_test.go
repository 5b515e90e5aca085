package llvm

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"ccgen/internal/testkit"
)

// evaluator executes integer-only lowered functions. Values are kept as
// uint64 masked to their bit width.
type evaluator struct {
	t       *testing.T
	steps   int
	visited []string
}

const evalStepLimit = 100000

func evalFunc(t *testing.T, f *ir.Func, args ...uint64) uint64 {
	t.Helper()
	ev := &evaluator{t: t}
	return ev.call(f, args)
}

func (ev *evaluator) call(f *ir.Func, args []uint64) uint64 {
	ev.t.Helper()
	if len(f.Blocks) == 0 {
		ev.t.Fatalf("cannot evaluate declaration @%s", f.Name())
	}
	if len(args) != len(f.Params) {
		ev.t.Fatalf("@%s takes %d args, got %d", f.Name(), len(f.Params), len(args))
	}
	env := make(map[value.Value]uint64, 16)
	for i, p := range f.Params {
		env[p] = args[i] & mask(p.Type())
	}

	var prev *ir.Block
	b := f.Blocks[0]
	for {
		ev.visited = append(ev.visited, b.Name())
		for _, inst := range b.Insts {
			ev.steps++
			if ev.steps > evalStepLimit {
				ev.t.Fatalf("step limit exceeded in @%s", f.Name())
			}
			ev.exec(env, inst, prev)
		}
		switch term := b.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return 0
			}
			return ev.get(env, term.X)
		case *ir.TermBr:
			prev, b = b, testkit.AsBlock(term.Target)
		case *ir.TermCondBr:
			next := term.TargetFalse
			if ev.get(env, term.Cond) != 0 {
				next = term.TargetTrue
			}
			prev, b = b, testkit.AsBlock(next)
		default:
			ev.t.Fatalf("unsupported terminator %T", b.Term)
		}
	}
}

func (ev *evaluator) get(env map[value.Value]uint64, v value.Value) uint64 {
	ev.t.Helper()
	if c, ok := v.(*constant.Int); ok {
		if c.X.Sign() < 0 {
			return uint64(c.X.Int64()) & mask(c.Typ)
		}
		return c.X.Uint64() & mask(c.Typ)
	}
	x, ok := env[v]
	if !ok {
		ev.t.Fatalf("use of undefined value %s", v.Ident())
	}
	return x
}

func (ev *evaluator) exec(env map[value.Value]uint64, inst ir.Instruction, prev *ir.Block) {
	ev.t.Helper()
	switch in := inst.(type) {
	case *ir.InstAdd:
		ev.set(env, in, ev.get(env, in.X)+ev.get(env, in.Y))
	case *ir.InstSub:
		ev.set(env, in, ev.get(env, in.X)-ev.get(env, in.Y))
	case *ir.InstMul:
		ev.set(env, in, ev.get(env, in.X)*ev.get(env, in.Y))
	case *ir.InstSDiv:
		w := width(in.X.Type())
		ev.set(env, in, uint64(signed(ev.get(env, in.X), w)/ev.nonZero(signed(ev.get(env, in.Y), w))))
	case *ir.InstSRem:
		w := width(in.X.Type())
		ev.set(env, in, uint64(signed(ev.get(env, in.X), w)%ev.nonZero(signed(ev.get(env, in.Y), w))))
	case *ir.InstUDiv:
		ev.set(env, in, ev.get(env, in.X)/uint64(ev.nonZero(int64(ev.get(env, in.Y)))))
	case *ir.InstURem:
		ev.set(env, in, ev.get(env, in.X)%uint64(ev.nonZero(int64(ev.get(env, in.Y)))))
	case *ir.InstAnd:
		ev.set(env, in, ev.get(env, in.X)&ev.get(env, in.Y))
	case *ir.InstOr:
		ev.set(env, in, ev.get(env, in.X)|ev.get(env, in.Y))
	case *ir.InstXor:
		ev.set(env, in, ev.get(env, in.X)^ev.get(env, in.Y))
	case *ir.InstShl:
		ev.set(env, in, ev.get(env, in.X)<<ev.get(env, in.Y))
	case *ir.InstLShr:
		ev.set(env, in, ev.get(env, in.X)>>ev.get(env, in.Y))
	case *ir.InstAShr:
		w := width(in.X.Type())
		ev.set(env, in, uint64(signed(ev.get(env, in.X), w)>>ev.get(env, in.Y)))
	case *ir.InstICmp:
		w := width(in.X.Type())
		ev.set(env, in, b2u(compare(in.Pred, ev.get(env, in.X), ev.get(env, in.Y), w)))
	case *ir.InstZExt:
		ev.set(env, in, ev.get(env, in.From))
	case *ir.InstSExt:
		ev.set(env, in, uint64(signed(ev.get(env, in.From), width(in.From.Type()))))
	case *ir.InstTrunc:
		ev.set(env, in, ev.get(env, in.From))
	case *ir.InstPhi:
		for _, inc := range in.Incs {
			if testkit.AsBlock(inc.Pred) == prev {
				ev.set(env, in, ev.get(env, inc.X))
				return
			}
		}
		ev.t.Fatalf("phi has no incoming value for the previous block")
	case *ir.InstCall:
		callee, ok := in.Callee.(*ir.Func)
		if !ok {
			ev.t.Fatalf("indirect call")
		}
		args := make([]uint64, len(in.Args))
		for i, a := range in.Args {
			args[i] = ev.get(env, a)
		}
		res := ev.call(callee, args)
		if !in.Type().Equal(irtypes.Void) {
			ev.set(env, in, res)
		}
	default:
		ev.t.Fatalf("evaluator does not support %T", inst)
	}
}

func (ev *evaluator) set(env map[value.Value]uint64, v value.Value, x uint64) {
	env[v] = x & mask(v.Type())
}

func (ev *evaluator) nonZero(x int64) int64 {
	ev.t.Helper()
	if x == 0 {
		ev.t.Fatalf("division by zero")
	}
	return x
}

func width(t irtypes.Type) uint64 {
	it, ok := t.(*irtypes.IntType)
	if !ok {
		return 64
	}
	return it.BitSize
}

func mask(t irtypes.Type) uint64 {
	w := width(t)
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

func signed(x, w uint64) int64 {
	if w >= 64 {
		return int64(x)
	}
	shift := 64 - w
	return int64(x<<shift) >> shift
}

func compare(pred enum.IPred, x, y, w uint64) bool {
	sx, sy := signed(x, w), signed(y, w)
	switch pred {
	case enum.IPredEQ:
		return x == y
	case enum.IPredNE:
		return x != y
	case enum.IPredSLT:
		return sx < sy
	case enum.IPredSLE:
		return sx <= sy
	case enum.IPredSGT:
		return sx > sy
	case enum.IPredSGE:
		return sx >= sy
	case enum.IPredULT:
		return x < y
	case enum.IPredULE:
		return x <= y
	case enum.IPredUGT:
		return x > y
	case enum.IPredUGE:
		return x >= y
	}
	return false
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
