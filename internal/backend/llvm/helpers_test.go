package llvm

import (
	"context"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"

	"ccgen/internal/ast"
	"ccgen/internal/source"
	"ccgen/internal/testkit"
	"ccgen/internal/types"
)

// unit builds small trees for lowering tests.
type unit struct {
	tree *ast.Tree
	in   *types.Interner
	b    types.Builtins
	line uint32
}

func newUnit() *unit {
	in := types.NewInterner()
	return &unit{tree: ast.NewTree(in), in: in, b: in.Builtins()}
}

func (u *unit) loc() source.Loc {
	u.line++
	return source.Loc{File: 1, Line: u.line, Col: 1}
}

func (u *unit) sig(ret types.TypeID, params ...types.TypeID) types.TypeID {
	return u.in.RegisterFn(params, ret, false)
}

func (u *unit) varSig(ret types.TypeID, params ...types.TypeID) types.TypeID {
	return u.in.RegisterFn(params, ret, true)
}

func (u *unit) lit(v int64) ast.NodeID { return u.tree.NewIntLit(u.loc(), v) }

func (u *unit) flit(v float64, double bool) ast.NodeID {
	return u.tree.NewFloatLit(u.loc(), v, double)
}

func (u *unit) id(name string) ast.NodeID { return u.tree.NewIdent(u.loc(), name) }

func (u *unit) bin(op ast.BinaryOp, lhs, rhs ast.NodeID) ast.NodeID {
	return u.tree.NewBinary(u.loc(), op, lhs, rhs)
}

func (u *unit) ret(v ast.NodeID) ast.NodeID { return u.tree.NewReturn(u.loc(), v) }

func (u *unit) block(stmts ...ast.NodeID) ast.NodeID { return u.tree.NewBlock(u.loc(), stmts...) }

func (u *unit) call(callee string, args ...ast.NodeID) ast.NodeID {
	return u.tree.NewCall(u.loc(), callee, args...)
}

func (u *unit) ifElse(cond, then, els ast.NodeID) ast.NodeID {
	return u.tree.NewIf(u.loc(), cond, then, els)
}

func (u *unit) while(cond, body ast.NodeID) ast.NodeID {
	return u.tree.NewWhile(u.loc(), cond, body)
}

// def adds a top-level function; body NoNodeID makes it a prototype.
func (u *unit) def(name string, sig types.TypeID, params []string, body ast.NodeID) ast.NodeID {
	id := u.tree.NewFuncDef(u.loc(), name, sig, params, body)
	u.tree.AddDecl(id)
	return id
}

// lowerUnit runs a fresh session over u and returns it with the rendered text.
// Every emitted function is checked for structural invariants.
func lowerUnit(t *testing.T, u *unit, opts Options) (*Session, string) {
	t.Helper()
	s := NewSession("unit.c", opts)
	if err := s.Run(context.Background(), u.tree); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range s.Funcs() {
		if err := testkit.CheckFuncInvariants(f); err != nil {
			t.Fatalf("invariants: %v", err)
		}
	}
	out, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return s, out.String()
}

// lowerErr runs a session expected to fail and returns the error.
func lowerErr(t *testing.T, u *unit, opts Options) error {
	t.Helper()
	s := NewSession("unit.c", opts)
	err := s.Run(context.Background(), u.tree)
	if err == nil {
		t.Fatalf("expected Run to fail")
	}
	return err
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s, got %v", kind, err)
	}
}

func mustContain(t *testing.T, text string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(text, p) {
			t.Fatalf("expected %q in:\n%s", p, text)
		}
	}
}

func funcNamed(t *testing.T, s *Session, name string) *ir.Func {
	t.Helper()
	for _, f := range s.Funcs() {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("function @%s not emitted", name)
	return nil
}

func blockNames(f *ir.Func) []string {
	names := make([]string, len(f.Blocks))
	for i, b := range f.Blocks {
		names[i] = b.Name()
	}
	return names
}
