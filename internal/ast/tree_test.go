package ast

import (
	"testing"

	"ccgen/internal/source"
)

func TestTreeConstructorsRoundTrip(t *testing.T) {
	tr := NewTree(nil)
	b := tr.Types.Builtins()
	sig := tr.Types.RegisterFn(nil, b.Int, false)

	one := tr.NewIntLit(source.Loc{Line: 1, Col: 10}, 1)
	two := tr.NewIntLit(source.Loc{Line: 1, Col: 14}, 2)
	sum := tr.NewBinary(source.Loc{Line: 1, Col: 12}, OpAdd, one, two)
	ret := tr.NewReturn(source.Loc{Line: 1, Col: 3}, sum)
	body := tr.NewBlock(source.Loc{Line: 1, Col: 1}, ret)
	fn := tr.NewFuncDef(source.Loc{Line: 1, Col: 1}, "f", sig, nil, body)
	tr.AddDecl(fn)

	if len(tr.Decls) != 1 || tr.Decls[0] != fn {
		t.Fatalf("unexpected decls: %v", tr.Decls)
	}
	def := tr.FuncDef(fn)
	if def == nil || def.Name != "f" || def.Body != body {
		t.Fatalf("unexpected func def: %+v", def)
	}
	bin := tr.Binary(sum)
	if bin == nil || bin.Op != OpAdd || bin.LHS != one || bin.RHS != two {
		t.Fatalf("unexpected binary: %+v", bin)
	}
	if lit := tr.IntLit(two); lit == nil || lit.Value != 2 {
		t.Fatalf("unexpected literal: %+v", lit)
	}
	if tr.Node(sum).Loc.Col != 12 {
		t.Fatalf("location not preserved")
	}
}

func TestAccessorsCheckKind(t *testing.T) {
	tr := NewTree(nil)
	lit := tr.NewIntLit(source.Loc{}, 7)
	if tr.Binary(lit) != nil {
		t.Fatalf("Binary accessor must reject an integer literal node")
	}
	if tr.IntLit(NoNodeID) != nil {
		t.Fatalf("accessor must reject NoNodeID")
	}
	if tr.Node(NodeID(42)) != nil {
		t.Fatalf("out of range id must return nil")
	}
}

func TestConstructorsCopyInputSlices(t *testing.T) {
	tr := NewTree(nil)
	a := tr.NewIntLit(source.Loc{}, 1)
	stmts := []NodeID{a}
	blk := tr.NewBlock(source.Loc{}, stmts...)
	stmts[0] = NoNodeID
	if tr.Block(blk).Stmts[0] != a {
		t.Fatalf("block must not alias the caller's slice")
	}
}

func TestParseBinaryOp(t *testing.T) {
	for _, op := range []BinaryOp{OpAdd, OpShr, OpGe, OpLogicalOr} {
		got, ok := ParseBinaryOp(op.String())
		if !ok || got != op {
			t.Fatalf("ParseBinaryOp(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := ParseBinaryOp("=>"); ok {
		t.Fatalf("unknown spelling must not parse")
	}
	if !OpLt.IsComparison() || OpAdd.IsComparison() {
		t.Fatalf("IsComparison misclassifies operators")
	}
	if !OpLogicalAnd.IsLogical() || OpBitAnd.IsLogical() {
		t.Fatalf("IsLogical misclassifies operators")
	}
}
