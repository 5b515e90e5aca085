package llvm

import (
	"slices"
	"testing"

	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"
)

func newTestCursor(reserved ...string) *cursor {
	m := ir.NewModule()
	return newCursor(m.NewFunc("f", irtypes.Void), reserved...)
}

func TestCursorBlockNames(t *testing.T) {
	c := newTestCursor("x")
	var got []string
	for _, base := range []string{"if.then", "if.then", "x", "if.then"} {
		got = append(got, c.newBlock(base).Name())
	}
	want := []string{"if.then", "if.then1", "x1", "if.then2"}
	if !slices.Equal(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestCursorAttachesOnPosition(t *testing.T) {
	c := newTestCursor()
	a, b := c.newBlock("a"), c.newBlock("b")
	if len(c.fn.Blocks) != 0 {
		t.Fatalf("new blocks must start detached")
	}
	c.positionAt(b)
	c.positionAt(a)
	c.positionAt(b)
	if got := blockNames(c.fn); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("blocks = %v", got)
	}
	if !c.reachable() {
		t.Fatalf("fresh block must be reachable")
	}
	c.ret(nil)
	if c.reachable() {
		t.Fatalf("terminated block must not be reachable")
	}
}

func TestCursorPanicsWithoutInsertionPoint(t *testing.T) {
	c := newTestCursor()
	c.positionAt(c.newBlock("entry"))
	c.ret(nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when building into a terminated block")
		}
	}()
	c.ret(nil)
}

func TestCursorUnreachable(t *testing.T) {
	c := newTestCursor()
	c.setUnreachable()
	if c.reachable() {
		t.Fatalf("cursor without block must be unreachable")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic without insertion point")
		}
	}()
	c.block()
}
