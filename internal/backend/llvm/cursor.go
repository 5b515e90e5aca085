package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// cursor is the insertion point of one function under construction. Blocks
// are created detached and join the function the first time the cursor is
// positioned at them, so the block order follows the order of lowering.
type cursor struct {
	fn   *ir.Func
	cur  *ir.Block
	used map[string]bool
	next map[string]int
}

// newCursor creates a cursor for fn. reserved holds local names already
// taken, such as parameter names, which blocks must not reuse.
func newCursor(fn *ir.Func, reserved ...string) *cursor {
	c := &cursor{
		fn:   fn,
		used: make(map[string]bool, len(reserved)+8),
		next: make(map[string]int, 8),
	}
	for _, name := range reserved {
		if name != "" {
			c.used[name] = true
		}
	}
	return c
}

// newBlock returns a detached block named base, base1, base2, ...
func (c *cursor) newBlock(base string) *ir.Block {
	n := c.next[base]
	name := base
	if n > 0 {
		name = fmt.Sprintf("%s%d", base, n)
	}
	for c.used[name] {
		n++
		name = fmt.Sprintf("%s%d", base, n)
	}
	c.used[name] = true
	c.next[base] = n + 1
	return ir.NewBlock(name)
}

// positionAt attaches b to the function when needed and moves the cursor there.
func (c *cursor) positionAt(b *ir.Block) {
	if b.Parent == nil {
		b.Parent = c.fn
		c.fn.Blocks = append(c.fn.Blocks, b)
	}
	if b.Parent != c.fn {
		panic(fmt.Sprintf("llvm: block %s belongs to another function", b.Name()))
	}
	c.cur = b
}

// reachable reports whether instructions may be appended at the cursor.
func (c *cursor) reachable() bool {
	return c.cur != nil && c.cur.Term == nil
}

// setUnreachable drops the insertion point after control flow that never
// falls through.
func (c *cursor) setUnreachable() {
	c.cur = nil
}

// block returns the current block. Building into a terminated or missing
// block is a lowering bug.
func (c *cursor) block() *ir.Block {
	if c.cur == nil {
		panic("llvm: no insertion point")
	}
	if c.cur.Term != nil {
		panic(fmt.Sprintf("llvm: block %s is already terminated", c.cur.Name()))
	}
	return c.cur
}

func (c *cursor) br(target *ir.Block) {
	c.block().NewBr(target)
}

func (c *cursor) condBr(cond value.Value, then, els *ir.Block) {
	c.block().NewCondBr(cond, then, els)
}

// ret terminates the current block; x is nil for `ret void`.
func (c *cursor) ret(x value.Value) {
	c.block().NewRet(x)
}
