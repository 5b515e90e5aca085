// Package testkit holds structural checks shared by tests of the IR backend.
package testkit

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// CheckFuncInvariants runs a minimal set of structural checks on a lowered function:
// 1) every block belongs to f, has a unique name and exactly one terminator
// 2) phi nodes only appear at the start of a block
// 3) branch targets are blocks of f
// 4) every phi incoming block is a predecessor of the phi's block
// Declarations (no blocks) trivially pass.
func CheckFuncInvariants(f *ir.Func) error {
	if f == nil {
		return fmt.Errorf("nil function")
	}
	own := make(map[*ir.Block]bool, len(f.Blocks))
	names := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Parent != f {
			return fmt.Errorf("@%s: block %s has a foreign parent", f.Name(), b.Name())
		}
		if names[b.Name()] {
			return fmt.Errorf("@%s: duplicate block name %s", f.Name(), b.Name())
		}
		names[b.Name()] = true
		own[b] = true
		if b.Term == nil {
			return fmt.Errorf("@%s: block %s has no terminator", f.Name(), b.Name())
		}
	}

	preds := make(map[*ir.Block]map[*ir.Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		for _, succ := range Successors(b) {
			if !own[succ] {
				return fmt.Errorf("@%s: block %s branches outside the function", f.Name(), b.Name())
			}
			if preds[succ] == nil {
				preds[succ] = make(map[*ir.Block]bool)
			}
			preds[succ][b] = true
		}
	}

	for _, b := range f.Blocks {
		seenOther := false
		for _, inst := range b.Insts {
			phi, ok := inst.(*ir.InstPhi)
			if !ok {
				seenOther = true
				continue
			}
			if seenOther {
				return fmt.Errorf("@%s: phi after a non-phi instruction in %s", f.Name(), b.Name())
			}
			for _, inc := range phi.Incs {
				pred := AsBlock(inc.Pred)
				if pred == nil || !preds[b][pred] {
					return fmt.Errorf("@%s: phi in %s names a block that is not a predecessor", f.Name(), b.Name())
				}
			}
		}
	}
	return nil
}

// CheckModuleInvariants runs CheckFuncInvariants on every function of m.
func CheckModuleInvariants(m *ir.Module) error {
	for _, f := range m.Funcs {
		if err := CheckFuncInvariants(f); err != nil {
			return err
		}
	}
	return nil
}

// Successors returns the blocks b may branch to.
func Successors(b *ir.Block) []*ir.Block {
	switch term := b.Term.(type) {
	case *ir.TermBr:
		return []*ir.Block{AsBlock(term.Target)}
	case *ir.TermCondBr:
		return []*ir.Block{AsBlock(term.TargetTrue), AsBlock(term.TargetFalse)}
	}
	return nil
}

// AsBlock returns v as a basic block or nil.
func AsBlock(v value.Value) *ir.Block {
	b, _ := v.(*ir.Block)
	return b
}
