// Package iropt runs the fixed sequence of IR optimization and validation
// passes between lowering and virtual-assembly generation (spec §4.5 "IR
// optimization pipeline has a fixed pass order").
package iropt

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ir"
)

// Pipeline runs the fixed optimization order: mem2reg, constant folding and
// dead-code elimination per function, then inlining across the module, then
// simplify-CFG per function, finishing with validation. No separate
// dominator step runs, since none of these passes reads the dominator tree
// (internal/ir/dominators.go). Passes never reorder relative to each other —
// each one assumes the invariants the previous passes established (spec §4.5).
func Pipeline(m *ir.Module) error {
	for _, f := range m.Functions {
		Mem2Reg(f)
		ConstantFold(f)
		DCE(f)
	}
	Inline(m)
	for _, f := range m.Functions {
		SimplifyCFG(f)
	}
	return Validate(m)
}

// Validate walks every function checking the ICE-level invariants the rest
// of the compiler assumes hold after optimization (spec §4.5, errors
// IR001-IR005): exactly one terminator per block, and block-argument arity
// matching every branch's argument list. It does not check whether a value
// is referenced from an unreachable block.
func Validate(m *ir.Module) error {
	for _, f := range m.Functions {
		if err := validateFunction(f); err != nil {
			return fmt.Errorf("ir validation failed in %s: %w", f.Name, err)
		}
	}
	return nil
}

func validateFunction(f *ir.Function) error {
	for _, b := range f.Blocks {
		if err := validateBlockTerminator(b); err != nil {
			return err
		}
	}
	if err := validateBranchArity(f); err != nil {
		return err
	}
	return nil
}

func validateBlockTerminator(b *ir.Block) error {
	if len(b.Instructions) == 0 {
		return fmt.Errorf("block %q has no instructions (IR001: missing terminator)", b.Label)
	}
	for i, instr := range b.Instructions {
		isLast := i == len(b.Instructions)-1
		if instr.Op.IsTerminator() && !isLast {
			return fmt.Errorf("block %q has a terminator before its last instruction (IR001)", b.Label)
		}
		if isLast && !instr.Op.IsTerminator() {
			return fmt.Errorf("block %q does not end in a terminator (IR001)", b.Label)
		}
	}
	return nil
}

func validateBranchArity(f *ir.Function) error {
	byId := make(map[ir.BlockId]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		byId[b.Id] = b
	}
	for _, b := range f.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}
		term := b.Instructions[len(b.Instructions)-1].Op
		switch term.Kind {
		case ir.IBranch:
			if target, ok := byId[term.Target]; ok && len(term.BranchArgs) != len(target.Args) {
				return fmt.Errorf("branch to block %q passes %d args, block expects %d (IR003)",
					target.Label, len(term.BranchArgs), len(target.Args))
			}
		case ir.IConditionalBranch:
			if tb, ok := byId[term.TrueBlock]; ok && len(term.TrueArgs) != len(tb.Args) {
				return fmt.Errorf("true-branch to block %q passes %d args, block expects %d (IR003)",
					tb.Label, len(term.TrueArgs), len(tb.Args))
			}
			if fb, ok := byId[term.FalseBlock]; ok && len(term.FalseArgs) != len(fb.Args) {
				return fmt.Errorf("false-branch to block %q passes %d args, block expects %d (IR003)",
					fb.Label, len(term.FalseArgs), len(fb.Args))
			}
		}
	}
	return nil
}
