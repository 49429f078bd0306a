package iropt

import "github.com/fuellabs-lite/swayc/internal/ir"

// SimplifyCFG removes blocks with no predecessor other than fallthrough and
// collapses a block whose sole instruction is an unconditional Branch into
// its target, the same "merge trivial jump chains" cleanup every compiler
// in this family runs after inlining/constant folding exposes dead edges.
func SimplifyCFG(f *ir.Function) {
	removeUnreachableBlocks(f)
	collapseTrivialBranches(f)
}

func removeUnreachableBlocks(f *ir.Function) {
	if len(f.Blocks) == 0 {
		return
	}
	reachable := map[ir.BlockId]bool{f.Blocks[0].Id: true}
	worklist := []ir.BlockId{f.Blocks[0].Id}
	byId := make(map[ir.BlockId]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		byId[b.Id] = b
	}
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		b := byId[id]
		if b == nil || len(b.Instructions) == 0 {
			continue
		}
		term := b.Instructions[len(b.Instructions)-1].Op
		for _, succ := range term.Successors() {
			if !reachable[succ] {
				reachable[succ] = true
				worklist = append(worklist, succ)
			}
		}
	}
	kept := f.Blocks[:0]
	for _, b := range f.Blocks {
		if reachable[b.Id] {
			kept = append(kept, b)
		}
	}
	f.Blocks = kept
}

// collapseTrivialBranches rewrites any branch whose target block contains
// only an unconditional Branch (and carries no arguments of its own) to
// jump straight to that block's own target, iterating until no more
// chains collapse.
func collapseTrivialBranches(f *ir.Function) {
	byId := make(map[ir.BlockId]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		byId[b.Id] = b
	}
	isTrivialJump := func(id ir.BlockId) (ir.BlockId, []ir.Value, bool) {
		b := byId[id]
		if b == nil || len(b.Args) != 0 || len(b.Instructions) != 1 {
			return 0, nil, false
		}
		op := b.Instructions[0].Op
		if op.Kind != ir.IBranch {
			return 0, nil, false
		}
		return op.Target, op.BranchArgs, true
	}
	for _, b := range f.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}
		term := &b.Instructions[len(b.Instructions)-1].Op
		switch term.Kind {
		case ir.IBranch:
			for {
				next, args, ok := isTrivialJump(term.Target)
				if !ok || next == b.Id {
					break
				}
				term.Target, term.BranchArgs = next, args
			}
		case ir.IConditionalBranch:
			for {
				next, args, ok := isTrivialJump(term.TrueBlock)
				if !ok || next == b.Id {
					break
				}
				term.TrueBlock, term.TrueArgs = next, args
			}
			for {
				next, args, ok := isTrivialJump(term.FalseBlock)
				if !ok || next == b.Id {
					break
				}
				term.FalseBlock, term.FalseArgs = next, args
			}
		}
	}
}
