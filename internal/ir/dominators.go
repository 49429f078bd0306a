package ir

// DominatorTree is the classic iterative dominator computation over a
// Function's control-flow graph. Neither internal/iropt's passes nor
// internal/regalloc's liveness analysis use it.
type DominatorTree struct {
	idom []BlockId // idom[b] == b for the entry block
	order []BlockId // reverse postorder
}

// ComputeDominators runs the standard Cooper/Harvey/Kennedy iterative
// dominator algorithm over f's control-flow graph.
func ComputeDominators(f *Function) *DominatorTree {
	if len(f.Blocks) == 0 {
		return &DominatorTree{}
	}
	preds := computePredecessors(f)
	order := reversePostorder(f)
	postIdx := make(map[BlockId]int, len(order))
	for i, b := range order {
		postIdx[b] = i
	}

	idom := make([]BlockId, len(f.Blocks))
	undefined := BlockId(-1)
	for i := range idom {
		idom[i] = undefined
	}
	entry := order[0]
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range order[1:] {
			var newIdom BlockId = undefined
			for _, p := range preds[b] {
				if idom[p] == undefined {
					continue
				}
				if newIdom == undefined {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, postIdx, newIdom, p)
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return &DominatorTree{idom: idom, order: order}
}

func intersect(idom []BlockId, postIdx map[BlockId]int, a, b BlockId) BlockId {
	for a != b {
		for postIdx[a] > postIdx[b] {
			a = idom[a]
		}
		for postIdx[b] > postIdx[a] {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b (every path from the entry block
// to b passes through a).
func (d *DominatorTree) Dominates(a, b BlockId) bool {
	if len(d.idom) == 0 {
		return false
	}
	for b != a {
		if int(b) >= len(d.idom) || d.idom[b] == b {
			return false
		}
		b = d.idom[b]
	}
	return true
}

// ImmediateDominator returns b's immediate dominator.
func (d *DominatorTree) ImmediateDominator(b BlockId) BlockId { return d.idom[b] }

func computePredecessors(f *Function) map[BlockId][]BlockId {
	preds := make(map[BlockId][]BlockId)
	for _, b := range f.Blocks {
		if len(b.Instructions) == 0 {
			continue
		}
		term := b.Instructions[len(b.Instructions)-1]
		for _, succ := range term.Op.Successors() {
			preds[succ] = append(preds[succ], b.Id)
		}
	}
	return preds
}

func reversePostorder(f *Function) []BlockId {
	visited := make(map[BlockId]bool)
	var post []BlockId
	var visit func(BlockId)
	visit = func(b BlockId) {
		if visited[b] || int(b) >= len(f.Blocks) {
			return
		}
		visited[b] = true
		block := f.Blocks[b]
		if len(block.Instructions) > 0 {
			term := block.Instructions[len(block.Instructions)-1]
			for _, succ := range term.Op.Successors() {
				visit(succ)
			}
		}
		post = append(post, b)
	}
	visit(f.Blocks[0].Id)
	// reverse
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
