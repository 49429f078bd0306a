// Package regalloc implements the Chaitin-style graph-coloring register
// allocator (spec §4.7): liveness analysis, interference-graph
// construction, move coalescing, simplify/select with spilling, and
// rewriting a virtual-assembly function's VirtualRegisters into
// AllocatedRegisters.
package regalloc

import "github.com/fuellabs-lite/swayc/internal/vasm"

// regSet is a small bitset over virtual-register ids, sized per function.
type regSet struct {
	bits []bool
}

func newRegSet(n int) *regSet { return &regSet{bits: make([]bool, n)} }

func (s *regSet) clone() *regSet {
	c := &regSet{bits: make([]bool, len(s.bits))}
	copy(c.bits, s.bits)
	return c
}

func (s *regSet) add(id int) { s.bits[id] = true }

func (s *regSet) has(id int) bool { return s.bits[id] }

// union adds every member of o into s, reporting whether anything changed.
func (s *regSet) union(o *regSet) bool {
	changed := false
	for i, v := range o.bits {
		if v && !s.bits[i] {
			s.bits[i] = true
			changed = true
		}
	}
	return changed
}

func (s *regSet) ids() []int {
	var out []int
	for i, v := range s.bits {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// defUse reports the virtual register op defines (if any) and the virtual
// registers it uses, for liveness purposes. Constant/architectural
// registers never participate in allocation, so they are never returned
// here (spec §4.7 "nodes are virtual registers").
func defUse(op vasm.VOp) (def int, hasDef bool, uses []int) {
	collect := func(regs ...vasm.VirtualRegister) []int {
		var ids []int
		for _, r := range regs {
			if r.Kind == vasm.RVirtual && !r.IsNone() {
				ids = append(ids, r.Id)
			}
		}
		return ids
	}
	isDef := func(r vasm.VirtualRegister) (int, bool) {
		if r.Kind == vasm.RVirtual && !r.IsNone() {
			return r.Id, true
		}
		return 0, false
	}

	switch op.Kind {
	case vasm.VAdd, vasm.VSub, vasm.VMul, vasm.VDiv, vasm.VMod, vasm.VAnd, vasm.VOr,
		vasm.VXor, vasm.VLsh, vasm.VRsh, vasm.VEq, vasm.VLt, vasm.VGt:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Src1, op.Src2)
	case vasm.VNot, vasm.VMove, vasm.VLW, vasm.VLB, vasm.VGtf, vasm.VSrw:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Src1)
	case vasm.VMovi, vasm.VLWDataId, vasm.VDataSectionOffsetPlaceholder, vasm.VDataSectionRegisterLoadPlaceholder:
		def, hasDef = isDef(op.Dst)
	case vasm.VSW, vasm.VSB, vasm.VSww:
		uses = collect(op.Src1, op.Src2)
	case vasm.VCfei, vasm.VCfsi, vasm.VNoop:
		// immediate-only, no register operands
	case vasm.VMemCopy:
		uses = collect(op.Dst, op.Src1)
	case vasm.VMemClear:
		uses = collect(op.Dst)
	case vasm.VLog:
		uses = collect(op.Extra...)
	case vasm.VRet, vasm.VRvrt, vasm.VJmpMem:
		uses = collect(op.Src1)
	case vasm.VRetd:
		uses = collect(op.Src1, op.Src2)
	case vasm.VSrwq:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Src1)
	case vasm.VSwwq:
		uses = collect(op.Src1, op.Src2)
	case vasm.VScwq:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Src1)
	case vasm.VSmo:
		uses = collect(op.Extra...)
	case vasm.VCall:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Extra...)
	case vasm.VContractCall:
		def, hasDef = isDef(op.Dst)
		uses = collect(op.Extra...)
	}
	return def, hasDef, uses
}

// maxVirtualId returns one past the highest virtual-register id referenced
// anywhere in ops, used to size the per-op liveness bitsets.
func maxVirtualId(ops []vasm.Op) int {
	max := 0
	consider := func(r vasm.VirtualRegister) {
		if r.Kind == vasm.RVirtual && !r.IsNone() && r.Id+1 > max {
			max = r.Id + 1
		}
	}
	for _, o := range ops {
		if o.Class != vasm.ClassVirtual {
			if o.Class == vasm.ClassOrganizational && o.Org.Kind == vasm.OJumpIfNotEq {
				consider(o.Org.R1)
				consider(o.Org.R2)
			}
			continue
		}
		consider(o.Virtual.Dst)
		consider(o.Virtual.Src1)
		consider(o.Virtual.Src2)
		for _, e := range o.Virtual.Extra {
			consider(e)
		}
	}
	return max
}

// orgUses reports the virtual registers an organizational op reads, for
// liveness purposes (spec §4.7): only OJumpIfNotEq carries register
// operands, compared directly rather than through a VOp.
func orgUses(org vasm.OrganizationalOp) []int {
	var ids []int
	if org.Kind != vasm.OJumpIfNotEq {
		return nil
	}
	for _, r := range []vasm.VirtualRegister{org.R1, org.R2} {
		if r.Kind == vasm.RVirtual && !r.IsNone() {
			ids = append(ids, r.Id)
		}
	}
	return ids
}

// successors computes, for op index i, the set of op indices control may
// transfer to next: a label map resolves OJump/OJumpIfNotEq targets;
// VRet/VRvrt/VRetd/VJmpMem end the function (no successors); everything
// else falls through to i+1 (spec §4.7 step 1 "backward dataflow per op").
func successors(ops []vasm.Op, labels map[string]int) func(int) []int {
	return func(i int) []int {
		o := ops[i]
		if o.Class == vasm.ClassOrganizational {
			switch o.Org.Kind {
			case vasm.OJump:
				return []int{labels[o.Org.Label]}
			case vasm.OJumpIfNotEq:
				out := []int{labels[o.Org.Label]}
				if i+1 < len(ops) {
					out = append(out, i+1)
				}
				return out
			default:
				if i+1 < len(ops) {
					return []int{i + 1}
				}
				return nil
			}
		}
		switch o.Virtual.Kind {
		case vasm.VRet, vasm.VRvrt, vasm.VRetd, vasm.VJmpMem:
			return nil
		default:
			if i+1 < len(ops) {
				return []int{i + 1}
			}
			return nil
		}
	}
}

func labelIndex(ops []vasm.Op) map[string]int {
	idx := make(map[string]int)
	for i, o := range ops {
		if o.Class == vasm.ClassOrganizational && o.Org.Kind == vasm.OLabel {
			idx[o.Org.Label] = i
		}
	}
	return idx
}

// Liveness holds, for every op index, the set of virtual-register ids live
// immediately before (LiveIn) and immediately after (LiveOut) that op.
type Liveness struct {
	LiveIn  []*regSet
	LiveOut []*regSet
}

// computeLiveness runs the backward fixpoint dataflow described in spec
// §4.7 step 1: live_in = (live_out - defs) ∪ uses, live_out = union of
// successors' live_in, iterated to a fixed point over the op list.
func computeLiveness(ops []vasm.Op) *Liveness {
	n := maxVirtualId(ops)
	labels := labelIndex(ops)
	succ := successors(ops, labels)

	liveIn := make([]*regSet, len(ops))
	liveOut := make([]*regSet, len(ops))
	for i := range ops {
		liveIn[i] = newRegSet(n)
		liveOut[i] = newRegSet(n)
	}

	changed := true
	for changed {
		changed = false
		for i := len(ops) - 1; i >= 0; i-- {
			newOut := newRegSet(n)
			for _, s := range succ(i) {
				newOut.union(liveIn[s])
			}
			if !equalSets(liveOut[i], newOut) {
				liveOut[i] = newOut
				changed = true
			}

			newIn := liveOut[i].clone()
			if ops[i].Class == vasm.ClassVirtual {
				def, ok, uses := defUse(ops[i].Virtual)
				if ok {
					newIn.bits[def] = false
				}
				for _, u := range uses {
					newIn.add(u)
				}
			} else {
				for _, u := range orgUses(ops[i].Org) {
					newIn.add(u)
				}
			}
			if !equalSets(liveIn[i], newIn) {
				liveIn[i] = newIn
				changed = true
			}
		}
	}
	return &Liveness{LiveIn: liveIn, LiveOut: liveOut}
}

func equalSets(a, b *regSet) bool {
	if len(a.bits) != len(b.bits) {
		return false
	}
	for i := range a.bits {
		if a.bits[i] != b.bits[i] {
			return false
		}
	}
	return true
}
