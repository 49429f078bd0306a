package regalloc

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/vasm"
)

// AllocatedRegister is the post-allocation counterpart of
// vasm.VirtualRegister (spec §3): either one of the VM's bounded physical
// general-purpose registers, or (unchanged) one of its architectural
// constant registers.
type AllocatedRegister struct {
	Allocated bool
	Index     int // physical register index, valid when Allocated
	Const     vasm.ConstReg
}

func (r AllocatedRegister) String() string {
	if r.Allocated {
		return fmt.Sprintf("$r%d", r.Index)
	}
	return "$" + r.Const.String()
}

// AllocatedFunction is fn's op list with every VirtualRegister rewritten to
// an AllocatedRegister (spec §4.7 step 6 "Rewrite").
type AllocatedFunction struct {
	Name     string
	IsEntry  bool
	Selector *[4]byte
	Ops      []vasm.Op
	Alloc    []AllocatedReg
}

// AllocatedReg mirrors vasm.VOp's register fields but with AllocatedRegister
// payloads, carried alongside the original Op (rather than replacing
// vasm.Op's VirtualRegister fields in place) so codegen can still read
// opcode/immediate/span/comment straight off the original Op.
type AllocatedReg struct {
	Dst, Src1, Src2 AllocatedRegister
	Extra           []AllocatedRegister
}

const maxSpillRounds = 8

// Allocate runs liveness, interference, coalescing, and simplify/select
// spilling to a fixed point (spec §4.7), returning fn rewritten onto k
// physical registers. k defaults to vasm.TotalPhysicalRegisters minus the
// reserved constant-register block when k<=0.
func Allocate(fn *vasm.Function, k int) (*AllocatedFunction, error) {
	if k <= 0 {
		k = vasm.TotalPhysicalRegisters - vasm.NumConstRegs
	}
	ops := append([]vasm.Op(nil), fn.Ops...)

	var uf *unionFind
	var ig *Graph
	for round := 0; ; round++ {
		n := maxVirtualId(ops)
		live := computeLiveness(ops)
		g := buildInterference(ops, live, n)

		var coalescedUF *unionFind
		coalescedUF, ig = coalesce(g, k)

		reps := make(map[int]bool)
		for id := 0; id < n; id++ {
			reps[coalescedUF.find(id)] = true
		}
		var candidates []int
		for id := range reps {
			candidates = append(candidates, id)
		}

		res := colorGraph(ig, candidates, k)
		uf = coalescedUF

		if len(res.spills) == 0 {
			return finalizeAllocation(fn, ops, uf, res, k)
		}
		if round >= maxSpillRounds {
			return nil, fmt.Errorf("regalloc: CG003 failed to find a spill-free coloring for %s after %d rounds", fn.Name, maxSpillRounds)
		}
		ops = insertSpillCode(ops, uf, res.spills)
	}
}

// insertSpillCode rewrites every def/use of a spilled representative id
// into a store-after-def / load-before-use through a fresh stack slot
// (spec §4.7 step 5 "inserting reload/spill code in a scratch pass"),
// producing a new op list the allocator restarts over.
func insertSpillCode(ops []vasm.Op, uf *unionFind, spills map[int]bool) []vasm.Op {
	slot := map[int]int{}
	nextSlot := 0
	slotOf := func(rep int) int {
		if s, ok := slot[rep]; ok {
			return s
		}
		s := nextSlot
		nextSlot++
		slot[rep] = s
		return s
	}

	nextVirt := maxVirtualId(ops)
	freshVirt := func() vasm.VirtualRegister {
		r := vasm.Virtual(nextVirt)
		nextVirt++
		return r
	}

	cfeiIdx := -1
	baseFrame := uint64(0)
	for i, o := range ops {
		if o.Class == vasm.ClassVirtual && o.Virtual.Kind == vasm.VCfei {
			cfeiIdx = i
			baseFrame = o.Virtual.Imm
			break
		}
	}
	extraBytes := uint64(0)

	var out []vasm.Op
	var rewriteUse func(r vasm.VirtualRegister) vasm.VirtualRegister
	rewriteUse = func(r vasm.VirtualRegister) vasm.VirtualRegister {
		if r.Kind != vasm.RVirtual || r.IsNone() {
			return r
		}
		rep := uf.find(r.Id)
		if !spills[rep] {
			return r
		}
		s := slotOf(rep)
		if uint64(s+1)*8 > extraBytes {
			extraBytes = uint64(s+1) * 8
		}
		fresh := freshVirt()
		out = append(out, vasm.Op{Class: vasm.ClassVirtual, Virtual: vasm.VOp{
			Kind: vasm.VLW, Dst: fresh, Src1: vasm.ConstantReg(vasm.RegFp), Imm: baseFrame + uint64(s)*8, HasImm: true,
		}})
		return fresh
	}

	for i, o := range ops {
		if i == cfeiIdx {
			out = append(out, o) // patched below once extraBytes is known
			continue
		}
		if o.Class != vasm.ClassVirtual {
			if o.Class == vasm.ClassOrganizational && o.Org.Kind == vasm.OJumpIfNotEq {
				org := o.Org
				org.R1 = rewriteUse(org.R1)
				org.R2 = rewriteUse(org.R2)
				out = append(out, vasm.Op{Class: vasm.ClassOrganizational, Org: org, Span: o.Span, Comment: o.Comment})
				continue
			}
			out = append(out, o)
			continue
		}
		v := o.Virtual

		v.Src1 = rewriteUse(v.Src1)
		v.Src2 = rewriteUse(v.Src2)
		if len(v.Extra) > 0 {
			v.Extra = append([]vasm.VirtualRegister(nil), v.Extra...)
			for j, e := range v.Extra {
				v.Extra[j] = rewriteUse(e)
			}
		}

		def, hasDef, _ := defUse(v)
		var storeAfter *vasm.Op
		if hasDef {
			rep := uf.find(def)
			if spills[rep] {
				s := slotOf(rep)
				if uint64(s+1)*8 > extraBytes {
					extraBytes = uint64(s+1) * 8
				}
				fresh := freshVirt()
				v.Dst = fresh
				storeAfter = &vasm.Op{Class: vasm.ClassVirtual, Virtual: vasm.VOp{
					Kind: vasm.VSW, Src1: vasm.ConstantReg(vasm.RegFp), Src2: fresh, Imm: baseFrame + uint64(s)*8, HasImm: true,
				}}
			}
		}

		out = append(out, vasm.Op{Class: vasm.ClassVirtual, Virtual: v, Span: o.Span, Comment: o.Comment})
		if storeAfter != nil {
			out = append(out, *storeAfter)
		}
	}

	if cfeiIdx >= 0 {
		out[cfeiIdx].Virtual.Imm += extraBytes
	} else if extraBytes > 0 {
		prologue := vasm.Op{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VCfei, Imm: extraBytes, HasImm: true}}
		out = append([]vasm.Op{out[0], prologue}, out[1:]...)
	}
	return out
}

func finalizeAllocation(fn *vasm.Function, ops []vasm.Op, uf *unionFind, res *colorResult, k int) (*AllocatedFunction, error) {
	resolve := func(r vasm.VirtualRegister) AllocatedRegister {
		if r.Kind == vasm.RConstant {
			return AllocatedRegister{Const: r.Const}
		}
		if r.IsNone() {
			return AllocatedRegister{}
		}
		rep := uf.find(r.Id)
		c, ok := res.color[rep]
		if !ok {
			c = 0
		}
		return AllocatedRegister{Allocated: true, Index: c + vasm.NumConstRegs}
	}

	out := &AllocatedFunction{Name: fn.Name, IsEntry: fn.IsEntry, Selector: fn.Selector, Ops: ops}
	out.Alloc = make([]AllocatedReg, len(ops))
	for i, o := range ops {
		if o.Class != vasm.ClassVirtual {
			// OJumpIfNotEq is the only organizational op carrying register
			// operands; resolve them into the same slot so codegen never
			// has to re-derive a VirtualRegister's physical home.
			if o.Class == vasm.ClassOrganizational && o.Org.Kind == vasm.OJumpIfNotEq {
				out.Alloc[i] = AllocatedReg{Src1: resolve(o.Org.R1), Src2: resolve(o.Org.R2)}
			}
			continue
		}
		ar := AllocatedReg{Dst: resolve(o.Virtual.Dst), Src1: resolve(o.Virtual.Src1), Src2: resolve(o.Virtual.Src2)}
		for _, e := range o.Virtual.Extra {
			ar.Extra = append(ar.Extra, resolve(e))
		}
		out.Alloc[i] = ar
	}
	return out, nil
}
