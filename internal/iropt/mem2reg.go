package iropt

import "github.com/fuellabs-lite/swayc/internal/ir"

// Mem2Reg promotes a LocalVar to pure SSA values when it is never aliased
// (its address is never taken by anything other than GetLocal/Load/Store on
// that exact local): every Store becomes the value flowing forward, and
// every Load is replaced by the most recent preceding Store's value,
// expressed the same way ConstantFold expresses its rewrite — as a
// same-result BitCast forwarding the stored value — so downstream
// references keep working untouched.
func Mem2Reg(f *ir.Function) {
	localOfPtr := getLocalResults(f)
	promotable := promotableLocals(f, localOfPtr)
	if len(promotable) == 0 {
		return
	}
	for _, b := range f.Blocks {
		promoteBlock(b, localOfPtr, promotable)
	}
}

// getLocalResults maps the Value.Id a GetLocal instruction produces back to
// the local index it points at.
func getLocalResults(f *ir.Function) map[ir.ValueId]int {
	m := map[ir.ValueId]int{}
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			if instr.Op.Kind == ir.IGetLocal && instr.HasResult {
				m[instr.Result.Id] = instr.Op.Local
			}
		}
	}
	return m
}

// promotableLocals finds locals whose GetLocal results are only ever
// consumed as the pointer operand of a Load or a Store (never passed
// anywhere else, e.g. never handed to a Call or returned as a pointer).
func promotableLocals(f *ir.Function, localOfPtr map[ir.ValueId]int) map[int]bool {
	escapes := map[int]bool{}
	seen := map[int]bool{}
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			if local, ok := localOfPtr[instr.Result.Id]; ok && instr.HasResult {
				seen[local] = true
			}
			for _, v := range operandsOf(instr.Op) {
				local, ok := localOfPtr[v.Id]
				if !ok {
					continue
				}
				isDirectLoad := instr.Op.Kind == ir.ILoad && instr.Op.LoadPtr.Id == v.Id
				isDirectStorePtr := instr.Op.Kind == ir.IStore && instr.Op.StorePtr.Id == v.Id
				if !isDirectLoad && !isDirectStorePtr {
					escapes[local] = true
				}
			}
		}
	}
	promotable := map[int]bool{}
	for local := range seen {
		if !escapes[local] {
			promotable[local] = true
		}
	}
	return promotable
}

// promoteBlock rewrites every Load of a promotable local to a BitCast of
// the nearest preceding Store's value within the same block (a
// single-block, last-write forwarding: locals whose liveness crosses a
// block boundary are left for a later, fuller SSA-renaming pass that
// threads the value through block arguments instead).
func promoteBlock(b *ir.Block, localOfPtr map[ir.ValueId]int, promotable map[int]bool) {
	lastStore := map[int]ir.Value{}
	for _, instr := range b.Instructions {
		switch instr.Op.Kind {
		case ir.IStore:
			if local, ok := localOfPtr[instr.Op.StorePtr.Id]; ok && promotable[local] {
				lastStore[local] = instr.Op.StoreVal
			}
		case ir.ILoad:
			if local, ok := localOfPtr[instr.Op.LoadPtr.Id]; ok && promotable[local] && instr.HasResult {
				if v, ok := lastStore[local]; ok {
					instr.Op = ir.InstOp{Kind: ir.IBitCast, Operand: v, ToType: instr.Result.Type}
				}
			}
		}
	}
}
