package iropt

import "github.com/fuellabs-lite/swayc/internal/ir"

// sideEffecting reports whether an instruction must be kept even if its
// result is unused (stores, calls, contract calls, logs, state writes, and
// every terminator all have effects beyond their result value).
func sideEffecting(op ir.InstOp) bool {
	switch op.Kind {
	case ir.IStore, ir.ICall, ir.IContractCall, ir.ILog, ir.ISmo,
		ir.IStateClear, ir.IStateStoreQuadWord, ir.IStateStoreWord,
		ir.IMemCopyBytes, ir.IMemCopyVal, ir.IMemClearVal,
		ir.IBranch, ir.IConditionalBranch, ir.IRet, ir.IRetd, ir.IRevert, ir.IJmpMem,
		ir.IAsmBlock:
		return true
	}
	return false
}

// DCE removes instructions whose result is never referenced and that carry
// no side effect, iterating to a fixed point since removing one dead
// instruction can make an operand of it dead in turn.
func DCE(f *ir.Function) {
	for {
		used := usedValues(f)
		removedAny := false
		for _, b := range f.Blocks {
			kept := b.Instructions[:0]
			for _, instr := range b.Instructions {
				if instr.HasResult && !sideEffecting(instr.Op) && !used[instr.Result.Id] {
					removedAny = true
					continue
				}
				kept = append(kept, instr)
			}
			b.Instructions = kept
		}
		if !removedAny {
			return
		}
	}
}

func usedValues(f *ir.Function) map[ir.ValueId]bool {
	used := make(map[ir.ValueId]bool)
	mark := func(v ir.Value) { used[v.Id] = true }
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			op := instr.Op
			for _, v := range operandsOf(op) {
				mark(v)
			}
		}
	}
	return used
}

// operandsOf returns every Value an instruction reads, used by both DCE's
// liveness pass and (eventually) internal/regalloc's interference analysis.
func operandsOf(op ir.InstOp) []ir.Value {
	var vs []ir.Value
	add := func(v ir.Value) { vs = append(vs, v) }
	switch op.Kind {
	case ir.IBitCast, ir.ICastPtr, ir.IIntToPtr, ir.IPtrToInt:
		add(op.Operand)
	case ir.IUnaryOp, ir.IWideUnaryOp:
		add(op.Operand)
	case ir.IBinaryOp, ir.IWideBinaryOp:
		add(op.Lhs)
		add(op.Rhs)
	case ir.IWideModularOp:
		add(op.Lhs)
		add(op.Rhs)
		add(op.WideRhs2)
	case ir.ICmp, ir.IWideCmpOp:
		add(op.CmpLhs)
		add(op.CmpRhs)
	case ir.IBranch:
		vs = append(vs, op.BranchArgs...)
	case ir.IConditionalBranch:
		add(op.Cond)
		vs = append(vs, op.TrueArgs...)
		vs = append(vs, op.FalseArgs...)
	case ir.ICall:
		vs = append(vs, op.CallArgs...)
	case ir.IContractCall:
		add(op.ContractCallParams.Params)
		add(op.ContractCallParams.Coins)
		add(op.ContractCallParams.AssetId)
		add(op.ContractCallParams.Gas)
	case ir.IGetElemPtr:
		add(op.BasePtr)
		vs = append(vs, op.Indices...)
	case ir.ILoad:
		add(op.LoadPtr)
	case ir.IStore:
		add(op.StorePtr)
		add(op.StoreVal)
	case ir.IMemCopyBytes, ir.IMemCopyVal, ir.IMemClearVal:
		add(op.Dst)
		add(op.Src)
	case ir.IRet:
		add(op.RetVal)
	case ir.IRetd:
		add(op.RetdPtr)
		add(op.RetdLen)
	case ir.IGtf:
		add(op.GtfIndex)
	case ir.ILog:
		add(op.LogVal)
		add(op.LogId)
	case ir.ISmo:
		add(op.SmoRecipient)
		add(op.SmoMsgData)
		add(op.SmoMsgLen)
		add(op.SmoCoins)
	case ir.IStateLoadQuadWord, ir.IStateLoadWord:
		add(op.StateKey)
		add(op.StateDst)
	case ir.IStateStoreQuadWord, ir.IStateStoreWord:
		add(op.StateKey)
		add(op.StateVal)
	case ir.IStateClear:
		add(op.StateKey)
	case ir.IAsmBlock:
		for _, r := range op.AsmRegisters {
			if r.HasInit {
				add(r.Init)
			}
		}
	}
	return vs
}
