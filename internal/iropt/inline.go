package iropt

import "github.com/fuellabs-lite/swayc/internal/ir"

// Inline splices small, straight-line, side-effect-free-on-locals callees
// directly into their call sites. To keep the pass correct without having
// to merge two functions' Locals tables, only a conservative subset of
// callees is eligible: a single block, terminated by Ret, containing no
// GetLocal (so no Locals-table entries need renumbering) and no nested
// Call/ContractCall (so a call graph / recursion check isn't needed beyond
// "not calling itself").
func Inline(m *ir.Module) {
	byName := make(map[string]*ir.Function, len(m.Functions))
	for _, f := range m.Functions {
		byName[f.Name] = f
	}
	for _, f := range m.Functions {
		inlineCallsIn(f, byName)
	}
}

func inlineCallsIn(f *ir.Function, byName map[string]*ir.Function) {
	for _, b := range f.Blocks {
		for {
			idx, callee := findInlinableCall(f, b, byName)
			if callee == nil {
				break
			}
			inlineCallAt(f, b, idx, callee)
		}
	}
}

func findInlinableCall(f *ir.Function, b *ir.Block, byName map[string]*ir.Function) (int, *ir.Function) {
	for i, instr := range b.Instructions {
		if instr.Op.Kind != ir.ICall {
			continue
		}
		callee, ok := byName[instr.Op.Callee]
		if !ok || callee.Name == f.Name || !isInlinable(callee) {
			continue
		}
		return i, callee
	}
	return 0, nil
}

func isInlinable(callee *ir.Function) bool {
	if len(callee.Blocks) != 1 || len(callee.Locals) != 0 {
		return false
	}
	body := callee.Blocks[0].Instructions
	if len(body) == 0 || body[len(body)-1].Op.Kind != ir.IRet {
		return false
	}
	for _, instr := range body[:len(body)-1] {
		if instr.Op.Kind == ir.ICall || instr.Op.Kind == ir.IContractCall || instr.Op.Kind == ir.IGetLocal {
			return false
		}
	}
	return true
}

// inlineCallAt replaces the call instruction at b.Instructions[idx] with a
// fresh copy of callee's body, remapping callee params to the call's
// argument values and every use of the call's own result to the callee's
// returned value.
func inlineCallAt(f *ir.Function, b *ir.Block, idx int, callee *ir.Function) {
	call := b.Instructions[idx]
	valueMap := map[ir.ValueId]ir.Value{}
	for i, p := range callee.Params {
		if i < len(call.Op.CallArgs) {
			valueMap[p.Id] = call.Op.CallArgs[i]
		}
	}

	body := callee.Blocks[0].Instructions
	cloned := make([]*ir.Instruction, 0, len(body)-1)
	for _, cinstr := range body[:len(body)-1] {
		remapped := rewriteOp(cinstr.Op, valueMap)
		resultType := ir.Type{Kind: ir.KInvalid}
		if cinstr.HasResult {
			resultType = cinstr.Result.Type
		}
		newInstr := f.Emit(b, remapped, resultType)
		cloned = append(cloned, newInstr)
		_ = newInstr
		if cinstr.HasResult {
			valueMap[cinstr.Result.Id] = newInstr.Result
		}
	}

	retOp := rewriteOp(body[len(body)-1].Op, valueMap)
	retVal := retOp.RetVal

	head := append([]*ir.Instruction{}, b.Instructions[:idx]...)
	tail := append([]*ir.Instruction{}, b.Instructions[idx+1:]...)
	b.Instructions = append(append(head, cloned...), tail...)

	if call.HasResult {
		replaceValueInFunction(f, call.Result.Id, retVal)
	}
}

// replaceValueInFunction rewrites every remaining use of oldId to newVal
// across every block of f (the call result may be consumed by a later
// block, not just the one it was spliced into).
func replaceValueInFunction(f *ir.Function, oldId ir.ValueId, newVal ir.Value) {
	m := map[ir.ValueId]ir.Value{oldId: newVal}
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			instr.Op = rewriteOp(instr.Op, m)
		}
	}
}

// rewriteOp returns a copy of op with every Value operand passed through
// remap (values with no entry in m pass through unchanged). Mirrors
// operandsOf's coverage of instruction kinds, plus the terminators
// operandsOf also walks (Branch/ConditionalBranch/Ret/Retd), since inlining
// needs to rewrite those too.
func rewriteOp(op ir.InstOp, m map[ir.ValueId]ir.Value) ir.InstOp {
	rv := func(v ir.Value) ir.Value {
		if nv, ok := m[v.Id]; ok {
			return nv
		}
		return v
	}
	switch op.Kind {
	case ir.IBitCast, ir.ICastPtr, ir.IIntToPtr, ir.IPtrToInt:
		op.Operand = rv(op.Operand)
	case ir.IUnaryOp:
		op.Operand = rv(op.Operand)
	case ir.IWideUnaryOp:
		op.Operand = rv(op.Operand)
	case ir.IBinaryOp, ir.IWideBinaryOp:
		op.Lhs = rv(op.Lhs)
		op.Rhs = rv(op.Rhs)
	case ir.IWideModularOp:
		op.Lhs = rv(op.Lhs)
		op.Rhs = rv(op.Rhs)
		op.WideRhs2 = rv(op.WideRhs2)
	case ir.ICmp, ir.IWideCmpOp:
		op.CmpLhs = rv(op.CmpLhs)
		op.CmpRhs = rv(op.CmpRhs)
	case ir.IBranch:
		args := make([]ir.Value, len(op.BranchArgs))
		for i, v := range op.BranchArgs {
			args[i] = rv(v)
		}
		op.BranchArgs = args
	case ir.IConditionalBranch:
		op.Cond = rv(op.Cond)
		trueArgs := make([]ir.Value, len(op.TrueArgs))
		for i, v := range op.TrueArgs {
			trueArgs[i] = rv(v)
		}
		op.TrueArgs = trueArgs
		falseArgs := make([]ir.Value, len(op.FalseArgs))
		for i, v := range op.FalseArgs {
			falseArgs[i] = rv(v)
		}
		op.FalseArgs = falseArgs
	case ir.ICall:
		args := make([]ir.Value, len(op.CallArgs))
		for i, v := range op.CallArgs {
			args[i] = rv(v)
		}
		op.CallArgs = args
	case ir.IContractCall:
		op.ContractCallParams.Params = rv(op.ContractCallParams.Params)
		op.ContractCallParams.Coins = rv(op.ContractCallParams.Coins)
		op.ContractCallParams.AssetId = rv(op.ContractCallParams.AssetId)
		op.ContractCallParams.Gas = rv(op.ContractCallParams.Gas)
	case ir.IGetElemPtr:
		op.BasePtr = rv(op.BasePtr)
		idxs := make([]ir.Value, len(op.Indices))
		for i, v := range op.Indices {
			idxs[i] = rv(v)
		}
		op.Indices = idxs
	case ir.ILoad:
		op.LoadPtr = rv(op.LoadPtr)
	case ir.IStore:
		op.StorePtr = rv(op.StorePtr)
		op.StoreVal = rv(op.StoreVal)
	case ir.IMemCopyBytes, ir.IMemCopyVal, ir.IMemClearVal:
		op.Dst = rv(op.Dst)
		op.Src = rv(op.Src)
	case ir.IRet:
		op.RetVal = rv(op.RetVal)
	case ir.IRetd:
		op.RetdPtr = rv(op.RetdPtr)
		op.RetdLen = rv(op.RetdLen)
	case ir.IGtf:
		op.GtfIndex = rv(op.GtfIndex)
	case ir.ILog:
		op.LogVal = rv(op.LogVal)
		op.LogId = rv(op.LogId)
	case ir.ISmo:
		op.SmoRecipient = rv(op.SmoRecipient)
		op.SmoMsgData = rv(op.SmoMsgData)
		op.SmoMsgLen = rv(op.SmoMsgLen)
		op.SmoCoins = rv(op.SmoCoins)
	case ir.IStateLoadQuadWord, ir.IStateLoadWord:
		op.StateKey = rv(op.StateKey)
		op.StateDst = rv(op.StateDst)
	case ir.IStateStoreQuadWord, ir.IStateStoreWord:
		op.StateKey = rv(op.StateKey)
		op.StateVal = rv(op.StateVal)
	case ir.IStateClear:
		op.StateKey = rv(op.StateKey)
	case ir.IAsmBlock:
		regs := make([]ir.AsmRegister, len(op.AsmRegisters))
		for i, r := range op.AsmRegisters {
			if r.HasInit {
				r.Init = rv(r.Init)
			}
			regs[i] = r
		}
		op.AsmRegisters = regs
	}
	return op
}
