package vasm

import (
	"encoding/binary"
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ir"
)

// maxMoviImm is the largest immediate MOVI's 18-bit field can hold (spec
// §6 "fmt1Imm18"); anything larger is interned into the data section and
// loaded via the same VLWDataId pseudo-op IGetGlobal/IGetConfig already
// use, rather than taught to MOVI itself.
const maxMoviImm = 1<<18 - 1

// Function is one compiled routine's virtual-assembly form: a flat op list
// ready for the register allocator, still addressing its operands by
// unbounded VirtualRegister ids.
type Function struct {
	Name     string
	IsEntry  bool
	Selector *[4]byte
	Ops      []Op
}

// Program is a whole module's worth of lowered functions sharing one data
// section.
type Program struct {
	Functions   []*Function
	Data        *ir.DataSection
	ConfigIndex map[string]int // configurable name -> its ir.DataSection entry index, for internal/abi's offset field
}

// Lower translates every function in m into virtual assembly, threading one
// shared, deduplicating data section through configurables, globals, and
// any oversized literal encountered along the way (spec §4.6).
func Lower(m *ir.Module) *Program {
	data := ir.NewDataSection()
	dataIndex := map[string]int{}
	configIndex := map[string]int{}
	for _, cfg := range m.Configs {
		idx := data.Intern(cfg.Init)
		dataIndex[cfg.Name] = idx
		configIndex[cfg.Name] = idx
	}
	for _, g := range m.Globals {
		dataIndex["global:"+g.Name] = data.Intern(ir.Constant{Type: g.Type, Bytes: make([]byte, g.Type.ByteSize())})
	}
	storageKeys := map[string]int{}

	prog := &Program{Data: data, ConfigIndex: configIndex}
	for _, f := range m.Functions {
		fl := newFnLowerer(f, data, dataIndex, storageKeys)
		prog.Functions = append(prog.Functions, fl.lower())
	}
	return prog
}

type fnLowerer struct {
	f           *ir.Function
	data        *ir.DataSection
	dataIndex   map[string]int
	storageKeys map[string]int

	regs         map[ir.ValueId]VirtualRegister
	nextReg      int
	localOffsets []int
	frameBytes   int

	ops []Op
}

func newFnLowerer(f *ir.Function, data *ir.DataSection, dataIndex, storageKeys map[string]int) *fnLowerer {
	return &fnLowerer{
		f: f, data: data, dataIndex: dataIndex, storageKeys: storageKeys,
		regs: map[ir.ValueId]VirtualRegister{},
	}
}

// blockLabel returns the globally unique label for block b of function f
// (globally unique because every label is prefixed by its owning function's
// mangled name).
func blockLabel(f *ir.Function, b ir.BlockId) string {
	return fmt.Sprintf("%s.b%d", f.Name, int(b))
}

// EntryLabel returns the label codegen's selector-dispatch prologue (and
// any internal Call op) jumps to for function name (spec §4.6: "contract
// entry functions are preceded by a selector-dispatch block").
func EntryLabel(name string) string {
	return name + ".entry"
}

// reg returns the virtual register holding v's value, materializing a
// standalone constant (one never produced by any instruction -- a literal
// operand interned via ir.Function.NewConstant) into a fresh register with
// a VMovi the first time it is referenced (spec §4.6 "constants... load
// via... an immediate move"); emitConstant loads a constant too large for
// MOVI's 18-bit immediate from the data section instead.
func (fl *fnLowerer) reg(v ir.Value) VirtualRegister {
	if r, ok := fl.regs[v.Id]; ok {
		return r
	}
	r := Virtual(fl.nextReg)
	fl.nextReg++
	fl.regs[v.Id] = r
	if bits, ok := fl.f.ConstantOf(v.Id); ok {
		fl.emitConstant(r, bits)
	}
	return r
}

// emitConstant materializes imm into r, either via a single MOVI when it
// fits the instruction's 18-bit immediate field or, for anything larger
// (e.g. a b256/u64 literal), via the data section.
func (fl *fnLowerer) emitConstant(r VirtualRegister, imm uint64) {
	if imm <= maxMoviImm {
		fl.emit(VOp{Kind: VMovi, Dst: r, Imm: imm, HasImm: true})
		return
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], imm)
	idx := fl.data.Intern(ir.Constant{Type: ir.Uint64, Bytes: buf[:]})
	fl.emit(VOp{Kind: VLWDataId, Dst: r, DataId: idx})
}

func (fl *fnLowerer) emit(op VOp) {
	fl.ops = append(fl.ops, Op{Class: ClassVirtual, Virtual: op})
}

func (fl *fnLowerer) emitOrg(op OrganizationalOp) {
	fl.ops = append(fl.ops, Op{Class: ClassOrganizational, Org: op})
}

func (fl *fnLowerer) lower() *Function {
	fl.layoutLocals()

	fl.emitOrg(OrganizationalOp{Kind: OLabel, Label: EntryLabel(fl.f.Name)})
	if fl.frameBytes > 0 {
		fl.emit(VOp{Kind: VCfei, Imm: uint64(fl.frameBytes), HasImm: true})
	}
	// Entry-block arguments read from the call-frame layout (spec §4.6:
	// "arguments of the entry block ... read from the VM-defined call-frame
	// layout via LW $fp, imm") rather than being produced by any instruction.
	for i, p := range fl.f.Params {
		fl.emit(VOp{Kind: VLW, Dst: fl.reg(p), Src1: ConstantReg(RegFp), Imm: uint64(i * 8), HasImm: true})
	}

	for _, b := range fl.f.Blocks {
		fl.emitOrg(OrganizationalOp{Kind: OLabel, Label: blockLabel(fl.f, b.Id)})
		for _, instr := range b.Instructions {
			fl.lowerInstruction(b, instr)
		}
	}

	return &Function{Name: fl.f.Name, IsEntry: fl.f.IsEntry, Selector: fl.f.Selector, Ops: fl.ops}
}

// layoutLocals assigns each local a byte offset in the call frame, placed
// after the (word-per-argument) incoming parameter area, word-aligned the
// same way internal/ir.DataSection aligns data-section entries.
func (fl *fnLowerer) layoutLocals() {
	offset := len(fl.f.Params) * 8
	fl.localOffsets = make([]int, len(fl.f.Locals))
	for i, l := range fl.f.Locals {
		fl.localOffsets[i] = offset
		size := l.Type.ByteSize()
		if size%8 != 0 {
			size += 8 - size%8
		}
		offset += size
	}
	fl.frameBytes = offset
}

func isWide(t ir.Type) bool {
	return t.Kind == ir.KB256 || (t.Kind == ir.KUint && t.IntBits == 256)
}

func constRegForVM(r ir.Register) ConstReg {
	switch r {
	case ir.RegOf:
		return RegOf
	case ir.RegPc:
		return RegPc
	case ir.RegSsp:
		return RegSsp
	case ir.RegSp:
		return RegSp
	case ir.RegFp:
		return RegFp
	case ir.RegHp:
		return RegHp
	case ir.RegErr:
		return RegErr
	case ir.RegGgas:
		return RegGgas
	case ir.RegCgas:
		return RegCgas
	case ir.RegBal:
		return RegBal
	case ir.RegIs:
		return RegIs
	case ir.RegRet:
		return RegRet
	case ir.RegRetl:
		return RegRetl
	default:
		return RegFlag
	}
}

func (fl *fnLowerer) storageKeyIndex(name string) int {
	if idx, ok := fl.storageKeys[name]; ok {
		return idx
	}
	idx := fl.data.Intern(ir.Constant{Type: ir.B256, Bytes: make([]byte, 32)})
	fl.storageKeys[name] = idx
	return idx
}

func (fl *fnLowerer) lowerInstruction(b *ir.Block, instr *ir.Instruction) {
	op := instr.Op
	result := func() VirtualRegister { return fl.reg(instr.Result) }

	switch op.Kind {
	case ir.IAsmBlock:
		// The asm body is carried opaquely through to codegen (spec §4.4:
		// "the body is carried opaquely to the codegen stage"); this pass
		// only threads the register initializers through and marks the spot.
		for _, r := range op.AsmRegisters {
			if r.HasInit {
				fl.emit(VOp{Kind: VMove, Dst: Virtual(fl.nextReg), Src1: fl.reg(r.Init)})
				fl.nextReg++
			}
		}
		fl.ops = append(fl.ops, Op{Class: ClassOrganizational, Org: OrganizationalOp{Kind: OComment, Text: "asm block body deferred to codegen"}})
		if instr.HasResult {
			fl.emit(VOp{Kind: VMove, Dst: result(), Src1: ConstantReg(RegZero)})
		}

	case ir.IBitCast, ir.ICastPtr, ir.IIntToPtr, ir.IPtrToInt:
		fl.emit(VOp{Kind: VMove, Dst: result(), Src1: fl.reg(op.Operand)})

	case ir.IUnaryOp:
		fl.emit(VOp{Kind: VNot, Dst: result(), Src1: fl.reg(op.Operand)})

	case ir.IBinaryOp:
		fl.emit(VOp{Kind: binOpcode(op.BinaryKind), Dst: result(), Src1: fl.reg(op.Lhs), Src2: fl.reg(op.Rhs), WideOperand: isWide(instr.Result.Type)})

	case ir.IWideBinaryOp:
		fl.emit(VOp{Kind: binOpcode(op.BinaryKind), Dst: result(), Src1: fl.reg(op.Lhs), Src2: fl.reg(op.Rhs), WideOperand: true})

	case ir.IWideModularOp:
		fl.emit(VOp{Kind: binOpcode(op.BinaryKind), Dst: result(), Src1: fl.reg(op.Lhs), Src2: fl.reg(op.Rhs), WideOperand: true, Extra: []VirtualRegister{fl.reg(op.WideRhs2)}})

	case ir.IWideUnaryOp:
		fl.emit(VOp{Kind: VNot, Dst: result(), Src1: fl.reg(op.Operand), WideOperand: true})

	case ir.ICmp:
		fl.lowerCmp(op.Pred, fl.reg(op.CmpLhs), fl.reg(op.CmpRhs), result(), false)

	case ir.IWideCmpOp:
		fl.lowerCmp(op.WideCmpPred, fl.reg(op.CmpLhs), fl.reg(op.CmpRhs), result(), true)

	case ir.ICall:
		// The callee's own entry prologue reads its parameters with
		// `LW $fp, i*8` (spec §4.6); a native CALL sets the callee's $fp
		// to the caller's $sp, so the caller writes each argument into
		// that same word layout via $sp before transferring control.
		args := make([]VirtualRegister, len(op.CallArgs))
		for i, a := range op.CallArgs {
			args[i] = fl.reg(a)
			fl.emit(VOp{Kind: VSW, Src1: ConstantReg(RegSp), Src2: args[i], Imm: uint64(i * 8), HasImm: true})
		}
		v := VOp{Kind: VCall, Dst: NoRegister(), Callee: op.Callee, Extra: args}
		fl.emit(v)
		if instr.HasResult {
			// By convention the callee leaves its result in $ret
			// (spec GLOSSARY special registers) before returning.
			fl.emit(VOp{Kind: VMove, Dst: result(), Src1: ConstantReg(RegRet)})
		}

	case ir.IContractCall:
		v := VOp{Kind: VContractCall, Dst: NoRegister(), Extra: []VirtualRegister{
			fl.reg(op.ContractCallParams.Params), fl.reg(op.ContractCallParams.Coins),
			fl.reg(op.ContractCallParams.AssetId), fl.reg(op.ContractCallParams.Gas),
		}}
		if instr.HasResult {
			v.Dst = result()
		}
		fl.emit(v)

	case ir.IGetElemPtr:
		ptr := fl.reg(op.BasePtr)
		for _, idxVal := range op.Indices {
			if bits, ok := fl.f.ConstantOf(idxVal.Id); ok {
				next := Virtual(fl.nextReg)
				fl.nextReg++
				fl.emit(VOp{Kind: VAdd, Dst: next, Src1: ptr, Imm: bits * uint64(op.ElemType.ByteSize()), HasImm: true})
				ptr = next
				continue
			}
			scale := Virtual(fl.nextReg)
			fl.nextReg++
			fl.emit(VOp{Kind: VMovi, Dst: scale, Imm: uint64(op.ElemType.ByteSize()), HasImm: true})
			scaled := Virtual(fl.nextReg)
			fl.nextReg++
			fl.emit(VOp{Kind: VMul, Dst: scaled, Src1: fl.reg(idxVal), Src2: scale})
			next := Virtual(fl.nextReg)
			fl.nextReg++
			fl.emit(VOp{Kind: VAdd, Dst: next, Src1: ptr, Src2: scaled})
			ptr = next
		}
		fl.emit(VOp{Kind: VMove, Dst: result(), Src1: ptr})

	case ir.IGetLocal:
		fl.emit(VOp{Kind: VAdd, Dst: result(), Src1: ConstantReg(RegFp), Imm: uint64(fl.localOffsets[op.Local]), HasImm: true})

	case ir.IGetGlobal:
		fl.emit(VOp{Kind: VLWDataId, Dst: result(), DataId: fl.dataIndex["global:"+op.GlobalName]})

	case ir.IGetConfig:
		fl.emit(VOp{Kind: VLWDataId, Dst: result(), DataId: fl.dataIndex[op.GlobalName]})

	case ir.IGetStorageKey:
		fl.emit(VOp{Kind: VLWDataId, Dst: result(), DataId: fl.storageKeyIndex(op.StorageFieldName)})

	case ir.ILoad:
		fl.emit(VOp{Kind: VLW, Dst: result(), Src1: fl.reg(op.LoadPtr)})

	case ir.IStore:
		fl.emit(VOp{Kind: VSW, Src1: fl.reg(op.StorePtr), Src2: fl.reg(op.StoreVal)})

	case ir.IMemCopyBytes, ir.IMemCopyVal:
		fl.emit(VOp{Kind: VMemCopy, Dst: fl.reg(op.Dst), Src1: fl.reg(op.Src), Imm: op.ByteLen, HasImm: true})

	case ir.IMemClearVal:
		fl.emit(VOp{Kind: VMemClear, Dst: fl.reg(op.Dst), Imm: op.ByteLen, HasImm: true})

	case ir.INop:
		fl.emit(VOp{Kind: VNoop})

	case ir.IRet:
		fl.scheduleTerminatorMoves(nil)
		fl.emit(VOp{Kind: VRet, Src1: fl.reg(op.RetVal)})

	case ir.IRetd:
		fl.emit(VOp{Kind: VRetd, Src1: fl.reg(op.RetdPtr), Src2: fl.reg(op.RetdLen)})

	case ir.IRevert:
		fl.emit(VOp{Kind: VRvrt, Src1: fl.reg(op.RetVal)})

	case ir.IJmpMem:
		fl.emit(VOp{Kind: VJmpMem, Src1: fl.reg(op.RetVal)})

	case ir.IGtf:
		fl.emit(VOp{Kind: VGtf, Dst: result(), Src1: fl.reg(op.GtfIndex), Imm: op.GtfTag, HasImm: true})

	case ir.ILog:
		fl.emit(VOp{Kind: VLog, Extra: []VirtualRegister{fl.reg(op.LogVal), fl.reg(op.LogId)}})

	case ir.IReadRegister:
		fl.emit(VOp{Kind: VMove, Dst: result(), Src1: ConstantReg(constRegForVM(op.Register))})

	case ir.ISmo:
		fl.emit(VOp{Kind: VSmo, Extra: []VirtualRegister{fl.reg(op.SmoRecipient), fl.reg(op.SmoMsgData), fl.reg(op.SmoMsgLen), fl.reg(op.SmoCoins)}})

	case ir.IStateClear:
		v := VOp{Kind: VScwq, Dst: NoRegister(), Src1: fl.reg(op.StateKey), Imm: op.StateSlots, HasImm: true}
		if instr.HasResult {
			v.Dst = result()
		}
		fl.emit(v)

	case ir.IStateLoadWord:
		fl.emit(VOp{Kind: VSrw, Dst: result(), Src1: fl.reg(op.StateKey)})

	case ir.IStateLoadQuadWord:
		fl.emit(VOp{Kind: VSrwq, Dst: fl.reg(op.StateDst), Src1: fl.reg(op.StateKey), Imm: op.StateSlots, HasImm: true})

	case ir.IStateStoreWord:
		fl.emit(VOp{Kind: VSww, Src1: fl.reg(op.StateKey), Src2: fl.reg(op.StateVal)})

	case ir.IStateStoreQuadWord:
		fl.emit(VOp{Kind: VSwwq, Src1: fl.reg(op.StateKey), Src2: fl.reg(op.StateVal), Imm: op.StateSlots, HasImm: true})

	case ir.IBranch:
		target := fl.f.Blocks[op.Target]
		pairs := make([]movePair, len(target.Args))
		for i, a := range target.Args {
			pairs[i] = movePair{dst: fl.reg(a), src: fl.reg(op.BranchArgs[i])}
		}
		for _, mv := range scheduleMoves(pairs) {
			fl.emit(mv)
		}
		fl.emitOrg(OrganizationalOp{Kind: OJump, Label: blockLabel(fl.f, op.Target)})

	case ir.IConditionalBranch:
		fl.lowerConditionalBranch(b, op)
	}
}

func (fl *fnLowerer) scheduleTerminatorMoves(pairs []movePair) {
	for _, mv := range scheduleMoves(pairs) {
		fl.emit(mv)
	}
}

// lowerConditionalBranch edge-splits the two successors so each can receive
// its own block-argument moves without the other path executing them: a
// JumpIfNotEq against the constant One steers away from the true path
// (which falls through immediately below) to a synthetic label carrying the
// false path's moves.
func (fl *fnLowerer) lowerConditionalBranch(b *ir.Block, op ir.InstOp) {
	trueLabel := blockLabel(fl.f, op.TrueBlock)
	falseLabel := blockLabel(fl.f, op.FalseBlock)
	falseEdge := fmt.Sprintf("%s.condf", blockLabel(fl.f, b.Id))

	fl.emitOrg(OrganizationalOp{Kind: OJumpIfNotEq, R1: fl.reg(op.Cond), R2: ConstantReg(RegOne), Label: falseEdge})

	trueBlock := fl.f.Blocks[op.TrueBlock]
	truePairs := make([]movePair, len(trueBlock.Args))
	for i, a := range trueBlock.Args {
		truePairs[i] = movePair{dst: fl.reg(a), src: fl.reg(op.TrueArgs[i])}
	}
	for _, mv := range scheduleMoves(truePairs) {
		fl.emit(mv)
	}
	fl.emitOrg(OrganizationalOp{Kind: OJump, Label: trueLabel})

	fl.emitOrg(OrganizationalOp{Kind: OLabel, Label: falseEdge})
	falseBlock := fl.f.Blocks[op.FalseBlock]
	falsePairs := make([]movePair, len(falseBlock.Args))
	for i, a := range falseBlock.Args {
		falsePairs[i] = movePair{dst: fl.reg(a), src: fl.reg(op.FalseArgs[i])}
	}
	for _, mv := range scheduleMoves(falsePairs) {
		fl.emit(mv)
	}
	fl.emitOrg(OrganizationalOp{Kind: OJump, Label: falseLabel})
}

// lowerCmp implements the full Eq/Ne/Lt/Le/Gt/Ge predicate set on top of the
// VM's narrower Cmp(Eq|Lt|Gt) (spec §3 "Virtual assembly"): Ne negates Eq,
// Le negates Gt, Ge negates Lt.
func (fl *fnLowerer) lowerCmp(pred ir.CmpPred, lhs, rhs, dst VirtualRegister, wide bool) {
	direct := func(kind VOpKind) {
		fl.emit(VOp{Kind: kind, Dst: dst, Src1: lhs, Src2: rhs, WideOperand: wide})
	}
	negated := func(kind VOpKind) {
		tmp := Virtual(fl.nextReg)
		fl.nextReg++
		fl.emit(VOp{Kind: kind, Dst: tmp, Src1: lhs, Src2: rhs, WideOperand: wide})
		fl.emit(VOp{Kind: VNot, Dst: dst, Src1: tmp})
	}
	switch pred {
	case ir.CmpEq:
		direct(VEq)
	case ir.CmpNe:
		negated(VEq)
	case ir.CmpLt:
		direct(VLt)
	case ir.CmpGe:
		negated(VLt)
	case ir.CmpGt:
		direct(VGt)
	case ir.CmpLe:
		negated(VGt)
	}
}

func binOpcode(k ir.BinaryOpKind) VOpKind {
	switch k {
	case ir.BinAdd:
		return VAdd
	case ir.BinSub:
		return VSub
	case ir.BinMul:
		return VMul
	case ir.BinDiv:
		return VDiv
	case ir.BinMod:
		return VMod
	case ir.BinAnd:
		return VAnd
	case ir.BinOr:
		return VOr
	case ir.BinXor:
		return VXor
	case ir.BinLsh:
		return VLsh
	case ir.BinRsh:
		return VRsh
	}
	return VNoop
}
