package codegen

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/vasm"
)

// wideOpcode maps a VOp's narrow opcode to its 256-bit variant when
// WideOperand is set (spec §3 "wide arithmetic/cmp opcode variant").
var wideOpcode = map[Opcode]Opcode{
	OpAdd: OpWAdd, OpSub: OpWSub, OpMul: OpWMul, OpDiv: OpWDiv, OpMod: OpWMod,
	OpAnd: OpWAnd, OpOr: OpWOr, OpXor: OpWXor, OpLsh: OpWLsh, OpRsh: OpWRsh,
	OpNot: OpWNot, OpEq: OpWEq, OpLt: OpWLt, OpGt: OpWGt,
}

func selectWide(op Opcode, wide bool) Opcode {
	if !wide {
		return op
	}
	if w, ok := wideOpcode[op]; ok {
		return w
	}
	return op
}

// encodeSimple handles every VOpKind not given its own case in emitOp: the
// straight arithmetic/logic/compare ops, moves, loads/stores, frame-size
// ops, memory ops, and the VM's direct single-word opcodes.
func encodeSimple(v vasm.VOp, dst, s1, s2 int, extra []int) (FinalOp, string) {
	reg := func(r int) string { return fmt.Sprintf("$r%d", r) }

	switch v.Kind {
	case vasm.VAdd, vasm.VSub, vasm.VMul, vasm.VDiv, vasm.VMod, vasm.VAnd, vasm.VOr,
		vasm.VXor, vasm.VLsh, vasm.VRsh, vasm.VEq, vasm.VLt, vasm.VGt:
		op := selectWide(arithOpcode(v.Kind), v.WideOperand)
		return FinalOp{Op: op, A: dst, B: s1, C: s2}, fmt.Sprintf("%s %s, %s, %s", op, reg(dst), reg(s1), reg(s2))

	case vasm.VNot:
		op := selectWide(OpNot, v.WideOperand)
		return FinalOp{Op: op, A: dst, B: s1}, fmt.Sprintf("%s %s, %s", op, reg(dst), reg(s1))

	case vasm.VMove:
		return FinalOp{Op: OpMove, A: dst, B: s1}, fmt.Sprintf("MOVE %s, %s", reg(dst), reg(s1))

	case vasm.VMovi:
		return FinalOp{Op: OpMovi, A: dst, Imm: uint32(v.Imm)}, fmt.Sprintf("MOVI %s, %d", reg(dst), v.Imm)

	case vasm.VLW:
		return FinalOp{Op: OpLw, A: dst, B: s1, Imm: uint32(v.Imm)}, fmt.Sprintf("LW %s, %s, %d", reg(dst), reg(s1), v.Imm)

	case vasm.VSW:
		return FinalOp{Op: OpSw, A: s1, B: s2, Imm: uint32(v.Imm)}, fmt.Sprintf("SW %s, %s, %d", reg(s1), reg(s2), v.Imm)

	case vasm.VLB:
		return FinalOp{Op: OpLb, A: dst, B: s1, Imm: uint32(v.Imm)}, fmt.Sprintf("LB %s, %s, %d", reg(dst), reg(s1), v.Imm)

	case vasm.VSB:
		return FinalOp{Op: OpSb, A: s1, B: s2, Imm: uint32(v.Imm)}, fmt.Sprintf("SB %s, %s, %d", reg(s1), reg(s2), v.Imm)

	case vasm.VCfei:
		return FinalOp{Op: OpCfei, Imm: uint32(v.Imm)}, fmt.Sprintf("CFEI %d", v.Imm)

	case vasm.VCfsi:
		return FinalOp{Op: OpCfsi, Imm: uint32(v.Imm)}, fmt.Sprintf("CFSI %d", v.Imm)

	case vasm.VMemCopy:
		return FinalOp{Op: OpMcp, A: dst, B: s1, Imm: uint32(v.Imm)}, fmt.Sprintf("MCP %s, %s, %d", reg(dst), reg(s1), v.Imm)

	case vasm.VMemClear:
		return FinalOp{Op: OpMcl, A: dst, Imm: uint32(v.Imm)}, fmt.Sprintf("MCL %s, %d", reg(dst), v.Imm)

	case vasm.VGtf:
		return FinalOp{Op: OpGtf, A: dst, B: s1, Imm: uint32(v.Imm)}, fmt.Sprintf("GTF %s, %s, %d", reg(dst), reg(s1), v.Imm)

	case vasm.VLog:
		return FinalOp{Op: OpLogd, A: extra[0], B: extra[1]}, fmt.Sprintf("LOGD %s, %s", reg(extra[0]), reg(extra[1]))

	case vasm.VRet:
		return FinalOp{Op: OpRet, A: s1}, fmt.Sprintf("RET %s", reg(s1))

	case vasm.VRetd:
		return FinalOp{Op: OpRetd, A: s1, B: s2}, fmt.Sprintf("RETD %s, %s", reg(s1), reg(s2))

	case vasm.VRvrt:
		return FinalOp{Op: OpRvrt, A: s1}, fmt.Sprintf("RVRT %s", reg(s1))

	case vasm.VJmpMem:
		return FinalOp{Op: OpJmpMem, A: s1}, fmt.Sprintf("JMPMEM %s", reg(s1))

	case vasm.VSrw:
		return FinalOp{Op: OpSrw, A: dst, B: s1}, fmt.Sprintf("SRW %s, %s", reg(dst), reg(s1))

	case vasm.VSrwq:
		return FinalOp{Op: OpSrwq, A: dst, B: s1, Imm: uint32(v.Imm)}, fmt.Sprintf("SRWQ %s, %s, %d", reg(dst), reg(s1), v.Imm)

	case vasm.VSww:
		return FinalOp{Op: OpSww, A: s1, B: s2}, fmt.Sprintf("SWW %s, %s", reg(s1), reg(s2))

	case vasm.VSwwq:
		return FinalOp{Op: OpSwwq, A: s1, B: s2, Imm: uint32(v.Imm)}, fmt.Sprintf("SWWQ %s, %s, %d", reg(s1), reg(s2), v.Imm)

	case vasm.VSmo:
		return FinalOp{Op: OpSmo, A: extra[0], B: extra[1], C: extra[2], D: extra[3]},
			fmt.Sprintf("SMO %s, %s, %s, %s", reg(extra[0]), reg(extra[1]), reg(extra[2]), reg(extra[3]))

	case vasm.VNoop:
		return FinalOp{Op: OpNoop}, "NOOP"

	default:
		return FinalOp{Op: OpNoop}, fmt.Sprintf("; unhandled vop kind %d", v.Kind)
	}
}

func arithOpcode(k vasm.VOpKind) Opcode {
	switch k {
	case vasm.VAdd:
		return OpAdd
	case vasm.VSub:
		return OpSub
	case vasm.VMul:
		return OpMul
	case vasm.VDiv:
		return OpDiv
	case vasm.VMod:
		return OpMod
	case vasm.VAnd:
		return OpAnd
	case vasm.VOr:
		return OpOr
	case vasm.VXor:
		return OpXor
	case vasm.VLsh:
		return OpLsh
	case vasm.VRsh:
		return OpRsh
	case vasm.VEq:
		return OpEq
	case vasm.VLt:
		return OpLt
	case vasm.VGt:
		return OpGt
	}
	return OpNoop
}
