package codegen

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/regalloc"
	"github.com/fuellabs-lite/swayc/internal/vasm"
)

// preambleWords is the fixed six-word bootstrap every program begins with
// (spec §4.8 "six-word program preamble"): a jump past the header to the
// first real instruction, a two-word DSOFF/DSLOAD pair that loads the data
// section's byte offset into $ds, an ADD that relocates $ds by $is, and a
// trailing NOOP pair to round the header out at six words.
const preambleWords = 6

// Binary is a fully finalized program: the flat instruction-word stream,
// the word-aligned data section trailing it, and a disassembly listing
// lined up word-for-word for --print-asm (spec §4.10).
type Binary struct {
	Words    []uint32
	DataBase int // word index where the data section begins
	Data     []byte
	Listing  []string
}

// regIndex returns r's final physical register-file index: constant
// registers occupy 0..NumConstRegs-1, allocated registers start right
// after (spec §3 "AllocatedRegister").
func regIndex(r regalloc.AllocatedRegister) int {
	if r.Allocated {
		return r.Index
	}
	return int(r.Const)
}

// wordCount reports how many instruction words op expands to, independent
// of where any of those words end up -- the same count both the
// label-offset pass and the emission pass must agree on.
func wordCount(op vasm.Op) int {
	if op.Class == vasm.ClassOrganizational {
		switch op.Org.Kind {
		case vasm.OJump, vasm.OJumpIfNotEq:
			return 1
		default:
			return 0
		}
	}
	switch op.Virtual.Kind {
	case vasm.VLWDataId:
		return 2
	case vasm.VContractCall:
		if op.Virtual.Dst.IsNone() {
			return 1
		}
		return 2
	default:
		return 1
	}
}

// removeRedundantJumps drops every OJump/OJumpIfNotEq whose target label is
// the very next op, cascading until no more apply (spec §4.8 "sequential
// jumps to the immediately following label are removed, performed as a
// pre-pass on the op list since it can reduce subsequent offsets").
func removeRedundantJumps(fns []*regalloc.AllocatedFunction) []*regalloc.AllocatedFunction {
	for _, fn := range fns {
		for {
			changed := false
			var ops []vasm.Op
			var alloc []regalloc.AllocatedReg
			for i := 0; i < len(fn.Ops); i++ {
				o := fn.Ops[i]
				if o.Class == vasm.ClassOrganizational &&
					(o.Org.Kind == vasm.OJump || o.Org.Kind == vasm.OJumpIfNotEq) &&
					i+1 < len(fn.Ops) {
					next := fn.Ops[i+1]
					if next.Class == vasm.ClassOrganizational && next.Org.Kind == vasm.OLabel && next.Org.Label == o.Org.Label {
						changed = true
						continue
					}
				}
				ops = append(ops, o)
				alloc = append(alloc, fn.Alloc[i])
			}
			fn.Ops, fn.Alloc = ops, alloc
			if !changed {
				break
			}
		}
	}
	return fns
}

// Finalize resolves every organizational jump/label to a concrete word
// offset, expands VLWDataId and VContractCall's result move, lays out the
// data section immediately after the instruction stream, and emits the
// finished instruction-word slice plus its disassembly listing (spec
// §4.8).
func Finalize(data *ir.DataSection, fns []*regalloc.AllocatedFunction) (*Binary, error) {
	fns = removeRedundantJumps(fns)

	labelOffset := map[string]int{}
	wordIdx := preambleWords
	for _, fn := range fns {
		for _, op := range fn.Ops {
			if op.Class == vasm.ClassOrganizational && op.Org.Kind == vasm.OLabel {
				labelOffset[op.Org.Label] = wordIdx
				continue
			}
			wordIdx += wordCount(op)
		}
	}
	totalInstrWords := wordIdx
	dataBaseBytes := uint64(totalInstrWords) * 4

	words := make([]uint32, preambleWords)
	listing := make([]string, preambleWords)
	dsReg := int(vasm.RegDataSectionStart)
	isReg := int(vasm.RegInstructionStart)
	if dataBaseBytes > maxImm18 {
		return nil, fmt.Errorf("codegen: CG001 program too large: data-section offset %d exceeds 18-bit preamble immediate", dataBaseBytes)
	}
	words[0] = FinalOp{Op: OpJi, Imm: preambleWords}.Encode()
	words[1] = FinalOp{Op: OpDsOff, A: dsReg, Imm: uint32(dataBaseBytes)}.Encode()
	words[2] = FinalOp{Op: OpDsLoad, A: dsReg}.Encode()
	words[3] = FinalOp{Op: OpAdd, A: dsReg, B: dsReg, C: isReg}.Encode()
	words[4] = FinalOp{Op: OpNoop}.Encode()
	words[5] = FinalOp{Op: OpNoop}.Encode()
	for i := range listing {
		listing[i] = "; preamble"
	}
	listing[0] = fmt.Sprintf("JI %d          ; skip header", preambleWords)
	listing[1] = fmt.Sprintf("DSOFF $ds, %d  ; data section offset (bytes)", dataBaseBytes)
	listing[2] = "DSLOAD $ds"
	listing[3] = "ADD $ds, $ds, $is         ; relocate"

	for _, fn := range fns {
		for i, op := range fn.Ops {
			w, l, err := emitOp(fn.Name, op, fn.Alloc[i], len(words), labelOffset, data)
			if err != nil {
				return nil, err
			}
			words = append(words, w...)
			listing = append(listing, l...)
		}
	}

	var dataBytes []byte
	for _, c := range data.Entries() {
		dataBytes = append(dataBytes, c.Bytes...)
		pad := (8 - len(c.Bytes)%8) % 8
		dataBytes = append(dataBytes, make([]byte, pad)...)
	}

	return &Binary{Words: words, DataBase: totalInstrWords, Data: dataBytes, Listing: listing}, nil
}

// emitOp produces the word(s) (and matching listing lines) for one op,
// resolving label/callee references against labelOffset. selfIdx is this
// op's first word index, needed for OJumpIfNotEq's relative displacement.
func emitOp(fnName string, op vasm.Op, ar regalloc.AllocatedReg, selfIdx int, labelOffset map[string]int, data *ir.DataSection) ([]uint32, []string, error) {
	if op.Class == vasm.ClassOrganizational {
		switch op.Org.Kind {
		case vasm.OLabel, vasm.OComment:
			return nil, nil, nil
		case vasm.OJump:
			target, ok := labelOffset[op.Org.Label]
			if !ok {
				return nil, nil, fmt.Errorf("codegen: undefined label %q", op.Org.Label)
			}
			if !fitsFormat(OpJi, uint64(target)) {
				return nil, nil, fmt.Errorf("codegen: CG001 jump target %d to %q exceeds the 24-bit JI immediate", target, op.Org.Label)
			}
			f := FinalOp{Op: OpJi, Imm: uint32(target)}
			return []uint32{f.Encode()}, []string{fmt.Sprintf("JI %s (%d)", op.Org.Label, target)}, nil
		case vasm.OJumpIfNotEq:
			target, ok := labelOffset[op.Org.Label]
			if !ok {
				return nil, nil, fmt.Errorf("codegen: undefined label %q", op.Org.Label)
			}
			rel := target - selfIdx
			if rel < 0 {
				return nil, nil, fmt.Errorf("codegen: CG002 JNEI to %q is a backward jump (%d); only forward conditional edges are lowered", op.Org.Label, rel)
			}
			if !fitsFormat(OpJnei, uint64(rel)) {
				return nil, nil, fmt.Errorf("codegen: CG001 JNEI displacement %d to %q exceeds the 12-bit immediate", rel, op.Org.Label)
			}
			f := FinalOp{Op: OpJnei, A: regIndex(ar.Src1), B: regIndex(ar.Src2), Imm: uint32(rel)}
			return []uint32{f.Encode()}, []string{fmt.Sprintf("JNEI $r%d, $r%d, +%d (%s)", f.A, f.B, rel, op.Org.Label)}, nil
		}
		return nil, nil, fmt.Errorf("codegen: unhandled organizational op %v", op.Org.Kind)
	}

	v := op.Virtual
	dst, s1, s2 := regIndex(ar.Dst), regIndex(ar.Src1), regIndex(ar.Src2)
	extra := make([]int, len(ar.Extra))
	for i, e := range ar.Extra {
		extra[i] = regIndex(e)
	}

	switch v.Kind {
	case vasm.VLWDataId:
		off := uint32(data.WordAlignedSize(v.DataId))
		w1 := FinalOp{Op: OpDsOff, A: dst, Imm: off}
		w2 := FinalOp{Op: OpDsLoad, A: dst}
		return []uint32{w1.Encode(), w2.Encode()},
			[]string{fmt.Sprintf("DSOFF $r%d, data#%d", dst, v.DataId), fmt.Sprintf("DSLOAD $r%d", dst)}, nil

	case vasm.VCall:
		target, ok := labelOffset[vasm.EntryLabel(v.Callee)]
		if !ok {
			return nil, nil, fmt.Errorf("codegen: call to undefined function %q", v.Callee)
		}
		if !fitsFormat(OpCall, uint64(target)) {
			return nil, nil, fmt.Errorf("codegen: CG001 call target %d to %q exceeds the 24-bit CALL immediate", target, v.Callee)
		}
		f := FinalOp{Op: OpCall, Imm: uint32(target)}
		return []uint32{f.Encode()}, []string{fmt.Sprintf("CALL %s (%d)", v.Callee, target)}, nil

	case vasm.VContractCall:
		words := []uint32{FinalOp{Op: OpCcall, A: extra[0], B: extra[1], C: extra[2], D: extra[3]}.Encode()}
		lines := []string{"CCALL " + joinRegs(extra)}
		if !v.Dst.IsNone() {
			words = append(words, FinalOp{Op: OpMove, A: dst, B: int(vasm.RegRet)}.Encode())
			lines = append(lines, fmt.Sprintf("MOVE $r%d, $ret", dst))
		}
		return words, lines, nil

	case vasm.VScwq:
		rA := dst
		if v.Dst.IsNone() {
			rA = int(vasm.RegZero)
		}
		f := FinalOp{Op: OpScwq, A: rA, B: s1, Imm: uint32(v.Imm)}
		return []uint32{f.Encode()}, []string{fmt.Sprintf("SCWQ $r%d, $r%d, %d", rA, s1, v.Imm)}, nil

	default:
		f, line := encodeSimple(v, dst, s1, s2, extra)
		return []uint32{f.Encode()}, []string{line}, nil
	}
}

// DataEntryOffsets returns, for every entry in data, its byte offset
// relative to the start of the data section -- the same padded layout
// Finalize lays Data out with. Used by internal/abi to turn a configurable's
// data-section index into the absolute byte offset its descriptor reports.
func DataEntryOffsets(data *ir.DataSection) []uint64 {
	entries := data.Entries()
	offsets := make([]uint64, len(entries))
	var off uint64
	for i, c := range entries {
		offsets[i] = off
		off += uint64(len(c.Bytes))
		pad := (8 - len(c.Bytes)%8) % 8
		off += uint64(pad)
	}
	return offsets
}

func joinRegs(rs []int) string {
	s := ""
	for i, r := range rs {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("$r%d", r)
	}
	return s
}
