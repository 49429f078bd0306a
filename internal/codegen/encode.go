package codegen

// instFormat discriminates which of the four fixed-width shapes an Opcode
// encodes into (spec §6 "Instruction encoding"):
//
//	fmt4Reg:    opcode(8) | rA(6) | rB(6) | rC(6) | rD(6)
//	fmt2Imm12:  opcode(8) | rA(6) | rB(6) | imm12(12)
//	fmt1Imm18:  opcode(8) | rA(6) | imm18(18)
//	fmtImm24:   opcode(8) | imm24(24)
type instFormat int

const (
	fmt4Reg instFormat = iota
	fmt2Imm12
	fmt1Imm18
	fmtImm24
)

func formatOf(op Opcode) instFormat {
	switch op {
	case OpLw, OpSw, OpLb, OpSb, OpMcp, OpMcl, OpGtf, OpSrwq, OpSww, OpSwwq, OpScwq:
		return fmt2Imm12
	case OpMovi, OpDsOff, OpCfei, OpCfsi:
		return fmt1Imm18
	case OpJi, OpCall, OpCcall:
		return fmtImm24
	case OpJnei:
		return fmt2Imm12
	default:
		return fmt4Reg
	}
}

// FinalOp is one fully resolved instruction word: every register is a
// physical index (or a constant register's own fixed slot, see
// internal/regalloc.AllocatedRegister), every label reference has become a
// byte offset, and Imm has been range-checked against its format's
// bitfield (spec §4.8 "Invariant checks").
type FinalOp struct {
	Op         Opcode
	A, B, C, D int
	Imm        uint32
}

const (
	maxImm12 = 1<<12 - 1
	maxImm18 = 1<<18 - 1
	maxImm24 = 1<<24 - 1
)

// Encode packs f into its 32-bit big-endian instruction word.
func (f FinalOp) Encode() uint32 {
	word := uint32(f.Op) << 24
	switch formatOf(f.Op) {
	case fmt4Reg:
		word |= uint32(f.A&0x3f) << 18
		word |= uint32(f.B&0x3f) << 12
		word |= uint32(f.C&0x3f) << 6
		word |= uint32(f.D & 0x3f)
	case fmt2Imm12:
		word |= uint32(f.A&0x3f) << 18
		word |= uint32(f.B&0x3f) << 12
		word |= f.Imm & maxImm12
	case fmt1Imm18:
		word |= uint32(f.A&0x3f) << 18
		word |= f.Imm & maxImm18
	case fmtImm24:
		word |= f.Imm & maxImm24
	}
	return word
}

// fitsFormat reports whether imm fits the bitfield f's format reserves for
// it, used to raise CG001 (jump-immediate overflow) before emission.
func fitsFormat(op Opcode, imm uint64) bool {
	switch formatOf(op) {
	case fmt2Imm12:
		return imm <= maxImm12
	case fmt1Imm18:
		return imm <= maxImm18
	case fmtImm24:
		return imm <= maxImm24
	default:
		return true
	}
}
