// Package vasm translates an optimized internal/ir.Function into the
// virtual-assembly form register allocation and label realization operate
// over: a flat list of ops, each either a real Fuel-VM-shaped instruction
// (VOp) or an organizational pseudo-op (Jump/Label/Comment) that finalization
// later resolves into real jump immediates (spec §3 "Virtual assembly",
// §4.6).
package vasm

import (
	"strconv"

	"github.com/fuellabs-lite/swayc/internal/ast"
)

// RegKind discriminates VirtualRegister's payload.
type RegKind int

const (
	RVirtual RegKind = iota
	RConstant
)

// ConstReg enumerates the VM's architectural registers plus the synthetic
// Scratch register the move scheduler uses to break cycles.
type ConstReg int

const (
	RegZero ConstReg = iota
	RegOne
	RegOf
	RegPc
	RegSsp
	RegSp
	RegFp
	RegHp
	RegErr
	RegGgas
	RegCgas
	RegBal
	RegIs
	RegRet
	RegRetl
	RegFlag
	RegDataSectionStart
	RegInstructionStart
	RegScratch
)

// NumConstRegs is the count of the VM's architectural registers (including
// the synthetic Scratch register), the low register block internal/regalloc
// reserves before the allocatable physical register range begins (spec
// §4.7 "Bounded resource").
const NumConstRegs = int(RegScratch) + 1

// TotalPhysicalRegisters is the target VM's physical GPR count (spec §3
// "AllocatedRegister = Allocated(0..47)").
const TotalPhysicalRegisters = 48

func (c ConstReg) String() string {
	return [...]string{
		"zero", "one", "of", "pc", "ssp", "sp", "fp", "hp", "err", "ggas",
		"cgas", "bal", "is", "ret", "retl", "flag", "$ds", "$is", "$scratch",
	}[c]
}

// VirtualRegister is either a fresh, unbounded virtual register (one per IR
// value) or one of the VM's fixed constant registers.
type VirtualRegister struct {
	Kind  RegKind
	Id    int // valid when Kind == RVirtual
	Const ConstReg
}

// Virtual builds a fresh virtual register reference.
func Virtual(id int) VirtualRegister { return VirtualRegister{Kind: RVirtual, Id: id} }

// NoRegister is the sentinel used for a VOp's Dst field when the opcode has
// no result (e.g. a Call/ContractCall/StateClear emitted for its side
// effect only) -- distinct from Virtual(0), which is otherwise
// indistinguishable from Go's zero VirtualRegister value.
func NoRegister() VirtualRegister { return VirtualRegister{Kind: RVirtual, Id: -1} }

// IsNone reports whether r is the NoRegister sentinel.
func (r VirtualRegister) IsNone() bool { return r.Kind == RVirtual && r.Id < 0 }

// ConstantReg builds a reference to one of the VM's architectural registers.
func ConstantReg(c ConstReg) VirtualRegister { return VirtualRegister{Kind: RConstant, Const: c} }

func (r VirtualRegister) String() string {
	if r.Kind == RConstant {
		return "$" + r.Const.String()
	}
	return "$v" + strconv.Itoa(r.Id)
}

// VOpKind enumerates the Fuel-VM-shaped virtual opcodes this pass emits,
// three-register or register+immediate forms, plus the pseudo-ops that
// expand during codegen finalization.
type VOpKind int

const (
	VAdd VOpKind = iota
	VSub
	VMul
	VDiv
	VMod
	VAnd
	VOr
	VXor
	VLsh
	VRsh
	VNot
	VEq
	VLt
	VGt
	VMove
	VMovi
	VLW       // load word: Dst = *(Src1 + Imm)
	VSW       // store word: *(Src1 + Imm) = Src2
	VLB       // load byte
	VSB       // store byte
	VCfei     // extend the call frame by Imm bytes (stack-local reservation)
	VCfsi     // shrink the call frame by Imm bytes
	VMemCopy  // *Dst.. = *Src1.. for Imm bytes
	VMemClear // *Dst.. = 0 for Imm bytes
	VLWDataId // load the data-section entry DataId into Dst, expanding to one or two real ops at finalization
	VDataSectionOffsetPlaceholder
	VDataSectionRegisterLoadPlaceholder
	VGtf // Dst = __gtf(Src1, Imm)
	VLog
	VRet
	VRetd
	VRvrt
	VJmpMem // jump to the address held in Src1 (selector-dispatch tail call)
	VSrw    // state read word
	VSrwq   // state read quad word
	VSww    // state write word
	VSwwq   // state write quad word
	VScwq   // state clear quad word
	VSmo
	VCall         // internal function call
	VContractCall // external `abi.method(..)` contract call
	VNoop
)

// VOp is one virtual-assembly instruction: a flat struct carrying every
// opcode's payload, mirroring the same style internal/ir.InstOp already
// established for the IR's own instruction set.
type VOp struct {
	Kind VOpKind

	Dst        VirtualRegister
	Src1, Src2 VirtualRegister
	Imm        uint64
	HasImm     bool

	// WideOperand marks that Dst/Src1/Src2 hold 256-bit (B256/U256) values,
	// so codegen selects the VM's wide-arithmetic opcode variant for the
	// same logical operation rather than the narrow one.
	WideOperand bool

	DataId int // VLWDataId

	Callee string // VCall's target function name

	// VLog / VSmo / VContractCall carry extra operand registers beyond
	// Src1/Src2/Callee, plus VCall's argument list.
	Extra []VirtualRegister
}

// OrgOpKind discriminates OrganizationalOp's payload.
type OrgOpKind int

const (
	OJump OrgOpKind = iota
	OJumpIfNotEq
	OLabel
	OComment
	ODataSectionOffsetPlaceholder
)

// OrganizationalOp is a pseudo-op resolved away during label realization
// (internal/codegen): labels become byte offsets, Jump/JumpIfNotEq become
// real JI/JNEI immediates.
type OrganizationalOp struct {
	Kind OrgOpKind

	Label string // OJump / OJumpIfNotEq / OLabel target or own name
	R1,R2 VirtualRegister // OJumpIfNotEq operands
	Text  string // OComment
}

// OpClass discriminates Op's payload between a real virtual instruction and
// an organizational pseudo-op.
type OpClass int

const (
	ClassVirtual OpClass = iota
	ClassOrganizational
)

// Op is one entry in a function's virtual-assembly op list (spec §4.6:
// "Op = { opcode: Either<VirtualOp, OrganizationalOp>, owning_span?,
// comment }").
type Op struct {
	Class   OpClass
	Virtual VOp
	Org     OrganizationalOp

	Span    ast.Span
	Comment string
}
