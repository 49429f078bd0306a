package ir

// Instruction is one IR instruction: an Op plus (optionally) the Value it
// defines. Every block ends in exactly one terminator instruction (Branch,
// ConditionalBranch, Ret, Retd, Revert, or JmpMem).
type Instruction struct {
	Op        InstOp
	Result    Value
	HasResult bool
}

// InstOp enumerates every IR instruction kind (spec §3 "IR instruction
// set"), grounded on sway-ir's InstOp/FuelVmInstruction enum.
type InstOp struct {
	Kind InstKind

	// AsmBlock
	AsmRegisters []AsmRegister
	AsmBody      []AsmInstr
	AsmReturnReg string

	// BitCast / CastPtr / IntToPtr / PtrToInt
	Operand Value
	ToType  Type

	// UnaryOp
	UnaryKind UnaryOpKind

	// BinaryOp / WideBinaryOp / WideModularOp
	BinaryKind BinaryOpKind
	Lhs, Rhs   Value
	WideRhs2   Value // WideModularOp's modulus operand

	// Branch
	Target     BlockId
	BranchArgs []Value

	// ConditionalBranch
	Cond        Value
	TrueBlock   BlockId
	TrueArgs    []Value
	FalseBlock  BlockId
	FalseArgs   []Value

	// Call
	Callee   string
	CallArgs []Value

	// Cmp
	Pred     CmpPred
	CmpLhs   Value
	CmpRhs   Value

	// ContractCall
	ContractCallParams ContractCallParams

	// GetElemPtr
	BasePtr  Value
	ElemType Type
	Indices  []Value

	// GetLocal
	Local int // index into Function.Locals

	// GetGlobal / GetConfig
	GlobalName string

	// GetStorageKey
	StorageFieldName string

	// Load
	LoadPtr Value

	// MemCopyBytes / MemCopyVal / MemClearVal
	Dst, Src Value
	ByteLen  uint64

	// Store
	StorePtr Value
	StoreVal Value

	// Ret / Retd
	RetVal  Value
	RetType Type
	RetdPtr Value
	RetdLen Value

	// Gtf
	GtfIndex Value
	GtfTag   uint64

	// Log
	LogVal Value
	LogId  Value

	// ReadRegister
	Register Register

	// Smo
	SmoRecipient Value
	SmoMsgData   Value
	SmoMsgLen    Value
	SmoCoins     Value

	// StateClear / StateLoadQuadWord / StateLoadWord / StateStoreQuadWord / StateStoreWord
	StateKey    Value
	StateDst    Value
	StateVal    Value
	StateSlots  uint64

	// WideUnaryOp
	WideUnaryKind UnaryOpKind
	WideResult    Value

	// WideCmpOp
	WideCmpPred CmpPred
}

// InstKind discriminates InstOp's payload.
type InstKind int

const (
	IAsmBlock InstKind = iota
	IBitCast
	IUnaryOp
	IBinaryOp
	IBranch
	IConditionalBranch
	ICall
	ICastPtr
	ICmp
	IContractCall
	IGetElemPtr
	IGetLocal
	IGetGlobal
	IGetConfig
	IGetStorageKey
	IIntToPtr
	IPtrToInt
	ILoad
	IStore
	IMemCopyBytes
	IMemCopyVal
	IMemClearVal
	INop
	IRet
	IGtf
	ILog
	IReadRegister
	IRevert
	IJmpMem
	ISmo
	IStateClear
	IStateLoadQuadWord
	IStateLoadWord
	IStateStoreQuadWord
	IStateStoreWord
	IWideUnaryOp
	IWideBinaryOp
	IWideModularOp
	IWideCmpOp
	IRetd
)

// UnaryOpKind enumerates the unary arithmetic/bitwise ops.
type UnaryOpKind int

const (
	UnaryNot UnaryOpKind = iota
)

// BinaryOpKind enumerates the binary arithmetic/bitwise ops.
type BinaryOpKind int

const (
	BinAdd BinaryOpKind = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinAnd
	BinOr
	BinXor
	BinLsh
	BinRsh
)

// CmpPred enumerates comparison predicates for Cmp/WideCmpOp.
type CmpPred int

const (
	CmpEq CmpPred = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Register names a Fuel VM special-purpose register readable via
// ReadRegister (spec GLOSSARY "Special register").
type Register int

const (
	RegOf Register = iota // overflow
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
)

// ContractCallParams carries the four operands of a contract call (spec
// GLOSSARY "External contract call").
type ContractCallParams struct {
	Params Value
	Coins  Value
	AssetId Value
	Gas    Value
}

// AsmRegister binds a named register inside an AsmBlock, optionally seeded
// by an SSA Value.
type AsmRegister struct {
	Name string
	Init Value
	HasInit bool
}

// AsmInstr is one raw instruction inside an AsmBlock (opaque to the
// optimizer; passed through verbatim to vasm/codegen).
type AsmInstr struct {
	Opcode    string
	Operands  []string
	Immediate *uint64
}

// IsTerminator reports whether op ends its containing block.
func (op InstOp) IsTerminator() bool {
	switch op.Kind {
	case IBranch, IConditionalBranch, IRet, IRetd, IRevert, IJmpMem:
		return true
	}
	return false
}

// Successors returns the block ids a terminator instruction may transfer
// control to, used by this package's dominator computation and
// internal/iropt's SimplifyCFG.
func (op InstOp) Successors() []BlockId {
	switch op.Kind {
	case IBranch:
		return []BlockId{op.Target}
	case IConditionalBranch:
		return []BlockId{op.TrueBlock, op.FalseBlock}
	default:
		return nil
	}
}
