package untyped

import "github.com/fuellabs-lite/swayc/internal/ast"

// Expr is the base interface for untyped expressions. Variants mirror the
// typed tree variant list in spec §3 ("Typed expression tree") one-to-one,
// minus the resolved type id each typed node adds.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{ SpanVal ast.Span }

func (e exprBase) Span() ast.Span { return e.SpanVal }

// Literal is a literal value of any kind.
type Literal struct {
	exprBase
	Kind  LiteralKind
	Value interface{}
}

type LiteralKind int

const (
	LitU8 LiteralKind = iota
	LitU16
	LitU32
	LitU64
	LitU256
	LitB256
	LitBool
	LitString
	LitNumeric // unconstrained numeric literal (spec §9 open question)
)

func (*Literal) exprNode()      {}
func (l *Literal) String() string { return "lit" }

// FunctionApplication is a call `path(args...)` with ordered named arguments.
type FunctionApplication struct {
	exprBase
	Func      CallPath
	Args      []NamedArg
	TypeArgs  []TypeArg
}

type NamedArg struct {
	Name  string // "" for positional
	Value Expr
}

func (*FunctionApplication) exprNode()      {}
func (f *FunctionApplication) String() string { return f.Func.String() + "(...)" }

// LazyOp is `&&` or `||`, kept as a node rather than desugared (spec §3
// invariant: "lazy/short-circuit operators remain as nodes").
type LazyOp struct {
	exprBase
	Op    LazyKind
	Left  Expr
	Right Expr
}

type LazyKind int

const (
	LazyAnd LazyKind = iota
	LazyOr
)

func (*LazyOp) exprNode()      {}
func (l *LazyOp) String() string { return "lazy" }

// ConstantRef references a constant declaration by call path.
type ConstantRef struct {
	exprBase
	Path CallPath
}

func (*ConstantRef) exprNode()      {}
func (c *ConstantRef) String() string { return c.Path.String() }

// VariableRef references a local variable or function parameter.
type VariableRef struct {
	exprBase
	Name string
}

func (*VariableRef) exprNode()      {}
func (v *VariableRef) String() string { return v.Name }

// TupleExpr constructs a tuple value.
type TupleExpr struct {
	exprBase
	Elems []Expr
}

func (*TupleExpr) exprNode()      {}
func (t *TupleExpr) String() string { return "tuple" }

// ArrayExpr constructs a fixed-size array value.
type ArrayExpr struct {
	exprBase
	Elems []Expr
}

func (*ArrayExpr) exprNode()      {}
func (a *ArrayExpr) String() string { return "array" }

// IndexExpr indexes into an array or slice.
type IndexExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

func (*IndexExpr) exprNode()      {}
func (i *IndexExpr) String() string { return "index" }

// StructInstantiation builds a struct value from named field expressions.
type StructInstantiation struct {
	exprBase
	StructName CallPath
	TypeArgs   []TypeArg
	Fields     []StructFieldInit
}

type StructFieldInit struct {
	Name  string
	Value Expr
}

func (*StructInstantiation) exprNode()      {}
func (s *StructInstantiation) String() string { return s.StructName.String() + "{...}" }

// CodeBlock is an ordered sequence of statements whose last expression (if
// it has no trailing semicolon) is the block's value.
type CodeBlock struct {
	exprBase
	Stmts []Stmt
}

func (*CodeBlock) exprNode()      {}
func (c *CodeBlock) String() string { return "{...}" }

// Stmt is a statement inside a code block: either a let-binding or a bare
// expression (with a flag for whether a trailing semicolon was present).
type Stmt struct {
	Let            *LetStmt // non-nil for `let` statements
	Expr           Expr     // non-nil for expression statements
	HasSemicolon   bool
	Span           ast.Span
}

// LetStmt introduces a lexically scoped binding.
type LetStmt struct {
	Name    string
	Mutable bool
	Type    *TypeArg
	Value   Expr
}

// MatchExpr is a pattern match. Arms are preserved alongside the scrutinee so
// that tooling can recover the source structure even after decision-tree
// compilation (spec §3: "desugared tree + scrutinee list preserved").
type MatchExpr struct {
	exprBase
	Scrutinee Expr
	Arms      []MatchArm
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if no guard
	Body    Expr
	Span    ast.Span
}

func (*MatchExpr) exprNode()      {}
func (m *MatchExpr) String() string { return "match" }

// Pattern is the base interface for match patterns.
type Pattern interface {
	Node
	patternNode()
}

type patternBase struct{ SpanVal ast.Span }

func (p patternBase) Span() ast.Span { return p.SpanVal }

type WildcardPattern struct{ patternBase }

func (*WildcardPattern) patternNode()      {}
func (*WildcardPattern) String() string { return "_" }

type VarPattern struct {
	patternBase
	Name string
}

func (*VarPattern) patternNode()      {}
func (v *VarPattern) String() string { return v.Name }

type LiteralPattern struct {
	patternBase
	Value *Literal
}

func (*LiteralPattern) patternNode()      {}
func (*LiteralPattern) String() string { return "lit-pattern" }

type EnumPattern struct {
	patternBase
	EnumName CallPath
	Variant  string
	Sub      Pattern // nil for unit variants
}

func (*EnumPattern) patternNode()      {}
func (e *EnumPattern) String() string { return e.Variant }

type StructPattern struct {
	patternBase
	StructName CallPath
	Fields     map[string]Pattern
}

func (*StructPattern) patternNode()      {}
func (*StructPattern) String() string { return "struct-pattern" }

type TuplePattern struct {
	patternBase
	Elems []Pattern
}

func (*TuplePattern) patternNode()      {}
func (*TuplePattern) String() string { return "tuple-pattern" }

// IfExpr is `if cond { then } else { else }`.
type IfExpr struct {
	exprBase
	Cond Expr
	Then *CodeBlock
	Else Expr // *CodeBlock, *IfExpr (else if), or nil
}

func (*IfExpr) exprNode()      {}
func (*IfExpr) String() string { return "if" }

// AsmBlock is an inline assembly block. The body is carried opaquely and
// only interpreted by the virtual-assembly lowering stage (spec §4.6).
type AsmBlock struct {
	exprBase
	Registers []AsmRegister
	Body      []AsmInstr
	ReturnTy  *TypeArg
	ReturnReg string // register name yielding the block's value, "" for unit
}

type AsmRegister struct {
	Name string
	Init Expr // nil if uninitialized
}

// AsmInstr is one opaque virtual-machine instruction mnemonic plus operand
// register names, exactly as written in source; resolved at §4.6.
type AsmInstr struct {
	Opcode   string
	Operands []string
	Immediate *uint64
	Span      ast.Span
}

func (*AsmBlock) exprNode()      {}
func (*AsmBlock) String() string { return "asm" }

// FieldAccess accesses a struct field or tuple element.
type FieldAccess struct {
	exprBase
	Base  Expr
	Field string // struct field name
	Index *int   // tuple field index (mutually exclusive with Field)
}

func (*FieldAccess) exprNode()      {}
func (f *FieldAccess) String() string { return "." + f.Field }

// EnumInstantiation constructs a tagged enum value.
type EnumInstantiation struct {
	exprBase
	EnumName CallPath
	Variant  string
	Content  Expr // nil for unit variants
}

func (*EnumInstantiation) exprNode()      {}
func (e *EnumInstantiation) String() string { return e.EnumName.String() + "::" + e.Variant }

// AbiCast reinterprets an address as a contract caller of the named ABI.
type AbiCast struct {
	exprBase
	AbiName string
	Address Expr
}

func (*AbiCast) exprNode()      {}
func (*AbiCast) String() string { return "abi-cast" }

// StorageAccess reads a (possibly nested) storage field.
type StorageAccess struct {
	exprBase
	Path []string // e.g. ["balances", "owner"] for storage.balances.owner
}

func (*StorageAccess) exprNode()      {}
func (*StorageAccess) String() string { return "storage." }

// Intrinsic invokes a compiler intrinsic (`__size_of`, `__addr_of`, ...).
type Intrinsic struct {
	exprBase
	Name string
	Args []Expr
	TypeArgs []TypeArg
}

func (*Intrinsic) exprNode()      {}
func (i *Intrinsic) String() string { return i.Name }

// WhileExpr is a while loop.
type WhileExpr struct {
	exprBase
	Cond Expr
	Body *CodeBlock
}

func (*WhileExpr) exprNode()      {}
func (*WhileExpr) String() string { return "while" }

// ForExpr is a for-in loop over an iterator; desugared to its while-loop
// equivalent before reaching the IR builder (spec §4.4).
type ForExpr struct {
	exprBase
	Binder   string
	Iterable Expr
	Body     *CodeBlock
}

func (*ForExpr) exprNode()      {}
func (*ForExpr) String() string { return "for" }

// BreakExpr exits the innermost loop.
type BreakExpr struct{ exprBase }

func (*BreakExpr) exprNode()      {}
func (*BreakExpr) String() string { return "break" }

// ContinueExpr restarts the innermost loop.
type ContinueExpr struct{ exprBase }

func (*ContinueExpr) exprNode()      {}
func (*ContinueExpr) String() string { return "continue" }

// Reassignment writes through a base name plus an ordered projection path
// (spec §3 invariant on reassignment targets), or through a dereference.
type Reassignment struct {
	exprBase
	Base       string
	Projection []Projection
	ViaDeref   bool
	Op         ReassignOp // desugared at typed-tree-builder time; Lexed kept separately
	Value      Expr
}

type ReassignOp int

const (
	ReassignSet ReassignOp = iota
	ReassignAdd
	ReassignSub
	ReassignMul
	ReassignDiv
)

// Projection is one step of a reassignment target path.
type Projection struct {
	Kind  ProjectionKind
	Field string // StructField
	Index int    // TupleField
	Expr  Expr   // ArrayIndex
}

type ProjectionKind int

const (
	ProjStructField ProjectionKind = iota
	ProjTupleField
	ProjArrayIndex
)

func (*Reassignment) exprNode()      {}
func (*Reassignment) String() string { return "reassign" }

// ReturnExpr is an explicit `return expr;`.
type ReturnExpr struct {
	exprBase
	Value Expr // nil for bare `return;`
}

func (*ReturnExpr) exprNode()      {}
func (*ReturnExpr) String() string { return "return" }

// RefExpr takes a reference to an lvalue.
type RefExpr struct {
	exprBase
	Mutable bool
	Value   Expr
}

func (*RefExpr) exprNode()      {}
func (*RefExpr) String() string { return "&" }

// DerefExpr dereferences a reference value.
type DerefExpr struct {
	exprBase
	Value Expr
}

func (*DerefExpr) exprNode()      {}
func (*DerefExpr) String() string { return "*" }
