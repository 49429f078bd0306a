// Package typedtree is the typed expression tree the semantic analyzer
// produces: every node of internal/untyped's shape, carrying a resolved
// typeengine.TypeId (spec §3 "Typed expression tree": "every node ... has a
// TypeId resolved by unification").
package typedtree

import (
	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

// TyNode is implemented by every typed tree node.
type TyNode interface {
	Span() ast.Span
	Type() typeengine.TypeId
}

type tyBase struct {
	SpanVal ast.Span
	TypeId  typeengine.TypeId
}

func (n tyBase) Span() ast.Span          { return n.SpanVal }
func (n tyBase) Type() typeengine.TypeId { return n.TypeId }

// TyModule is a fully type-checked module (spec §4.2's persistent
// module-tree node, after the typed-tree builder has run).
type TyModule struct {
	Name       string
	Submodules []*TyModule
	Items      []declengine.DeclId
	SpanVal    ast.Span
}

func (m *TyModule) Span() ast.Span { return m.SpanVal }

// TyExpression is the typed counterpart of untyped.Expr: exactly one of the
// Kind-selected fields is populated, matching spec §3's tagged-union shape.
type TyExpression struct {
	tyBase
	Kind TyExprKind

	Literal      *TyLiteral
	FunctionApp  *TyFunctionApplication
	LazyOp       *TyLazyOp
	ConstantRef  *TyConstantRef
	VariableRef  *TyVariableRef
	Tuple        *TyTuple
	Array        *TyArray
	Index        *TyIndex
	StructInst   *TyStructInstantiation
	CodeBlock    *TyCodeBlock
	Match        *TyMatchExpr
	If           *TyIfExpr
	Asm          *TyAsmBlock
	FieldAccess  *TyFieldAccess
	EnumInst     *TyEnumInstantiation
	AbiCast      *TyAbiCast
	Storage      *TyStorageAccess
	Intrinsic    *TyIntrinsic
	While        *TyWhileExpr
	For          *TyForExpr
	Break        *TyBreakExpr
	Continue     *TyContinueExpr
	Reassignment *TyReassignment
	Return       *TyReturnExpr
	Ref          *TyRefExpr
	Deref        *TyDerefExpr
}

// TyExprKind discriminates TyExpression's payload, mirroring spec §3's
// expression-variant list one-to-one with internal/untyped's Expr.
type TyExprKind int

const (
	KLiteral TyExprKind = iota
	KFunctionApplication
	KLazyOp
	KConstantRef
	KVariableRef
	KTuple
	KArray
	KIndex
	KStructInstantiation
	KCodeBlock
	KMatch
	KIf
	KAsm
	KFieldAccess
	KEnumInstantiation
	KAbiCast
	KStorageAccess
	KIntrinsic
	KWhile
	KFor
	KBreak
	KContinue
	KReassignment
	KReturn
	KRef
	KDeref
)

// NewExpression constructs a TyExpression with its resolved type and span
// set; callers then populate the Kind-matching payload field.
func NewExpression(kind TyExprKind, typeId typeengine.TypeId, span ast.Span) *TyExpression {
	return &TyExpression{tyBase: tyBase{SpanVal: span, TypeId: typeId}, Kind: kind}
}

type TyLiteral struct {
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
)

type TyFunctionApplication struct {
	Func     declengine.DeclId // resolved via call-path lookup
	Args     []TyNamedArg
	TypeArgs []typeengine.TypeId // the Subst this call site instantiated Func's type params with
}

type TyNamedArg struct {
	Name  string
	Value *TyExpression
}

type TyLazyOp struct {
	Op          LazyKind
	Left, Right *TyExpression
}

type LazyKind int

const (
	LazyAnd LazyKind = iota
	LazyOr
)

type TyConstantRef struct {
	Decl declengine.DeclId // KindConstant or KindConfigurable
}

type TyVariableRef struct {
	Name string
}

type TyTuple struct {
	Elems []*TyExpression
}

type TyArray struct {
	Elems []*TyExpression
}

type TyIndex struct {
	Base, Index *TyExpression
}

type TyStructInstantiation struct {
	StructDecl declengine.DeclId
	TypeArgs   []typeengine.TypeId
	Fields     []TyStructFieldInit
}

type TyStructFieldInit struct {
	Name  string
	Value *TyExpression
}

type TyCodeBlock struct {
	Stmts []TyStmt
}

type TyStmt struct {
	Let          *TyLetStmt
	Expr         *TyExpression
	HasSemicolon bool
	Span         ast.Span
}

type TyLetStmt struct {
	Name    string
	Mutable bool
	Type    typeengine.TypeId
	Value   *TyExpression
}

type TyMatchExpr struct {
	Scrutinee *TyExpression
	Arms      []TyMatchArm
}

type TyMatchArm struct {
	Pattern TyPattern
	Guard   *TyExpression
	Body    *TyExpression
	Span    ast.Span
}

// TyPattern mirrors untyped.Pattern with a resolved type attached to every
// binding (spec §4.2 "patterns are typed against the scrutinee's TypeId").
type TyPattern interface {
	Span() ast.Span
	Type() typeengine.TypeId
}

type tyPatternBase struct {
	tyBase
}

type TyWildcardPattern struct{ tyPatternBase }
type TyVarPattern struct {
	tyPatternBase
	Name string
}
type TyLiteralPattern struct {
	tyPatternBase
	Value *TyLiteral
}
type TyEnumPattern struct {
	tyPatternBase
	EnumDecl declengine.DeclId
	Variant  string
	Sub      TyPattern
}
type TyStructPattern struct {
	tyPatternBase
	StructDecl declengine.DeclId
	Fields     map[string]TyPattern
}
type TyTuplePattern struct {
	tyPatternBase
	Elems []TyPattern
}

func newPatternBase(t typeengine.TypeId, span ast.Span) tyPatternBase {
	return tyPatternBase{tyBase{SpanVal: span, TypeId: t}}
}

func NewWildcardPattern(t typeengine.TypeId, span ast.Span) *TyWildcardPattern {
	return &TyWildcardPattern{newPatternBase(t, span)}
}

func NewVarPattern(t typeengine.TypeId, span ast.Span, name string) *TyVarPattern {
	return &TyVarPattern{newPatternBase(t, span), name}
}

func NewLiteralPattern(t typeengine.TypeId, span ast.Span, value *TyLiteral) *TyLiteralPattern {
	return &TyLiteralPattern{newPatternBase(t, span), value}
}

func NewEnumPattern(t typeengine.TypeId, span ast.Span, enumDecl declengine.DeclId, variant string, sub TyPattern) *TyEnumPattern {
	return &TyEnumPattern{newPatternBase(t, span), enumDecl, variant, sub}
}

func NewStructPattern(t typeengine.TypeId, span ast.Span, structDecl declengine.DeclId, fields map[string]TyPattern) *TyStructPattern {
	return &TyStructPattern{newPatternBase(t, span), structDecl, fields}
}

func NewTuplePattern(t typeengine.TypeId, span ast.Span, elems []TyPattern) *TyTuplePattern {
	return &TyTuplePattern{newPatternBase(t, span), elems}
}

type TyIfExpr struct {
	Cond *TyExpression
	Then *TyCodeBlock
	Else *TyExpression // nil, or another TyIfExpr/TyCodeBlock wrapped as an expression
}

type TyAsmBlock struct {
	Registers []TyAsmRegister
	Body      []TyAsmInstr
	ReturnTy  typeengine.TypeId
	ReturnReg string
}

type TyAsmRegister struct {
	Name string
	Init *TyExpression
}

type TyAsmInstr struct {
	Opcode    string
	Operands  []string
	Immediate *uint64
	Span      ast.Span
}

type TyFieldAccess struct {
	Base  *TyExpression
	Field string
	Index int // resolved struct-field or tuple-element position, -1 when unresolved
}

type TyEnumInstantiation struct {
	EnumDecl declengine.DeclId
	Variant  string
	Content  *TyExpression // nil for unit variants
}

type TyAbiCast struct {
	AbiDecl declengine.DeclId
	Address *TyExpression
}

type TyStorageAccess struct {
	Field       declengine.DeclId // the StorageDecl's owning decl (kind KindStorage)
	FieldIndex  int
	Projection  []StorageProjection
}

// StorageProjection extends a storage-field access into nested
// struct/array/map indexing for slot-offset computation (spec GLOSSARY
// "Storage key").
type StorageProjection struct {
	Kind  ProjectionKind
	Field string
	Index int
	Expr  *TyExpression
}

type ProjectionKind int

const (
	ProjStructField ProjectionKind = iota
	ProjTupleField
	ProjArrayIndex
)

type TyIntrinsic struct {
	Name     string
	Args     []*TyExpression
	TypeArgs []typeengine.TypeId
}

type TyWhileExpr struct {
	Cond *TyExpression
	Body *TyCodeBlock
}

type TyForExpr struct {
	Binder   string
	Iterable *TyExpression
	Body     *TyCodeBlock
}

type TyBreakExpr struct{}
type TyContinueExpr struct{}

type TyReassignment struct {
	Base       string
	Projection []StorageProjection
	ViaDeref   bool
	Op         ReassignOp
	Value      *TyExpression
}

type ReassignOp int

const (
	ReassignSet ReassignOp = iota
	ReassignAdd
	ReassignSub
	ReassignMul
	ReassignDiv
)

type TyReturnExpr struct {
	Value *TyExpression
}

type TyRefExpr struct {
	Mutable bool
	Value   *TyExpression
}

type TyDerefExpr struct {
	Value *TyExpression
}
