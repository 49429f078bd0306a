// Package untyped defines the module tree produced by the (external,
// out-of-scope) lexer/parser. The core never constructs this tree from
// source text itself; it only consumes it, matching spec.md §6's "Untyped
// module tree from the parser" input contract.
//
// Every node carries an ast.Span, whose positions name the source file by
// path string; internal/sourceengine's file ids are not used here.
package untyped

import "github.com/fuellabs-lite/swayc/internal/ast"

// Node is the base interface implemented by every untyped tree node.
type Node interface {
	Span() ast.Span
	String() string
}

// Module is one parsed source file's worth of declarations. A program is an
// ordered list of Modules forming a tree via Submodules (mirroring spec §4.2's
// ModuleId → {submodules, symbols, traits, impls} persistent map).
type Module struct {
	Name        string
	Kind        ModuleKind
	Submodules  []*Module
	Items       []Decl
	SpanVal     ast.Span
}

func (m *Module) Span() ast.Span  { return m.SpanVal }
func (m *Module) String() string  { return "module " + m.Name }

// ModuleKind mirrors the IR module kinds from spec §3.
type ModuleKind int

const (
	KindContract ModuleKind = iota
	KindLibrary
	KindPredicate
	KindScript
)

func (k ModuleKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindLibrary:
		return "library"
	case KindPredicate:
		return "predicate"
	case KindScript:
		return "script"
	}
	return "unknown"
}

// Visibility gates cross-module lookup (spec §3 "Declarations").
type Visibility int

const (
	Private Visibility = iota
	Public
)

// CallPath is an ordered list of module prefixes plus a suffix identifier
// (spec GLOSSARY "Call path").
type CallPath struct {
	Prefixes   []string
	Suffix     string
	IsAbsolute bool
}

func (c CallPath) String() string {
	s := ""
	if c.IsAbsolute {
		s = "::"
	}
	for _, p := range c.Prefixes {
		s += p + "::"
	}
	return s + c.Suffix
}

// Decl is the base interface for every top-level declaration kind named in
// spec §3 ("Declarations"): functions, structs, enums, traits, impls,
// constants, type aliases, storage, configurables, abi.
type Decl interface {
	Node
	declNode()
}

// declBase factors the fields every declaration owns per spec §3.
type declBase struct {
	Ident      string
	Vis        Visibility
	TypeParams []TypeParam
	SpanVal    ast.Span
}

func (d declBase) Span() ast.Span { return d.SpanVal }

// TypeParam is a generic type parameter with optional trait constraints.
type TypeParam struct {
	Name        string
	Constraints []CallPath // trait names this parameter must satisfy
}

// TypeArg is an unresolved type expression appearing in source.
type TypeArg struct {
	Name      CallPath
	Args      []TypeArg
	RefMut    bool
	IsRef     bool
	SpanVal   ast.Span
}

func (t TypeArg) Span() ast.Span { return t.SpanVal }
func (t TypeArg) String() string { return t.Name.String() }

// FunctionDecl is a function declaration (spec §3 "Declarations").
type FunctionDecl struct {
	declBase
	Params      []Param
	ReturnType  TypeArg
	Body        []Stmt
	IsEntry     bool
	IsFallback  bool
	Selector    *[4]byte // nil unless explicitly annotated
}

func (*FunctionDecl) declNode()      {}
func (f *FunctionDecl) String() string { return "fn " + f.Ident }

// Param is a function parameter.
type Param struct {
	Name string
	Type TypeArg
}

// StructDecl declares a struct type.
type StructDecl struct {
	declBase
	Fields []StructField
}

func (*StructDecl) declNode()        {}
func (s *StructDecl) String() string { return "struct " + s.Ident }

// StructField is one field of a struct or storage declaration.
type StructField struct {
	Name string
	Type TypeArg
	Span ast.Span
}

// EnumDecl declares an enum (sum) type.
type EnumDecl struct {
	declBase
	Variants []EnumVariant
}

func (*EnumDecl) declNode()        {}
func (e *EnumDecl) String() string { return "enum " + e.Ident }

// EnumVariant is one tagged variant of an enum. Tag is the variant's
// discriminant, assigned in declaration order.
type EnumVariant struct {
	Name string
	Tag  uint64
	Type *TypeArg // nil for unit variants
	Span ast.Span
}

// TraitDecl declares a trait (interface).
type TraitDecl struct {
	declBase
	SuperTraits []CallPath
	Items       []TraitItem
}

func (*TraitDecl) declNode()        {}
func (t *TraitDecl) String() string { return "trait " + t.Ident }

// TraitItem is a method signature inside a trait.
type TraitItem struct {
	Name       string
	Params     []Param
	ReturnType TypeArg
	Default    []Stmt // non-nil for default-method bodies
}

// ImplDecl implements a trait (or inherent methods) for a concrete type.
type ImplDecl struct {
	declBase
	ImplementingFor TypeArg
	TraitName       CallPath // zero value for inherent impls
	Items           []*FunctionDecl
}

func (*ImplDecl) declNode() {}
func (i *ImplDecl) String() string {
	return "impl " + i.TraitName.String() + " for " + i.ImplementingFor.String()
}

// ConstantDecl declares a compile-time constant.
type ConstantDecl struct {
	declBase
	Type  *TypeArg
	Value Expr
}

func (*ConstantDecl) declNode()        {}
func (c *ConstantDecl) String() string { return "const " + c.Ident }

// ConfigurableDecl declares a configurable (spec GLOSSARY).
type ConfigurableDecl struct {
	declBase
	Type  TypeArg
	Value Expr
}

func (*ConfigurableDecl) declNode()        {}
func (c *ConfigurableDecl) String() string { return "configurable " + c.Ident }

// TypeAliasDecl declares a type alias.
type TypeAliasDecl struct {
	declBase
	Aliased TypeArg
}

func (*TypeAliasDecl) declNode()        {}
func (t *TypeAliasDecl) String() string { return "type " + t.Ident }

// StorageDecl declares a contract's persistent storage block.
type StorageDecl struct {
	declBase
	Fields []StorageFieldDecl
}

func (*StorageDecl) declNode()        {}
func (s *StorageDecl) String() string { return "storage" }

// StorageFieldDecl is one field of the storage block, with an optional
// initializer expression.
type StorageFieldDecl struct {
	Name    string
	Type    TypeArg
	InValue Expr
	Span    ast.Span
}

// AbiDecl declares a contract ABI (the set of externally callable methods).
type AbiDecl struct {
	declBase
	Items []TraitItem
}

func (*AbiDecl) declNode()        {}
func (a *AbiDecl) String() string { return "abi " + a.Ident }
