// Package declengine implements the declaration engine: the interning
// table for functions, structs, enums, traits, impls, constants, type
// aliases, storage, configurables, and abis (spec §3 "Declaration engine",
// spec §4.1 "Monomorphization").
package declengine

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

// Kind disambiguates what a DeclId refers to, playing the role of the
// spec's `T` type parameter on `DeclId<T>` (Go generics are deliberately
// avoided here to keep the engine's storage homogeneous and its replace/
// clone operations kind-agnostic, matching the teacher's own preference for
// plain data over generic containers).
type Kind int

const (
	KindFunction Kind = iota
	KindStruct
	KindEnum
	KindTrait
	KindImpl
	KindConstant
	KindTypeAlias
	KindStorage
	KindConfigurable
	KindAbi
)

func (k Kind) String() string { return kindNames[k] }

// DeclId is a kind-tagged dense id into the engine's table.
type DeclId struct {
	Kind Kind
	Idx  int
}

// ToTypeRef/FromTypeRef round-trip a DeclId through typeengine.DeclRef so
// the type engine can reference declarations without importing this
// package (spec §9 "Interning over pointers": engines reference each other
// only through dense ids).
func (id DeclId) ToTypeRef() typeengine.DeclRef {
	return typeengine.DeclRef{Kind: id.Kind.String(), Id: id.Idx}
}

var kindNames = [...]string{"function", "struct", "enum", "trait", "impl", "constant", "type-alias", "storage", "configurable", "abi"}

// FromTypeRef is ToTypeRef's inverse, used by internal/abi to walk back
// from a typeengine.TypeInfo's Decl field to the struct/enum declaration
// it names.
func FromTypeRef(ref typeengine.DeclRef) (DeclId, bool) {
	for i, n := range kindNames {
		if n == ref.Kind {
			return DeclId{Kind: Kind(i), Idx: ref.Id}, true
		}
	}
	return DeclId{}, false
}

// Decl is the common envelope every declaration kind shares (spec §3
// "Declarations": "Each declaration owns its span, identifier, visibility,
// [and] type parameters with trait constraints").
type Decl struct {
	Id         DeclId
	Name       string
	Visibility Visibility
	TypeParams []TypeParam
	Span       ast.Span

	Function     *FunctionDecl
	Struct       *StructDecl
	Enum         *EnumDecl
	Trait        *TraitDecl
	Impl         *ImplDecl
	Constant     *ConstantDecl
	TypeAlias    *TypeAliasDecl
	Storage      *StorageDecl
	Configurable *ConfigurableDecl
	Abi          *AbiDecl
}

type Visibility int

const (
	Private Visibility = iota
	Public
)

// TypeParam is a generic type parameter together with the trait ids it must
// satisfy (resolved trait DeclIds, not raw names, by the time the typed
// tree builder records it).
type TypeParam struct {
	Name        string
	TypeId      typeengine.TypeId // the UnknownGeneric type id standing for this parameter
	Constraints []DeclId          // trait declarations this parameter must satisfy
}

// FunctionDecl is a function's interned body (spec §3 and §4.3).
type FunctionDecl struct {
	Params     []FunctionParam
	ReturnType typeengine.TypeId
	Body       interface{} // *typedtree.TyCodeBlock; interface{} avoids an import cycle
	IsEntry    bool
	Selector   *[4]byte
}

type FunctionParam struct {
	Name string
	Type typeengine.TypeId
}

// StructDecl is an interned struct declaration.
type StructDecl struct {
	Fields []FieldDecl
}

type FieldDecl struct {
	Name string
	Type typeengine.TypeId
}

// EnumDecl is an interned enum declaration.
type EnumDecl struct {
	Variants []VariantDecl
}

type VariantDecl struct {
	Name string
	Tag  uint64
	Type *typeengine.TypeId
}

// TraitDecl is an interned trait declaration.
type TraitDecl struct {
	SuperTraits []DeclId
	Methods     []TraitMethod
}

type TraitMethod struct {
	Name       string
	Params     []FunctionParam
	ReturnType typeengine.TypeId
}

// ImplDecl records `impl Trait for Type` (spec §3: "Impls additionally
// carry implementing_for, trait_name, and a typed item list").
type ImplDecl struct {
	ImplementingFor typeengine.TypeId
	TraitName       DeclId // zero DeclId for inherent impls (HasTrait false)
	HasTrait        bool
	Items           []DeclId // KindFunction ids
}

// ConstantDecl is an interned constant, modeled with the three-state
// evaluation machine from spec §4.3.
type ConstantDecl struct {
	Type  typeengine.TypeId
	State ConstState
	Value interface{} // populated once State == Resolved
}

type ConstState int

const (
	Unresolved ConstState = iota
	Evaluating
	Resolved
)

// ConfigurableDecl extends ConstantDecl with the decode/byte-image fields
// the ABI emitter needs (spec GLOSSARY "Configurable").
type ConfigurableDecl struct {
	Type         typeengine.TypeId
	DecodedFrom  DeclId // KindFunction
	InitialBytes []byte
	State        ConstState
	Value        interface{}
}

// TypeAliasDecl is an interned `type X = Y` alias.
type TypeAliasDecl struct {
	Aliased typeengine.TypeId
}

// StorageDecl is the interned persistent-storage block (spec GLOSSARY
// "Storage key").
type StorageDecl struct {
	Fields []StorageFieldDecl
}

type StorageFieldDecl struct {
	Name   string
	Type   typeengine.TypeId
	Slot   [32]byte
	Offset uint64
	FieldId uint64
}

// AbiDecl is an interned contract ABI.
type AbiDecl struct {
	Methods []TraitMethod
}

// Engine owns the flat-per-kind declaration tables. Like typeengine.Engine,
// it never frees entries during a compilation and is mutated only through
// Insert/Replace (spec §5 "the mutable pieces... are walled behind
// insert/replace operations that take an exclusive borrow on exactly one
// table at a time").
type Engine struct {
	tables [10][]*Decl
}

// New creates an empty declaration engine.
func New() *Engine { return &Engine{} }

// Insert interns a new declaration, returning its fresh id.
func (e *Engine) Insert(d *Decl) DeclId {
	k := d.Id.Kind
	idx := len(e.tables[k])
	d.Id = DeclId{Kind: k, Idx: idx}
	e.tables[k] = append(e.tables[k], d)
	return d.Id
}

// Get retrieves a previously interned declaration.
func (e *Engine) Get(id DeclId) *Decl {
	if id.Kind < 0 || int(id.Kind) >= len(e.tables) || id.Idx < 0 || id.Idx >= len(e.tables[id.Kind]) {
		panic(fmt.Sprintf("declengine: unknown decl id %v", id))
	}
	return e.tables[id.Kind][id.Idx]
}

// All returns every id interned under kind, in insertion order (used by
// internal/abi to walk every function and configurable declaration
// when generating the program's ABI descriptor).
func (e *Engine) All(kind Kind) []DeclId {
	ids := make([]DeclId, len(e.tables[kind]))
	for i := range e.tables[kind] {
		ids[i] = DeclId{Kind: kind, Idx: i}
	}
	return ids
}

// Replace overwrites an already-interned declaration in place. Used by the
// constant-evaluation state machine (Unresolved → Evaluating → Resolved)
// and nowhere else: ordinary declarations are immutable once interned.
func (e *Engine) Replace(id DeclId, d *Decl) {
	d.Id = id
	e.tables[id.Kind][id.Idx] = d
}

// CloneWithSubst implements the declaration engine's half of
// monomorphization (spec §4.1 "clone the declaration into the declaration
// engine with every referenced type id replaced via subst"). It never
// mutates the source declaration; it builds a brand new Decl and interns it
// as a fresh id.
func (e *Engine) CloneWithSubst(te *typeengine.Engine, id DeclId, s typeengine.Subst) DeclId {
	src := e.Get(id)
	clone := &Decl{
		Name:       src.Name,
		Visibility: src.Visibility,
		Span:       src.Span,
		Id:         DeclId{Kind: id.Kind},
	}
	switch id.Kind {
	case KindFunction:
		f := src.Function
		params := make([]FunctionParam, len(f.Params))
		for i, p := range f.Params {
			params[i] = FunctionParam{Name: p.Name, Type: te.Apply(s, p.Type)}
		}
		clone.Function = &FunctionDecl{
			Params:     params,
			ReturnType: te.Apply(s, f.ReturnType),
			Body:       f.Body, // the typed body is re-specialized by the caller (semantic.Monomorphize)
			IsEntry:    f.IsEntry,
			Selector:   f.Selector,
		}
	case KindStruct:
		st := src.Struct
		fields := make([]FieldDecl, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = FieldDecl{Name: f.Name, Type: te.Apply(s, f.Type)}
		}
		clone.Struct = &StructDecl{Fields: fields}
	case KindEnum:
		en := src.Enum
		variants := make([]VariantDecl, len(en.Variants))
		for i, v := range en.Variants {
			nv := VariantDecl{Name: v.Name, Tag: v.Tag}
			if v.Type != nil {
				t := te.Apply(s, *v.Type)
				nv.Type = &t
			}
			variants[i] = nv
		}
		clone.Enum = &EnumDecl{Variants: variants}
	default:
		// Traits, impls, constants, aliases, storage, configurables, and
		// abis are never monomorphized directly in this core: only
		// functions, structs, and enums carry type parameters that flow
		// through call-site instantiation (spec §4.1's examples are all
		// function/struct instantiation). Constraint-bearing declarations
		// are consulted, not cloned.
		panic(fmt.Sprintf("declengine: CloneWithSubst unsupported for kind %s", id.Kind))
	}
	return e.Insert(clone)
}
