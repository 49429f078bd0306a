// Package typeengine implements the compiler's type engine: a dense
// TypeId → TypeInfo interning table plus unification (spec §3 "Shared
// engines" and §4.1 "Type engine and unification"). Identity is by id, not
// by structure; structural equality is a separate, explicit operation.
package typeengine

import "fmt"

// TypeId is a dense index into the engine's type table. Types are never
// freed during a compilation (spec §3).
type TypeId int

// IntegerBits enumerates the fixed-width unsigned integer kinds.
type IntegerBits int

const (
	Bits8 IntegerBits = iota
	Bits16
	Bits32
	Bits64
	Bits256
)

func (b IntegerBits) String() string {
	switch b {
	case Bits8:
		return "u8"
	case Bits16:
		return "u16"
	case Bits32:
		return "u32"
	case Bits64:
		return "u64"
	case Bits256:
		return "u256"
	}
	return "u?"
}

// Kind is the discriminant of TypeInfo's tagged union (spec §3 "Types").
type Kind int

const (
	KUnknown Kind = iota
	KUnknownGeneric
	KPlaceholder
	KNumeric
	KBoolean
	KUnsignedInteger
	KB256
	KString
	KTuple
	KArray
	KSlice
	KStruct
	KEnum
	KCustom
	KContractCaller
	KAlias
	KRef
	KContract
	KStorage
	KErrorRecovery
)

// TypeArg wraps a type id used inside composite TypeInfo variants (spec §3:
// "Tuple(Vec<TypeArg>)" etc). It carries no span.
type TypeArg struct {
	Type TypeId
}

// StorageFieldTy names one field of a Storage type.
type StorageFieldTy struct {
	Name string
	Type TypeId
}

// TypeInfo is the (immutable once inserted) payload of a TypeId. Only the
// fields relevant to a type's Kind are populated; the engine never mutates
// an entry in place — unification learns facts by inserting/looking up
// fresh ids, never by rewriting TypeInfo values (spec §9 "Interning over
// pointers").
type TypeInfo struct {
	Kind Kind

	// KUnknownGeneric
	GenericName string

	// KUnsignedInteger
	IntBits IntegerBits

	// KString
	StringLen int

	// KTuple / KArray / KSlice
	Elems    []TypeArg // Tuple
	Elem     TypeArg   // Array/Slice element
	ArrayLen int

	// KStruct / KEnum
	Decl DeclRef

	// KCustom
	CustomName string
	CustomArgs []TypeArg

	// KContractCaller
	AbiName string
	Address *TypeArg

	// KAlias
	AliasName string
	AliasOf   TypeId

	// KRef
	RefToMut bool
	RefTo    TypeId

	// KStorage
	StorageFields []StorageFieldTy
}

// DeclRef is an opaque reference to a declengine.DeclId, kept untyped here
// (as a kind name and an index) so typeengine has no import-time dependency on
// declengine; declengine's DeclId[T] round-trips through these two fields.
type DeclRef struct {
	Kind string
	Id   int
}

// Engine owns the TypeId → TypeInfo table. It is process-scoped per
// compilation (spec §3, §5): functions take the engine by shared borrow,
// and the only mutation entry point is Insert, which either returns an
// existing id for a canonicalizable type or allocates a fresh one.
type Engine struct {
	table []TypeInfo

	// canonical caches the ids of types that Insert always shares, so two
	// requests for e.g. Boolean never allocate two ids.
	canonical map[canonKey]TypeId
}

type canonKey struct {
	kind Kind
	a    int
	b    int
	s    string
}

// New creates an empty type engine. Nothing is pre-seeded: Insert
// canonicalizes integers, booleans, unit-tuple and similar leaves to shared
// ids the first time each one is requested.
func New() *Engine {
	e := &Engine{canonical: make(map[canonKey]TypeId)}
	return e
}

// Insert adds a TypeInfo to the table, returning an existing id if the
// variant is one the engine canonicalizes (booleans, fixed integers, B256,
// the unit tuple, Unknown, ErrorRecovery), or a fresh id otherwise.
func (e *Engine) Insert(info TypeInfo) TypeId {
	if key, ok := canonicalKey(info); ok {
		if id, ok := e.canonical[key]; ok {
			return id
		}
		id := e.push(info)
		e.canonical[key] = id
		return id
	}
	return e.push(info)
}

func (e *Engine) push(info TypeInfo) TypeId {
	id := TypeId(len(e.table))
	e.table = append(e.table, info)
	return id
}

func canonicalKey(info TypeInfo) (canonKey, bool) {
	switch info.Kind {
	case KUnknown, KBoolean, KB256, KErrorRecovery, KPlaceholder, KContract:
		return canonKey{kind: info.Kind}, true
	case KNumeric:
		return canonKey{kind: info.Kind}, true
	case KUnsignedInteger:
		return canonKey{kind: info.Kind, a: int(info.IntBits)}, true
	case KString:
		return canonKey{kind: info.Kind, a: info.StringLen}, true
	case KTuple:
		if len(info.Elems) == 0 {
			return canonKey{kind: info.Kind}, true // unit type ()
		}
	case KUnknownGeneric:
		return canonKey{kind: info.Kind, s: info.GenericName}, true
	}
	return canonKey{}, false
}

// Get returns the TypeInfo for id. Panics on an id the engine never issued,
// matching the engines' "dense ids, never freed" invariant.
func (e *Engine) Get(id TypeId) TypeInfo {
	if int(id) < 0 || int(id) >= len(e.table) {
		panic(fmt.Sprintf("typeengine: unknown type id %d", id))
	}
	return e.table[id]
}

// Len reports how many ids have been issued (test/debug helper).
func (e *Engine) Len() int { return len(e.table) }

// Unknown, Boolean, ErrorRecovery etc. are convenience constructors over
// Insert for the leaf kinds used pervasively throughout the rest of the
// compiler.
func (e *Engine) Unknown() TypeId         { return e.Insert(TypeInfo{Kind: KUnknown}) }
func (e *Engine) Placeholder() TypeId     { return e.Insert(TypeInfo{Kind: KPlaceholder}) }
func (e *Engine) Numeric() TypeId         { return e.Insert(TypeInfo{Kind: KNumeric}) }
func (e *Engine) Boolean() TypeId         { return e.Insert(TypeInfo{Kind: KBoolean}) }
func (e *Engine) B256() TypeId            { return e.Insert(TypeInfo{Kind: KB256}) }
func (e *Engine) ErrorRecovery() TypeId   { return e.Insert(TypeInfo{Kind: KErrorRecovery}) }
func (e *Engine) Contract() TypeId        { return e.Insert(TypeInfo{Kind: KContract}) }
func (e *Engine) Unit() TypeId            { return e.Insert(TypeInfo{Kind: KTuple}) }
func (e *Engine) UnsignedInteger(b IntegerBits) TypeId {
	return e.Insert(TypeInfo{Kind: KUnsignedInteger, IntBits: b})
}
func (e *Engine) String(length int) TypeId {
	return e.Insert(TypeInfo{Kind: KString, StringLen: length})
}
func (e *Engine) UnknownGeneric(name string) TypeId {
	return e.Insert(TypeInfo{Kind: KUnknownGeneric, GenericName: name})
}
func (e *Engine) Tuple(elems ...TypeId) TypeId {
	args := make([]TypeArg, len(elems))
	for i, t := range elems {
		args[i] = TypeArg{Type: t}
	}
	return e.Insert(TypeInfo{Kind: KTuple, Elems: args})
}
func (e *Engine) Array(elem TypeId, length int) TypeId {
	return e.Insert(TypeInfo{Kind: KArray, Elem: TypeArg{Type: elem}, ArrayLen: length})
}
func (e *Engine) Slice(elem TypeId) TypeId {
	return e.Insert(TypeInfo{Kind: KSlice, Elem: TypeArg{Type: elem}})
}
func (e *Engine) Struct(decl DeclRef) TypeId { return e.Insert(TypeInfo{Kind: KStruct, Decl: decl}) }
func (e *Engine) Enum(decl DeclRef) TypeId   { return e.Insert(TypeInfo{Kind: KEnum, Decl: decl}) }
func (e *Engine) Ref(toMut bool, to TypeId) TypeId {
	return e.Insert(TypeInfo{Kind: KRef, RefToMut: toMut, RefTo: to})
}
func (e *Engine) Alias(name string, of TypeId) TypeId {
	return e.Insert(TypeInfo{Kind: KAlias, AliasName: name, AliasOf: of})
}
func (e *Engine) Storage(fields []StorageFieldTy) TypeId {
	return e.Insert(TypeInfo{Kind: KStorage, StorageFields: fields})
}
func (e *Engine) ContractCaller(abiName string, address *TypeId) TypeId {
	info := TypeInfo{Kind: KContractCaller, AbiName: abiName}
	if address != nil {
		info.Address = &TypeArg{Type: *address}
	}
	return e.Insert(info)
}
func (e *Engine) Custom(name string, args ...TypeId) TypeId {
	targs := make([]TypeArg, len(args))
	for i, a := range args {
		targs[i] = TypeArg{Type: a}
	}
	return e.Insert(TypeInfo{Kind: KCustom, CustomName: name, CustomArgs: targs})
}

// Resolve follows Alias chains to the underlying non-alias type id. It does
// not mutate the engine; aliasing is purely a lookup-time indirection.
func (e *Engine) Resolve(id TypeId) TypeId {
	seen := map[TypeId]bool{}
	for {
		info := e.Get(id)
		if info.Kind != KAlias {
			return id
		}
		if seen[id] {
			return id // cycle; caller reports TY006
		}
		seen[id] = true
		id = info.AliasOf
	}
}

// Name renders a human-readable type name, used by diagnostics (spec §4.1
// "both sides' rendered names").
func (e *Engine) Name(id TypeId) string {
	info := e.Get(id)
	switch info.Kind {
	case KUnknown:
		return "{unknown}"
	case KUnknownGeneric:
		return info.GenericName
	case KPlaceholder:
		return "_"
	case KNumeric:
		return "{numeric}"
	case KBoolean:
		return "bool"
	case KUnsignedInteger:
		return info.IntBits.String()
	case KB256:
		return "b256"
	case KString:
		return fmt.Sprintf("str[%d]", info.StringLen)
	case KTuple:
		if len(info.Elems) == 0 {
			return "()"
		}
		s := "("
		for i, el := range info.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.Name(el.Type)
		}
		return s + ")"
	case KArray:
		return fmt.Sprintf("[%s; %d]", e.Name(info.Elem.Type), info.ArrayLen)
	case KSlice:
		return fmt.Sprintf("[%s]", e.Name(info.Elem.Type))
	case KStruct:
		return fmt.Sprintf("struct#%d", info.Decl.Id)
	case KEnum:
		return fmt.Sprintf("enum#%d", info.Decl.Id)
	case KCustom:
		return info.CustomName
	case KContractCaller:
		return "ContractCaller<" + info.AbiName + ">"
	case KAlias:
		return info.AliasName
	case KRef:
		prefix := "&"
		if info.RefToMut {
			prefix = "&mut "
		}
		return prefix + e.Name(info.RefTo)
	case KContract:
		return "Contract"
	case KStorage:
		return "Storage"
	case KErrorRecovery:
		return "{error}"
	}
	return "{?}"
}
