package ir

import "fmt"

// Type is the IR's own (post-monomorphization, fully concrete) type
// representation — deliberately distinct from typeengine.TypeId: by the
// time a typed tree lowers to IR every generic has already been
// substituted away, so the IR only ever needs to describe concrete memory
// layout (spec §4.2 "IR types describe layout, not surface syntax").
type Type struct {
	Kind     TypeKind
	IntBits  int // KUint
	Elem     *Type
	Len      int      // KArray
	Fields   []Type   // KStruct/KUnion, in declaration order
	Name     string   // KStruct/KUnion/KPointer target name, for diagnostics only
}

type TypeKind int

const (
	KInvalid TypeKind = iota
	KUnit
	KBool
	KUint
	KB256
	KString
	KArray
	KStruct
	KUnion // the IR's representation of a Sway enum: a tag + a union of payloads
	KPointer
	KSlice
)

var (
	Unit   = Type{Kind: KUnit}
	Bool   = Type{Kind: KBool}
	B256   = Type{Kind: KB256}
	Uint8  = Type{Kind: KUint, IntBits: 8}
	Uint16 = Type{Kind: KUint, IntBits: 16}
	Uint32 = Type{Kind: KUint, IntBits: 32}
	Uint64 = Type{Kind: KUint, IntBits: 64}
	Uint256 = Type{Kind: KUint, IntBits: 256}
)

// Pointer builds a pointer-to-elem type (spec §4.2's GetLocal/GetElemPtr
// results).
func Pointer(elem Type) Type { return Type{Kind: KPointer, Elem: &elem} }

// Array builds a fixed-length array type.
func Array(elem Type, length int) Type { return Type{Kind: KArray, Elem: &elem, Len: length} }

// Slice builds a dynamically-sized slice type.
func Slice(elem Type) Type { return Type{Kind: KSlice, Elem: &elem} }

// Struct builds a struct type from its field types in declaration order.
func Struct(name string, fields ...Type) Type { return Type{Kind: KStruct, Name: name, Fields: fields} }

// Union builds the IR's tagged-union representation of an enum: Fields
// holds each variant's payload type (Unit for unit variants), indexed by
// variant tag.
func Union(name string, variants ...Type) Type { return Type{Kind: KUnion, Name: name, Fields: variants} }

// ByteSize computes a type's in-memory size in bytes at each kind's natural
// width, with no rounding to word alignment: a struct is the plain sum of
// its fields and a union is 8 bytes plus its largest variant.
func (t Type) ByteSize() int {
	switch t.Kind {
	case KUnit:
		return 0
	case KBool:
		return 1
	case KUint:
		return t.IntBits / 8
	case KB256:
		return 32
	case KPointer:
		return 8
	case KString, KSlice:
		return 16 // (ptr, len) fat pointer
	case KArray:
		return t.Elem.ByteSize() * t.Len
	case KStruct:
		size := 0
		for _, f := range t.Fields {
			size += f.ByteSize()
		}
		return size
	case KUnion:
		max := 0
		for _, f := range t.Fields {
			if s := f.ByteSize(); s > max {
				max = s
			}
		}
		return 8 + max // 8-byte tag followed by the widest variant's payload
	}
	return 0
}

func (t Type) String() string {
	switch t.Kind {
	case KUnit:
		return "()"
	case KBool:
		return "bool"
	case KUint:
		return fmt.Sprintf("u%d", t.IntBits)
	case KB256:
		return "b256"
	case KString:
		return "str"
	case KArray:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
	case KSlice:
		return fmt.Sprintf("[%s]", t.Elem.String())
	case KPointer:
		return "*" + t.Elem.String()
	case KStruct:
		return "struct " + t.Name
	case KUnion:
		return "union " + t.Name
	}
	return "?"
}
