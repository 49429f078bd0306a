// Package lower translates a type-checked function body (internal/typedtree)
// into internal/ir's block-argument SSA form. Every let-binding and
// parameter becomes a stack local (GetLocal/Store/Load); internal/iropt's
// Mem2Reg pass is what promotes the unaliased, single-block ones back into
// plain SSA values afterward, so this pass can stay a straightforward
// structural walk instead of doing its own SSA renaming.
package lower

import (
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

// Lowerer holds the shared engines a whole module's worth of functions lower
// against, plus a memo table so a struct/enum referenced from many call
// sites is only translated into an ir.Type once.
type Lowerer struct {
	Types *typeengine.Engine
	Decls *declengine.Engine

	typeCache map[typeengine.TypeId]ir.Type
}

// New creates a Lowerer over the engines a completed Checker produced.
func New(te *typeengine.Engine, de *declengine.Engine) *Lowerer {
	return &Lowerer{Types: te, Decls: de, typeCache: make(map[typeengine.TypeId]ir.Type)}
}

// LowerType converts a resolved typeengine.TypeId into the IR's own
// concrete Type lattice. Aliases are followed; every generic parameter is
// assumed already monomorphized away by the time lowering runs.
func (l *Lowerer) LowerType(id typeengine.TypeId) ir.Type {
	id = l.Types.Resolve(id)
	if t, ok := l.typeCache[id]; ok {
		return t
	}
	l.typeCache[id] = ir.Unit // breaks any cycle a struct field ever loops back through
	t := l.lowerTypeInfo(l.Types.Get(id))
	l.typeCache[id] = t
	return t
}

func (l *Lowerer) lowerTypeInfo(info typeengine.TypeInfo) ir.Type {
	switch info.Kind {
	case typeengine.KBoolean:
		return ir.Bool
	case typeengine.KUnsignedInteger:
		switch info.IntBits {
		case typeengine.Bits8:
			return ir.Uint8
		case typeengine.Bits16:
			return ir.Uint16
		case typeengine.Bits32:
			return ir.Uint32
		case typeengine.Bits256:
			return ir.Uint256
		default:
			return ir.Uint64
		}
	case typeengine.KB256:
		return ir.B256
	case typeengine.KString:
		return ir.Type{Kind: ir.KString}
	case typeengine.KTuple:
		if len(info.Elems) == 0 {
			return ir.Unit
		}
		fields := make([]ir.Type, len(info.Elems))
		for i, e := range info.Elems {
			fields[i] = l.LowerType(e.Type)
		}
		return ir.Struct("tuple", fields...)
	case typeengine.KArray:
		return ir.Array(l.LowerType(info.Elem.Type), info.ArrayLen)
	case typeengine.KSlice:
		return ir.Slice(l.LowerType(info.Elem.Type))
	case typeengine.KStruct:
		id := declengine.DeclId{Kind: declengine.KindStruct, Idx: info.Decl.Id}
		d := l.Decls.Get(id)
		fields := make([]ir.Type, len(d.Struct.Fields))
		for i, f := range d.Struct.Fields {
			fields[i] = l.LowerType(f.Type)
		}
		return ir.Struct(d.Name, fields...)
	case typeengine.KEnum:
		id := declengine.DeclId{Kind: declengine.KindEnum, Idx: info.Decl.Id}
		d := l.Decls.Get(id)
		variants := make([]ir.Type, len(d.Enum.Variants))
		for i, v := range d.Enum.Variants {
			if v.Type != nil {
				variants[i] = l.LowerType(*v.Type)
			} else {
				variants[i] = ir.Unit
			}
		}
		return ir.Union(d.Name, variants...)
	case typeengine.KRef:
		return ir.Pointer(l.LowerType(info.RefTo))
	case typeengine.KAlias:
		return l.LowerType(info.AliasOf)
	case typeengine.KContractCaller:
		return ir.B256 // a contract caller is just an address at runtime
	case typeengine.KContract, typeengine.KStorage:
		return ir.Unit // never materialize as a value; accessed through dedicated ops
	default:
		// KUnknown/KUnknownGeneric/KPlaceholder/KNumeric/KCustom/KErrorRecovery
		// mean type checking left something unresolved; a program that reaches
		// lowering should never carry one of these. Default rather than panic
		// so a checker bug surfaces as a wrong-looking function body instead of
		// an ICE in an unrelated package.
		return ir.Uint64
	}
}
