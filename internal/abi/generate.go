package abi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

type builder struct {
	decls *declengine.Engine
	types *typeengine.Engine

	concreteByKey  map[string]int
	concrete       []ConcreteType
	concreteMetaAt []int // parallel to concrete; index into metadata (pre-renumber), -1 if none

	metadataByDecl map[declengine.DeclId]int // pre-renumber index into metadata
	metadata       []MetadataType
}

// Generate builds the whole-module ABI descriptor: every public entry
// function's signature, the distinct types observed at every __log and
// __smo call site, and the configurable table (spec §4.9), deduplicating
// every type referenced along the way.
func Generate(decls *declengine.Engine, te *typeengine.Engine, mod *ir.Module, configOffsets map[string]uint64) (*Program, error) {
	b := &builder{
		decls: decls, types: te,
		concreteByKey:  map[string]int{},
		metadataByDecl: map[declengine.DeclId]int{},
	}

	var fns []Function
	for _, id := range decls.All(declengine.KindFunction) {
		d := decls.Get(id)
		if d.Function == nil || !d.Function.IsEntry {
			continue
		}
		var inputs []TypeApplication
		for _, p := range d.Function.Params {
			ctId, err := b.resolve(p.Type)
			if err != nil {
				return nil, fmt.Errorf("abi: function %s param %s: %w", d.Name, p.Name, err)
			}
			inputs = append(inputs, TypeApplication{Name: p.Name, ConcreteTypeId: ctId})
		}
		outId, err := b.resolve(d.Function.ReturnType)
		if err != nil {
			return nil, fmt.Errorf("abi: function %s return type: %w", d.Name, err)
		}
		fns = append(fns, Function{Name: d.Name, Inputs: inputs, Output: TypeApplication{Name: "", ConcreteTypeId: outId}})
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })

	logged, err := b.loggedTypes(mod)
	if err != nil {
		return nil, err
	}
	messages, err := b.messageTypes(mod)
	if err != nil {
		return nil, err
	}

	var configurables []Configurable
	for _, id := range decls.All(declengine.KindConfigurable) {
		d := decls.Get(id)
		ctId, err := b.resolve(d.Configurable.Type)
		if err != nil {
			return nil, fmt.Errorf("abi: configurable %s: %w", d.Name, err)
		}
		configurables = append(configurables, Configurable{Name: d.Name, ConcreteTypeId: ctId, Offset: configOffsets[d.Name]})
	}
	sort.Slice(configurables, func(i, j int) bool { return configurables[i].Name < configurables[j].Name })

	b.renumberMetadata()

	return &Program{
		EncodingVersion: EncodingVersion,
		ConcreteTypes:   b.concrete,
		MetadataTypes:   b.metadata,
		Functions:       fns,
		LoggedTypes:     logged,
		MessagesTypes:   messages,
		Configurables:   configurables,
	}, nil
}

// loggedTypes walks every ILog instruction in the module, pairing each
// distinct compile-time-known log id with the type of the value logged.
func (b *builder) loggedTypes(mod *ir.Module) ([]LoggedType, error) {
	seen := map[uint64]bool{}
	var out []LoggedType
	for _, fn := range mod.Functions {
		for _, blk := range fn.Blocks {
			for _, instr := range blk.Instructions {
				if instr.Op.Kind != ir.ILog {
					continue
				}
				id, ok := fn.ConstantOf(instr.Op.LogId.Id)
				if !ok || seen[id] {
					continue
				}
				seen[id] = true
				ctId, err := b.resolveIRType(instr.Op.LogVal.Type)
				if err != nil {
					return nil, fmt.Errorf("abi: logged type for log id %d: %w", id, err)
				}
				out = append(out, LoggedType{LogId: id, ConcreteTypeId: ctId})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogId < out[j].LogId })
	return out, nil
}

// messageTypes walks every ISmo instruction, deduplicating by the message
// data's concrete type.
func (b *builder) messageTypes(mod *ir.Module) ([]MessageType, error) {
	seen := map[string]bool{}
	var out []MessageType
	next := 0
	for _, fn := range mod.Functions {
		for _, blk := range fn.Blocks {
			for _, instr := range blk.Instructions {
				if instr.Op.Kind != ir.ISmo {
					continue
				}
				t := instr.Op.SmoMsgData.Type
				if t.Kind == ir.KPointer {
					t = *t.Elem
				}
				ctId, err := b.resolveIRType(t)
				if err != nil {
					return nil, fmt.Errorf("abi: message type: %w", err)
				}
				if seen[ctId] {
					continue
				}
				seen[ctId] = true
				out = append(out, MessageType{MessageId: next, ConcreteTypeId: ctId})
				next++
			}
		}
	}
	return out, nil
}

// resolveIRType mirrors resolve but for internal/ir.Type, the
// already-monomorphized layout type rather than a typeengine.TypeId --
// __log and __smo operate on IR values that never carried a TypeId of
// their own past lowering.
func (b *builder) resolveIRType(t ir.Type) (string, error) {
	switch t.Kind {
	case ir.KUnit:
		return b.leaf("()")
	case ir.KBool:
		return b.leaf("bool")
	case ir.KUint:
		return b.leaf(fmt.Sprintf("u%d", t.IntBits))
	case ir.KB256:
		return b.leaf("b256")
	case ir.KString:
		return b.leaf("str")
	case ir.KPointer:
		elem, err := b.resolveIRType(*t.Elem)
		if err != nil {
			return "", err
		}
		return b.composite(fmt.Sprintf("ptr %s", elem), []string{elem})
	case ir.KArray:
		elem, err := b.resolveIRType(*t.Elem)
		if err != nil {
			return "", err
		}
		return b.composite(fmt.Sprintf("[%s; %d]", elem, t.Len), []string{elem})
	case ir.KStruct, ir.KUnion:
		var args []string
		for _, f := range t.Fields {
			fid, err := b.resolveIRType(f)
			if err != nil {
				return "", err
			}
			args = append(args, fid)
		}
		kw := "struct"
		if t.Kind == ir.KUnion {
			kw = "enum"
		}
		return b.composite(fmt.Sprintf("%s %s", kw, t.Name), args)
	default:
		return b.leaf(t.String())
	}
}

// resolve computes (and interns, deduplicating) the ConcreteTypeId for a
// surface TypeId, recursing into composite members and threading
// struct/enum field names through a MetadataType (spec §4.9
// "metadata/concrete type deduplication").
func (b *builder) resolve(id typeengine.TypeId) (string, error) {
	info := b.types.Get(id)
	switch info.Kind {
	case typeengine.KBoolean:
		return b.leaf("bool")
	case typeengine.KUnsignedInteger:
		return b.leaf(info.IntBits.String())
	case typeengine.KB256:
		return b.leaf("b256")
	case typeengine.KString:
		return b.leaf(fmt.Sprintf("str[%d]", info.StringLen))
	case typeengine.KTuple:
		return b.tupleLike("(", ")", info.Elems)
	case typeengine.KArray:
		elemId, err := b.resolve(info.Elem.Type)
		if err != nil {
			return "", err
		}
		elemStr := b.concrete[b.concreteByKey[elemId]].Type
		return b.composite(fmt.Sprintf("[%s; %d]", elemStr, info.ArrayLen), []string{elemId})
	case typeengine.KSlice:
		elemId, err := b.resolve(info.Elem.Type)
		if err != nil {
			return "", err
		}
		elemStr := b.concrete[b.concreteByKey[elemId]].Type
		return b.composite(fmt.Sprintf("Vec<%s>", elemStr), []string{elemId})
	case typeengine.KStruct:
		return b.structOrEnum("struct", info.Decl)
	case typeengine.KEnum:
		return b.structOrEnum("enum", info.Decl)
	case typeengine.KAlias:
		return b.resolve(info.AliasOf)
	case typeengine.KRef:
		return b.resolve(info.RefTo)
	case typeengine.KContract:
		return b.leaf("contract")
	case typeengine.KContractCaller:
		return b.leaf(fmt.Sprintf("contract caller %s", info.AbiName))
	case typeengine.KCustom:
		return b.leaf(info.CustomName)
	default:
		return b.leaf("()")
	}
}

func (b *builder) tupleLike(open, close string, elems []typeengine.TypeArg) (string, error) {
	var args []string
	s := open
	for i, e := range elems {
		ctId, err := b.resolve(e.Type)
		if err != nil {
			return "", err
		}
		if i > 0 {
			s += ", "
		}
		s += b.concrete[b.concreteByKey[ctId]].Type
		args = append(args, ctId)
	}
	s += close
	return b.composite(s, args)
}

// structOrEnum resolves decl's struct/enum fields into a MetadataType
// (named components) and interns the matching ConcreteType referencing it.
func (b *builder) structOrEnum(kw string, ref typeengine.DeclRef) (string, error) {
	declId, ok := declengine.FromTypeRef(ref)
	if !ok {
		return b.leaf(kw + " <unresolved>")
	}
	if metaIdx, ok := b.metadataByDecl[declId]; ok {
		return b.concreteFromMetadata(metaIdx)
	}

	d := b.decls.Get(declId)
	metaIdx := len(b.metadata)
	b.metadata = append(b.metadata, MetadataType{Type: kw + " " + d.Name})
	b.metadataByDecl[declId] = metaIdx

	var components []TypeComponent
	switch kw {
	case "struct":
		for _, f := range d.Struct.Fields {
			ctId, err := b.resolve(f.Type)
			if err != nil {
				return "", err
			}
			components = append(components, TypeComponent{Name: f.Name, ConcreteTypeId: ctId})
		}
	case "enum":
		for _, v := range d.Enum.Variants {
			var ctId string
			var err error
			if v.Type != nil {
				ctId, err = b.resolve(*v.Type)
			} else {
				ctId, err = b.leaf("()")
			}
			if err != nil {
				return "", err
			}
			components = append(components, TypeComponent{Name: v.Name, ConcreteTypeId: ctId})
		}
	}
	b.metadata[metaIdx].Components = components
	return b.concreteFromMetadata(metaIdx)
}

func (b *builder) concreteFromMetadata(metaIdx int) (string, error) {
	typeStr := b.metadata[metaIdx].Type
	key := typeStr
	if idx, ok := b.concreteByKey[key]; ok {
		return b.concrete[idx].ConcreteTypeId, nil
	}
	ctId := hashType(typeStr)
	idx := len(b.concrete)
	b.concrete = append(b.concrete, ConcreteType{ConcreteTypeId: ctId, Type: typeStr})
	b.concreteMetaAt = append(b.concreteMetaAt, metaIdx)
	b.concreteByKey[key] = idx
	b.concreteByKey[ctId] = idx
	return ctId, nil
}

// leaf interns a ConcreteType with no type arguments and no metadata.
func (b *builder) leaf(typeStr string) (string, error) {
	return b.composite(typeStr, nil)
}

// composite interns a ConcreteType (deduplicating on its canonical type
// string) carrying the concrete type ids of its generic/member arguments.
func (b *builder) composite(typeStr string, args []string) (string, error) {
	if idx, ok := b.concreteByKey[typeStr]; ok {
		return b.concrete[idx].ConcreteTypeId, nil
	}
	ctId := hashType(typeStr)
	idx := len(b.concrete)
	b.concrete = append(b.concrete, ConcreteType{ConcreteTypeId: ctId, Type: typeStr, TypeArguments: args})
	b.concreteMetaAt = append(b.concreteMetaAt, -1)
	b.concreteByKey[typeStr] = idx
	b.concreteByKey[ctId] = idx
	return ctId, nil
}

// hashType computes a type's ConcreteTypeId as the hex SHA-256 digest of
// its canonical type string (spec §4.9, grounded on fuel_abi.rs's
// ConcreteTypeId derivation).
func hashType(typeStr string) string {
	sum := sha256.Sum256([]byte(typeStr))
	return hex.EncodeToString(sum[:])
}

// renumberMetadata sorts every gathered MetadataType alphabetically by its
// Type string and assigns the final, dense MetadataTypeId (spec §4.9
// "alphabetical sort + dense renumbering"), then backfills every
// ConcreteType that references one.
func (b *builder) renumberMetadata() {
	order := make([]int, len(b.metadata))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return b.metadata[order[i]].Type < b.metadata[order[j]].Type })

	finalId := make([]int, len(b.metadata)) // old index -> final id
	sorted := make([]MetadataType, len(b.metadata))
	for newId, oldIdx := range order {
		finalId[oldIdx] = newId
		m := b.metadata[oldIdx]
		m.MetadataTypeId = newId
		sorted[newId] = m
	}
	b.metadata = sorted

	for i, metaIdx := range b.concreteMetaAt {
		if metaIdx < 0 {
			continue
		}
		id := finalId[metaIdx]
		b.concrete[i].MetadataTypeId = &id
	}
}
