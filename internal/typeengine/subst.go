package typeengine

// Subst is a substitution map from a polymorphic declaration's type
// parameter ids to the concrete type ids supplied at an instantiation site
// (spec §4.1 "Monomorphization").
type Subst map[TypeId]TypeId

// Apply rewrites id by replacing every substitutable occurrence with its
// mapped concrete id, inserting fresh composite TypeInfo entries for any
// node whose children changed. It is purely structural: the original id's
// table entry is never mutated (spec §4.1 "Substitution must be purely
// structural and must never mutate the original").
func (e *Engine) Apply(s Subst, id TypeId) TypeId {
	if len(s) == 0 {
		return id
	}
	if repl, ok := s[id]; ok {
		return repl
	}
	info := e.Get(id)
	switch info.Kind {
	case KTuple:
		changed := false
		elems := make([]TypeArg, len(info.Elems))
		for i, el := range info.Elems {
			newT := e.Apply(s, el.Type)
			elems[i] = TypeArg{Type: newT}
			changed = changed || newT != el.Type
		}
		if !changed {
			return id
		}
		return e.Insert(TypeInfo{Kind: KTuple, Elems: elems})
	case KArray:
		newElem := e.Apply(s, info.Elem.Type)
		if newElem == info.Elem.Type {
			return id
		}
		return e.Insert(TypeInfo{Kind: KArray, Elem: TypeArg{Type: newElem}, ArrayLen: info.ArrayLen})
	case KSlice:
		newElem := e.Apply(s, info.Elem.Type)
		if newElem == info.Elem.Type {
			return id
		}
		return e.Insert(TypeInfo{Kind: KSlice, Elem: TypeArg{Type: newElem}})
	case KCustom:
		changed := false
		args := make([]TypeArg, len(info.CustomArgs))
		for i, a := range info.CustomArgs {
			newT := e.Apply(s, a.Type)
			args[i] = TypeArg{Type: newT}
			changed = changed || newT != a.Type
		}
		if !changed {
			return id
		}
		return e.Insert(TypeInfo{Kind: KCustom, CustomName: info.CustomName, CustomArgs: args})
	case KRef:
		newTo := e.Apply(s, info.RefTo)
		if newTo == info.RefTo {
			return id
		}
		return e.Insert(TypeInfo{Kind: KRef, RefToMut: info.RefToMut, RefTo: newTo})
	case KAlias:
		newOf := e.Apply(s, info.AliasOf)
		if newOf == info.AliasOf {
			return id
		}
		return e.Insert(TypeInfo{Kind: KAlias, AliasName: info.AliasName, AliasOf: newOf})
	case KStorage:
		changed := false
		fields := make([]StorageFieldTy, len(info.StorageFields))
		for i, f := range info.StorageFields {
			newT := e.Apply(s, f.Type)
			fields[i] = StorageFieldTy{Name: f.Name, Type: newT}
			changed = changed || newT != f.Type
		}
		if !changed {
			return id
		}
		return e.Insert(TypeInfo{Kind: KStorage, StorageFields: fields})
	default:
		// Leaves (Unknown, Boolean, UnsignedInteger, B256, String, Struct,
		// Enum, ContractCaller, Contract, ErrorRecovery, Placeholder) carry
		// no nested type ids and are returned unchanged.
		return id
	}
}

// ApplyCommutesWithUnify is documented, not executed: spec §8 invariant 2
// requires subst(unify(a,b), θ) == unify(subst(a,θ), subst(b,θ)). The
// property holds here because Apply and Unify both recurse structurally
// over the same TypeInfo shape and never special-case based on anything
// other than each node's own Kind; TestApplyCommutesWithUnify in
// subst_test.go checks one instance of it.
