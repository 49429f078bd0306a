package typeengine

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/errors"
)

// UnifyError is returned by Unify on a structural mismatch; callers convert
// it to a *errors.Report with errors.TY001 (spec §4.1 "Failure").
type UnifyError struct {
	Expected, Actual TypeId
	Span             ast.Span
}

func (u *UnifyError) Error() string {
	return fmt.Sprintf("type mismatch at %s", u.Span.Start)
}

// Unify proceeds structurally over a and b, binding Unknown/UnknownGeneric
// to the concrete side (with an occurs check over nested ids), refining
// Numeric to a concrete integer kind, and succeeding silently whenever
// either side is ErrorRecovery (spec §4.1). It mutates neither id in place;
// "binding" an Unknown is represented by returning its partner id as the
// unified result, which callers substitute into their own environment.
//
// Unify is symmetric: Unify(e, a, b) and Unify(e, b, a) yield the same
// success/failure verdict and (up to swapping which side was the unknown)
// the same resulting id (spec §8 invariant 2).
func (e *Engine) Unify(a, b TypeId, span ast.Span) (TypeId, *errors.Report) {
	a = e.Resolve(a)
	b = e.Resolve(b)
	ai, bi := e.Get(a), e.Get(b)

	if ai.Kind == KErrorRecovery {
		return b, nil
	}
	if bi.Kind == KErrorRecovery {
		return a, nil
	}
	if ai.Kind == KUnknown {
		return b, nil
	}
	if bi.Kind == KUnknown {
		return a, nil
	}
	if ai.Kind == KUnknownGeneric {
		if occurs(e, a, b) {
			return a, occursCheckFailed(e, a, b, span)
		}
		return b, nil
	}
	if bi.Kind == KUnknownGeneric {
		if occurs(e, b, a) {
			return b, occursCheckFailed(e, b, a, span)
		}
		return a, nil
	}
	if ai.Kind == KNumeric && bi.Kind == KUnsignedInteger {
		return b, nil
	}
	if bi.Kind == KNumeric && ai.Kind == KUnsignedInteger {
		return a, nil
	}
	if ai.Kind == KNumeric && bi.Kind == KNumeric {
		return a, nil
	}

	if ai.Kind != bi.Kind {
		return a, typeMismatch(e, a, b, span)
	}

	switch ai.Kind {
	case KBoolean, KB256, KPlaceholder, KContract:
		return a, nil
	case KUnsignedInteger:
		if ai.IntBits != bi.IntBits {
			return a, typeMismatch(e, a, b, span)
		}
		return a, nil
	case KString:
		if ai.StringLen != bi.StringLen {
			return a, typeMismatch(e, a, b, span)
		}
		return a, nil
	case KTuple:
		if len(ai.Elems) != len(bi.Elems) {
			return a, typeMismatch(e, a, b, span)
		}
		for i := range ai.Elems {
			if _, err := e.Unify(ai.Elems[i].Type, bi.Elems[i].Type, span); err != nil {
				return a, err
			}
		}
		return a, nil
	case KArray:
		if ai.ArrayLen != bi.ArrayLen {
			return a, typeMismatch(e, a, b, span)
		}
		if _, err := e.Unify(ai.Elem.Type, bi.Elem.Type, span); err != nil {
			return a, err
		}
		return a, nil
	case KSlice:
		if _, err := e.Unify(ai.Elem.Type, bi.Elem.Type, span); err != nil {
			return a, err
		}
		return a, nil
	case KStruct, KEnum:
		if ai.Decl != bi.Decl {
			return a, typeMismatch(e, a, b, span)
		}
		return a, nil
	case KCustom:
		if ai.CustomName != bi.CustomName || len(ai.CustomArgs) != len(bi.CustomArgs) {
			return a, typeMismatch(e, a, b, span)
		}
		for i := range ai.CustomArgs {
			if _, err := e.Unify(ai.CustomArgs[i].Type, bi.CustomArgs[i].Type, span); err != nil {
				return a, err
			}
		}
		return a, nil
	case KRef:
		if ai.RefToMut != bi.RefToMut {
			return a, typeMismatch(e, a, b, span)
		}
		if _, err := e.Unify(ai.RefTo, bi.RefTo, span); err != nil {
			return a, err
		}
		return a, nil
	case KContractCaller:
		if ai.AbiName != bi.AbiName {
			return a, typeMismatch(e, a, b, span)
		}
		return a, nil
	case KStorage:
		if len(ai.StorageFields) != len(bi.StorageFields) {
			return a, typeMismatch(e, a, b, span)
		}
		for i := range ai.StorageFields {
			if ai.StorageFields[i].Name != bi.StorageFields[i].Name {
				return a, typeMismatch(e, a, b, span)
			}
			if _, err := e.Unify(ai.StorageFields[i].Type, bi.StorageFields[i].Type, span); err != nil {
				return a, err
			}
		}
		return a, nil
	}
	return a, typeMismatch(e, a, b, span)
}

// occurs reports whether `needle` appears nested anywhere inside `haystack`,
// guarding UnknownGeneric binding against infinite types.
func occurs(e *Engine, needle, haystack TypeId) bool {
	haystack = e.Resolve(haystack)
	if haystack == needle {
		return true
	}
	info := e.Get(haystack)
	for _, arg := range info.Elems {
		if occurs(e, needle, arg.Type) {
			return true
		}
	}
	if info.Elem.Type != 0 && occurs(e, needle, info.Elem.Type) {
		return true
	}
	for _, arg := range info.CustomArgs {
		if occurs(e, needle, arg.Type) {
			return true
		}
	}
	if info.Kind == KRef && occurs(e, needle, info.RefTo) {
		return true
	}
	return false
}

func typeMismatch(e *Engine, a, b TypeId, span ast.Span) *errors.Report {
	s := span
	return errors.New(errors.TY001, fmt.Sprintf("type mismatch: expected %s, found %s", e.Name(a), e.Name(b)), &s,
		map[string]any{"expected": e.Name(a), "actual": e.Name(b)})
}

func occursCheckFailed(e *Engine, a, b TypeId, span ast.Span) *errors.Report {
	s := span
	return errors.New(errors.TY002, fmt.Sprintf("infinite type: %s occurs in %s", e.Name(a), e.Name(b)), &s, nil)
}

// IsSubsetOf implements the ⊑ ordering used when selecting the best trait
// impl for a type (spec §4.1, §8 invariant 3). It is reflexive, transitive,
// and stays within the bounds unification would also accept: a is a subset
// of b when a and b unify without widening b (b itself is not narrowed by
// the comparison), or trivially when a == b.
func (e *Engine) IsSubsetOf(a, b TypeId) bool {
	a, b = e.Resolve(a), e.Resolve(b)
	if a == b {
		return true
	}
	bi := e.Get(b)
	if bi.Kind == KUnknown || bi.Kind == KUnknownGeneric || bi.Kind == KPlaceholder {
		return true // b accepts anything: a is trivially a subset
	}
	ai := e.Get(a)
	if ai.Kind == KNumeric && bi.Kind == KUnsignedInteger {
		return true
	}
	if ai.Kind != bi.Kind {
		return false
	}
	switch ai.Kind {
	case KStruct, KEnum:
		return ai.Decl == bi.Decl
	case KCustom:
		if ai.CustomName != bi.CustomName || len(ai.CustomArgs) != len(bi.CustomArgs) {
			return false
		}
		for i := range ai.CustomArgs {
			if !e.IsSubsetOf(ai.CustomArgs[i].Type, bi.CustomArgs[i].Type) {
				return false
			}
		}
		return true
	case KTuple:
		if len(ai.Elems) != len(bi.Elems) {
			return false
		}
		for i := range ai.Elems {
			if !e.IsSubsetOf(ai.Elems[i].Type, bi.Elems[i].Type) {
				return false
			}
		}
		return true
	default:
		return e.structurallyEqual(a, b)
	}
}

// structurallyEqual is the explicit structural-equality operation called
// out in spec §3 ("Structural equality is a separate operation"), distinct
// from `a == b` identity comparison on TypeId.
func (e *Engine) structurallyEqual(a, b TypeId) bool {
	a, b = e.Resolve(a), e.Resolve(b)
	if a == b {
		return true
	}
	return e.Name(a) == e.Name(b)
}
