package semantic

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

// FindMethodForType resolves a method call `recv.name(...)` to the single
// best-matching impl method for recv's type, using IsSubsetOf (⊑) as the
// candidate ordering: an impl for a more specific type is preferred over a
// blanket/generic impl. Ambiguity between two equally specific candidates
// is reported as NR002.
func (c *Checker) FindMethodForType(s *Scope, recv typeengine.TypeId, name string) (declengine.DeclId, *errors.Report) {
	var best declengine.DeclId
	var bestImplFor typeengine.TypeId
	found := false
	ambiguous := false

	for scope := s; scope != nil; scope = scope.Parent {
		for _, ie := range scope.Impls {
			implDecl := c.Decls.Get(ie.Id).Impl
			if !c.Types.IsSubsetOf(recv, implDecl.ImplementingFor) {
				continue
			}
			for _, methodId := range implDecl.Items {
				m := c.Decls.Get(methodId)
				if m.Name != name {
					continue
				}
				if !found {
					best, bestImplFor, found = methodId, implDecl.ImplementingFor, true
					continue
				}
				switch {
				case c.Types.IsSubsetOf(implDecl.ImplementingFor, bestImplFor) && !c.Types.IsSubsetOf(bestImplFor, implDecl.ImplementingFor):
					best, bestImplFor = methodId, implDecl.ImplementingFor
					ambiguous = false
				case c.Types.IsSubsetOf(bestImplFor, implDecl.ImplementingFor):
					// existing candidate is at least as specific; keep it.
				default:
					ambiguous = true
				}
			}
		}
	}
	if !found {
		return declengine.DeclId{}, errors.New(errors.NR001, fmt.Sprintf("no method %q found for %s", name, c.Types.Name(recv)), nil, nil)
	}
	if ambiguous {
		return declengine.DeclId{}, errors.New(errors.NR002, fmt.Sprintf("ambiguous method call %q for %s", name, c.Types.Name(recv)), nil, nil)
	}
	return best, nil
}

// collectSubst structurally matches paramType (drawn from a declaration's
// signature, possibly containing that declaration's own UnknownGeneric type
// parameter ids) against the concrete argType a call site supplied,
// recording each generic parameter's inferred binding into subst. Mirrors
// the structural recursion in typeengine's occurs check and Apply.
func collectSubst(e *typeengine.Engine, paramType, argType typeengine.TypeId, subst typeengine.Subst) {
	pi := e.Get(e.Resolve(paramType))
	if pi.Kind == typeengine.KUnknownGeneric {
		if _, already := subst[paramType]; !already {
			subst[paramType] = argType
		}
		return
	}
	ai := e.Get(e.Resolve(argType))
	if pi.Kind != ai.Kind {
		return
	}
	switch pi.Kind {
	case typeengine.KTuple:
		for i := range pi.Elems {
			if i < len(ai.Elems) {
				collectSubst(e, pi.Elems[i].Type, ai.Elems[i].Type, subst)
			}
		}
	case typeengine.KArray, typeengine.KSlice:
		collectSubst(e, pi.Elem.Type, ai.Elem.Type, subst)
	case typeengine.KCustom:
		for i := range pi.CustomArgs {
			if i < len(ai.CustomArgs) {
				collectSubst(e, pi.CustomArgs[i].Type, ai.CustomArgs[i].Type, subst)
			}
		}
	case typeengine.KRef:
		collectSubst(e, pi.RefTo, ai.RefTo, subst)
	}
}
