package semantic

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// ResolveType turns a source-level TypeArg into a TypeId, looking up custom
// names (structs, enums, type aliases, generic parameters in scope) through
// the current Scope and the checker's generic-parameter environment.
func (c *Checker) ResolveType(s *Scope, generics map[string]typeengine.TypeId, t untyped.TypeArg) (typeengine.TypeId, *errors.Report) {
	if t.IsRef {
		inner, err := c.ResolveType(s, generics, t.Args[0])
		if err != nil {
			return 0, err
		}
		return c.Types.Ref(t.RefMut, inner), nil
	}
	name := t.Name.Suffix
	if len(t.Name.Prefixes) == 0 {
		switch name {
		case "u8":
			return c.Types.UnsignedInteger(typeengine.Bits8), nil
		case "u16":
			return c.Types.UnsignedInteger(typeengine.Bits16), nil
		case "u32":
			return c.Types.UnsignedInteger(typeengine.Bits32), nil
		case "u64":
			return c.Types.UnsignedInteger(typeengine.Bits64), nil
		case "u256":
			return c.Types.UnsignedInteger(typeengine.Bits256), nil
		case "bool":
			return c.Types.Boolean(), nil
		case "b256":
			return c.Types.B256(), nil
		case "str":
			return c.Types.String(0), nil
		case "()":
			return c.Types.Unit(), nil
		}
		if id, ok := generics[name]; ok {
			return id, nil
		}
	}
	declId, rerr := s.Resolve(t.Name)
	if rerr != nil {
		if len(t.Args) > 0 {
			// Not a declared struct/enum/alias: treat as an opaque custom
			// type (e.g. a not-yet-modeled library generic).
			argIds := make([]typeengine.TypeId, len(t.Args))
			for i, a := range t.Args {
				id, err := c.ResolveType(s, generics, a)
				if err != nil {
					return 0, err
				}
				argIds[i] = id
			}
			return c.Types.Custom(name, argIds...), nil
		}
		return c.Types.ErrorRecovery(), errors.New(errors.TY005, fmt.Sprintf("unknown type %q", t.Name.String()), nil, nil)
	}
	decl := c.Decls.Get(declId)
	switch declId.Kind {
	case declengine.KindStruct:
		return c.instantiateGeneric(s, generics, declId, decl.TypeParams, t.Args, c.Types.Struct)
	case declengine.KindEnum:
		return c.instantiateGeneric(s, generics, declId, decl.TypeParams, t.Args, c.Types.Enum)
	case declengine.KindTypeAlias:
		return decl.TypeAlias.Aliased, nil
	}
	return c.Types.ErrorRecovery(), errors.New(errors.TY005, fmt.Sprintf("%q does not name a type", t.Name.String()), nil, nil)
}

// instantiateGeneric specializes a struct/enum declaration when explicit
// type arguments are given at the annotation site, via CloneWithSubst; with
// no type arguments it returns the declaration's own type id unspecialized.
func (c *Checker) instantiateGeneric(
	s *Scope,
	generics map[string]typeengine.TypeId,
	declId declengine.DeclId,
	params []declengine.TypeParam,
	args []untyped.TypeArg,
	wrap func(typeengine.DeclRef) typeengine.TypeId,
) (typeengine.TypeId, *errors.Report) {
	if len(args) == 0 || len(params) != len(args) {
		return wrap(declId.ToTypeRef()), nil
	}
	subst := typeengine.Subst{}
	for i, p := range params {
		argId, err := c.ResolveType(s, generics, args[i])
		if err != nil {
			return 0, err
		}
		subst[p.TypeId] = argId
	}
	clonedId := c.Decls.CloneWithSubst(c.Types, declId, subst)
	return wrap(clonedId.ToTypeRef()), nil
}
