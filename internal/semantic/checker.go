package semantic

import (
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// Checker owns the shared engines a compilation unit threads through name
// resolution, type checking, constant evaluation, and method selection.
type Checker struct {
	Types   *typeengine.Engine
	Decls   *declengine.Engine
	Handler *errors.Handler
}

// NewChecker wires a fresh Checker around the given shared engines.
func NewChecker(types *typeengine.Engine, decls *declengine.Engine, h *errors.Handler) *Checker {
	return &Checker{Types: types, Decls: decls, Handler: h}
}

// CheckModule declares every item in mod (and its submodules) into scope,
// then type-checks function bodies, constant/configurable initializers, and
// storage initializers. It returns the root scope built for mod.
func (c *Checker) CheckModule(mod *untyped.Module, parent *Scope) *Scope {
	scope := NewScope(mod.Name, mod.Kind, parent)
	if parent != nil {
		parent.Submodules[mod.Name] = scope
	}
	for _, sub := range mod.Submodules {
		c.CheckModule(sub, scope)
	}
	for _, item := range mod.Items {
		c.declareItem(scope, item)
	}
	for _, item := range mod.Items {
		c.checkItemBody(scope, item)
	}
	return scope
}

// declGenerics builds the UnknownGeneric type-id environment for a
// declaration's type parameters, returning both the name->id map and the
// declengine.TypeParam list that env is generated from.
func (c *Checker) declGenerics(params []untyped.TypeParam) (map[string]typeengine.TypeId, []declengine.TypeParam) {
	env := make(map[string]typeengine.TypeId, len(params))
	out := make([]declengine.TypeParam, len(params))
	for i, p := range params {
		id := c.Types.UnknownGeneric(p.Name)
		env[p.Name] = id
		out[i] = declengine.TypeParam{Name: p.Name, TypeId: id}
	}
	return env, out
}

func (c *Checker) declareItem(s *Scope, item untyped.Decl) {
	switch d := item.(type) {
	case *untyped.FunctionDecl:
		c.declareFunction(s, d)
	case *untyped.StructDecl:
		c.declareStruct(s, d)
	case *untyped.EnumDecl:
		c.declareEnum(s, d)
	case *untyped.TraitDecl:
		c.declareTrait(s, d)
	case *untyped.ImplDecl:
		c.declareImpl(s, d)
	case *untyped.ConstantDecl:
		c.declareConstant(s, d)
	case *untyped.ConfigurableDecl:
		c.declareConfigurable(s, d)
	case *untyped.TypeAliasDecl:
		c.declareTypeAlias(s, d)
	case *untyped.StorageDecl:
		c.declareStorage(s, d)
	case *untyped.AbiDecl:
		c.declareAbi(s, d)
	}
}

func (c *Checker) declareFunction(s *Scope, d *untyped.FunctionDecl) declengine.DeclId {
	generics, typeParams := c.declGenerics(d.TypeParams)
	params := make([]declengine.FunctionParam, len(d.Params))
	for i, p := range d.Params {
		t, err := c.ResolveType(s, generics, p.Type)
		c.Handler.Add(err)
		params[i] = declengine.FunctionParam{Name: p.Name, Type: t}
	}
	retType, err := c.ResolveType(s, generics, d.ReturnType)
	c.Handler.Add(err)
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		TypeParams: typeParams,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindFunction},
		Function: &declengine.FunctionDecl{
			Params:     params,
			ReturnType: retType,
			IsEntry:    d.IsEntry,
			Selector:   d.Selector,
		},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareStruct(s *Scope, d *untyped.StructDecl) declengine.DeclId {
	generics, typeParams := c.declGenerics(d.TypeParams)
	fields := make([]declengine.FieldDecl, len(d.Fields))
	for i, f := range d.Fields {
		t, err := c.ResolveType(s, generics, f.Type)
		c.Handler.Add(err)
		fields[i] = declengine.FieldDecl{Name: f.Name, Type: t}
	}
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		TypeParams: typeParams,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindStruct},
		Struct:     &declengine.StructDecl{Fields: fields},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareEnum(s *Scope, d *untyped.EnumDecl) declengine.DeclId {
	generics, typeParams := c.declGenerics(d.TypeParams)
	variants := make([]declengine.VariantDecl, len(d.Variants))
	for i, v := range d.Variants {
		nv := declengine.VariantDecl{Name: v.Name, Tag: v.Tag}
		if v.Type != nil {
			t, err := c.ResolveType(s, generics, *v.Type)
			c.Handler.Add(err)
			nv.Type = &t
		}
		variants[i] = nv
	}
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		TypeParams: typeParams,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindEnum},
		Enum:       &declengine.EnumDecl{Variants: variants},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareTrait(s *Scope, d *untyped.TraitDecl) declengine.DeclId {
	generics, typeParams := c.declGenerics(d.TypeParams)
	var super []declengine.DeclId
	for _, st := range d.SuperTraits {
		if id, err := s.Resolve(st); err == nil {
			super = append(super, id)
		} else {
			c.Handler.Add(err)
		}
	}
	methods := make([]declengine.TraitMethod, len(d.Items))
	for i, item := range d.Items {
		methods[i] = c.traitMethodSig(s, generics, item)
	}
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		TypeParams: typeParams,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindTrait},
		Trait:      &declengine.TraitDecl{SuperTraits: super, Methods: methods},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) traitMethodSig(s *Scope, generics map[string]typeengine.TypeId, item untyped.TraitItem) declengine.TraitMethod {
	params := make([]declengine.FunctionParam, len(item.Params))
	for i, p := range item.Params {
		t, err := c.ResolveType(s, generics, p.Type)
		c.Handler.Add(err)
		params[i] = declengine.FunctionParam{Name: p.Name, Type: t}
	}
	ret, err := c.ResolveType(s, generics, item.ReturnType)
	c.Handler.Add(err)
	return declengine.TraitMethod{Name: item.Name, Params: params, ReturnType: ret}
}

func (c *Checker) declareImpl(s *Scope, d *untyped.ImplDecl) declengine.DeclId {
	generics, typeParams := c.declGenerics(d.TypeParams)
	implFor, err := c.ResolveType(s, generics, d.ImplementingFor)
	c.Handler.Add(err)
	var traitId declengine.DeclId
	hasTrait := d.TraitName.Suffix != ""
	if hasTrait {
		traitId, err = s.Resolve(d.TraitName)
		c.Handler.Add(err)
	}
	var itemIds []declengine.DeclId
	for _, fn := range d.Items {
		itemIds = append(itemIds, c.declareFunction(s, fn))
	}
	decl := &declengine.Decl{
		Name:       "impl",
		Visibility: untypedVisToDecl(d.Vis),
		TypeParams: typeParams,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindImpl},
		Impl: &declengine.ImplDecl{
			ImplementingFor: implFor,
			TraitName:       traitId,
			HasTrait:        hasTrait,
			Items:           itemIds,
		},
	}
	id := c.Decls.Insert(decl)
	s.Impls = append(s.Impls, implEntry{Id: id})
	return id
}

func (c *Checker) declareConstant(s *Scope, d *untyped.ConstantDecl) declengine.DeclId {
	generics := map[string]typeengine.TypeId{}
	t := c.Types.Unknown()
	if d.Type != nil {
		resolved, err := c.ResolveType(s, generics, *d.Type)
		c.Handler.Add(err)
		t = resolved
	}
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindConstant},
		Constant:   &declengine.ConstantDecl{Type: t, State: declengine.Unresolved},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareConfigurable(s *Scope, d *untyped.ConfigurableDecl) declengine.DeclId {
	generics := map[string]typeengine.TypeId{}
	t, err := c.ResolveType(s, generics, d.Type)
	c.Handler.Add(err)
	decl := &declengine.Decl{
		Name:         d.Ident,
		Visibility:   declengine.Visibility(d.Vis),
		Span:         d.SpanVal,
		Id:           declengine.DeclId{Kind: declengine.KindConfigurable},
		Configurable: &declengine.ConfigurableDecl{Type: t, State: declengine.Unresolved},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareTypeAlias(s *Scope, d *untyped.TypeAliasDecl) declengine.DeclId {
	generics := map[string]typeengine.TypeId{}
	t, err := c.ResolveType(s, generics, d.Aliased)
	c.Handler.Add(err)
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindTypeAlias},
		TypeAlias:  &declengine.TypeAliasDecl{Aliased: t},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func (c *Checker) declareStorage(s *Scope, d *untyped.StorageDecl) declengine.DeclId {
	generics := map[string]typeengine.TypeId{}
	fields := make([]declengine.StorageFieldDecl, len(d.Fields))
	for i, f := range d.Fields {
		t, err := c.ResolveType(s, generics, f.Type)
		c.Handler.Add(err)
		fields[i] = declengine.StorageFieldDecl{Name: f.Name, Type: t, FieldId: uint64(i)}
	}
	decl := &declengine.Decl{
		Name:       "storage",
		Visibility: declengine.Private,
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindStorage},
		Storage:    &declengine.StorageDecl{Fields: fields},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare("storage", untyped.Private, id))
	return id
}

func (c *Checker) declareAbi(s *Scope, d *untyped.AbiDecl) declengine.DeclId {
	generics := map[string]typeengine.TypeId{}
	methods := make([]declengine.TraitMethod, len(d.Items))
	for i, item := range d.Items {
		methods[i] = c.traitMethodSig(s, generics, item)
	}
	decl := &declengine.Decl{
		Name:       d.Ident,
		Visibility: declengine.Visibility(d.Vis),
		Span:       d.SpanVal,
		Id:         declengine.DeclId{Kind: declengine.KindAbi},
		Abi:        &declengine.AbiDecl{Methods: methods},
	}
	id := c.Decls.Insert(decl)
	c.Handler.Add(s.Declare(d.Ident, d.Vis, id))
	return id
}

func untypedVisToDecl(v untyped.Visibility) declengine.Visibility {
	return declengine.Visibility(v)
}

// typeEnv is the lexical type environment inside a function body: a stack
// of scopes mapping local names to their resolved TypeId, newest first.
type typeEnv struct {
	parent *typeEnv
	vars   map[string]typeengine.TypeId
}

func newTypeEnv(parent *typeEnv) *typeEnv {
	return &typeEnv{parent: parent, vars: map[string]typeengine.TypeId{}}
}

func (e *typeEnv) bind(name string, t typeengine.TypeId) { e.vars[name] = t }

func (e *typeEnv) lookup(name string) (typeengine.TypeId, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return 0, false
}

// checkItemBody type-checks the parts of a declaration that contain
// expressions: function bodies, constant/configurable initializers. Struct/
// enum/trait/alias/storage-signature declarations have nothing left to
// check once declared.
func (c *Checker) checkItemBody(s *Scope, item untyped.Decl) {
	switch d := item.(type) {
	case *untyped.FunctionDecl:
		c.checkFunctionBody(s, d)
	case *untyped.ImplDecl:
		for _, fn := range d.Items {
			c.checkFunctionBody(s, fn)
		}
	case *untyped.ConstantDecl:
		c.EvaluateConstant(s, d)
	case *untyped.ConfigurableDecl:
		c.EvaluateConfigurable(s, d)
	}
}

func (c *Checker) checkFunctionBody(s *Scope, d *untyped.FunctionDecl) {
	id, err := s.Resolve(untyped.CallPath{Suffix: d.Ident})
	if err != nil {
		return
	}
	decl := c.Decls.Get(id)
	env := newTypeEnv(nil)
	for _, p := range decl.Function.Params {
		env.bind(p.Name, p.Type)
	}
	body := c.checkStmts(s, env, d.Body, decl.Function.ReturnType)
	decl.Function.Body = body
	c.Decls.Replace(id, decl)
}
