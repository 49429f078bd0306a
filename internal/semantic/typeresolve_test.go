package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func newTestChecker() (*Checker, *Scope) {
	types := typeengine.New()
	decls := declengine.New()
	c := NewChecker(types, decls, errors.NewHandler())
	return c, NewScope("root", untyped.KindContract, nil)
}

func typeArg(name string) untyped.TypeArg {
	return untyped.TypeArg{Name: untyped.CallPath{Suffix: name}}
}

func TestResolveTypeBuiltinPrimitives(t *testing.T) {
	c, s := newTestChecker()
	id, err := c.ResolveType(s, nil, typeArg("u64"))
	assert.Nil(t, err)
	assert.Equal(t, typeengine.KUnsignedInteger, c.Types.Get(id).Kind)
	assert.Equal(t, typeengine.Bits64, c.Types.Get(id).IntBits)
}

func TestResolveTypeGenericParameterFromEnv(t *testing.T) {
	c, s := newTestChecker()
	gid := c.Types.UnknownGeneric("T")
	id, err := c.ResolveType(s, map[string]typeengine.TypeId{"T": gid}, typeArg("T"))
	assert.Nil(t, err)
	assert.Equal(t, gid, id)
}

func TestResolveTypeUnknownNameReportsTY005(t *testing.T) {
	c, s := newTestChecker()
	_, err := c.ResolveType(s, nil, typeArg("Nonexistent"))
	assert.NotNil(t, err)
	assert.Equal(t, "TY005", err.Code)
}

func TestResolveTypeRef(t *testing.T) {
	c, s := newTestChecker()
	arg := untyped.TypeArg{IsRef: true, RefMut: true, Args: []untyped.TypeArg{typeArg("bool")}}
	id, err := c.ResolveType(s, nil, arg)
	assert.Nil(t, err)
	info := c.Types.Get(id)
	assert.Equal(t, typeengine.KRef, info.Kind)
	assert.True(t, info.RefToMut)
}

func TestInstantiateGenericStructWithExplicitArgs(t *testing.T) {
	c, s := newTestChecker()
	tp := c.Types.UnknownGeneric("T")
	declId := c.Decls.Insert(&declengine.Decl{
		Name:       "Wrapper",
		TypeParams: []declengine.TypeParam{{Name: "T", TypeId: tp}},
		Id:         declengine.DeclId{Kind: declengine.KindStruct},
		Struct: &declengine.StructDecl{
			Fields: []declengine.FieldDecl{{Name: "inner", Type: tp}},
		},
	})
	assert.Nil(t, s.Declare("Wrapper", untyped.Public, declId))

	arg := untyped.TypeArg{Name: untyped.CallPath{Suffix: "Wrapper"}, Args: []untyped.TypeArg{typeArg("u64")}}
	id, err := c.ResolveType(s, nil, arg)
	assert.Nil(t, err)
	info := c.Types.Get(id)
	assert.Equal(t, typeengine.KStruct, info.Kind)
	cloned := c.Decls.Get(declengine.DeclId{Kind: declengine.KindStruct, Idx: info.Decl.Id})
	fieldType := cloned.Struct.Fields[0].Type
	assert.Equal(t, typeengine.KUnsignedInteger, c.Types.Get(fieldType).Kind)
}
