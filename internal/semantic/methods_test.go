package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

func declareInherentMethod(c *Checker, s *Scope, implFor typeengine.TypeId, name string) declengine.DeclId {
	methodId := c.Decls.Insert(&declengine.Decl{
		Name: name,
		Id:   declengine.DeclId{Kind: declengine.KindFunction},
		Function: &declengine.FunctionDecl{
			ReturnType: c.Types.Unit(),
		},
	})
	implId := c.Decls.Insert(&declengine.Decl{
		Name: "impl",
		Id:   declengine.DeclId{Kind: declengine.KindImpl},
		Impl: &declengine.ImplDecl{
			ImplementingFor: implFor,
			Items:           []declengine.DeclId{methodId},
		},
	})
	s.Impls = append(s.Impls, implEntry{Id: implId})
	return methodId
}

func TestFindMethodForTypeFindsSingleCandidate(t *testing.T) {
	c, s := newTestChecker()
	u64 := c.Types.UnsignedInteger(typeengine.Bits64)
	want := declareInherentMethod(c, s, u64, "double")

	got, err := c.FindMethodForType(s, u64, "double")
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

func TestFindMethodForTypeReportsNR001WhenNotFound(t *testing.T) {
	c, s := newTestChecker()
	u64 := c.Types.UnsignedInteger(typeengine.Bits64)
	_, err := c.FindMethodForType(s, u64, "missing")
	assert.NotNil(t, err)
	assert.Equal(t, "NR001", err.Code)
}

func TestFindMethodForTypePrefersMoreSpecificImpl(t *testing.T) {
	c, s := newTestChecker()
	u64 := c.Types.UnsignedInteger(typeengine.Bits64)
	blanket := c.Types.UnknownGeneric("T")
	declareInherentMethod(c, s, blanket, "kind")
	specific := declareInherentMethod(c, s, u64, "kind")

	got, err := c.FindMethodForType(s, u64, "kind")
	assert.Nil(t, err)
	assert.Equal(t, specific, got)
}

func TestCollectSubstBindsGenericFromConcreteTuple(t *testing.T) {
	c, _ := newTestChecker()
	tp := c.Types.UnknownGeneric("T")
	u8 := c.Types.UnsignedInteger(typeengine.Bits8)
	paramType := c.Types.Tuple(tp, tp)
	argType := c.Types.Tuple(u8, u8)

	subst := typeengine.Subst{}
	collectSubst(c.Types, paramType, argType, subst)
	assert.Equal(t, u8, subst[tp])
}
