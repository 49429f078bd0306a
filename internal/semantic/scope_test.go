package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func TestScopeDeclareRejectsDuplicate(t *testing.T) {
	s := NewScope("root", untyped.KindContract, nil)
	err := s.Declare("foo", untyped.Public, declengine.DeclId{Kind: declengine.KindFunction, Idx: 0})
	assert.Nil(t, err)
	err = s.Declare("foo", untyped.Public, declengine.DeclId{Kind: declengine.KindFunction, Idx: 1})
	assert.NotNil(t, err)
	assert.Equal(t, "NR005", err.Code)
}

func TestScopeResolveRelativeFallsBackToParent(t *testing.T) {
	root := NewScope("root", untyped.KindContract, nil)
	id := declengine.DeclId{Kind: declengine.KindFunction, Idx: 0}
	assert.Nil(t, root.Declare("helper", untyped.Public, id))
	child := root.Child("inner", untyped.KindLibrary)

	got, err := child.Resolve(untyped.CallPath{Suffix: "helper"})
	assert.Nil(t, err)
	assert.Equal(t, id, got)
}

func TestScopeResolveUnknownSymbolReportsNR001(t *testing.T) {
	s := NewScope("root", untyped.KindContract, nil)
	_, err := s.Resolve(untyped.CallPath{Suffix: "nope"})
	assert.NotNil(t, err)
	assert.Equal(t, "NR001", err.Code)
}

func TestScopeResolvePrivateSymbolRejectedOutsideModule(t *testing.T) {
	root := NewScope("root", untyped.KindContract, nil)
	id := declengine.DeclId{Kind: declengine.KindFunction, Idx: 0}
	sibling := root.Child("a", untyped.KindLibrary)
	assert.Nil(t, sibling.Declare("secret", untyped.Private, id))

	other := root.Child("b", untyped.KindLibrary)
	_, err := other.Resolve(untyped.CallPath{IsAbsolute: true, Prefixes: []string{"a"}, Suffix: "secret"})
	assert.NotNil(t, err)
	assert.Equal(t, "NR003", err.Code)
}

func TestScopeDeclareNormalizesUnicodeIdentifier(t *testing.T) {
	s := NewScope("root", untyped.KindContract, nil)
	id := declengine.DeclId{Kind: declengine.KindFunction, Idx: 0}
	decomposed := "cafe\u0301"  // "e" + combining acute accent
	precomposed := "caf\u00e9" // precomposed "\u00e9"
	assert.NotEqual(t, decomposed, precomposed)

	assert.Nil(t, s.Declare(decomposed, untyped.Public, id))

	got, err := s.Resolve(untyped.CallPath{Suffix: precomposed})
	assert.Nil(t, err)
	assert.Equal(t, id, got)
}

func TestScopeResolveAbsolutePathFromRoot(t *testing.T) {
	root := NewScope("root", untyped.KindContract, nil)
	child := root.Child("mod", untyped.KindLibrary)
	id := declengine.DeclId{Kind: declengine.KindStruct, Idx: 0}
	assert.Nil(t, child.Declare("Thing", untyped.Public, id))

	other := root.Child("other", untyped.KindLibrary)
	got, err := other.Resolve(untyped.CallPath{IsAbsolute: true, Prefixes: []string{"mod"}, Suffix: "Thing"})
	assert.Nil(t, err)
	assert.Equal(t, id, got)
}
