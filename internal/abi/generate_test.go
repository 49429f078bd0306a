package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

func TestGenerateEmptyModuleProducesEmptyProgram(t *testing.T) {
	decls := declengine.New()
	te := typeengine.New()

	prog, err := Generate(decls, te, &ir.Module{}, nil)
	require.NoError(t, err)
	assert.Equal(t, EncodingVersion, prog.EncodingVersion)
	assert.Empty(t, prog.Functions)
	assert.Empty(t, prog.ConcreteTypes)
	assert.Empty(t, prog.Configurables)
}

func TestGenerateIncludesOnlyEntryFunctionsSortedByName(t *testing.T) {
	decls := declengine.New()
	te := typeengine.New()

	u64 := te.UnsignedInteger(typeengine.Bits64)
	boolT := te.Boolean()

	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "zeta", Function: &declengine.FunctionDecl{
		Params:     []declengine.FunctionParam{{Name: "x", Type: u64}},
		ReturnType: boolT,
		IsEntry:    true,
	}})
	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "alpha", Function: &declengine.FunctionDecl{
		ReturnType: boolT,
		IsEntry:    true,
	}})
	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "internal_only", Function: &declengine.FunctionDecl{
		ReturnType: boolT,
		IsEntry:    false,
	}})

	prog, err := Generate(decls, te, &ir.Module{}, nil)
	require.NoError(t, err)
	require.Len(t, prog.Functions, 2)
	assert.Equal(t, "alpha", prog.Functions[0].Name)
	assert.Equal(t, "zeta", prog.Functions[1].Name)
	require.Len(t, prog.Functions[1].Inputs, 1)
	assert.Equal(t, "x", prog.Functions[1].Inputs[0].Name)
}

func TestGenerateDedupesIdenticalConcreteTypes(t *testing.T) {
	decls := declengine.New()
	te := typeengine.New()

	u8 := te.UnsignedInteger(typeengine.Bits8)
	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "f1", Function: &declengine.FunctionDecl{
		Params:     []declengine.FunctionParam{{Name: "a", Type: u8}},
		ReturnType: u8,
		IsEntry:    true,
	}})
	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "f2", Function: &declengine.FunctionDecl{
		Params:     []declengine.FunctionParam{{Name: "b", Type: u8}},
		ReturnType: u8,
		IsEntry:    true,
	}})

	prog, err := Generate(decls, te, &ir.Module{}, nil)
	require.NoError(t, err)
	require.Len(t, prog.ConcreteTypes, 1)
	assert.Equal(t, "u8", prog.ConcreteTypes[0].Type)
}

func TestGenerateConfigurablesCarryOffsetFromMap(t *testing.T) {
	decls := declengine.New()
	te := typeengine.New()

	u64 := te.UnsignedInteger(typeengine.Bits64)
	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindConfigurable}, Name: "FEE", Configurable: &declengine.ConfigurableDecl{
		Type: u64,
	}})

	prog, err := Generate(decls, te, &ir.Module{}, map[string]uint64{"FEE": 40})
	require.NoError(t, err)
	require.Len(t, prog.Configurables, 1)
	assert.Equal(t, "FEE", prog.Configurables[0].Name)
	assert.Equal(t, uint64(40), prog.Configurables[0].Offset)
}

func TestGenerateStructProducesMetadataTypeWithComponents(t *testing.T) {
	decls := declengine.New()
	te := typeengine.New()

	u64 := te.UnsignedInteger(typeengine.Bits64)
	structId := declengine.DeclId{Kind: declengine.KindStruct}
	decls.Insert(&declengine.Decl{Id: structId, Name: "Point", Struct: &declengine.StructDecl{
		Fields: []declengine.FieldDecl{{Name: "x", Type: u64}, {Name: "y", Type: u64}},
	}})

	structType := te.Insert(typeengine.TypeInfo{Kind: typeengine.KStruct, Decl: structId.ToTypeRef()})

	decls.Insert(&declengine.Decl{Id: declengine.DeclId{Kind: declengine.KindFunction}, Name: "origin", Function: &declengine.FunctionDecl{
		ReturnType: structType,
		IsEntry:    true,
	}})

	prog, err := Generate(decls, te, &ir.Module{}, nil)
	require.NoError(t, err)
	require.Len(t, prog.MetadataTypes, 1)
	assert.Equal(t, "struct Point", prog.MetadataTypes[0].Type)
	require.Len(t, prog.MetadataTypes[0].Components, 2)
	assert.Equal(t, "x", prog.MetadataTypes[0].Components[0].Name)

	require.Len(t, prog.ConcreteTypes, 2)
	require.NotNil(t, prog.ConcreteTypes[1].MetadataTypeId)
	assert.Equal(t, 0, *prog.ConcreteTypes[1].MetadataTypeId)
}
