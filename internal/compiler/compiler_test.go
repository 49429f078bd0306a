package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/codegen"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/manifest"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
	"github.com/fuellabs-lite/swayc/internal/untyped"
	"github.com/fuellabs-lite/swayc/internal/vasm"
)

func TestLiteralBitsSupportedKinds(t *testing.T) {
	cases := []struct {
		value interface{}
		want  uint64
	}{
		{uint8(5), 5},
		{uint16(300), 300},
		{uint32(70000), 70000},
		{uint64(1) << 40, 1 << 40},
		{true, 1},
		{false, 0},
	}
	for _, c := range cases {
		got, err := literalBits(&typedtree.TyLiteral{Value: c.value})
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestLiteralBitsRejectsUnsupportedKind(t *testing.T) {
	_, err := literalBits(&typedtree.TyLiteral{Value: "not a number"})
	assert.Error(t, err)
}

func TestFoldConstantBytesEncodesLiteralBigEndian(t *testing.T) {
	expr := typedtree.NewExpression(typedtree.KLiteral, 0, ast.Span{})
	expr.Literal = &typedtree.TyLiteral{Value: uint32(0x01020304)}

	c, err := foldConstantBytes(ir.Uint32, expr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, c.Bytes)
	assert.Equal(t, ir.Uint32, c.Type)
}

func TestFoldConstantBytesRejectsNonLiteralInitializer(t *testing.T) {
	_, err := foldConstantBytes(ir.Uint64, "not a typed expression")
	assert.Error(t, err)
}

func TestConfigByteOffsetsCombinesDataBaseAndEntryOffset(t *testing.T) {
	data := ir.NewDataSection()
	idxA := data.Intern(ir.Constant{Type: ir.Uint8, Bytes: []byte{1}})
	idxB := data.Intern(ir.Constant{Type: ir.Uint64, Bytes: []byte{0, 0, 0, 0, 0, 0, 0, 9}})

	vprog := &vasm.Program{Data: data, ConfigIndex: map[string]int{"A": idxA, "B": idxB}}
	bin := &codegen.Binary{DataBase: 10} // word index -> byte base 40

	offsets := configByteOffsets(vprog, bin)
	assert.Equal(t, uint64(40), offsets["A"])
	assert.Equal(t, uint64(48), offsets["B"]) // A's 1 byte rounds up to 8
}

func TestConfigByteOffsetsEmptyWhenNoConfigurables(t *testing.T) {
	vprog := &vasm.Program{Data: ir.NewDataSection()}
	bin := &codegen.Binary{}
	assert.Empty(t, configByteOffsets(vprog, bin))
}

func TestCompileUnitSucceedsOnEmptyLibraryModule(t *testing.T) {
	unit := &Unit{
		Name:     "empty_lib",
		Manifest: &manifest.Manifest{Project: manifest.Project{Name: "empty_lib", Kind: manifest.KindLibrary}},
		Module:   &untyped.Module{Name: "empty_lib", Kind: untyped.KindLibrary},
	}

	artifact, err := CompileUnit(unit)
	require.NoError(t, err)
	require.NotNil(t, artifact)
	assert.Equal(t, "empty_lib", artifact.Name)
	require.NotNil(t, artifact.Binary)
	require.NotNil(t, artifact.ABI)
	assert.Empty(t, artifact.Module.Functions)
}

func TestCompileUnitsPreservesOrderAcrossConcurrentUnits(t *testing.T) {
	units := make([]*Unit, 4)
	for i := range units {
		units[i] = &Unit{
			Name:     "lib",
			Manifest: &manifest.Manifest{Project: manifest.Project{Name: "lib", Kind: manifest.KindLibrary}},
			Module:   &untyped.Module{Name: "lib", Kind: untyped.KindLibrary},
		}
	}

	artifacts, err := CompileUnits(context.Background(), units)
	require.NoError(t, err)
	require.Len(t, artifacts, len(units))
	for _, a := range artifacts {
		require.NotNil(t, a)
		assert.NotNil(t, a.Binary)
	}
}
