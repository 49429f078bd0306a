package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/codegen"
	"github.com/fuellabs-lite/swayc/internal/manifest"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func TestModuleKindForMapsEveryProjectKind(t *testing.T) {
	cases := []struct {
		in   manifest.ProjectKind
		want untyped.ModuleKind
	}{
		{manifest.KindContract, untyped.KindContract},
		{manifest.KindPredicate, untyped.KindPredicate},
		{manifest.KindScript, untyped.KindScript},
		{manifest.KindLibrary, untyped.KindLibrary},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, moduleKindFor(c.in))
	}
}

func TestWriteBinarySerializesWordsBigEndianThenData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	bin := &codegen.Binary{Words: []uint32{0x01020304}, Data: []byte{0xAA, 0xBB}}

	require.NoError(t, writeBinary(path, bin))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB}, got)
}

func TestLoadUnitBuildsEmptyModuleScaffoldFromManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Forc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[project]
name = "token"
kind = "contract"
`), 0644))

	unit, err := loadUnit(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "token", unit.Name)
	assert.Equal(t, untyped.KindContract, unit.Module.Kind)
}
