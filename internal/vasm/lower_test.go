package vasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/ir"
)

func TestLowerPopulatesConfigIndexByDataSectionEntry(t *testing.T) {
	m := &ir.Module{
		Configs: []ir.ConfigVar{
			{Name: "FEE", Type: ir.Uint64, Init: ir.Constant{Type: ir.Uint64, Bytes: []byte{0, 0, 0, 0, 0, 0, 0, 5}}},
			{Name: "OWNER", Type: ir.B256, Init: ir.Constant{Type: ir.B256, Bytes: make([]byte, 32)}},
		},
	}

	prog := Lower(m)
	require.NotNil(t, prog.ConfigIndex)
	assert.Len(t, prog.ConfigIndex, 2)

	feeIdx, ok := prog.ConfigIndex["FEE"]
	require.True(t, ok)
	ownerIdx, ok := prog.ConfigIndex["OWNER"]
	require.True(t, ok)
	assert.NotEqual(t, feeIdx, ownerIdx)

	entries := prog.Data.Entries()
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 5}, entries[feeIdx].Bytes)
	assert.Equal(t, make([]byte, 32), entries[ownerIdx].Bytes)
}

func TestLowerDedupsIdenticalConfigInitializers(t *testing.T) {
	m := &ir.Module{
		Configs: []ir.ConfigVar{
			{Name: "A", Type: ir.Uint8, Init: ir.Constant{Type: ir.Uint8, Bytes: []byte{7}}},
			{Name: "B", Type: ir.Uint8, Init: ir.Constant{Type: ir.Uint8, Bytes: []byte{7}}},
		},
	}

	prog := Lower(m)
	assert.Equal(t, prog.ConfigIndex["A"], prog.ConfigIndex["B"])
}
