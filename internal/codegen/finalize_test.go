package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/regalloc"
)

func TestDataEntryOffsetsPadsToEightByteAlignment(t *testing.T) {
	data := ir.NewDataSection()
	data.Intern(ir.Constant{Type: ir.Uint8, Bytes: []byte{1}})           // 1 byte -> padded to 8
	data.Intern(ir.Constant{Type: ir.Uint64, Bytes: []byte{0, 0, 0, 0, 0, 0, 0, 2}}) // exactly 8 bytes, no pad
	data.Intern(ir.Constant{Type: ir.B256, Bytes: make([]byte, 32)})     // already aligned

	offsets := DataEntryOffsets(data)
	require.Len(t, offsets, 3)
	assert.Equal(t, []uint64{0, 8, 16}, offsets)
}

func TestDataEntryOffsetsEmptySection(t *testing.T) {
	data := ir.NewDataSection()
	assert.Empty(t, DataEntryOffsets(data))
}

func TestFinalizeEmitsPreambleOnlyForEmptyProgram(t *testing.T) {
	data := ir.NewDataSection()
	bin, err := Finalize(data, nil)
	require.NoError(t, err)
	assert.Len(t, bin.Words, preambleWords)
	assert.Equal(t, preambleWords, bin.DataBase)
	assert.Empty(t, bin.Data)
}

func TestFinalizeLaysDataSectionAfterInstructions(t *testing.T) {
	data := ir.NewDataSection()
	data.Intern(ir.Constant{Type: ir.Uint8, Bytes: []byte{0xAB}})

	bin, err := Finalize(data, []*regalloc.AllocatedFunction{})
	require.NoError(t, err)
	assert.Equal(t, preambleWords, bin.DataBase)
	require.Len(t, bin.Data, 8) // single byte padded to a full word
	assert.Equal(t, byte(0xAB), bin.Data[0])
}
