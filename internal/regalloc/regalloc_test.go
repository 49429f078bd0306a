package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuellabs-lite/swayc/internal/vasm"
)

// two values live at the same time (both operands of the ADD) interfere,
// so each must receive its own physical register, without spilling.
func TestAllocateAssignsDisjointRegistersToInterferingValues(t *testing.T) {
	v0, v1, v2 := vasm.Virtual(0), vasm.Virtual(1), vasm.Virtual(2)
	fn := &vasm.Function{
		Name: "add_two",
		Ops: []vasm.Op{
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v0, Imm: 1, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v1, Imm: 2, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VAdd, Dst: v2, Src1: v0, Src2: v1}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMove, Dst: vasm.ConstantReg(vasm.RegRet), Src1: v2}},
		},
	}

	out, err := Allocate(fn, 4)
	require.NoError(t, err)
	assert.Equal(t, "add_two", out.Name)
	require.Len(t, out.Alloc, len(fn.Ops))
	assert.NotEqual(t, out.Alloc[0].Dst.Index, out.Alloc[1].Dst.Index)

	for _, ar := range out.Alloc {
		if ar.Dst.Allocated {
			assert.GreaterOrEqual(t, ar.Dst.Index, vasm.NumConstRegs)
			assert.Less(t, ar.Dst.Index, vasm.NumConstRegs+4)
		}
	}
}

// constant registers (e.g. $ret) must pass through untouched rather than
// being assigned a physical slot.
func TestAllocatePreservesConstantRegisterOperands(t *testing.T) {
	v0 := vasm.Virtual(0)
	fn := &vasm.Function{
		Name: "return_const",
		Ops: []vasm.Op{
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMove, Dst: v0, Src1: vasm.ConstantReg(vasm.RegZero)}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMove, Dst: vasm.ConstantReg(vasm.RegRet), Src1: v0}},
		},
	}

	out, err := Allocate(fn, 4)
	require.NoError(t, err)

	firstSrc1 := out.Alloc[0].Src1
	assert.False(t, firstSrc1.Allocated)
	assert.Equal(t, vasm.RegZero, firstSrc1.Const)

	lastDst := out.Alloc[1].Dst
	assert.False(t, lastDst.Allocated)
	assert.Equal(t, vasm.RegRet, lastDst.Const)
}

// a k of 0 falls back to the VM's full physical register count minus the
// reserved constant block.
func TestAllocateDefaultsKWhenNonPositive(t *testing.T) {
	v0 := vasm.Virtual(0)
	fn := &vasm.Function{
		Name: "identity",
		Ops: []vasm.Op{
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v0, Imm: 5, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMove, Dst: vasm.ConstantReg(vasm.RegRet), Src1: v0}},
		},
	}

	out, err := Allocate(fn, 0)
	require.NoError(t, err)
	assert.True(t, out.Alloc[0].Dst.Allocated)
	assert.Less(t, out.Alloc[0].Dst.Index, vasm.TotalPhysicalRegisters)
}

// AllocatedRegister's String form distinguishes physical indices from
// constant-register names.
func TestAllocatedRegisterString(t *testing.T) {
	assert.Equal(t, "$r3", AllocatedRegister{Allocated: true, Index: 3}.String())
	assert.Equal(t, "$ret", AllocatedRegister{Const: vasm.RegRet}.String())
}

// limiting allocation to two physical registers (k=2) on a function that
// keeps three values live at once should trigger the spill path and still
// produce a valid allocation rather than failing outright, since each
// spill round shortens a live range until the graph colors.
func TestAllocateSpillsUnderExtremeRegisterPressure(t *testing.T) {
	v0, v1, v2, v3 := vasm.Virtual(0), vasm.Virtual(1), vasm.Virtual(2), vasm.Virtual(3)
	fn := &vasm.Function{
		Name: "pressure",
		Ops: []vasm.Op{
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v0, Imm: 1, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v1, Imm: 2, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMovi, Dst: v2, Imm: 3, HasImm: true}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VAdd, Dst: v3, Src1: v0, Src2: v1}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VAdd, Dst: v3, Src1: v3, Src2: v2}},
			{Class: vasm.ClassVirtual, Virtual: vasm.VOp{Kind: vasm.VMove, Dst: vasm.ConstantReg(vasm.RegRet), Src1: v3}},
		},
	}

	out, err := Allocate(fn, 2)
	require.NoError(t, err)
	require.NotNil(t, out)
}
