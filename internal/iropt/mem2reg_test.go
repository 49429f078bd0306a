package iropt

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestMem2RegForwardsStoreToLoadWithinBlock(t *testing.T) {
	f := ir.NewFunction("store_then_load", ir.Uint64)
	f.Locals = append(f.Locals, ir.LocalVar{Name: "x", Type: ir.Uint64})
	b := f.AddBlock("entry")
	ptr := f.Emit(b, ir.InstOp{Kind: ir.IGetLocal, Local: 0}, ir.Pointer(ir.Uint64))
	val := f.NewConstant(ir.Uint64, 42)
	f.Emit(b, ir.InstOp{Kind: ir.IStore, StorePtr: ptr.Result, StoreVal: val}, ir.Type{Kind: ir.KInvalid})
	load := f.Emit(b, ir.InstOp{Kind: ir.ILoad, LoadPtr: ptr.Result}, ir.Uint64)
	f.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: load.Result}, ir.Type{Kind: ir.KInvalid})

	Mem2Reg(f)

	assert.Equal(t, ir.IBitCast, load.Op.Kind)
	assert.Equal(t, val.Id, load.Op.Operand.Id)
}

func TestMem2RegLeavesEscapingLocalAlone(t *testing.T) {
	f := ir.NewFunction("escapes", ir.Unit)
	f.Locals = append(f.Locals, ir.LocalVar{Name: "x", Type: ir.Uint64})
	b := f.AddBlock("entry")
	ptr := f.Emit(b, ir.InstOp{Kind: ir.IGetLocal, Local: 0}, ir.Pointer(ir.Uint64))
	f.Emit(b, ir.InstOp{Kind: ir.ICall, Callee: "takes_ptr", CallArgs: []ir.Value{ptr.Result}}, ir.Type{Kind: ir.KInvalid})
	load := f.Emit(b, ir.InstOp{Kind: ir.ILoad, LoadPtr: ptr.Result}, ir.Uint64)
	f.Emit(b, ir.InstOp{Kind: ir.IRet}, ir.Type{Kind: ir.KInvalid})

	Mem2Reg(f)

	assert.Equal(t, ir.ILoad, load.Op.Kind)
}
