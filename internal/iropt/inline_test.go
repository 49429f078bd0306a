package iropt

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/stretchr/testify/assert"
)

func buildAddOneCallee() *ir.Function {
	f := ir.NewFunction("add_one", ir.Uint64)
	b := f.AddBlock("entry")
	param := f.AddBlockArg(b, ir.Uint64)
	f.Params = []ir.Value{param}
	one := f.NewConstant(ir.Uint64, 1)
	sum := f.Emit(b, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: ir.BinAdd, Lhs: param, Rhs: one}, ir.Uint64)
	f.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: sum.Result}, ir.Type{Kind: ir.KInvalid})
	return f
}

func TestInlineSplicesSingleBlockCallee(t *testing.T) {
	callee := buildAddOneCallee()
	caller := ir.NewFunction("main", ir.Uint64)
	b := caller.AddBlock("entry")
	arg := caller.NewConstant(ir.Uint64, 10)
	call := caller.Emit(b, ir.InstOp{Kind: ir.ICall, Callee: "add_one", CallArgs: []ir.Value{arg}}, ir.Uint64)
	caller.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: call.Result}, ir.Type{Kind: ir.KInvalid})

	m := &ir.Module{Functions: []*ir.Function{caller, callee}}
	Inline(m)

	for _, instr := range b.Instructions {
		assert.NotEqual(t, ir.ICall, instr.Op.Kind)
	}
	last := b.Instructions[len(b.Instructions)-1]
	assert.Equal(t, ir.IRet, last.Op.Kind)
}

func TestInlineLeavesRecursiveCallAlone(t *testing.T) {
	f := ir.NewFunction("recurse", ir.Uint64)
	b := f.AddBlock("entry")
	arg := f.NewConstant(ir.Uint64, 1)
	call := f.Emit(b, ir.InstOp{Kind: ir.ICall, Callee: "recurse", CallArgs: []ir.Value{arg}}, ir.Uint64)
	f.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: call.Result}, ir.Type{Kind: ir.KInvalid})

	m := &ir.Module{Functions: []*ir.Function{f}}
	Inline(m)

	assert.Equal(t, ir.ICall, call.Op.Kind)
}

func TestInlineSkipsCalleeWithLocals(t *testing.T) {
	callee := ir.NewFunction("has_local", ir.Uint64)
	callee.Locals = append(callee.Locals, ir.LocalVar{Name: "tmp", Type: ir.Uint64})
	cb := callee.AddBlock("entry")
	ptr := callee.Emit(cb, ir.InstOp{Kind: ir.IGetLocal, Local: 0}, ir.Pointer(ir.Uint64))
	load := callee.Emit(cb, ir.InstOp{Kind: ir.ILoad, LoadPtr: ptr.Result}, ir.Uint64)
	callee.Emit(cb, ir.InstOp{Kind: ir.IRet, RetVal: load.Result}, ir.Type{Kind: ir.KInvalid})

	caller := ir.NewFunction("main", ir.Uint64)
	b := caller.AddBlock("entry")
	call := caller.Emit(b, ir.InstOp{Kind: ir.ICall, Callee: "has_local"}, ir.Uint64)
	caller.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: call.Result}, ir.Type{Kind: ir.KInvalid})

	m := &ir.Module{Functions: []*ir.Function{caller, callee}}
	Inline(m)

	assert.Equal(t, ir.ICall, call.Op.Kind)
}
