package iropt

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestConstantFoldFoldsAddOfTwoConstants(t *testing.T) {
	f := ir.NewFunction("add_consts", ir.Uint64)
	b := f.AddBlock("entry")
	lhs := f.NewConstant(ir.Uint64, 2)
	rhs := f.NewConstant(ir.Uint64, 3)
	sum := f.Emit(b, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: ir.BinAdd, Lhs: lhs, Rhs: rhs}, ir.Uint64)
	f.Emit(b, ir.InstOp{Kind: ir.IRet, RetVal: sum.Result}, ir.Type{Kind: ir.KInvalid})

	resultId := sum.Result.Id
	ConstantFold(f)

	assert.Equal(t, ir.IBitCast, sum.Op.Kind)
	folded, ok := f.ConstantOf(sum.Op.Operand.Id)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), folded)
	assert.Equal(t, resultId, sum.Result.Id) // result identity preserved
}

func TestConstantFoldLeavesNonConstantOperandsAlone(t *testing.T) {
	f := ir.NewFunction("add_param", ir.Uint64)
	b := f.AddBlock("entry")
	param := f.AddBlockArg(b, ir.Uint64)
	rhs := f.NewConstant(ir.Uint64, 1)
	sum := f.Emit(b, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: ir.BinAdd, Lhs: param, Rhs: rhs}, ir.Uint64)

	ConstantFold(f)

	assert.Equal(t, ir.IBinaryOp, sum.Op.Kind)
}

func TestConstantFoldSkipsDivisionByZero(t *testing.T) {
	f := ir.NewFunction("div_zero", ir.Uint64)
	b := f.AddBlock("entry")
	lhs := f.NewConstant(ir.Uint64, 4)
	rhs := f.NewConstant(ir.Uint64, 0)
	div := f.Emit(b, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: ir.BinDiv, Lhs: lhs, Rhs: rhs}, ir.Uint64)

	ConstantFold(f)

	assert.Equal(t, ir.IBinaryOp, div.Op.Kind)
}
