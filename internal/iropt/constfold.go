package iropt

import "github.com/fuellabs-lite/swayc/internal/ir"

// constValues tracks which SSA values this function has proven are
// compile-time constant, and what their value is. Populated by a forward
// walk over each block in program order (no cross-block propagation beyond
// what a later mem2reg run would expose, matching the conservative scope
// of a single constant-folding pass).
type constValues map[ir.ValueId]uint64

// ConstantFold rewrites BinaryOp/UnaryOp instructions whose operands are
// both compile-time constants into a direct reference to the folded
// constant (expressed as a BitCast-of-constant so the instruction keeps
// producing the same Value, and every existing downstream reference to it
// stays valid). DCE then removes the now-unused original operand chain.
func ConstantFold(f *ir.Function) {
	known := constValues{}
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			foldOne(f, instr, known)
		}
	}
}

func foldOne(f *ir.Function, instr *ir.Instruction, known constValues) {
	if !instr.HasResult {
		return
	}
	var folded uint64
	var ok bool
	switch instr.Op.Kind {
	case ir.IBinaryOp:
		lhs, lok := valueOf(f, known, instr.Op.Lhs)
		rhs, rok := valueOf(f, known, instr.Op.Rhs)
		if !lok || !rok {
			return
		}
		folded, ok = evalBinary(instr.Op.BinaryKind, lhs, rhs)
	case ir.IUnaryOp:
		v, vok := valueOf(f, known, instr.Op.Operand)
		if !vok {
			return
		}
		switch instr.Op.UnaryKind {
		case ir.UnaryNot:
			if v == 0 {
				folded, ok = 1, true
			} else {
				folded, ok = 0, true
			}
		}
	default:
		return
	}
	if !ok {
		return
	}
	known[instr.Result.Id] = folded
	cv := f.NewConstant(instr.Result.Type, folded)
	instr.Op = ir.InstOp{Kind: ir.IBitCast, Operand: cv, ToType: instr.Result.Type}
}

func valueOf(f *ir.Function, known constValues, v ir.Value) (uint64, bool) {
	if bits, ok := known[v.Id]; ok {
		return bits, true
	}
	return f.ConstantOf(v.Id)
}

func evalBinary(op ir.BinaryOpKind, a, b uint64) (uint64, bool) {
	switch op {
	case ir.BinAdd:
		return a + b, true
	case ir.BinSub:
		return a - b, true
	case ir.BinMul:
		return a * b, true
	case ir.BinDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ir.BinMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case ir.BinAnd:
		return a & b, true
	case ir.BinOr:
		return a | b, true
	case ir.BinXor:
		return a ^ b, true
	case ir.BinLsh:
		return a << b, true
	case ir.BinRsh:
		return a >> b, true
	}
	return 0, false
}
