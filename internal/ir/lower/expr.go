package lower

import (
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
)

func (c *fnCtx) lowerExpr(e *typedtree.TyExpression) ir.Value {
	t := c.l.LowerType(e.Type())
	switch e.Kind {
	case typedtree.KLiteral:
		return c.constFromLiteral(e.Literal, t)
	case typedtree.KVariableRef:
		return c.loadLocal(e.VariableRef.Name)
	case typedtree.KConstantRef:
		return c.lowerConstantRef(e.ConstantRef, t)
	case typedtree.KFunctionApplication:
		return c.lowerCall(e.FunctionApp, t)
	case typedtree.KLazyOp:
		return c.lowerLazyOp(e.LazyOp, t)
	case typedtree.KTuple:
		elems := make([]ir.Value, len(e.Tuple.Elems))
		for i, el := range e.Tuple.Elems {
			elems[i] = c.lowerExpr(el)
		}
		return c.buildAggregate(t, elems)
	case typedtree.KArray:
		elems := make([]ir.Value, len(e.Array.Elems))
		for i, el := range e.Array.Elems {
			elems[i] = c.lowerExpr(el)
		}
		return c.buildArray(t, elems)
	case typedtree.KIndex:
		basePtr := c.lowerAddressable(e.Index.Base)
		idxVal := c.lowerExpr(e.Index.Index)
		ep := c.elemPtr(basePtr, t, idxVal)
		return c.load(ep, t)
	case typedtree.KStructInstantiation:
		return c.lowerStructInstantiation(e.StructInst, t)
	case typedtree.KCodeBlock:
		return c.lowerCodeBlock(e.CodeBlock)
	case typedtree.KMatch:
		return c.lowerMatch(e.Match, t)
	case typedtree.KIf:
		return c.lowerIf(e.If, t)
	case typedtree.KAsm:
		return c.lowerAsm(e.Asm, t)
	case typedtree.KFieldAccess:
		basePtr := c.lowerAddressable(e.FieldAccess.Base)
		ep := c.elemPtr(basePtr, t, c.constU64(uint64(e.FieldAccess.Index)))
		return c.load(ep, t)
	case typedtree.KEnumInstantiation:
		return c.lowerEnumInstantiation(e.EnumInst, t)
	case typedtree.KAbiCast:
		// An AbiCast only changes the static type an address is viewed
		// through; the runtime value is the address itself.
		return c.lowerExpr(e.AbiCast.Address)
	case typedtree.KStorageAccess:
		return c.lowerStorageAccess(e.Storage, t)
	case typedtree.KIntrinsic:
		return c.lowerIntrinsic(e.Intrinsic, t)
	case typedtree.KWhile:
		c.lowerWhile(e.While)
		return c.unitValue()
	case typedtree.KFor:
		c.lowerFor(e.For)
		return c.unitValue()
	case typedtree.KBreak:
		c.lowerBreak()
		return c.unitValue()
	case typedtree.KContinue:
		c.lowerContinue()
		return c.unitValue()
	case typedtree.KReassignment:
		c.lowerReassignment(e.Reassignment)
		return c.unitValue()
	case typedtree.KReturn:
		c.lowerReturn(e.Return)
		return c.unitValue()
	case typedtree.KRef:
		return c.lowerAddressable(e.Ref.Value)
	case typedtree.KDeref:
		ptr := c.lowerExpr(e.Deref.Value)
		return c.load(ptr, t)
	}
	return c.unitValue()
}

func literalBits(lit *typedtree.TyLiteral) uint64 {
	switch v := lit.Value.(type) {
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (c *fnCtx) constFromLiteral(lit *typedtree.TyLiteral, t ir.Type) ir.Value {
	return c.f.NewConstant(t, literalBits(lit))
}

func (c *fnCtx) lowerConstantRef(cr *typedtree.TyConstantRef, t ir.Type) ir.Value {
	decl := c.l.Decls.Get(cr.Decl)
	if decl.Configurable != nil {
		return c.f.Emit(c.cur, ir.InstOp{Kind: ir.IGetConfig, GlobalName: decl.Name}, t).Result
	}
	var bits uint64
	if decl.Constant != nil {
		if te, ok := decl.Constant.Value.(*typedtree.TyExpression); ok && te.Kind == typedtree.KLiteral {
			bits = literalBits(te.Literal)
		}
	}
	return c.f.NewConstant(t, bits)
}

func (c *fnCtx) lowerCall(fa *typedtree.TyFunctionApplication, t ir.Type) ir.Value {
	args := make([]ir.Value, len(fa.Args))
	for i, a := range fa.Args {
		args[i] = c.lowerExpr(a.Value)
	}
	callee := funcName(c.l.Decls.Get(fa.Func))
	instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ICall, Callee: callee, CallArgs: args}, t)
	if instr.HasResult {
		return instr.Result
	}
	return c.unitValue()
}

func (c *fnCtx) lowerLazyOp(lz *typedtree.TyLazyOp, t ir.Type) ir.Value {
	lhs := c.lowerExpr(lz.Left)

	rhsBlock := c.f.AddBlock("lazy.rhs")
	shortBlock := c.f.AddBlock("lazy.short")
	mergeBlock := c.f.AddBlock("lazy.merge")
	arg := c.f.AddBlockArg(mergeBlock, t)

	if lz.Op == typedtree.LazyAnd {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: lhs, TrueBlock: rhsBlock.Id, FalseBlock: shortBlock.Id}, ir.Type{})
	} else {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: lhs, TrueBlock: shortBlock.Id, FalseBlock: rhsBlock.Id}, ir.Type{})
	}

	c.cur = shortBlock
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: mergeBlock.Id, BranchArgs: []ir.Value{lhs}}, ir.Type{})

	c.cur = rhsBlock
	rhs := c.lowerExpr(lz.Right)
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: mergeBlock.Id, BranchArgs: []ir.Value{rhs}}, ir.Type{})

	c.cur = mergeBlock
	return arg
}

func (c *fnCtx) lowerIf(ifx *typedtree.TyIfExpr, t ir.Type) ir.Value {
	cond := c.lowerExpr(ifx.Cond)

	thenBlock := c.f.AddBlock("if.then")
	elseBlock := c.f.AddBlock("if.else")
	mergeBlock := c.f.AddBlock("if.merge")
	arg := c.f.AddBlockArg(mergeBlock, t)

	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: cond, TrueBlock: thenBlock.Id, FalseBlock: elseBlock.Id}, ir.Type{})

	c.cur = thenBlock
	thenVal := c.lowerCodeBlock(ifx.Then)
	if !blockHasTerminator(c.cur) {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: mergeBlock.Id, BranchArgs: []ir.Value{thenVal}}, ir.Type{})
	}

	c.cur = elseBlock
	elseVal := c.unitValue()
	if ifx.Else != nil {
		elseVal = c.lowerExpr(ifx.Else)
	}
	if !blockHasTerminator(c.cur) {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: mergeBlock.Id, BranchArgs: []ir.Value{elseVal}}, ir.Type{})
	}

	c.cur = mergeBlock
	return arg
}

func (c *fnCtx) lowerStructInstantiation(si *typedtree.TyStructInstantiation, t ir.Type) ir.Value {
	decl := c.l.Decls.Get(si.StructDecl).Struct
	values := make([]ir.Value, len(decl.Fields))
	for _, fi := range si.Fields {
		v := c.lowerExpr(fi.Value)
		for idx, fd := range decl.Fields {
			if fd.Name == fi.Name {
				values[idx] = v
			}
		}
	}
	return c.buildAggregate(t, values)
}

func (c *fnCtx) lowerEnumInstantiation(ei *typedtree.TyEnumInstantiation, t ir.Type) ir.Value {
	decl := c.l.Decls.Get(ei.EnumDecl).Enum
	var tag uint64
	payloadType := ir.Unit
	for _, v := range decl.Variants {
		if v.Name == ei.Variant {
			tag = v.Tag
			if v.Type != nil {
				payloadType = c.l.LowerType(*v.Type)
			}
			break
		}
	}
	idx := c.tempLocal(t)
	ptr := c.getLocalPtr(idx)
	tagPtr := c.elemPtr(ptr, ir.Uint64, c.constU64(0))
	c.store(tagPtr, c.constU64(tag))
	if ei.Content != nil {
		val := c.lowerExpr(ei.Content)
		payloadPtr := c.elemPtr(ptr, payloadType, c.constU64(1))
		c.store(payloadPtr, val)
	}
	return c.load(ptr, t)
}

func (c *fnCtx) lowerAsm(a *typedtree.TyAsmBlock, t ir.Type) ir.Value {
	regs := make([]ir.AsmRegister, len(a.Registers))
	for i, r := range a.Registers {
		reg := ir.AsmRegister{Name: r.Name}
		if r.Init != nil {
			reg.Init = c.lowerExpr(r.Init)
			reg.HasInit = true
		}
		regs[i] = reg
	}
	body := make([]ir.AsmInstr, len(a.Body))
	for i, ins := range a.Body {
		body[i] = ir.AsmInstr{Opcode: ins.Opcode, Operands: ins.Operands, Immediate: ins.Immediate}
	}
	instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.IAsmBlock, AsmRegisters: regs, AsmBody: body, AsmReturnReg: a.ReturnReg}, t)
	if instr.HasResult {
		return instr.Result
	}
	return c.unitValue()
}

// lowerStorageAccess reads a persistent-storage field: the slot key is
// derived via GetStorageKey (the field's name is resolved to a slot by
// codegen, which owns Keccak-style key derivation), then loaded with
// StateLoadWord for single-word fields or StateLoadQuadWord for anything
// wider.
func (c *fnCtx) lowerStorageAccess(s *typedtree.TyStorageAccess, t ir.Type) ir.Value {
	decl := c.l.Decls.Get(s.Field).Storage
	field := decl.Fields[s.FieldIndex]
	key := c.f.Emit(c.cur, ir.InstOp{Kind: ir.IGetStorageKey, StorageFieldName: field.Name}, ir.B256).Result

	if t.ByteSize() <= 8 {
		return c.f.Emit(c.cur, ir.InstOp{Kind: ir.IStateLoadWord, StateKey: key}, t).Result
	}
	idx := c.tempLocal(t)
	dst := c.getLocalPtr(idx)
	slots := uint64((t.ByteSize() + 31) / 32)
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IStateLoadQuadWord, StateKey: key, StateDst: dst, StateSlots: slots}, ir.Type{})
	return c.load(dst, t)
}

func (c *fnCtx) lowerIntrinsic(it *typedtree.TyIntrinsic, t ir.Type) ir.Value {
	switch it.Name {
	case "__size_of":
		var sz uint64
		if len(it.TypeArgs) > 0 {
			sz = uint64(c.l.LowerType(it.TypeArgs[0]).ByteSize())
		}
		return c.f.NewConstant(t, sz)
	case "__size_of_val":
		arg := c.lowerExpr(it.Args[0])
		return c.f.NewConstant(t, uint64(arg.Type.ByteSize()))
	case "__addr_of":
		return c.lowerAddressable(it.Args[0])
	case "__log":
		v := c.lowerExpr(it.Args[0])
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.ILog, LogVal: v, LogId: c.constU64(0)}, ir.Type{})
		return c.unitValue()
	default:
		args := make([]ir.Value, len(it.Args))
		for i, a := range it.Args {
			args[i] = c.lowerExpr(a)
		}
		instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ICall, Callee: "intrinsic:" + it.Name, CallArgs: args}, t)
		if instr.HasResult {
			return instr.Result
		}
		return c.unitValue()
	}
}

func (c *fnCtx) lowerReassignment(r *typedtree.TyReassignment) {
	var ptr ir.Value
	var curType ir.Type
	if r.ViaDeref {
		ptr = c.loadLocal(r.Base)
		curType = *c.f.Locals[c.locals[r.Base]].Type.Elem
	} else {
		idx := c.locals[r.Base]
		ptr = c.getLocalPtr(idx)
		curType = c.f.Locals[idx].Type
	}

	for _, proj := range r.Projection {
		switch proj.Kind {
		case typedtree.ProjStructField, typedtree.ProjTupleField:
			ft := curType.Fields[proj.Index]
			ptr = c.elemPtr(ptr, ft, c.constU64(uint64(proj.Index)))
			curType = ft
		case typedtree.ProjArrayIndex:
			et := *curType.Elem
			idxVal := c.lowerExpr(proj.Expr)
			ptr = c.elemPtr(ptr, et, idxVal)
			curType = et
		}
	}

	val := c.lowerExpr(r.Value)
	if r.Op != typedtree.ReassignSet {
		cur := c.load(ptr, curType)
		var bk ir.BinaryOpKind
		switch r.Op {
		case typedtree.ReassignAdd:
			bk = ir.BinAdd
		case typedtree.ReassignSub:
			bk = ir.BinSub
		case typedtree.ReassignMul:
			bk = ir.BinMul
		case typedtree.ReassignDiv:
			bk = ir.BinDiv
		}
		val = c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: bk, Lhs: cur, Rhs: val}, curType).Result
	}
	c.store(ptr, val)
}

func (c *fnCtx) lowerReturn(r *typedtree.TyReturnExpr) {
	v := c.unitValue()
	if r.Value != nil {
		v = c.lowerExpr(r.Value)
	}
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IRet, RetVal: v, RetType: v.Type}, ir.Type{})
	c.cur = c.f.AddBlock("after.return") // dead, but keeps the builder's "always have a current block" invariant
}

func (c *fnCtx) lowerWhile(w *typedtree.TyWhileExpr) {
	header := c.f.AddBlock("while.header")
	body := c.f.AddBlock("while.body")
	exit := c.f.AddBlock("while.exit")

	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: header.Id}, ir.Type{})

	c.cur = header
	cond := c.lowerExpr(w.Cond)
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: cond, TrueBlock: body.Id, FalseBlock: exit.Id}, ir.Type{})

	c.cur = body
	c.loops = append(c.loops, loopFrame{header: header, exit: exit})
	c.lowerCodeBlock(w.Body)
	c.loops = c.loops[:len(c.loops)-1]
	if !blockHasTerminator(c.cur) {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: header.Id}, ir.Type{})
	}

	c.cur = exit
}

// lowerFor assumes Iterable is an array; Sway for-loops only ever range
// over fixed-size arrays or a desugared numeric range, both addressable the
// same way.
func (c *fnCtx) lowerFor(fx *typedtree.TyForExpr) {
	iterPtr := c.lowerAddressable(fx.Iterable)
	iterType := c.l.LowerType(fx.Iterable.Type())
	length := iterType.Len
	elemType := *iterType.Elem

	idxLocal := c.tempLocal(ir.Uint64)
	idxPtr := c.getLocalPtr(idxLocal)
	c.store(idxPtr, c.constU64(0))

	header := c.f.AddBlock("for.header")
	body := c.f.AddBlock("for.body")
	exit := c.f.AddBlock("for.exit")

	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: header.Id}, ir.Type{})

	c.cur = header
	idxVal := c.load(idxPtr, ir.Uint64)
	cmp := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ICmp, Pred: ir.CmpLt, CmpLhs: idxVal, CmpRhs: c.constU64(uint64(length))}, ir.Bool).Result
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: cmp, TrueBlock: body.Id, FalseBlock: exit.Id}, ir.Type{})

	c.cur = body
	ep := c.elemPtr(iterPtr, elemType, idxVal)
	elemVal := c.load(ep, elemType)
	binderIdx := c.declareLocal(fx.Binder, elemType)
	c.storeLocal(binderIdx, elemVal)

	c.loops = append(c.loops, loopFrame{header: header, exit: exit})
	c.lowerCodeBlock(fx.Body)
	c.loops = c.loops[:len(c.loops)-1]

	if !blockHasTerminator(c.cur) {
		nextIdx := c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBinaryOp, BinaryKind: ir.BinAdd, Lhs: idxVal, Rhs: c.constU64(1)}, ir.Uint64).Result
		c.store(idxPtr, nextIdx)
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: header.Id}, ir.Type{})
	}

	c.cur = exit
}

func (c *fnCtx) lowerBreak() {
	lf := c.loops[len(c.loops)-1]
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: lf.exit.Id}, ir.Type{})
	c.cur = c.f.AddBlock("after.break")
}

func (c *fnCtx) lowerContinue() {
	lf := c.loops[len(c.loops)-1]
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: lf.header.Id}, ir.Type{})
	c.cur = c.f.AddBlock("after.continue")
}
