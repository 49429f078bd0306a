package lower

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
)

// fnCtx is the mutable state threaded through one function's lowering: the
// block currently being appended to, the name->local mapping for the
// lexical scope, and the enclosing loop headers/exits break/continue jump
// to.
type fnCtx struct {
	l      *Lowerer
	f      *ir.Function
	cur    *ir.Block
	locals map[string]int
	loops  []loopFrame
}

type loopFrame struct {
	header *ir.Block
	exit   *ir.Block
}

func funcName(d *declengine.Decl) string {
	return fmt.Sprintf("%s#%d", d.Name, d.Id.Idx)
}

// LowerFunction translates one checked function declaration into an
// ir.Function. The function's own DeclId must name a KindFunction decl
// whose Body has already been populated by the checker.
func (l *Lowerer) LowerFunction(id declengine.DeclId) *ir.Function {
	decl := l.Decls.Get(id)
	fd := decl.Function

	retType := l.LowerType(fd.ReturnType)
	f := ir.NewFunction(funcName(decl), retType)
	f.IsEntry = fd.IsEntry
	f.Selector = fd.Selector

	entry := f.AddBlock("entry")
	ctx := &fnCtx{l: l, f: f, cur: entry, locals: map[string]int{}}

	params := make([]ir.Value, len(fd.Params))
	for i, p := range fd.Params {
		pt := l.LowerType(p.Type)
		arg := f.AddBlockArg(entry, pt)
		params[i] = arg
		idx := ctx.declareLocal(p.Name, pt)
		ctx.storeLocal(idx, arg)
	}
	f.Params = params

	body, _ := fd.Body.(*typedtree.TyCodeBlock)
	var result ir.Value
	if body != nil {
		result = ctx.lowerCodeBlock(body)
	} else {
		result = ctx.unitValue()
	}

	if !blockHasTerminator(ctx.cur) {
		ctx.f.Emit(ctx.cur, ir.InstOp{Kind: ir.IRet, RetVal: result, RetType: retType}, ir.Type{})
	}
	return f
}

func blockHasTerminator(b *ir.Block) bool {
	if len(b.Instructions) == 0 {
		return false
	}
	return b.Instructions[len(b.Instructions)-1].Op.IsTerminator()
}

func (c *fnCtx) declareLocal(name string, t ir.Type) int {
	idx := len(c.f.Locals)
	c.f.Locals = append(c.f.Locals, ir.LocalVar{Name: name, Type: t, Mutable: true})
	c.locals[name] = idx
	return idx
}

func (c *fnCtx) tempLocal(t ir.Type) int {
	idx := len(c.f.Locals)
	c.f.Locals = append(c.f.Locals, ir.LocalVar{Name: fmt.Sprintf("$t%d", idx), Type: t, Mutable: true})
	return idx
}

func (c *fnCtx) getLocalPtr(idx int) ir.Value {
	lt := c.f.Locals[idx].Type
	instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.IGetLocal, Local: idx}, ir.Pointer(lt))
	return instr.Result
}

func (c *fnCtx) storeLocal(idx int, v ir.Value) {
	ptr := c.getLocalPtr(idx)
	c.store(ptr, v)
}

func (c *fnCtx) loadLocal(name string) ir.Value {
	idx := c.locals[name]
	ptr := c.getLocalPtr(idx)
	return c.load(ptr, c.f.Locals[idx].Type)
}

func (c *fnCtx) load(ptr ir.Value, t ir.Type) ir.Value {
	instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ILoad, LoadPtr: ptr}, t)
	return instr.Result
}

func (c *fnCtx) store(ptr, val ir.Value) {
	c.f.Emit(c.cur, ir.InstOp{Kind: ir.IStore, StorePtr: ptr, StoreVal: val}, ir.Type{})
}

func (c *fnCtx) elemPtr(base ir.Value, elemType ir.Type, index ir.Value) ir.Value {
	instr := c.f.Emit(c.cur, ir.InstOp{Kind: ir.IGetElemPtr, BasePtr: base, ElemType: elemType, Indices: []ir.Value{index}}, ir.Pointer(elemType))
	return instr.Result
}

func (c *fnCtx) constU64(n uint64) ir.Value {
	return c.f.NewConstant(ir.Uint64, n)
}

func (c *fnCtx) unitValue() ir.Value {
	return c.f.NewConstant(ir.Unit, 0)
}

// buildAggregate materializes a struct or tuple value by storing each
// already-lowered field into a fresh temporary local, then loading the
// whole thing back out: the IR has no "insertvalue"-style instruction,
// aggregates live in memory the same way sway-ir represents them.
func (c *fnCtx) buildAggregate(t ir.Type, elems []ir.Value) ir.Value {
	idx := c.tempLocal(t)
	ptr := c.getLocalPtr(idx)
	for i, v := range elems {
		ep := c.elemPtr(ptr, t.Fields[i], c.constU64(uint64(i)))
		c.store(ep, v)
	}
	return c.load(ptr, t)
}

func (c *fnCtx) buildArray(t ir.Type, elems []ir.Value) ir.Value {
	idx := c.tempLocal(t)
	ptr := c.getLocalPtr(idx)
	et := *t.Elem
	for i, v := range elems {
		ep := c.elemPtr(ptr, et, c.constU64(uint64(i)))
		c.store(ep, v)
	}
	return c.load(ptr, t)
}

// lowerAddressable returns a pointer to e's storage, reusing an existing
// local's slot when e is just a variable reference or dereference instead
// of spilling a fresh temporary.
func (c *fnCtx) lowerAddressable(e *typedtree.TyExpression) ir.Value {
	switch e.Kind {
	case typedtree.KVariableRef:
		if idx, ok := c.locals[e.VariableRef.Name]; ok {
			return c.getLocalPtr(idx)
		}
	case typedtree.KDeref:
		return c.lowerExpr(e.Deref.Value)
	}
	v := c.lowerExpr(e)
	t := c.l.LowerType(e.Type())
	idx := c.tempLocal(t)
	ptr := c.getLocalPtr(idx)
	c.store(ptr, v)
	return ptr
}

func (c *fnCtx) lowerCodeBlock(cb *typedtree.TyCodeBlock) ir.Value {
	last := c.unitValue()
	for i, st := range cb.Stmts {
		switch {
		case st.Let != nil:
			v := c.lowerExpr(st.Let.Value)
			t := c.l.LowerType(st.Let.Type)
			idx := c.declareLocal(st.Let.Name, t)
			c.storeLocal(idx, v)
			last = c.unitValue()
		case st.Expr != nil:
			v := c.lowerExpr(st.Expr)
			if i == len(cb.Stmts)-1 && !st.HasSemicolon {
				last = v
			} else {
				last = c.unitValue()
			}
		}
	}
	return last
}
