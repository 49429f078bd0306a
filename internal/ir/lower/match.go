package lower

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
)

// lowerMatch compiles a match expression into a chain of per-arm tests:
// each arm gets its own "does this arm match" block sequence that falls
// through to the next arm's test block on failure, and branches into a
// shared merge block (carrying the arm's body value as a block argument)
// on success. Exhaustiveness has already been proven by the decision-tree
// compiler in the checker, so falling off the last arm only happens if
// that proof was wrong; it reverts rather than producing an undefined
// value.
func (c *fnCtx) lowerMatch(m *typedtree.TyMatchExpr, resultType ir.Type) ir.Value {
	scrutVal := c.lowerExpr(m.Scrutinee)
	scrutType := c.l.LowerType(m.Scrutinee.Type())
	tmp := c.tempLocal(scrutType)
	ptr := c.getLocalPtr(tmp)
	c.store(ptr, scrutVal)

	merge := c.f.AddBlock("match.merge")
	mergeArg := c.f.AddBlockArg(merge, resultType)

	c.lowerMatchArm(m.Arms, 0, ptr, merge)

	c.cur = merge
	return mergeArg
}

func (c *fnCtx) lowerMatchArm(arms []typedtree.TyMatchArm, i int, scrutPtr ir.Value, merge *ir.Block) {
	if i >= len(arms) {
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IRevert, RetVal: c.constU64(0)}, ir.Type{})
		return
	}
	arm := arms[i]
	next := c.f.AddBlock(fmt.Sprintf("match.arm%d.next", i))

	c.emitPatternTest(arm.Pattern, scrutPtr, next, func() {
		if arm.Guard != nil {
			g := c.lowerExpr(arm.Guard)
			pass := c.f.AddBlock(fmt.Sprintf("match.arm%d.guarded", i))
			c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: g, TrueBlock: pass.Id, FalseBlock: next.Id}, ir.Type{})
			c.cur = pass
		}
		v := c.lowerExpr(arm.Body)
		if !blockHasTerminator(c.cur) {
			c.f.Emit(c.cur, ir.InstOp{Kind: ir.IBranch, Target: merge.Id, BranchArgs: []ir.Value{v}}, ir.Type{})
		}
	})

	c.cur = next
	c.lowerMatchArm(arms, i+1, scrutPtr, merge)
}

// emitPatternTest emits the instructions that decide whether pat matches
// the value at addr, branching to fail on a structural mismatch (a literal
// or enum-tag test) and invoking onMatch once every leaf of pat has been
// satisfied and every binding it introduces has been stored into a fresh
// local.
func (c *fnCtx) emitPatternTest(pat typedtree.TyPattern, addr ir.Value, fail *ir.Block, onMatch func()) {
	switch p := pat.(type) {
	case *typedtree.TyWildcardPattern:
		onMatch()

	case *typedtree.TyVarPattern:
		t := c.l.LowerType(p.Type())
		val := c.load(addr, t)
		idx := c.declareLocal(p.Name, t)
		c.storeLocal(idx, val)
		onMatch()

	case *typedtree.TyLiteralPattern:
		t := c.l.LowerType(p.Type())
		val := c.load(addr, t)
		want := c.f.NewConstant(t, literalBits(p.Value))
		cmp := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ICmp, Pred: ir.CmpEq, CmpLhs: val, CmpRhs: want}, ir.Bool).Result
		pass := c.f.AddBlock("pat.lit.pass")
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: cmp, TrueBlock: pass.Id, FalseBlock: fail.Id}, ir.Type{})
		c.cur = pass
		onMatch()

	case *typedtree.TyEnumPattern:
		decl := c.l.Decls.Get(p.EnumDecl).Enum
		var tag uint64
		payloadType := ir.Unit
		for _, v := range decl.Variants {
			if v.Name == p.Variant {
				tag = v.Tag
				if v.Type != nil {
					payloadType = c.l.LowerType(*v.Type)
				}
				break
			}
		}
		tagPtr := c.elemPtr(addr, ir.Uint64, c.constU64(0))
		tagVal := c.load(tagPtr, ir.Uint64)
		cmp := c.f.Emit(c.cur, ir.InstOp{Kind: ir.ICmp, Pred: ir.CmpEq, CmpLhs: tagVal, CmpRhs: c.constU64(tag)}, ir.Bool).Result
		pass := c.f.AddBlock("pat.enum.pass")
		c.f.Emit(c.cur, ir.InstOp{Kind: ir.IConditionalBranch, Cond: cmp, TrueBlock: pass.Id, FalseBlock: fail.Id}, ir.Type{})
		c.cur = pass
		if p.Sub != nil {
			payloadPtr := c.elemPtr(addr, payloadType, c.constU64(1))
			c.emitPatternTest(p.Sub, payloadPtr, fail, onMatch)
		} else {
			onMatch()
		}

	case *typedtree.TyStructPattern:
		decl := c.l.Decls.Get(p.StructDecl).Struct
		var names []string
		for name := range p.Fields {
			names = append(names, name)
		}
		var chain func(i int)
		chain = func(i int) {
			if i >= len(names) {
				onMatch()
				return
			}
			name := names[i]
			fieldIdx, fieldType := -1, ir.Unit
			for idx, fd := range decl.Fields {
				if fd.Name == name {
					fieldIdx = idx
					fieldType = c.l.LowerType(fd.Type)
				}
			}
			if fieldIdx < 0 {
				chain(i + 1)
				return
			}
			fp := c.elemPtr(addr, fieldType, c.constU64(uint64(fieldIdx)))
			c.emitPatternTest(p.Fields[name], fp, fail, func() { chain(i + 1) })
		}
		chain(0)

	case *typedtree.TyTuplePattern:
		var chain func(i int)
		chain = func(i int) {
			if i >= len(p.Elems) {
				onMatch()
				return
			}
			elemType := c.l.LowerType(p.Elems[i].Type())
			ep := c.elemPtr(addr, elemType, c.constU64(uint64(i)))
			c.emitPatternTest(p.Elems[i], ep, fail, func() { chain(i + 1) })
		}
		chain(0)

	default:
		onMatch()
	}
}
