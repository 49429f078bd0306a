package semantic

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/dtree"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// checkStmts type-checks an ordered statement list (a function body or code
// block), threading a fresh child type environment so lets introduced
// inside don't leak to the caller's scope.
func (c *Checker) checkStmts(s *Scope, parentEnv *typeEnv, stmts []untyped.Stmt, expected typeengine.TypeId) *typedtree.TyCodeBlock {
	env := newTypeEnv(parentEnv)
	out := make([]typedtree.TyStmt, len(stmts))
	for i, st := range stmts {
		out[i] = c.checkStmt(s, env, st, expected)
	}
	return &typedtree.TyCodeBlock{Stmts: out}
}

func (c *Checker) checkStmt(s *Scope, env *typeEnv, st untyped.Stmt, expected typeengine.TypeId) typedtree.TyStmt {
	if st.Let != nil {
		var declaredType typeengine.TypeId
		if st.Let.Type != nil {
			t, err := c.ResolveType(s, nil, *st.Let.Type)
			c.Handler.Add(err)
			declaredType = t
		} else {
			declaredType = c.Types.Unknown()
		}
		value := c.checkExpr(s, env, st.Let.Value, declaredType)
		if st.Let.Type != nil {
			if _, err := c.Types.Unify(declaredType, value.Type(), st.Span); err != nil {
				c.Handler.Add(err)
			}
		}
		env.bind(st.Let.Name, value.Type())
		return typedtree.TyStmt{
			Let: &typedtree.TyLetStmt{Name: st.Let.Name, Mutable: st.Let.Mutable, Type: value.Type(), Value: value},
			Span: st.Span,
		}
	}
	expr := c.checkExpr(s, env, st.Expr, c.Types.Unknown())
	return typedtree.TyStmt{Expr: expr, HasSemicolon: st.HasSemicolon, Span: st.Span}
}

// checkExpr type-checks e against an expectation (which may be
// c.Types.Unknown() when the caller has no particular expectation),
// returning the typed node with its resolved TypeId.
func (c *Checker) checkExpr(s *Scope, env *typeEnv, e untyped.Expr, expected typeengine.TypeId) *typedtree.TyExpression {
	span := e.Span()
	switch ex := e.(type) {
	case *untyped.Literal:
		return c.checkLiteral(ex)

	case *untyped.FunctionApplication:
		return c.checkFunctionApplication(s, env, ex)

	case *untyped.LazyOp:
		left := c.checkExpr(s, env, ex.Left, c.Types.Boolean())
		right := c.checkExpr(s, env, ex.Right, c.Types.Boolean())
		n := typedtree.NewExpression(typedtree.KLazyOp, c.Types.Boolean(), span)
		n.LazyOp = &typedtree.TyLazyOp{Op: typedtree.LazyKind(ex.Op), Left: left, Right: right}
		return n

	case *untyped.ConstantRef:
		id, err := s.Resolve(ex.Path)
		c.Handler.Add(err)
		t := c.Types.ErrorRecovery()
		if err == nil {
			decl := c.Decls.Get(id)
			if decl.Constant != nil {
				t = decl.Constant.Type
			} else if decl.Configurable != nil {
				t = decl.Configurable.Type
			}
		}
		n := typedtree.NewExpression(typedtree.KConstantRef, t, span)
		n.ConstantRef = &typedtree.TyConstantRef{Decl: id}
		return n

	case *untyped.VariableRef:
		t, ok := env.lookup(ex.Name)
		if !ok {
			c.Handler.Add(errors.New(errors.NR001, fmt.Sprintf("unknown symbol %q", ex.Name), nil, nil))
			t = c.Types.ErrorRecovery()
		}
		n := typedtree.NewExpression(typedtree.KVariableRef, t, span)
		n.VariableRef = &typedtree.TyVariableRef{Name: ex.Name}
		return n

	case *untyped.TupleExpr:
		elems := make([]*typedtree.TyExpression, len(ex.Elems))
		elemTypes := make([]typeengine.TypeId, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = c.checkExpr(s, env, el, c.Types.Unknown())
			elemTypes[i] = elems[i].Type()
		}
		n := typedtree.NewExpression(typedtree.KTuple, c.Types.Tuple(elemTypes...), span)
		n.Tuple = &typedtree.TyTuple{Elems: elems}
		return n

	case *untyped.ArrayExpr:
		elems := make([]*typedtree.TyExpression, len(ex.Elems))
		var elemType typeengine.TypeId
		for i, el := range ex.Elems {
			elems[i] = c.checkExpr(s, env, el, c.Types.Unknown())
			if i == 0 {
				elemType = elems[i].Type()
			} else if _, err := c.Types.Unify(elemType, elems[i].Type(), span); err != nil {
				c.Handler.Add(err)
			}
		}
		if len(elems) == 0 {
			elemType = c.Types.Unknown()
		}
		n := typedtree.NewExpression(typedtree.KArray, c.Types.Array(elemType, len(elems)), span)
		n.Array = &typedtree.TyArray{Elems: elems}
		return n

	case *untyped.IndexExpr:
		base := c.checkExpr(s, env, ex.Base, c.Types.Unknown())
		index := c.checkExpr(s, env, ex.Index, c.Types.UnsignedInteger(typeengine.Bits64))
		elemType := c.Types.ErrorRecovery()
		info := c.Types.Get(c.Types.Resolve(base.Type()))
		if info.Kind == typeengine.KArray || info.Kind == typeengine.KSlice {
			elemType = info.Elem.Type
		}
		n := typedtree.NewExpression(typedtree.KIndex, elemType, span)
		n.Index = &typedtree.TyIndex{Base: base, Index: index}
		return n

	case *untyped.StructInstantiation:
		return c.checkStructInstantiation(s, env, ex)

	case *untyped.CodeBlock:
		block := c.checkStmts(s, env, ex.Stmts, expected)
		t := c.Types.Unit()
		if n := len(block.Stmts); n > 0 {
			last := block.Stmts[n-1]
			if last.Expr != nil && !last.HasSemicolon {
				t = last.Expr.Type()
			}
		}
		n := typedtree.NewExpression(typedtree.KCodeBlock, t, span)
		n.CodeBlock = block
		return n

	case *untyped.MatchExpr:
		return c.checkMatch(s, env, ex)

	case *untyped.IfExpr:
		cond := c.checkExpr(s, env, ex.Cond, c.Types.Boolean())
		then := c.checkExpr(s, env, ex.Then, c.Types.Unknown())
		var elseExpr *typedtree.TyExpression
		t := then.Type()
		if ex.Else != nil {
			elseExpr = c.checkExpr(s, env, ex.Else, t)
			if _, err := c.Types.Unify(t, elseExpr.Type(), span); err != nil {
				c.Handler.Add(err)
			}
		} else {
			t = c.Types.Unit()
		}
		n := typedtree.NewExpression(typedtree.KIf, t, span)
		n.If = &typedtree.TyIfExpr{Cond: cond, Then: then.CodeBlock, Else: elseExpr}
		return n

	case *untyped.AsmBlock:
		return c.checkAsmBlock(s, env, ex)

	case *untyped.FieldAccess:
		return c.checkFieldAccess(s, env, ex)

	case *untyped.EnumInstantiation:
		return c.checkEnumInstantiation(s, env, ex)

	case *untyped.AbiCast:
		addr := c.checkExpr(s, env, ex.Address, c.Types.B256())
		abiId, err := s.Resolve(untyped.CallPath{Suffix: ex.AbiName})
		c.Handler.Add(err)
		t := c.Types.ContractCaller(ex.AbiName, nil)
		n := typedtree.NewExpression(typedtree.KAbiCast, t, span)
		n.AbiCast = &typedtree.TyAbiCast{AbiDecl: abiId, Address: addr}
		return n

	case *untyped.StorageAccess:
		return c.checkStorageAccess(s, ex)

	case *untyped.Intrinsic:
		args := make([]*typedtree.TyExpression, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = c.checkExpr(s, env, a, c.Types.Unknown())
		}
		typeArgs := make([]typeengine.TypeId, len(ex.TypeArgs))
		for i, ta := range ex.TypeArgs {
			t, err := c.ResolveType(s, nil, ta)
			c.Handler.Add(err)
			typeArgs[i] = t
		}
		t := intrinsicResultType(c, ex.Name, typeArgs)
		n := typedtree.NewExpression(typedtree.KIntrinsic, t, span)
		n.Intrinsic = &typedtree.TyIntrinsic{Name: ex.Name, Args: args, TypeArgs: typeArgs}
		return n

	case *untyped.WhileExpr:
		cond := c.checkExpr(s, env, ex.Cond, c.Types.Boolean())
		body := c.checkExpr(s, env, ex.Body, c.Types.Unknown())
		n := typedtree.NewExpression(typedtree.KWhile, c.Types.Unit(), span)
		n.While = &typedtree.TyWhileExpr{Cond: cond, Body: body.CodeBlock}
		return n

	case *untyped.ForExpr:
		iterable := c.checkExpr(s, env, ex.Iterable, c.Types.Unknown())
		bodyEnv := newTypeEnv(env)
		bodyEnv.bind(ex.Binder, c.Types.Unknown())
		body := c.checkStmts(s, bodyEnv, ex.Body.Stmts, c.Types.Unknown())
		n := typedtree.NewExpression(typedtree.KFor, c.Types.Unit(), span)
		n.For = &typedtree.TyForExpr{Binder: ex.Binder, Iterable: iterable, Body: body}
		return n

	case *untyped.BreakExpr:
		n := typedtree.NewExpression(typedtree.KBreak, c.Types.Unit(), span)
		n.Break = &typedtree.TyBreakExpr{}
		return n

	case *untyped.ContinueExpr:
		n := typedtree.NewExpression(typedtree.KContinue, c.Types.Unit(), span)
		n.Continue = &typedtree.TyContinueExpr{}
		return n

	case *untyped.Reassignment:
		return c.checkReassignment(s, env, ex)

	case *untyped.ReturnExpr:
		var value *typedtree.TyExpression
		if ex.Value != nil {
			value = c.checkExpr(s, env, ex.Value, expected)
		}
		n := typedtree.NewExpression(typedtree.KReturn, c.Types.Unit(), span)
		n.Return = &typedtree.TyReturnExpr{Value: value}
		return n

	case *untyped.RefExpr:
		inner := c.checkExpr(s, env, ex.Value, c.Types.Unknown())
		n := typedtree.NewExpression(typedtree.KRef, c.Types.Ref(ex.Mutable, inner.Type()), span)
		n.Ref = &typedtree.TyRefExpr{Mutable: ex.Mutable, Value: inner}
		return n

	case *untyped.DerefExpr:
		inner := c.checkExpr(s, env, ex.Value, c.Types.Unknown())
		info := c.Types.Get(c.Types.Resolve(inner.Type()))
		t := c.Types.ErrorRecovery()
		if info.Kind == typeengine.KRef {
			t = info.RefTo
		}
		n := typedtree.NewExpression(typedtree.KDeref, t, span)
		n.Deref = &typedtree.TyDerefExpr{Value: inner}
		return n
	}
	c.Handler.Add(errors.New(errors.TY005, fmt.Sprintf("unhandled expression node %T", e), nil, nil))
	return typedtree.NewExpression(typedtree.KLiteral, c.Types.ErrorRecovery(), span)
}

func (c *Checker) checkLiteral(l *untyped.Literal) *typedtree.TyExpression {
	var t typeengine.TypeId
	kind := typedtree.LiteralKind(l.Kind)
	switch l.Kind {
	case untyped.LitU8:
		t = c.Types.UnsignedInteger(typeengine.Bits8)
	case untyped.LitU16:
		t = c.Types.UnsignedInteger(typeengine.Bits16)
	case untyped.LitU32:
		t = c.Types.UnsignedInteger(typeengine.Bits32)
	case untyped.LitU64:
		t = c.Types.UnsignedInteger(typeengine.Bits64)
	case untyped.LitU256:
		t = c.Types.UnsignedInteger(typeengine.Bits256)
	case untyped.LitB256:
		t = c.Types.B256()
	case untyped.LitBool:
		t = c.Types.Boolean()
	case untyped.LitString:
		s, _ := l.Value.(string)
		t = c.Types.String(len(s))
	case untyped.LitNumeric:
		t = c.Types.Numeric()
		kind = typedtree.LitU64
	}
	n := typedtree.NewExpression(typedtree.KLiteral, t, l.Span())
	n.Literal = &typedtree.TyLiteral{Kind: kind, Value: l.Value}
	return n
}

func (c *Checker) checkFunctionApplication(s *Scope, env *typeEnv, ex *untyped.FunctionApplication) *typedtree.TyExpression {
	span := ex.Span()
	id, err := s.Resolve(ex.Func)
	if err != nil {
		c.Handler.Add(err)
		n := typedtree.NewExpression(typedtree.KFunctionApplication, c.Types.ErrorRecovery(), span)
		n.FunctionApp = &typedtree.TyFunctionApplication{}
		return n
	}
	decl := c.Decls.Get(id)
	fn := decl.Function

	subst := typeengine.Subst{}
	for i, ta := range ex.TypeArgs {
		if i < len(decl.TypeParams) {
			t, terr := c.ResolveType(s, nil, ta)
			c.Handler.Add(terr)
			subst[decl.TypeParams[i].TypeId] = t
		}
	}

	args := make([]typedtree.TyNamedArg, len(ex.Args))
	for i, a := range ex.Args {
		var expected typeengine.TypeId
		if i < len(fn.Params) {
			expected = c.Types.Apply(subst, fn.Params[i].Type)
		} else {
			expected = c.Types.Unknown()
		}
		val := c.checkExpr(s, env, a.Value, expected)
		if i < len(fn.Params) {
			collectSubst(c.Types, fn.Params[i].Type, val.Type(), subst)
			if _, uerr := c.Types.Unify(c.Types.Apply(subst, fn.Params[i].Type), val.Type(), span); uerr != nil {
				c.Handler.Add(uerr)
			}
		}
		args[i] = typedtree.TyNamedArg{Name: a.Name, Value: val}
	}

	typeArgs := make([]typeengine.TypeId, len(decl.TypeParams))
	for i, tp := range decl.TypeParams {
		if t, ok := subst[tp.TypeId]; ok {
			typeArgs[i] = t
		} else {
			typeArgs[i] = tp.TypeId
		}
	}

	retType := c.Types.Apply(subst, fn.ReturnType)
	n := typedtree.NewExpression(typedtree.KFunctionApplication, retType, span)
	n.FunctionApp = &typedtree.TyFunctionApplication{Func: id, Args: args, TypeArgs: typeArgs}
	return n
}

func (c *Checker) checkStructInstantiation(s *Scope, env *typeEnv, ex *untyped.StructInstantiation) *typedtree.TyExpression {
	span := ex.Span()
	id, err := s.Resolve(ex.StructName)
	c.Handler.Add(err)
	if err != nil {
		n := typedtree.NewExpression(typedtree.KStructInstantiation, c.Types.ErrorRecovery(), span)
		n.StructInst = &typedtree.TyStructInstantiation{}
		return n
	}
	decl := c.Decls.Get(id)
	fields := make([]typedtree.TyStructFieldInit, len(ex.Fields))
	for i, f := range ex.Fields {
		var expected typeengine.TypeId
		for _, fd := range decl.Struct.Fields {
			if fd.Name == f.Name {
				expected = fd.Type
				break
			}
		}
		val := c.checkExpr(s, env, f.Value, expected)
		fields[i] = typedtree.TyStructFieldInit{Name: f.Name, Value: val}
	}
	t := c.Types.Struct(id.ToTypeRef())
	n := typedtree.NewExpression(typedtree.KStructInstantiation, t, span)
	n.StructInst = &typedtree.TyStructInstantiation{StructDecl: id, Fields: fields}
	return n
}

func (c *Checker) checkFieldAccess(s *Scope, env *typeEnv, ex *untyped.FieldAccess) *typedtree.TyExpression {
	span := ex.Span()
	base := c.checkExpr(s, env, ex.Base, c.Types.Unknown())
	info := c.Types.Get(c.Types.Resolve(base.Type()))
	t := c.Types.ErrorRecovery()
	idx := -1
	switch info.Kind {
	case typeengine.KStruct:
		declRef := info.Decl
		decl := c.Decls.Get(declengine.DeclId{Kind: declengine.KindStruct, Idx: declRef.Id})
		for i, fd := range decl.Struct.Fields {
			if fd.Name == ex.Field {
				t, idx = fd.Type, i
				break
			}
		}
	case typeengine.KTuple:
		if ex.Index != nil && *ex.Index < len(info.Elems) {
			t, idx = info.Elems[*ex.Index].Type, *ex.Index
		}
	}
	n := typedtree.NewExpression(typedtree.KFieldAccess, t, span)
	n.FieldAccess = &typedtree.TyFieldAccess{Base: base, Field: ex.Field, Index: idx}
	return n
}

func (c *Checker) checkEnumInstantiation(s *Scope, env *typeEnv, ex *untyped.EnumInstantiation) *typedtree.TyExpression {
	span := ex.Span()
	id, err := s.Resolve(ex.EnumName)
	c.Handler.Add(err)
	if err != nil {
		n := typedtree.NewExpression(typedtree.KEnumInstantiation, c.Types.ErrorRecovery(), span)
		n.EnumInst = &typedtree.TyEnumInstantiation{Variant: ex.Variant}
		return n
	}
	decl := c.Decls.Get(id)
	var content *typedtree.TyExpression
	if ex.Content != nil {
		var expected typeengine.TypeId
		for _, v := range decl.Enum.Variants {
			if v.Name == ex.Variant && v.Type != nil {
				expected = *v.Type
				break
			}
		}
		content = c.checkExpr(s, env, ex.Content, expected)
	}
	t := c.Types.Enum(id.ToTypeRef())
	n := typedtree.NewExpression(typedtree.KEnumInstantiation, t, span)
	n.EnumInst = &typedtree.TyEnumInstantiation{EnumDecl: id, Variant: ex.Variant, Content: content}
	return n
}

func (c *Checker) checkStorageAccess(s *Scope, ex *untyped.StorageAccess) *typedtree.TyExpression {
	span := ex.Span()
	id, err := s.Resolve(untyped.CallPath{Suffix: "storage"})
	c.Handler.Add(err)
	t := c.Types.ErrorRecovery()
	idx := -1
	if err == nil && len(ex.Path) > 0 {
		decl := c.Decls.Get(id)
		for i, f := range decl.Storage.Fields {
			if f.Name == ex.Path[0] {
				t, idx = f.Type, i
				break
			}
		}
	}
	n := typedtree.NewExpression(typedtree.KStorageAccess, t, span)
	n.Storage = &typedtree.TyStorageAccess{Field: id, FieldIndex: idx}
	return n
}

func (c *Checker) checkAsmBlock(s *Scope, env *typeEnv, ex *untyped.AsmBlock) *typedtree.TyExpression {
	span := ex.Span()
	regs := make([]typedtree.TyAsmRegister, len(ex.Registers))
	for i, r := range ex.Registers {
		var init *typedtree.TyExpression
		if r.Init != nil {
			init = c.checkExpr(s, env, r.Init, c.Types.Unknown())
		}
		regs[i] = typedtree.TyAsmRegister{Name: r.Name, Init: init}
	}
	body := make([]typedtree.TyAsmInstr, len(ex.Body))
	for i, instr := range ex.Body {
		body[i] = typedtree.TyAsmInstr{Opcode: instr.Opcode, Operands: instr.Operands, Immediate: instr.Immediate, Span: instr.Span}
	}
	t := c.Types.Unit()
	if ex.ReturnTy != nil {
		rt, err := c.ResolveType(s, nil, *ex.ReturnTy)
		c.Handler.Add(err)
		t = rt
	}
	n := typedtree.NewExpression(typedtree.KAsm, t, span)
	n.Asm = &typedtree.TyAsmBlock{Registers: regs, Body: body, ReturnTy: t, ReturnReg: ex.ReturnReg}
	return n
}

func (c *Checker) checkReassignment(s *Scope, env *typeEnv, ex *untyped.Reassignment) *typedtree.TyExpression {
	span := ex.Span()
	baseType, ok := env.lookup(ex.Base)
	if !ok {
		c.Handler.Add(errors.New(errors.NR001, fmt.Sprintf("unknown symbol %q", ex.Base), nil, nil))
		baseType = c.Types.ErrorRecovery()
	}
	projs := make([]typedtree.StorageProjection, len(ex.Projection))
	cur := baseType
	for i, p := range ex.Projection {
		switch p.Kind {
		case untyped.ProjStructField:
			info := c.Types.Get(c.Types.Resolve(cur))
			if info.Kind == typeengine.KStruct {
				decl := c.Decls.Get(declengine.DeclId{Kind: declengine.KindStruct, Idx: info.Decl.Id})
				for _, fd := range decl.Struct.Fields {
					if fd.Name == p.Field {
						cur = fd.Type
						break
					}
				}
			}
			projs[i] = typedtree.StorageProjection{Kind: typedtree.ProjStructField, Field: p.Field}
		case untyped.ProjTupleField:
			info := c.Types.Get(c.Types.Resolve(cur))
			if info.Kind == typeengine.KTuple && p.Index < len(info.Elems) {
				cur = info.Elems[p.Index].Type
			}
			projs[i] = typedtree.StorageProjection{Kind: typedtree.ProjTupleField, Index: p.Index}
		case untyped.ProjArrayIndex:
			idxExpr := c.checkExpr(s, env, p.Expr, c.Types.UnsignedInteger(typeengine.Bits64))
			info := c.Types.Get(c.Types.Resolve(cur))
			if info.Kind == typeengine.KArray {
				cur = info.Elem.Type
			}
			projs[i] = typedtree.StorageProjection{Kind: typedtree.ProjArrayIndex, Expr: idxExpr}
		}
	}
	value := c.checkExpr(s, env, ex.Value, cur)
	if _, err := c.Types.Unify(cur, value.Type(), span); err != nil {
		c.Handler.Add(err)
	}
	n := typedtree.NewExpression(typedtree.KReassignment, c.Types.Unit(), span)
	n.Reassignment = &typedtree.TyReassignment{
		Base: ex.Base, Projection: projs, ViaDeref: ex.ViaDeref,
		Op: typedtree.ReassignOp(ex.Op), Value: value,
	}
	return n
}

// checkMatch type-checks a match expression and records an SEM005 warning
// when decision-tree compilation proves the arms are non-exhaustive.
func (c *Checker) checkMatch(s *Scope, env *typeEnv, ex *untyped.MatchExpr) *typedtree.TyExpression {
	span := ex.Span()
	scrutinee := c.checkExpr(s, env, ex.Scrutinee, c.Types.Unknown())

	arms := make([]typedtree.TyMatchArm, len(ex.Arms))
	dtreeArms := make([]dtree.MatchArm, len(ex.Arms))
	var resultType typeengine.TypeId
	for i, arm := range ex.Arms {
		armEnv := newTypeEnv(env)
		pat := c.checkPattern(armEnv, arm.Pattern, scrutinee.Type())
		var guard *typedtree.TyExpression
		if arm.Guard != nil {
			guard = c.checkExpr(s, armEnv, arm.Guard, c.Types.Boolean())
		}
		body := c.checkExpr(s, armEnv, arm.Body, c.Types.Unknown())
		if i == 0 {
			resultType = body.Type()
		} else if _, err := c.Types.Unify(resultType, body.Type(), span); err != nil {
			c.Handler.Add(err)
		}
		arms[i] = typedtree.TyMatchArm{Pattern: pat, Guard: guard, Body: body, Span: arm.Span}
		dtreeArms[i] = dtree.MatchArm{Pattern: arm.Pattern, Guard: arm.Guard, Body: arm.Body}
	}

	if dtree.CanCompileToTree(dtreeArms) {
		compiler := dtree.NewCompiler(dtreeArms)
		tree := compiler.Compile()
		if !dtree.IsExhaustive(tree) {
			c.Handler.Add(errors.New(errors.SEM005, "match expression is not exhaustive", &span, nil))
		}
	}

	n := typedtree.NewExpression(typedtree.KMatch, resultType, span)
	n.Match = &typedtree.TyMatchExpr{Scrutinee: scrutinee, Arms: arms}
	return n
}

func (c *Checker) checkPattern(env *typeEnv, p untyped.Pattern, scrutinee typeengine.TypeId) typedtree.TyPattern {
	span := p.Span()
	var base typedtree.TyPattern
	switch pt := p.(type) {
	case *untyped.WildcardPattern:
		return typedtree.NewWildcardPattern(scrutinee, span)
	case *untyped.VarPattern:
		env.bind(pt.Name, scrutinee)
		return typedtree.NewVarPattern(scrutinee, span, pt.Name)
	case *untyped.LiteralPattern:
		lit := c.checkLiteral(pt.Value)
		return typedtree.NewLiteralPattern(scrutinee, span, lit.Literal)
	case *untyped.EnumPattern:
		declId, _ := c.resolveEnumDeclForType(scrutinee)
		var sub typedtree.TyPattern
		if pt.Sub != nil {
			subType := c.Types.Unknown()
			if dd := c.Decls.Get(declId); declId.Kind == declengine.KindEnum {
				for _, v := range dd.Enum.Variants {
					if v.Name == pt.Variant && v.Type != nil {
						subType = *v.Type
					}
				}
			}
			sub = c.checkPattern(env, pt.Sub, subType)
		}
		return typedtree.NewEnumPattern(scrutinee, span, declId, pt.Variant, sub)
	case *untyped.StructPattern:
		declId, _ := c.resolveStructDeclForType(scrutinee)
		fields := make(map[string]typedtree.TyPattern, len(pt.Fields))
		for name, sub := range pt.Fields {
			fieldType := c.Types.Unknown()
			if declId.Kind == declengine.KindStruct {
				dd := c.Decls.Get(declId)
				for _, fd := range dd.Struct.Fields {
					if fd.Name == name {
						fieldType = fd.Type
					}
				}
			}
			fields[name] = c.checkPattern(env, sub, fieldType)
		}
		return typedtree.NewStructPattern(scrutinee, span, declId, fields)
	case *untyped.TuplePattern:
		info := c.Types.Get(c.Types.Resolve(scrutinee))
		elems := make([]typedtree.TyPattern, len(pt.Elems))
		for i, sub := range pt.Elems {
			elemType := c.Types.Unknown()
			if info.Kind == typeengine.KTuple && i < len(info.Elems) {
				elemType = info.Elems[i].Type
			}
			elems[i] = c.checkPattern(env, sub, elemType)
		}
		return typedtree.NewTuplePattern(scrutinee, span, elems)
	}
	return base
}

func (c *Checker) resolveEnumDeclForType(t typeengine.TypeId) (declengine.DeclId, bool) {
	info := c.Types.Get(c.Types.Resolve(t))
	if info.Kind != typeengine.KEnum {
		return declengine.DeclId{}, false
	}
	return declengine.DeclId{Kind: declengine.KindEnum, Idx: info.Decl.Id}, true
}

func (c *Checker) resolveStructDeclForType(t typeengine.TypeId) (declengine.DeclId, bool) {
	info := c.Types.Get(c.Types.Resolve(t))
	if info.Kind != typeengine.KStruct {
		return declengine.DeclId{}, false
	}
	return declengine.DeclId{Kind: declengine.KindStruct, Idx: info.Decl.Id}, true
}

func intrinsicResultType(c *Checker, name string, typeArgs []typeengine.TypeId) typeengine.TypeId {
	switch name {
	case "__size_of", "__size_of_val", "__log":
		return c.Types.UnsignedInteger(typeengine.Bits64)
	case "__addr_of":
		return c.Types.Ref(false, c.Types.UnsignedInteger(typeengine.Bits8))
	default:
		if len(typeArgs) > 0 {
			return typeArgs[0]
		}
		return c.Types.Unit()
	}
}
