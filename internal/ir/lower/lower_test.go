package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/fuellabs-lite/swayc/internal/typedtree"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

func newLowerer() (*Lowerer, *typeengine.Engine, *declengine.Engine) {
	te := typeengine.New()
	de := declengine.New()
	return New(te, de), te, de
}

// identity(x: u64) -> u64 { x }
func TestLowerFunctionIdentityReturnsParam(t *testing.T) {
	l, te, de := newLowerer()
	u64 := te.UnsignedInteger(typeengine.Bits64)

	body := &typedtree.TyCodeBlock{Stmts: []typedtree.TyStmt{
		{Expr: typedtree.NewExpression(typedtree.KVariableRef, u64, ast.Span{}), HasSemicolon: false},
	}}
	body.Stmts[0].Expr.VariableRef = &typedtree.TyVariableRef{Name: "x"}

	id := de.Insert(&declengine.Decl{
		Name: "identity",
		Id:   declengine.DeclId{Kind: declengine.KindFunction},
		Function: &declengine.FunctionDecl{
			Params:     []declengine.FunctionParam{{Name: "x", Type: u64}},
			ReturnType: u64,
			Body:       body,
		},
	})

	f := l.LowerFunction(id)
	assert.Equal(t, 1, len(f.Params))
	assert.Equal(t, ir.Uint64, f.Params[0].Type)
	last := f.Blocks[len(f.Blocks)-1]
	term := last.Instructions[len(last.Instructions)-1]
	assert.Equal(t, ir.IRet, term.Op.Kind)
}

// if cond { 1u64 } else { 2u64 } lowers to a conditional branch merging
// through a block argument.
func TestLowerIfMergesThroughBlockArg(t *testing.T) {
	l, te, de := newLowerer()
	u64 := te.UnsignedInteger(typeengine.Bits64)
	boolT := te.Boolean()
	_ = de

	cond := typedtree.NewExpression(typedtree.KLiteral, boolT, ast.Span{})
	cond.Literal = &typedtree.TyLiteral{Kind: typedtree.LitBool, Value: true}

	one := typedtree.NewExpression(typedtree.KLiteral, u64, ast.Span{})
	one.Literal = &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(1)}
	two := typedtree.NewExpression(typedtree.KLiteral, u64, ast.Span{})
	two.Literal = &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(2)}

	ifExpr := typedtree.NewExpression(typedtree.KIf, u64, ast.Span{})
	ifExpr.If = &typedtree.TyIfExpr{
		Cond: cond,
		Then: &typedtree.TyCodeBlock{Stmts: []typedtree.TyStmt{{Expr: one}}},
		Else: two,
	}

	body := &typedtree.TyCodeBlock{Stmts: []typedtree.TyStmt{{Expr: ifExpr}}}
	id := de.Insert(&declengine.Decl{
		Name: "pick",
		Id:   declengine.DeclId{Kind: declengine.KindFunction},
		Function: &declengine.FunctionDecl{
			ReturnType: u64,
			Body:       body,
		},
	})

	f := l.LowerFunction(id)

	var mergeBlock *ir.Block
	for _, b := range f.Blocks {
		if b.Label == "if.merge" {
			mergeBlock = b
		}
	}
	if mergeBlock == nil {
		t.Fatalf("expected an if.merge block")
	}
	assert.Equal(t, 1, len(mergeBlock.Args))
	assert.Equal(t, ir.Uint64, mergeBlock.Args[0].Type)
}

func TestLowerTypeStructBuildsFieldList(t *testing.T) {
	l, te, de := newLowerer()
	u64 := te.UnsignedInteger(typeengine.Bits64)
	boolT := te.Boolean()

	structId := de.Insert(&declengine.Decl{
		Name: "Point",
		Id:   declengine.DeclId{Kind: declengine.KindStruct},
		Struct: &declengine.StructDecl{
			Fields: []declengine.FieldDecl{
				{Name: "x", Type: u64},
				{Name: "ok", Type: boolT},
			},
		},
	})
	structType := te.Struct(structId.ToTypeRef())

	irType := l.LowerType(structType)
	assert.Equal(t, ir.KStruct, irType.Kind)
	assert.Equal(t, []ir.Type{ir.Uint64, ir.Bool}, irType.Fields)
}

func TestLowerTypeEnumBuildsUnion(t *testing.T) {
	l, te, de := newLowerer()
	u64 := te.UnsignedInteger(typeengine.Bits64)

	enumId := de.Insert(&declengine.Decl{
		Name: "Option",
		Id:   declengine.DeclId{Kind: declengine.KindEnum},
		Enum: &declengine.EnumDecl{
			Variants: []declengine.VariantDecl{
				{Name: "None", Tag: 0},
				{Name: "Some", Tag: 1, Type: &u64},
			},
		},
	})
	enumType := te.Enum(enumId.ToTypeRef())

	irType := l.LowerType(enumType)
	assert.Equal(t, ir.KUnion, irType.Kind)
	assert.Equal(t, []ir.Type{ir.Unit, ir.Uint64}, irType.Fields)
}

// match 1u64 { 1u64 => 10u64, _ => 20u64 } reaches the merge block through
// exactly one of the two arm tests.
func TestLowerMatchBuildsArmChainAndMerge(t *testing.T) {
	l, te, de := newLowerer()
	u64 := te.UnsignedInteger(typeengine.Bits64)

	scrut := typedtree.NewExpression(typedtree.KLiteral, u64, ast.Span{})
	scrut.Literal = &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(1)}

	ten := typedtree.NewExpression(typedtree.KLiteral, u64, ast.Span{})
	ten.Literal = &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(10)}
	twenty := typedtree.NewExpression(typedtree.KLiteral, u64, ast.Span{})
	twenty.Literal = &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(20)}

	matchExpr := typedtree.NewExpression(typedtree.KMatch, u64, ast.Span{})
	matchExpr.Match = &typedtree.TyMatchExpr{
		Scrutinee: scrut,
		Arms: []typedtree.TyMatchArm{
			{Pattern: typedtree.NewLiteralPattern(u64, ast.Span{}, &typedtree.TyLiteral{Kind: typedtree.LitU64, Value: uint64(1)}), Body: ten},
			{Pattern: typedtree.NewWildcardPattern(u64, ast.Span{}), Body: twenty},
		},
	}

	body := &typedtree.TyCodeBlock{Stmts: []typedtree.TyStmt{{Expr: matchExpr}}}
	id := de.Insert(&declengine.Decl{
		Name: "pick_one",
		Id:   declengine.DeclId{Kind: declengine.KindFunction},
		Function: &declengine.FunctionDecl{
			ReturnType: u64,
			Body:       body,
		},
	})

	f := l.LowerFunction(id)

	found := false
	for _, b := range f.Blocks {
		if b.Label == "match.merge" {
			found = true
			assert.Equal(t, 1, len(b.Args))
		}
	}
	assert.True(t, found)
}
