package typedtree

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ast"
	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

func TestNewExpressionCarriesTypeAndSpan(t *testing.T) {
	te := typeengine.New()
	u8 := te.UnsignedInteger(typeengine.Bits8)
	span := ast.Span{Start: ast.Pos{Line: 1, Column: 1}}

	e := NewExpression(KLiteral, u8, span)
	e.Literal = &TyLiteral{Kind: LitU8, Value: uint8(7)}

	if e.Type() != u8 {
		t.Fatalf("Type() = %v, want %v", e.Type(), u8)
	}
	if e.Span() != span {
		t.Fatalf("Span() mismatch")
	}
	if e.Kind != KLiteral || e.Literal.Value != uint8(7) {
		t.Fatalf("literal payload not preserved")
	}
}

func TestTyPatternsSatisfyInterface(t *testing.T) {
	te := typeengine.New()
	boolT := te.Boolean()
	var patterns = []TyPattern{
		&TyWildcardPattern{tyPatternBase{tyBase{TypeId: boolT}}},
		&TyVarPattern{tyPatternBase: tyPatternBase{tyBase{TypeId: boolT}}, Name: "x"},
	}
	for i, p := range patterns {
		if p.Type() != boolT {
			t.Fatalf("pattern %d: Type() = %v, want %v", i, p.Type(), boolT)
		}
	}
}

func TestPatternConstructorsCarryTypeAndSpan(t *testing.T) {
	te := typeengine.New()
	u64 := te.UnsignedInteger(typeengine.Bits64)
	span := ast.Span{Start: ast.Pos{Line: 2, Column: 3}}

	wc := NewWildcardPattern(u64, span)
	if wc.Type() != u64 || wc.Span() != span {
		t.Fatalf("NewWildcardPattern didn't carry type/span")
	}

	v := NewVarPattern(u64, span, "n")
	if v.Name != "n" || v.Type() != u64 {
		t.Fatalf("NewVarPattern didn't carry name/type")
	}

	lit := NewLiteralPattern(u64, span, &TyLiteral{Kind: LitU64, Value: uint64(1)})
	if lit.Value.Value != uint64(1) {
		t.Fatalf("NewLiteralPattern didn't carry literal value")
	}

	tup := NewTuplePattern(u64, span, []TyPattern{wc, v})
	if len(tup.Elems) != 2 {
		t.Fatalf("NewTuplePattern didn't carry elems")
	}
}

func TestTyStructInstantiationHoldsDeclId(t *testing.T) {
	de := declengine.New()
	id := de.Insert(&declengine.Decl{Name: "Point", Id: declengine.DeclId{Kind: declengine.KindStruct}, Struct: &declengine.StructDecl{}})

	inst := &TyStructInstantiation{StructDecl: id}
	if inst.StructDecl != id {
		t.Fatalf("StructDecl field should round-trip the DeclId")
	}
}
