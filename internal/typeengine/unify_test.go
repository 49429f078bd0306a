package typeengine

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ast"
)

func sp() ast.Span { return ast.Span{} }

func TestUnifyBindsUnknown(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	unk := e.Unknown()
	got, err := e.Unify(unk, u8, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != u8 {
		t.Fatalf("Unify(unknown, u8) = %v, want %v", got, u8)
	}
}

func TestUnifyIsSymmetric(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	u16 := e.UnsignedInteger(Bits16)

	_, err1 := e.Unify(u8, u16, sp())
	_, err2 := e.Unify(u16, u8, sp())
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("Unify should agree on success/failure regardless of argument order")
	}
	if err1 == nil {
		t.Fatalf("u8 and u16 should not unify")
	}
}

func TestUnifyNumericRefinesToConcrete(t *testing.T) {
	e := New()
	num := e.Numeric()
	u32 := e.UnsignedInteger(Bits32)
	got, err := e.Unify(num, u32, sp())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != u32 {
		t.Fatalf("Numeric should refine to the concrete integer kind")
	}
}

func TestUnifyErrorRecoveryAbsorbsMismatch(t *testing.T) {
	e := New()
	bad := e.ErrorRecovery()
	b256 := e.B256()
	if _, err := e.Unify(bad, b256, sp()); err != nil {
		t.Fatalf("ErrorRecovery should unify with anything without error")
	}
	if _, err := e.Unify(b256, bad, sp()); err != nil {
		t.Fatalf("ErrorRecovery should unify with anything without error, either side")
	}
}

func TestUnifyOccursCheckRejectsInfiniteType(t *testing.T) {
	e := New()
	g := e.UnknownGeneric("T")
	selfArray := e.Array(g, 4)
	if _, err := e.Unify(g, selfArray, sp()); err == nil {
		t.Fatalf("expected occurs-check failure binding T to [T; 4]")
	}
}

func TestUnifyStructuralMismatchReportsTY001(t *testing.T) {
	e := New()
	boolT := e.Boolean()
	u8 := e.UnsignedInteger(Bits8)
	_, err := e.Unify(boolT, u8, sp())
	if err == nil {
		t.Fatalf("expected a type mismatch")
	}
	if err.Code != "TY001" {
		t.Fatalf("Code = %s, want TY001", err.Code)
	}
}

func TestUnifyStructsByDeclIdentity(t *testing.T) {
	e := New()
	declA := DeclRef{Kind: "struct", Id: 0}
	declB := DeclRef{Kind: "struct", Id: 1}
	sa1 := e.Struct(declA)
	sa2 := e.Struct(declA)
	sb := e.Struct(declB)

	if _, err := e.Unify(sa1, sa2, sp()); err != nil {
		t.Fatalf("same decl id structs should unify: %v", err)
	}
	if _, err := e.Unify(sa1, sb, sp()); err == nil {
		t.Fatalf("different decl id structs should not unify")
	}
}

func TestIsSubsetOfReflexiveAndTransitive(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	if !e.IsSubsetOf(u8, u8) {
		t.Fatalf("IsSubsetOf must be reflexive")
	}

	declA := DeclRef{Kind: "struct", Id: 5}
	sa := e.Struct(declA)
	custom := e.Custom("Wrapper", sa)
	custom2 := e.Custom("Wrapper", sa)
	if !e.IsSubsetOf(custom, custom2) {
		t.Fatalf("structurally equal customs should be subsets of one another")
	}

	unk := e.UnknownGeneric("T")
	if !e.IsSubsetOf(u8, unk) {
		t.Fatalf("anything should be a subset of an unbound generic")
	}
}

func TestIsSubsetOfNumericWidensToUnsignedInteger(t *testing.T) {
	e := New()
	num := e.Numeric()
	u64 := e.UnsignedInteger(Bits64)
	if !e.IsSubsetOf(num, u64) {
		t.Fatalf("Numeric should be considered a subset of a concrete unsigned integer kind")
	}
}
