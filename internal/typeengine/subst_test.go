package typeengine

import "testing"

func TestApplyIsNoOpWhenUnmapped(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	s := Subst{}
	if got := e.Apply(s, u8); got != u8 {
		t.Fatalf("Apply with an empty Subst must return the original id")
	}
}

func TestApplySubstitutesGenericParameter(t *testing.T) {
	e := New()
	g := e.UnknownGeneric("T")
	u8 := e.UnsignedInteger(Bits8)
	s := Subst{g: u8}
	if got := e.Apply(s, g); got != u8 {
		t.Fatalf("Apply(s, T) = %v, want %v", got, u8)
	}
}

func TestApplyRecursesIntoComposites(t *testing.T) {
	e := New()
	g := e.UnknownGeneric("T")
	u8 := e.UnsignedInteger(Bits8)
	arr := e.Array(g, 4)
	s := Subst{g: u8}

	got := e.Apply(s, arr)
	if got == arr {
		t.Fatalf("Apply should insert a fresh array once its element type changed")
	}
	info := e.Get(got)
	if info.Elem.Type != u8 || info.ArrayLen != 4 {
		t.Fatalf("substituted array should keep its length and swap its element type")
	}
}

func TestApplyNeverMutatesSourceEntry(t *testing.T) {
	e := New()
	g := e.UnknownGeneric("T")
	u8 := e.UnsignedInteger(Bits8)
	u16 := e.UnsignedInteger(Bits16)
	tup := e.Tuple(g, u8)

	before := e.Get(tup)
	_ = e.Apply(Subst{g: u16}, tup)
	after := e.Get(tup)

	if before.Elems[0].Type != after.Elems[0].Type {
		t.Fatalf("the original tuple's TypeInfo entry must never be mutated by Apply")
	}
}

func TestApplyReturnsSameIdWhenNoChildChanged(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	g := e.UnknownGeneric("Unrelated")
	tup := e.Tuple(u8, e.Boolean())

	if got := e.Apply(Subst{g: u8}, tup); got != tup {
		t.Fatalf("Apply should return the original id when no nested id is affected by the substitution")
	}
}

// TestApplyCommutesWithUnify exercises the commutation property documented
// in subst.go: substituting into two types and then unifying them agrees
// with unifying them first and substituting into the result, for two
// [T; 2] arrays with the generic T substituted by u32.
func TestApplyCommutesWithUnify(t *testing.T) {
	e := New()
	g := e.UnknownGeneric("T")
	u32 := e.UnsignedInteger(Bits32)
	s := Subst{g: u32}

	left := e.Array(g, 2)
	right := e.Array(g, 2)

	substLeft := e.Apply(s, left)
	substRight := e.Apply(s, right)
	unifiedAfterSubst, err := e.Unify(substLeft, substRight, sp())
	if err != nil {
		t.Fatalf("unexpected error unifying substituted arrays: %v", err)
	}

	unifiedBeforeSubst, err := e.Unify(left, right, sp())
	if err != nil {
		t.Fatalf("unexpected error unifying arrays prior to substitution: %v", err)
	}
	substOfUnified := e.Apply(s, unifiedBeforeSubst)

	if e.Name(unifiedAfterSubst) != e.Name(substOfUnified) {
		t.Fatalf("subst(unify(a,b)) and unify(subst(a),subst(b)) should render identically")
	}
}
