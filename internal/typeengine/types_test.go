package typeengine

import "testing"

func TestInsertCanonicalizesLeaves(t *testing.T) {
	e := New()
	if e.Boolean() != e.Boolean() {
		t.Fatalf("Boolean() should canonicalize to the same id")
	}
	if e.UnsignedInteger(Bits64) != e.UnsignedInteger(Bits64) {
		t.Fatalf("UnsignedInteger(Bits64) should canonicalize to the same id")
	}
	if e.UnsignedInteger(Bits8) == e.UnsignedInteger(Bits64) {
		t.Fatalf("distinct integer widths must not share an id")
	}
	if e.Unit() != e.Tuple() {
		t.Fatalf("Unit() and the empty Tuple() should be the same canonical id")
	}
}

func TestInsertDoesNotCanonicalizeComposites(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	a1 := e.Array(u8, 4)
	a2 := e.Array(u8, 4)
	if a1 == a2 {
		t.Fatalf("composite types are not canonicalized: each Insert allocates fresh")
	}
	if e.Name(a1) != e.Name(a2) {
		t.Fatalf("structurally identical composites should still render identically")
	}
}

func TestResolveFollowsAliasChain(t *testing.T) {
	e := New()
	u64 := e.UnsignedInteger(Bits64)
	a1 := e.Alias("Balance", u64)
	a2 := e.Alias("Amount", a1)
	if got := e.Resolve(a2); got != u64 {
		t.Fatalf("Resolve should follow the full alias chain, got %v want %v", got, u64)
	}
}

func TestNameRendersComposites(t *testing.T) {
	e := New()
	u8 := e.UnsignedInteger(Bits8)
	tup := e.Tuple(u8, e.Boolean())
	if got, want := e.Name(tup), "(u8, bool)"; got != want {
		t.Fatalf("Name(tuple) = %q, want %q", got, want)
	}
	arr := e.Array(u8, 3)
	if got, want := e.Name(arr), "[u8; 3]"; got != want {
		t.Fatalf("Name(array) = %q, want %q", got, want)
	}
}

func TestGetPanicsOnUnknownId(t *testing.T) {
	e := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("Get should panic on an id the engine never issued")
		}
	}()
	e.Get(TypeId(999))
}
