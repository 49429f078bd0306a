package declengine

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/typeengine"
)

func TestInsertAssignsDenseIdsPerKind(t *testing.T) {
	e := New()
	te := typeengine.New()
	u8 := te.UnsignedInteger(typeengine.Bits8)

	f1 := e.Insert(&Decl{Name: "foo", Id: DeclId{Kind: KindFunction}, Function: &FunctionDecl{ReturnType: u8}})
	f2 := e.Insert(&Decl{Name: "bar", Id: DeclId{Kind: KindFunction}, Function: &FunctionDecl{ReturnType: u8}})
	s1 := e.Insert(&Decl{Name: "Point", Id: DeclId{Kind: KindStruct}, Struct: &StructDecl{}})

	if f1.Idx != 0 || f2.Idx != 1 {
		t.Fatalf("function ids should be dense within their kind: got %v, %v", f1, f2)
	}
	if s1.Idx != 0 {
		t.Fatalf("struct ids are dense within their own kind, independent of function ids: got %v", s1)
	}
	if e.Get(f2).Name != "bar" {
		t.Fatalf("Get should retrieve the interned declaration by id")
	}
}

func TestGetPanicsOnUnknownId(t *testing.T) {
	e := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("Get should panic on an id the engine never issued")
		}
	}()
	e.Get(DeclId{Kind: KindFunction, Idx: 42})
}

func TestReplaceOverwritesInPlace(t *testing.T) {
	e := New()
	te := typeengine.New()
	u8 := te.UnsignedInteger(typeengine.Bits8)
	id := e.Insert(&Decl{Name: "X", Id: DeclId{Kind: KindConstant}, Constant: &ConstantDecl{Type: u8, State: Unresolved}})

	resolved := e.Get(id)
	resolved.Constant.State = Resolved
	resolved.Constant.Value = uint8(7)
	e.Replace(id, resolved)

	if got := e.Get(id).Constant.State; got != Resolved {
		t.Fatalf("Replace should overwrite the stored declaration, got state %v", got)
	}
}

func TestCloneWithSubstSpecializesFunctionSignature(t *testing.T) {
	e := New()
	te := typeengine.New()
	g := te.UnknownGeneric("T")
	u64 := te.UnsignedInteger(typeengine.Bits64)

	orig := e.Insert(&Decl{
		Name: "identity",
		Id:   DeclId{Kind: KindFunction},
		Function: &FunctionDecl{
			Params:     []FunctionParam{{Name: "x", Type: g}},
			ReturnType: g,
		},
	})

	clone := e.CloneWithSubst(te, orig, typeengine.Subst{g: u64})
	cd := e.Get(clone).Function
	if cd.Params[0].Type != u64 || cd.ReturnType != u64 {
		t.Fatalf("CloneWithSubst should substitute every referenced type id")
	}

	origAfter := e.Get(orig).Function
	if origAfter.Params[0].Type != g {
		t.Fatalf("CloneWithSubst must not mutate the source declaration")
	}
	if clone == orig {
		t.Fatalf("CloneWithSubst must intern a fresh DeclId, not reuse the source's")
	}
}

func TestCloneWithSubstPanicsOnUnsupportedKind(t *testing.T) {
	e := New()
	te := typeengine.New()
	id := e.Insert(&Decl{Name: "MyTrait", Id: DeclId{Kind: KindTrait}, Trait: &TraitDecl{}})

	defer func() {
		if recover() == nil {
			t.Fatalf("CloneWithSubst should panic for declaration kinds that are never monomorphized directly")
		}
	}()
	e.CloneWithSubst(te, id, typeengine.Subst{})
}

func TestDeclIdToTypeRefRoundTrips(t *testing.T) {
	e := New()
	id := e.Insert(&Decl{Name: "Point", Id: DeclId{Kind: KindStruct}, Struct: &StructDecl{}})
	ref := id.ToTypeRef()
	if ref.Kind != "struct" || ref.Id != id.Idx {
		t.Fatalf("ToTypeRef() = %+v, want Kind=struct Id=%d", ref, id.Idx)
	}
}
