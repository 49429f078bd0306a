package ir

import "testing"

// buildDiamond builds entry -> (left, right) -> join, the classic diamond
// CFG used to exercise dominator intersection.
func buildDiamond(t *testing.T) *Function {
	t.Helper()
	f := NewFunction("diamond", Unit)
	entry := f.AddBlock("entry")
	left := f.AddBlock("left")
	right := f.AddBlock("right")
	join := f.AddBlock("join")

	f.Emit(entry, InstOp{Kind: IConditionalBranch, TrueBlock: left.Id, FalseBlock: right.Id}, Type{Kind: KInvalid})
	f.Emit(left, InstOp{Kind: IBranch, Target: join.Id}, Type{Kind: KInvalid})
	f.Emit(right, InstOp{Kind: IBranch, Target: join.Id}, Type{Kind: KInvalid})
	f.Emit(join, InstOp{Kind: IRet}, Type{Kind: KInvalid})
	return f
}

func TestDominatorsEntryDominatesEverything(t *testing.T) {
	f := buildDiamond(t)
	d := ComputeDominators(f)
	for _, b := range f.Blocks {
		if !d.Dominates(f.Blocks[0].Id, b.Id) {
			t.Fatalf("entry block should dominate block %d", b.Id)
		}
	}
}

func TestDominatorsJoinNotDominatedByEitherBranch(t *testing.T) {
	f := buildDiamond(t)
	d := ComputeDominators(f)
	left, right, join := f.Blocks[1].Id, f.Blocks[2].Id, f.Blocks[3].Id

	if d.Dominates(left, join) {
		t.Fatalf("left alone should not dominate join: both paths must be considered")
	}
	if d.Dominates(right, join) {
		t.Fatalf("right alone should not dominate join")
	}
	if d.ImmediateDominator(join) != f.Blocks[0].Id {
		t.Fatalf("join's immediate dominator should be entry, got %v", d.ImmediateDominator(join))
	}
}

func TestDominatorsLinearChain(t *testing.T) {
	f := NewFunction("linear", Unit)
	a := f.AddBlock("a")
	b := f.AddBlock("b")
	c := f.AddBlock("c")
	f.Emit(a, InstOp{Kind: IBranch, Target: b.Id}, Type{Kind: KInvalid})
	f.Emit(b, InstOp{Kind: IBranch, Target: c.Id}, Type{Kind: KInvalid})
	f.Emit(c, InstOp{Kind: IRet}, Type{Kind: KInvalid})

	d := ComputeDominators(f)
	if !d.Dominates(a.Id, c.Id) || !d.Dominates(b.Id, c.Id) {
		t.Fatalf("in a linear chain every earlier block dominates every later one")
	}
}
