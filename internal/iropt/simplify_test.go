package iropt

import (
	"testing"

	"github.com/fuellabs-lite/swayc/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestSimplifyCFGRemovesUnreachableBlock(t *testing.T) {
	f := ir.NewFunction("dead_block", ir.Unit)
	entry := f.AddBlock("entry")
	dead := f.AddBlock("dead")
	f.Emit(entry, ir.InstOp{Kind: ir.IRet}, ir.Type{Kind: ir.KInvalid})
	f.Emit(dead, ir.InstOp{Kind: ir.IRet}, ir.Type{Kind: ir.KInvalid})

	SimplifyCFG(f)

	assert.Len(t, f.Blocks, 1)
	assert.Equal(t, "entry", f.Blocks[0].Label)
}

func TestSimplifyCFGCollapsesTrivialBranchChain(t *testing.T) {
	f := ir.NewFunction("chain", ir.Unit)
	entry := f.AddBlock("entry")
	mid := f.AddBlock("mid")
	final := f.AddBlock("final")
	f.Emit(entry, ir.InstOp{Kind: ir.IBranch, Target: mid.Id}, ir.Type{Kind: ir.KInvalid})
	f.Emit(mid, ir.InstOp{Kind: ir.IBranch, Target: final.Id}, ir.Type{Kind: ir.KInvalid})
	f.Emit(final, ir.InstOp{Kind: ir.IRet}, ir.Type{Kind: ir.KInvalid})

	SimplifyCFG(f)

	term := entry.Instructions[len(entry.Instructions)-1].Op
	assert.Equal(t, final.Id, term.Target)
}
