package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func TestEvaluateConstantResolvesLiteralValue(t *testing.T) {
	c, s := newTestChecker()
	typ := u64Arg()
	d := &untyped.ConstantDecl{
		Type:  &typ,
		Value: &untyped.Literal{Kind: untyped.LitU64, Value: uint64(42)},
	}
	d.Ident = "MAX"
	d.Vis = untyped.Public

	id := c.declareConstant(s, d)
	c.EvaluateConstant(s, d)

	decl := c.Decls.Get(id)
	assert.Equal(t, declengine.Resolved, decl.Constant.State)
	assert.NotNil(t, decl.Constant.Value)
}

func TestEvaluateConstantSelfReferenceReportsTY007(t *testing.T) {
	c, s := newTestChecker()
	typ := u64Arg()
	d := &untyped.ConstantDecl{
		Type:  &typ,
		Value: &untyped.ConstantRef{Path: untyped.CallPath{Suffix: "LOOP"}},
	}
	d.Ident = "LOOP"
	d.Vis = untyped.Public

	id := c.declareConstant(s, d)
	decl := c.Decls.Get(id)
	decl.Constant.State = declengine.Evaluating
	c.Decls.Replace(id, decl)

	c.EvaluateConstant(s, d)

	found := false
	for _, r := range c.Handler.Reports() {
		if r.Code == "TY007" {
			found = true
		}
	}
	assert.True(t, found)
}
