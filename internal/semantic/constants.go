package semantic

import (
	"fmt"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

// EvaluateConstant type-checks a constant's initializer (without folding it), driving
// it through the three-state evaluation machine (Unresolved -> Evaluating
// -> Resolved) so a constant that (directly or transitively) refers to
// itself is caught as TY007 instead of recursing forever.
func (c *Checker) EvaluateConstant(s *Scope, d *untyped.ConstantDecl) {
	id, err := s.Resolve(untyped.CallPath{Suffix: d.Ident})
	if err != nil {
		c.Handler.Add(err)
		return
	}
	decl := c.Decls.Get(id)
	switch decl.Constant.State {
	case declengine.Resolved:
		return
	case declengine.Evaluating:
		c.Handler.Add(errors.New(errors.TY007, fmt.Sprintf("constant %q depends on itself", d.Ident), nil, nil))
		return
	}
	decl.Constant.State = declengine.Evaluating
	c.Decls.Replace(id, decl)

	env := newTypeEnv(nil)
	value := c.checkExpr(s, env, d.Value, decl.Constant.Type)
	if unified, uerr := c.Types.Unify(decl.Constant.Type, value.Type(), d.SpanVal); uerr != nil {
		c.Handler.Add(uerr)
	} else {
		decl.Constant.Type = unified
	}
	decl.Constant.Value = value
	decl.Constant.State = declengine.Resolved
	c.Decls.Replace(id, decl)
}

// EvaluateConfigurable mirrors EvaluateConstant for `configurable` block
// entries, which additionally carry the ABI-encoded initial byte image
// consumed at link time; that byte image is produced later by the
// compiler's constant-folding-to-bytes pass, not here.
func (c *Checker) EvaluateConfigurable(s *Scope, d *untyped.ConfigurableDecl) {
	id, err := s.Resolve(untyped.CallPath{Suffix: d.Ident})
	if err != nil {
		c.Handler.Add(err)
		return
	}
	decl := c.Decls.Get(id)
	switch decl.Configurable.State {
	case declengine.Resolved:
		return
	case declengine.Evaluating:
		c.Handler.Add(errors.New(errors.TY007, fmt.Sprintf("configurable %q depends on itself", d.Ident), nil, nil))
		return
	}
	decl.Configurable.State = declengine.Evaluating
	c.Decls.Replace(id, decl)

	env := newTypeEnv(nil)
	value := c.checkExpr(s, env, d.Value, decl.Configurable.Type)
	if _, uerr := c.Types.Unify(decl.Configurable.Type, value.Type(), d.SpanVal); uerr != nil {
		c.Handler.Add(uerr)
	}
	decl.Configurable.Value = value
	decl.Configurable.State = declengine.Resolved
	c.Decls.Replace(id, decl)
}
