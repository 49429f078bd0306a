package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fuellabs-lite/swayc/internal/declengine"
	"github.com/fuellabs-lite/swayc/internal/errors"
	"github.com/fuellabs-lite/swayc/internal/typeengine"
	"github.com/fuellabs-lite/swayc/internal/untyped"
)

func u64Arg() untyped.TypeArg { return untyped.TypeArg{Name: untyped.CallPath{Suffix: "u64"}} }

func TestCheckModuleResolvesSimpleFunctionBody(t *testing.T) {
	types := typeengine.New()
	decls := declengine.New()
	handler := errors.NewHandler()
	c := NewChecker(types, decls, handler)

	fn := &untyped.FunctionDecl{
		Params:     []untyped.Param{{Name: "x", Type: u64Arg()}},
		ReturnType: u64Arg(),
		Body: []untyped.Stmt{
			{Expr: &untyped.VariableRef{Name: "x"}, HasSemicolon: false},
		},
	}
	fn.Ident = "identity"
	fn.Vis = untyped.Public

	mod := &untyped.Module{Name: "main", Kind: untyped.KindScript, Items: []untyped.Decl{fn}}

	scope := c.CheckModule(mod, nil)
	assert.False(t, handler.HasErrors())

	id, err := scope.Resolve(untyped.CallPath{Suffix: "identity"})
	assert.Nil(t, err)
	decl := c.Decls.Get(id)
	assert.NotNil(t, decl.Function.Body)
}

func TestCheckModuleReportsUnknownVariable(t *testing.T) {
	types := typeengine.New()
	decls := declengine.New()
	handler := errors.NewHandler()
	c := NewChecker(types, decls, handler)

	fn := &untyped.FunctionDecl{
		ReturnType: u64Arg(),
		Body: []untyped.Stmt{
			{Expr: &untyped.VariableRef{Name: "nope"}, HasSemicolon: false},
		},
	}
	fn.Ident = "broken"
	fn.Vis = untyped.Public

	mod := &untyped.Module{Name: "main", Kind: untyped.KindScript, Items: []untyped.Decl{fn}}
	c.CheckModule(mod, nil)

	assert.True(t, handler.HasErrors())
	found := false
	for _, r := range handler.Reports() {
		if r.Code == "NR001" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckModuleMutuallyRecursiveFunctionsResolve(t *testing.T) {
	types := typeengine.New()
	decls := declengine.New()
	handler := errors.NewHandler()
	c := NewChecker(types, decls, handler)

	isEven := &untyped.FunctionDecl{
		Params:     []untyped.Param{{Name: "n", Type: u64Arg()}},
		ReturnType: untyped.TypeArg{Name: untyped.CallPath{Suffix: "bool"}},
		Body: []untyped.Stmt{
			{Expr: &untyped.FunctionApplication{
				Func: untyped.CallPath{Suffix: "isOdd"},
				Args: []untyped.NamedArg{{Value: &untyped.VariableRef{Name: "n"}}},
			}, HasSemicolon: false},
		},
	}
	isEven.Ident = "isEven"
	isEven.Vis = untyped.Public

	isOdd := &untyped.FunctionDecl{
		Params:     []untyped.Param{{Name: "n", Type: u64Arg()}},
		ReturnType: untyped.TypeArg{Name: untyped.CallPath{Suffix: "bool"}},
		Body: []untyped.Stmt{
			{Expr: &untyped.Literal{Kind: untyped.LitBool, Value: true}, HasSemicolon: false},
		},
	}
	isOdd.Ident = "isOdd"
	isOdd.Vis = untyped.Public

	mod := &untyped.Module{
		Name: "main", Kind: untyped.KindLibrary,
		Items: []untyped.Decl{isEven, isOdd},
	}
	c.CheckModule(mod, nil)
	assert.False(t, handler.HasErrors())
}
