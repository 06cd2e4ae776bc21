package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
)

func resolve(t *testing.T, src string) (ast.Node, error) {
	t.Helper()
	n, err := parser.Parse("t.jsonnet", src)
	require.NoError(t, err)
	return n, resolver.Resolve(n, "std")
}

func TestResolveLocalBinding(t *testing.T) {
	n, err := resolve(t, `local x = 1; x`)
	require.NoError(t, err)
	body := n.(*ast.Local).Body.(*ast.Var)
	require.Equal(t, ast.BindLocal, body.Binding.Kind)
}

func TestResolveParamBinding(t *testing.T) {
	n, err := resolve(t, `function(x) x`)
	require.NoError(t, err)
	body := n.(*ast.Function).Body.(*ast.Var)
	require.Equal(t, ast.BindParam, body.Binding.Kind)
}

func TestResolveStdBinding(t *testing.T) {
	n, err := resolve(t, `std.type(1)`)
	require.NoError(t, err)
	app := n.(*ast.Apply)
	field := app.Target.(*ast.Field)
	std := field.Target.(*ast.Var)
	require.Equal(t, ast.BindStdlib, std.Binding.Kind)
}

func TestResolveUnknownVariable(t *testing.T) {
	_, err := resolve(t, `x`)
	require.Error(t, err)
}

func TestResolveSelfOutsideObject(t *testing.T) {
	_, err := resolve(t, `self`)
	require.Error(t, err)
}

func TestResolveSuperOutsideObject(t *testing.T) {
	_, err := resolve(t, `super.x`)
	require.Error(t, err)
}

func TestResolveSuperInsideObject(t *testing.T) {
	_, err := resolve(t, `{ a: super.b }`)
	require.NoError(t, err)
}

func TestResolveObjectFieldSeesSibling(t *testing.T) {
	_, err := resolve(t, `{ a: 1, b: self.a }`)
	require.NoError(t, err)
}

func TestResolveObjectLocalBinding(t *testing.T) {
	n, err := resolve(t, `{ local x = 1, a: x }`)
	require.NoError(t, err)
	obj := n.(*ast.Object)
	v := obj.Fields[1].Body.(*ast.Var)
	require.Equal(t, ast.BindObjectLocal, v.Binding.Kind)
}

func TestResolveComputedKeyCannotSeeSelf(t *testing.T) {
	_, err := resolve(t, `{ [self.missing]: 1 }`)
	require.Error(t, err)
}

func TestResolveDollarOutsideObject(t *testing.T) {
	_, err := resolve(t, `$`)
	require.Error(t, err)
}

func TestResolveObjectCompKeyCannotSeeSelf(t *testing.T) {
	_, err := resolve(t, `{ [self.missing]: x for x in [1, 2] }`)
	require.Error(t, err)
}

func TestResolveObjectCompValueCanSeeSelf(t *testing.T) {
	_, err := resolve(t, `{ [x]: self.missing for x in ["b"] }`)
	require.NoError(t, err)
}
