package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/parser"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	n, err := parser.Parse("t.jsonnet", src)
	require.NoError(t, err)
	return n
}

func TestParseArithmeticPrecedence(t *testing.T) {
	n := mustParse(t, "1 + 2 * 3")
	bin, ok := n.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.BopPlus, bin.Op)
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.BopMul, right.Op)
}

func TestParseObjectPlusField(t *testing.T) {
	n := mustParse(t, `{ a: 1 } + { a+: 20 }`)
	bin, ok := n.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.BopPlus, bin.Op)
	rightObj, ok := bin.Right.(*ast.Object)
	require.True(t, ok)
	require.Len(t, rightObj.Fields, 1)
	require.True(t, rightObj.Fields[0].PlusSuper)
	require.Equal(t, ast.ObjectFieldInherit, rightObj.Fields[0].Hide)
}

func TestParseObjectHiddenField(t *testing.T) {
	n := mustParse(t, `{ a:: 1 }`)
	obj := n.(*ast.Object)
	require.Equal(t, ast.ObjectFieldHidden, obj.Fields[0].Hide)
}

func TestParseMethodSugar(t *testing.T) {
	n := mustParse(t, `{ f(x, y): x + y }`)
	obj := n.(*ast.Object)
	fn, ok := obj.Fields[0].Body.(*ast.Function)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
}

func TestParseFunctionDefaults(t *testing.T) {
	n := mustParse(t, `local f(x, y=x) = [x, y]; f(1)`)
	local := n.(*ast.Local)
	require.Equal(t, ast.Identifier("f"), local.Binds[0].VarName)
	require.NotNil(t, local.Binds[0].Fun)
	require.Len(t, local.Binds[0].Fun.Params, 2)
	require.NotNil(t, local.Binds[0].Fun.Params[1].DefaultArg)
}

func TestParseArrayComprehension(t *testing.T) {
	n := mustParse(t, `[x * 2 for x in [1, 2, 3] if x > 1]`)
	comp, ok := n.(*ast.ArrayComp)
	require.True(t, ok)
	require.Len(t, comp.Specs, 2)
	require.Equal(t, ast.CompFor, comp.Specs[0].Kind)
	require.Equal(t, ast.CompIf, comp.Specs[1].Kind)
}

func TestParseObjectComprehension(t *testing.T) {
	n := mustParse(t, `{ [k]: v for k in ["a", "b"] for v in [1] }`)
	comp, ok := n.(*ast.ObjectComp)
	require.True(t, ok)
	require.Len(t, comp.Specs, 2)
}

func TestParseSliceAllParts(t *testing.T) {
	n := mustParse(t, `arr[1:2:3]`)
	sl, ok := n.(*ast.Slice)
	require.True(t, ok)
	require.NotNil(t, sl.BeginIndex)
	require.NotNil(t, sl.EndIndex)
	require.NotNil(t, sl.Step)
}

func TestParseSliceOmittedParts(t *testing.T) {
	n := mustParse(t, `arr[::]`)
	sl, ok := n.(*ast.Slice)
	require.True(t, ok)
	require.Nil(t, sl.BeginIndex)
	require.Nil(t, sl.EndIndex)
	require.Nil(t, sl.Step)
}

func TestParseSuperField(t *testing.T) {
	n := mustParse(t, `{ a: super.b }`)
	obj := n.(*ast.Object)
	si, ok := obj.Fields[0].Body.(*ast.SuperIndex)
	require.True(t, ok)
	require.NotNil(t, si.IndexID)
	require.Equal(t, ast.Identifier("b"), *si.IndexID)
}

func TestParseNamedAndPositionalArgs(t *testing.T) {
	n := mustParse(t, `f(1, 2, y=3)`)
	app := n.(*ast.Apply)
	require.Len(t, app.Positional, 2)
	require.Len(t, app.Named, 1)
	require.Equal(t, ast.Identifier("y"), app.Named[0].Name)
}

func TestParseRejectsPositionalAfterNamed(t *testing.T) {
	_, err := parser.Parse("t.jsonnet", `f(x=1, 2)`)
	require.Error(t, err)
}

func TestParseRejectsMixedComprehensionAndFields(t *testing.T) {
	_, err := parser.Parse("t.jsonnet", `{ a: 1, [k]: v for k in [1] }`)
	require.Error(t, err)
}

func TestParseDollarSelf(t *testing.T) {
	n := mustParse(t, `{ a: $.b }`)
	obj := n.(*ast.Object)
	field, ok := obj.Fields[0].Body.(*ast.Field)
	require.True(t, ok)
	_, ok = field.Target.(*ast.TopLevelSelf)
	require.True(t, ok)
}

func TestParseImportForms(t *testing.T) {
	n := mustParse(t, `import "a.libsonnet"`)
	imp := n.(*ast.Import)
	require.Equal(t, ast.ImportJsonnet, imp.Kind)
	require.Equal(t, "a.libsonnet", imp.Path)

	n = mustParse(t, `importstr "a.txt"`)
	require.Equal(t, ast.ImportString, n.(*ast.Import).Kind)

	n = mustParse(t, `importbin "a.bin"`)
	require.Equal(t, ast.ImportBinary, n.(*ast.Import).Kind)
}
