package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/manifest"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
	"github.com/eduardosm/rsjsonnet/internal/stdlib"
)

type noImports struct{}

func (noImports) ImportJsonnet(*interp.Interp, string, string) (interp.Value, error) {
	return nil, nil
}
func (noImports) ImportString(string, string) (string, error) { return "", nil }
func (noImports) ImportBinary(string, string) ([]byte, error) { return nil, nil }

func evalValue(t *testing.T, src string) (*interp.Interp, interp.Value) {
	t.Helper()
	i := interp.NewInterp(noImports{}, nil)
	std, err := stdlib.New(i)
	require.NoError(t, err)
	i.SetStdlib(std)

	n, err := parser.Parse("t.jsonnet", src)
	require.NoError(t, err)
	require.NoError(t, resolver.Resolve(n, "std"))

	v, err := i.EvalInEnv(&interp.Env{}, n)
	require.NoError(t, err)
	return i, v
}

func TestJSON(t *testing.T) {
	i, v := evalValue(t, `{ b: 1, a: [1, 2], c: { }, h:: "hidden" }`)
	s, err := manifest.JSON(i, v, manifest.DefaultJSONOptions())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": 1,\n  \"c\": {}\n}", s)
}

func TestJSONMinified(t *testing.T) {
	i, v := evalValue(t, `{ b: 1, a: [1, 2] }`)
	s, err := manifest.JSON(i, v, manifest.MinifiedJSONOptions())
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":1}`, s)
}

func TestJSONHidesHiddenFields(t *testing.T) {
	i, v := evalValue(t, `{ a: 1, b:: 2 }`)
	s, err := manifest.JSON(i, v, manifest.MinifiedJSONOptions())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, s)
}

func TestJSONFunctionIsAnError(t *testing.T) {
	i, v := evalValue(t, `function() 1`)
	_, err := manifest.JSON(i, v, manifest.DefaultJSONOptions())
	assert.Error(t, err)
}

func TestYAMLDoc(t *testing.T) {
	i, v := evalValue(t, `{ a: 1, b: [1, 2] }`)
	s, err := manifest.YAMLDoc(i, v, manifest.DefaultYAMLOptions())
	require.NoError(t, err)
	assert.Equal(t, "\"a\": 1\n\"b\":\n- 1\n- 2\n", s)
}

func TestYAMLDocUnquotedKeys(t *testing.T) {
	i, v := evalValue(t, `{ a: 1 }`)
	s, err := manifest.YAMLDoc(i, v, manifest.YAMLOptions{QuoteKeys: false})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", s)
}

func TestYAMLStream(t *testing.T) {
	i, v := evalValue(t, `[1, "two"]`)
	arr := v.(interp.Array)
	s, err := manifest.YAMLStream(i, arr, manifest.YAMLOptions{}, false)
	require.NoError(t, err)
	assert.Equal(t, "---\n1\n---\ntwo\n", s)
}

func TestYAMLStreamWithDocumentEnd(t *testing.T) {
	i, v := evalValue(t, `[1]`)
	arr := v.(interp.Array)
	s, err := manifest.YAMLStream(i, arr, manifest.YAMLOptions{}, true)
	require.NoError(t, err)
	assert.Equal(t, "---\n1\n...\n", s)
}

func TestINI(t *testing.T) {
	i, v := evalValue(t, `{ main: { a: 1 }, sections: { s: { b: 2, c: 3 } } }`)
	obj := v.(*interp.Object)
	s, err := manifest.INI(i, obj)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n[s]\nb = 2\nc = 3\n", s)
}

func TestTOML(t *testing.T) {
	i, v := evalValue(t, `{ name: "x", nested: { port: 80 }, items: [{ id: 1 }, { id: 2 }] }`)
	s, err := manifest.TOML(i, v, manifest.DefaultTOMLOptions())
	require.NoError(t, err)
	assert.Contains(t, s, `name = "x"`)
	assert.Contains(t, s, "[nested]")
	assert.Contains(t, s, "port = 80")
	assert.Contains(t, s, "[[items]]")
}

func TestTOMLRejectsNonObjectRoot(t *testing.T) {
	i, v := evalValue(t, `[1, 2]`)
	_, err := manifest.TOML(i, v, manifest.DefaultTOMLOptions())
	assert.Error(t, err)
}

func TestPython(t *testing.T) {
	i, v := evalValue(t, `{ a: 1, b: "x", c: [1, true, null] }`)
	s, err := manifest.Python(i, v)
	require.NoError(t, err)
	assert.Equal(t, `{'a': 1, 'b': 'x', 'c': [1, True, None]}`, s)
}

func TestPythonVars(t *testing.T) {
	i, v := evalValue(t, `{ a: 1, b: "x" }`)
	obj := v.(*interp.Object)
	s, err := manifest.PythonVars(i, obj)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nb = 'x'\n", s)
}

func TestXMLJsonml(t *testing.T) {
	i, v := evalValue(t, `["a", { href: "/b" }, "text", ["b", "bold"]]`)
	s, err := manifest.XMLJsonml(i, v)
	require.NoError(t, err)
	assert.Equal(t, `<a href="/b">text<b>bold</b></a>`, s)
}
