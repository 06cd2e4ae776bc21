package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCapture(t *testing.T, o *Options) (int, string) {
	t.Helper()
	outFile := filepath.Join(t.TempDir(), "out")
	o.OutputFile = outFile
	code := run(o)
	data, err := os.ReadFile(outFile)
	if err != nil {
		return code, ""
	}
	return code, string(data)
}

func TestRunEvaluateSnippet(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.Filename = "{ a: 1, b: [1, 2, 3] }"
	code, out := runCapture(t, o)
	require.Equal(t, exitOK, code)
	assert.JSONEq(t, `{"a":1,"b":[1,2,3]}`, out)
}

func TestRunStringOutput(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.StringOut = true
	o.Filename = `"hello " + "world"`
	code, out := runCapture(t, o)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "hello world", out)
}

func TestRunYAMLStream(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.YAMLStream = true
	o.Filename = `[{ a: 1 }, { b: 2 }]`
	code, out := runCapture(t, o)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "---\n\"a\": 1\n---\n\"b\": 2\n", out)
}

func TestRunEvaluationError(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.Filename = `error "boom"`
	code := run(o)
	assert.Equal(t, exitEval, code)
}

func TestRunUsageError(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.Filename = `{}`
	o.YAMLStream = true
	o.StringOut = true
	code := run(o)
	assert.Equal(t, exitUsage, code)
}

func TestRunExternalVar(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.Filename = `std.extVar("who")`
	o.StringOut = true
	o.ExtStr = []string{"who=world"}
	code, out := runCapture(t, o)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "world", out)
}

func TestRunTopLevelArg(t *testing.T) {
	o := NewOptions()
	o.AsCode = true
	o.Filename = `function(x) x + 1`
	o.TlaStr = []string{"x=2"}
	code, out := runCapture(t, o)
	require.Equal(t, exitOK, code)
	assert.JSONEq(t, `"21"`, out)
}

func TestRunMultiFile(t *testing.T) {
	dir := t.TempDir()
	o := NewOptions()
	o.AsCode = true
	o.Filename = `{ "a.json": { x: 1 }, "b.json": { y: 2 } }`
	o.MultiDir = filepath.Join(dir, "out")
	code := run(o)
	require.Equal(t, exitOK, code)

	a, err := os.ReadFile(filepath.Join(o.MultiDir, "a.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(a))

	b, err := os.ReadFile(filepath.Join(o.MultiDir, "b.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"y":2}`, string(b))
}
