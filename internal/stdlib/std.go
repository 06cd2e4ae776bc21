package stdlib

import (
	_ "embed"

	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/resolver"
)

//go:embed std.jsonnet
var stdJsonnetSrc string

// New builds the `std` object: a native layer (every function in this
// package's *.go files) with a thin Jsonnet-sourced combinator layer
// (std.jsonnet) composed on top, mirroring go-jsonnet's own split between
// natively-implemented builtins and a bundled std.jsonnet.
//
// The returned object must be installed via i.SetStdlib before any of its
// fields are forced; New itself only constructs layers; it does not force
// anything, so the bootstrap ordering (native fields visible to
// std.jsonnet's own calls to std.*) is safe.
func New(i *interp.Interp) (*interp.Object, error) {
	nativeObj := buildNativeObject()

	n, err := parser.Parse("std.jsonnet", stdJsonnetSrc)
	if err != nil {
		return nil, err
	}
	if err := resolver.Resolve(n, "std"); err != nil {
		return nil, err
	}
	jsonnetLayerVal, err := i.EvalInEnv(&interp.Env{}, n)
	if err != nil {
		return nil, err
	}
	jsonnetLayer, err := interp.AsObject(i, jsonnetLayerVal, "std.jsonnet")
	if err != nil {
		return nil, err
	}
	return interp.PlusObjects(nativeObj, jsonnetLayer), nil
}

func buildNativeObject() *interp.Object {
	b := newBuilder()
	registerTypes(b)
	registerNumbers(b)
	registerStrings(b)
	registerArrays(b)
	registerObjects(b)
	registerHashing(b)
	registerEncoding(b)
	registerManifest(b)

	order := make([]string, 0, len(b.fields))
	for name := range b.fields {
		order = append(order, name)
	}
	hidden := make(map[string]bool, len(order))
	for _, name := range order {
		hidden[name] = true
	}
	return interp.NewReadyObject(order, b.fields, hidden)
}
