// Package stdlib builds the `std` object exposed to every Jsonnet
// program: spec.md §4.5's native builtins, implemented directly in Go
// against internal/interp's value model.
package stdlib

import (
	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// nativeFn is the signature every builtin implements once its arguments
// have been resolved positionally/by-name and forced.
type nativeFn func(i *interp.Interp, args []interp.Value) (interp.Value, error)

// builder accumulates the std object's fields while it is built.
type builder struct {
	fields map[string]interp.Value
}

func newBuilder() *builder { return &builder{fields: make(map[string]interp.Value)} }

// fn registers a native builtin under name, with the given formal
// parameter names (used for named-argument calls and for std.length on
// a function value).
func (b *builder) fn(name string, params []string, f nativeFn) {
	b.fields[name] = nativeFunc(name, params, f)
}

func nativeFunc(name string, params []string, f nativeFn) interp.Value {
	ps := make([]interp.Param, len(params))
	for idx, n := range params {
		ps[idx] = interp.Param{Name: ast.Identifier(n)}
	}
	return interp.Function{
		Name:   name,
		Params: ps,
		Call: func(i *interp.Interp, args *interp.CallArgs) (interp.Value, error) {
			vals, err := bindArgs(i, name, params, args)
			if err != nil {
				return nil, err
			}
			return f(i, vals)
		},
	}
}

// bindArgs resolves args against params by position then by name, then
// forces each bound thunk. Missing optional trailing arguments are
// reported as a nil Value entry; callers that declare trailing optional
// parameters must check for nil themselves.
func bindArgs(i *interp.Interp, name string, params []string, args *interp.CallArgs) ([]interp.Value, error) {
	if len(args.Positional) > len(params) {
		return nil, i.Errorf("std.%s: too many arguments", name)
	}
	thunks := make([]*interp.Thunk, len(params))
	for idx, t := range args.Positional {
		thunks[idx] = t
	}
	for _, na := range args.Named {
		found := false
		for idx, p := range params {
			if p == string(na.Name) {
				if thunks[idx] != nil {
					return nil, i.Errorf("std.%s: multiple values for parameter %s", name, na.Name)
				}
				thunks[idx] = na.Arg
				found = true
				break
			}
		}
		if !found {
			return nil, i.Errorf("std.%s: no parameter named %s", name, na.Name)
		}
	}
	out := make([]interp.Value, len(params))
	for idx, t := range thunks {
		if t == nil {
			continue
		}
		v, err := t.Force(i)
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return out, nil
}

// requireArg errors if a required (non-optional) argument was not
// supplied.
func requireArg(i *interp.Interp, fn, name string, v interp.Value) (interp.Value, error) {
	if v == nil {
		return nil, i.Errorf("std.%s: missing argument %s", fn, name)
	}
	return v, nil
}
