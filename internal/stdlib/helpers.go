package stdlib

import (
	"sort"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func stringArray(ss []string) interp.Value {
	elems := make([]*interp.Thunk, len(ss))
	for idx, s := range ss {
		elems[idx] = interp.ReadyThunk(interp.StringValue(s))
	}
	return interp.ArrayValue(elems)
}

func thunkArray(vs []interp.Value) interp.Value {
	elems := make([]*interp.Thunk, len(vs))
	for idx, v := range vs {
		elems[idx] = interp.ReadyThunk(v)
	}
	return interp.ArrayValue(elems)
}

// forceAll forces every element of arr, in order.
func forceAll(i *interp.Interp, arr interp.Array) ([]interp.Value, error) {
	out := make([]interp.Value, len(arr.Elems))
	for idx, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return nil, err
		}
		out[idx] = v
	}
	return out, nil
}

func asStringSlice(i *interp.Interp, fn string, arr interp.Array) ([]string, error) {
	out := make([]string, len(arr.Elems))
	for idx, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return nil, err
		}
		s, err := interp.AsString(i, v, "std."+fn)
		if err != nil {
			return nil, err
		}
		out[idx] = s.Go()
	}
	return out, nil
}

// callFn invokes a Jsonnet function value with positional arguments
// already wrapped as ready thunks.
func callFn(i *interp.Interp, fn interp.Function, args ...interp.Value) (interp.Value, error) {
	thunks := make([]*interp.Thunk, len(args))
	for idx, a := range args {
		thunks[idx] = interp.ReadyThunk(a)
	}
	return fn.Call(i, &interp.CallArgs{Positional: thunks})
}

func sortIndices(n int, less func(a, b int) bool) []int {
	idx := make([]int, n)
	for k := range idx {
		idx[k] = k
	}
	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })
	return idx
}
