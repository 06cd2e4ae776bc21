package stdlib

import (
	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerArrays(b *builder) {
	b.fn("makeArray", []string{"sz", "func"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[0], "std.makeArray")
		if err != nil {
			return nil, err
		}
		fn, err := interp.AsFunction(i, a[1], "std.makeArray")
		if err != nil {
			return nil, err
		}
		count := int(n)
		elems := make([]*interp.Thunk, count)
		for idx := 0; idx < count; idx++ {
			// makeArray's elements are individually lazy: each is the
			// result of calling func(idx), forced only on demand.
			elems[idx] = lazyCall(fn, idx)
		}
		return interp.ArrayValue(elems), nil
	})

	b.fn("map", []string{"func", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.map")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.map")
		if err != nil {
			return nil, err
		}
		elems := make([]*interp.Thunk, len(arr.Elems))
		for idx, t := range arr.Elems {
			elems[idx] = lazyCallThunk(fn, t)
		}
		return interp.ArrayValue(elems), nil
	})

	b.fn("mapWithIndex", []string{"func", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.mapWithIndex")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.mapWithIndex")
		if err != nil {
			return nil, err
		}
		elems := make([]*interp.Thunk, len(arr.Elems))
		for idx, t := range arr.Elems {
			idx, t := idx, t
			elems[idx] = interp.NewNativeThunk(func(i *interp.Interp) (interp.Value, error) {
				v, err := t.Force(i)
				if err != nil {
					return nil, err
				}
				return callFn(i, fn, interp.NumberValue(float64(idx)), v)
			})
		}
		return interp.ArrayValue(elems), nil
	})

	b.fn("filter", []string{"func", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.filter")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.filter")
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			keep, err := callFn(i, fn, v)
			if err != nil {
				return nil, err
			}
			ok, err := interp.AsBool(i, keep, "std.filter")
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, t)
			}
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("filterMap", []string{"filter_func", "map_func", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		ffn, err := interp.AsFunction(i, a[0], "std.filterMap")
		if err != nil {
			return nil, err
		}
		mfn, err := interp.AsFunction(i, a[1], "std.filterMap")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[2], "std.filterMap")
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			keep, err := callFn(i, ffn, v)
			if err != nil {
				return nil, err
			}
			ok, err := interp.AsBool(i, keep, "std.filterMap")
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, lazyCallThunk(mfn, t))
			}
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("flatMap", []string{"func", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.flatMap")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.flatMap")
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			mapped, err := callFn(i, fn, v)
			if err != nil {
				return nil, err
			}
			ma, err := interp.AsArray(i, mapped, "std.flatMap")
			if err != nil {
				return nil, err
			}
			out = append(out, ma.Elems...)
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("flattenArrays", []string{"arrs"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.flattenArrays")
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			sub, err := interp.AsArray(i, v, "std.flattenArrays")
			if err != nil {
				return nil, err
			}
			out = append(out, sub.Elems...)
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("flattenDeepArray", []string{"value"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		var out []*interp.Thunk
		var walk func(v interp.Value) error
		walk = func(v interp.Value) error {
			arr, ok := v.(interp.Array)
			if !ok {
				out = append(out, interp.ReadyThunk(v))
				return nil
			}
			for _, t := range arr.Elems {
				ev, err := t.Force(i)
				if err != nil {
					return err
				}
				if err := walk(ev); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(a[0]); err != nil {
			return nil, err
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("foldl", []string{"func", "arr", "init"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.foldl")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.foldl")
		if err != nil {
			return nil, err
		}
		acc := a[2]
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			acc, err = callFn(i, fn, acc, v)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	b.fn("foldr", []string{"func", "arr", "init"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.foldr")
		if err != nil {
			return nil, err
		}
		arr, err := interp.AsArray(i, a[1], "std.foldr")
		if err != nil {
			return nil, err
		}
		acc := a[2]
		for idx := len(arr.Elems) - 1; idx >= 0; idx-- {
			v, err := arr.Elems[idx].Force(i)
			if err != nil {
				return nil, err
			}
			acc, err = callFn(i, fn, v, acc)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})

	b.fn("range", []string{"from", "to"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		from, err := interp.AsNumber(i, a[0], "std.range")
		if err != nil {
			return nil, err
		}
		to, err := interp.AsNumber(i, a[1], "std.range")
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for n := from; n <= to; n++ {
			out = append(out, interp.NumberValue(n))
		}
		return thunkArray(out), nil
	})

	b.fn("repeat", []string{"what", "count"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[1], "std.repeat")
		if err != nil {
			return nil, err
		}
		count := int(n)
		switch what := a[0].(type) {
		case interp.Array:
			var out []*interp.Thunk
			for k := 0; k < count; k++ {
				out = append(out, what.Elems...)
			}
			return interp.ArrayValue(out), nil
		case interp.String:
			s := ""
			for k := 0; k < count; k++ {
				s += what.Go()
			}
			return interp.StringValue(s), nil
		default:
			return nil, i.Errorf("std.repeat: expected array or string")
		}
	})

	b.fn("reverse", []string{"arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.reverse")
		if err != nil {
			return nil, err
		}
		out := make([]*interp.Thunk, len(arr.Elems))
		for idx, t := range arr.Elems {
			out[len(out)-1-idx] = t
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("sort", []string{"arr", "keyF"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.sort")
		if err != nil {
			return nil, err
		}
		keys, err := sortKeys(i, arr, a[1])
		if err != nil {
			return nil, err
		}
		idx := sortIndicesByKey(i, keys)
		out := make([]*interp.Thunk, len(arr.Elems))
		for pos, k := range idx {
			out[pos] = arr.Elems[k]
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("uniq", []string{"arr", "keyF"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.uniq")
		if err != nil {
			return nil, err
		}
		keys, err := sortKeys(i, arr, a[1])
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		for idx := range arr.Elems {
			if idx > 0 {
				eq, err := i.ValuesEqual(keys[idx], keys[idx-1])
				if err != nil {
					return nil, err
				}
				if eq {
					continue
				}
			}
			out = append(out, arr.Elems[idx])
		}
		return interp.ArrayValue(out), nil
	})

	setFn := func(name string) {
		b.fn(name, []string{"arr", "keyF"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
			arr, err := interp.AsArray(i, a[0], "std."+name)
			if err != nil {
				return nil, err
			}
			keys, err := sortKeys(i, arr, a[1])
			if err != nil {
				return nil, err
			}
			idx := sortIndicesByKey(i, keys)
			sorted := make([]*interp.Thunk, len(arr.Elems))
			sortedKeys := make([]interp.Value, len(arr.Elems))
			for pos, k := range idx {
				sorted[pos] = arr.Elems[k]
				sortedKeys[pos] = keys[k]
			}
			var out []*interp.Thunk
			for pos := range sorted {
				if pos > 0 {
					eq, err := i.ValuesEqual(sortedKeys[pos], sortedKeys[pos-1])
					if err != nil {
						return nil, err
					}
					if eq {
						continue
					}
				}
				out = append(out, sorted[pos])
			}
			return interp.ArrayValue(out), nil
		})
	}
	setFn("set")

	b.fn("setMember", []string{"x", "arr", "keyF"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[1], "std.setMember")
		if err != nil {
			return nil, err
		}
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			eq, err := i.ValuesEqual(a[0], v)
			if err != nil {
				return nil, err
			}
			if eq {
				return interp.BoolValue(true), nil
			}
		}
		return interp.BoolValue(false), nil
	})

	setOp := func(name string, keep func(inA, inB bool) bool) {
		b.fn(name, []string{"a", "b", "keyF"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
			arrA, err := interp.AsArray(i, a[0], "std."+name)
			if err != nil {
				return nil, err
			}
			arrB, err := interp.AsArray(i, a[1], "std."+name)
			if err != nil {
				return nil, err
			}
			va, err := forceAll(i, arrA)
			if err != nil {
				return nil, err
			}
			vb, err := forceAll(i, arrB)
			if err != nil {
				return nil, err
			}
			var out []interp.Value
			for _, x := range va {
				inB, err := memberOf(i, x, vb)
				if err != nil {
					return nil, err
				}
				if keep(true, inB) {
					out = append(out, x)
				}
			}
			if keep(false, true) {
				for _, y := range vb {
					inA, err := memberOf(i, y, va)
					if err != nil {
						return nil, err
					}
					if !inA {
						out = append(out, y)
					}
				}
			}
			return thunkArray(out), nil
		})
	}
	setOp("setUnion", func(inA, inB bool) bool { return inA || inB })
	setOp("setInter", func(inA, inB bool) bool { return inA && inB })
	setOp("setDiff", func(inA, inB bool) bool { return inA && !inB })

	b.fn("member", []string{"arr", "x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		switch c := a[0].(type) {
		case interp.Array:
			vs, err := forceAll(i, c)
			if err != nil {
				return nil, err
			}
			ok, err := memberOf(i, a[1], vs)
			return interp.BoolValue(ok), err
		case interp.String:
			s, err := interp.AsString(i, a[1], "std.member")
			if err != nil {
				return nil, err
			}
			return interp.BoolValue(stringContains(c.Go(), s.Go())), nil
		default:
			return nil, i.Errorf("std.member: expected array or string")
		}
	})
	b.fn("contains", []string{"arr", "elem"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.contains")
		if err != nil {
			return nil, err
		}
		vs, err := forceAll(i, arr)
		if err != nil {
			return nil, err
		}
		ok, err := memberOf(i, a[1], vs)
		return interp.BoolValue(ok), err
	})

	b.fn("count", []string{"arr", "x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.count")
		if err != nil {
			return nil, err
		}
		n := 0
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			eq, err := i.ValuesEqual(v, a[1])
			if err != nil {
				return nil, err
			}
			if eq {
				n++
			}
		}
		return interp.NumberValue(float64(n)), nil
	})

	b.fn("find", []string{"value", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[1], "std.find")
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for idx, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			eq, err := i.ValuesEqual(v, a[0])
			if err != nil {
				return nil, err
			}
			if eq {
				out = append(out, interp.NumberValue(float64(idx)))
			}
		}
		return thunkArray(out), nil
	})

	b.fn("remove", []string{"arr", "elem"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.remove")
		if err != nil {
			return nil, err
		}
		var out []*interp.Thunk
		removed := false
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			if !removed {
				eq, err := i.ValuesEqual(v, a[1])
				if err != nil {
					return nil, err
				}
				if eq {
					removed = true
					continue
				}
			}
			out = append(out, t)
		}
		return interp.ArrayValue(out), nil
	})

	b.fn("removeAt", []string{"arr", "idx"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.removeAt")
		if err != nil {
			return nil, err
		}
		n, err := interp.AsNumber(i, a[1], "std.removeAt")
		if err != nil {
			return nil, err
		}
		pos := int(n)
		if pos < 0 || pos >= len(arr.Elems) {
			return nil, i.Errorf("std.removeAt: index out of bounds: %d", pos)
		}
		out := make([]*interp.Thunk, 0, len(arr.Elems)-1)
		out = append(out, arr.Elems[:pos]...)
		out = append(out, arr.Elems[pos+1:]...)
		return interp.ArrayValue(out), nil
	})

	b.fn("minArray", []string{"arr", "keyF"}, minMaxFn(true))
	b.fn("maxArray", []string{"arr", "keyF"}, minMaxFn(false))

	b.fn("sum", []string{"arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.sum")
		if err != nil {
			return nil, err
		}
		total := 0.0
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			n, err := interp.AsNumber(i, v, "std.sum")
			if err != nil {
				return nil, err
			}
			total += n
		}
		return interp.NumberValue(total), nil
	})

	b.fn("avg", []string{"arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.avg")
		if err != nil {
			return nil, err
		}
		if len(arr.Elems) == 0 {
			return nil, i.Errorf("std.avg: empty array")
		}
		total := 0.0
		for _, t := range arr.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			n, err := interp.AsNumber(i, v, "std.avg")
			if err != nil {
				return nil, err
			}
			total += n
		}
		return interp.NumberValue(total / float64(len(arr.Elems))), nil
	})
}

func stringContains(s, sub string) bool {
	for idx := 0; idx+len(sub) <= len(s); idx++ {
		if s[idx:idx+len(sub)] == sub {
			return true
		}
	}
	return len(sub) == 0
}

func memberOf(i *interp.Interp, x interp.Value, in []interp.Value) (bool, error) {
	for _, v := range in {
		eq, err := i.ValuesEqual(x, v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func minMaxFn(wantMin bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.minArray/maxArray")
		if err != nil {
			return nil, err
		}
		if len(arr.Elems) == 0 {
			return nil, i.Errorf("std.minArray/maxArray: empty array")
		}
		keys, err := sortKeys(i, arr, a[1])
		if err != nil {
			return nil, err
		}
		best := 0
		for idx := 1; idx < len(keys); idx++ {
			c, err := i.CompareValues(keys[idx], keys[best])
			if err != nil {
				return nil, err
			}
			if (wantMin && c < 0) || (!wantMin && c > 0) {
				best = idx
			}
		}
		return arr.Elems[best].Force(i)
	}
}

// sortKeys computes the comparison key for each element: keyF(elem) if a
// key function was supplied, otherwise the forced element itself.
func sortKeys(i *interp.Interp, arr interp.Array, keyFArg interp.Value) ([]interp.Value, error) {
	var keyF *interp.Function
	if keyFArg != nil {
		fn, err := interp.AsFunction(i, keyFArg, "keyF")
		if err != nil {
			return nil, err
		}
		keyF = &fn
	}
	out := make([]interp.Value, len(arr.Elems))
	for idx, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return nil, err
		}
		if keyF == nil {
			out[idx] = v
			continue
		}
		k, err := callFn(i, *keyF, v)
		if err != nil {
			return nil, err
		}
		out[idx] = k
	}
	return out, nil
}

func sortIndicesByKey(i *interp.Interp, keys []interp.Value) []int {
	return sortIndices(len(keys), func(a, b int) bool {
		c, err := i.CompareValues(keys[a], keys[b])
		if err != nil {
			return false
		}
		return c < 0
	})
}

func lazyCall(fn interp.Function, idx int) *interp.Thunk {
	return interp.NewNativeThunk(func(i *interp.Interp) (interp.Value, error) {
		return callFn(i, fn, interp.NumberValue(float64(idx)))
	})
}

func lazyCallThunk(fn interp.Function, arg *interp.Thunk) *interp.Thunk {
	return interp.NewNativeThunk(func(i *interp.Interp) (interp.Value, error) {
		v, err := arg.Force(i)
		if err != nil {
			return nil, err
		}
		return callFn(i, fn, v)
	})
}
