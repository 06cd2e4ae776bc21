package stdlib

import (
	"sort"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerObjects(b *builder) {
	b.fn("objectFields", []string{"o"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectFields")
		if err != nil {
			return nil, err
		}
		return stringArray(obj.Fields(false)), nil
	})
	b.fn("objectFieldsAll", []string{"o"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectFieldsAll")
		if err != nil {
			return nil, err
		}
		return stringArray(obj.Fields(true)), nil
	})
	b.fn("objectHas", []string{"o", "f"}, objectHasFn(false))
	b.fn("objectHasAll", []string{"o", "f"}, objectHasFn(true))

	b.fn("objectValues", []string{"o"}, objectValuesFn(false))
	b.fn("objectValuesAll", []string{"o"}, objectValuesFn(true))

	b.fn("objectKeysValues", []string{"o"}, objectKeysValuesFn(false))
	b.fn("objectKeysValuesAll", []string{"o"}, objectKeysValuesFn(true))

	b.fn("objectRemoveKey", []string{"obj", "key"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectRemoveKey")
		if err != nil {
			return nil, err
		}
		key, err := interp.AsString(i, a[1], "std.objectRemoveKey")
		if err != nil {
			return nil, err
		}
		names := obj.Fields(true)
		order := make([]string, 0, len(names))
		values := make(map[string]interp.Value, len(names))
		hidden := make(map[string]bool, len(names))
		for _, name := range names {
			if name == key.Go() {
				continue
			}
			v, err := obj.GetField(i, name)
			if err != nil {
				return nil, err
			}
			order = append(order, name)
			values[name] = v
			hidden[name] = !obj.HasField(name, false)
		}
		return interp.NewReadyObject(order, values, hidden), nil
	})

	b.fn("mapWithKey", []string{"func", "obj"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		fn, err := interp.AsFunction(i, a[0], "std.mapWithKey")
		if err != nil {
			return nil, err
		}
		obj, err := interp.AsObject(i, a[1], "std.mapWithKey")
		if err != nil {
			return nil, err
		}
		names := obj.Fields(false)
		order := append([]string(nil), names...)
		values := make(map[string]interp.Value, len(names))
		for _, name := range names {
			v, err := obj.GetField(i, name)
			if err != nil {
				return nil, err
			}
			mapped, err := callFn(i, fn, interp.StringValue(name), v)
			if err != nil {
				return nil, err
			}
			values[name] = mapped
		}
		return interp.NewReadyObject(order, values, nil), nil
	})

	b.fn("prune", []string{"a"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		return pruneValue(i, a[0])
	})

	b.fn("mergePatch", []string{"target", "patch"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		return mergePatch(i, a[0], a[1])
	})
}

func objectHasFn(includeHidden bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectHas")
		if err != nil {
			return nil, err
		}
		name, err := interp.AsString(i, a[1], "std.objectHas")
		if err != nil {
			return nil, err
		}
		return interp.BoolValue(obj.HasField(name.Go(), includeHidden)), nil
	}
}

func objectValuesFn(includeHidden bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectValues")
		if err != nil {
			return nil, err
		}
		names := obj.Fields(includeHidden)
		out := make([]interp.Value, len(names))
		for idx, name := range names {
			v, err := obj.GetField(i, name)
			if err != nil {
				return nil, err
			}
			out[idx] = v
		}
		return thunkArray(out), nil
	}
}

func objectKeysValuesFn(includeHidden bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectKeysValues")
		if err != nil {
			return nil, err
		}
		names := obj.Fields(includeHidden)
		out := make([]interp.Value, len(names))
		for idx, name := range names {
			v, err := obj.GetField(i, name)
			if err != nil {
				return nil, err
			}
			out[idx] = interp.NewReadyObject(
				[]string{"key", "value"},
				map[string]interp.Value{"key": interp.StringValue(name), "value": v},
				nil,
			)
		}
		return thunkArray(out), nil
	}
}

// pruneValue recursively drops nulls from arrays/objects and empty
// arrays/objects that result from that pruning, per spec.md §4.5's
// std.prune.
func pruneValue(i *interp.Interp, v interp.Value) (interp.Value, error) {
	switch val := v.(type) {
	case interp.Null:
		return val, nil
	case interp.Array:
		var out []interp.Value
		for _, t := range val.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			pv, err := pruneValue(i, ev)
			if err != nil {
				return nil, err
			}
			if isEmptyPruned(pv) {
				continue
			}
			out = append(out, pv)
		}
		return thunkArray(out), nil
	case *interp.Object:
		names := val.Fields(false)
		order := make([]string, 0, len(names))
		values := make(map[string]interp.Value, len(names))
		for _, name := range names {
			fv, err := val.GetField(i, name)
			if err != nil {
				return nil, err
			}
			pv, err := pruneValue(i, fv)
			if err != nil {
				return nil, err
			}
			if isEmptyPruned(pv) {
				continue
			}
			order = append(order, name)
			values[name] = pv
		}
		return interp.NewReadyObject(order, values, nil), nil
	default:
		return val, nil
	}
}

func isEmptyPruned(v interp.Value) bool {
	switch val := v.(type) {
	case interp.Null:
		return true
	case interp.Array:
		return len(val.Elems) == 0
	case *interp.Object:
		return len(val.Fields(false)) == 0
	default:
		return false
	}
}

// mergePatch implements RFC 7396 JSON Merge Patch semantics, per spec.md
// §4.5's std.mergePatch.
func mergePatch(i *interp.Interp, target, patch interp.Value) (interp.Value, error) {
	patchObj, ok := patch.(*interp.Object)
	if !ok {
		return patch, nil
	}
	var base *interp.Object
	if t, ok := target.(*interp.Object); ok {
		base = t
	}
	names := patchObj.Fields(false)
	merged := make(map[string]interp.Value)
	order := []string{}
	seen := make(map[string]bool)
	if base != nil {
		for _, name := range base.Fields(false) {
			v, err := base.GetField(i, name)
			if err != nil {
				return nil, err
			}
			merged[name] = v
			order = append(order, name)
			seen[name] = true
		}
	}
	sort.Strings(names)
	for _, name := range names {
		pv, err := patchObj.GetField(i, name)
		if err != nil {
			return nil, err
		}
		if _, isNull := pv.(interp.Null); isNull {
			delete(merged, name)
			continue
		}
		var baseVal interp.Value
		if base != nil && base.HasField(name, false) {
			baseVal, err = base.GetField(i, name)
			if err != nil {
				return nil, err
			}
		}
		mv, err := mergePatch(i, baseVal, pv)
		if err != nil {
			return nil, err
		}
		merged[name] = mv
		if !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	finalOrder := order[:0]
	for _, name := range order {
		if _, ok := merged[name]; ok {
			finalOrder = append(finalOrder, name)
		}
	}
	return interp.NewReadyObject(finalOrder, merged, nil), nil
}
