package stdlib

import (
	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerTypes(b *builder) {
	b.fn("type", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		return interp.StringValue(a[0].TypeName()), nil
	})
	b.fn("isString", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(interp.String); return ok }))
	b.fn("isNumber", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(interp.Number); return ok }))
	b.fn("isBoolean", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(interp.Bool); return ok }))
	b.fn("isArray", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(interp.Array); return ok }))
	b.fn("isObject", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(*interp.Object); return ok }))
	b.fn("isFunction", []string{"v"}, isType(func(v interp.Value) bool { _, ok := v.(interp.Function); return ok }))

	b.fn("length", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		switch v := a[0].(type) {
		case interp.String:
			return interp.NumberValue(float64(v.Len())), nil
		case interp.Array:
			return interp.NumberValue(float64(len(v.Elems))), nil
		case *interp.Object:
			return interp.NumberValue(float64(len(v.Fields(false)))), nil
		case interp.Function:
			return interp.NumberValue(float64(len(v.Params))), nil
		default:
			return nil, i.Errorf("std.length: unsupported type %s", a[0].TypeName())
		}
	})

	b.fn("objectFieldsEx", []string{"obj", "hidden"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectFieldsEx")
		if err != nil {
			return nil, err
		}
		hidden, err := interp.AsBool(i, a[1], "std.objectFieldsEx")
		if err != nil {
			return nil, err
		}
		return stringArray(obj.Fields(hidden)), nil
	})
	b.fn("objectHasEx", []string{"obj", "fname", "hidden"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.objectHasEx")
		if err != nil {
			return nil, err
		}
		name, err := interp.AsString(i, a[1], "std.objectHasEx")
		if err != nil {
			return nil, err
		}
		hidden, err := interp.AsBool(i, a[2], "std.objectHasEx")
		if err != nil {
			return nil, err
		}
		return interp.BoolValue(obj.HasField(name.Go(), hidden)), nil
	})

	b.fn("get", []string{"o", "f", "default", "inc_hidden"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.get")
		if err != nil {
			return nil, err
		}
		name, err := interp.AsString(i, a[1], "std.get")
		if err != nil {
			return nil, err
		}
		incHidden := true
		if a[3] != nil {
			incHidden, err = interp.AsBool(i, a[3], "std.get")
			if err != nil {
				return nil, err
			}
		}
		if !obj.HasField(name.Go(), incHidden) {
			if a[2] != nil {
				return a[2], nil
			}
			return interp.NullValue, nil
		}
		return obj.GetField(i, name.Go())
	})

	b.fn("thisFile", nil, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		return interp.StringValue(i.CurrentFile()), nil
	})

	b.fn("trace", []string{"str", "rest"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.trace")
		if err != nil {
			return nil, err
		}
		i.EmitTrace(s.Go())
		return a[1], nil
	})

	b.fn("extVar", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		name, err := interp.AsString(i, a[0], "std.extVar")
		if err != nil {
			return nil, err
		}
		t, ok := i.ExtVar(name.Go())
		if !ok {
			return nil, i.Errorf("undefined external variable: %s", name.Go())
		}
		return t.Force(i)
	})

	b.fn("equals", []string{"x", "y"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		eq, err := i.ValuesEqual(a[0], a[1])
		if err != nil {
			return nil, err
		}
		return interp.BoolValue(eq), nil
	})
}

func isType(pred func(interp.Value) bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		return interp.BoolValue(pred(a[0])), nil
	}
}
