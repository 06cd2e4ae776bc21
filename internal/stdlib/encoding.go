package stdlib

import (
	"encoding/base64"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerEncoding(b *builder) {
	b.fn("base64", []string{"input"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		var raw []byte
		switch v := a[0].(type) {
		case interp.String:
			raw = []byte(v.Go())
		case interp.Array:
			bs, err := bytesFromArray(i, v)
			if err != nil {
				return nil, err
			}
			raw = bs
		default:
			return nil, i.Errorf("std.base64: expected string or array, got %s", a[0].TypeName())
		}
		return interp.StringValue(base64.StdEncoding.EncodeToString(raw)), nil
	})

	b.fn("base64Decode", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.base64Decode")
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(s.Go())
		if err != nil {
			return nil, i.Errorf("std.base64Decode: invalid base64: %v", err)
		}
		return interp.StringValue(string(raw)), nil
	})

	b.fn("base64DecodeBytes", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.base64DecodeBytes")
		if err != nil {
			return nil, err
		}
		raw, err := base64.StdEncoding.DecodeString(s.Go())
		if err != nil {
			return nil, i.Errorf("std.base64DecodeBytes: invalid base64: %v", err)
		}
		return bytesToArray(raw), nil
	})

	b.fn("encodeUTF8", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.encodeUTF8")
		if err != nil {
			return nil, err
		}
		return bytesToArray([]byte(s.Go())), nil
	})

	b.fn("decodeUTF8", []string{"arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.decodeUTF8")
		if err != nil {
			return nil, err
		}
		raw, err := bytesFromArray(i, arr)
		if err != nil {
			return nil, err
		}
		// Invalid sequences decode as U+FFFD, matching Go's utf8 decoder
		// default behavior, per spec.md §4.5.
		return interp.StringValue(string([]rune(string(raw)))), nil
	})
}

func bytesFromArray(i *interp.Interp, arr interp.Array) ([]byte, error) {
	out := make([]byte, len(arr.Elems))
	for idx, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return nil, err
		}
		n, err := interp.AsNumber(i, v, "byte array")
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 255 {
			return nil, i.Errorf("byte array: value out of range: %v", n)
		}
		out[idx] = byte(n)
	}
	return out, nil
}

func bytesToArray(raw []byte) interp.Value {
	elems := make([]*interp.Thunk, len(raw))
	for idx, b := range raw {
		elems[idx] = interp.ReadyThunk(interp.NumberValue(float64(b)))
	}
	return interp.ArrayValue(elems)
}
