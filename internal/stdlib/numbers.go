package stdlib

import (
	"math"
	"strconv"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerNumbers(b *builder) {
	unary := func(name string, f func(float64) float64) {
		b.fn(name, []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
			n, err := interp.AsNumber(i, a[0], "std."+name)
			if err != nil {
				return nil, err
			}
			return interp.NumberValue(f(n)), nil
		})
	}
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("sqrt", math.Sqrt)
	unary("exp", math.Exp)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	// Deliberately not math.Abs: a zero input of either sign is negated
	// like a negative one, so abs(0) is -0 and abs(-0) is 0 - an
	// observable quirk in toString(abs(x)) for signed zero.
	unary("abs", func(x float64) float64 {
		if x <= 0 {
			return -x
		}
		return x
	})
	unary("sign", func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	})

	b.fn("atan2", []string{"y", "x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		y, err := interp.AsNumber(i, a[0], "std.atan2")
		if err != nil {
			return nil, err
		}
		x, err := interp.AsNumber(i, a[1], "std.atan2")
		if err != nil {
			return nil, err
		}
		return interp.NumberValue(math.Atan2(y, x)), nil
	})

	b.fn("log", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[0], "std.log")
		if err != nil {
			return nil, err
		}
		return interp.NumberValue(math.Log(n)), nil
	})

	b.fn("pow", []string{"x", "n"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		x, err := interp.AsNumber(i, a[0], "std.pow")
		if err != nil {
			return nil, err
		}
		n, err := interp.AsNumber(i, a[1], "std.pow")
		if err != nil {
			return nil, err
		}
		return interp.NumberValue(math.Pow(x, n)), nil
	})

	b.fn("modulo", []string{"x", "y"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		x, err := interp.AsNumber(i, a[0], "std.modulo")
		if err != nil {
			return nil, err
		}
		y, err := interp.AsNumber(i, a[1], "std.modulo")
		if err != nil {
			return nil, err
		}
		if y == 0 {
			return nil, i.Errorf("std.modulo: division by zero")
		}
		return interp.NumberValue(math.Mod(x, y)), nil
	})

	b.fn("exponent", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		x, err := interp.AsNumber(i, a[0], "std.exponent")
		if err != nil {
			return nil, err
		}
		_, exp := math.Frexp(x)
		return interp.NumberValue(float64(exp)), nil
	})
	b.fn("mantissa", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		x, err := interp.AsNumber(i, a[0], "std.mantissa")
		if err != nil {
			return nil, err
		}
		frac, _ := math.Frexp(x)
		return interp.NumberValue(frac), nil
	})

	b.fn("parseInt", []string{"str"}, parseBase(10, "parseInt"))
	b.fn("parseOctal", []string{"str"}, parseBase(8, "parseOctal"))
	b.fn("parseHex", []string{"str"}, parseBase(16, "parseHex"))

	b.fn("parseJson", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.parseJson")
		if err != nil {
			return nil, err
		}
		return parseJSON(i, s.Go())
	})
	b.fn("parseYaml", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.parseYaml")
		if err != nil {
			return nil, err
		}
		return parseYAML(i, s.Go())
	})

	b.fn("round", []string{"x"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[0], "std.round")
		if err != nil {
			return nil, err
		}
		return interp.NumberValue(math.Round(n)), nil
	})

	b.fn("isEven", []string{"x"}, parityFn(0))
	b.fn("isOdd", []string{"x"}, parityFn(1))
}

func parityFn(want int) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[0], "std.isEven/isOdd")
		if err != nil {
			return nil, err
		}
		return interp.BoolValue(int64(n)%2 == int64(want)), nil
	}
}

func parseBase(base int, name string) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std."+name)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s.Go(), base, 64)
		if err != nil {
			return nil, i.Errorf("std.%s: invalid number: %q", name, s.Go())
		}
		return interp.NumberValue(float64(n)), nil
	}
}
