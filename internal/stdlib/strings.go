package stdlib

import (
	"strings"
	"unicode"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

func registerStrings(b *builder) {
	b.fn("codepoint", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.codepoint")
		if err != nil {
			return nil, err
		}
		if s.Len() != 1 {
			return nil, i.Errorf("std.codepoint: expected a single-character string")
		}
		return interp.NumberValue(float64(s.R[0])), nil
	})
	b.fn("char", []string{"n"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		n, err := interp.AsNumber(i, a[0], "std.char")
		if err != nil {
			return nil, err
		}
		return interp.StringValueRunes([]rune{rune(int32(n))}), nil
	})

	b.fn("substr", []string{"str", "from", "len"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.substr")
		if err != nil {
			return nil, err
		}
		from, err := interp.AsNumber(i, a[1], "std.substr")
		if err != nil {
			return nil, err
		}
		ln, err := interp.AsNumber(i, a[2], "std.substr")
		if err != nil {
			return nil, err
		}
		f := clamp(int(from), 0, s.Len())
		end := clamp(f+int(ln), f, s.Len())
		return interp.StringValueRunes(append([]rune(nil), s.R[f:end]...)), nil
	})

	b.fn("startsWith", []string{"a", "b"}, strPred(func(a, bv string) bool { return strings.HasPrefix(a, bv) }))
	b.fn("endsWith", []string{"a", "b"}, strPred(func(a, bv string) bool { return strings.HasSuffix(a, bv) }))
	b.fn("equalsIgnoreCase", []string{"str1", "str2"}, strPred(strings.EqualFold))

	b.fn("stringChars", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.stringChars")
		if err != nil {
			return nil, err
		}
		out := make([]string, len(s.R))
		for idx, r := range s.R {
			out[idx] = string(r)
		}
		return stringArray(out), nil
	})

	b.fn("findSubstr", []string{"pat", "str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		pat, err := interp.AsString(i, a[0], "std.findSubstr")
		if err != nil {
			return nil, err
		}
		s, err := interp.AsString(i, a[1], "std.findSubstr")
		if err != nil {
			return nil, err
		}
		if len(pat.R) == 0 {
			return thunkArray(nil), nil
		}
		var out []interp.Value
		for idx := 0; idx+len(pat.R) <= len(s.R); idx++ {
			if runesEqual(s.R[idx:idx+len(pat.R)], pat.R) {
				out = append(out, interp.NumberValue(float64(idx)))
			}
		}
		return thunkArray(out), nil
	})

	b.fn("strReplace", []string{"str", "from", "to"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.strReplace")
		if err != nil {
			return nil, err
		}
		from, err := interp.AsString(i, a[1], "std.strReplace")
		if err != nil {
			return nil, err
		}
		to, err := interp.AsString(i, a[2], "std.strReplace")
		if err != nil {
			return nil, err
		}
		if from.Len() == 0 {
			return nil, i.Errorf("std.strReplace: 'from' must not be empty")
		}
		return interp.StringValue(strings.ReplaceAll(s.Go(), from.Go(), to.Go())), nil
	})

	b.fn("split", []string{"str", "c"}, splitFn(-1))
	b.fn("splitLimit", []string{"str", "c", "maxsplits"}, splitFn(0))
	b.fn("splitLimitR", []string{"str", "c", "maxsplits"}, splitFnRight())

	b.fn("asciiUpper", []string{"str"}, strMap(strings.ToUpper))
	b.fn("asciiLower", []string{"str"}, strMap(strings.ToLower))

	b.fn("trim", []string{"str"}, strMap(func(s string) string { return strings.TrimSpace(s) }))

	b.fn("lstripChars", []string{"str", "chars"}, stripFn(true, false))
	b.fn("rstripChars", []string{"str", "chars"}, stripFn(false, true))
	b.fn("stripChars", []string{"str", "chars"}, stripFn(true, true))

	b.fn("escapeStringJson", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := i.ToString(a[0])
		if err != nil {
			return nil, err
		}
		return interp.StringValue(jsonQuote(s)), nil
	})
	b.fn("escapeStringBash", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.escapeStringBash")
		if err != nil {
			return nil, err
		}
		return interp.StringValue("'" + strings.ReplaceAll(s.Go(), "'", `'"'"'`) + "'"), nil
	})
	b.fn("escapeStringDollars", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.escapeStringDollars")
		if err != nil {
			return nil, err
		}
		return interp.StringValue(strings.ReplaceAll(s.Go(), "$", "$$")), nil
	})
	b.fn("escapeStringXML", []string{"str"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.escapeStringXML")
		if err != nil {
			return nil, err
		}
		r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
		return interp.StringValue(r.Replace(s.Go())), nil
	})

	b.fn("toString", []string{"a"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := i.ToString(a[0])
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("format", []string{"str", "vals"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.format")
		if err != nil {
			return nil, err
		}
		return i.Format(s.Go(), a[1])
	})

	b.fn("join", []string{"sep", "arr"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[1], "std.join")
		if err != nil {
			return nil, err
		}
		elems, err := forceAll(i, arr)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return interp.StringValue(""), nil
		}
		if _, isArr := elems[0].(interp.Array); isArr {
			sep, err := interp.AsArray(i, a[0], "std.join")
			if err != nil {
				return nil, err
			}
			var out []interp.Value
			for idx, e := range elems {
				if idx > 0 {
					sv, err := forceAll(i, sep)
					if err != nil {
						return nil, err
					}
					out = append(out, sv...)
				}
				ea, err := interp.AsArray(i, e, "std.join")
				if err != nil {
					return nil, err
				}
				v, err := forceAll(i, ea)
				if err != nil {
					return nil, err
				}
				out = append(out, v...)
			}
			return thunkArray(out), nil
		}
		sep, err := interp.AsString(i, a[0], "std.join")
		if err != nil {
			return nil, err
		}
		var parts []string
		for _, e := range elems {
			s, err := interp.AsString(i, e, "std.join")
			if err != nil {
				return nil, err
			}
			parts = append(parts, s.Go())
		}
		return interp.StringValue(strings.Join(parts, sep.Go())), nil
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

func strPred(f func(a, b string) bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		as, err := interp.AsString(i, a[0], "std string predicate")
		if err != nil {
			return nil, err
		}
		bs, err := interp.AsString(i, a[1], "std string predicate")
		if err != nil {
			return nil, err
		}
		return interp.BoolValue(f(as.Go(), bs.Go())), nil
	}
}

func strMap(f func(string) string) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std string function")
		if err != nil {
			return nil, err
		}
		return interp.StringValue(f(s.Go())), nil
	}
}

func splitFn(limitParamIdx int) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.split")
		if err != nil {
			return nil, err
		}
		sep, err := interp.AsString(i, a[1], "std.split")
		if err != nil {
			return nil, err
		}
		n := -1
		if len(a) > 2 && a[2] != nil {
			ln, err := interp.AsNumber(i, a[2], "std.splitLimit")
			if err != nil {
				return nil, err
			}
			n = int(ln)
			if n < 0 {
				n = -1
			} else {
				n++
			}
		}
		parts := strings.SplitN(s.Go(), sep.Go(), n)
		return stringArray(parts), nil
	}
}

func splitFnRight() nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.splitLimitR")
		if err != nil {
			return nil, err
		}
		sep, err := interp.AsString(i, a[1], "std.splitLimitR")
		if err != nil {
			return nil, err
		}
		ln, err := interp.AsNumber(i, a[2], "std.splitLimitR")
		if err != nil {
			return nil, err
		}
		n := int(ln)
		if n < 0 {
			return stringArray(strings.Split(s.Go(), sep.Go())), nil
		}
		full := strings.Split(s.Go(), sep.Go())
		if len(full) <= n+1 {
			return stringArray(full), nil
		}
		head := full[:len(full)-n]
		tail := full[len(full)-n:]
		out := append([]string{strings.Join(head, sep.Go())}, tail...)
		return stringArray(out), nil
	}
}

func stripFn(left, right bool) nativeFn {
	return func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := interp.AsString(i, a[0], "std.stripChars")
		if err != nil {
			return nil, err
		}
		chars, err := interp.AsString(i, a[1], "std.stripChars")
		if err != nil {
			return nil, err
		}
		cutset := chars.Go()
		str := s.Go()
		if left {
			str = strings.TrimLeft(str, cutset)
		}
		if right {
			str = strings.TrimRight(str, cutset)
		}
		return interp.StringValue(str), nil
	}
}

func jsonQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString("\\u")
				for shift := 12; shift >= 0; shift -= 4 {
					b.WriteByte("0123456789abcdef"[(r>>uint(shift))&0xf])
				}
			} else if !unicode.IsPrint(r) && r > 0x7f {
				b.WriteString("\\u")
				for shift := 12; shift >= 0; shift -= 4 {
					b.WriteByte("0123456789abcdef"[(r>>uint(shift))&0xf])
				}
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
