package interp

import (
	"strconv"
	"strings"
)

// Format implements the printf-style `%` operator and std.format, per
// spec.md §5 ("std.format mirrors a restricted printf/Python % syntax").
// args is either an Array (positional substitution), an Object (%(name)s
// substitution), or a single scalar (treated as a one-element array).
func (i *Interp) Format(format string, args Value) (Value, error) {
	var positional []Value
	var named *Object
	switch a := args.(type) {
	case Array:
		for _, t := range a.Elems {
			v, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			positional = append(positional, v)
		}
	case *Object:
		named = a
	default:
		positional = []Value{a}
	}

	var out strings.Builder
	pos := 0
	nextArg := func() (Value, error) {
		if pos >= len(positional) {
			return nil, i.Errorf("std.format: not enough arguments")
		}
		v := positional[pos]
		pos++
		return v, nil
	}

	runes := []rune(format)
	n := len(runes)
	for idx := 0; idx < n; idx++ {
		c := runes[idx]
		if c != '%' {
			out.WriteRune(c)
			continue
		}
		idx++
		if idx >= n {
			return nil, i.Errorf("std.format: trailing %%")
		}
		if runes[idx] == '%' {
			out.WriteByte('%')
			continue
		}

		var fieldName string
		if runes[idx] == '(' {
			end := idx + 1
			for end < n && runes[end] != ')' {
				end++
			}
			if end >= n {
				return nil, i.Errorf("std.format: unterminated %%(name)")
			}
			fieldName = string(runes[idx+1 : end])
			idx = end + 1
		}

		flagsStart := idx
		for idx < n && strings.ContainsRune("-+ 0#", runes[idx]) {
			idx++
		}
		flags := string(runes[flagsStart:idx])

		width := -1
		widthStar := false
		if idx < n && runes[idx] == '*' {
			widthStar = true
			idx++
		} else {
			wStart := idx
			for idx < n && runes[idx] >= '0' && runes[idx] <= '9' {
				idx++
			}
			if idx > wStart {
				width, _ = strconv.Atoi(string(runes[wStart:idx]))
			}
		}

		precision := -1
		if idx < n && runes[idx] == '.' {
			idx++
			pStart := idx
			for idx < n && runes[idx] >= '0' && runes[idx] <= '9' {
				idx++
			}
			if idx > pStart {
				precision, _ = strconv.Atoi(string(runes[pStart:idx]))
			} else {
				precision = 0
			}
		}

		if idx >= n {
			return nil, i.Errorf("std.format: missing conversion character")
		}
		verb := runes[idx]

		if widthStar {
			wv, err := nextArg()
			if err != nil {
				return nil, err
			}
			w, err := AsNumber(i, wv, "std.format width")
			if err != nil {
				return nil, err
			}
			width = int(w)
		}

		var arg Value
		var err error
		if fieldName != "" {
			if named == nil {
				return nil, i.Errorf("std.format: %%(name) requires an object argument")
			}
			arg, err = named.GetField(i, fieldName)
			if err != nil {
				return nil, err
			}
		} else {
			arg, err = nextArg()
			if err != nil {
				return nil, err
			}
		}

		s, err := i.formatOne(flags, width, precision, verb, arg)
		if err != nil {
			return nil, err
		}
		out.WriteString(s)
	}
	return StringValue(out.String()), nil
}

// applyIntPrecision left-pads digits (an unsigned decimal/octal/hex digit
// string, no sign) with zeros so it is at least precision digits long, per
// printf's "precision gives the minimum number of digits" rule for
// integer conversions. precision < 0 means no precision was given.
func applyIntPrecision(digits string, precision int) string {
	if precision < 0 {
		return digits
	}
	if precision == 0 && digits == "0" {
		return ""
	}
	if len(digits) < precision {
		return strings.Repeat("0", precision-len(digits)) + digits
	}
	return digits
}

func (i *Interp) formatOne(flags string, width, precision int, verb rune, arg Value) (string, error) {
	left := strings.ContainsRune(flags, '-')
	zero := strings.ContainsRune(flags, '0')
	plus := strings.ContainsRune(flags, '+')
	space := strings.ContainsRune(flags, ' ')
	alt := strings.ContainsRune(flags, '#')

	var s string
	switch verb {
	case 's':
		str, err := i.ToString(arg)
		if err != nil {
			return "", err
		}
		if precision >= 0 && precision < len([]rune(str)) {
			str = string([]rune(str)[:precision])
		}
		s = str
	case 'd', 'i', 'u':
		n, err := AsNumber(i, arg, "std.format %d")
		if err != nil {
			return "", err
		}
		iv := int64(n)
		sign := ""
		if iv < 0 {
			sign = "-"
			iv = -iv
		} else if plus {
			sign = "+"
		} else if space {
			sign = " "
		}
		s = sign + applyIntPrecision(strconv.FormatInt(iv, 10), precision)
	case 'o':
		n, err := AsNumber(i, arg, "std.format %o")
		if err != nil {
			return "", err
		}
		s = applyIntPrecision(strconv.FormatInt(int64(n), 8), precision)
		if alt {
			s = "0" + s
		}
	case 'x', 'X':
		n, err := AsNumber(i, arg, "std.format %x")
		if err != nil {
			return "", err
		}
		s = applyIntPrecision(strconv.FormatInt(int64(n), 16), precision)
		if verb == 'X' {
			s = strings.ToUpper(s)
		}
		if alt {
			if verb == 'X' {
				s = "0X" + s
			} else {
				s = "0x" + s
			}
		}
	case 'c':
		switch a := arg.(type) {
		case String:
			s = a.Go()
		case Number:
			s = string(rune(int64(a.N)))
		default:
			return "", i.Errorf("std.format %%c: expected string or number, got %s", arg.TypeName())
		}
	case 'f', 'F':
		n, err := AsNumber(i, arg, "std.format %f")
		if err != nil {
			return "", err
		}
		prec := 6
		if precision >= 0 {
			prec = precision
		}
		s = strconv.FormatFloat(n, 'f', prec, 64)
		if n >= 0 {
			if plus {
				s = "+" + s
			} else if space {
				s = " " + s
			}
		}
	case 'e', 'E':
		n, err := AsNumber(i, arg, "std.format %e")
		if err != nil {
			return "", err
		}
		prec := 6
		if precision >= 0 {
			prec = precision
		}
		s = strconv.FormatFloat(n, byte(verb), prec, 64)
	case 'g', 'G':
		n, err := AsNumber(i, arg, "std.format %g")
		if err != nil {
			return "", err
		}
		prec := 6
		if precision >= 0 {
			prec = precision
		}
		s = strconv.FormatFloat(n, byte(verb), prec, 64)
	default:
		return "", i.Errorf("std.format: unsupported conversion %%%c", verb)
	}

	if width > len([]rune(s)) {
		pad := width - len([]rune(s))
		padChar := byte(' ')
		if zero && !left {
			padChar = '0'
		}
		padding := strings.Repeat(string(padChar), pad)
		if left {
			s = s + strings.Repeat(" ", pad)
		} else if padChar == '0' && len(s) > 0 && (s[0] == '-' || s[0] == '+') {
			s = s[:1] + padding + s[1:]
		} else {
			s = padding + s
		}
	}
	return s, nil
}
