package manifest

import (
	"strings"
	"unicode"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// TOMLOptions parameterizes std.manifestTomlEx.
type TOMLOptions struct {
	Indent string
}

func DefaultTOMLOptions() TOMLOptions { return TOMLOptions{Indent: "  "} }

// TOML renders root (which must be an object) as TOML text, per spec.md
// §4.6: nested objects become "[section]" blocks with dotted keys for
// deeper nesting, arrays-of-objects become "[[section]]" blocks, and
// scalar/array-of-scalar fields render as inline "key = value" lines
// ahead of any nested section at the same level.
func TOML(i *interp.Interp, root interp.Value, opts TOMLOptions) (string, error) {
	obj, ok := root.(*interp.Object)
	if !ok {
		return "", i.Errorf("std.manifestToml: root value must be an object")
	}
	var b strings.Builder
	if err := writeTOMLTable(i, &b, obj, nil, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeTOMLTable(i *interp.Interp, b *strings.Builder, obj *interp.Object, path []string, opts TOMLOptions) error {
	names := obj.Fields(false)
	var tables, arrayTables, scalars []string
	for _, name := range names {
		v, err := obj.GetField(i, name)
		if err != nil {
			return err
		}
		switch val := v.(type) {
		case *interp.Object:
			tables = append(tables, name)
		case interp.Array:
			if isArrayOfObjects(i, val) {
				arrayTables = append(arrayTables, name)
			} else {
				scalars = append(scalars, name)
			}
		default:
			scalars = append(scalars, name)
		}
	}
	for _, name := range scalars {
		v, err := obj.GetField(i, name)
		if err != nil {
			return err
		}
		b.WriteString(tomlKey(name))
		b.WriteString(" = ")
		if err := writeTOMLValue(i, b, v); err != nil {
			return err
		}
		b.WriteByte('\n')
	}
	for _, name := range tables {
		v, err := obj.GetField(i, name)
		if err != nil {
			return err
		}
		sub := v.(*interp.Object)
		subPath := append(append([]string(nil), path...), name)
		b.WriteByte('[')
		b.WriteString(strings.Join(subPath, "."))
		b.WriteString("]\n")
		if err := writeTOMLTable(i, b, sub, subPath, opts); err != nil {
			return err
		}
	}
	for _, name := range arrayTables {
		v, err := obj.GetField(i, name)
		if err != nil {
			return err
		}
		arr := v.(interp.Array)
		subPath := append(append([]string(nil), path...), name)
		for _, t := range arr.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return err
			}
			elemObj, ok := ev.(*interp.Object)
			if !ok {
				return i.Errorf("std.manifestToml: array-of-tables element must be an object")
			}
			b.WriteString("[[")
			b.WriteString(strings.Join(subPath, "."))
			b.WriteString("]]\n")
			if err := writeTOMLTable(i, b, elemObj, subPath, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func isArrayOfObjects(i *interp.Interp, arr interp.Array) bool {
	if len(arr.Elems) == 0 {
		return false
	}
	for _, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return false
		}
		if _, ok := v.(*interp.Object); !ok {
			return false
		}
	}
	return true
}

func writeTOMLValue(i *interp.Interp, b *strings.Builder, v interp.Value) error {
	switch val := v.(type) {
	case interp.Null:
		return i.Errorf("std.manifestToml: null cannot be represented in TOML")
	case interp.Bool:
		if val.B {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case interp.Number:
		b.WriteString(interp.FormatNumber(val.N))
	case interp.String:
		interp.WriteJSONString(b, val.Go())
	case interp.Array:
		b.WriteByte('[')
		for idx, t := range val.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return err
			}
			if idx > 0 {
				b.WriteString(", ")
			}
			if err := writeTOMLValue(i, b, ev); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *interp.Object:
		// Inline table form, used for objects nested inside arrays.
		if err := val.CheckAssertions(i); err != nil {
			return err
		}
		names := val.Fields(false)
		b.WriteByte('{')
		for idx, name := range names {
			fv, err := val.GetField(i, name)
			if err != nil {
				return err
			}
			if idx > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tomlKey(name))
			b.WriteString(" = ")
			if err := writeTOMLValue(i, b, fv); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case interp.Function:
		return i.Errorf("manifest: cannot manifest a function")
	}
	return nil
}

func tomlKey(k string) string {
	bare := true
	for _, r := range k {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			bare = false
			break
		}
	}
	if k == "" {
		bare = false
	}
	if bare {
		return k
	}
	var b strings.Builder
	interp.WriteJSONString(&b, k)
	return b.String()
}
