package manifest

import (
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// Python renders v as a Python literal expression, per std.manifestPython.
func Python(i *interp.Interp, v interp.Value) (string, error) {
	var b strings.Builder
	if err := writePython(i, &b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writePython(i *interp.Interp, b *strings.Builder, v interp.Value) error {
	switch val := v.(type) {
	case interp.Null:
		b.WriteString("None")
	case interp.Bool:
		if val.B {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case interp.Number:
		b.WriteString(interp.FormatNumber(val.N))
	case interp.String:
		writePythonString(b, val.Go())
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
			if err := writePython(i, b, ev); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *interp.Object:
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
			writePythonString(b, name)
			b.WriteString(": ")
			if err := writePython(i, b, fv); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case interp.Function:
		return i.Errorf("manifest: cannot manifest a function")
	}
	return nil
}

func writePythonString(b *strings.Builder, s string) {
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
}

// PythonVars renders the top-level object's fields as Python variable
// assignments, per std.manifestPythonVars.
func PythonVars(i *interp.Interp, obj *interp.Object) (string, error) {
	var b strings.Builder
	names := obj.Fields(false)
	for _, name := range names {
		v, err := obj.GetField(i, name)
		if err != nil {
			return "", err
		}
		b.WriteString(name)
		b.WriteString(" = ")
		if err := writePython(i, &b, v); err != nil {
			return "", err
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
