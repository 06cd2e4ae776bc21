// Package manifest converts fully-forced Jsonnet values into the output
// text formats an embedding program can request: JSON, a YAML document or
// stream, TOML, INI, Python source, and XML-JSONML.
package manifest

import (
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// JSONOptions parameterizes std.manifestJsonEx.
type JSONOptions struct {
	Indent string
	Newline string
	KeyValSep string
}

// DefaultJSONOptions matches std.manifestJson's two-space, newline-separated
// pretty-printing.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{Indent: "  ", Newline: "\n", KeyValSep: ": "}
}

// MinifiedJSONOptions matches std.manifestJsonMinified.
func MinifiedJSONOptions() JSONOptions {
	return JSONOptions{Indent: "", Newline: "", KeyValSep: ":"}
}

// JSON renders v as JSON text, per spec.md §4.6 ("functions cannot be
// manifested, hidden fields excluded, sorted visible-field order, shortest
// round-trip numbers").
func JSON(i *interp.Interp, v interp.Value, opts JSONOptions) (string, error) {
	var b strings.Builder
	if err := writeJSON(i, &b, v, opts, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(i *interp.Interp, b *strings.Builder, v interp.Value, opts JSONOptions, depth int) error {
	switch val := v.(type) {
	case interp.Null:
		b.WriteString("null")
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
		if len(val.Elems) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		b.WriteString(opts.Newline)
		for idx, t := range val.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return err
			}
			writeIndent(b, opts, depth+1)
			if err := writeJSON(i, b, ev, opts, depth+1); err != nil {
				return err
			}
			if idx < len(val.Elems)-1 {
				b.WriteByte(',')
			}
			b.WriteString(opts.Newline)
		}
		writeIndent(b, opts, depth)
		b.WriteByte(']')
	case *interp.Object:
		if err := val.CheckAssertions(i); err != nil {
			return err
		}
		names := val.Fields(false)
		if len(names) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		b.WriteString(opts.Newline)
		for idx, name := range names {
			fv, err := val.GetField(i, name)
			if err != nil {
				return err
			}
			writeIndent(b, opts, depth+1)
			interp.WriteJSONString(b, name)
			b.WriteString(opts.KeyValSep)
			if err := writeJSON(i, b, fv, opts, depth+1); err != nil {
				return err
			}
			if idx < len(names)-1 {
				b.WriteByte(',')
			}
			b.WriteString(opts.Newline)
		}
		writeIndent(b, opts, depth)
		b.WriteByte('}')
	case interp.Function:
		return i.Errorf("manifest: cannot manifest a function")
	}
	return nil
}

func writeIndent(b *strings.Builder, opts JSONOptions, depth int) {
	for d := 0; d < depth; d++ {
		b.WriteString(opts.Indent)
	}
}
