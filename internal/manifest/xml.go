package manifest

import (
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// XMLJsonml renders a JSONML-shaped value (`[tag, attrs?, ...children]`)
// as XML text, per spec.md §4.6.
func XMLJsonml(i *interp.Interp, v interp.Value) (string, error) {
	var b strings.Builder
	if err := writeXMLNode(i, &b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeXMLNode(i *interp.Interp, b *strings.Builder, v interp.Value) error {
	if s, ok := v.(interp.String); ok {
		writeXMLText(b, s.Go())
		return nil
	}
	arr, ok := v.(interp.Array)
	if !ok || len(arr.Elems) == 0 {
		return i.Errorf("std.manifestXmlJsonml: expected a JSONML node (array) or string")
	}
	elems, err := func() ([]interp.Value, error) {
		out := make([]interp.Value, len(arr.Elems))
		for idx, t := range arr.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return nil, err
			}
			out[idx] = ev
		}
		return out, nil
	}()
	if err != nil {
		return err
	}
	tagVal, ok := elems[0].(interp.String)
	if !ok {
		return i.Errorf("std.manifestXmlJsonml: node tag must be a string")
	}
	tag := tagVal.Go()

	rest := elems[1:]
	var attrs *interp.Object
	if len(rest) > 0 {
		if obj, ok := rest[0].(*interp.Object); ok {
			attrs = obj
			rest = rest[1:]
		}
	}

	b.WriteByte('<')
	b.WriteString(tag)
	if attrs != nil {
		for _, name := range attrs.Fields(false) {
			av, err := attrs.GetField(i, name)
			if err != nil {
				return err
			}
			as, err := i.ToString(av)
			if err != nil {
				return err
			}
			b.WriteByte(' ')
			b.WriteString(name)
			b.WriteString(`="`)
			writeXMLAttr(b, as)
			b.WriteByte('"')
		}
	}
	if len(rest) == 0 {
		b.WriteString("/>")
		return nil
	}
	b.WriteByte('>')
	for _, child := range rest {
		if err := writeXMLNode(i, b, child); err != nil {
			return err
		}
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return nil
}

func writeXMLText(b *strings.Builder, s string) {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	b.WriteString(r.Replace(s))
}

func writeXMLAttr(b *strings.Builder, s string) {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
	b.WriteString(r.Replace(s))
}
