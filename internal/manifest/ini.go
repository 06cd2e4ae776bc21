package manifest

import (
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// INI renders `{ main?: object, sections: object-of-objects }` per
// spec.md §4.6's std.manifestIni: main keys precede sections, each
// section becomes "[name]" followed by "key = value" lines, array values
// expand to repeated lines, nested objects render via toString.
func INI(i *interp.Interp, root *interp.Object) (string, error) {
	var b strings.Builder
	if root.HasField("main", false) {
		main, err := root.GetField(i, "main")
		if err != nil {
			return "", err
		}
		mainObj, err := interp.AsObject(i, main, "std.manifestIni main")
		if err != nil {
			return "", err
		}
		if err := writeINIKeyValues(i, &b, mainObj); err != nil {
			return "", err
		}
	}
	if root.HasField("sections", false) {
		sectionsV, err := root.GetField(i, "sections")
		if err != nil {
			return "", err
		}
		sections, err := interp.AsObject(i, sectionsV, "std.manifestIni sections")
		if err != nil {
			return "", err
		}
		for _, name := range sections.Fields(false) {
			sv, err := sections.GetField(i, name)
			if err != nil {
				return "", err
			}
			sObj, err := interp.AsObject(i, sv, "std.manifestIni section")
			if err != nil {
				return "", err
			}
			b.WriteByte('[')
			b.WriteString(name)
			b.WriteString("]\n")
			if err := writeINIKeyValues(i, &b, sObj); err != nil {
				return "", err
			}
		}
	}
	return b.String(), nil
}

func writeINIKeyValues(i *interp.Interp, b *strings.Builder, obj *interp.Object) error {
	for _, name := range obj.Fields(false) {
		v, err := obj.GetField(i, name)
		if err != nil {
			return err
		}
		if arr, ok := v.(interp.Array); ok {
			for _, t := range arr.Elems {
				ev, err := t.Force(i)
				if err != nil {
					return err
				}
				s, err := i.ToString(ev)
				if err != nil {
					return err
				}
				b.WriteString(name)
				b.WriteString(" = ")
				b.WriteString(s)
				b.WriteByte('\n')
			}
			continue
		}
		s, err := i.ToString(v)
		if err != nil {
			return err
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return nil
}
