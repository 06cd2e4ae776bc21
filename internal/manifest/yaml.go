package manifest

import (
	"strconv"
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// YAMLOptions parameterizes std.manifestYamlDoc/manifestYamlStream.
type YAMLOptions struct {
	IndentArrayInObject bool
	QuoteKeys           bool
}

func DefaultYAMLOptions() YAMLOptions {
	return YAMLOptions{QuoteKeys: true}
}

// YAMLDoc renders a single YAML document for v, per spec.md §4.6.
func YAMLDoc(i *interp.Interp, v interp.Value, opts YAMLOptions) (string, error) {
	var b strings.Builder
	// inline=true at depth 0: the document's first line starts flush,
	// with no leading blank line before the first key/element.
	if err := writeYAML(i, &b, v, opts, 0, true); err != nil {
		return "", err
	}
	s := b.String()
	if s == "" {
		return "null\n", nil
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, nil
}

// YAMLStream renders arr (which must be an array) as a multi-document
// YAML stream separated by "---", per spec.md §6's evaluate-for-YAML-
// stream mode.
func YAMLStream(i *interp.Interp, arr interp.Array, opts YAMLOptions, cDocumentEnd bool) (string, error) {
	var b strings.Builder
	for _, t := range arr.Elems {
		v, err := t.Force(i)
		if err != nil {
			return "", err
		}
		doc, err := YAMLDoc(i, v, opts)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.WriteString(doc)
		if cDocumentEnd {
			b.WriteString("...\n")
		}
	}
	return b.String(), nil
}

// writeYAML writes v at the given indent depth. inline controls whether
// the first line should omit leading indentation (used right after
// "key:").
func writeYAML(i *interp.Interp, b *strings.Builder, v interp.Value, opts YAMLOptions, depth int, inline bool) error {
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
		writeYAMLScalarString(b, val.Go(), depth)
	case interp.Array:
		if len(val.Elems) == 0 {
			b.WriteString("[]")
			return nil
		}
		for idx, t := range val.Elems {
			ev, err := t.Force(i)
			if err != nil {
				return err
			}
			if idx > 0 || !inline {
				b.WriteByte('\n')
				writeIndentSpaces(b, depth)
			}
			b.WriteString("- ")
			if err := writeYAML(i, b, ev, opts, depth+1, true); err != nil {
				return err
			}
		}
	case *interp.Object:
		if err := val.CheckAssertions(i); err != nil {
			return err
		}
		names := val.Fields(false)
		if len(names) == 0 {
			b.WriteString("{}")
			return nil
		}
		for idx, name := range names {
			fv, err := val.GetField(i, name)
			if err != nil {
				return err
			}
			if idx > 0 || !inline {
				b.WriteByte('\n')
				writeIndentSpaces(b, depth)
			}
			writeYAMLKey(b, name, opts)
			b.WriteByte(':')
			_, isArr := fv.(interp.Array)
			_, isObj := fv.(*interp.Object)
			if isArr && len(fv.(interp.Array).Elems) > 0 {
				if opts.IndentArrayInObject {
					b.WriteByte('\n')
					writeIndentSpaces(b, depth+1)
					if err := writeYAML(i, b, fv, opts, depth+1, true); err != nil {
						return err
					}
				} else {
					b.WriteByte('\n')
					writeIndentSpaces(b, depth)
					if err := writeYAML(i, b, fv, opts, depth, true); err != nil {
						return err
					}
				}
			} else if isObj && len(fv.(*interp.Object).Fields(false)) > 0 {
				b.WriteByte('\n')
				writeIndentSpaces(b, depth+1)
				if err := writeYAML(i, b, fv, opts, depth+1, true); err != nil {
					return err
				}
			} else {
				b.WriteByte(' ')
				if err := writeYAML(i, b, fv, opts, depth+1, true); err != nil {
					return err
				}
			}
		}
	case interp.Function:
		return i.Errorf("manifest: cannot manifest a function")
	}
	return nil
}

func writeIndentSpaces(b *strings.Builder, depth int) {
	for d := 0; d < depth; d++ {
		b.WriteString("  ")
	}
}

func writeYAMLKey(b *strings.Builder, key string, opts YAMLOptions) {
	if opts.QuoteKeys || needsYAMLQuoting(key) {
		interp.WriteJSONString(b, key)
		return
	}
	b.WriteString(key)
}

// needsYAMLQuoting reports whether key, written bare, would be
// misinterpreted by a YAML parser as something other than a plain
// string scalar: a reserved token, a number, or a special form.
func needsYAMLQuoting(key string) bool {
	if key == "" {
		return true
	}
	switch strings.ToLower(key) {
	case "true", "false", "null", "~", "yes", "no", "on", "off":
		return true
	}
	if _, err := strconv.ParseFloat(key, 64); err == nil {
		return true
	}
	first := key[0]
	switch first {
	case '-', '?', ':', ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`', ' ':
		return true
	}
	if strings.HasSuffix(key, " ") {
		return true
	}
	if strings.ContainsAny(key, ":#") {
		return true
	}
	return false
}

// writeYAMLScalarString renders a string value: multi-line strings ending
// in "\n" use the literal block scalar "|" ("|+" when they end in a blank
// line). Other strings are written bare unless they are empty, contain a
// newline or tab, or need quoting per needsYAMLQuoting; those are quoted
// with the same escaping as JSON strings (a safe, always-valid subset of
// YAML double-quoted scalars).
func writeYAMLScalarString(b *strings.Builder, s string, depth int) {
	if strings.Contains(s, "\n") && strings.HasSuffix(s, "\n") && s != "\n" {
		b.WriteString("|")
		if strings.HasSuffix(s, "\n\n") {
			b.WriteString("+")
		}
		lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		for _, line := range lines {
			b.WriteByte('\n')
			writeIndentSpaces(b, depth+1)
			b.WriteString(line)
		}
		return
	}
	if s == "" || needsYAMLQuoting(s) || strings.ContainsAny(s, "\n\t") {
		interp.WriteJSONString(b, s)
		return
	}
	b.WriteString(s)
}
