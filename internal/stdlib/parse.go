package stdlib

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// parseJSON implements std.parseJson: a strict round-trip of JSON text
// into Jsonnet values, per spec.md §4.5.
func parseJSON(i *interp.Interp, s string) (interp.Value, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, i.Errorf("std.parseJson: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, i.Errorf("std.parseJson: unexpected data after the JSON value")
	}
	return fromGoValue(i, raw)
}

// parseYAML implements std.parseYaml, including anchors and aliases
// (resolved by the underlying decoder before conversion), per spec.md
// §4.5 and the worked example in spec.md §8.
func parseYAML(i *interp.Interp, s string) (interp.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
		return nil, i.Errorf("std.parseYaml: %v", err)
	}
	return fromGoValue(i, raw)
}

func fromGoValue(i *interp.Interp, raw any) (interp.Value, error) {
	switch v := raw.(type) {
	case nil:
		return interp.NullValue, nil
	case bool:
		return interp.BoolValue(v), nil
	case string:
		return interp.StringValue(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, i.Errorf("std.parseJson: invalid number %q", v.String())
		}
		return interp.NumberValue(f), nil
	case int:
		return interp.NumberValue(float64(v)), nil
	case int64:
		return interp.NumberValue(float64(v)), nil
	case float64:
		return interp.NumberValue(v), nil
	case []any:
		out := make([]interp.Value, len(v))
		for idx, e := range v {
			ev, err := fromGoValue(i, e)
			if err != nil {
				return nil, err
			}
			out[idx] = ev
		}
		return thunkArray(out), nil
	case map[string]any:
		order := make([]string, 0, len(v))
		values := make(map[string]interp.Value, len(v))
		for k := range v {
			order = append(order, k)
		}
		for _, k := range order {
			ev, err := fromGoValue(i, v[k])
			if err != nil {
				return nil, err
			}
			values[k] = ev
		}
		return interp.NewReadyObject(order, values, nil), nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = val
		}
		return fromGoValue(i, m)
	default:
		return nil, i.Errorf("std.parseJson/parseYaml: unsupported value of type %T", raw)
	}
}
