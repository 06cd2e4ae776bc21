package stdlib

import (
	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/manifest"
)

func registerManifest(b *builder) {
	b.fn("manifestJson", []string{"value"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := manifest.JSON(i, a[0], manifest.DefaultJSONOptions())
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
	b.fn("manifestJsonMinified", []string{"value"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := manifest.JSON(i, a[0], manifest.MinifiedJSONOptions())
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
	b.fn("manifestJsonEx", []string{"value", "indent", "newline", "key_val_sep"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		indent, err := interp.AsString(i, a[1], "std.manifestJsonEx")
		if err != nil {
			return nil, err
		}
		opts := manifest.JSONOptions{Indent: indent.Go(), Newline: "\n", KeyValSep: ": "}
		if a[2] != nil {
			nl, err := interp.AsString(i, a[2], "std.manifestJsonEx")
			if err != nil {
				return nil, err
			}
			opts.Newline = nl.Go()
		}
		if a[3] != nil {
			kv, err := interp.AsString(i, a[3], "std.manifestJsonEx")
			if err != nil {
				return nil, err
			}
			opts.KeyValSep = kv.Go()
		}
		s, err := manifest.JSON(i, a[0], opts)
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("manifestYamlDoc", []string{"value", "indent_array_in_object", "quote_keys"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		opts := manifest.DefaultYAMLOptions()
		if a[1] != nil {
			v, err := interp.AsBool(i, a[1], "std.manifestYamlDoc")
			if err != nil {
				return nil, err
			}
			opts.IndentArrayInObject = v
		}
		if a[2] != nil {
			v, err := interp.AsBool(i, a[2], "std.manifestYamlDoc")
			if err != nil {
				return nil, err
			}
			opts.QuoteKeys = v
		}
		s, err := manifest.YAMLDoc(i, a[0], opts)
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
	b.fn("manifestYamlStream", []string{"value", "indent_array_in_object", "c_document_end", "quote_keys"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		arr, err := interp.AsArray(i, a[0], "std.manifestYamlStream")
		if err != nil {
			return nil, err
		}
		opts := manifest.DefaultYAMLOptions()
		if a[1] != nil {
			v, err := interp.AsBool(i, a[1], "std.manifestYamlStream")
			if err != nil {
				return nil, err
			}
			opts.IndentArrayInObject = v
		}
		if a[3] != nil {
			v, err := interp.AsBool(i, a[3], "std.manifestYamlStream")
			if err != nil {
				return nil, err
			}
			opts.QuoteKeys = v
		}
		cDocEnd := false
		if a[2] != nil {
			v, err := interp.AsBool(i, a[2], "std.manifestYamlStream")
			if err != nil {
				return nil, err
			}
			cDocEnd = v
		}
		s, err := manifest.YAMLStream(i, arr, opts, cDocEnd)
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("manifestToml", []string{"value"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := manifest.TOML(i, a[0], manifest.DefaultTOMLOptions())
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
	b.fn("manifestTomlEx", []string{"value", "indent"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		indent, err := interp.AsString(i, a[1], "std.manifestTomlEx")
		if err != nil {
			return nil, err
		}
		s, err := manifest.TOML(i, a[0], manifest.TOMLOptions{Indent: indent.Go()})
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("manifestIni", []string{"ini"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.manifestIni")
		if err != nil {
			return nil, err
		}
		s, err := manifest.INI(i, obj)
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("manifestPython", []string{"v"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := manifest.Python(i, a[0])
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
	b.fn("manifestPythonVars", []string{"conf"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		obj, err := interp.AsObject(i, a[0], "std.manifestPythonVars")
		if err != nil {
			return nil, err
		}
		s, err := manifest.PythonVars(i, obj)
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})

	b.fn("manifestXmlJsonml", []string{"value"}, func(i *interp.Interp, a []interp.Value) (interp.Value, error) {
		s, err := manifest.XMLJsonml(i, a[0])
		if err != nil {
			return nil, err
		}
		return interp.StringValue(s), nil
	})
}
