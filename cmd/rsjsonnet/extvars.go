package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/eduardosm/rsjsonnet/internal/interp"
)

// splitNameValue splits "var=value" into its two halves. If there is no
// "=", ok is false and value should come from the environment instead,
// per spec.md §6 ("-V var[=val] ... reads env if no val").
func splitNameValue(s string) (name, value string, ok bool) {
	if idx := strings.IndexByte(s, '='); idx >= 0 {
		return s[:idx], s[idx+1:], true
	}
	return s, "", false
}

// splitNameFile splits the required "var=file" form used by the
// *-file flags.
func splitNameFile(s string) (name, file string, err error) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", "", fmt.Errorf("expected var=file, got %q", s)
	}
	return s[:idx], s[idx+1:], nil
}

func envOrError(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("no value given for %q and no environment variable of that name is set", name)
	}
	return v, nil
}

// bindExternalVars applies -V/--ext-str-file/--ext-code/--ext-code-file
// to prog: all -V values first, then --ext-str-file, --ext-code and
// --ext-code-file, each flag's values in the order given.
func bindExternalVars(prog *interp.Program, o *Options) error {
	for _, arg := range o.ExtStr {
		name, value, hasValue := splitNameValue(arg)
		if !hasValue {
			var err error
			value, err = envOrError(name)
			if err != nil {
				return err
			}
		}
		prog.SetExtVar(name, value)
	}
	for _, arg := range o.ExtStrFile {
		name, file, err := splitNameFile(arg)
		if err != nil {
			return fmt.Errorf("--ext-str-file: %w", err)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("--ext-str-file %s: %w", name, err)
		}
		prog.SetExtVar(name, string(data))
	}
	for _, arg := range o.ExtCode {
		name, code, hasValue := splitNameValue(arg)
		if !hasValue {
			var err error
			code, err = envOrError(name)
			if err != nil {
				return err
			}
		}
		if err := prog.SetExtCode(name, code); err != nil {
			return fmt.Errorf("--ext-code %s: %w", name, err)
		}
	}
	for _, arg := range o.ExtCodeFile {
		name, file, err := splitNameFile(arg)
		if err != nil {
			return fmt.Errorf("--ext-code-file: %w", err)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("--ext-code-file %s: %w", name, err)
		}
		if err := prog.SetExtCode(name, string(data)); err != nil {
			return fmt.Errorf("--ext-code-file %s: %w", name, err)
		}
	}
	return nil
}

// bindTLAs applies -A/--tla-str-file/--tla-code/--tla-code-file,
// the analogous forms for top-level arguments.
func bindTLAs(prog *interp.Program, o *Options) error {
	for _, arg := range o.TlaStr {
		name, value, hasValue := splitNameValue(arg)
		if !hasValue {
			var err error
			value, err = envOrError(name)
			if err != nil {
				return err
			}
		}
		prog.SetTLAVar(name, value)
	}
	for _, arg := range o.TlaStrFile {
		name, file, err := splitNameFile(arg)
		if err != nil {
			return fmt.Errorf("--tla-str-file: %w", err)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("--tla-str-file %s: %w", name, err)
		}
		prog.SetTLAVar(name, string(data))
	}
	for _, arg := range o.TlaCode {
		name, code, hasValue := splitNameValue(arg)
		if !hasValue {
			var err error
			code, err = envOrError(name)
			if err != nil {
				return err
			}
		}
		if err := prog.SetTLACode(name, code); err != nil {
			return fmt.Errorf("--tla-code %s: %w", name, err)
		}
	}
	for _, arg := range o.TlaCodeFile {
		name, file, err := splitNameFile(arg)
		if err != nil {
			return fmt.Errorf("--tla-code-file: %w", err)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("--tla-code-file %s: %w", name, err)
		}
		if err := prog.SetTLACode(name, string(data)); err != nil {
			return fmt.Errorf("--tla-code-file %s: %w", name, err)
		}
	}
	return nil
}
