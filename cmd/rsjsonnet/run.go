package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/eduardosm/rsjsonnet/internal/ast"
	"github.com/eduardosm/rsjsonnet/internal/interp"
	"github.com/eduardosm/rsjsonnet/internal/manifest"
	"github.com/eduardosm/rsjsonnet/internal/parser"
	"github.com/eduardosm/rsjsonnet/internal/stdlib"
)

// Exit codes, per spec.md §6: 0 on success, 1 on evaluation error, 2 on
// usage error.
const (
	exitOK    = 0
	exitEval  = 1
	exitUsage = 2
)

// osFileProvider implements interp.FileProvider by reading from the host
// filesystem, the only provider the CLI needs (tests exercise Program
// against in-memory providers instead).
type osFileProvider struct{}

func (osFileProvider) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// klogTraceSink implements interp.TraceSink by forwarding std.trace
// messages to klog, the CLI's logging library, per SPEC_FULL.md §A.
type klogTraceSink struct{}

func (klogTraceSink) Trace(loc ast.LocationRange, msg string) {
	klog.Infof("TRACE: %s %s", loc.String(), msg)
}

// run executes one rsjsonnet invocation and returns the process exit code,
// writing diagnostics to stderr and results to stdout/files itself so
// main can stay a thin os.Exit(run(...)) wrapper.
func run(o *Options) int {
	if err := o.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "rsjsonnet: %v\n", err)
		return exitUsage
	}

	jpath := make([]string, len(o.JPath))
	for i, dir := range o.JPath {
		// -J is documented "rightmost wins"; Program searches jpath in
		// order, so reverse so the last -J given is tried first.
		jpath[len(o.JPath)-1-i] = dir
	}

	prog := interp.NewProgram(osFileProvider{}, parser.Parse, jpath)
	prog.SetTraceSink(klogTraceSink{})
	prog.SetMaxDepth(o.MaxStack)

	std, err := stdlib.New(prog.Interp())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rsjsonnet: internal error building standard library: %v\n", err)
		return exitEval
	}
	prog.SetStdlib(std)

	if err := bindExternalVars(prog, o); err != nil {
		fmt.Fprintf(os.Stderr, "rsjsonnet: %v\n", err)
		return exitUsage
	}
	if err := bindTLAs(prog, o); err != nil {
		fmt.Fprintf(os.Stderr, "rsjsonnet: %v\n", err)
		return exitUsage
	}

	var v interp.Value
	if o.AsCode {
		v, err = prog.EvaluateSnippet("<cmdline>", o.Filename)
	} else {
		v, err = prog.EvaluateFile(o.Filename)
	}
	if err != nil {
		printEvalError(err, o.MaxTrace)
		return exitEval
	}

	out, err := manifestResult(prog.Interp(), v, o)
	if err != nil {
		printEvalError(err, o.MaxTrace)
		return exitEval
	}

	if err := writeResult(o, out); err != nil {
		fmt.Fprintf(os.Stderr, "rsjsonnet: %v\n", err)
		return exitEval
	}
	return exitOK
}

// manifestResult dispatches among the output modes spec.md §6 lists for
// the embedding API's manifest step (evaluate-for-JSON is the default).
func manifestResult(i *interp.Interp, v interp.Value, o *Options) (map[string]string, error) {
	switch {
	case o.MultiDir != "":
		obj, err := interp.AsObject(i, v, "multi-file output")
		if err != nil {
			return nil, err
		}
		out := make(map[string]string)
		for _, name := range obj.Fields(false) {
			fv, err := obj.GetField(i, name)
			if err != nil {
				return nil, err
			}
			s, err := manifest.JSON(i, fv, manifest.DefaultJSONOptions())
			if err != nil {
				return nil, err
			}
			out[name] = s + "\n"
		}
		return out, nil
	case o.YAMLStream:
		arr, err := interp.AsArray(i, v, "-y YAML stream output")
		if err != nil {
			return nil, err
		}
		s, err := manifest.YAMLStream(i, arr, manifest.DefaultYAMLOptions(), false)
		if err != nil {
			return nil, err
		}
		return map[string]string{"": s}, nil
	case o.StringOut:
		s, err := interp.AsString(i, v, "-S string output")
		if err != nil {
			return nil, err
		}
		return map[string]string{"": s.Go()}, nil
	default:
		s, err := manifest.JSON(i, v, manifest.DefaultJSONOptions())
		if err != nil {
			return nil, err
		}
		return map[string]string{"": s + "\n"}, nil
	}
}

// writeResult writes the manifested output: either the single `""`-keyed
// entry to o.OutputFile or stdout, or (for -m) one file per entry under
// o.MultiDir.
func writeResult(o *Options, out map[string]string) error {
	if o.MultiDir != "" {
		if err := os.MkdirAll(o.MultiDir, 0o755); err != nil {
			return err
		}
		for name, content := range out {
			path := filepath.Join(o.MultiDir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
	content := out[""]
	if o.OutputFile != "" {
		return os.WriteFile(o.OutputFile, []byte(content), 0o644)
	}
	_, err := os.Stdout.WriteString(content)
	return err
}

// printEvalError renders a runtime/static error to stderr, eliding the
// middle of the trace when it exceeds maxTrace, per spec.md §4.4's
// note on trace display limits ("the middle of the trace is elided, not
// the ends").
func printEvalError(err error, maxTrace int) {
	evalErr, ok := err.(*interp.EvalError)
	if !ok || maxTrace <= 0 || len(evalErr.Trace) <= maxTrace {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	var b strings.Builder
	b.WriteString("RUNTIME ERROR: ")
	b.WriteString(evalErr.Msg)
	half := maxTrace / 2
	for idx, f := range evalErr.Trace {
		if idx == half && len(evalErr.Trace) > maxTrace {
			fmt.Fprintf(&b, "\n\t... (%d frames elided) ...", len(evalErr.Trace)-maxTrace)
		}
		if idx >= half && idx < len(evalErr.Trace)-(maxTrace-half) {
			continue
		}
		b.WriteByte('\n')
		b.WriteByte('\t')
		b.WriteString(f.Loc.String())
		if f.Desc != "" {
			b.WriteByte('\t')
			b.WriteString(f.Desc)
		}
	}
	fmt.Fprintln(os.Stderr, b.String())
}
